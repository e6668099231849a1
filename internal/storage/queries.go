package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/scrimstats/go-scrim-stats/internal/model"
)

// timeLayout matches the fractional-second format the schema defaults use,
// so Go-side values and SQLite defaults collate identically.
const timeLayout = "2006-01-02 15:04:05.000"

// ---- Players ----

// InsertPlayer stores a new player and returns its id.
func (db *DB) InsertPlayer(p model.Player) (int64, error) {
	subs := make([]string, 0, len(p.SubPositions))
	for _, r := range p.SubPositions {
		subs = append(subs, string(r))
	}
	res, err := db.conn.Exec(`
		INSERT INTO players(real_name, game_name, tag_line, main_position, sub_positions)
		VALUES (?, ?, ?, ?, ?)`,
		p.RealName, p.GameName, p.TagLine, string(p.MainPosition), strings.Join(subs, ","),
	)
	if err != nil {
		return 0, fmt.Errorf("insert player: %w", err)
	}
	return res.LastInsertId()
}

// GetPlayersByIDs returns the players with the given ids, keyed by id.
// Ids with no stored player are simply absent from the map.
func (db *DB) GetPlayersByIDs(ids []int64) (map[int64]model.Player, error) {
	out := make(map[int64]model.Player, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.conn.Query(`
		SELECT id, real_name, game_name, tag_line, main_position, sub_positions, created_at
		FROM players WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// ListPlayers returns all registered players ordered by id.
func (db *DB) ListPlayers() ([]model.Player, error) {
	rows, err := db.conn.Query(`
		SELECT id, real_name, game_name, tag_line, main_position, sub_positions, created_at
		FROM players ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPlayer(rows *sql.Rows) (model.Player, error) {
	var p model.Player
	var main, subs, created string
	if err := rows.Scan(&p.ID, &p.RealName, &p.GameName, &p.TagLine, &main, &subs, &created); err != nil {
		return p, err
	}
	p.MainPosition = model.Role(main)
	for _, s := range strings.Split(subs, ",") {
		if s != "" {
			p.SubPositions = append(p.SubPositions, model.Role(s))
		}
	}
	p.CreatedAt, _ = time.Parse(timeLayout, created)
	return p, nil
}

// ---- Matches ----

// InsertMatch stores a match header and its ban references, returning the new id.
func (db *DB) InsertMatch(m model.Match) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO matches(game_length_ms, game_duration_s, win_team, play_time_s, played_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.Metadata.GameLength, m.Metadata.GameDuration, string(m.Metadata.WinTeam),
		m.Metadata.PlayTime, m.PlayedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, ban := range m.BanChampions {
		if _, err := tx.Exec(`INSERT INTO match_bans(match_id, champion_id) VALUES (?, ?)`,
			id, ban.ChampionID); err != nil {
			return 0, fmt.Errorf("insert ban %s: %w", ban.ChampionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetMatch returns the match header with its bans, or nil when absent.
func (db *DB) GetMatch(id int64) (*model.Match, error) {
	var m model.Match
	var winTeam, playedAt, createdAt string
	err := db.conn.QueryRow(`
		SELECT id, game_length_ms, game_duration_s, win_team, play_time_s, played_at, created_at
		FROM matches WHERE id = ?`, id).
		Scan(&m.ID, &m.Metadata.GameLength, &m.Metadata.GameDuration, &winTeam,
			&m.Metadata.PlayTime, &playedAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.Metadata.WinTeam = model.Team(winTeam)
	m.PlayedAt, _ = time.Parse(timeLayout, playedAt)
	m.CreatedAt, _ = time.Parse(timeLayout, createdAt)

	rows, err := db.conn.Query(`SELECT champion_id FROM match_bans WHERE match_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ban model.BanRef
		if err := rows.Scan(&ban.ChampionID); err != nil {
			return nil, err
		}
		m.BanChampions = append(m.BanChampions, ban)
	}
	return &m, rows.Err()
}

// ListMatches returns all match headers with their bans, newest first.
func (db *DB) ListMatches() ([]model.Match, error) {
	rows, err := db.conn.Query(`
		SELECT id, game_length_ms, game_duration_s, win_team, play_time_s, played_at, created_at
		FROM matches ORDER BY played_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Match
	index := make(map[int64]int)
	for rows.Next() {
		var m model.Match
		var winTeam, playedAt, createdAt string
		if err := rows.Scan(&m.ID, &m.Metadata.GameLength, &m.Metadata.GameDuration,
			&winTeam, &m.Metadata.PlayTime, &playedAt, &createdAt); err != nil {
			return nil, err
		}
		m.Metadata.WinTeam = model.Team(winTeam)
		m.PlayedAt, _ = time.Parse(timeLayout, playedAt)
		m.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		index[m.ID] = len(out)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	banRows, err := db.conn.Query(`SELECT match_id, champion_id FROM match_bans`)
	if err != nil {
		return nil, err
	}
	defer banRows.Close()
	for banRows.Next() {
		var matchID int64
		var ban model.BanRef
		if err := banRows.Scan(&matchID, &ban.ChampionID); err != nil {
			return nil, err
		}
		if i, ok := index[matchID]; ok {
			out[i].BanChampions = append(out[i].BanChampions, ban)
		}
	}
	return out, banRows.Err()
}

// DeleteMatch removes the match header, its bans, and its participant rows.
func (db *DB) DeleteMatch(id int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM participant_stats WHERE match_id = ?`, id); err != nil {
		return fmt.Errorf("delete participants: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM match_bans WHERE match_id = ?`, id); err != nil {
		return fmt.Errorf("delete bans: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM matches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return tx.Commit()
}

// ---- Participant rows ----

const participantColumns = `
	id, match_id, player_id,
	riot_id_game_name, riot_id_tag_line, champion, team, role, win, level,
	kills, deaths, assists,
	double_kills, triple_kills, quadra_kills, penta_kills,
	gold_earned, creep_score,
	magic_damage_dealt, magic_damage_to_champions, magic_damage_taken,
	physical_damage_dealt, physical_damage_to_champions, physical_damage_taken,
	true_damage_dealt, true_damage_to_champions, true_damage_taken,
	total_damage_dealt, total_damage_to_champions, total_damage_taken,
	vision_score, control_wards_bought, wards_killed, wards_placed,
	items_json, perks_json, summoner_spells_json, created_at`

// InsertParticipants bulk-inserts participant rows in a transaction.
func (db *DB) InsertParticipants(stats []model.ParticipantStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO participant_stats(
			match_id, player_id,
			riot_id_game_name, riot_id_tag_line, champion, team, role, win, level,
			kills, deaths, assists,
			double_kills, triple_kills, quadra_kills, penta_kills,
			gold_earned, creep_score,
			magic_damage_dealt, magic_damage_to_champions, magic_damage_taken,
			physical_damage_dealt, physical_damage_to_champions, physical_damage_taken,
			true_damage_dealt, true_damage_to_champions, true_damage_taken,
			total_damage_dealt, total_damage_to_champions, total_damage_taken,
			vision_score, control_wards_bought, wards_killed, wards_placed,
			items_json, perks_json, summoner_spells_json
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		items, perks, spells, err := marshalLoadout(s)
		if err != nil {
			return err
		}
		_, err = stmt.Exec(
			s.MatchID, s.PlayerID,
			s.RiotIDGameName, s.RiotIDTagLine, s.Champion, string(s.Team), string(s.Role), boolInt(s.Win), s.Level,
			s.Kills, s.Deaths, s.Assists,
			s.DoubleKills, s.TripleKills, s.QuadraKills, s.PentaKills,
			s.GoldEarned, s.CreepScore,
			s.MagicDamageDealt, s.MagicDamageToChampions, s.MagicDamageTaken,
			s.PhysicalDamageDealt, s.PhysicalDamageToChampions, s.PhysicalDamageTaken,
			s.TrueDamageDealt, s.TrueDamageToChampions, s.TrueDamageTaken,
			s.TotalDamageDealt, s.TotalDamageToChampions, s.TotalDamageTaken,
			s.VisionScore, s.ControlWardsBought, s.WardsKilled, s.WardsPlaced,
			items, perks, spells,
		)
		if err != nil {
			return fmt.Errorf("insert participant %s#%s: %w", s.RiotIDGameName, s.RiotIDTagLine, err)
		}
	}
	return tx.Commit()
}

// GetParticipantsByMatch returns the participant rows of one match.
func (db *DB) GetParticipantsByMatch(matchID int64) ([]model.ParticipantStats, error) {
	return db.queryParticipants(`
		SELECT `+participantColumns+`
		FROM participant_stats WHERE match_id = ? ORDER BY id`, matchID)
}

// GetRecentParticipants returns a player's most recently created rows, newest
// first. Ordering is by the explicit (created_at, id) key; recent-form
// correctness depends on it.
func (db *DB) GetRecentParticipants(playerID int64, limit int) ([]model.ParticipantStats, error) {
	return db.queryParticipants(`
		SELECT `+participantColumns+`
		FROM participant_stats WHERE player_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, playerID, limit)
}

func (db *DB) queryParticipants(query string, args ...any) ([]model.ParticipantStats, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ParticipantStats
	for rows.Next() {
		var s model.ParticipantStats
		var team, role, created string
		var win int
		var items, perks, spells string
		if err := rows.Scan(
			&s.ID, &s.MatchID, &s.PlayerID,
			&s.RiotIDGameName, &s.RiotIDTagLine, &s.Champion, &team, &role, &win, &s.Level,
			&s.Kills, &s.Deaths, &s.Assists,
			&s.DoubleKills, &s.TripleKills, &s.QuadraKills, &s.PentaKills,
			&s.GoldEarned, &s.CreepScore,
			&s.MagicDamageDealt, &s.MagicDamageToChampions, &s.MagicDamageTaken,
			&s.PhysicalDamageDealt, &s.PhysicalDamageToChampions, &s.PhysicalDamageTaken,
			&s.TrueDamageDealt, &s.TrueDamageToChampions, &s.TrueDamageTaken,
			&s.TotalDamageDealt, &s.TotalDamageToChampions, &s.TotalDamageTaken,
			&s.VisionScore, &s.ControlWardsBought, &s.WardsKilled, &s.WardsPlaced,
			&items, &perks, &spells, &created,
		); err != nil {
			return nil, err
		}
		s.Team = model.Team(team)
		s.Role = model.Role(role)
		s.Win = win != 0
		s.CreatedAt, _ = time.Parse(timeLayout, created)
		if err := unmarshalLoadout(items, perks, spells, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// marshalLoadout serializes the nested item/rune/spell structures; they are
// display data, not queried columns, so JSON text columns keep the row narrow.
func marshalLoadout(s model.ParticipantStats) (items, perks, spells string, err error) {
	b, err := json.Marshal(s.Items)
	if err != nil {
		return "", "", "", fmt.Errorf("marshal items: %w", err)
	}
	items = string(b)
	if b, err = json.Marshal(s.Perks); err != nil {
		return "", "", "", fmt.Errorf("marshal perks: %w", err)
	}
	perks = string(b)
	if b, err = json.Marshal(s.SummonerSpells); err != nil {
		return "", "", "", fmt.Errorf("marshal summoner spells: %w", err)
	}
	return items, perks, string(b), nil
}

func unmarshalLoadout(items, perks, spells string, s *model.ParticipantStats) error {
	if err := json.Unmarshal([]byte(items), &s.Items); err != nil {
		return fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal([]byte(perks), &s.Perks); err != nil {
		return fmt.Errorf("unmarshal perks: %w", err)
	}
	if err := json.Unmarshal([]byte(spells), &s.SummonerSpells); err != nil {
		return fmt.Errorf("unmarshal summoner spells: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
