package storage

import (
	"database/sql"
	"fmt"

	"github.com/scrimstats/go-scrim-stats/internal/model"
)

// ---- Champion aggregates ----

// GetChampionAggregate returns the rollup for one champion, with its per-role
// sub-records. A champion never played or banned yields an empty aggregate.
func (db *DB) GetChampionAggregate(championID string) (model.ChampionAggregate, error) {
	agg := model.ChampionAggregate{
		ChampionID: championID,
		ByRole:     make(map[model.Role]model.RoleStats),
	}

	err := db.conn.QueryRow(`
		SELECT total_games, wins, losses, win_rate, pick_rate, ban_count, ban_rate
		FROM champion_stats WHERE champion_id = ?`, championID).
		Scan(&agg.TotalGames, &agg.Wins, &agg.Losses, &agg.WinRate,
			&agg.PickRate, &agg.BanCount, &agg.BanRate)
	if err != nil && err != sql.ErrNoRows {
		return agg, err
	}

	rows, err := db.conn.Query(`
		SELECT role, games, wins, win_rate
		FROM champion_role_stats WHERE champion_id = ?`, championID)
	if err != nil {
		return agg, err
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var rs model.RoleStats
		if err := rows.Scan(&role, &rs.Games, &rs.Wins, &rs.WinRate); err != nil {
			return agg, err
		}
		agg.ByRole[model.Role(role)] = rs
	}
	return agg, rows.Err()
}

// UpsertChampionAggregate writes the rollup and its role sub-records in one
// transaction. Role records with zero games are removed rather than kept.
func (db *DB) UpsertChampionAggregate(agg model.ChampionAggregate) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO champion_stats(champion_id, total_games, wins, losses, win_rate, pick_rate, ban_count, ban_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(champion_id) DO UPDATE SET
			total_games = excluded.total_games,
			wins        = excluded.wins,
			losses      = excluded.losses,
			win_rate    = excluded.win_rate,
			pick_rate   = excluded.pick_rate,
			ban_count   = excluded.ban_count,
			ban_rate    = excluded.ban_rate`,
		agg.ChampionID, agg.TotalGames, agg.Wins, agg.Losses,
		agg.WinRate, agg.PickRate, agg.BanCount, agg.BanRate)
	if err != nil {
		return fmt.Errorf("upsert champion %s: %w", agg.ChampionID, err)
	}

	for role, rs := range agg.ByRole {
		if rs.Games == 0 {
			if _, err := tx.Exec(`DELETE FROM champion_role_stats WHERE champion_id = ? AND role = ?`,
				agg.ChampionID, string(role)); err != nil {
				return err
			}
			continue
		}
		_, err = tx.Exec(`
			INSERT INTO champion_role_stats(champion_id, role, games, wins, win_rate)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(champion_id, role) DO UPDATE SET
				games    = excluded.games,
				wins     = excluded.wins,
				win_rate = excluded.win_rate`,
			agg.ChampionID, string(role), rs.Games, rs.Wins, rs.WinRate)
		if err != nil {
			return fmt.Errorf("upsert champion %s role %s: %w", agg.ChampionID, role, err)
		}
	}
	return tx.Commit()
}

// ListChampionAggregates returns all champion rollups ordered by the given
// rate column descending. orderBy must be one of the champRate constants.
func (db *DB) ListChampionAggregates(orderBy ChampionOrder) ([]model.ChampionAggregate, error) {
	var col string
	switch orderBy {
	case OrderByWinRate:
		col = "win_rate"
	case OrderByPickRate:
		col = "pick_rate"
	case OrderByBanRate:
		col = "ban_rate"
	default:
		return nil, fmt.Errorf("unknown champion order %q", orderBy)
	}

	rows, err := db.conn.Query(`
		SELECT champion_id, total_games, wins, losses, win_rate, pick_rate, ban_count, ban_rate
		FROM champion_stats
		ORDER BY ` + col + ` DESC, total_games DESC, champion_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ChampionAggregate
	for rows.Next() {
		agg := model.ChampionAggregate{ByRole: make(map[model.Role]model.RoleStats)}
		if err := rows.Scan(&agg.ChampionID, &agg.TotalGames, &agg.Wins, &agg.Losses,
			&agg.WinRate, &agg.PickRate, &agg.BanCount, &agg.BanRate); err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, rows.Err()
}

// ChampionOrder selects the sort column for champion listings.
type ChampionOrder string

const (
	OrderByWinRate  ChampionOrder = "win"
	OrderByPickRate ChampionOrder = "pick"
	OrderByBanRate  ChampionOrder = "ban"
)

// RoleLeaders returns, per role, the champions with the most games in that
// role, descending, limited per role.
func (db *DB) RoleLeaders(limit int) (map[model.Role][]model.ChampionAggregate, error) {
	out := make(map[model.Role][]model.ChampionAggregate)
	for _, role := range model.Roles() {
		rows, err := db.conn.Query(`
			SELECT champion_id, games, wins, win_rate
			FROM champion_role_stats WHERE role = ?
			ORDER BY games DESC, win_rate DESC, champion_id LIMIT ?`, string(role), limit)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var agg model.ChampionAggregate
			var rs model.RoleStats
			if err := rows.Scan(&agg.ChampionID, &rs.Games, &rs.Wins, &rs.WinRate); err != nil {
				rows.Close()
				return nil, err
			}
			agg.ByRole = map[model.Role]model.RoleStats{role: rs}
			out[role] = append(out[role], agg)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}

// ---- Player aggregates ----

// GetPlayerAggregate returns a player's lifetime rollup, zeroed when absent.
func (db *DB) GetPlayerAggregate(playerID int64) (model.PlayerAggregate, error) {
	agg := model.PlayerAggregate{PlayerID: playerID}
	err := db.conn.QueryRow(`
		SELECT total_games, wins, losses, win_rate
		FROM player_rank_stats WHERE player_id = ?`, playerID).
		Scan(&agg.TotalGames, &agg.Wins, &agg.Losses, &agg.WinRate)
	if err == sql.ErrNoRows {
		return agg, nil
	}
	return agg, err
}

// UpsertPlayerAggregate writes a player's lifetime rollup.
func (db *DB) UpsertPlayerAggregate(agg model.PlayerAggregate) error {
	_, err := db.conn.Exec(`
		INSERT INTO player_rank_stats(player_id, total_games, wins, losses, win_rate)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			total_games = excluded.total_games,
			wins        = excluded.wins,
			losses      = excluded.losses,
			win_rate    = excluded.win_rate`,
		agg.PlayerID, agg.TotalGames, agg.Wins, agg.Losses, agg.WinRate)
	if err != nil {
		return fmt.Errorf("upsert player rank %d: %w", agg.PlayerID, err)
	}
	return nil
}

// ListPlayerRankings returns all player rollups by win rate descending.
func (db *DB) ListPlayerRankings() ([]model.PlayerAggregate, error) {
	rows, err := db.conn.Query(`
		SELECT player_id, total_games, wins, losses, win_rate
		FROM player_rank_stats
		ORDER BY win_rate DESC, total_games DESC, player_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerAggregate
	for rows.Next() {
		var agg model.PlayerAggregate
		if err := rows.Scan(&agg.PlayerID, &agg.TotalGames, &agg.Wins, &agg.Losses, &agg.WinRate); err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, rows.Err()
}

// ---- Recent form ----

// GetRecentForm returns a player's stored recent-form snapshot, zeroed when absent.
func (db *DB) GetRecentForm(playerID int64) (model.PlayerRecentForm, error) {
	form := model.PlayerRecentForm{PlayerID: playerID}
	err := db.conn.QueryRow(`
		SELECT games, wins, losses, win_avg, kills, deaths, assists, kda_avg
		FROM player_recent_form WHERE player_id = ?`, playerID).
		Scan(&form.Games, &form.Wins, &form.Losses, &form.WinAvg,
			&form.Kills, &form.Deaths, &form.Assists, &form.KDAAvg)
	if err == sql.ErrNoRows {
		return form, nil
	}
	return form, err
}

// UpsertRecentForm writes a player's recent-form snapshot.
func (db *DB) UpsertRecentForm(form model.PlayerRecentForm) error {
	_, err := db.conn.Exec(`
		INSERT INTO player_recent_form(player_id, games, wins, losses, win_avg, kills, deaths, assists, kda_avg)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			games   = excluded.games,
			wins    = excluded.wins,
			losses  = excluded.losses,
			win_avg = excluded.win_avg,
			kills   = excluded.kills,
			deaths  = excluded.deaths,
			assists = excluded.assists,
			kda_avg = excluded.kda_avg`,
		form.PlayerID, form.Games, form.Wins, form.Losses, form.WinAvg,
		form.Kills, form.Deaths, form.Assists, form.KDAAvg)
	if err != nil {
		return fmt.Errorf("upsert recent form %d: %w", form.PlayerID, err)
	}
	return nil
}

// ---- Global totals ----

// GetGlobalTotals returns the shared pick/ban denominators.
func (db *DB) GetGlobalTotals() (model.GlobalTotals, error) {
	var totals model.GlobalTotals
	err := db.conn.QueryRow(`SELECT total_matches, total_bans FROM global_stats WHERE id = 1`).
		Scan(&totals.TotalMatches, &totals.TotalBans)
	if err == sql.ErrNoRows {
		return totals, nil
	}
	return totals, err
}

// SetGlobalTotals overwrites the shared denominators.
func (db *DB) SetGlobalTotals(totals model.GlobalTotals) error {
	_, err := db.conn.Exec(`
		UPDATE global_stats SET total_matches = ?, total_bans = ? WHERE id = 1`,
		totals.TotalMatches, totals.TotalBans)
	if err != nil {
		return fmt.Errorf("set global totals: %w", err)
	}
	return nil
}
