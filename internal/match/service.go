// Package match orchestrates replay parsing, persistence and aggregate
// maintenance for scrim matches.
package match

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/scrimstats/go-scrim-stats/internal/model"
	"github.com/scrimstats/go-scrim-stats/internal/refdata"
	"github.com/scrimstats/go-scrim-stats/internal/rofl"
	"github.com/scrimstats/go-scrim-stats/internal/stats"
	"github.com/scrimstats/go-scrim-stats/internal/storage"
)

var (
	// ErrInvalidMapping reports a save request whose roster mappings do not
	// cover every slot exactly once.
	ErrInvalidMapping = errors.New("invalid player mapping")

	// ErrUnknownPlayer reports a mapping that references a player id with no
	// stored player.
	ErrUnknownPlayer = errors.New("unknown player reference")

	// ErrMatchNotFound reports a delete or lookup of a nonexistent match id.
	ErrMatchNotFound = errors.New("match not found")
)

const rosterSize = 5

// Service ties the parser, catalog, store and aggregate engine together.
type Service struct {
	db      *storage.DB
	catalog *refdata.Catalog
	engine  *stats.Engine
}

func NewService(db *storage.DB, catalog *refdata.Catalog) *Service {
	return &Service{db: db, catalog: catalog, engine: stats.NewEngine(db)}
}

// PreviewFile parses and normalizes the replay at path for confirmation.
func (s *Service) PreviewFile(path string) (*model.Preview, error) {
	replay, err := rofl.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return s.preview(replay), nil
}

// Preview parses and normalizes an in-memory replay buffer. A replay without
// a stats payload (an aborted game) yields metadata with empty rosters.
func (s *Service) Preview(buf []byte) (*model.Preview, error) {
	replay, err := rofl.Parse(buf)
	if err != nil {
		return nil, err
	}
	return s.preview(replay), nil
}

func (s *Service) preview(replay *rofl.Replay) *model.Preview {
	p := &model.Preview{Metadata: replay.Metadata}
	for _, ps := range rofl.NormalizeAll(replay.Raw, s.catalog) {
		if ps.Team == model.TeamBlue {
			p.BlueTeam = append(p.BlueTeam, ps)
		} else {
			p.RedTeam = append(p.RedTeam, ps)
		}
	}
	sortByRole(p.BlueTeam)
	sortByRole(p.RedTeam)
	return p
}

func sortByRole(roster []model.ParticipantStats) {
	sort.SliceStable(roster, func(i, j int) bool {
		return model.RoleOrder(roster[i].Role) < model.RoleOrder(roster[j].Role)
	})
}

// Save persists a confirmed match. Side effects run in a fixed order: match
// header and bans, then the 10 participant rows stamped with the mapped
// players' stored identities, then the aggregate apply pass, then a
// recent-form recompute for every distinct mapped player.
func (s *Service) Save(req model.SaveMatchRequest) (int64, error) {
	players, err := s.resolveMappings(req)
	if err != nil {
		return 0, err
	}

	playedAt := time.Now()
	if req.PlayedAt != nil {
		playedAt = *req.PlayedAt
	}

	matchID, err := s.db.InsertMatch(model.Match{
		Metadata:     req.Metadata,
		BanChampions: req.BanChampions,
		PlayedAt:     playedAt,
	})
	if err != nil {
		return 0, err
	}

	participants := make([]model.ParticipantStats, 0, 2*rosterSize)
	for _, m := range req.PlayerMappings {
		ps := rosterSlot(req, m.Team, m.Index)
		player := players[m.PlayerID]
		ps.MatchID = matchID
		ps.PlayerID = player.ID
		// Stored identity wins over the replay's self-reported name, which
		// goes stale when a player renames.
		ps.RiotIDGameName = player.GameName
		ps.RiotIDTagLine = player.TagLine
		participants = append(participants, ps)
	}
	if err := s.db.InsertParticipants(participants); err != nil {
		return 0, err
	}

	if err := s.engine.Apply(participants, req.BanChampions, +1); err != nil {
		return 0, err
	}
	if _, err := s.recomputeForms(participants); err != nil {
		return 0, err
	}
	return matchID, nil
}

// resolveMappings checks that the 10 mappings cover every roster slot exactly
// once and that every referenced player exists, returning the players by id.
func (s *Service) resolveMappings(req model.SaveMatchRequest) (map[int64]model.Player, error) {
	if len(req.BlueTeam) != rosterSize || len(req.RedTeam) != rosterSize {
		return nil, fmt.Errorf("%w: rosters must hold %d players per side", ErrInvalidMapping, rosterSize)
	}
	if len(req.PlayerMappings) != 2*rosterSize {
		return nil, fmt.Errorf("%w: got %d mappings, want %d", ErrInvalidMapping, len(req.PlayerMappings), 2*rosterSize)
	}

	type slot struct {
		team  model.Team
		index int
	}
	seen := make(map[slot]bool, 2*rosterSize)
	ids := make([]int64, 0, 2*rosterSize)
	for _, m := range req.PlayerMappings {
		if m.Index < 0 || m.Index >= rosterSize || (m.Team != model.TeamBlue && m.Team != model.TeamRed) {
			return nil, fmt.Errorf("%w: no roster slot %s[%d]", ErrInvalidMapping, m.Team, m.Index)
		}
		key := slot{m.Team, m.Index}
		if seen[key] {
			return nil, fmt.Errorf("%w: slot %s[%d] mapped twice", ErrInvalidMapping, m.Team, m.Index)
		}
		seen[key] = true
		ids = append(ids, m.PlayerID)
	}

	players, err := s.db.GetPlayersByIDs(ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := players[id]; !ok {
			return nil, fmt.Errorf("%w: player %d", ErrUnknownPlayer, id)
		}
	}
	return players, nil
}

func rosterSlot(req model.SaveMatchRequest, team model.Team, index int) model.ParticipantStats {
	if team == model.TeamBlue {
		return req.BlueTeam[index]
	}
	return req.RedTeam[index]
}

// Delete removes a match and reverses its aggregate contributions, returning
// the number of distinct affected players. The reverse pass runs before the
// rows are deleted so it sees their field values; recent form is recomputed
// after deletion so the rows are gone.
func (s *Service) Delete(matchID int64) (int, error) {
	m, err := s.db.GetMatch(matchID)
	if err != nil {
		return 0, err
	}
	if m == nil {
		return 0, fmt.Errorf("%w: id %d", ErrMatchNotFound, matchID)
	}

	participants, err := s.db.GetParticipantsByMatch(matchID)
	if err != nil {
		return 0, err
	}

	if err := s.engine.Apply(participants, m.BanChampions, -1); err != nil {
		return 0, err
	}
	if err := s.db.DeleteMatch(matchID); err != nil {
		return 0, err
	}
	return s.recomputeForms(participants)
}

// recomputeForms rebuilds recent form once per distinct player and reports
// how many players were touched.
func (s *Service) recomputeForms(participants []model.ParticipantStats) (int, error) {
	done := make(map[int64]bool, len(participants))
	for _, p := range participants {
		if done[p.PlayerID] {
			continue
		}
		done[p.PlayerID] = true
		if _, err := s.engine.RecomputeRecentForm(p.PlayerID); err != nil {
			return len(done) - 1, err
		}
	}
	return len(done), nil
}

// Get returns a stored match with its participant rows.
func (s *Service) Get(matchID int64) (*model.Match, []model.ParticipantStats, error) {
	m, err := s.db.GetMatch(matchID)
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, fmt.Errorf("%w: id %d", ErrMatchNotFound, matchID)
	}
	participants, err := s.db.GetParticipantsByMatch(matchID)
	if err != nil {
		return nil, nil, err
	}
	return m, participants, nil
}

// List returns all stored match headers, newest first.
func (s *Service) List() ([]model.Match, error) {
	return s.db.ListMatches()
}
