// Package stats maintains the denormalized aggregate tables. A single signed
// delta drives both the save path (+1) and the delete path (-1), so the two
// are exact inverses by construction.
package stats

import (
	"fmt"
	"strconv"

	"github.com/scrimstats/go-scrim-stats/internal/model"
	"github.com/scrimstats/go-scrim-stats/internal/storage"
)

// recentWindow is the number of most-recent rows the form snapshot covers.
const recentWindow = 10

// Engine applies participant and ban deltas to the aggregate tables.
type Engine struct {
	db *storage.DB
}

func NewEngine(db *storage.DB) *Engine {
	return &Engine{db: db}
}

// Apply folds one match's participants and bans into the aggregates with the
// given delta: +1 when saving, -1 when deleting. Global denominators move
// first so the touched rate recomputations see the updated values.
func (e *Engine) Apply(participants []model.ParticipantStats, bans []model.BanRef, delta int) error {
	totals, err := e.db.GetGlobalTotals()
	if err != nil {
		return fmt.Errorf("load global totals: %w", err)
	}
	totals.TotalMatches += delta
	totals.TotalBans += delta * len(bans)
	if err := e.db.SetGlobalTotals(totals); err != nil {
		return err
	}

	for _, p := range participants {
		if err := e.applyChampion(p, delta, totals); err != nil {
			return err
		}
		if err := e.applyPlayer(p, delta); err != nil {
			return err
		}
	}

	for _, ban := range bans {
		if err := e.applyBan(ban, delta, totals); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applyChampion(p model.ParticipantStats, delta int, totals model.GlobalTotals) error {
	agg, err := e.db.GetChampionAggregate(p.Champion)
	if err != nil {
		return fmt.Errorf("load champion %s: %w", p.Champion, err)
	}

	agg.TotalGames += delta
	if p.Win {
		agg.Wins += delta
	} else {
		agg.Losses += delta
	}
	agg.WinRate = model.Rate(agg.Wins, agg.TotalGames)
	agg.PickRate = model.Rate(agg.TotalGames, totals.TotalMatches)

	rs := agg.ByRole[p.Role]
	rs.Games += delta
	if p.Win {
		rs.Wins += delta
	}
	rs.WinRate = model.Rate(rs.Wins, rs.Games)
	agg.ByRole[p.Role] = rs

	return e.db.UpsertChampionAggregate(agg)
}

func (e *Engine) applyBan(ban model.BanRef, delta int, totals model.GlobalTotals) error {
	agg, err := e.db.GetChampionAggregate(ban.ChampionID)
	if err != nil {
		return fmt.Errorf("load banned champion %s: %w", ban.ChampionID, err)
	}
	agg.BanCount += delta
	agg.BanRate = model.Rate(agg.BanCount, totals.TotalBans)
	return e.db.UpsertChampionAggregate(agg)
}

func (e *Engine) applyPlayer(p model.ParticipantStats, delta int) error {
	agg, err := e.db.GetPlayerAggregate(p.PlayerID)
	if err != nil {
		return fmt.Errorf("load player rank %d: %w", p.PlayerID, err)
	}
	agg.TotalGames += delta
	if p.Win {
		agg.Wins += delta
	} else {
		agg.Losses += delta
	}
	agg.WinRate = model.Rate(agg.Wins, agg.TotalGames)
	return e.db.UpsertPlayerAggregate(agg)
}

// RecomputeRecentForm rebuilds a player's rolling-window snapshot from their
// most recent rows. The snapshot is never incremented in place; a full
// recompute cannot drift.
func (e *Engine) RecomputeRecentForm(playerID int64) (model.PlayerRecentForm, error) {
	recent, err := e.db.GetRecentParticipants(playerID, recentWindow)
	if err != nil {
		return model.PlayerRecentForm{}, fmt.Errorf("load recent rows for player %d: %w", playerID, err)
	}

	form := model.PlayerRecentForm{PlayerID: playerID, Games: len(recent)}
	for _, p := range recent {
		if p.Win {
			form.Wins++
		} else {
			form.Losses++
		}
		form.Kills += atoi(p.Kills)
		form.Deaths += atoi(p.Deaths)
		form.Assists += atoi(p.Assists)
	}
	if form.Games > 0 {
		form.WinAvg = model.Rate(form.Wins, form.Games)
		if form.Deaths == 0 {
			form.KDAAvg = float64(form.Kills + form.Assists)
		} else {
			form.KDAAvg = model.Round2(float64(form.Kills+form.Assists) / float64(form.Deaths))
		}
	}

	if err := e.db.UpsertRecentForm(form); err != nil {
		return form, err
	}
	return form, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
