package stats

import (
	"testing"

	"github.com/scrimstats/go-scrim-stats/internal/model"
	"github.com/scrimstats/go-scrim-stats/internal/storage"
)

func newTestEngine(t *testing.T) (*Engine, *storage.DB) {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewEngine(db), db
}

func participant(champion string, playerID int64, role model.Role, win bool) model.ParticipantStats {
	return model.ParticipantStats{
		Champion: champion,
		PlayerID: playerID,
		Role:     role,
		Win:      win,
		Kills:    "3",
		Deaths:   "1",
		Assists:  "4",
	}
}

func TestApplyBuildsAggregates(t *testing.T) {
	engine, db := newTestEngine(t)

	participants := []model.ParticipantStats{
		participant("Ahri", 1, model.RoleMiddle, true),
		participant("Yone", 2, model.RoleTop, false),
	}
	bans := []model.BanRef{{ChampionID: "Zed"}, {ChampionID: "Ahri"}}

	if err := engine.Apply(participants, bans, +1); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	totals, err := db.GetGlobalTotals()
	if err != nil {
		t.Fatalf("GetGlobalTotals: %v", err)
	}
	if totals.TotalMatches != 1 || totals.TotalBans != 2 {
		t.Errorf("totals = %+v, want 1 match / 2 bans", totals)
	}

	ahri, err := db.GetChampionAggregate("Ahri")
	if err != nil {
		t.Fatalf("GetChampionAggregate: %v", err)
	}
	if ahri.TotalGames != 1 || ahri.Wins != 1 || ahri.Losses != 0 {
		t.Errorf("ahri counts = %+v", ahri)
	}
	if ahri.WinRate != 100 || ahri.PickRate != 100 {
		t.Errorf("ahri rates = win %v pick %v, want 100/100", ahri.WinRate, ahri.PickRate)
	}
	// Ahri was also banned once out of two bans.
	if ahri.BanCount != 1 || ahri.BanRate != 50 {
		t.Errorf("ahri bans = %d at %v%%, want 1 at 50%%", ahri.BanCount, ahri.BanRate)
	}
	if rs := ahri.ByRole[model.RoleMiddle]; rs.Games != 1 || rs.Wins != 1 || rs.WinRate != 100 {
		t.Errorf("ahri middle = %+v", rs)
	}

	yone, _ := db.GetChampionAggregate("Yone")
	if yone.TotalGames != 1 || yone.Wins != 0 || yone.Losses != 1 || yone.WinRate != 0 {
		t.Errorf("yone = %+v", yone)
	}

	p1, _ := db.GetPlayerAggregate(1)
	if p1.TotalGames != 1 || p1.Wins != 1 || p1.WinRate != 100 {
		t.Errorf("player 1 = %+v", p1)
	}
	p2, _ := db.GetPlayerAggregate(2)
	if p2.Losses != 1 || p2.WinRate != 0 {
		t.Errorf("player 2 = %+v", p2)
	}
}

func TestRateArithmetic(t *testing.T) {
	engine, db := newTestEngine(t)

	// 99 matches and 6 Ahri games already on record.
	if err := db.SetGlobalTotals(model.GlobalTotals{TotalMatches: 99}); err != nil {
		t.Fatalf("SetGlobalTotals: %v", err)
	}
	if err := db.UpsertChampionAggregate(model.ChampionAggregate{
		ChampionID: "Ahri", TotalGames: 6, Wins: 3, Losses: 3,
		ByRole: map[model.Role]model.RoleStats{},
	}); err != nil {
		t.Fatalf("UpsertChampionAggregate: %v", err)
	}

	win := participant("Ahri", 1, model.RoleMiddle, true)
	if err := engine.Apply([]model.ParticipantStats{win}, nil, +1); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	ahri, _ := db.GetChampionAggregate("Ahri")
	if ahri.TotalGames != 7 || ahri.Wins != 4 {
		t.Fatalf("counts = %+v", ahri)
	}
	if ahri.PickRate != 7 {
		t.Errorf("pickRate = %v, want 7.00 (7 of 100 matches)", ahri.PickRate)
	}
	if ahri.WinRate != 57.14 {
		t.Errorf("winRate = %v, want 57.14 (4 of 7)", ahri.WinRate)
	}
}

func TestApplyIsInvertible(t *testing.T) {
	engine, db := newTestEngine(t)

	// Pre-existing state from an earlier match.
	seed := []model.ParticipantStats{
		participant("Ahri", 1, model.RoleMiddle, true),
		participant("Yone", 2, model.RoleTop, false),
	}
	if err := engine.Apply(seed, []model.BanRef{{ChampionID: "Zed"}}, +1); err != nil {
		t.Fatalf("seed Apply: %v", err)
	}

	before := snapshot(t, db)

	next := []model.ParticipantStats{
		participant("Ahri", 1, model.RoleMiddle, false),
		participant("Zed", 3, model.RoleJungle, true),
	}
	bans := []model.BanRef{{ChampionID: "Ahri"}, {ChampionID: "Yone"}}
	if err := engine.Apply(next, bans, +1); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := engine.Apply(next, bans, -1); err != nil {
		t.Fatalf("reverse Apply: %v", err)
	}

	after := snapshot(t, db)
	if before != after {
		t.Errorf("save-then-delete drifted:\nbefore %+v\nafter  %+v", before, after)
	}
}

// champSnap is the comparable projection of a champion aggregate.
type champSnap struct {
	games, wins, losses int
	winRate, pickRate   float64
	banCount            int
	banRate             float64
	midRole             model.RoleStats
}

type stateSnapshot struct {
	totals     model.GlobalTotals
	ahri, yone champSnap
	p1, p2, p3 model.PlayerAggregate
}

func champSnapOf(t *testing.T, db *storage.DB, championID string) champSnap {
	t.Helper()
	agg, err := db.GetChampionAggregate(championID)
	if err != nil {
		t.Fatalf("GetChampionAggregate(%s): %v", championID, err)
	}
	return champSnap{
		games: agg.TotalGames, wins: agg.Wins, losses: agg.Losses,
		winRate: agg.WinRate, pickRate: agg.PickRate,
		banCount: agg.BanCount, banRate: agg.BanRate,
		midRole: agg.ByRole[model.RoleMiddle],
	}
}

func snapshot(t *testing.T, db *storage.DB) stateSnapshot {
	t.Helper()
	var s stateSnapshot
	var err error
	if s.totals, err = db.GetGlobalTotals(); err != nil {
		t.Fatalf("GetGlobalTotals: %v", err)
	}
	s.ahri = champSnapOf(t, db, "Ahri")
	s.yone = champSnapOf(t, db, "Yone")
	if s.p1, err = db.GetPlayerAggregate(1); err != nil {
		t.Fatalf("GetPlayerAggregate: %v", err)
	}
	if s.p2, err = db.GetPlayerAggregate(2); err != nil {
		t.Fatalf("GetPlayerAggregate: %v", err)
	}
	if s.p3, err = db.GetPlayerAggregate(3); err != nil {
		t.Fatalf("GetPlayerAggregate: %v", err)
	}
	return s
}

func TestRecentFormEmpty(t *testing.T) {
	engine, _ := newTestEngine(t)

	form, err := engine.RecomputeRecentForm(42)
	if err != nil {
		t.Fatalf("RecomputeRecentForm: %v", err)
	}
	if form.Games != 0 || form.WinAvg != 0 || form.KDAAvg != 0 {
		t.Errorf("empty form = %+v, want all zeros", form)
	}
}

func TestRecentFormDeathlessKDA(t *testing.T) {
	engine, db := newTestEngine(t)

	// 3 games, 10 kills, 0 deaths, 5 assists in total.
	rows := []model.ParticipantStats{
		{MatchID: 1, PlayerID: 7, Win: true, Kills: "4", Deaths: "0", Assists: "2"},
		{MatchID: 2, PlayerID: 7, Win: true, Kills: "3", Deaths: "0", Assists: "2"},
		{MatchID: 3, PlayerID: 7, Win: false, Kills: "3", Deaths: "0", Assists: "1"},
	}
	if err := db.InsertParticipants(rows); err != nil {
		t.Fatalf("InsertParticipants: %v", err)
	}

	form, err := engine.RecomputeRecentForm(7)
	if err != nil {
		t.Fatalf("RecomputeRecentForm: %v", err)
	}
	if form.Games != 3 || form.Wins != 2 || form.Losses != 1 {
		t.Errorf("counts = %+v", form)
	}
	// Deathless window: kdaAvg is the raw kills+assists sum.
	if form.KDAAvg != 15 {
		t.Errorf("kdaAvg = %v, want 15", form.KDAAvg)
	}
	if form.WinAvg != 66.67 {
		t.Errorf("winAvg = %v, want 66.67", form.WinAvg)
	}
}

func TestRecentFormWindowIsTen(t *testing.T) {
	engine, db := newTestEngine(t)

	// 12 rows; only the latest 10 count. The two oldest are losses with
	// huge death counts that must fall out of the window.
	for i := 0; i < 12; i++ {
		row := model.ParticipantStats{
			MatchID:  int64(i + 1),
			PlayerID: 5,
			Win:      i >= 2,
			Kills:    "2",
			Deaths:   "1",
			Assists:  "3",
		}
		if i < 2 {
			row.Deaths = "99"
			row.Win = false
		}
		if err := db.InsertParticipants([]model.ParticipantStats{row}); err != nil {
			t.Fatalf("InsertParticipants: %v", err)
		}
	}

	form, err := engine.RecomputeRecentForm(5)
	if err != nil {
		t.Fatalf("RecomputeRecentForm: %v", err)
	}
	if form.Games != 10 {
		t.Fatalf("games = %d, want 10", form.Games)
	}
	if form.Wins != 10 || form.Losses != 0 {
		t.Errorf("wins/losses = %d/%d, the old losses must be outside the window", form.Wins, form.Losses)
	}
	if form.Deaths != 10 {
		t.Errorf("deaths = %d, want 10", form.Deaths)
	}
	// (2+3)*10 / 10 deaths = 5.0
	if form.KDAAvg != 5 {
		t.Errorf("kdaAvg = %v, want 5", form.KDAAvg)
	}
	if form.WinAvg != 100 {
		t.Errorf("winAvg = %v, want 100", form.WinAvg)
	}
}
