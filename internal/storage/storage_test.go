package storage

import (
	"testing"
	"time"

	"github.com/scrimstats/go-scrim-stats/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertTestPlayer(t *testing.T, db *DB, gameName string) int64 {
	t.Helper()
	id, err := db.InsertPlayer(model.Player{
		RealName:     "Kim Test",
		GameName:     gameName,
		TagLine:      "KR1",
		MainPosition: model.RoleMiddle,
		SubPositions: []model.Role{model.RoleTop, model.RoleBottom},
	})
	if err != nil {
		t.Fatalf("InsertPlayer: %v", err)
	}
	return id
}

func testParticipant(matchID, playerID int64, win bool) model.ParticipantStats {
	name := "Faker"
	return model.ParticipantStats{
		MatchID:        matchID,
		PlayerID:       playerID,
		RiotIDGameName: "Hide on bush",
		RiotIDTagLine:  "KR1",
		Champion:       "Ahri",
		Team:           model.TeamBlue,
		Role:           model.RoleMiddle,
		Win:            win,
		Level:          "18",
		Kills:          "7",
		Deaths:         "2",
		Assists:        "11",
		GoldEarned:     "14302",
		CreepScore:     "245",
		VisionScore:    "31",
		Items: []model.RefValue{
			{ID: "1001", Name: &name},
			{ID: "0"}, {ID: "0"}, {ID: "0"}, {ID: "0"}, {ID: "0"}, {ID: "0"},
		},
		Perks: model.Perks{
			PrimaryStyle: model.RuneStyle{
				Style:    model.RefValue{ID: "8000"},
				Keystone: model.RefValue{ID: "8005"},
				Slots:    []model.RefValue{{ID: "9111"}, {ID: "9104"}, {ID: "8014"}},
			},
			SubStyle: model.RuneStyle{
				Style: model.RefValue{ID: "8100"},
				Slots: []model.RefValue{{ID: "8139"}, {ID: "8135"}},
			},
			StatPerks: []string{"5008", "5008", "5002"},
		},
		SummonerSpells: []model.RefValue{{ID: "4"}, {ID: "14"}},
	}
}

func TestPlayerRoundtrip(t *testing.T) {
	db := openMemDB(t)

	id := insertTestPlayer(t, db, "Hide on bush")

	players, err := db.GetPlayersByIDs([]int64{id, 999})
	if err != nil {
		t.Fatalf("GetPlayersByIDs: %v", err)
	}
	p, ok := players[id]
	if !ok {
		t.Fatal("inserted player missing from result")
	}
	if p.GameName != "Hide on bush" || p.MainPosition != model.RoleMiddle {
		t.Errorf("got %+v", p)
	}
	if len(p.SubPositions) != 2 || p.SubPositions[0] != model.RoleTop {
		t.Errorf("sub positions = %v", p.SubPositions)
	}
	if _, ok := players[999]; ok {
		t.Error("id 999 must be absent, not zero-valued")
	}

	list, err := db.ListPlayers()
	if err != nil {
		t.Fatalf("ListPlayers: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("got %d players, want 1", len(list))
	}
}

func TestMatchRoundtrip(t *testing.T) {
	db := openMemDB(t)

	playedAt := time.Date(2025, 8, 14, 19, 30, 0, 0, time.UTC)
	id, err := db.InsertMatch(model.Match{
		Metadata: model.GameMetadata{
			GameLength:   1825500,
			GameDuration: 1825,
			WinTeam:      model.TeamBlue,
			PlayTime:     1825,
		},
		BanChampions: []model.BanRef{{ChampionID: "Yone"}, {ChampionID: "Ksante"}},
		PlayedAt:     playedAt,
	})
	if err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	m, err := db.GetMatch(id)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if m == nil {
		t.Fatal("match not found after insert")
	}
	if m.Metadata.GameLength != 1825500 || m.Metadata.WinTeam != model.TeamBlue {
		t.Errorf("metadata = %+v", m.Metadata)
	}
	if !m.PlayedAt.Equal(playedAt) {
		t.Errorf("PlayedAt = %v, want %v", m.PlayedAt, playedAt)
	}
	if len(m.BanChampions) != 2 || m.BanChampions[0].ChampionID != "Yone" {
		t.Errorf("bans = %+v", m.BanChampions)
	}

	missing, err := db.GetMatch(id + 100)
	if err != nil {
		t.Fatalf("GetMatch(missing): %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown match id")
	}
}

func TestDeleteMatchCascades(t *testing.T) {
	db := openMemDB(t)

	id, err := db.InsertMatch(model.Match{
		Metadata:     model.GameMetadata{WinTeam: model.TeamRed},
		BanChampions: []model.BanRef{{ChampionID: "Zed"}},
		PlayedAt:     time.Now(),
	})
	if err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	if err := db.InsertParticipants([]model.ParticipantStats{testParticipant(id, 1, true)}); err != nil {
		t.Fatalf("InsertParticipants: %v", err)
	}

	if err := db.DeleteMatch(id); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}

	m, err := db.GetMatch(id)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if m != nil {
		t.Error("match still present after delete")
	}
	rows, err := db.GetParticipantsByMatch(id)
	if err != nil {
		t.Fatalf("GetParticipantsByMatch: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("%d participant rows survived the delete", len(rows))
	}
}

func TestParticipantRoundtrip(t *testing.T) {
	db := openMemDB(t)

	want := testParticipant(7, 3, true)
	if err := db.InsertParticipants([]model.ParticipantStats{want}); err != nil {
		t.Fatalf("InsertParticipants: %v", err)
	}

	rows, err := db.GetParticipantsByMatch(7)
	if err != nil {
		t.Fatalf("GetParticipantsByMatch: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	got := rows[0]
	if got.Champion != "Ahri" || got.Kills != "7" || !got.Win || got.Role != model.RoleMiddle {
		t.Errorf("row = %+v", got)
	}
	if len(got.Items) != 7 || got.Items[0].ID != "1001" || got.Items[0].Name == nil {
		t.Errorf("items = %+v", got.Items)
	}
	if got.Perks.PrimaryStyle.Keystone.ID != "8005" || len(got.Perks.SubStyle.Slots) != 2 {
		t.Errorf("perks = %+v", got.Perks)
	}
	if len(got.SummonerSpells) != 2 || got.SummonerSpells[1].ID != "14" {
		t.Errorf("spells = %+v", got.SummonerSpells)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not populated")
	}
}

func TestGetRecentParticipantsOrderAndLimit(t *testing.T) {
	db := openMemDB(t)

	// Rows inserted in one burst can share a created_at; the id tiebreak
	// must still yield newest-first.
	for i := 0; i < 12; i++ {
		p := testParticipant(int64(i+1), 5, i%2 == 0)
		p.Kills = "1"
		if i == 11 {
			p.Champion = "Orianna"
		}
		if err := db.InsertParticipants([]model.ParticipantStats{p}); err != nil {
			t.Fatalf("InsertParticipants: %v", err)
		}
	}

	recent, err := db.GetRecentParticipants(5, 10)
	if err != nil {
		t.Fatalf("GetRecentParticipants: %v", err)
	}
	if len(recent) != 10 {
		t.Fatalf("got %d rows, want 10", len(recent))
	}
	if recent[0].Champion != "Orianna" {
		t.Errorf("first row champion = %s, want the last-inserted Orianna", recent[0].Champion)
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].ID > recent[i-1].ID {
			t.Fatalf("rows not newest-first at index %d", i)
		}
	}
}

func TestChampionAggregateRoundtrip(t *testing.T) {
	db := openMemDB(t)

	// Unknown champion yields a zeroed aggregate, not an error.
	empty, err := db.GetChampionAggregate("Ahri")
	if err != nil {
		t.Fatalf("GetChampionAggregate: %v", err)
	}
	if empty.TotalGames != 0 || len(empty.ByRole) != 0 {
		t.Errorf("got %+v, want zeroed", empty)
	}

	want := model.ChampionAggregate{
		ChampionID: "Ahri",
		TotalGames: 7, Wins: 4, Losses: 3,
		WinRate: 57.14, PickRate: 7, BanCount: 2, BanRate: 10,
		ByRole: map[model.Role]model.RoleStats{
			model.RoleMiddle: {Games: 6, Wins: 4, WinRate: 66.67},
			model.RoleTop:    {Games: 1, Wins: 0, WinRate: 0},
		},
	}
	if err := db.UpsertChampionAggregate(want); err != nil {
		t.Fatalf("UpsertChampionAggregate: %v", err)
	}

	got, err := db.GetChampionAggregate("Ahri")
	if err != nil {
		t.Fatalf("GetChampionAggregate: %v", err)
	}
	if got.TotalGames != 7 || got.WinRate != 57.14 || got.BanCount != 2 {
		t.Errorf("got %+v", got)
	}
	if rs := got.ByRole[model.RoleMiddle]; rs.Games != 6 || rs.WinRate != 66.67 {
		t.Errorf("middle role = %+v", rs)
	}

	// A role dropping to zero games is removed on the next upsert.
	want.ByRole[model.RoleTop] = model.RoleStats{}
	if err := db.UpsertChampionAggregate(want); err != nil {
		t.Fatalf("UpsertChampionAggregate: %v", err)
	}
	got, _ = db.GetChampionAggregate("Ahri")
	if _, ok := got.ByRole[model.RoleTop]; ok {
		t.Error("zero-game role record should be gone")
	}
}

func TestListChampionAggregates(t *testing.T) {
	db := openMemDB(t)

	for _, agg := range []model.ChampionAggregate{
		{ChampionID: "Ahri", TotalGames: 5, WinRate: 60, PickRate: 50, BanRate: 0},
		{ChampionID: "Yone", TotalGames: 2, WinRate: 100, PickRate: 20, BanRate: 30},
	} {
		if err := db.UpsertChampionAggregate(agg); err != nil {
			t.Fatalf("UpsertChampionAggregate: %v", err)
		}
	}

	byPick, err := db.ListChampionAggregates(OrderByPickRate)
	if err != nil {
		t.Fatalf("ListChampionAggregates: %v", err)
	}
	if len(byPick) != 2 || byPick[0].ChampionID != "Ahri" {
		t.Errorf("pick order = %+v", byPick)
	}

	byWin, err := db.ListChampionAggregates(OrderByWinRate)
	if err != nil {
		t.Fatalf("ListChampionAggregates: %v", err)
	}
	if byWin[0].ChampionID != "Yone" {
		t.Errorf("win order head = %s, want Yone", byWin[0].ChampionID)
	}

	if _, err := db.ListChampionAggregates(ChampionOrder("bogus")); err == nil {
		t.Error("bogus order must be rejected")
	}
}

func TestPlayerAggregateAndRanking(t *testing.T) {
	db := openMemDB(t)

	zero, err := db.GetPlayerAggregate(1)
	if err != nil {
		t.Fatalf("GetPlayerAggregate: %v", err)
	}
	if zero.TotalGames != 0 {
		t.Errorf("got %+v, want zeroed", zero)
	}

	for _, agg := range []model.PlayerAggregate{
		{PlayerID: 1, TotalGames: 10, Wins: 4, Losses: 6, WinRate: 40},
		{PlayerID: 2, TotalGames: 8, Wins: 6, Losses: 2, WinRate: 75},
	} {
		if err := db.UpsertPlayerAggregate(agg); err != nil {
			t.Fatalf("UpsertPlayerAggregate: %v", err)
		}
	}

	ranking, err := db.ListPlayerRankings()
	if err != nil {
		t.Fatalf("ListPlayerRankings: %v", err)
	}
	if len(ranking) != 2 || ranking[0].PlayerID != 2 {
		t.Errorf("ranking = %+v", ranking)
	}
}

func TestRecentFormRoundtrip(t *testing.T) {
	db := openMemDB(t)

	zero, err := db.GetRecentForm(9)
	if err != nil {
		t.Fatalf("GetRecentForm: %v", err)
	}
	if zero.Games != 0 || zero.KDAAvg != 0 {
		t.Errorf("got %+v, want zeroed", zero)
	}

	form := model.PlayerRecentForm{
		PlayerID: 9, Games: 10, Wins: 6, Losses: 4, WinAvg: 60,
		Kills: 42, Deaths: 20, Assists: 55, KDAAvg: 4.85,
	}
	if err := db.UpsertRecentForm(form); err != nil {
		t.Fatalf("UpsertRecentForm: %v", err)
	}

	got, err := db.GetRecentForm(9)
	if err != nil {
		t.Fatalf("GetRecentForm: %v", err)
	}
	if got != form {
		t.Errorf("got %+v, want %+v", got, form)
	}
}

func TestGlobalTotals(t *testing.T) {
	db := openMemDB(t)

	totals, err := db.GetGlobalTotals()
	if err != nil {
		t.Fatalf("GetGlobalTotals: %v", err)
	}
	if totals.TotalMatches != 0 || totals.TotalBans != 0 {
		t.Errorf("fresh db totals = %+v", totals)
	}

	if err := db.SetGlobalTotals(model.GlobalTotals{TotalMatches: 3, TotalBans: 12}); err != nil {
		t.Fatalf("SetGlobalTotals: %v", err)
	}
	totals, _ = db.GetGlobalTotals()
	if totals.TotalMatches != 3 || totals.TotalBans != 12 {
		t.Errorf("totals = %+v", totals)
	}
}
