// Package report renders previews, rosters and aggregate listings as text
// tables for the CLI.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/scrimstats/go-scrim-stats/internal/model"
)

// PrintMatchHeader prints a one-line summary header for a parsed replay.
func PrintMatchHeader(w io.Writer, meta model.GameMetadata) {
	fmt.Fprintf(w, "\nDuration: %s  |  Winner: %s  |  Play time: %ds\n\n",
		formatDuration(meta.GameDuration), meta.WinTeam, meta.PlayTime)
}

func formatDuration(seconds int64) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// PrintRosterTable writes one side's roster rows.
func PrintRosterTable(w io.Writer, side model.Team, roster []model.ParticipantStats) {
	fmt.Fprintf(w, "%s SIDE\n", side)

	table := newTable(w)
	table.Header("POS", "NAME", "CHAMPION", "K", "D", "A", "LVL", "GOLD", "CS", "DMG", "VISION", "WIN")

	for _, p := range roster {
		win := ""
		if p.Win {
			win = "W"
		}
		table.Append(
			string(p.Role),
			p.RiotIDGameName+"#"+p.RiotIDTagLine,
			p.Champion,
			p.Kills, p.Deaths, p.Assists,
			p.Level,
			p.GoldEarned,
			p.CreepScore,
			p.TotalDamageToChampions,
			p.VisionScore,
			win,
		)
	}
	table.Render()
}

// PrintPreview writes the full parse preview: header plus both rosters.
func PrintPreview(w io.Writer, p *model.Preview) {
	PrintMatchHeader(w, p.Metadata)
	if len(p.BlueTeam) == 0 && len(p.RedTeam) == 0 {
		fmt.Fprintln(w, "No stats payload in this replay (aborted game).")
		return
	}
	PrintRosterTable(w, model.TeamBlue, p.BlueTeam)
	fmt.Fprintln(w)
	PrintRosterTable(w, model.TeamRed, p.RedTeam)
}

// PrintMatchList writes stored match headers.
func PrintMatchList(w io.Writer, matches []model.Match) {
	table := newTable(w)
	table.Header("ID", "PLAYED", "DURATION", "WINNER", "BANS")
	for _, m := range matches {
		table.Append(
			strconv.FormatInt(m.ID, 10),
			m.PlayedAt.Format("2006-01-02 15:04"),
			formatDuration(m.Metadata.GameDuration),
			string(m.Metadata.WinTeam),
			strconv.Itoa(len(m.BanChampions)),
		)
	}
	table.Render()
}

// PrintChampionTable writes champion rollups in listing order.
func PrintChampionTable(w io.Writer, aggs []model.ChampionAggregate) {
	table := newTable(w)
	table.Header("CHAMPION", "GAMES", "W", "L", "WIN%", "PICK%", "BANS", "BAN%")
	for _, a := range aggs {
		table.Append(
			a.ChampionID,
			strconv.Itoa(a.TotalGames),
			strconv.Itoa(a.Wins),
			strconv.Itoa(a.Losses),
			fmt.Sprintf("%.2f", a.WinRate),
			fmt.Sprintf("%.2f", a.PickRate),
			strconv.Itoa(a.BanCount),
			fmt.Sprintf("%.2f", a.BanRate),
		)
	}
	table.Render()
}

// PrintRoleBreakdown writes one champion's per-role sub-records in draft order.
func PrintRoleBreakdown(w io.Writer, agg model.ChampionAggregate) {
	table := newTable(w)
	table.Header("ROLE", "GAMES", "W", "WIN%")
	for _, role := range model.Roles() {
		rs, ok := agg.ByRole[role]
		if !ok {
			continue
		}
		table.Append(
			string(role),
			strconv.Itoa(rs.Games),
			strconv.Itoa(rs.Wins),
			fmt.Sprintf("%.2f", rs.WinRate),
		)
	}
	table.Render()
}

// PrintRankingTable writes player rollups by win rate, resolving names through
// the given player map.
func PrintRankingTable(w io.Writer, aggs []model.PlayerAggregate, players map[int64]model.Player) {
	table := newTable(w)
	table.Header("RANK", "PLAYER", "GAMES", "W", "L", "WIN%")
	for i, a := range aggs {
		name := strconv.FormatInt(a.PlayerID, 10)
		if p, ok := players[a.PlayerID]; ok {
			name = p.GameName + "#" + p.TagLine
		}
		table.Append(
			strconv.Itoa(i+1),
			name,
			strconv.Itoa(a.TotalGames),
			strconv.Itoa(a.Wins),
			strconv.Itoa(a.Losses),
			fmt.Sprintf("%.2f", a.WinRate),
		)
	}
	table.Render()
}

// PrintRecentForm writes a player's rolling-window snapshot.
func PrintRecentForm(w io.Writer, form model.PlayerRecentForm) {
	table := newTable(w)
	table.Header("GAMES", "W", "L", "WIN%", "K", "D", "A", "KDA")
	table.Append(
		strconv.Itoa(form.Games),
		strconv.Itoa(form.Wins),
		strconv.Itoa(form.Losses),
		fmt.Sprintf("%.2f", form.WinAvg),
		strconv.Itoa(form.Kills),
		strconv.Itoa(form.Deaths),
		strconv.Itoa(form.Assists),
		fmt.Sprintf("%.2f", form.KDAAvg),
	)
	table.Render()
}

// PrintPlayerList writes the registered players.
func PrintPlayerList(w io.Writer, players []model.Player) {
	table := newTable(w)
	table.Header("ID", "NAME", "RIOT ID", "MAIN", "SUBS")
	for _, p := range players {
		subs := ""
		for i, r := range p.SubPositions {
			if i > 0 {
				subs += ","
			}
			subs += string(r)
		}
		table.Append(
			strconv.FormatInt(p.ID, 10),
			p.RealName,
			p.GameName+"#"+p.TagLine,
			string(p.MainPosition),
			subs,
		)
	}
	table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}
