package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/scrimstats/go-scrim-stats/internal/model"
	"github.com/scrimstats/go-scrim-stats/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show a stored match with both rosters",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id %q", args[0])
	}

	db, svc, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	m, participants, err := svc.Get(id)
	if err != nil {
		return err
	}

	report.PrintMatchHeader(os.Stdout, m.Metadata)
	var blue, red []model.ParticipantStats
	for _, p := range participants {
		if p.Team == model.TeamBlue {
			blue = append(blue, p)
		} else {
			red = append(red, p)
		}
	}
	report.PrintRosterTable(os.Stdout, model.TeamBlue, blue)
	fmt.Fprintln(os.Stdout)
	report.PrintRosterTable(os.Stdout, model.TeamRed, red)

	if len(m.BanChampions) > 0 {
		fmt.Fprint(os.Stdout, "\nBans:")
		for _, b := range m.BanChampions {
			fmt.Fprintf(os.Stdout, " %s", b.ChampionID)
		}
		fmt.Fprintln(os.Stdout)
	}
	return nil
}
