package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scrimstats/go-scrim-stats/internal/report"
)

var rankingCmd = &cobra.Command{
	Use:   "ranking",
	Short: "Show player ranking by win rate",
	Args:  cobra.NoArgs,
	RunE:  runRanking,
}

func runRanking(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	aggs, err := db.ListPlayerRankings()
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(aggs))
	for _, a := range aggs {
		ids = append(ids, a.PlayerID)
	}
	players, err := db.GetPlayersByIDs(ids)
	if err != nil {
		return err
	}

	report.PrintRankingTable(os.Stdout, aggs, players)
	return nil
}
