package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scrimstats/go-scrim-stats/internal/model"
	"github.com/scrimstats/go-scrim-stats/internal/report"
	"github.com/scrimstats/go-scrim-stats/internal/storage"
)

var championsOrder string

var championsCmd = &cobra.Command{
	Use:   "champions [champion-id]",
	Short: "Show champion pick/win/ban statistics",
	Long: "Without arguments, list all champions ordered by the chosen rate. " +
		"With a champion id, show that champion's rollup with its per-role breakdown.",
	Args: cobra.MaximumNArgs(1),
	RunE: runChampions,
}

func init() {
	championsCmd.Flags().StringVar(&championsOrder, "order", "pick", "sort order: win, pick or ban")
}

func runChampions(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		agg, err := db.GetChampionAggregate(args[0])
		if err != nil {
			return err
		}
		report.PrintChampionTable(os.Stdout, []model.ChampionAggregate{agg})
		report.PrintRoleBreakdown(os.Stdout, agg)
		return nil
	}

	aggs, err := db.ListChampionAggregates(storage.ChampionOrder(championsOrder))
	if err != nil {
		return err
	}
	report.PrintChampionTable(os.Stdout, aggs)
	return nil
}
