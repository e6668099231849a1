package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrimstats/go-scrim-stats/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, svc, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := svc.List()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%d matches stored\n\n", len(matches))
	report.PrintMatchList(os.Stdout, matches)
	return nil
}
