package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrimstats/go-scrim-stats/internal/report"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse <replay.rofl>",
	Short: "Parse a replay file and preview its stats",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "print the preview as JSON instead of tables")
}

func runParse(cmd *cobra.Command, args []string) error {
	db, svc, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	preview, err := svc.PreviewFile(args[0])
	if err != nil {
		return fmt.Errorf("parse replay: %w", err)
	}

	if parseJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(preview)
	}

	report.PrintPreview(os.Stdout, preview)
	return nil
}
