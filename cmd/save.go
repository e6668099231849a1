package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrimstats/go-scrim-stats/internal/model"
)

var saveCmd = &cobra.Command{
	Use:   "save <request.json>",
	Short: "Save a confirmed match from a save-request JSON file",
	Long: "Persist a match from a JSON save request holding the parsed metadata, both " +
		"rosters, the 10 roster-slot to player-id mappings and the banned champions. " +
		"Build the request from the output of 'parse --json'.",
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

func runSave(cmd *cobra.Command, args []string) error {
	buf, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var req model.SaveMatchRequest
	if err := json.Unmarshal(buf, &req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	db, svc, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := svc.Save(req)
	if err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Saved match %d\n", id)
	return nil
}
