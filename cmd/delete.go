package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <match-id>",
	Short: "Delete a match and reverse its aggregate contributions",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid match id %q", args[0])
	}

	db, svc, err := openService()
	if err != nil {
		return err
	}
	defer db.Close()

	affected, err := svc.Delete(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Deleted match %d (%d players affected)\n", id, affected)
	return nil
}
