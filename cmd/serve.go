package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scrimstats/go-scrim-stats/internal/api"
	"github.com/scrimstats/go-scrim-stats/internal/refdata"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	catalog, err := refdata.NewCatalog()
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}

	router := api.NewRouter(api.NewHandler(db, catalog, log))
	log.Info("listening", zap.String("addr", serveAddr), zap.String("db", dbPath))
	return router.Run(serveAddr)
}
