package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scrimstats/go-scrim-stats/internal/match"
	"github.com/scrimstats/go-scrim-stats/internal/refdata"
	"github.com/scrimstats/go-scrim-stats/internal/storage"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "scrimstats",
	Short: "LoL scrim replay stats tool",
	Long:  "Parse League of Legends .rofl replay files and maintain scrim match, champion and player statistics.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".scrimstats", "scrims.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(championsCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dropCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// openDB creates the db directory if needed and opens the store.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// openService opens the store and builds the match service over it.
// The caller closes the returned db.
func openService() (*storage.DB, *match.Service, error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	catalog, err := refdata.NewCatalog()
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("load reference data: %w", err)
	}
	return db, match.NewService(db, catalog), nil
}
