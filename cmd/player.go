package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scrimstats/go-scrim-stats/internal/model"
	"github.com/scrimstats/go-scrim-stats/internal/report"
)

var (
	playerRealName string
	playerRiotID   string
	playerMain     string
	playerSubs     []string
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Manage registered players",
}

var playerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new player",
	Args:  cobra.NoArgs,
	RunE:  runPlayerAdd,
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered players",
	Args:  cobra.NoArgs,
	RunE:  runPlayerList,
}

var playerFormCmd = &cobra.Command{
	Use:   "form <player-id>",
	Short: "Show a player's recent form over their last 10 games",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayerForm,
}

func init() {
	playerAddCmd.Flags().StringVar(&playerRealName, "name", "", "player's real name")
	playerAddCmd.Flags().StringVar(&playerRiotID, "riot-id", "", "riot id as GameName#TagLine")
	playerAddCmd.Flags().StringVar(&playerMain, "main", "", "main position (TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY)")
	playerAddCmd.Flags().StringSliceVar(&playerSubs, "subs", nil, "sub positions")
	playerAddCmd.MarkFlagRequired("name")
	playerAddCmd.MarkFlagRequired("riot-id")
	playerAddCmd.MarkFlagRequired("main")

	playerCmd.AddCommand(playerAddCmd)
	playerCmd.AddCommand(playerListCmd)
	playerCmd.AddCommand(playerFormCmd)
}

func runPlayerAdd(cmd *cobra.Command, args []string) error {
	gameName, tagLine, ok := strings.Cut(playerRiotID, "#")
	if !ok || gameName == "" || tagLine == "" {
		return fmt.Errorf("invalid riot id %q, want GameName#TagLine", playerRiotID)
	}

	subs := make([]model.Role, 0, len(playerSubs))
	for _, s := range playerSubs {
		subs = append(subs, model.Role(strings.ToUpper(s)))
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.InsertPlayer(model.Player{
		RealName:     playerRealName,
		GameName:     gameName,
		TagLine:      tagLine,
		MainPosition: model.Role(strings.ToUpper(playerMain)),
		SubPositions: subs,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Registered player %d (%s#%s)\n", id, gameName, tagLine)
	return nil
}

func runPlayerList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	players, err := db.ListPlayers()
	if err != nil {
		return err
	}
	report.PrintPlayerList(os.Stdout, players)
	return nil
}

func runPlayerForm(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid player id %q", args[0])
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	form, err := db.GetRecentForm(id)
	if err != nil {
		return err
	}
	report.PrintRecentForm(os.Stdout, form)
	return nil
}
