// Package main is the entry point for the scrimstats CLI tool, which parses
// League of Legends replay files and maintains scrim match statistics.
package main

import "github.com/scrimstats/go-scrim-stats/cmd"

func main() {
	cmd.Execute()
}
