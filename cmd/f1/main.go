package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "f1"
	version = "v1.0.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     appName,
		Short:   "F1 prediction game backend",
		Version: version,
		Long: `Backend of the F1 prediction game: guess intake behind cutoff
deadlines, diff-based scoring, persisted snapshots and leaderboards.

The HTTP API is read-only. All administration happens through the
subcommands.`,
	}

	rootCmd.PersistentFlags().String("config", "config.yaml", "Path to config file")

	rootCmd.AddCommand(
		newServeCmd(),
		newScoreCmd(),
		newSeasonCmd(),
		newTableCmd(),
		newCutoffCmd(),
		newResultCmd(),
		newGuessCmd(),
		newUserCmd(),
		newCodeCmd(),
		newSweepCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
