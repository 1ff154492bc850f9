package main

import (
	"github.com/spf13/cobra"

	"github.com/voiestad/f1-backend/internal/f1"
)

func newScoreCmd() *cobra.Command {
	scoreCmd := &cobra.Command{
		Use:   "score",
		Short: "Recompute scoring snapshots",
		Long:  "Scoring runs are idempotent: replaying a run against unchanged inputs rewrites identical snapshots.",
	}

	raceCmd := &cobra.Command{
		Use:   "race",
		Short: "Score one race for every qualified guesser",
		RunE:  runScoreRace,
	}
	raceCmd.Flags().Int("race", 0, "Race id to score (required)")
	raceCmd.MarkFlagRequired("race")

	seasonStartCmd := &cobra.Command{
		Use:   "season-start",
		Short: "Score the season-start snapshot",
		RunE:  runScoreSeasonStart,
	}
	seasonStartCmd.Flags().Int("year", 0, "Season to score (required)")
	seasonStartCmd.MarkFlagRequired("year")

	finalizeCmd := &cobra.Command{
		Use:   "finalize",
		Short: "Freeze the season outcome into final placements",
		Long:  "Records each guesser's final placement for the season. Placements 1 to 3 feed the medal tallies.",
		RunE:  runScoreFinalize,
	}
	finalizeCmd.Flags().Int("year", 0, "Season to finalize (required)")
	finalizeCmd.MarkFlagRequired("year")

	scoreCmd.AddCommand(raceCmd, seasonStartCmd, finalizeCmd)
	return scoreCmd
}

func runScoreRace(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	raceID, _ := cmd.Flags().GetInt("race")
	if err := b.engine.ScoreRace(ctx, f1.RaceID(raceID)); err != nil {
		return err
	}

	race, err := b.repos.Seasons.Race(ctx, f1.RaceID(raceID))
	if err == nil {
		b.board.InvalidateYear(ctx, race.Year)
	}
	return nil
}

func runScoreSeasonStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	year, _ := cmd.Flags().GetInt("year")
	if err := b.engine.ScoreSeasonStart(ctx, f1.Year(year)); err != nil {
		return err
	}
	b.board.InvalidateYear(ctx, f1.Year(year))
	return nil
}

func runScoreFinalize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	year, _ := cmd.Flags().GetInt("year")
	if err := b.engine.FinalizeSeason(ctx, f1.Year(year)); err != nil {
		return err
	}

	guessers, err := b.repos.Guesses.SeasonGuessers(ctx, f1.Year(year))
	if err == nil {
		for _, g := range guessers {
			b.board.InvalidateGuesser(ctx, g.ID)
		}
	}
	return nil
}
