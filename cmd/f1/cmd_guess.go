package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/voiestad/f1-backend/internal/f1"
)

func newGuessCmd() *cobra.Command {
	guessCmd := &cobra.Command{
		Use:   "guess",
		Short: "Submit guesses on behalf of a guesser",
		Long:  "Every write checks the guessing deadline first. A closed or unconfigured deadline rejects the guess.",
	}

	flagsCmd := &cobra.Command{
		Use:   "flags",
		Short: "Submit season flag-count guesses",
		RunE:  runGuessFlags,
	}
	flagsCmd.Flags().Int("yellow", 0, "Yellow flag count (required)")
	flagsCmd.MarkFlagRequired("yellow")
	flagsCmd.Flags().Int("red", 0, "Red flag count (required)")
	flagsCmd.MarkFlagRequired("red")
	flagsCmd.Flags().Int("safety-car", 0, "Safety car count (required)")
	flagsCmd.MarkFlagRequired("safety-car")

	driversCmd := &cobra.Command{
		Use:   "drivers",
		Short: "Submit the season driver ranking",
		Long:  "Positional arguments are driver names in guessed order, first to last. The list must be a complete permutation of the season's drivers.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runGuessDrivers,
	}

	constructorsCmd := &cobra.Command{
		Use:   "constructors",
		Short: "Submit the season constructor ranking",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runGuessConstructors,
	}

	pickCmd := &cobra.Command{
		Use:   "pick",
		Short: "Submit a podium pick for a race",
		RunE:  runGuessPick,
	}
	pickCmd.Flags().Int("race", 0, "Race id (required)")
	pickCmd.MarkFlagRequired("race")
	pickCmd.Flags().String("category", "", "FIRST or TENTH (required)")
	pickCmd.MarkFlagRequired("category")
	pickCmd.Flags().String("driver", "", "Driver name, must be on the starting grid (required)")
	pickCmd.MarkFlagRequired("driver")

	for _, cmd := range []*cobra.Command{flagsCmd, driversCmd, constructorsCmd, pickCmd} {
		cmd.Flags().String("guesser", "", "Guesser id (required)")
		cmd.MarkFlagRequired("guesser")
	}
	for _, cmd := range []*cobra.Command{flagsCmd, driversCmd, constructorsCmd} {
		cmd.Flags().Int("year", 0, "Season year (required)")
		cmd.MarkFlagRequired("year")
	}

	guessCmd.AddCommand(flagsCmd, driversCmd, constructorsCmd, pickCmd)
	return guessCmd
}

func guesserFlag(cmd *cobra.Command) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString("guesser")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid guesser id: %w", err)
	}
	return id, nil
}

func runGuessFlags(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	guesser, err := guesserFlag(cmd)
	if err != nil {
		return err
	}
	year, _ := cmd.Flags().GetInt("year")
	yellow, _ := cmd.Flags().GetInt("yellow")
	red, _ := cmd.Flags().GetInt("red")
	safetyCar, _ := cmd.Flags().GetInt("safety-car")

	return b.guessing.SaveFlagGuesses(ctx, guesser, f1.Year(year), f1.Flags{
		Yellow:    yellow,
		Red:       red,
		SafetyCar: safetyCar,
	})
}

func runGuessDrivers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	guesser, err := guesserFlag(cmd)
	if err != nil {
		return err
	}
	year, _ := cmd.Flags().GetInt("year")
	return b.guessing.SaveDriverRanking(ctx, guesser, f1.Year(year), args)
}

func runGuessConstructors(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	guesser, err := guesserFlag(cmd)
	if err != nil {
		return err
	}
	year, _ := cmd.Flags().GetInt("year")
	return b.guessing.SaveConstructorRanking(ctx, guesser, f1.Year(year), args)
}

func runGuessPick(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	guesser, err := guesserFlag(cmd)
	if err != nil {
		return err
	}
	raceID, _ := cmd.Flags().GetInt("race")
	category, _ := cmd.Flags().GetString("category")
	driver, _ := cmd.Flags().GetString("driver")

	return b.guessing.SavePlacePick(ctx, guesser, f1.RaceID(raceID), f1.Category(category), driver)
}
