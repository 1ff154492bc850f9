package main

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

func newResultCmd() *cobra.Command {
	resultCmd := &cobra.Command{
		Use:   "result",
		Short: "Record official race data",
		Long:  "Records starting grids, classified results, standings after a race and flag incidents. All writes are replace-on-conflict, so corrections re-run the same command.",
	}

	gridCmd := &cobra.Command{
		Use:   "grid",
		Short: "Record one starting-grid slot",
		RunE:  runResultGrid,
	}
	gridCmd.Flags().Int("race", 0, "Race id (required)")
	gridCmd.MarkFlagRequired("race")
	gridCmd.Flags().Int("position", 0, "Grid position (required)")
	gridCmd.MarkFlagRequired("position")
	gridCmd.Flags().String("driver", "", "Driver name (required)")
	gridCmd.MarkFlagRequired("driver")

	classifyCmd := &cobra.Command{
		Use:   "classify",
		Short: "Record one classified row of a race result",
		Long:  "Position is the official classification string (a number, DNF, DQ), finishing-position the 1-based order used for podium scoring.",
		RunE:  runResultClassify,
	}
	classifyCmd.Flags().Int("race", 0, "Race id (required)")
	classifyCmd.MarkFlagRequired("race")
	classifyCmd.Flags().String("position", "", "Classification, e.g. 1 or DNF (required)")
	classifyCmd.MarkFlagRequired("position")
	classifyCmd.Flags().String("driver", "", "Driver name (required)")
	classifyCmd.MarkFlagRequired("driver")
	classifyCmd.Flags().Int("points", 0, "Championship points awarded")
	classifyCmd.Flags().Int("finishing-position", 0, "Finishing order, 1-based (required)")
	classifyCmd.MarkFlagRequired("finishing-position")

	standingCmd := &cobra.Command{
		Use:   "standing",
		Short: "Record one standings row after a race",
		RunE:  runResultStanding,
	}
	standingCmd.Flags().Int("race", 0, "Race id (required)")
	standingCmd.MarkFlagRequired("race")
	standingCmd.Flags().String("kind", "", "driver or constructor (required)")
	standingCmd.MarkFlagRequired("kind")
	standingCmd.Flags().Int("position", 0, "Standings position (required)")
	standingCmd.MarkFlagRequired("position")
	standingCmd.Flags().String("name", "", "Competitor name (required)")
	standingCmd.MarkFlagRequired("name")
	standingCmd.Flags().Int("points", 0, "Championship points")

	flagCmd := &cobra.Command{
		Use:   "flag",
		Short: "Record one flag incident",
		RunE:  runResultFlag,
	}
	flagCmd.Flags().Int("race", 0, "Race id (required)")
	flagCmd.MarkFlagRequired("race")
	flagCmd.Flags().String("flag", "", `Flag type: "Yellow Flag", "Red Flag" or "Safety Car" (required)`)
	flagCmd.MarkFlagRequired("flag")
	flagCmd.Flags().Int("round", 1, "Incident number within the session")
	flagCmd.Flags().String("session", "RACE", "Session type")

	resultCmd.AddCommand(gridCmd, classifyCmd, standingCmd, flagCmd)
	return resultCmd
}

func runResultGrid(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	raceID, _ := cmd.Flags().GetInt("race")
	position, _ := cmd.Flags().GetInt("position")
	driver, _ := cmd.Flags().GetString("driver")
	return b.repos.Results.SaveGridSlot(ctx, f1.RaceID(raceID), position, driver)
}

func runResultClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	raceID, _ := cmd.Flags().GetInt("race")
	position, _ := cmd.Flags().GetString("position")
	driver, _ := cmd.Flags().GetString("driver")
	points, _ := cmd.Flags().GetInt("points")
	finishing, _ := cmd.Flags().GetInt("finishing-position")

	return b.repos.Results.SaveRaceResultRow(ctx, f1.RaceID(raceID), persistence.RaceResultRow{
		Position:          position,
		Driver:            driver,
		Points:            f1.Points(points),
		FinishingPosition: finishing,
	})
}

func runResultStanding(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	raceID, _ := cmd.Flags().GetInt("race")
	kind, _ := cmd.Flags().GetString("kind")
	position, _ := cmd.Flags().GetInt("position")
	name, _ := cmd.Flags().GetString("name")
	points, _ := cmd.Flags().GetInt("points")

	standing := persistence.Standing{Position: position, Name: name, Points: f1.Points(points)}
	switch kind {
	case "driver":
		return b.repos.Results.SaveDriverStanding(ctx, f1.RaceID(raceID), standing)
	case "constructor":
		return b.repos.Results.SaveConstructorStanding(ctx, f1.RaceID(raceID), standing)
	default:
		return fmt.Errorf("unknown standing kind %q", kind)
	}
}

func runResultFlag(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	raceID, _ := cmd.Flags().GetInt("race")
	flag, _ := cmd.Flags().GetString("flag")
	round, _ := cmd.Flags().GetInt("round")
	session, _ := cmd.Flags().GetString("session")

	if !slices.Contains(f1.FlagTypes, flag) {
		return fmt.Errorf("unknown flag type %q", flag)
	}
	if err := b.repos.Results.AddFlagStat(ctx, f1.RaceID(raceID), flag, round, session); err != nil {
		return err
	}
	log.Info().Int("race", raceID).Str("flag", flag).Msg("flag incident recorded")
	return nil
}
