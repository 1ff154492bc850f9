package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/voiestad/f1-backend/internal/f1"
)

func newSeasonCmd() *cobra.Command {
	seasonCmd := &cobra.Command{
		Use:   "season",
		Short: "Manage seasons, races and competitors",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a season with its default cutoff",
		Long:  "Creates the season and seeds its guessing cutoff: local midnight, January 1 of the season's year, unless --cutoff overrides it.",
		RunE:  runSeasonInit,
	}
	initCmd.Flags().Int("year", 0, "Season year (required)")
	initCmd.MarkFlagRequired("year")
	initCmd.Flags().String("cutoff", "", "Cutoff override (RFC3339)")

	addRaceCmd := &cobra.Command{
		Use:   "add-race",
		Short: "Add a race to a season",
		RunE:  runSeasonAddRace,
	}
	addRaceCmd.Flags().Int("year", 0, "Season year (required)")
	addRaceCmd.MarkFlagRequired("year")
	addRaceCmd.Flags().Int("id", 0, "Race id (required)")
	addRaceCmd.MarkFlagRequired("id")
	addRaceCmd.Flags().String("name", "", "Race name (required)")
	addRaceCmd.MarkFlagRequired("name")
	addRaceCmd.Flags().Int("position", 0, "Position within the season (required)")
	addRaceCmd.MarkFlagRequired("position")
	addRaceCmd.Flags().String("cutoff", "", "Race guessing cutoff (RFC3339, required)")
	addRaceCmd.MarkFlagRequired("cutoff")

	addDriverCmd := &cobra.Command{
		Use:   "add-driver",
		Short: "Add a driver to a season's competitor list",
		RunE:  runSeasonAddDriver,
	}
	addDriverCmd.Flags().Int("year", 0, "Season year (required)")
	addDriverCmd.MarkFlagRequired("year")
	addDriverCmd.Flags().String("name", "", "Driver name (required)")
	addDriverCmd.MarkFlagRequired("name")

	addConstructorCmd := &cobra.Command{
		Use:   "add-constructor",
		Short: "Add a constructor to a season's competitor list",
		RunE:  runSeasonAddConstructor,
	}
	addConstructorCmd.Flags().Int("year", 0, "Season year (required)")
	addConstructorCmd.MarkFlagRequired("year")
	addConstructorCmd.Flags().String("name", "", "Constructor name (required)")
	addConstructorCmd.MarkFlagRequired("name")

	seasonCmd.AddCommand(initCmd, addRaceCmd, addDriverCmd, addConstructorCmd)
	return seasonCmd
}

func newTableCmd() *cobra.Command {
	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "Manage scoring tables",
		Long:  "Each (season, category) holds a sparse diff-to-points mapping. New diffs start at 0 points.",
	}

	addDiffCmd := &cobra.Command{
		Use:   "add-diff",
		Short: "Add a diff to a scoring table with 0 points",
		RunE:  runTableAddDiff,
	}
	setPointsCmd := &cobra.Command{
		Use:   "set-points",
		Short: "Set the points of an existing diff",
		RunE:  runTableSetPoints,
	}
	removeDiffCmd := &cobra.Command{
		Use:   "remove-diff",
		Short: "Remove a diff from a scoring table",
		RunE:  runTableRemoveDiff,
	}
	for _, cmd := range []*cobra.Command{addDiffCmd, setPointsCmd, removeDiffCmd} {
		cmd.Flags().Int("year", 0, "Season year (required)")
		cmd.MarkFlagRequired("year")
		cmd.Flags().String("category", "", "Category: DRIVER, CONSTRUCTOR, FLAG, FIRST or TENTH (required)")
		cmd.MarkFlagRequired("category")
		cmd.Flags().Int("diff", 0, "Diff value (required)")
		cmd.MarkFlagRequired("diff")
	}
	setPointsCmd.Flags().Int("points", 0, "Points value (required)")
	setPointsCmd.MarkFlagRequired("points")

	tableCmd.AddCommand(addDiffCmd, setPointsCmd, removeDiffCmd)
	return tableCmd
}

func newCutoffCmd() *cobra.Command {
	cutoffCmd := &cobra.Command{
		Use:   "cutoff",
		Short: "Manage guessing deadlines",
	}

	setYearCmd := &cobra.Command{
		Use:   "set-year",
		Short: "Set a season's guessing cutoff",
		RunE:  runCutoffSetYear,
	}
	setYearCmd.Flags().Int("year", 0, "Season year (required)")
	setYearCmd.MarkFlagRequired("year")
	setYearCmd.Flags().String("time", "", "Cutoff instant (RFC3339, required)")
	setYearCmd.MarkFlagRequired("time")

	setRaceCmd := &cobra.Command{
		Use:   "set-race",
		Short: "Set a race's guessing cutoff",
		RunE:  runCutoffSetRace,
	}
	setRaceCmd.Flags().Int("race", 0, "Race id (required)")
	setRaceCmd.MarkFlagRequired("race")
	setRaceCmd.Flags().String("time", "", "Cutoff instant (RFC3339, required)")
	setRaceCmd.MarkFlagRequired("time")

	cutoffCmd.AddCommand(setYearCmd, setRaceCmd)
	return cutoffCmd
}

func runSeasonInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	year, _ := cmd.Flags().GetInt("year")
	if err := b.repos.Seasons.AddYear(ctx, f1.Year(year)); err != nil {
		return err
	}

	deadline := b.gate.DefaultSeasonCutoff(f1.Year(year))
	if raw, _ := cmd.Flags().GetString("cutoff"); raw != "" {
		deadline, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("invalid cutoff: %w", err)
		}
	}
	if err := b.gate.SetYearCutoff(ctx, f1.Year(year), deadline); err != nil {
		return err
	}

	log.Info().Int("year", year).Time("cutoff", deadline).Msg("season initialized")
	return nil
}

func runSeasonAddRace(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	year, _ := cmd.Flags().GetInt("year")
	id, _ := cmd.Flags().GetInt("id")
	name, _ := cmd.Flags().GetString("name")
	position, _ := cmd.Flags().GetInt("position")
	rawCutoff, _ := cmd.Flags().GetString("cutoff")

	deadline, err := time.Parse(time.RFC3339, rawCutoff)
	if err != nil {
		return fmt.Errorf("invalid cutoff: %w", err)
	}

	if err := b.repos.Seasons.AddRace(ctx, f1.RaceID(id), name, f1.Year(year), position); err != nil {
		return err
	}
	return b.gate.SetRaceCutoff(ctx, f1.RaceID(id), deadline)
}

func runSeasonAddDriver(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	year, _ := cmd.Flags().GetInt("year")
	name, _ := cmd.Flags().GetString("name")
	return b.repos.Seasons.AddDriverYear(ctx, name, f1.Year(year))
}

func runSeasonAddConstructor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	year, _ := cmd.Flags().GetInt("year")
	name, _ := cmd.Flags().GetString("name")
	return b.repos.Seasons.AddConstructorYear(ctx, name, f1.Year(year))
}

func runTableAddDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	year, category, diff, err := tableFlags(cmd)
	if err != nil {
		return err
	}
	return b.repos.ScoringTable.AddDiff(ctx, year, category, diff)
}

func runTableSetPoints(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	year, category, diff, err := tableFlags(cmd)
	if err != nil {
		return err
	}
	points, _ := cmd.Flags().GetInt("points")
	return b.repos.ScoringTable.SetPoints(ctx, year, category, diff, f1.Points(points))
}

func runTableRemoveDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	year, category, diff, err := tableFlags(cmd)
	if err != nil {
		return err
	}
	return b.repos.ScoringTable.RemoveDiff(ctx, year, category, diff)
}

func tableFlags(cmd *cobra.Command) (f1.Year, f1.Category, f1.Diff, error) {
	year, _ := cmd.Flags().GetInt("year")
	rawCategory, _ := cmd.Flags().GetString("category")
	diff, _ := cmd.Flags().GetInt("diff")

	category := f1.Category(rawCategory)
	if !category.Valid() {
		return 0, "", 0, fmt.Errorf("unknown category %q", rawCategory)
	}
	return f1.Year(year), category, f1.Diff(diff), nil
}

func runCutoffSetYear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	year, _ := cmd.Flags().GetInt("year")
	raw, _ := cmd.Flags().GetString("time")
	deadline, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid cutoff: %w", err)
	}
	return b.gate.SetYearCutoff(ctx, f1.Year(year), deadline)
}

func runCutoffSetRace(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx, cmd)
	if err != nil {
		return err
	}
	defer b.close()

	raceID, _ := cmd.Flags().GetInt("race")
	raw, _ := cmd.Flags().GetString("time")
	deadline, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid cutoff: %w", err)
	}
	return b.gate.SetRaceCutoff(ctx, f1.RaceID(raceID), deadline)
}
