package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// Engine recomputes scoring snapshots. Runs are idempotent: replaying a
// run against unchanged inputs rewrites identical snapshots.
type Engine struct {
	tables    persistence.ScoringTableRepo
	guesses   persistence.GuessRepo
	seasons   persistence.SeasonRepo
	results   persistence.ResultsRepo
	snapshots persistence.SnapshotRepo
	logger    zerolog.Logger
	metrics   *Metrics
}

func NewEngine(
	tables persistence.ScoringTableRepo,
	guesses persistence.GuessRepo,
	seasons persistence.SeasonRepo,
	results persistence.ResultsRepo,
	snapshots persistence.SnapshotRepo,
	logger zerolog.Logger,
	metrics *Metrics,
) *Engine {
	return &Engine{
		tables:    tables,
		guesses:   guesses,
		seasons:   seasons,
		results:   results,
		snapshots: snapshots,
		logger:    logger.With().Str("component", "scoring").Logger(),
		metrics:   metrics,
	}
}

// ScoreRace recomputes the race snapshot for every season-qualified
// guesser. A category without a configured scoring table is skipped and
// left out of the summaries; the other categories still score.
func (e *Engine) ScoreRace(ctx context.Context, raceID f1.RaceID) error {
	started := time.Now()

	race, err := e.seasons.Race(ctx, raceID)
	if err != nil {
		e.metrics.RecordRun("race", "error", started, 0)
		return fmt.Errorf("score race %d: %w", raceID, err)
	}

	guessers, err := e.guesses.SeasonGuessers(ctx, race.Year)
	if err != nil {
		e.metrics.RecordRun("race", "error", started, 0)
		return fmt.Errorf("score race %d: %w", raceID, err)
	}
	if len(guessers) == 0 {
		e.logger.Info().Int("race", int(raceID)).Msg("no qualified guessers, nothing to score")
		e.metrics.RecordRun("race", "success", started, 0)
		return nil
	}

	points := make(map[f1.Category]map[uuid.UUID]f1.Points, len(f1.RaceCategories))

	driverStandings, err := e.results.DriverStandings(ctx, raceID)
	if err != nil {
		e.metrics.RecordRun("race", "error", started, 0)
		return fmt.Errorf("score race %d: %w", raceID, err)
	}
	constructorStandings, err := e.results.ConstructorStandings(ctx, raceID)
	if err != nil {
		e.metrics.RecordRun("race", "error", started, 0)
		return fmt.Errorf("score race %d: %w", raceID, err)
	}
	flagCounts, err := e.results.FlagCounts(ctx, race.Year, race.Position)
	if err != nil {
		e.metrics.RecordRun("race", "error", started, 0)
		return fmt.Errorf("score race %d: %w", raceID, err)
	}
	result, err := e.results.RaceResult(ctx, raceID)
	if err != nil {
		e.metrics.RecordRun("race", "error", started, 0)
		return fmt.Errorf("score race %d: %w", raceID, err)
	}

	categories := []struct {
		category f1.Category
		score    func(context.Context) (map[uuid.UUID]f1.Points, error)
	}{
		{f1.CategoryDriver, func(ctx context.Context) (map[uuid.UUID]f1.Points, error) {
			return e.scoreRanking(ctx, race.Year, f1.CategoryDriver, guessers,
				standingPositions(driverStandings), e.guesses.DriverRanking)
		}},
		{f1.CategoryConstructor, func(ctx context.Context) (map[uuid.UUID]f1.Points, error) {
			return e.scoreRanking(ctx, race.Year, f1.CategoryConstructor, guessers,
				standingPositions(constructorStandings), e.guesses.ConstructorRanking)
		}},
		{f1.CategoryFlag, func(ctx context.Context) (map[uuid.UUID]f1.Points, error) {
			return e.scoreFlags(ctx, race.Year, guessers, flagCounts)
		}},
		{f1.CategoryFirst, func(ctx context.Context) (map[uuid.UUID]f1.Points, error) {
			return e.scorePicks(ctx, race.Year, raceID, f1.CategoryFirst, guessers,
				driverAtFinishingPosition(result, 1))
		}},
		{f1.CategoryTenth, func(ctx context.Context) (map[uuid.UUID]f1.Points, error) {
			return e.scorePicks(ctx, race.Year, raceID, f1.CategoryTenth, guessers,
				driverAtFinishingPosition(result, 10))
		}},
	}

	for _, c := range categories {
		scores, err := c.score(ctx)
		if errors.Is(err, f1.ErrNotConfigured) {
			e.logger.Warn().
				Int("race", int(raceID)).
				Str("category", string(c.category)).
				Msg("category skipped, scoring table not configured")
			e.metrics.RecordSkippedCategory(string(c.category))
			continue
		}
		if err != nil {
			e.metrics.RecordRun("race", "error", started, 0)
			return fmt.Errorf("score race %d category %s: %w", raceID, c.category, err)
		}
		points[c.category] = scores
	}

	summaries := assembleSummaries(guessers, points, f1.RaceCategories)
	for _, g := range guessers {
		if err := e.snapshots.SaveRaceSummary(ctx, raceID, g.ID, summaries[g.ID]); err != nil {
			e.metrics.RecordRun("race", "error", started, 0)
			return fmt.Errorf("score race %d: %w", raceID, err)
		}
	}

	e.logger.Info().
		Int("race", int(raceID)).
		Int("year", int(race.Year)).
		Int("guessers", len(guessers)).
		Int("categories", len(points)).
		Dur("duration", time.Since(started)).
		Msg("race scored")
	e.metrics.RecordRun("race", "success", started, len(guessers))
	return nil
}

// ScoreSeasonStart recomputes the season-start snapshot: rankings are
// measured against the season's default competitor order and flag
// counts against an empty season.
func (e *Engine) ScoreSeasonStart(ctx context.Context, year f1.Year) error {
	started := time.Now()

	valid, err := e.seasons.IsValidYear(ctx, year)
	if err != nil {
		e.metrics.RecordRun("year_start", "error", started, 0)
		return fmt.Errorf("score season start %d: %w", year, err)
	}
	if !valid {
		e.metrics.RecordRun("year_start", "error", started, 0)
		return fmt.Errorf("score season start %d: %w", year, f1.ErrNotFound)
	}

	guessers, err := e.guesses.SeasonGuessers(ctx, year)
	if err != nil {
		e.metrics.RecordRun("year_start", "error", started, 0)
		return fmt.Errorf("score season start %d: %w", year, err)
	}
	if len(guessers) == 0 {
		e.logger.Info().Int("year", int(year)).Msg("no qualified guessers, nothing to score")
		e.metrics.RecordRun("year_start", "success", started, 0)
		return nil
	}

	drivers, err := e.seasons.DriversYear(ctx, year)
	if err != nil {
		e.metrics.RecordRun("year_start", "error", started, 0)
		return fmt.Errorf("score season start %d: %w", year, err)
	}
	constructors, err := e.seasons.ConstructorsYear(ctx, year)
	if err != nil {
		e.metrics.RecordRun("year_start", "error", started, 0)
		return fmt.Errorf("score season start %d: %w", year, err)
	}

	points := make(map[f1.Category]map[uuid.UUID]f1.Points, len(f1.SeasonStartCategories))

	categories := []struct {
		category f1.Category
		score    func(context.Context) (map[uuid.UUID]f1.Points, error)
	}{
		{f1.CategoryDriver, func(ctx context.Context) (map[uuid.UUID]f1.Points, error) {
			return e.scoreRanking(ctx, year, f1.CategoryDriver, guessers,
				defaultPositions(drivers), e.guesses.DriverRanking)
		}},
		{f1.CategoryConstructor, func(ctx context.Context) (map[uuid.UUID]f1.Points, error) {
			return e.scoreRanking(ctx, year, f1.CategoryConstructor, guessers,
				defaultPositions(constructors), e.guesses.ConstructorRanking)
		}},
		{f1.CategoryFlag, func(ctx context.Context) (map[uuid.UUID]f1.Points, error) {
			// No race has run, so the realized counts are all zero.
			return e.scoreFlags(ctx, year, guessers, f1.Flags{})
		}},
	}

	for _, c := range categories {
		scores, err := c.score(ctx)
		if errors.Is(err, f1.ErrNotConfigured) {
			e.logger.Warn().
				Int("year", int(year)).
				Str("category", string(c.category)).
				Msg("category skipped, scoring table not configured")
			e.metrics.RecordSkippedCategory(string(c.category))
			continue
		}
		if err != nil {
			e.metrics.RecordRun("year_start", "error", started, 0)
			return fmt.Errorf("score season start %d category %s: %w", year, c.category, err)
		}
		points[c.category] = scores
	}

	summaries := assembleSummaries(guessers, points, f1.SeasonStartCategories)
	for _, g := range guessers {
		if err := e.snapshots.SaveYearStartSummary(ctx, year, g.ID, summaries[g.ID]); err != nil {
			e.metrics.RecordRun("year_start", "error", started, 0)
			return fmt.Errorf("score season start %d: %w", year, err)
		}
	}

	e.logger.Info().
		Int("year", int(year)).
		Int("guessers", len(guessers)).
		Int("categories", len(points)).
		Dur("duration", time.Since(started)).
		Msg("season start scored")
	e.metrics.RecordRun("year_start", "success", started, len(guessers))
	return nil
}

// FinalizeSeason freezes the season outcome: the total placements at the
// latest finished race become the season placements that feed medals.
// Seasons without a finished race freeze the season-start totals.
func (e *Engine) FinalizeSeason(ctx context.Context, year f1.Year) error {
	var totals []persistence.GuesserPlacement

	latest, err := e.seasons.LatestFinishedRace(ctx, year)
	switch {
	case errors.Is(err, f1.ErrNotFound):
		totals, err = e.snapshots.YearStartTotals(ctx, year)
		if err != nil {
			return fmt.Errorf("finalize season %d: %w", year, err)
		}
	case err != nil:
		return fmt.Errorf("finalize season %d: %w", year, err)
	default:
		totals, err = e.snapshots.RaceTotals(ctx, latest.ID)
		if err != nil {
			return fmt.Errorf("finalize season %d: %w", year, err)
		}
	}

	for _, t := range totals {
		if err := e.snapshots.SaveYearPlacement(ctx, year, t.Guesser, t.Pos); err != nil {
			return fmt.Errorf("finalize season %d: %w", year, err)
		}
	}

	e.logger.Info().
		Int("year", int(year)).
		Int("guessers", len(totals)).
		Msg("season finalized")
	return nil
}

// scoreRanking scores a rank-order category for every guesser with a
// ranking on file. Guessers without one are excluded, not zero-scored.
func (e *Engine) scoreRanking(
	ctx context.Context,
	year f1.Year,
	category f1.Category,
	guessers []persistence.User,
	actual map[string]int,
	fetch func(context.Context, uuid.UUID, f1.Year) ([]persistence.RankedGuess, error),
) (map[uuid.UUID]f1.Points, error) {
	t, err := loadTable(ctx, e.tables, year, category)
	if err != nil {
		return nil, err
	}

	scores := make(map[uuid.UUID]f1.Points, len(guessers))
	for _, g := range guessers {
		ranking, err := fetch(ctx, g.ID, year)
		if err != nil {
			return nil, err
		}
		if len(ranking) == 0 {
			continue
		}
		var total f1.Points
		for _, diff := range rankingDiffs(ranking, actual) {
			total += t.lookup(diff)
		}
		scores[g.ID] = total
	}
	return scores, nil
}

// scoreFlags scores the flag-count category against realized counts.
func (e *Engine) scoreFlags(
	ctx context.Context,
	year f1.Year,
	guessers []persistence.User,
	actual f1.Flags,
) (map[uuid.UUID]f1.Points, error) {
	t, err := loadTable(ctx, e.tables, year, f1.CategoryFlag)
	if err != nil {
		return nil, err
	}

	scores := make(map[uuid.UUID]f1.Points, len(guessers))
	for _, g := range guessers {
		guessed, ok, err := e.guesses.FlagGuesses(ctx, g.ID, year)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var total f1.Points
		for _, diff := range flagDiffs(guessed, actual) {
			total += t.lookup(diff)
		}
		scores[g.ID] = total
	}
	return scores, nil
}

// scorePicks scores a podium-pick category. Only guessers with a pick
// participate; a miss scores 0 points but still counts as participation.
func (e *Engine) scorePicks(
	ctx context.Context,
	year f1.Year,
	raceID f1.RaceID,
	category f1.Category,
	guessers []persistence.User,
	actualDriver string,
) (map[uuid.UUID]f1.Points, error) {
	t, err := loadTable(ctx, e.tables, year, category)
	if err != nil {
		return nil, err
	}

	picks, err := e.guesses.PlacePicks(ctx, raceID, category)
	if err != nil {
		return nil, err
	}

	qualified := make(map[uuid.UUID]bool, len(guessers))
	for _, g := range guessers {
		qualified[g.ID] = true
	}

	scores := make(map[uuid.UUID]f1.Points, len(picks))
	for _, p := range picks {
		if !qualified[p.Guesser] {
			continue
		}
		var pts f1.Points
		if pickMatches(p.Driver, actualDriver) {
			pts = t.lookup(0)
		}
		scores[p.Guesser] = pts
	}
	return scores, nil
}

// assembleSummaries ranks every scored category and the totals, then
// folds them into one summary per guesser. Category placements rank
// participants only; totals rank every qualified guesser, counting 0
// for categories a guesser sat out.
func assembleSummaries(
	guessers []persistence.User,
	points map[f1.Category]map[uuid.UUID]f1.Points,
	order []f1.Category,
) map[uuid.UUID]f1.Summary {
	summaries := make(map[uuid.UUID]f1.Summary, len(guessers))
	totals := make(map[uuid.UUID]f1.Points, len(guessers))
	for _, g := range guessers {
		summaries[g.ID] = f1.Summary{Categories: make(map[f1.Category]f1.Placement)}
		totals[g.ID] = 0
	}

	for _, category := range order {
		categoryPoints, ok := points[category]
		if !ok {
			continue
		}
		for id, placement := range rankByPoints(categoryPoints) {
			s, ok := summaries[id]
			if !ok {
				continue
			}
			s.Categories[category] = placement
			totals[id] += placement.Points
		}
	}

	for id, placement := range rankByPoints(totals) {
		s := summaries[id]
		s.Total = placement
		summaries[id] = s
	}
	return summaries
}
