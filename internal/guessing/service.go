// Package guessing accepts and stores guesses, enforcing the cutoff
// gate on every write.
package guessing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/voiestad/f1-backend/internal/cutoff"
	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// Service is the guess intake. Every write is REPLACE-on-write: a later
// guess for the same key supersedes the prior one with no history.
type Service struct {
	guesses persistence.GuessRepo
	seasons persistence.SeasonRepo
	results persistence.ResultsRepo
	gate    *cutoff.Gate
	logger  zerolog.Logger
}

func NewService(
	guesses persistence.GuessRepo,
	seasons persistence.SeasonRepo,
	results persistence.ResultsRepo,
	gate *cutoff.Gate,
	logger zerolog.Logger,
) *Service {
	return &Service{
		guesses: guesses,
		seasons: seasons,
		results: results,
		gate:    gate,
		logger:  logger.With().Str("component", "guessing").Logger(),
	}
}

// SaveFlagGuesses stores a season flag-count guess. Rejected with
// f1.ErrGuessingClosed once the season cutoff has passed.
func (s *Service) SaveFlagGuesses(ctx context.Context, guesser uuid.UUID, year f1.Year, flags f1.Flags) error {
	if err := s.requireYearOpen(ctx, year); err != nil {
		return err
	}
	if flags.Yellow < 0 || flags.Red < 0 || flags.SafetyCar < 0 {
		return fmt.Errorf("flag counts must be non-negative")
	}
	if err := s.guesses.SaveFlagGuesses(ctx, guesser, year, flags); err != nil {
		return fmt.Errorf("save flag guesses: %w", err)
	}
	s.logger.Info().
		Str("guesser", guesser.String()).
		Int("year", int(year)).
		Msg("flag guesses saved")
	return nil
}

// SaveDriverRanking stores a full season driver ranking. The ranking
// must be a permutation of the season's driver list.
func (s *Service) SaveDriverRanking(ctx context.Context, guesser uuid.UUID, year f1.Year, ranking []string) error {
	if err := s.requireYearOpen(ctx, year); err != nil {
		return err
	}
	drivers, err := s.seasons.DriversYear(ctx, year)
	if err != nil {
		return fmt.Errorf("save driver ranking: %w", err)
	}
	if err := validateRanking(ranking, drivers); err != nil {
		return fmt.Errorf("save driver ranking: %w", err)
	}
	for i, driver := range ranking {
		if err := s.guesses.SaveDriverRanking(ctx, guesser, year, driver, i+1); err != nil {
			return fmt.Errorf("save driver ranking: %w", err)
		}
	}
	s.logger.Info().
		Str("guesser", guesser.String()).
		Int("year", int(year)).
		Msg("driver ranking saved")
	return nil
}

// SaveConstructorRanking stores a full season constructor ranking.
func (s *Service) SaveConstructorRanking(ctx context.Context, guesser uuid.UUID, year f1.Year, ranking []string) error {
	if err := s.requireYearOpen(ctx, year); err != nil {
		return err
	}
	constructors, err := s.seasons.ConstructorsYear(ctx, year)
	if err != nil {
		return fmt.Errorf("save constructor ranking: %w", err)
	}
	if err := validateRanking(ranking, constructors); err != nil {
		return fmt.Errorf("save constructor ranking: %w", err)
	}
	for i, constructor := range ranking {
		if err := s.guesses.SaveConstructorRanking(ctx, guesser, year, constructor, i+1); err != nil {
			return fmt.Errorf("save constructor ranking: %w", err)
		}
	}
	s.logger.Info().
		Str("guesser", guesser.String()).
		Int("year", int(year)).
		Msg("constructor ranking saved")
	return nil
}

// SavePlacePick stores a podium pick for a race. The pick must name a
// driver on the race's starting grid and the category must be a
// podium-pick category.
func (s *Service) SavePlacePick(ctx context.Context, guesser uuid.UUID, raceID f1.RaceID, category f1.Category, driver string) error {
	if category != f1.CategoryFirst && category != f1.CategoryTenth {
		return fmt.Errorf("category %s does not take a podium pick", category)
	}
	open, err := s.gate.IsRaceOpen(ctx, raceID)
	if err != nil {
		return fmt.Errorf("save place pick: %w", err)
	}
	if !open {
		return fmt.Errorf("race %d: %w", raceID, f1.ErrGuessingClosed)
	}

	grid, err := s.results.StartingGrid(ctx, raceID)
	if err != nil {
		return fmt.Errorf("save place pick: %w", err)
	}
	if !onGrid(grid, driver) {
		return fmt.Errorf("driver %q is not on the starting grid of race %d", driver, raceID)
	}

	if err := s.guesses.SavePlacePick(ctx, guesser, raceID, category, driver); err != nil {
		return fmt.Errorf("save place pick: %w", err)
	}
	s.logger.Info().
		Str("guesser", guesser.String()).
		Int("race", int(raceID)).
		Str("category", string(category)).
		Msg("place pick saved")
	return nil
}

// FlagGuesses returns the guesser's flag guess for the year.
func (s *Service) FlagGuesses(ctx context.Context, guesser uuid.UUID, year f1.Year) (f1.Flags, bool, error) {
	return s.guesses.FlagGuesses(ctx, guesser, year)
}

// DriverRanking returns the guesser's season driver ranking, empty when
// no ranking is on file.
func (s *Service) DriverRanking(ctx context.Context, guesser uuid.UUID, year f1.Year) ([]persistence.RankedGuess, error) {
	return s.guesses.DriverRanking(ctx, guesser, year)
}

// ConstructorRanking returns the guesser's season constructor ranking.
func (s *Service) ConstructorRanking(ctx context.Context, guesser uuid.UUID, year f1.Year) ([]persistence.RankedGuess, error) {
	return s.guesses.ConstructorRanking(ctx, guesser, year)
}

// PlacePick returns the guesser's pick for a race category, or
// f1.ErrNotFound.
func (s *Service) PlacePick(ctx context.Context, guesser uuid.UUID, raceID f1.RaceID, category f1.Category) (string, error) {
	return s.guesses.PlacePick(ctx, guesser, raceID, category)
}

func (s *Service) requireYearOpen(ctx context.Context, year f1.Year) error {
	open, err := s.gate.IsYearOpen(ctx, year)
	if err != nil {
		return fmt.Errorf("check year cutoff: %w", err)
	}
	if !open {
		return fmt.Errorf("year %d: %w", year, f1.ErrGuessingClosed)
	}
	return nil
}

// validateRanking checks that a guessed ranking is a permutation of the
// season's competitor list.
func validateRanking(ranking, competitors []string) error {
	if len(ranking) != len(competitors) {
		return fmt.Errorf("ranking has %d entries, season has %d competitors", len(ranking), len(competitors))
	}
	known := make(map[string]bool, len(competitors))
	for _, c := range competitors {
		known[c] = true
	}
	seen := make(map[string]bool, len(ranking))
	for _, name := range ranking {
		if !known[name] {
			return fmt.Errorf("unknown competitor %q", name)
		}
		if seen[name] {
			return fmt.Errorf("competitor %q listed twice", name)
		}
		seen[name] = true
	}
	return nil
}

func onGrid(grid []persistence.GridSlot, driver string) bool {
	for _, slot := range grid {
		if slot.Driver == driver {
			return true
		}
	}
	return false
}
