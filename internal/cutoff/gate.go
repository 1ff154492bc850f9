// Package cutoff decides whether a guess may still be written for a
// season or race.
package cutoff

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// Clock supplies the current instant. Tests inject a fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }

// Gate answers "can a guess still be written" for a key. A missing
// cutoff record surfaces f1.ErrNotConfigured; it never means
// "unrestricted".
type Gate struct {
	cutoffs persistence.CutoffRepo
	clock   Clock
	loc     *time.Location
	logger  zerolog.Logger
}

func NewGate(cutoffs persistence.CutoffRepo, clock Clock, loc *time.Location, logger zerolog.Logger) *Gate {
	if loc == nil {
		loc = time.Local
	}
	return &Gate{
		cutoffs: cutoffs,
		clock:   clock,
		loc:     loc,
		logger:  logger.With().Str("component", "cutoff").Logger(),
	}
}

// IsYearOpen reports whether season-level guessing is still open. The
// boundary is exclusive: a guess at exactly the deadline is rejected.
func (g *Gate) IsYearOpen(ctx context.Context, year f1.Year) (bool, error) {
	deadline, err := g.cutoffs.YearCutoff(ctx, year)
	if err != nil {
		return false, err
	}
	return g.clock.Now().Before(deadline), nil
}

// IsRaceOpen reports whether race-level guessing is still open.
func (g *Gate) IsRaceOpen(ctx context.Context, raceID f1.RaceID) (bool, error) {
	deadline, err := g.cutoffs.RaceCutoff(ctx, raceID)
	if err != nil {
		return false, err
	}
	return g.clock.Now().Before(deadline), nil
}

// TimeLeftYear returns the remaining guessing time for the season,
// negative once the deadline has passed.
func (g *Gate) TimeLeftYear(ctx context.Context, year f1.Year) (time.Duration, error) {
	deadline, err := g.cutoffs.YearCutoff(ctx, year)
	if err != nil {
		return 0, err
	}
	return deadline.Sub(g.clock.Now()), nil
}

// TimeLeftRace returns the remaining guessing time for the race.
func (g *Gate) TimeLeftRace(ctx context.Context, raceID f1.RaceID) (time.Duration, error) {
	deadline, err := g.cutoffs.RaceCutoff(ctx, raceID)
	if err != nil {
		return 0, err
	}
	return deadline.Sub(g.clock.Now()), nil
}

// SetYearCutoff upserts the season deadline. No history is kept.
func (g *Gate) SetYearCutoff(ctx context.Context, year f1.Year, deadline time.Time) error {
	if err := g.cutoffs.SetYearCutoff(ctx, year, deadline); err != nil {
		return err
	}
	g.logger.Info().Int("year", int(year)).Time("cutoff", deadline).Msg("year cutoff set")
	return nil
}

// SetRaceCutoff upserts the race deadline.
func (g *Gate) SetRaceCutoff(ctx context.Context, raceID f1.RaceID, deadline time.Time) error {
	if err := g.cutoffs.SetRaceCutoff(ctx, raceID, deadline); err != nil {
		return err
	}
	g.logger.Info().Int("race", int(raceID)).Time("cutoff", deadline).Msg("race cutoff set")
	return nil
}

// DefaultSeasonCutoff is the seed deadline for a new season: local
// midnight, January 1 of the season's year, in the configured zone. It
// is not re-applied automatically.
func (g *Gate) DefaultSeasonCutoff(year f1.Year) time.Time {
	return time.Date(int(year), time.January, 1, 0, 0, 0, 0, g.loc)
}
