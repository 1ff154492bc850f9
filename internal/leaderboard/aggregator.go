// Package leaderboard serves ranked read views over the scoring
// snapshots: standings, medals and per-race point series.
package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// SeriesPoint is one guesser's total standing after one race.
type SeriesPoint struct {
	RaceID   f1.RaceID   `json:"raceId"`
	RaceName string      `json:"raceName"`
	Position int         `json:"position"`
	Pos      f1.Position `json:"pos"`
	Points   f1.Points   `json:"points"`
}

// Aggregator reads scoring snapshots into leaderboard views, caching
// the hot ones. Cache failures degrade to database reads.
type Aggregator struct {
	seasons   persistence.SeasonRepo
	snapshots persistence.SnapshotRepo
	cache     Cache
	ttl       time.Duration
	logger    zerolog.Logger
}

func NewAggregator(
	seasons persistence.SeasonRepo,
	snapshots persistence.SnapshotRepo,
	cache Cache,
	ttl time.Duration,
	logger zerolog.Logger,
) *Aggregator {
	return &Aggregator{
		seasons:   seasons,
		snapshots: snapshots,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.With().Str("component", "leaderboard").Logger(),
	}
}

// Leaderboard returns the season standings after the latest finished
// race, or the season-start standings when no race has finished yet.
func (a *Aggregator) Leaderboard(ctx context.Context, year f1.Year) ([]persistence.GuesserPlacement, error) {
	key := fmt.Sprintf("leaderboard:%d", year)
	var cached []persistence.GuesserPlacement
	if a.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	var totals []persistence.GuesserPlacement
	latest, err := a.seasons.LatestFinishedRace(ctx, year)
	switch {
	case errors.Is(err, f1.ErrNotFound):
		totals, err = a.snapshots.YearStartTotals(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("leaderboard %d: %w", year, err)
		}
	case err != nil:
		return nil, fmt.Errorf("leaderboard %d: %w", year, err)
	default:
		totals, err = a.snapshots.RaceTotals(ctx, latest.ID)
		if err != nil {
			return nil, fmt.Errorf("leaderboard %d: %w", year, err)
		}
	}

	a.cacheSet(ctx, key, totals)
	return totals, nil
}

// RaceStandings returns every guesser's total placement at one race.
func (a *Aggregator) RaceStandings(ctx context.Context, raceID f1.RaceID) ([]persistence.GuesserPlacement, error) {
	totals, err := a.snapshots.RaceTotals(ctx, raceID)
	if err != nil {
		return nil, fmt.Errorf("race standings %d: %w", raceID, err)
	}
	return totals, nil
}

// Summary returns one guesser's full per-category snapshot at a race.
func (a *Aggregator) Summary(ctx context.Context, raceID f1.RaceID, guesser uuid.UUID) (f1.Summary, error) {
	return a.snapshots.RaceSummary(ctx, raceID, guesser)
}

// YearStartSummary returns one guesser's season-start snapshot.
func (a *Aggregator) YearStartSummary(ctx context.Context, year f1.Year, guesser uuid.UUID) (f1.Summary, error) {
	return a.snapshots.YearStartSummary(ctx, year, guesser)
}

// Medals tallies a guesser's gold, silver and bronze season finishes.
func (a *Aggregator) Medals(ctx context.Context, guesser uuid.UUID) (f1.Medals, error) {
	key := "medals:" + guesser.String()
	var cached f1.Medals
	if a.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	medals, err := a.snapshots.Medals(ctx, guesser)
	if err != nil {
		return f1.Medals{}, fmt.Errorf("medals %s: %w", guesser, err)
	}

	a.cacheSet(ctx, key, medals)
	return medals, nil
}

// PreviousPlacements lists the guesser's final placements across past
// seasons.
func (a *Aggregator) PreviousPlacements(ctx context.Context, guesser uuid.UUID) ([]persistence.YearPlacement, error) {
	placements, err := a.snapshots.YearPlacements(ctx, guesser)
	if err != nil {
		return nil, fmt.Errorf("previous placements %s: %w", guesser, err)
	}
	return placements, nil
}

// PointsSeries returns the guesser's total standing after each finished
// race of the season, in race order. Races without a snapshot for the
// guesser are left out.
func (a *Aggregator) PointsSeries(ctx context.Context, year f1.Year, guesser uuid.UUID) ([]SeriesPoint, error) {
	races, err := a.seasons.RacesFinished(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("points series %d: %w", year, err)
	}

	series := make([]SeriesPoint, 0, len(races))
	for _, race := range races {
		summary, err := a.snapshots.RaceSummary(ctx, race.ID, guesser)
		if errors.Is(err, f1.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("points series %d: %w", year, err)
		}
		series = append(series, SeriesPoint{
			RaceID:   race.ID,
			RaceName: race.Name,
			Position: race.Position,
			Pos:      summary.Total.Pos,
			Points:   summary.Total.Points,
		})
	}
	return series, nil
}

// InvalidateYear drops the cached season leaderboard after a scoring
// run.
func (a *Aggregator) InvalidateYear(ctx context.Context, year f1.Year) {
	if err := a.cache.Delete(ctx, fmt.Sprintf("leaderboard:%d", year)); err != nil {
		a.logger.Debug().Err(err).Int("year", int(year)).Msg("cache invalidation failed")
	}
}

// InvalidateGuesser drops the guesser's cached medal tally after a
// season is finalized.
func (a *Aggregator) InvalidateGuesser(ctx context.Context, guesser uuid.UUID) {
	if err := a.cache.Delete(ctx, "medals:"+guesser.String()); err != nil {
		a.logger.Debug().Err(err).Str("guesser", guesser.String()).Msg("cache invalidation failed")
	}
}

func (a *Aggregator) cacheGet(ctx context.Context, key string, out interface{}) bool {
	raw, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		a.logger.Debug().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		a.logger.Debug().Err(err).Str("key", key).Msg("cache entry corrupt")
		return false
	}
	return true
}

func (a *Aggregator) cacheSet(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, raw, a.ttl); err != nil {
		a.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}
