package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// SeasonRepo implements persistence.SeasonRepo.
type SeasonRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewSeasonRepo(db *sqlx.DB, timeout time.Duration) *SeasonRepo {
	return &SeasonRepo{db: db, timeout: timeout}
}

func (r *SeasonRepo) AddYear(ctx context.Context, year f1.Year) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO years (year) VALUES ($1) ON CONFLICT DO NOTHING`, year)
	if err != nil {
		return fmt.Errorf("failed to add year: %w", err)
	}
	return nil
}

func (r *SeasonRepo) IsValidYear(ctx context.Context, year f1.Year) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM years WHERE year = $1`, year); err != nil {
		return false, fmt.Errorf("failed to validate year: %w", err)
	}
	return count > 0, nil
}

func (r *SeasonRepo) Years(ctx context.Context) ([]f1.Year, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var years []f1.Year
	if err := r.db.SelectContext(ctx, &years, `SELECT year FROM years ORDER BY year DESC`); err != nil {
		return nil, fmt.Errorf("failed to list years: %w", err)
	}
	return years, nil
}

func (r *SeasonRepo) AddRace(ctx context.Context, raceID f1.RaceID, name string, year f1.Year, position int) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO races (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		raceID, name); err != nil {
		return fmt.Errorf("failed to insert race: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO race_order (id, year, position) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		raceID, year, position); err != nil {
		return fmt.Errorf("failed to insert race order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit race insert: %w", err)
	}
	return nil
}

func (r *SeasonRepo) Race(ctx context.Context, raceID f1.RaceID) (persistence.Race, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var race persistence.Race
	err := r.db.GetContext(ctx, &race, `
		SELECT r.id, r.name, ro.year, ro.position
		FROM races r
		JOIN race_order ro ON ro.id = r.id
		WHERE r.id = $1`, raceID)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Race{}, fmt.Errorf("race %d: %w", raceID, f1.ErrNotFound)
	}
	if err != nil {
		return persistence.Race{}, fmt.Errorf("failed to get race: %w", err)
	}
	return race, nil
}

func (r *SeasonRepo) Races(ctx context.Context, year f1.Year) ([]persistence.Race, error) {
	return r.races(ctx, `
		SELECT r.id, r.name, ro.year, ro.position
		FROM race_order ro
		JOIN races r ON r.id = ro.id
		WHERE ro.year = $1
		ORDER BY ro.position`, year)
}

func (r *SeasonRepo) RacesFinished(ctx context.Context, year f1.Year) ([]persistence.Race, error) {
	return r.races(ctx, `
		SELECT DISTINCT r.id, r.name, ro.year, ro.position
		FROM race_order ro
		JOIN races r ON r.id = ro.id
		JOIN race_results rr ON rr.race_id = r.id
		WHERE ro.year = $1
		ORDER BY ro.position`, year)
}

func (r *SeasonRepo) races(ctx context.Context, query string, year f1.Year) ([]persistence.Race, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var races []persistence.Race
	if err := r.db.SelectContext(ctx, &races, query, year); err != nil {
		return nil, fmt.Errorf("failed to list races: %w", err)
	}
	return races, nil
}

func (r *SeasonRepo) LatestFinishedRace(ctx context.Context, year f1.Year) (persistence.Race, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var race persistence.Race
	err := r.db.GetContext(ctx, &race, `
		SELECT DISTINCT r.id, r.name, ro.year, ro.position
		FROM race_order ro
		JOIN races r ON r.id = ro.id
		JOIN race_results rr ON rr.race_id = r.id
		WHERE ro.year = $1
		ORDER BY ro.position DESC
		LIMIT 1`, year)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Race{}, fmt.Errorf("no finished race in %d: %w", year, f1.ErrNotFound)
	}
	if err != nil {
		return persistence.Race{}, fmt.Errorf("failed to get latest finished race: %w", err)
	}
	return race, nil
}

func (r *SeasonRepo) DriversYear(ctx context.Context, year f1.Year) ([]string, error) {
	return r.competitors(ctx, `
		SELECT driver FROM driver_years WHERE year = $1 ORDER BY position`, year)
}

func (r *SeasonRepo) ConstructorsYear(ctx context.Context, year f1.Year) ([]string, error) {
	return r.competitors(ctx, `
		SELECT constructor FROM constructor_years WHERE year = $1 ORDER BY position`, year)
}

func (r *SeasonRepo) competitors(ctx context.Context, query string, year f1.Year) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, year); err != nil {
		return nil, fmt.Errorf("failed to list competitors: %w", err)
	}
	return names, nil
}

// AddDriverYear appends the driver at the next free position of the
// season's default order.
func (r *SeasonRepo) AddDriverYear(ctx context.Context, driver string, year f1.Year) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO drivers (name) VALUES ($1) ON CONFLICT DO NOTHING`, driver); err != nil {
		return fmt.Errorf("failed to insert driver: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO driver_years (driver, year, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1 FROM driver_years WHERE year = $2`,
		driver, year); err != nil {
		return fmt.Errorf("failed to insert driver year: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit driver year insert: %w", err)
	}
	return nil
}

func (r *SeasonRepo) AddConstructorYear(ctx context.Context, constructor string, year f1.Year) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO constructors (name) VALUES ($1) ON CONFLICT DO NOTHING`, constructor); err != nil {
		return fmt.Errorf("failed to insert constructor: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO constructor_years (constructor, year, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1 FROM constructor_years WHERE year = $2`,
		constructor, year); err != nil {
		return fmt.Errorf("failed to insert constructor year: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit constructor year insert: %w", err)
	}
	return nil
}
