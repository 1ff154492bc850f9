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

// CutoffRepo implements persistence.CutoffRepo.
type CutoffRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewCutoffRepo(db *sqlx.DB, timeout time.Duration) *CutoffRepo {
	return &CutoffRepo{db: db, timeout: timeout}
}

func (r *CutoffRepo) YearCutoff(ctx context.Context, year f1.Year) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var cutoff time.Time
	err := r.db.GetContext(ctx, &cutoff, `SELECT cutoff FROM year_cutoffs WHERE year = $1`, year)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("no cutoff for year %d: %w", year, f1.ErrNotConfigured)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get year cutoff: %w", err)
	}
	return cutoff, nil
}

func (r *CutoffRepo) RaceCutoff(ctx context.Context, raceID f1.RaceID) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var cutoff time.Time
	err := r.db.GetContext(ctx, &cutoff, `SELECT cutoff FROM race_cutoffs WHERE race_id = $1`, raceID)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("no cutoff for race %d: %w", raceID, f1.ErrNotConfigured)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get race cutoff: %w", err)
	}
	return cutoff, nil
}

func (r *CutoffRepo) SetYearCutoff(ctx context.Context, year f1.Year, cutoff time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO year_cutoffs (year, cutoff) VALUES ($1, $2)
		ON CONFLICT (year) DO UPDATE SET cutoff = EXCLUDED.cutoff`,
		year, cutoff)
	if err != nil {
		return fmt.Errorf("failed to set year cutoff: %w", err)
	}
	return nil
}

func (r *CutoffRepo) SetRaceCutoff(ctx context.Context, raceID f1.RaceID, cutoff time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO race_cutoffs (race_id, cutoff) VALUES ($1, $2)
		ON CONFLICT (race_id) DO UPDATE SET cutoff = EXCLUDED.cutoff`,
		raceID, cutoff)
	if err != nil {
		return fmt.Errorf("failed to set race cutoff: %w", err)
	}
	return nil
}

func (r *CutoffRepo) CutoffRaces(ctx context.Context, year f1.Year) ([]persistence.CutoffRace, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, `
		SELECT r.id, r.name, ro.year, ro.position, rc.cutoff
		FROM race_cutoffs rc
		JOIN race_order ro ON ro.id = rc.race_id
		JOIN races r ON r.id = ro.id
		WHERE ro.year = $1
		ORDER BY ro.position`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list race cutoffs: %w", err)
	}
	defer rows.Close()

	var races []persistence.CutoffRace
	for rows.Next() {
		var cr persistence.CutoffRace
		if err := rows.Scan(&cr.ID, &cr.Name, &cr.Year, &cr.Position, &cr.Cutoff); err != nil {
			return nil, fmt.Errorf("failed to scan race cutoff: %w", err)
		}
		races = append(races, cr)
	}
	return races, rows.Err()
}
