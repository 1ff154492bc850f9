package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// ResultsRepo implements persistence.ResultsRepo.
type ResultsRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewResultsRepo(db *sqlx.DB, timeout time.Duration) *ResultsRepo {
	return &ResultsRepo{db: db, timeout: timeout}
}

func (r *ResultsRepo) SaveGridSlot(ctx context.Context, raceID f1.RaceID, position int, driver string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO starting_grids (race_id, position, driver) VALUES ($1, $2, $3)
		ON CONFLICT (race_id, driver) DO UPDATE SET position = EXCLUDED.position`,
		raceID, position, driver)
	if err != nil {
		return fmt.Errorf("failed to save grid slot: %w", err)
	}
	return nil
}

func (r *ResultsRepo) StartingGrid(ctx context.Context, raceID f1.RaceID) ([]persistence.GridSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var grid []persistence.GridSlot
	err := r.db.SelectContext(ctx, &grid, `
		SELECT position, driver FROM starting_grids
		WHERE race_id = $1 ORDER BY position`, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get starting grid: %w", err)
	}
	return grid, nil
}

func (r *ResultsRepo) SaveRaceResultRow(ctx context.Context, raceID f1.RaceID, row persistence.RaceResultRow) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO race_results (race_id, position, driver, points, finishing_position)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (race_id, driver) DO UPDATE SET
			position = EXCLUDED.position,
			points = EXCLUDED.points,
			finishing_position = EXCLUDED.finishing_position`,
		raceID, row.Position, row.Driver, row.Points, row.FinishingPosition)
	if err != nil {
		return fmt.Errorf("failed to save race result row: %w", err)
	}
	return nil
}

func (r *ResultsRepo) RaceResult(ctx context.Context, raceID f1.RaceID) ([]persistence.RaceResultRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rows []persistence.RaceResultRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT position, driver, points, finishing_position
		FROM race_results
		WHERE race_id = $1
		ORDER BY finishing_position`, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get race result: %w", err)
	}
	return rows, nil
}

func (r *ResultsRepo) SaveDriverStanding(ctx context.Context, raceID f1.RaceID, s persistence.Standing) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO driver_standings (race_id, driver, position, points)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (race_id, driver) DO UPDATE SET
			position = EXCLUDED.position, points = EXCLUDED.points`,
		raceID, s.Name, s.Position, s.Points)
	if err != nil {
		return fmt.Errorf("failed to save driver standing: %w", err)
	}
	return nil
}

func (r *ResultsRepo) SaveConstructorStanding(ctx context.Context, raceID f1.RaceID, s persistence.Standing) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO constructor_standings (race_id, constructor, position, points)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (race_id, constructor) DO UPDATE SET
			position = EXCLUDED.position, points = EXCLUDED.points`,
		raceID, s.Name, s.Position, s.Points)
	if err != nil {
		return fmt.Errorf("failed to save constructor standing: %w", err)
	}
	return nil
}

func (r *ResultsRepo) DriverStandings(ctx context.Context, raceID f1.RaceID) ([]persistence.Standing, error) {
	return r.standings(ctx, `
		SELECT position, driver AS name, points
		FROM driver_standings
		WHERE race_id = $1
		ORDER BY position`, raceID)
}

func (r *ResultsRepo) ConstructorStandings(ctx context.Context, raceID f1.RaceID) ([]persistence.Standing, error) {
	return r.standings(ctx, `
		SELECT position, constructor AS name, points
		FROM constructor_standings
		WHERE race_id = $1
		ORDER BY position`, raceID)
}

func (r *ResultsRepo) standings(ctx context.Context, query string, raceID f1.RaceID) ([]persistence.Standing, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var standings []persistence.Standing
	if err := r.db.SelectContext(ctx, &standings, query, raceID); err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", err)
	}
	return standings, nil
}

func (r *ResultsRepo) AddFlagStat(ctx context.Context, raceID f1.RaceID, flag string, round int, sessionType string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO flag_stats (flag, race_id, round, session_type) VALUES ($1, $2, $3, $4)`,
		flag, raceID, round, sessionType)
	if err != nil {
		return fmt.Errorf("failed to add flag stat: %w", err)
	}
	return nil
}

func (r *ResultsRepo) RegisteredFlags(ctx context.Context, raceID f1.RaceID) ([]persistence.RegisteredFlag, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var flags []persistence.RegisteredFlag
	err := r.db.SelectContext(ctx, &flags, `
		SELECT id, flag, round, session_type
		FROM flag_stats
		WHERE race_id = $1
		ORDER BY session_type, round`, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get registered flags: %w", err)
	}
	return flags, nil
}

// FlagCounts tallies flag incidents for races up to and including
// throughPosition. Position 0 means no race has counted yet, so every
// tally is zero.
func (r *ResultsRepo) FlagCounts(ctx context.Context, year f1.Year, throughPosition int) (f1.Flags, error) {
	if throughPosition == 0 {
		return f1.Flags{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, `
		SELECT fs.flag, COUNT(*)
		FROM flag_stats fs
		JOIN race_order ro ON ro.id = fs.race_id
		WHERE ro.year = $1 AND ro.position <= $2
		GROUP BY fs.flag`, year, throughPosition)
	if err != nil {
		return f1.Flags{}, fmt.Errorf("failed to count flags: %w", err)
	}
	defer rows.Close()

	var flags f1.Flags
	for rows.Next() {
		var flag string
		var count int
		if err := rows.Scan(&flag, &count); err != nil {
			return f1.Flags{}, fmt.Errorf("failed to scan flag count: %w", err)
		}
		switch flag {
		case f1.FlagYellow:
			flags.Yellow = count
		case f1.FlagRed:
			flags.Red = count
		case f1.FlagSafetyCar:
			flags.SafetyCar = count
		}
	}
	return flags, rows.Err()
}
