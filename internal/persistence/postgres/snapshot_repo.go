package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// SnapshotRepo implements persistence.SnapshotRepo. Race-scoped and
// season-start-scoped snapshots live in separate tables; both are
// replaced whole per (key, guesser) on recomputation so category rows
// removed from scoring do not linger.
type SnapshotRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewSnapshotRepo(db *sqlx.DB, timeout time.Duration) *SnapshotRepo {
	return &SnapshotRepo{db: db, timeout: timeout}
}

func (r *SnapshotRepo) SaveRaceSummary(ctx context.Context, raceID f1.RaceID, guesser uuid.UUID, summary f1.Summary) error {
	return r.saveSummary(ctx, summary,
		`INSERT INTO placement_races (race_id, guesser, placement, points) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (race_id, guesser) DO UPDATE SET placement = EXCLUDED.placement, points = EXCLUDED.points`,
		`DELETE FROM placement_categories WHERE race_id = $1 AND guesser = $2`,
		`INSERT INTO placement_categories (race_id, guesser, category, placement, points) VALUES ($1, $2, $3, $4, $5)`,
		int(raceID), guesser)
}

func (r *SnapshotRepo) SaveYearStartSummary(ctx context.Context, year f1.Year, guesser uuid.UUID, summary f1.Summary) error {
	return r.saveSummary(ctx, summary,
		`INSERT INTO placement_races_year_start (year, guesser, placement, points) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (year, guesser) DO UPDATE SET placement = EXCLUDED.placement, points = EXCLUDED.points`,
		`DELETE FROM placement_categories_year_start WHERE year = $1 AND guesser = $2`,
		`INSERT INTO placement_categories_year_start (year, guesser, category, placement, points) VALUES ($1, $2, $3, $4, $5)`,
		int(year), guesser)
}

func (r *SnapshotRepo) saveSummary(ctx context.Context, summary f1.Summary, totalSQL, pruneSQL, categorySQL string, key int, guesser uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, totalSQL, key, guesser, summary.Total.Pos, summary.Total.Points); err != nil {
		return fmt.Errorf("failed to save total placement: %w", err)
	}
	// Prune before insert so categories dropped from scoring disappear.
	if _, err := tx.ExecContext(ctx, pruneSQL, key, guesser); err != nil {
		return fmt.Errorf("failed to prune category placements: %w", err)
	}
	for _, category := range f1.Categories {
		placement, ok := summary.Categories[category]
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, categorySQL, key, guesser, category, placement.Pos, placement.Points); err != nil {
			return fmt.Errorf("failed to save %s placement: %w", category, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit summary: %w", err)
	}
	return nil
}

func (r *SnapshotRepo) RaceSummary(ctx context.Context, raceID f1.RaceID, guesser uuid.UUID) (f1.Summary, error) {
	return r.summary(ctx,
		`SELECT placement, points FROM placement_races WHERE race_id = $1 AND guesser = $2`,
		`SELECT category, placement, points FROM placement_categories WHERE race_id = $1 AND guesser = $2`,
		int(raceID), guesser)
}

func (r *SnapshotRepo) YearStartSummary(ctx context.Context, year f1.Year, guesser uuid.UUID) (f1.Summary, error) {
	return r.summary(ctx,
		`SELECT placement, points FROM placement_races_year_start WHERE year = $1 AND guesser = $2`,
		`SELECT category, placement, points FROM placement_categories_year_start WHERE year = $1 AND guesser = $2`,
		int(year), guesser)
}

func (r *SnapshotRepo) summary(ctx context.Context, totalSQL, categorySQL string, key int, guesser uuid.UUID) (f1.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var total f1.Placement
	err := r.db.QueryRowxContext(ctx, totalSQL, key, guesser).Scan(&total.Pos, &total.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return f1.Summary{}, fmt.Errorf("no summary for key %d: %w", key, f1.ErrNotFound)
	}
	if err != nil {
		return f1.Summary{}, fmt.Errorf("failed to get total placement: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, categorySQL, key, guesser)
	if err != nil {
		return f1.Summary{}, fmt.Errorf("failed to get category placements: %w", err)
	}
	defer rows.Close()

	categories := make(map[f1.Category]f1.Placement)
	for rows.Next() {
		var category f1.Category
		var placement f1.Placement
		if err := rows.Scan(&category, &placement.Pos, &placement.Points); err != nil {
			return f1.Summary{}, fmt.Errorf("failed to scan category placement: %w", err)
		}
		categories[category] = placement
	}
	if err := rows.Err(); err != nil {
		return f1.Summary{}, err
	}
	return f1.Summary{Categories: categories, Total: total}, nil
}

func (r *SnapshotRepo) RaceTotals(ctx context.Context, raceID f1.RaceID) ([]persistence.GuesserPlacement, error) {
	return r.totals(ctx, `
		SELECT pr.guesser, u.username, pr.placement, pr.points
		FROM placement_races pr
		JOIN users u ON u.id = pr.guesser
		WHERE pr.race_id = $1
		ORDER BY pr.placement, u.username`, int(raceID))
}

func (r *SnapshotRepo) YearStartTotals(ctx context.Context, year f1.Year) ([]persistence.GuesserPlacement, error) {
	return r.totals(ctx, `
		SELECT pr.guesser, u.username, pr.placement, pr.points
		FROM placement_races_year_start pr
		JOIN users u ON u.id = pr.guesser
		WHERE pr.year = $1
		ORDER BY pr.placement, u.username`, int(year))
}

func (r *SnapshotRepo) totals(ctx context.Context, query string, key int) ([]persistence.GuesserPlacement, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var totals []persistence.GuesserPlacement
	if err := r.db.SelectContext(ctx, &totals, query, key); err != nil {
		return nil, fmt.Errorf("failed to get totals: %w", err)
	}
	return totals, nil
}

func (r *SnapshotRepo) SaveYearPlacement(ctx context.Context, year f1.Year, guesser uuid.UUID, pos f1.Position) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO placement_years (year, guesser, placement) VALUES ($1, $2, $3)
		ON CONFLICT (year, guesser) DO UPDATE SET placement = EXCLUDED.placement`,
		year, guesser, pos)
	if err != nil {
		return fmt.Errorf("failed to save year placement: %w", err)
	}
	return nil
}

func (r *SnapshotRepo) YearPlacements(ctx context.Context, guesser uuid.UUID) ([]persistence.YearPlacement, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var placements []persistence.YearPlacement
	err := r.db.SelectContext(ctx, &placements, `
		SELECT year, placement FROM placement_years
		WHERE guesser = $1 ORDER BY year DESC`, guesser)
	if err != nil {
		return nil, fmt.Errorf("failed to get year placements: %w", err)
	}
	return placements, nil
}

func (r *SnapshotRepo) Medals(ctx context.Context, guesser uuid.UUID) (f1.Medals, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var medals f1.Medals
	err := r.db.QueryRowxContext(ctx, `
		SELECT
			COUNT(CASE WHEN placement = 1 THEN 1 END),
			COUNT(CASE WHEN placement = 2 THEN 1 END),
			COUNT(CASE WHEN placement = 3 THEN 1 END)
		FROM placement_years
		WHERE guesser = $1`, guesser).
		Scan(&medals.Gold, &medals.Silver, &medals.Bronze)
	if err != nil {
		return f1.Medals{}, fmt.Errorf("failed to count medals: %w", err)
	}
	return medals, nil
}
