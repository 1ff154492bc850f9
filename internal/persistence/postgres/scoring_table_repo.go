package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// ScoringTableRepo implements persistence.ScoringTableRepo.
type ScoringTableRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewScoringTableRepo(db *sqlx.DB, timeout time.Duration) *ScoringTableRepo {
	return &ScoringTableRepo{db: db, timeout: timeout}
}

func (r *ScoringTableRepo) DiffPoints(ctx context.Context, year f1.Year, category f1.Category) ([]persistence.ScoringEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var entries []persistence.ScoringEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT diff, points
		FROM diff_points
		WHERE year = $1 AND category = $2
		ORDER BY diff`, year, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get diff points for %s/%d: %w", category, year, err)
	}
	return entries, nil
}

func (r *ScoringTableRepo) MaxDiff(ctx context.Context, year f1.Year, category f1.Category) (f1.Diff, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var max sql.NullInt64
	err := r.db.GetContext(ctx, &max, `
		SELECT MAX(diff) FROM diff_points WHERE year = $1 AND category = $2`,
		year, category)
	if err != nil {
		return 0, fmt.Errorf("failed to get max diff for %s/%d: %w", category, year, err)
	}
	if !max.Valid {
		return 0, fmt.Errorf("no scoring entries for %s/%d: %w", category, year, f1.ErrNotConfigured)
	}
	return f1.Diff(max.Int64), nil
}

func (r *ScoringTableRepo) AddDiff(ctx context.Context, year f1.Year, category f1.Category, diff f1.Diff) error {
	if diff < 0 {
		return fmt.Errorf("diff %d: %w", diff, f1.ErrInvalidDiff)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// New entries start at 0 points; SetPoints assigns the real value.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO diff_points (year, category, diff, points) VALUES ($1, $2, $3, 0)`,
		year, category, diff)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("diff %d exists for %s/%d: %w", diff, category, year, f1.ErrDuplicateDiff)
		}
		return fmt.Errorf("failed to add diff: %w", err)
	}
	return nil
}

func (r *ScoringTableRepo) SetPoints(ctx context.Context, year f1.Year, category f1.Category, diff f1.Diff, points f1.Points) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Silently affects 0 rows when the diff has no entry; callers
	// pre-create via AddDiff.
	_, err := r.db.ExecContext(ctx, `
		UPDATE diff_points SET points = $4
		WHERE year = $1 AND category = $2 AND diff = $3`,
		year, category, diff, points)
	if err != nil {
		return fmt.Errorf("failed to set points: %w", err)
	}
	return nil
}

func (r *ScoringTableRepo) RemoveDiff(ctx context.Context, year f1.Year, category f1.Category, diff f1.Diff) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM diff_points WHERE year = $1 AND category = $2 AND diff = $3`,
		year, category, diff)
	if err != nil {
		return fmt.Errorf("failed to remove diff: %w", err)
	}
	return nil
}

func (r *ScoringTableRepo) HasDiff(ctx context.Context, year f1.Year, category f1.Category, diff f1.Diff) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM diff_points WHERE year = $1 AND category = $2 AND diff = $3`,
		year, category, diff)
	if err != nil {
		return false, fmt.Errorf("failed to check diff: %w", err)
	}
	return count > 0, nil
}
