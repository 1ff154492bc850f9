// Package scoring converts guesses into points, placements and persisted
// summaries.
package scoring

import (
	"context"
	"fmt"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// table is a loaded diff-to-points mapping for one (season, category).
// The mapping is sparse: a diff without an entry is worth 0 points, as
// is any diff beyond maxDiff.
type table struct {
	points  map[f1.Diff]f1.Points
	maxDiff f1.Diff
}

// loadTable fetches the scoring table for a category. An empty table is
// f1.ErrNotConfigured: scoring must not proceed for the category.
func loadTable(ctx context.Context, repo persistence.ScoringTableRepo, year f1.Year, category f1.Category) (table, error) {
	entries, err := repo.DiffPoints(ctx, year, category)
	if err != nil {
		return table{}, err
	}
	if len(entries) == 0 {
		return table{}, fmt.Errorf("scoring table %s/%d is empty: %w", category, year, f1.ErrNotConfigured)
	}

	t := table{points: make(map[f1.Diff]f1.Points, len(entries))}
	for _, e := range entries {
		t.points[e.Diff] = e.Points
		if e.Diff > t.maxDiff {
			t.maxDiff = e.Diff
		}
	}
	return t, nil
}

// lookup maps a diff to points. Diffs beyond maxDiff and holes in the
// sparse mapping both score 0; neither is an error.
func (t table) lookup(diff f1.Diff) f1.Points {
	if diff > t.maxDiff {
		return 0
	}
	return t.points[diff]
}
