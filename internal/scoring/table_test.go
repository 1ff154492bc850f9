package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiestad/f1-backend/internal/f1"
)

func TestLoadTable(t *testing.T) {
	repo := newFakeTables()
	repo.set(2025, f1.CategoryDriver, map[f1.Diff]f1.Points{
		0: 25, 1: 18, 3: 10,
	})

	tbl, err := loadTable(context.Background(), repo, 2025, f1.CategoryDriver)
	require.NoError(t, err)

	assert.Equal(t, f1.Points(25), tbl.lookup(0))
	assert.Equal(t, f1.Points(18), tbl.lookup(1))
	assert.Equal(t, f1.Points(0), tbl.lookup(2), "a hole in the sparse mapping scores 0")
	assert.Equal(t, f1.Points(10), tbl.lookup(3))
	assert.Equal(t, f1.Points(0), tbl.lookup(4), "beyond max diff scores 0")
	assert.Equal(t, f1.Points(0), tbl.lookup(100))
}

func TestLoadTableEmpty(t *testing.T) {
	repo := newFakeTables()

	_, err := loadTable(context.Background(), repo, 2025, f1.CategoryFlag)
	assert.ErrorIs(t, err, f1.ErrNotConfigured)
}
