package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiestad/f1-backend/internal/f1"
)

func TestDiffPoints(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoringTableRepo(db, time.Second)

	mock.ExpectQuery(`SELECT diff, points`).
		WithArgs(f1.Year(2025), f1.CategoryDriver).
		WillReturnRows(sqlmock.NewRows([]string{"diff", "points"}).
			AddRow(0, 25).
			AddRow(1, 18).
			AddRow(3, 10))

	entries, err := repo.DiffPoints(context.Background(), 2025, f1.CategoryDriver)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, f1.Diff(0), entries[0].Diff)
	assert.Equal(t, f1.Points(25), entries[0].Points)
	assert.Equal(t, f1.Diff(3), entries[2].Diff)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaxDiffNotConfigured(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoringTableRepo(db, time.Second)

	mock.ExpectQuery(`SELECT MAX\(diff\) FROM diff_points`).
		WithArgs(f1.Year(2025), f1.CategoryFlag).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	_, err := repo.MaxDiff(context.Background(), 2025, f1.CategoryFlag)
	assert.ErrorIs(t, err, f1.ErrNotConfigured)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDiffStartsAtZeroPoints(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoringTableRepo(db, time.Second)

	mock.ExpectExec(`INSERT INTO diff_points`).
		WithArgs(f1.Year(2025), f1.CategoryDriver, f1.Diff(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AddDiff(context.Background(), 2025, f1.CategoryDriver, 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDiffDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoringTableRepo(db, time.Second)

	mock.ExpectExec(`INSERT INTO diff_points`).
		WithArgs(f1.Year(2025), f1.CategoryDriver, f1.Diff(2)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.AddDiff(context.Background(), 2025, f1.CategoryDriver, 2)
	assert.ErrorIs(t, err, f1.ErrDuplicateDiff)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddDiffNegative(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewScoringTableRepo(db, time.Second)

	err := repo.AddDiff(context.Background(), 2025, f1.CategoryDriver, -1)
	assert.ErrorIs(t, err, f1.ErrInvalidDiff)
}

func TestSetPointsMissingDiffIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoringTableRepo(db, time.Second)

	mock.ExpectExec(`UPDATE diff_points SET points`).
		WithArgs(f1.Year(2025), f1.CategoryDriver, f1.Diff(9), f1.Points(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SetPoints(context.Background(), 2025, f1.CategoryDriver, 9, 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasDiff(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScoringTableRepo(db, time.Second)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM diff_points`).
		WithArgs(f1.Year(2025), f1.CategoryDriver, f1.Diff(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	has, err := repo.HasDiff(context.Background(), 2025, f1.CategoryDriver, 1)
	require.NoError(t, err)
	assert.True(t, has)
	assert.NoError(t, mock.ExpectationsWereMet())
}
