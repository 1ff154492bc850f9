package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiestad/f1-backend/internal/f1"
)

func TestSaveRaceSummaryPrunesCategories(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSnapshotRepo(db, time.Second)
	guesser := uuid.New()

	summary := f1.Summary{
		Categories: map[f1.Category]f1.Placement{
			f1.CategoryDriver: {Pos: 1, Points: 50},
			f1.CategoryFlag:   {Pos: 2, Points: 45},
		},
		Total: f1.Placement{Pos: 1, Points: 95},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO placement_races`).
		WithArgs(1, guesser, f1.Position(1), f1.Points(95)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM placement_categories`).
		WithArgs(1, guesser).
		WillReturnResult(sqlmock.NewResult(0, 3))
	// Categories insert in scoring order: DRIVER before FLAG.
	mock.ExpectExec(`INSERT INTO placement_categories`).
		WithArgs(1, guesser, f1.CategoryDriver, f1.Position(1), f1.Points(50)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO placement_categories`).
		WithArgs(1, guesser, f1.CategoryFlag, f1.Position(2), f1.Points(45)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveRaceSummary(context.Background(), 1, guesser, summary))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRaceSummaryNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSnapshotRepo(db, time.Second)
	guesser := uuid.New()

	mock.ExpectQuery(`SELECT placement, points FROM placement_races`).
		WithArgs(1, guesser).
		WillReturnRows(sqlmock.NewRows([]string{"placement", "points"}))

	_, err := repo.RaceSummary(context.Background(), 1, guesser)
	assert.ErrorIs(t, err, f1.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRaceSummaryRoundTrip(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSnapshotRepo(db, time.Second)
	guesser := uuid.New()

	mock.ExpectQuery(`SELECT placement, points FROM placement_races`).
		WithArgs(1, guesser).
		WillReturnRows(sqlmock.NewRows([]string{"placement", "points"}).AddRow(1, 95))
	mock.ExpectQuery(`SELECT category, placement, points FROM placement_categories`).
		WithArgs(1, guesser).
		WillReturnRows(sqlmock.NewRows([]string{"category", "placement", "points"}).
			AddRow("DRIVER", 1, 50).
			AddRow("FLAG", 2, 45))

	summary, err := repo.RaceSummary(context.Background(), 1, guesser)
	require.NoError(t, err)
	assert.Equal(t, f1.Placement{Pos: 1, Points: 95}, summary.Total)
	assert.Equal(t, f1.Placement{Pos: 1, Points: 50}, summary.Categories[f1.CategoryDriver])
	assert.Equal(t, f1.Placement{Pos: 2, Points: 45}, summary.Categories[f1.CategoryFlag])
	assert.NotContains(t, summary.Categories, f1.CategoryFirst)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRaceTotals(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSnapshotRepo(db, time.Second)
	alice, bob := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT pr.guesser, u.username, pr.placement, pr.points`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"guesser", "username", "placement", "points"}).
			AddRow(alice, "alice", 1, 150).
			AddRow(bob, "bob", 2, 97))

	totals, err := repo.RaceTotals(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "alice", totals[0].Username)
	assert.Equal(t, f1.Position(1), totals[0].Pos)
	assert.Equal(t, f1.Points(97), totals[1].Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMedals(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSnapshotRepo(db, time.Second)
	guesser := uuid.New()

	mock.ExpectQuery(`FROM placement_years`).
		WithArgs(guesser).
		WillReturnRows(sqlmock.NewRows([]string{"gold", "silver", "bronze"}).AddRow(2, 0, 1))

	medals, err := repo.Medals(context.Background(), guesser)
	require.NoError(t, err)
	assert.Equal(t, f1.Medals{Gold: 2, Silver: 0, Bronze: 1}, medals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveYearPlacement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSnapshotRepo(db, time.Second)
	guesser := uuid.New()

	mock.ExpectExec(`(?s)INSERT INTO placement_years.+ON CONFLICT \(year, guesser\) DO UPDATE`).
		WithArgs(f1.Year(2025), guesser, f1.Position(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveYearPlacement(context.Background(), 2025, guesser, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
