package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voiestad/f1-backend/internal/f1"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestYearCutoff(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCutoffRepo(db, time.Second)

	deadline := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT cutoff FROM year_cutoffs`).
		WithArgs(f1.Year(2025)).
		WillReturnRows(sqlmock.NewRows([]string{"cutoff"}).AddRow(deadline))

	cutoff, err := repo.YearCutoff(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, deadline, cutoff)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestYearCutoffNotConfigured(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCutoffRepo(db, time.Second)

	mock.ExpectQuery(`SELECT cutoff FROM year_cutoffs`).
		WithArgs(f1.Year(2025)).
		WillReturnRows(sqlmock.NewRows([]string{"cutoff"}))

	_, err := repo.YearCutoff(context.Background(), 2025)
	assert.ErrorIs(t, err, f1.ErrNotConfigured)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRaceCutoffNotConfigured(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCutoffRepo(db, time.Second)

	mock.ExpectQuery(`SELECT cutoff FROM race_cutoffs`).
		WithArgs(f1.RaceID(3)).
		WillReturnRows(sqlmock.NewRows([]string{"cutoff"}))

	_, err := repo.RaceCutoff(context.Background(), 3)
	assert.ErrorIs(t, err, f1.ErrNotConfigured)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetYearCutoffUpserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCutoffRepo(db, time.Second)

	deadline := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`(?s)INSERT INTO year_cutoffs.+ON CONFLICT \(year\) DO UPDATE`).
		WithArgs(f1.Year(2026), deadline).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetYearCutoff(context.Background(), 2026, deadline))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCutoffRaces(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCutoffRepo(db, time.Second)

	first := time.Date(2025, time.March, 2, 14, 0, 0, 0, time.UTC)
	second := time.Date(2025, time.March, 9, 14, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT r.id, r.name, ro.year, ro.position, rc.cutoff`).
		WithArgs(f1.Year(2025)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "year", "position", "cutoff"}).
			AddRow(1, "Bahrain Grand Prix", 2025, 1, first).
			AddRow(2, "Saudi Arabian Grand Prix", 2025, 2, second))

	races, err := repo.CutoffRaces(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, races, 2)
	assert.Equal(t, "Bahrain Grand Prix", races[0].Name)
	assert.Equal(t, first, races[0].Cutoff)
	assert.Equal(t, 2, races[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}
