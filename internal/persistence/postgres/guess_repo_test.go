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

func TestSaveFlagGuessesWritesAllFlagTypes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuessRepo(db, time.Second)
	guesser := uuid.New()

	flags := f1.Flags{Yellow: 10, Red: 2, SafetyCar: 5}
	for _, expected := range []struct {
		flag   string
		amount int
	}{
		{f1.FlagYellow, 10},
		{f1.FlagRed, 2},
		{f1.FlagSafetyCar, 5},
	} {
		mock.ExpectExec(`INSERT INTO flag_guesses`).
			WithArgs(guesser, expected.flag, f1.Year(2025), expected.amount).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, repo.SaveFlagGuesses(context.Background(), guesser, 2025, flags))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlagGuessesNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuessRepo(db, time.Second)
	guesser := uuid.New()

	mock.ExpectQuery(`SELECT flag, amount FROM flag_guesses`).
		WithArgs(guesser, f1.Year(2025)).
		WillReturnRows(sqlmock.NewRows([]string{"flag", "amount"}))

	_, found, err := repo.FlagGuesses(context.Background(), guesser, 2025)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlagGuesses(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuessRepo(db, time.Second)
	guesser := uuid.New()

	mock.ExpectQuery(`SELECT flag, amount FROM flag_guesses`).
		WithArgs(guesser, f1.Year(2025)).
		WillReturnRows(sqlmock.NewRows([]string{"flag", "amount"}).
			AddRow(f1.FlagYellow, 10).
			AddRow(f1.FlagRed, 2).
			AddRow(f1.FlagSafetyCar, 5))

	flags, found, err := repo.FlagGuesses(context.Background(), guesser, 2025)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, f1.Flags{Yellow: 10, Red: 2, SafetyCar: 5}, flags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriverRankingOrdered(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuessRepo(db, time.Second)
	guesser := uuid.New()

	mock.ExpectQuery(`SELECT position, driver AS name`).
		WithArgs(guesser, f1.Year(2025)).
		WillReturnRows(sqlmock.NewRows([]string{"position", "name"}).
			AddRow(1, "Verstappen").
			AddRow(2, "Norris"))

	ranking, err := repo.DriverRanking(context.Background(), guesser, 2025)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, "Verstappen", ranking[0].Name)
	assert.Equal(t, 2, ranking[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacePickNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuessRepo(db, time.Second)
	guesser := uuid.New()

	mock.ExpectQuery(`SELECT driver FROM place_guesses`).
		WithArgs(guesser, f1.RaceID(1), f1.CategoryFirst).
		WillReturnRows(sqlmock.NewRows([]string{"driver"}))

	_, err := repo.PlacePick(context.Background(), guesser, 1, f1.CategoryFirst)
	assert.ErrorIs(t, err, f1.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeasonGuessersRequiresAllThreeGuessKinds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGuessRepo(db, time.Second)
	alice := uuid.New()

	mock.ExpectQuery(`(?s)JOIN flag_guesses.+JOIN driver_guesses.+JOIN constructor_guesses`).
		WithArgs(f1.Year(2025)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "google_id", "username"}).
			AddRow(alice, "g-1", "alice"))

	users, err := repo.SeasonGuessers(context.Background(), 2025)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}
