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

// GuessRepo implements persistence.GuessRepo. Every write is an upsert;
// the cutoff gate, not this repo, decides whether a write is allowed.
type GuessRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewGuessRepo(db *sqlx.DB, timeout time.Duration) *GuessRepo {
	return &GuessRepo{db: db, timeout: timeout}
}

func (r *GuessRepo) SaveFlagGuesses(ctx context.Context, guesser uuid.UUID, year f1.Year, flags f1.Flags) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `
		INSERT INTO flag_guesses (guesser, flag, year, amount) VALUES ($1, $2, $3, $4)
		ON CONFLICT (guesser, flag, year) DO UPDATE SET amount = EXCLUDED.amount`

	for _, ft := range f1.FlagTypes {
		if _, err := r.db.ExecContext(ctx, query, guesser, ft, year, flags.Amount(ft)); err != nil {
			return fmt.Errorf("failed to save flag guess %q: %w", ft, err)
		}
	}
	return nil
}

func (r *GuessRepo) FlagGuesses(ctx context.Context, guesser uuid.UUID, year f1.Year) (f1.Flags, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, `
		SELECT flag, amount FROM flag_guesses WHERE guesser = $1 AND year = $2`,
		guesser, year)
	if err != nil {
		return f1.Flags{}, false, fmt.Errorf("failed to get flag guesses: %w", err)
	}
	defer rows.Close()

	var flags f1.Flags
	found := false
	for rows.Next() {
		var flag string
		var amount int
		if err := rows.Scan(&flag, &amount); err != nil {
			return f1.Flags{}, false, fmt.Errorf("failed to scan flag guess: %w", err)
		}
		found = true
		switch flag {
		case f1.FlagYellow:
			flags.Yellow = amount
		case f1.FlagRed:
			flags.Red = amount
		case f1.FlagSafetyCar:
			flags.SafetyCar = amount
		}
	}
	return flags, found, rows.Err()
}

func (r *GuessRepo) SaveDriverRanking(ctx context.Context, guesser uuid.UUID, year f1.Year, driver string, position int) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO driver_guesses (guesser, driver, year, position) VALUES ($1, $2, $3, $4)
		ON CONFLICT (guesser, driver, year) DO UPDATE SET position = EXCLUDED.position`,
		guesser, driver, year, position)
	if err != nil {
		return fmt.Errorf("failed to save driver ranking guess: %w", err)
	}
	return nil
}

func (r *GuessRepo) SaveConstructorRanking(ctx context.Context, guesser uuid.UUID, year f1.Year, constructor string, position int) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO constructor_guesses (guesser, constructor, year, position) VALUES ($1, $2, $3, $4)
		ON CONFLICT (guesser, constructor, year) DO UPDATE SET position = EXCLUDED.position`,
		guesser, constructor, year, position)
	if err != nil {
		return fmt.Errorf("failed to save constructor ranking guess: %w", err)
	}
	return nil
}

func (r *GuessRepo) DriverRanking(ctx context.Context, guesser uuid.UUID, year f1.Year) ([]persistence.RankedGuess, error) {
	return r.ranking(ctx, `
		SELECT position, driver AS name
		FROM driver_guesses
		WHERE guesser = $1 AND year = $2
		ORDER BY position`, guesser, year)
}

func (r *GuessRepo) ConstructorRanking(ctx context.Context, guesser uuid.UUID, year f1.Year) ([]persistence.RankedGuess, error) {
	return r.ranking(ctx, `
		SELECT position, constructor AS name
		FROM constructor_guesses
		WHERE guesser = $1 AND year = $2
		ORDER BY position`, guesser, year)
}

func (r *GuessRepo) ranking(ctx context.Context, query string, guesser uuid.UUID, year f1.Year) ([]persistence.RankedGuess, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var guesses []persistence.RankedGuess
	if err := r.db.SelectContext(ctx, &guesses, query, guesser, year); err != nil {
		return nil, fmt.Errorf("failed to get ranking guesses: %w", err)
	}
	return guesses, nil
}

func (r *GuessRepo) SavePlacePick(ctx context.Context, guesser uuid.UUID, raceID f1.RaceID, category f1.Category, driver string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO place_guesses (guesser, race_id, category, driver) VALUES ($1, $2, $3, $4)
		ON CONFLICT (guesser, race_id, category) DO UPDATE SET driver = EXCLUDED.driver`,
		guesser, raceID, category, driver)
	if err != nil {
		return fmt.Errorf("failed to save place pick: %w", err)
	}
	return nil
}

func (r *GuessRepo) PlacePick(ctx context.Context, guesser uuid.UUID, raceID f1.RaceID, category f1.Category) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var driver string
	err := r.db.GetContext(ctx, &driver, `
		SELECT driver FROM place_guesses
		WHERE guesser = $1 AND race_id = $2 AND category = $3`,
		guesser, raceID, category)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("no %s pick for race %d: %w", category, raceID, f1.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get place pick: %w", err)
	}
	return driver, nil
}

func (r *GuessRepo) PlacePicks(ctx context.Context, raceID f1.RaceID, category f1.Category) ([]persistence.PlacePick, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var picks []persistence.PlacePick
	err := r.db.SelectContext(ctx, &picks, `
		SELECT guesser, driver FROM place_guesses
		WHERE race_id = $1 AND category = $2`,
		raceID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get place picks: %w", err)
	}
	return picks, nil
}

// SeasonGuessers requires a guess in all three of flag, driver and
// constructor categories for the year.
func (r *GuessRepo) SeasonGuessers(ctx context.Context, year f1.Year) ([]persistence.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var users []persistence.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT DISTINCT u.id, u.google_id, u.username
		FROM users u
		JOIN flag_guesses fg ON fg.guesser = u.id AND fg.year = $1
		JOIN driver_guesses dg ON dg.guesser = u.id AND dg.year = $1
		JOIN constructor_guesses cg ON cg.guesser = u.id AND cg.year = $1
		ORDER BY u.username`, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get season guessers: %w", err)
	}
	return users, nil
}
