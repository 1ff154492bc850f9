// Package persistence defines the storage contracts of the backend. The
// postgres subpackage implements them with sqlx.
package persistence

import (
	"time"

	"github.com/google/uuid"

	"github.com/voiestad/f1-backend/internal/f1"
)

// User is a guesser account.
type User struct {
	ID       uuid.UUID `json:"id" db:"id"`
	GoogleID string    `json:"-" db:"google_id"`
	Username string    `json:"username" db:"username"`
}

// Race is a race with its position inside its season.
type Race struct {
	ID       f1.RaceID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Year     f1.Year   `json:"year" db:"year"`
	Position int       `json:"position" db:"position"`
}

// CutoffRace is a race joined with its guessing deadline.
type CutoffRace struct {
	Race
	Cutoff time.Time `json:"cutoff" db:"cutoff"`
}

// ScoringEntry maps one diff to its point value for a (year, category).
type ScoringEntry struct {
	Diff   f1.Diff   `json:"diff" db:"diff"`
	Points f1.Points `json:"points" db:"points"`
}

// Standing is one row of a driver or constructor standings table, or of
// a race result ordered by finishing position.
type Standing struct {
	Position int       `json:"position" db:"position"`
	Name     string    `json:"name" db:"name"`
	Points   f1.Points `json:"points" db:"points"`
}

// GridSlot is one row of a starting grid.
type GridSlot struct {
	Position int    `json:"position" db:"position"`
	Driver   string `json:"driver" db:"driver"`
}

// RaceResultRow is one classified driver in a race result.
type RaceResultRow struct {
	Position          string    `json:"position" db:"position"`
	Driver            string    `json:"driver" db:"driver"`
	Points            f1.Points `json:"points" db:"points"`
	FinishingPosition int       `json:"finishingPosition" db:"finishing_position"`
}

// RankedGuess is a season ranking guess: one competitor at one position.
type RankedGuess struct {
	Position int    `json:"position" db:"position"`
	Name     string `json:"name" db:"name"`
}

// PlacePick is one guesser's podium pick for a race category.
type PlacePick struct {
	Guesser uuid.UUID `json:"guesser" db:"guesser"`
	Driver  string    `json:"driver" db:"driver"`
}

// RegisteredFlag is one recorded flag incident in a race session.
type RegisteredFlag struct {
	ID          int    `json:"id" db:"id"`
	Flag        string `json:"flag" db:"flag"`
	Round       int    `json:"round" db:"round"`
	SessionType string `json:"sessionType" db:"session_type"`
}

// GuesserPlacement is one guesser's total placement at a scoring key.
type GuesserPlacement struct {
	Guesser  uuid.UUID   `json:"guesser" db:"guesser"`
	Username string      `json:"username" db:"username"`
	Pos      f1.Position `json:"pos" db:"placement"`
	Points   f1.Points   `json:"points" db:"points"`
}

// YearPlacement is a final season placement for one guesser.
type YearPlacement struct {
	Year f1.Year     `json:"year" db:"year"`
	Pos  f1.Position `json:"placement" db:"placement"`
}

// VerificationCode is a pending mailing-list verification.
type VerificationCode struct {
	UserID uuid.UUID `db:"user_id"`
	Code   int       `db:"verification_code"`
	Email  string    `db:"email"`
	Cutoff time.Time `db:"cutoff"`
}
