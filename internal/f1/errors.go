package f1

import "errors"

// Error taxonomy. Callers distinguish "nothing configured" from "closed"
// and "missing row" from "valid empty set" with errors.Is.
var (
	// ErrNotConfigured means a cutoff or scoring table that the
	// operation requires has no entries. It is never silently treated
	// as "open" or "zero points".
	ErrNotConfigured = errors.New("not configured")

	// ErrNotFound means exactly one row was expected and none exists.
	ErrNotFound = errors.New("not found")

	// ErrGuessingClosed means the cutoff for the key has passed.
	ErrGuessingClosed = errors.New("guessing closed")

	// ErrInvalidDiff means a negative diff was supplied to the scoring
	// table.
	ErrInvalidDiff = errors.New("invalid diff")

	// ErrDuplicateDiff means the (year, category, diff) triple already
	// has an entry.
	ErrDuplicateDiff = errors.New("duplicate diff")
)
