package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/voiestad/f1-backend/internal/f1"
)

// CutoffRepo stores guessing deadlines. At most one cutoff exists per
// season and per race; a missing row means guessing is not configured
// for that key, which is distinct from a cutoff in the past.
type CutoffRepo interface {
	// YearCutoff returns f1.ErrNotConfigured when no cutoff is set.
	YearCutoff(ctx context.Context, year f1.Year) (time.Time, error)
	// RaceCutoff returns f1.ErrNotConfigured when no cutoff is set.
	RaceCutoff(ctx context.Context, raceID f1.RaceID) (time.Time, error)
	// SetYearCutoff upserts; no history of prior deadlines is kept.
	SetYearCutoff(ctx context.Context, year f1.Year, cutoff time.Time) error
	SetRaceCutoff(ctx context.Context, raceID f1.RaceID, cutoff time.Time) error
	// CutoffRaces lists a season's races with their cutoffs in race order.
	CutoffRaces(ctx context.Context, year f1.Year) ([]CutoffRace, error)
}

// ScoringTableRepo stores the sparse diff-to-points mapping per
// (season, category).
type ScoringTableRepo interface {
	// DiffPoints returns entries ascending by diff. Empty is valid.
	DiffPoints(ctx context.Context, year f1.Year, category f1.Category) ([]ScoringEntry, error)
	// MaxDiff returns f1.ErrNotConfigured when no entries exist.
	MaxDiff(ctx context.Context, year f1.Year, category f1.Category) (f1.Diff, error)
	// AddDiff inserts the diff with 0 points. Duplicate triples return
	// f1.ErrDuplicateDiff, negative diffs f1.ErrInvalidDiff.
	AddDiff(ctx context.Context, year f1.Year, category f1.Category, diff f1.Diff) error
	// SetPoints is a no-op when the diff has no entry.
	SetPoints(ctx context.Context, year f1.Year, category f1.Category, diff f1.Diff, points f1.Points) error
	// RemoveDiff is a no-op when the diff has no entry.
	RemoveDiff(ctx context.Context, year f1.Year, category f1.Category, diff f1.Diff) error
	HasDiff(ctx context.Context, year f1.Year, category f1.Category, diff f1.Diff) (bool, error)
}

// GuessRepo stores user guesses. All writes are REPLACE-on-write: a
// later guess for the same key supersedes the prior value with no
// history. Time-boundary enforcement belongs to the cutoff gate, not
// here.
type GuessRepo interface {
	SaveFlagGuesses(ctx context.Context, guesser uuid.UUID, year f1.Year, flags f1.Flags) error
	// FlagGuesses reports ok=false when the guesser has no flag guesses
	// for the year.
	FlagGuesses(ctx context.Context, guesser uuid.UUID, year f1.Year) (f1.Flags, bool, error)

	SaveDriverRanking(ctx context.Context, guesser uuid.UUID, year f1.Year, driver string, position int) error
	SaveConstructorRanking(ctx context.Context, guesser uuid.UUID, year f1.Year, constructor string, position int) error
	// DriverRanking returns the guessed season ranking ascending by
	// position; empty when the guesser has not guessed.
	DriverRanking(ctx context.Context, guesser uuid.UUID, year f1.Year) ([]RankedGuess, error)
	ConstructorRanking(ctx context.Context, guesser uuid.UUID, year f1.Year) ([]RankedGuess, error)

	SavePlacePick(ctx context.Context, guesser uuid.UUID, raceID f1.RaceID, category f1.Category, driver string) error
	// PlacePick returns f1.ErrNotFound when the guesser has no pick.
	PlacePick(ctx context.Context, guesser uuid.UUID, raceID f1.RaceID, category f1.Category) (string, error)
	// PlacePicks returns every guesser's pick for the race category.
	PlacePicks(ctx context.Context, raceID f1.RaceID, category f1.Category) ([]PlacePick, error)

	// SeasonGuessers lists users qualified for season scoring: those
	// with flag, driver and constructor guesses for the year. Ordered
	// by username.
	SeasonGuessers(ctx context.Context, year f1.Year) ([]User, error)
}

// SeasonRepo stores seasons, races and the yearly competitor lists.
type SeasonRepo interface {
	AddYear(ctx context.Context, year f1.Year) error
	IsValidYear(ctx context.Context, year f1.Year) (bool, error)
	Years(ctx context.Context) ([]f1.Year, error)

	AddRace(ctx context.Context, raceID f1.RaceID, name string, year f1.Year, position int) error
	// Race returns f1.ErrNotFound for an unknown race.
	Race(ctx context.Context, raceID f1.RaceID) (Race, error)
	Races(ctx context.Context, year f1.Year) ([]Race, error)
	// RacesFinished lists the season's races that have a race result,
	// in race order.
	RacesFinished(ctx context.Context, year f1.Year) ([]Race, error)
	// LatestFinishedRace returns f1.ErrNotFound when no race of the
	// season has a result yet.
	LatestFinishedRace(ctx context.Context, year f1.Year) (Race, error)

	// DriversYear and ConstructorsYear return the season's default
	// competitor order ascending by position.
	DriversYear(ctx context.Context, year f1.Year) ([]string, error)
	ConstructorsYear(ctx context.Context, year f1.Year) ([]string, error)
	AddDriverYear(ctx context.Context, driver string, year f1.Year) error
	AddConstructorYear(ctx context.Context, constructor string, year f1.Year) error
}

// ResultsRepo stores official race outcomes: grids, classifications,
// standings after each race, and flag incidents.
type ResultsRepo interface {
	SaveGridSlot(ctx context.Context, raceID f1.RaceID, position int, driver string) error
	StartingGrid(ctx context.Context, raceID f1.RaceID) ([]GridSlot, error)

	SaveRaceResultRow(ctx context.Context, raceID f1.RaceID, row RaceResultRow) error
	RaceResult(ctx context.Context, raceID f1.RaceID) ([]RaceResultRow, error)

	SaveDriverStanding(ctx context.Context, raceID f1.RaceID, s Standing) error
	SaveConstructorStanding(ctx context.Context, raceID f1.RaceID, s Standing) error
	// DriverStandings returns the standings after the race ascending by
	// position.
	DriverStandings(ctx context.Context, raceID f1.RaceID) ([]Standing, error)
	ConstructorStandings(ctx context.Context, raceID f1.RaceID) ([]Standing, error)

	AddFlagStat(ctx context.Context, raceID f1.RaceID, flag string, round int, sessionType string) error
	RegisteredFlags(ctx context.Context, raceID f1.RaceID) ([]RegisteredFlag, error)
	// FlagCounts tallies flag incidents across the season's races with
	// position <= throughPosition. throughPosition 0 yields zero counts.
	FlagCounts(ctx context.Context, year f1.Year, throughPosition int) (f1.Flags, error)
}

// SnapshotRepo persists scoring output. Two stores exist: race-scoped
// and season-start-scoped, each keyed by (key, guesser) and overwritten
// whole on recomputation.
type SnapshotRepo interface {
	// SaveRaceSummary replaces the guesser's race snapshot, pruning
	// category rows absent from the new summary.
	SaveRaceSummary(ctx context.Context, raceID f1.RaceID, guesser uuid.UUID, summary f1.Summary) error
	SaveYearStartSummary(ctx context.Context, year f1.Year, guesser uuid.UUID, summary f1.Summary) error
	// RaceSummary returns f1.ErrNotFound when the guesser has no
	// snapshot for the race.
	RaceSummary(ctx context.Context, raceID f1.RaceID, guesser uuid.UUID) (f1.Summary, error)
	YearStartSummary(ctx context.Context, year f1.Year, guesser uuid.UUID) (f1.Summary, error)

	// RaceTotals lists every guesser's total placement at the race,
	// ascending by placement.
	RaceTotals(ctx context.Context, raceID f1.RaceID) ([]GuesserPlacement, error)
	YearStartTotals(ctx context.Context, year f1.Year) ([]GuesserPlacement, error)

	// SaveYearPlacement records a final season placement (feeds medals).
	SaveYearPlacement(ctx context.Context, year f1.Year, guesser uuid.UUID, pos f1.Position) error
	YearPlacements(ctx context.Context, guesser uuid.UUID) ([]YearPlacement, error)
	Medals(ctx context.Context, guesser uuid.UUID) (f1.Medals, error)
}

// UserRepo stores guesser accounts.
type UserRepo interface {
	// User returns f1.ErrNotFound for an unknown id.
	User(ctx context.Context, id uuid.UUID) (User, error)
	UserByGoogleID(ctx context.Context, googleID string) (User, error)
	AddUser(ctx context.Context, username, googleID string) (uuid.UUID, error)
	Users(ctx context.Context) ([]User, error)
}

// CodesRepo stores short-lived verification and referral codes. Expired
// rows are removed by the sweep command.
type CodesRepo interface {
	SaveVerificationCode(ctx context.Context, code VerificationCode) error
	// VerificationCode returns f1.ErrNotFound when none is pending.
	VerificationCode(ctx context.Context, userID uuid.UUID) (VerificationCode, error)
	DeleteVerificationCode(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) (int64, error)

	SaveReferralCode(ctx context.Context, userID uuid.UUID, code int64, cutoff time.Time) error
	IsValidReferralCode(ctx context.Context, code int64, now time.Time) (bool, error)
	DeleteExpiredReferralCodes(ctx context.Context, now time.Time) (int64, error)
}
