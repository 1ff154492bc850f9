// Package f1 holds the domain primitives shared across the backend.
package f1

// Year identifies a season. A year is valid once at least one race
// belongs to it.
type Year int

// RaceID identifies a race across all seasons.
type RaceID int

// Diff is the non-negative distance between a guess and the realized
// outcome.
type Diff int

// Points is a point value. Negative values are allowed by the scoring
// table even though typical configurations stay non-negative.
type Points int

// Position is a 1-based rank within a scored group.
type Position int

// Category is a guessing dimension. Categories are immutable reference
// data.
type Category string

const (
	CategoryDriver      Category = "DRIVER"
	CategoryConstructor Category = "CONSTRUCTOR"
	CategoryFlag        Category = "FLAG"
	CategoryFirst       Category = "FIRST"
	CategoryTenth       Category = "TENTH"
)

// Categories lists every guessing category in scoring order.
var Categories = []Category{
	CategoryDriver,
	CategoryConstructor,
	CategoryFlag,
	CategoryFirst,
	CategoryTenth,
}

// RaceCategories are the categories scored per race.
var RaceCategories = Categories

// SeasonStartCategories are the categories scored at the season-start
// snapshot. Podium picks are race-scoped and do not exist yet.
var SeasonStartCategories = []Category{
	CategoryDriver,
	CategoryConstructor,
	CategoryFlag,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryDriver, CategoryConstructor, CategoryFlag, CategoryFirst, CategoryTenth:
		return true
	}
	return false
}

// Flag types counted over a season.
const (
	FlagYellow    = "Yellow Flag"
	FlagRed       = "Red Flag"
	FlagSafetyCar = "Safety Car"
)

// FlagTypes lists the counted flag types in display order.
var FlagTypes = []string{FlagYellow, FlagRed, FlagSafetyCar}

// Flags is a season flag-count guess or tally.
type Flags struct {
	Yellow    int `json:"yellow"`
	Red       int `json:"red"`
	SafetyCar int `json:"safetyCar"`
}

// Amount returns the count for the given flag type.
func (f Flags) Amount(flagType string) int {
	switch flagType {
	case FlagYellow:
		return f.Yellow
	case FlagRed:
		return f.Red
	case FlagSafetyCar:
		return f.SafetyCar
	}
	return 0
}

// Placement is a (rank, points) pair describing standing within a
// scored group.
type Placement struct {
	Pos    Position `json:"pos"`
	Points Points   `json:"points"`
}

// Summary is the full per-category plus total placement record for one
// guesser at one scoring key. Categories the guesser was excluded from
// are absent from the map.
type Summary struct {
	Categories map[Category]Placement `json:"categories"`
	Total      Placement              `json:"total"`
}

// Medals tallies season-level podium placements across a guesser's
// history.
type Medals struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}
