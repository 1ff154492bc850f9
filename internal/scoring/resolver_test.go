package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

func TestRankingDiffs(t *testing.T) {
	actual := standingPositions([]persistence.Standing{
		{Position: 1, Name: "Verstappen"},
		{Position: 2, Name: "Norris"},
		{Position: 3, Name: "Leclerc"},
	})

	guessed := []persistence.RankedGuess{
		{Position: 1, Name: "Norris"},
		{Position: 2, Name: "Verstappen"},
		{Position: 3, Name: "Leclerc"},
	}

	diffs := rankingDiffs(guessed, actual)
	assert.Equal(t, []f1.Diff{1, 1, 0}, diffs)
}

func TestRankingDiffsSkipsAbsentCompetitors(t *testing.T) {
	actual := standingPositions([]persistence.Standing{
		{Position: 1, Name: "Verstappen"},
	})

	guessed := []persistence.RankedGuess{
		{Position: 1, Name: "Verstappen"},
		{Position: 2, Name: "Retired Driver"},
	}

	diffs := rankingDiffs(guessed, actual)
	assert.Equal(t, []f1.Diff{0}, diffs, "competitors absent from the standings contribute no diff")
}

func TestDefaultPositions(t *testing.T) {
	positions := defaultPositions([]string{"Verstappen", "Norris", "Leclerc"})
	assert.Equal(t, map[string]int{"Verstappen": 1, "Norris": 2, "Leclerc": 3}, positions)
}

func TestFlagDiffs(t *testing.T) {
	guessed := f1.Flags{Yellow: 10, Red: 2, SafetyCar: 5}
	actual := f1.Flags{Yellow: 7, Red: 2, SafetyCar: 9}

	diffs := flagDiffs(guessed, actual)
	assert.Equal(t, []f1.Diff{3, 0, 4}, diffs)
}

func TestFlagDiffsAgainstEmptySeason(t *testing.T) {
	guessed := f1.Flags{Yellow: 10, Red: 2, SafetyCar: 5}

	diffs := flagDiffs(guessed, f1.Flags{})
	assert.Equal(t, []f1.Diff{10, 2, 5}, diffs)
}

func TestPickMatches(t *testing.T) {
	assert.True(t, pickMatches("Norris", "Norris"))
	assert.False(t, pickMatches("Norris", "Verstappen"))
	assert.False(t, pickMatches("Norris", ""), "no classified driver at the position never matches")
}

func TestDriverAtFinishingPosition(t *testing.T) {
	result := []persistence.RaceResultRow{
		{Position: "1", Driver: "Verstappen", FinishingPosition: 1},
		{Position: "2", Driver: "Norris", FinishingPosition: 2},
		{Position: "DNF", Driver: "Leclerc", FinishingPosition: 19},
	}

	assert.Equal(t, "Verstappen", driverAtFinishingPosition(result, 1))
	assert.Equal(t, "", driverAtFinishingPosition(result, 10))
}

func TestAbsDiff(t *testing.T) {
	assert.Equal(t, f1.Diff(3), absDiff(1, 4))
	assert.Equal(t, f1.Diff(3), absDiff(4, 1))
	assert.Equal(t, f1.Diff(0), absDiff(2, 2))
}
