package scoring

import (
	"github.com/voiestad/f1-backend/internal/f1"
	"github.com/voiestad/f1-backend/internal/persistence"
)

// The diff resolver turns a guess and the true outcome into distances.
// Rank-order categories yield one diff per competitor, count categories
// one per flag type, podium picks a single exact-match diff.

// standingPositions indexes a standings list by competitor name.
func standingPositions(standings []persistence.Standing) map[string]int {
	positions := make(map[string]int, len(standings))
	for _, s := range standings {
		positions[s.Name] = s.Position
	}
	return positions
}

// defaultPositions builds positions from a season's default competitor
// order, used before any race has produced standings.
func defaultPositions(names []string) map[string]int {
	positions := make(map[string]int, len(names))
	for i, name := range names {
		positions[name] = i + 1
	}
	return positions
}

// rankingDiffs resolves one diff per guessed competitor: the absolute
// distance between the guessed position and the position the competitor
// occupies in the actual standings. Competitors absent from the
// standings contribute no diff.
func rankingDiffs(guessed []persistence.RankedGuess, actual map[string]int) []f1.Diff {
	var diffs []f1.Diff
	for _, g := range guessed {
		actualPos, ok := actual[g.Name]
		if !ok {
			continue
		}
		diffs = append(diffs, absDiff(g.Position, actualPos))
	}
	return diffs
}

// flagDiffs resolves one diff per flag type: the absolute distance
// between the guessed and the actual cumulative count.
func flagDiffs(guessed, actual f1.Flags) []f1.Diff {
	return []f1.Diff{
		absDiff(guessed.Yellow, actual.Yellow),
		absDiff(guessed.Red, actual.Red),
		absDiff(guessed.SafetyCar, actual.SafetyCar),
	}
}

// pickMatches reports whether a podium pick hit the driver who actually
// finished in the picked position. A miss is worth nothing regardless
// of the scoring table; only a hit resolves to diff 0.
func pickMatches(guessedDriver, actualDriver string) bool {
	return actualDriver != "" && guessedDriver == actualDriver
}

// driverAtFinishingPosition finds the driver classified at the given
// finishing position, or "" when the result has no such row.
func driverAtFinishingPosition(result []persistence.RaceResultRow, position int) string {
	for _, row := range result {
		if row.FinishingPosition == position {
			return row.Driver
		}
	}
	return ""
}

func absDiff(a, b int) f1.Diff {
	if a > b {
		return f1.Diff(a - b)
	}
	return f1.Diff(b - a)
}
