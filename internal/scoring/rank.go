package scoring

import (
	"sort"

	"github.com/google/uuid"

	"github.com/voiestad/f1-backend/internal/f1"
)

// rankByPoints assigns dense competition ranks: guessers with equal
// points share a rank, and the next distinct point value gets the rank
// after the count of guessers ahead of it ([30,30,20,10] -> [1,1,3,4]).
func rankByPoints(points map[uuid.UUID]f1.Points) map[uuid.UUID]f1.Placement {
	ids := make([]uuid.UUID, 0, len(points))
	for id := range points {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if points[ids[i]] != points[ids[j]] {
			return points[ids[i]] > points[ids[j]]
		}
		return ids[i].String() < ids[j].String()
	})

	placements := make(map[uuid.UUID]f1.Placement, len(ids))
	for i, id := range ids {
		pos := f1.Position(i + 1)
		if i > 0 && points[id] == points[ids[i-1]] {
			pos = placements[ids[i-1]].Pos
		}
		placements[id] = f1.Placement{Pos: pos, Points: points[id]}
	}
	return placements
}
