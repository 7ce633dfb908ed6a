// Package rank orders scored candidates for presentation.
package rank

import (
	"sort"

	"github.com/apiscout/apiscout/internal/extract"
)

// ByScore sorts candidates descending by priority score, in place, and
// returns the slice. The sort is stable: ties keep discovery order.
func ByScore(candidates []extract.Candidate) []extract.Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
