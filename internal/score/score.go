// Package score implements keyword relevance scoring for captured payloads.
package score

import (
	"strings"

	"github.com/apiscout/apiscout/internal/keywords"
)

// structuralBonus is added when the surface looks like structured data.
const structuralBonus = 0.2

// Result holds the outcome of scoring a text surface against a keyword set.
type Result struct {
	// Score is the relevance score in [0, 1].
	Score float64
	// Matched lists the matched terms in keyword-set order.
	Matched []string
}

// HasMatch reports whether at least one keyword matched. Surfaces with no
// matches produce no candidate regardless of the structural bonus.
func (r Result) HasMatch() bool {
	return len(r.Matched) > 0
}

// Match scores a text surface against the keyword set. Each term is checked
// as a case-insensitive substring; the base score is the matched fraction of
// the set, with a flat bonus when the surface contains both '{' and '}'.
func Match(surface string, set keywords.Set) Result {
	lower := strings.ToLower(surface)

	var matched []string
	for _, term := range set.Terms() {
		if strings.Contains(lower, term) {
			matched = append(matched, term)
		}
	}

	size := set.Len()
	if size < 1 {
		size = 1
	}
	s := float64(len(matched)) / float64(size)
	if s > 1 {
		s = 1
	}

	// The bonus never rescues a zero-match surface: score stays 0 when
	// nothing matched.
	if len(matched) > 0 && strings.Contains(surface, "{") && strings.Contains(surface, "}") {
		s += structuralBonus
		if s > 1 {
			s = 1
		}
	}

	return Result{Score: s, Matched: matched}
}
