// Package keywords turns a free-text data description into match terms.
package keywords

import (
	"regexp"
	"strings"
)

// minTermLength filters out particles like "of", "a", "is".
const minTermLength = 3

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// Set holds the normalized terms derived from a data description.
// Terms are lowercase, deduplicated, and kept in first-occurrence order.
type Set struct {
	terms []string
}

// Extract tokenizes a data description into a keyword set.
func Extract(description string) Set {
	words := wordPattern.FindAllString(strings.ToLower(description), -1)

	seen := make(map[string]struct{}, len(words))
	terms := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < minTermLength {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		terms = append(terms, w)
	}

	return Set{terms: terms}
}

// Terms returns the terms in extraction order.
func (s Set) Terms() []string {
	return s.terms
}

// Len returns the number of terms.
func (s Set) Len() int {
	return len(s.terms)
}

// Empty reports whether the set has no terms.
func (s Set) Empty() bool {
	return len(s.terms) == 0
}
