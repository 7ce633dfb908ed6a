// Package crawl owns the per-session traversal state and next-depth link
// discovery for the analyzer.
package crawl

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// State is the visitation bookkeeping for one analysis session. It is owned
// solely by the controller; sessions never share a State.
type State struct {
	mu       sync.Mutex
	filter   *bloom.BloomFilter
	visited  map[string]struct{}
	maxDepth int
}

// NewState creates session state for the given depth bound.
func NewState(maxDepth int) *State {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &State{
		// A session visits few pages; the filter is a cheap negative check
		// in front of the exact set, same shape as a full crawler's dedup.
		filter:   bloom.NewWithEstimates(1000, 0.001),
		visited:  make(map[string]struct{}),
		maxDepth: maxDepth,
	}
}

// MaxDepth returns the depth bound for the session.
func (s *State) MaxDepth() int {
	return s.maxDepth
}

// AtLimit reports whether a node at the given depth may not be visited.
func (s *State) AtLimit(depth int) bool {
	return depth >= s.maxDepth
}

// Seen reports whether a URL was already visited this session. Matching is
// exact: no normalization beyond what the caller's URL parser did.
func (s *State) Seen(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.filter.TestString(url) {
		return false
	}
	_, ok := s.visited[url]
	return ok
}

// MarkVisited records a URL as visited. Returns false if it was already
// marked, so a node is processed at most once per session.
func (s *State) MarkVisited(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.visited[url]; ok {
		return false
	}
	s.filter.AddString(url)
	s.visited[url] = struct{}{}
	return true
}

// VisitedCount returns how many URLs this session has visited.
func (s *State) VisitedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visited)
}
