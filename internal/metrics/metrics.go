// Package metrics provides counters for an analysis session.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector collects and aggregates session metrics.
type Collector struct {
	// Counters
	exchangesCaptured atomic.Int64
	candidatesFound   atomic.Int64
	pagesAnalyzed     atomic.Int64
	parseSkips        atomic.Int64
	captureFailures   atomic.Int64
	paginationHits    atomic.Int64
	bytesCaptured     atomic.Int64

	// Error breakdown
	errorCounts map[string]*atomic.Int64
	errorMu     sync.RWMutex

	// Status code breakdown
	statusCodes map[int]*atomic.Int64
	statusMu    sync.RWMutex

	startTime time.Time
}

// New creates a new metrics collector.
func New() *Collector {
	return &Collector{
		errorCounts: make(map[string]*atomic.Int64),
		statusCodes: make(map[int]*atomic.Int64),
		startTime:   time.Now(),
	}
}

// RecordExchange records a captured network exchange.
func (c *Collector) RecordExchange() {
	c.exchangesCaptured.Add(1)
}

// RecordCandidate records a scored candidate endpoint.
func (c *Collector) RecordCandidate() {
	c.candidatesFound.Add(1)
}

// RecordPageAnalyzed records one completed page analysis.
func (c *Collector) RecordPageAnalyzed() {
	c.pagesAnalyzed.Add(1)
}

// RecordParseSkips records fragments that failed to parse and were skipped.
func (c *Collector) RecordParseSkips(n int) {
	c.parseSkips.Add(int64(n))
}

// RecordCaptureFailure records a page capture that did not complete.
func (c *Collector) RecordCaptureFailure() {
	c.captureFailures.Add(1)
}

// RecordPaginationHit records a detected pagination URL.
func (c *Collector) RecordPaginationHit() {
	c.paginationHits.Add(1)
}

// RecordBytes records captured response bytes.
func (c *Collector) RecordBytes(n int64) {
	c.bytesCaptured.Add(n)
}

// RecordError records an error by type.
func (c *Collector) RecordError(errorType string) {
	c.errorMu.Lock()
	if c.errorCounts[errorType] == nil {
		c.errorCounts[errorType] = &atomic.Int64{}
	}
	c.errorCounts[errorType].Add(1)
	c.errorMu.Unlock()
}

// RecordStatusCode records an HTTP status code.
func (c *Collector) RecordStatusCode(code int) {
	c.statusMu.Lock()
	if c.statusCodes[code] == nil {
		c.statusCodes[code] = &atomic.Int64{}
	}
	c.statusCodes[code].Add(1)
	c.statusMu.Unlock()
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() *Snapshot {
	s := &Snapshot{
		Timestamp:         time.Now(),
		Uptime:            time.Since(c.startTime),
		ExchangesCaptured: c.exchangesCaptured.Load(),
		CandidatesFound:   c.candidatesFound.Load(),
		PagesAnalyzed:     c.pagesAnalyzed.Load(),
		ParseSkips:        c.parseSkips.Load(),
		CaptureFailures:   c.captureFailures.Load(),
		PaginationHits:    c.paginationHits.Load(),
		BytesCaptured:     c.bytesCaptured.Load(),
		ErrorCounts:       make(map[string]int64),
		StatusCodes:       make(map[int]int64),
	}

	c.errorMu.RLock()
	for k, v := range c.errorCounts {
		s.ErrorCounts[k] = v.Load()
	}
	c.errorMu.RUnlock()

	c.statusMu.RLock()
	for k, v := range c.statusCodes {
		s.StatusCodes[k] = v.Load()
	}
	c.statusMu.RUnlock()

	return s
}

// Reset resets all metrics.
func (c *Collector) Reset() {
	c.exchangesCaptured.Store(0)
	c.candidatesFound.Store(0)
	c.pagesAnalyzed.Store(0)
	c.parseSkips.Store(0)
	c.captureFailures.Store(0)
	c.paginationHits.Store(0)
	c.bytesCaptured.Store(0)

	c.errorMu.Lock()
	c.errorCounts = make(map[string]*atomic.Int64)
	c.errorMu.Unlock()

	c.statusMu.Lock()
	c.statusCodes = make(map[int]*atomic.Int64)
	c.statusMu.Unlock()

	c.startTime = time.Now()
}

// Snapshot represents a point-in-time view of metrics.
type Snapshot struct {
	Timestamp         time.Time        `json:"timestamp"`
	Uptime            time.Duration    `json:"uptime"`
	ExchangesCaptured int64            `json:"exchanges_captured"`
	CandidatesFound   int64            `json:"candidates_found"`
	PagesAnalyzed     int64            `json:"pages_analyzed"`
	ParseSkips        int64            `json:"parse_skips"`
	CaptureFailures   int64            `json:"capture_failures"`
	PaginationHits    int64            `json:"pagination_hits"`
	BytesCaptured     int64            `json:"bytes_captured"`
	ErrorCounts       map[string]int64 `json:"error_counts"`
	StatusCodes       map[int]int64    `json:"status_codes"`
}

// CandidateRate returns candidates found per captured exchange.
func (s *Snapshot) CandidateRate() float64 {
	if s.ExchangesCaptured == 0 {
		return 0
	}
	return float64(s.CandidatesFound) / float64(s.ExchangesCaptured)
}

// Summary returns a human-readable summary.
func (s *Snapshot) Summary() map[string]interface{} {
	return map[string]interface{}{
		"uptime":             s.Uptime.String(),
		"exchanges_captured": s.ExchangesCaptured,
		"candidates_found":   s.CandidatesFound,
		"candidate_rate":     s.CandidateRate(),
		"pages_analyzed":     s.PagesAnalyzed,
		"parse_skips":        s.ParseSkips,
		"capture_failures":   s.CaptureFailures,
		"pagination_hits":    s.PaginationHits,
		"bytes_captured":     s.BytesCaptured,
	}
}

// Global metrics collector.
var globalCollector = New()

// SetGlobal sets the global metrics collector.
func SetGlobal(c *Collector) {
	globalCollector = c
}

// Global returns the global metrics collector.
func Global() *Collector {
	return globalCollector
}
