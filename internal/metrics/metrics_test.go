package metrics

import (
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("New() returned nil")
	}
}

func TestCollector_Counters(t *testing.T) {
	c := New()

	c.RecordExchange()
	c.RecordExchange()
	c.RecordExchange()
	c.RecordCandidate()
	c.RecordPageAnalyzed()
	c.RecordParseSkips(2)
	c.RecordCaptureFailure()
	c.RecordPaginationHit()
	c.RecordBytes(1024)
	c.RecordBytes(512)

	snap := c.Snapshot()
	if snap.ExchangesCaptured != 3 {
		t.Errorf("ExchangesCaptured = %d, want 3", snap.ExchangesCaptured)
	}
	if snap.CandidatesFound != 1 {
		t.Errorf("CandidatesFound = %d, want 1", snap.CandidatesFound)
	}
	if snap.PagesAnalyzed != 1 {
		t.Errorf("PagesAnalyzed = %d, want 1", snap.PagesAnalyzed)
	}
	if snap.ParseSkips != 2 {
		t.Errorf("ParseSkips = %d, want 2", snap.ParseSkips)
	}
	if snap.CaptureFailures != 1 {
		t.Errorf("CaptureFailures = %d, want 1", snap.CaptureFailures)
	}
	if snap.PaginationHits != 1 {
		t.Errorf("PaginationHits = %d, want 1", snap.PaginationHits)
	}
	if snap.BytesCaptured != 1536 {
		t.Errorf("BytesCaptured = %d, want 1536", snap.BytesCaptured)
	}
}

func TestCollector_RecordError(t *testing.T) {
	c := New()

	c.RecordError("network")
	c.RecordError("network")
	c.RecordError("timeout")

	snap := c.Snapshot()
	if snap.ErrorCounts["network"] != 2 {
		t.Errorf("ErrorCounts[network] = %d, want 2", snap.ErrorCounts["network"])
	}
	if snap.ErrorCounts["timeout"] != 1 {
		t.Errorf("ErrorCounts[timeout] = %d, want 1", snap.ErrorCounts["timeout"])
	}
}

func TestCollector_RecordStatusCode(t *testing.T) {
	c := New()

	c.RecordStatusCode(200)
	c.RecordStatusCode(200)
	c.RecordStatusCode(404)

	snap := c.Snapshot()
	if snap.StatusCodes[200] != 2 {
		t.Errorf("StatusCodes[200] = %d, want 2", snap.StatusCodes[200])
	}
	if snap.StatusCodes[404] != 1 {
		t.Errorf("StatusCodes[404] = %d, want 1", snap.StatusCodes[404])
	}
}

func TestSnapshot_CandidateRate(t *testing.T) {
	c := New()
	if got := c.Snapshot().CandidateRate(); got != 0 {
		t.Errorf("CandidateRate() = %v with no exchanges, want 0", got)
	}

	for i := 0; i < 4; i++ {
		c.RecordExchange()
	}
	c.RecordCandidate()

	if got := c.Snapshot().CandidateRate(); got != 0.25 {
		t.Errorf("CandidateRate() = %v, want 0.25", got)
	}
}

func TestCollector_Reset(t *testing.T) {
	c := New()

	c.RecordExchange()
	c.RecordCandidate()
	c.RecordError("parse")
	c.RecordStatusCode(500)
	c.Reset()

	snap := c.Snapshot()
	if snap.ExchangesCaptured != 0 {
		t.Errorf("ExchangesCaptured = %d after reset, want 0", snap.ExchangesCaptured)
	}
	if snap.CandidatesFound != 0 {
		t.Errorf("CandidatesFound = %d after reset, want 0", snap.CandidatesFound)
	}
	if len(snap.ErrorCounts) != 0 {
		t.Errorf("ErrorCounts has %d entries after reset, want 0", len(snap.ErrorCounts))
	}
	if len(snap.StatusCodes) != 0 {
		t.Errorf("StatusCodes has %d entries after reset, want 0", len(snap.StatusCodes))
	}
}

func TestCollector_Concurrent(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordExchange()
				c.RecordError("network")
				c.RecordStatusCode(200)
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	if snap.ExchangesCaptured != 1000 {
		t.Errorf("ExchangesCaptured = %d, want 1000", snap.ExchangesCaptured)
	}
	if snap.ErrorCounts["network"] != 1000 {
		t.Errorf("ErrorCounts[network] = %d, want 1000", snap.ErrorCounts["network"])
	}
	if snap.StatusCodes[200] != 1000 {
		t.Errorf("StatusCodes[200] = %d, want 1000", snap.StatusCodes[200])
	}
}

func TestSnapshot_Summary(t *testing.T) {
	c := New()
	c.RecordExchange()
	c.RecordCandidate()

	summary := c.Snapshot().Summary()
	if summary["exchanges_captured"] != int64(1) {
		t.Errorf("summary exchanges_captured = %v, want 1", summary["exchanges_captured"])
	}
	if summary["candidates_found"] != int64(1) {
		t.Errorf("summary candidates_found = %v, want 1", summary["candidates_found"])
	}
	if _, ok := summary["uptime"]; !ok {
		t.Error("summary missing uptime")
	}
}

func TestGlobal(t *testing.T) {
	orig := Global()
	defer SetGlobal(orig)

	c := New()
	SetGlobal(c)
	if Global() != c {
		t.Error("Global() did not return the collector set by SetGlobal")
	}
}
