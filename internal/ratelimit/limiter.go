// Package ratelimit paces page visits during an analysis session.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles page captures with a global token bucket, a lazily
// created bucket per target host, and an optional minimum spacing between
// visits to the same host.
type Limiter struct {
	mu        sync.Mutex
	global    *rate.Limiter
	hosts     map[string]*rate.Limiter
	hostRate  rate.Limit
	hostBurst int
	hostDelay time.Duration
	lastVisit map[string]time.Time
}

// NewLimiter creates a limiter. Each host bucket inherits the global rate
// and burst.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	return &Limiter{
		global:    rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		hosts:     make(map[string]*rate.Limiter),
		hostRate:  rate.Limit(requestsPerSecond),
		hostBurst: burst,
		lastVisit: make(map[string]time.Time),
	}
}

// SetHostDelay sets the minimum spacing between visits to the same host.
func (l *Limiter) SetHostDelay(delay time.Duration) {
	l.mu.Lock()
	l.hostDelay = delay
	l.mu.Unlock()
}

// Wait blocks until a visit to host is allowed or the context is cancelled.
// An empty host passes only the global bucket.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	if err := l.global.Wait(ctx); err != nil {
		return err
	}
	if host == "" {
		return nil
	}

	l.mu.Lock()
	hl, ok := l.hosts[host]
	if !ok {
		hl = rate.NewLimiter(l.hostRate, l.hostBurst)
		l.hosts[host] = hl
	}
	var pause time.Duration
	if l.hostDelay > 0 {
		if last, seen := l.lastVisit[host]; seen {
			if elapsed := time.Since(last); elapsed < l.hostDelay {
				pause = l.hostDelay - elapsed
			}
		}
		// Claim the slot now so concurrent waiters space out too.
		l.lastVisit[host] = time.Now().Add(pause)
	}
	l.mu.Unlock()

	if pause > 0 {
		select {
		case <-time.After(pause):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return hl.Wait(ctx)
}

// Stats reports the configured pacing and how many hosts have been visited.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Stats{
		HostCount: len(l.hosts),
		Rate:      float64(l.hostRate),
		Burst:     l.hostBurst,
		HostDelay: l.hostDelay,
	}
}

// Stats contains rate limiter statistics.
type Stats struct {
	HostCount int           `json:"host_count"`
	Rate      float64       `json:"rate"`
	Burst     int           `json:"burst"`
	HostDelay time.Duration `json:"host_delay"`
}
