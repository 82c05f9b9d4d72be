package ratelimit

import (
	"context"
	"sync"
	"time"
)

// FixedDelay enforces a minimum delay between consecutive requests.
type FixedDelay struct {
	mu   sync.Mutex
	next time.Time
	cfg  Config
}

// NewFixedDelay creates a fixed delay limiter.
func NewFixedDelay(cfg Config) *FixedDelay {
	return &FixedDelay{cfg: ApplyDefaults(cfg)}
}

// Wait blocks until the delay since the previous request has passed.
func (fd *FixedDelay) Wait(ctx context.Context) error {
	fd.mu.Lock()
	now := time.Now()
	wait := fd.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	fd.next = now.Add(wait + fd.cfg.FixedDelay)
	fd.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Allow reports whether a request may proceed without waiting.
func (fd *FixedDelay) Allow() bool {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	now := time.Now()
	if now.Before(fd.next) {
		return false
	}
	fd.next = now.Add(fd.cfg.FixedDelay)
	return true
}

// RetryAfter returns the backoff duration for the given attempt.
func (fd *FixedDelay) RetryAfter(attempt int) time.Duration {
	return CalculateBackoff(attempt, fd.cfg)
}

// Reset clears the pacing state.
func (fd *FixedDelay) Reset() {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	fd.next = time.Time{}
}
