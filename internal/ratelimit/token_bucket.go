package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket allows short bursts while holding a steady average rate.
type TokenBucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
	cfg    Config
}

// NewTokenBucket creates a token bucket limiter starting at full capacity.
func NewTokenBucket(cfg Config) *TokenBucket {
	cfg = ApplyDefaults(cfg)
	return &TokenBucket{
		tokens: float64(cfg.Burst),
		last:   time.Now(),
		cfg:    cfg,
	}
}

// Wait blocks until a token is available or the context is canceled.
func (tb *TokenBucket) Wait(ctx context.Context) error {
	tb.mu.Lock()
	tb.refill(time.Now())

	if tb.tokens >= 1.0 {
		tb.tokens--
		tb.mu.Unlock()
		return nil
	}

	deficit := 1.0 - tb.tokens
	wait := time.Duration(deficit/tb.cfg.RequestsPerSec*float64(time.Second)) + time.Nanosecond
	tb.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		tb.mu.Lock()
		tb.refill(time.Now())
		if tb.tokens >= 1.0 {
			tb.tokens--
		}
		tb.mu.Unlock()
		return nil
	}
}

// Allow consumes a token if one is available immediately.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(time.Now())

	if tb.tokens >= 1.0 {
		tb.tokens--
		return true
	}
	return false
}

// RetryAfter returns the backoff duration for the given attempt.
func (tb *TokenBucket) RetryAfter(attempt int) time.Duration {
	return CalculateBackoff(attempt, tb.cfg)
}

// Reset refills the bucket to capacity.
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = float64(tb.cfg.Burst)
	tb.last = time.Now()
}

// refill adds tokens for the time elapsed since the last update. Callers hold
// the lock.
func (tb *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.last)
	if elapsed <= 0 {
		return
	}

	tb.tokens += elapsed.Seconds() * tb.cfg.RequestsPerSec
	if tb.tokens > float64(tb.cfg.Burst) {
		tb.tokens = float64(tb.cfg.Burst)
	}
	tb.last = now
}
