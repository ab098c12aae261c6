// rate_limiter.go - Rate limiting to prevent hitting LLM API limits

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// IntervalLimiter enforces a minimum interval between consecutive requests.
// All goroutines share one last-request timestamp, so concurrent callers
// queue up behind each other instead of bursting past the provider quota.
type IntervalLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewIntervalLimiter creates a limiter with the given minimum interval
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{interval: interval}
}

// SetInterval changes the minimum interval between requests
func (il *IntervalLimiter) SetInterval(interval time.Duration) {
	il.mu.Lock()
	defer il.mu.Unlock()
	il.interval = interval
}

// Wait blocks until the caller's reserved slot arrives. Each caller reserves
// the next free slot under the lock, then sleeps outside it, so waiters are
// served in arrival order. Returns early if the context is canceled.
func (il *IntervalLimiter) Wait(ctx context.Context) error {
	il.mu.Lock()
	now := time.Now()
	next := il.last.Add(il.interval)
	if next.Before(now) {
		next = now
	}
	il.last = next
	il.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
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

// Global rate limiter shared by all extraction requests.
// Free-tier Gemini allows 15 RPM = 1 request per 4 seconds.
var globalLimiter = NewIntervalLimiter(4 * time.Second)

// Default returns the process-wide limiter
func Default() *IntervalLimiter {
	return globalLimiter
}

// SetMinInterval configures the process-wide limiter interval
func SetMinInterval(interval time.Duration) {
	globalLimiter.SetInterval(interval)
}
