package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitFirstCallImmediate(t *testing.T) {
	limiter := NewIntervalLimiter(50 * time.Millisecond)

	start := time.Now()
	err := limiter.Wait(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 20*time.Millisecond)
}

func TestWaitEnforcesInterval(t *testing.T) {
	limiter := NewIntervalLimiter(50 * time.Millisecond)

	require.NoError(t, limiter.Wait(context.Background()))

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestWaitSerializesConcurrentCallers(t *testing.T) {
	limiter := NewIntervalLimiter(30 * time.Millisecond)

	start := time.Now()
	done := make(chan time.Duration, 3)
	for i := 0; i < 3; i++ {
		go func() {
			if err := limiter.Wait(context.Background()); err != nil {
				done <- -1
				return
			}
			done <- time.Since(start)
		}()
	}

	var last time.Duration
	for i := 0; i < 3; i++ {
		d := <-done
		require.GreaterOrEqual(t, d, time.Duration(0))
		if d > last {
			last = d
		}
	}

	// Three callers share two full intervals between them.
	assert.GreaterOrEqual(t, last, 50*time.Millisecond)
}

func TestWaitCanceledContext(t *testing.T) {
	limiter := NewIntervalLimiter(time.Second)

	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetInterval(t *testing.T) {
	limiter := NewIntervalLimiter(time.Hour)
	limiter.SetInterval(time.Millisecond)

	require.NoError(t, limiter.Wait(context.Background()))

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
