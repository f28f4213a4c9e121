package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Jitter bounds: every computed delay is multiplied by a uniform random
// factor in [JitterLow, JitterHigh] to avoid synchronized retry storms.
const (
	JitterLow  = 0.75
	JitterHigh = 1.25
)

// BackoffStrategy computes the wait before the next retry attempt.
type BackoffStrategy interface {
	// NextDelay returns the delay after the given failed attempt (1-based).
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff grows the delay geometrically, capped at MaxDelay,
// then jitters it. The random source is injectable for deterministic tests.
type ExponentialBackoff struct {
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
	// Rand drives the jitter. Nil disables jitter.
	Rand *rand.Rand
}

// NextDelay calculates the next delay with exponential backoff and jitter
func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(eb.BaseDelay) * math.Pow(eb.Multiplier, float64(attempt-1))

	if delay > float64(eb.MaxDelay) {
		delay = float64(eb.MaxDelay)
	}

	if eb.Rand != nil {
		factor := JitterLow + eb.Rand.Float64()*(JitterHigh-JitterLow)
		delay *= factor
	}

	return time.Duration(delay)
}

// ConstantBackoff returns the same delay for every attempt.
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns a constant delay
func (cb *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return cb.Delay
}

// Wait sleeps for the given delay or until the context is cancelled. The
// wait never blocks unrelated work; cancellation aborts it promptly.
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
