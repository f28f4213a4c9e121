package retry

import (
	"context"
	"math/rand"
	"testing"
	"time"
)

func TestExponentialBackoffWithoutJitter(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   1 * time.Second,
		Multiplier: 2.0,
	}

	tests := []struct {
		attempt     int
		expected    time.Duration
		description string
	}{
		{1, 100 * time.Millisecond, "first attempt"},
		{2, 200 * time.Millisecond, "second attempt"},
		{3, 400 * time.Millisecond, "third attempt"},
		{4, 800 * time.Millisecond, "fourth attempt"},
		{5, 1 * time.Second, "fifth attempt (capped at max)"},
		{6, 1 * time.Second, "sixth attempt (still capped)"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			if delay := backoff.NextDelay(test.attempt); delay != test.expected {
				t.Errorf("expected delay %v, got %v", test.expected, delay)
			}
		})
	}
}

func TestExponentialBackoffJitterRange(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  10 * time.Second,
		MaxDelay:   300 * time.Second,
		Multiplier: 2.0,
		Rand:       rand.New(rand.NewSource(42)),
	}

	// Every jittered delay must lie within [0.75, 1.25] of the raw value.
	for attempt := 1; attempt <= 6; attempt++ {
		raw := (&ExponentialBackoff{
			BaseDelay:  10 * time.Second,
			MaxDelay:   300 * time.Second,
			Multiplier: 2.0,
		}).NextDelay(attempt)

		for i := 0; i < 50; i++ {
			delay := backoff.NextDelay(attempt)
			min := time.Duration(float64(raw) * JitterLow)
			max := time.Duration(float64(raw) * JitterHigh)
			if delay < min || delay > max {
				t.Fatalf("attempt %d: delay %v outside [%v, %v]", attempt, delay, min, max)
			}
		}
	}
}

func TestExponentialBackoffJitterVaries(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   1 * time.Second,
		Multiplier: 2.0,
		Rand:       rand.New(rand.NewSource(7)),
	}

	delays := make(map[time.Duration]bool)
	for i := 0; i < 10; i++ {
		delays[backoff.NextDelay(2)] = true
	}

	if len(delays) < 2 {
		t.Error("expected varying delays with jitter, got constant delays")
	}
}

func TestExponentialBackoffZeroAttempt(t *testing.T) {
	backoff := &ExponentialBackoff{BaseDelay: time.Second, MaxDelay: time.Minute, Multiplier: 2.0}
	if delay := backoff.NextDelay(0); delay != 0 {
		t.Errorf("expected zero delay for attempt 0, got %v", delay)
	}
}

func TestConstantBackoff(t *testing.T) {
	backoff := &ConstantBackoff{Delay: 5 * time.Second}

	for attempt := 1; attempt <= 3; attempt++ {
		if delay := backoff.NextDelay(attempt); delay != 5*time.Second {
			t.Errorf("attempt %d: expected 5s, got %v", attempt, delay)
		}
	}
}

func TestWaitCompletes(t *testing.T) {
	start := time.Now()
	if err := Wait(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Errorf("wait returned too early after %v", elapsed)
	}
}

func TestWaitCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Wait(ctx, 10*time.Second)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation did not abort the wait promptly (%v)", elapsed)
	}
}
