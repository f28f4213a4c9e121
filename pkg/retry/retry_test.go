package retry

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igprofile/pkg/errors"
	"igprofile/pkg/logger"
)

func newTestController() *Controller {
	return NewController(nil, rand.New(rand.NewSource(1)), logger.NewTestLogger())
}

func TestDefaultPolicyTable(t *testing.T) {
	c := newTestController()

	tests := []struct {
		signal      errors.Signal
		maxAttempts int
		baseDelay   time.Duration
	}{
		{errors.SignalRateLimited, 5, 10 * time.Second},
		{errors.SignalServerError, 5, 2 * time.Second},
		{errors.SignalConnectionError, 3, 2 * time.Second},
		{errors.SignalEmptyResponse, 3, 2 * time.Second},
		{errors.SignalAPIFail, 2, 2 * time.Second},
	}

	for _, test := range tests {
		t.Run(string(test.signal), func(t *testing.T) {
			policy, ok := c.Policy(test.signal)
			require.True(t, ok)
			assert.Equal(t, test.maxAttempts, policy.MaxAttempts)
			assert.Equal(t, test.baseDelay, policy.BaseDelay)
			assert.Equal(t, 300*time.Second, policy.MaxDelay)
			assert.Equal(t, 2.0, policy.Multiplier)
		})
	}
}

func TestRateLimitedSchedule(t *testing.T) {
	c := newTestController()

	// Attempts 1-4 retry with delays around 10s, 20s, 40s, 80s; the jitter
	// keeps each one within [0.75, 1.25] of the raw value.
	raw := []time.Duration{10 * time.Second, 20 * time.Second, 40 * time.Second, 80 * time.Second}
	for attempt := 1; attempt <= 4; attempt++ {
		d := c.Next(errors.SignalRateLimited, attempt)
		require.Equal(t, ActionRetry, d.Kind, "attempt %d", attempt)

		min := time.Duration(float64(raw[attempt-1]) * JitterLow)
		max := time.Duration(float64(raw[attempt-1]) * JitterHigh)
		assert.GreaterOrEqual(t, d.Delay, min, "attempt %d", attempt)
		assert.LessOrEqual(t, d.Delay, max, "attempt %d", attempt)
	}

	d := c.Next(errors.SignalRateLimited, 5)
	assert.Equal(t, ActionGiveUp, d.Kind)
	assert.Zero(t, d.Delay)
}

func TestConnectionErrorGivesUpAfterThree(t *testing.T) {
	c := newTestController()

	assert.Equal(t, ActionRetry, c.Next(errors.SignalConnectionError, 1).Kind)
	assert.Equal(t, ActionRetry, c.Next(errors.SignalConnectionError, 2).Kind)
	assert.Equal(t, ActionGiveUp, c.Next(errors.SignalConnectionError, 3).Kind)
}

func TestBlockSignalsAbort(t *testing.T) {
	c := newTestController()

	for _, signal := range []errors.Signal{errors.SignalLoginWall, errors.SignalChallengeWall} {
		d := c.Next(signal, 1)
		assert.Equal(t, ActionAbort, d.Kind, "signal %s", signal)
		assert.Zero(t, d.Delay)
	}
}

func TestAPIFailSingleRetry(t *testing.T) {
	c := newTestController()

	d := c.Next(errors.SignalAPIFail, 1)
	require.Equal(t, ActionRetry, d.Kind)
	assert.Greater(t, d.Delay, time.Duration(0))

	assert.Equal(t, ActionGiveUp, c.Next(errors.SignalAPIFail, 2).Kind)
}

func TestEmptyResponseUsesConnectionSchedule(t *testing.T) {
	c := newTestController()

	empty, ok := c.Policy(errors.SignalEmptyResponse)
	require.True(t, ok)
	conn, ok := c.Policy(errors.SignalConnectionError)
	require.True(t, ok)
	assert.Equal(t, conn, empty)
}

func TestUnknownSignalAborts(t *testing.T) {
	c := newTestController()

	assert.Equal(t, ActionAbort, c.Next(errors.Signal("mystery"), 1).Kind)
	assert.Equal(t, ActionAbort, c.Next(errors.SignalHealthy, 1).Kind)
}

func TestActionKindString(t *testing.T) {
	assert.Equal(t, "retry", ActionRetry.String())
	assert.Equal(t, "give_up", ActionGiveUp.String())
	assert.Equal(t, "abort", ActionAbort.String())
}
