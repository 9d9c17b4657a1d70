package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      2 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Do(t.Context(), fastConfig(5), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	err := Do(t.Context(), fastConfig(3), func(context.Context) error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "max retry attempts (3) exceeded")
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	boom := errors.New("WRONGPASS invalid password")
	calls := 0
	err := Do(t.Context(), fastConfig(5), func(context.Context) error {
		calls++
		return Permanent(boom)
	})

	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := Do(ctx, fastConfig(3), func(context.Context) error {
		t.Fatal("fn must not run with a cancelled context")
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoWithLog_ReportsRetriesAndPrefixesService(t *testing.T) {
	var attempts []int
	var delays []time.Duration
	err := DoWithLog(t.Context(), fastConfig(3), "Redis", func(context.Context) error {
		return errors.New("dial tcp: i/o timeout")
	}, func(attempt int, _ error, next time.Duration) {
		attempts = append(attempts, attempt)
		delays = append(delays, next)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis: max retry attempts")
	assert.Equal(t, []int{1, 2}, attempts)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, delays)
}

func TestPermanent_Nil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
