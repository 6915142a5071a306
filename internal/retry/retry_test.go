package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithBackoffSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	cfg := Config{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}

	err := WithBackoff(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithBackoffExhaustsRetries(t *testing.T) {
	cfg := Config{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}

	err := WithBackoff(context.Background(), cfg, func(ctx context.Context) error {
		return errors.New("permanent")
	})

	require.Error(t, err)
}

func TestWithBackoffRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithBackoff(ctx, DefaultConfig(), func(ctx context.Context) error {
		return errors.New("should not matter")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Hour)

	err := cb.Execute(func() error { return errors.New("fail") })
	require.Error(t, err)

	err = cb.Execute(func() error { return errors.New("fail") })
	require.Error(t, err)

	err = cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerResetsOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Hour)

	require.Error(t, cb.Execute(func() error { return errors.New("fail") }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.Error(t, cb.Execute(func() error { return errors.New("fail") }))

	// only one consecutive failure since the reset; breaker stays closed
	err := cb.Execute(func() error { return nil })
	assert.NoError(t, err)
}
