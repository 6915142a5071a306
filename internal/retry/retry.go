// Package retry carries the recon-suite scanner's exponential-backoff and
// circuit-breaker helpers, adapted for the prelude's best-effort NS
// discovery and zone-transfer attempts. Trimmed to what the prelude uses:
// the teacher's linear/exponential RetryPolicy variants and its
// interface{}-free WithResult wrapper were dropped since nothing in this
// domain calls them (see DESIGN.md).
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Config controls WithBackoff's retry behavior.
type Config struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultConfig returns sensible defaults for a one-shot best-effort probe.
func DefaultConfig() Config {
	return Config{
		MaxRetries:    2,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// Func is retried by WithBackoff.
type Func func(ctx context.Context) error

// WithBackoff retries fn with exponential backoff and jitter until it
// succeeds, MaxRetries is exhausted, or ctx is done.
func WithBackoff(ctx context.Context, cfg Config, fn Func) error {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 200 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 2 * time.Second
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = 2.0
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := fn(ctx); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == cfg.MaxRetries {
			break
		}

		jitterRange := float64(delay) * 0.3
		jittered := time.Duration(float64(delay) + rand.Float64()*jitterRange*2 - jitterRange)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(jittered):
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, lastErr)
}

// CircuitBreaker stops retrying a target (e.g. one nameserver) once it has
// failed too many times in the same run.
type CircuitBreaker struct {
	maxFailures     int
	resetTimeout    time.Duration
	failures        int
	lastFailureTime time.Time
	open            bool
}

// NewCircuitBreaker builds a breaker that opens after maxFailures
// consecutive failures and, once open, refuses calls until resetTimeout
// has elapsed since the last failure.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{maxFailures: maxFailures, resetTimeout: resetTimeout}
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

// Execute runs fn unless the breaker is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.open {
		if time.Since(cb.lastFailureTime) <= cb.resetTimeout {
			return ErrCircuitOpen
		}
		cb.open = false
	}

	err := fn()
	if err != nil {
		cb.failures++
		cb.lastFailureTime = time.Now()
		if cb.failures >= cb.maxFailures {
			cb.open = true
		}
		return err
	}

	cb.failures = 0
	return nil
}
