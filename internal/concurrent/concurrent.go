// Package concurrent holds small bounded-concurrency helpers shared by the
// prelude's nameserver fan-out. Adapted from the recon-suite scanner's
// utils.Semaphore/ParallelMap, trimmed to the pieces the prelude actually
// drives (the prelude has no need for the teacher's interface{}-typed
// generic worker pool or wait-group wrapper) and rebuilt on
// golang.org/x/sync/semaphore, the same bounded-concurrency primitive the
// rest of the retrieved pack reaches for instead of a hand-rolled
// channel-as-semaphore.
package concurrent

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Semaphore bounds how many goroutines may hold a slot concurrently.
type Semaphore struct {
	sem *semaphore.Weighted
}

// NewSemaphore creates a semaphore with n slots.
func NewSemaphore(n int) *Semaphore {
	if n <= 0 {
		n = 1
	}
	return &Semaphore{sem: semaphore.NewWeighted(int64(n))}
}

// Acquire blocks until a slot is free.
func (s *Semaphore) Acquire() { s.sem.Acquire(context.Background(), 1) }

// Release frees a slot.
func (s *Semaphore) Release() { s.sem.Release(1) }

// ParallelMap applies fn to every item with at most workers concurrent
// calls, preserving result order. A ctx cancellation stops launching new
// work but already-running calls are allowed to finish.
func ParallelMap[T any, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) R) []R {
	if workers <= 0 {
		workers = len(items)
	}
	if workers <= 0 {
		workers = 1
	}

	results := make([]R, len(items))
	sem := semaphore.NewWeighted(int64(workers))
	done := make(chan struct{}, len(items))

	for i, item := range items {
		select {
		case <-ctx.Done():
		default:
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			done <- struct{}{}
			continue
		}

		go func(idx int, it T) {
			defer sem.Release(1)
			defer func() { done <- struct{}{} }()
			results[idx] = fn(ctx, it)
		}(i, item)
	}

	for range items {
		<-done
	}
	return results
}
