package concurrent

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParallelMapPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got := ParallelMap(context.Background(), items, 2, func(ctx context.Context, n int) int {
		return n * n
	})
	assert.Equal(t, []int{1, 4, 9, 16, 25}, got)
}

func TestParallelMapBoundsConcurrency(t *testing.T) {
	var current, max int32
	items := make([]int, 20)

	ParallelMap(context.Background(), items, 3, func(ctx context.Context, n int) struct{} {
		n32 := atomic.AddInt32(&current, 1)
		for {
			old := atomic.LoadInt32(&max)
			if n32 <= old || atomic.CompareAndSwapInt32(&max, old, n32) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&current, -1)
		return struct{}{}
	})

	assert.LessOrEqual(t, int(max), 3)
}

func TestSemaphoreBlocksPastCapacity(t *testing.T) {
	sem := NewSemaphore(1)
	sem.Acquire()

	acquired := make(chan struct{})
	go func() {
		sem.Acquire()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire should block while the only slot is held")
	case <-time.After(20 * time.Millisecond):
	}

	sem.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Acquire never unblocked after Release")
	}
}
