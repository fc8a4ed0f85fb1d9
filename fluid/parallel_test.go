package fluid

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForEachCoversRangeExactlyOnce(t *testing.T) {
	pool := newWorkerPool()
	defer pool.stop()

	// Both the serial path (below threshold) and the pooled path.
	for _, n := range []int{1, parallelThreshold - 1, parallelThreshold, 1000} {
		hits := make([]int32, n)
		pool.forEach(n, func(_, start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			require.Equal(t, int32(1), h, "n=%d index %d", n, i)
		}
	}
}

func TestForEachZeroAndNegative(t *testing.T) {
	pool := newWorkerPool()
	defer pool.stop()

	called := false
	pool.forEach(0, func(_, _, _ int) { called = true })
	pool.forEach(-5, func(_, _, _ int) { called = true })
	require.False(t, called)
}

func TestForEachWorkerIDsInRange(t *testing.T) {
	pool := newWorkerPool()
	defer pool.stop()

	var bad atomic.Int32
	pool.forEach(10_000, func(worker, _, _ int) {
		if worker < 0 || worker >= pool.numWorkers {
			bad.Add(1)
		}
	})
	require.Zero(t, bad.Load())
}

func TestPoolStopIdempotent(t *testing.T) {
	pool := newWorkerPool()
	pool.forEach(1000, func(_, _, _ int) {})
	pool.stop()
	pool.stop()
}
