package acervo

import (
	"context"
	"iter"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// countingSeq yields 0..n-1 and counts how many items were produced, so
// tests can observe how far a prefetching worker ran ahead.
func countingSeq(n int, produced *atomic.Int64) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range n {
			produced.Add(1)
			if !yield(i) {
				return
			}
		}
	}
}

func TestBuffered_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	in := []int{1, 2, 3, 4, 5}

	for _, size := range []int{1, 2, 10} {
		var got []int
		for v := range Buffered(ctx, slices.Values(in), size) {
			got = append(got, v)
		}
		require.Equal(t, in, got, "size=%d", size)
	}
}

func TestBuffered_PrefetchBound(t *testing.T) {
	ctx := context.Background()
	const n = 40
	const size = 3

	var produced atomic.Int64
	consumed := 0
	for range Buffered(ctx, countingSeq(n, &produced), size) {
		consumed++
		// A slow consumer lets the worker run as far ahead as it ever will.
		time.Sleep(time.Millisecond)
		require.LessOrEqual(t, produced.Load(), int64(consumed+size),
			"worker must not run more than size items ahead of the consumer")
	}
	require.Equal(t, n, consumed)
}

func TestBuffered_EmptyInput(t *testing.T) {
	for v := range Buffered(context.Background(), slices.Values([]int{}), 2) {
		t.Fatalf("unexpected value %d from empty input", v)
	}
}

func TestBuffered_AbandonedConsumer(t *testing.T) {
	ctx := context.Background()
	var produced atomic.Int64

	count := 0
	for range Buffered(ctx, countingSeq(1000, &produced), 2) {
		count++
		if count == 3 {
			break
		}
	}
	require.Equal(t, 3, count)
	// The worker stops at its concession budget, not at the end of input.
	require.LessOrEqual(t, produced.Load(), int64(3+2+1))
}

func TestBuffered_InvalidSizePanics(t *testing.T) {
	require.Panics(t, func() {
		Buffered(context.Background(), slices.Values([]int{1}), 0)
	})
}
