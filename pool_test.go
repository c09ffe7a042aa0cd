package acervo

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/King-witcher/acervo/metrics"
)

func TestPool_InvalidConfiguration(t *testing.T) {
	sink := NewCollector[int]()
	double := func(_ context.Context, x int) (int, error) { return 2 * x, nil }

	_, err := NewPool[int, int](nil, double)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewPool[int, int](sink, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewPool(sink, double, WithConcurrency(0))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewPool(sink, double, WithMetrics(nil))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPool_ConsumeSlice_EachItemExactlyOnce(t *testing.T) {
	sink := NewCollector[int]()
	p, err := NewPool(sink,
		func(_ context.Context, x int) (int, error) { return x * x, nil },
		WithConcurrency(4),
	)
	require.NoError(t, err)

	in := make([]int, 50)
	want := make([]int, 50)
	for i := range in {
		in[i] = i
		want[i] = i * i
	}

	require.NoError(t, p.ConsumeSlice(context.Background(), in))

	got := sink.Items()
	slices.Sort(got)
	require.Equal(t, want, got, "every item must be transformed exactly once")
}

func TestPool_ConsumeSequence(t *testing.T) {
	sink := NewCollector[string]()
	p, err := NewPool(sink,
		func(_ context.Context, x int) (string, error) { return strconv.Itoa(x), nil },
		WithConcurrency(3),
	)
	require.NoError(t, err)

	require.NoError(t, p.Consume(context.Background(), slices.Values([]int{1, 2, 3, 4, 5})))

	got := sink.Items()
	slices.Sort(got)
	require.Equal(t, []string{"1", "2", "3", "4", "5"}, got)
}

func TestPool_FailFast(t *testing.T) {
	boom := errors.New("boom")
	var invocations atomic.Int64

	sink := NewCollector[int]()
	const concurrency = 4
	p, err := NewPool(sink,
		func(ctx context.Context, x int) (int, error) {
			invocations.Add(1)
			if x == 3 {
				return 0, boom
			}
			// Slow successes keep siblings busy past the failure so the
			// cancellation, not luck, is what stops further claims.
			select {
			case <-time.After(50 * time.Millisecond):
			case <-ctx.Done():
			}
			return x, nil
		},
		WithConcurrency(concurrency),
	)
	require.NoError(t, err)

	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	err = p.ConsumeSlice(context.Background(), in)
	require.ErrorIs(t, err, ErrWorkerFailure)
	require.ErrorIs(t, err, boom)

	require.LessOrEqual(t, invocations.Load(), int64(3+concurrency),
		"at most concurrency extra items may start after the failing one")
}

func TestPool_ConsumeChannel_StopsAtClose(t *testing.T) {
	ctx := context.Background()

	src := NewFiniteChannel[int]()
	for i := 1; i <= 6; i++ {
		require.NoError(t, src.Send(ctx, i))
	}
	src.Close()

	sink := NewCollector[int]()
	p, err := NewPool(sink,
		func(_ context.Context, x int) (int, error) { return x, nil },
		WithConcurrency(2),
	)
	require.NoError(t, err)

	require.NoError(t, p.ConsumeChannel(ctx, src))

	got := sink.Items()
	slices.Sort(got)
	require.Equal(t, []int{1, 2, 3, 4, 5, 6}, got)
}

func TestPool_ClosedSinkFailsTheRun(t *testing.T) {
	ctx := context.Background()

	sink := NewFiniteChannel[int]()
	sink.Close()

	p, err := NewPool[int, int](sink,
		func(_ context.Context, x int) (int, error) { return x, nil },
		WithConcurrency(2),
	)
	require.NoError(t, err)

	err = p.ConsumeSlice(ctx, []int{1, 2, 3})
	require.ErrorIs(t, err, ErrChannelClosed)
}

func TestPool_ConsumeChannel_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	src := NewChannel[int]() // never closed, never fed
	sink := NewCollector[int]()
	p, err := NewPool(sink,
		func(_ context.Context, x int) (int, error) { return x, nil },
	)
	require.NoError(t, err)

	err = p.ConsumeChannel(ctx, src)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPool_BoundedSinkBackpressure(t *testing.T) {
	ctx := context.Background()

	sink, err := NewBoundedChannel[int](2)
	require.NoError(t, err)

	p, err := NewPool[int, int](sink,
		func(_ context.Context, x int) (int, error) { return x * 10, nil },
		WithConcurrency(3),
	)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- p.ConsumeSlice(ctx, []int{1, 2, 3, 4, 5}) }()

	// The pool cannot finish while the sink is full.
	select {
	case <-done:
		t.Fatal("pool must block on a full bounded sink")
	case <-time.After(50 * time.Millisecond):
	}

	var got []int
	for range 5 {
		require.LessOrEqual(t, sink.Len(), sink.Cap())
		v, err := sink.Receive(ctx)
		require.NoError(t, err)
		got = append(got, v)
	}
	require.NoError(t, <-done)

	slices.Sort(got)
	require.Equal(t, []int{10, 20, 30, 40, 50}, got)
}

func TestPool_Metrics(t *testing.T) {
	provider := metrics.NewBasicProvider()
	boom := errors.New("boom")

	sink := NewCollector[int]()
	p, err := NewPool(sink,
		func(_ context.Context, x int) (int, error) {
			if x < 0 {
				return 0, boom
			}
			return x, nil
		},
		WithMetrics(provider),
	)
	require.NoError(t, err)

	require.NoError(t, p.ConsumeSlice(context.Background(), []int{1, 2, 3}))
	require.Equal(t, int64(3), provider.CounterValue("pool_items_processed"))
	require.Equal(t, int64(0), provider.UpDownValue("pool_items_inflight"))

	err = p.ConsumeSlice(context.Background(), []int{-1})
	require.ErrorIs(t, err, ErrWorkerFailure)
	require.Equal(t, int64(1), provider.CounterValue("pool_transform_failures"))
}
