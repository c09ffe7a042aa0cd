package acervo

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
)

// envelope is the tagged payload of a FiniteChannel: either an ordinary
// value or the end-of-stream sentinel. An explicit tag avoids any ambiguity
// with legitimate zero values of T.
type envelope[T any] struct {
	value T
	end   bool
}

// FiniteChannel decorates a Channel with a Close operation. After Close,
// sends fail with ErrChannelClosed; receives drain the values sent before
// closure in order and then fail with ErrChannelClosed. The sentinel marking
// the end of the stream is re-injected whenever it is observed, so closure
// is reported to every pending and future receive, not only the first.
type FiniteChannel[T any] struct {
	ch *Channel[envelope[T]]

	mu     sync.Mutex
	closed bool

	// number of ordinary values queued, excluding the sentinel
	length atomic.Int64
}

// NewFiniteChannel returns an open finite channel.
func NewFiniteChannel[T any]() *FiniteChannel[T] {
	return &FiniteChannel[T]{ch: NewChannel[envelope[T]]()}
}

// Send queues value, or fails with ErrChannelClosed once the channel is
// closed. The closed check and the enqueue are atomic with respect to Close,
// so no value is ever ordered after the sentinel.
func (f *FiniteChannel[T]) Send(ctx context.Context, value T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrChannelClosed
	}
	if err := f.ch.Send(ctx, envelope[T]{value: value}); err != nil {
		return err
	}
	f.length.Add(1)
	return nil
}

// Close marks the channel closed and injects the end-of-stream sentinel.
// It is idempotent; only the first call injects the sentinel.
func (f *FiniteChannel[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	_ = f.ch.Send(context.Background(), envelope[T]{end: true})
}

// Receive returns the oldest value sent before closure, or fails with
// ErrChannelClosed once the sentinel is reached. Values sent before Close
// are always delivered before closure is reported.
func (f *FiniteChannel[T]) Receive(ctx context.Context) (T, error) {
	e, err := f.ch.Receive(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if e.end {
		// Put the sentinel back for the next receiver.
		f.mu.Lock()
		_ = f.ch.Send(context.Background(), envelope[T]{end: true})
		f.mu.Unlock()
		var zero T
		return zero, ErrChannelClosed
	}
	f.length.Add(-1)
	return e.value, nil
}

// Len reports the number of queued-but-unconsumed values. The end-of-stream
// sentinel is not counted.
func (f *FiniteChannel[T]) Len() int {
	return int(f.length.Load())
}

// Closed reports whether Close has been called.
func (f *FiniteChannel[T]) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// All returns a finite lazy sequence of the channel's values. It ends
// without error when the channel is closed and drained, or when ctx is done.
func (f *FiniteChannel[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := f.Receive(ctx)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
