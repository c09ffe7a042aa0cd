package acervo

import (
	"context"
	"iter"
	"strconv"

	"github.com/ygrebnov/errorc"
)

// Buffered returns a lazy sequence that prefetches up to size items of seq
// ahead of the consumer. A single worker pulls items, so output order
// matches input order exactly. The flow-control bound is a supply of
// concession tokens exchanged over a channel: the worker spends one token
// per item pulled, and the consumer returns one token per item yielded, so
// the worker never runs more than size items ahead.
//
// The sequence is one-shot. Abandoning it, or cancellation of ctx, releases
// the worker. Size must be at least 1; an invalid size panics, as it
// indicates a programming error rather than a runtime condition.
func Buffered[T any](ctx context.Context, seq iter.Seq[T], size int) iter.Seq[T] {
	if size < 1 {
		panic(errorc.With(ErrInvalidConfig, errorc.String("size", strconv.Itoa(size))))
	}
	return func(yield func(T) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		results := NewChannel[message[T]]()
		grants := NewChannel[bool]()
		for range size {
			_ = grants.Send(ctx, true)
		}

		puller := newSeqPuller(seq)
		go func() {
			defer puller.close()
			for {
				proceed, err := grants.Receive(ctx)
				if err != nil || !proceed {
					return
				}
				v, ok := puller.pull()
				if !ok {
					_ = results.Send(ctx, message[T]{end: true})
					return
				}
				_ = results.Send(ctx, message[T]{value: v})
			}
		}()

		for {
			m, err := results.Receive(ctx)
			if err != nil {
				return
			}
			if m.end {
				// The worker has already exited; the false token keeps
				// teardown symmetric with the concurrent variant.
				_ = grants.Send(ctx, false)
				return
			}
			if !yield(m.value) {
				return
			}
			_ = grants.Send(ctx, true)
		}
	}
}
