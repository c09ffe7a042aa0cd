package acervo

import (
	"context"
	"iter"
	"strconv"

	"github.com/ygrebnov/errorc"
)

// Concurrent returns a lazy sequence drained by concurrency workers fanning
// out over seq with no bound on in-flight results. Each item is claimed by
// exactly one worker; output order is not preserved. Use this where only
// parallel throughput matters; prefer BufferedConcurrent when memory must
// stay bounded.
//
// The sequence is one-shot. Abandoning it, or cancellation of ctx, stops the
// workers at their next claim. Concurrency must be at least 1; an invalid
// value panics, as it indicates a programming error.
func Concurrent[T any](ctx context.Context, seq iter.Seq[T], concurrency int) iter.Seq[T] {
	if concurrency < 1 {
		panic(errorc.With(ErrInvalidConfig, errorc.String("concurrency", strconv.Itoa(concurrency))))
	}
	return func(yield func(T) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		results := NewChannel[message[T]]()
		puller := newSeqPuller(seq)
		defer puller.close()
		for range concurrency {
			go func() {
				for ctx.Err() == nil {
					ok, first := puller.pullInto(ctx, results)
					if !ok {
						if first {
							_ = results.Send(ctx, message[T]{end: true})
						}
						return
					}
				}
			}()
		}

		for {
			m, err := results.Receive(ctx)
			if err != nil {
				return
			}
			if m.end {
				return
			}
			if !yield(m.value) {
				return
			}
		}
	}
}
