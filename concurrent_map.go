package acervo

import (
	"context"
	"fmt"
	"iter"
	"sync"
)

// DefaultConcurrency is the worker count used by ConcurrentMap when the
// caller passes a non-positive concurrency.
const DefaultConcurrency = 12

// ConcurrentMap returns a lazy sequence of fn applied to every element of
// seq by concurrency workers. Each element is claimed by exactly one worker;
// outputs are yielded in completion order, not input order (concurrency 1
// degenerates to input order). There is no bound on how far the workers run
// ahead of the consumer.
//
// The first fn error is yielded, wrapped in ErrWorkerFailure, and stops the
// sequence; sibling workers exit at their next claim and their errors are
// discarded. The sequence is one-shot; abandoning it, or cancellation of
// ctx, stops the workers.
func ConcurrentMap[T, R any](
	ctx context.Context,
	seq iter.Seq[T],
	fn func(context.Context, T) (R, error),
	concurrency int,
) iter.Seq2[R, error] {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return func(yield func(R, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		results := NewChannel[message[R]]()
		puller := newSeqPuller(seq)
		defer puller.close()

		var wg sync.WaitGroup
		for range concurrency {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for ctx.Err() == nil {
					v, ok := puller.pull()
					if !ok {
						return
					}
					r, err := fn(ctx, v)
					if err != nil {
						_ = results.Send(ctx, message[R]{err: fmt.Errorf("%w: %w", ErrWorkerFailure, err)})
						cancel()
						return
					}
					_ = results.Send(ctx, message[R]{value: r})
				}
			}()
		}
		// The end marker goes out only after every worker has pushed its
		// last result, so it can never overtake a value.
		go func() {
			wg.Wait()
			_ = results.Send(ctx, message[R]{end: true})
		}()

		for {
			m, err := results.Receive(ctx)
			if err != nil {
				return
			}
			if m.end {
				return
			}
			if m.err != nil {
				var zero R
				yield(zero, m.err)
				return
			}
			if !yield(m.value, nil) {
				return
			}
		}
	}
}
