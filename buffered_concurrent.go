package acervo

import (
	"context"
	"iter"
	"strconv"

	"github.com/ygrebnov/errorc"
)

// BufferedConcurrent returns a lazy sequence drained by concurrency workers
// sharing one supply of size concession tokens. At most size results are in
// flight and at most concurrency workers pull at once; output order is not
// preserved. Exactly one worker observes end of input: it pushes the single
// end marker and broadcasts concurrency false tokens so every sibling exits
// on its next token pull.
//
// The sequence is one-shot. Abandoning it, or cancellation of ctx, releases
// all workers. Size and concurrency must be at least 1; invalid values
// panic, as they indicate a programming error.
func BufferedConcurrent[T any](ctx context.Context, seq iter.Seq[T], size, concurrency int) iter.Seq[T] {
	if size < 1 {
		panic(errorc.With(ErrInvalidConfig, errorc.String("size", strconv.Itoa(size))))
	}
	if concurrency < 1 {
		panic(errorc.With(ErrInvalidConfig, errorc.String("concurrency", strconv.Itoa(concurrency))))
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
		defer puller.close()
		for range concurrency {
			go func() {
				for {
					proceed, err := grants.Receive(ctx)
					if err != nil || !proceed {
						return
					}
					ok, first := puller.pullInto(ctx, results)
					if !ok {
						if first {
							_ = results.Send(ctx, message[T]{end: true})
							for range concurrency {
								_ = grants.Send(ctx, false)
							}
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
			_ = grants.Send(ctx, true)
		}
	}
}
