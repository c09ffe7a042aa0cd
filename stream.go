package acervo

import (
	"context"
	"iter"
	"sync"
)

// message is the tagged payload carried on a combinator's results channel:
// an ordinary value, a terminal worker error, or the end-of-stream marker.
type message[T any] struct {
	value T
	err   error
	end   bool
}

// seqPuller wraps iter.Pull so that multiple workers can claim items from
// one sequence, each item going to exactly one worker. It also carries the
// finished flag used by the concurrent combinators to elect the single
// worker that announces end of input.
type seqPuller[T any] struct {
	mu       sync.Mutex
	next     func() (T, bool)
	stop     func()
	finished bool
}

func newSeqPuller[T any](seq iter.Seq[T]) *seqPuller[T] {
	next, stop := iter.Pull(seq)
	return &seqPuller[T]{next: next, stop: stop}
}

// pull claims the next item. ok is false once the sequence is exhausted or
// the puller was closed.
func (p *seqPuller[T]) pull() (v T, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return v, false
	}
	v, ok = p.next()
	if !ok {
		p.finished = true
		p.stop()
	}
	return v, ok
}

// pullInto claims the next item and, while still holding the claim lock,
// pushes it to results. Serializing the push with the claim guarantees the
// end of input can only be observed after every claimed item's result is
// already in the channel, so an end marker never overtakes a value. first
// reports whether this caller is the one that observed exhaustion; exactly
// one caller ever gets first == true.
func (p *seqPuller[T]) pullInto(ctx context.Context, results *Channel[message[T]]) (ok, first bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return false, false
	}
	v, more := p.next()
	if !more {
		p.finished = true
		p.stop()
		return false, true
	}
	_ = results.Send(ctx, message[T]{value: v})
	return true, false
}

// close releases the underlying sequence. Safe to call concurrently with
// pull and more than once.
func (p *seqPuller[T]) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished = true
	p.stop()
}
