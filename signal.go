package acervo

import (
	"context"
	"sync"
)

// Signal is a one-shot wake primitive. It starts pending and transitions to
// fulfilled exactly once; every current and future waiter is released after
// fulfillment. The zero value is not usable; construct with NewSignal.
type Signal struct {
	once sync.Once
	done chan struct{}
}

// NewSignal returns a pending Signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fulfill transitions the signal to fulfilled and wakes all waiters.
// Calling it again is a no-op.
func (s *Signal) Fulfill() {
	s.once.Do(func() { close(s.done) })
}

// Fulfilled reports whether the signal has been fulfilled.
func (s *Signal) Fulfilled() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the signal is fulfilled or ctx is done. If the signal is
// already fulfilled it returns immediately with nil.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	default:
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel that is closed when the signal is fulfilled,
// for use in select statements.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}
