package acervo

import (
	"context"
	"iter"
	"strconv"
	"sync"

	"github.com/ygrebnov/errorc"
)

// BoundedChannel decorates a Channel with admission control: a sender blocks
// once the number of queued-but-unreceived values reaches the configured
// capacity, and blocked senders are admitted FIFO as receivers drain the
// queue. It satisfies the same Sender/Receiver contracts as Channel.
type BoundedChannel[T any] struct {
	ch       *Channel[T]
	capacity int

	mu       sync.Mutex
	occupied int       // queued values plus admission grants not yet enqueued
	blocked  []*Signal // admission grants for blocked senders, FIFO
}

// NewBoundedChannel returns a bounded channel with the given capacity.
// Capacity must be greater than zero.
func NewBoundedChannel[T any](capacity int) (*BoundedChannel[T], error) {
	if capacity < 1 {
		return nil, errorc.With(ErrInvalidConfig,
			errorc.String("capacity", strconv.Itoa(capacity)))
	}
	return &BoundedChannel[T]{ch: NewChannel[T](), capacity: capacity}, nil
}

// Send queues value on the underlying channel, blocking first while the
// channel holds capacity values or earlier senders are still waiting for
// admission. Senders are admitted in the order they blocked. On ctx
// cancellation the sender withdraws; an admission slot it already received
// is forwarded to the next blocked sender.
func (b *BoundedChannel[T]) Send(ctx context.Context, value T) error {
	b.mu.Lock()
	if len(b.blocked) == 0 && b.occupied < b.capacity {
		b.occupied++
		b.mu.Unlock()
		return b.ch.Send(ctx, value)
	}
	grant := NewSignal()
	b.blocked = append(b.blocked, grant)
	b.mu.Unlock()

	if err := grant.Wait(ctx); err != nil {
		b.withdraw(grant)
		return err
	}
	// The releasing receiver already reserved our slot in occupied.
	return b.ch.Send(ctx, value)
}

// withdraw removes a cancelled sender's grant from the admission queue. If
// the grant was already issued, the reserved slot is forwarded to the next
// blocked sender, or freed when none is waiting.
func (b *BoundedChannel[T]) withdraw(grant *Signal) {
	b.mu.Lock()
	for i, s := range b.blocked {
		if s == grant {
			b.blocked = append(b.blocked[:i], b.blocked[i+1:]...)
			b.mu.Unlock()
			return
		}
	}
	// Grant was issued concurrently with the cancellation; the slot is ours
	// to give away.
	if len(b.blocked) > 0 {
		next := b.blocked[0]
		b.blocked = b.blocked[1:]
		b.mu.Unlock()
		fulfillGrant(next)
		return
	}
	b.occupied--
	b.mu.Unlock()
}

// Receive takes the oldest value from the underlying channel, then admits
// the oldest blocked sender. Freeing the slot only after the value has been
// removed keeps the queued length at or below capacity at every observable
// point.
func (b *BoundedChannel[T]) Receive(ctx context.Context) (T, error) {
	v, err := b.ch.Receive(ctx)
	if err != nil {
		return v, err
	}
	b.mu.Lock()
	b.occupied--
	if len(b.blocked) == 0 {
		b.mu.Unlock()
		return v, nil
	}
	grant := b.blocked[0]
	b.blocked = b.blocked[1:]
	b.occupied++ // slot reserved for the admitted sender
	b.mu.Unlock()
	fulfillGrant(grant)
	return v, nil
}

// fulfillGrant issues an admission grant exactly once.
func fulfillGrant(grant *Signal) {
	if grant.Fulfilled() {
		panic(errorc.With(ErrInvariant,
			errorc.String("detail", "admission grant released twice")))
	}
	grant.Fulfill()
}

// Len reports the number of queued-but-unconsumed values.
func (b *BoundedChannel[T]) Len() int {
	return b.ch.Len()
}

// Cap returns the configured capacity.
func (b *BoundedChannel[T]) Cap() int {
	return b.capacity
}

// All returns an unbounded lazy sequence that repeatedly receives from the
// channel, stopping when ctx is done.
func (b *BoundedChannel[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := b.Receive(ctx)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
