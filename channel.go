package acervo

import (
	"context"
	"iter"
	"sync"
)

// Sender is the send side shared by all channel variants and by sinks such
// as Collector. Send blocks until the value is queued or matched to a
// receiver; implementations define their own admission rules.
type Sender[T any] interface {
	Send(ctx context.Context, value T) error
}

// Receiver is the receive side shared by all channel variants.
type Receiver[T any] interface {
	Receive(ctx context.Context) (T, error)
}

// pendingSend pairs a queued value with a signal fulfilled once a receiver
// consumes the value. The signal backs SendWait and lets decorators observe
// consumption.
type pendingSend[T any] struct {
	value    T
	consumed *Signal
}

// Channel is an unbounded FIFO rendezvous queue. A send is matched directly
// to the oldest waiting receiver when one exists, otherwise the value is
// queued; a receive takes the oldest queued value, otherwise the receiver
// parks until a sender arrives. At most one of the two internal queues is
// non-empty at any instant.
//
// All methods are safe for concurrent use. Ordering is FIFO for both values
// and receivers: the Nth receive observes the Nth send, and receivers that
// parked earlier are served first.
type Channel[T any] struct {
	mu    sync.Mutex
	queue []pendingSend[T]
	recvs []chan pendingSend[T]
}

// NewChannel returns an empty unbounded channel.
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{}
}

// Send delivers value to the oldest waiting receiver, or queues it when no
// receiver is parked. It never blocks and always returns nil; the ctx and
// error are part of the shared Sender contract honored by the bounded and
// closable variants.
func (c *Channel[T]) Send(_ context.Context, value T) error {
	c.push(pendingSend[T]{value: value, consumed: NewSignal()})
	return nil
}

// SendWait behaves like Send and then blocks until the value has been
// consumed by a receiver, turning the unbounded send into a rendezvous.
// On ctx cancellation the value remains queued and will still be delivered.
func (c *Channel[T]) SendWait(ctx context.Context, value T) error {
	p := pendingSend[T]{value: value, consumed: NewSignal()}
	c.push(p)
	return p.consumed.Wait(ctx)
}

func (c *Channel[T]) push(p pendingSend[T]) {
	c.mu.Lock()
	if len(c.recvs) > 0 {
		w := c.recvs[0]
		c.recvs = c.recvs[1:]
		c.mu.Unlock()
		w <- p
		return
	}
	c.queue = append(c.queue, p)
	c.mu.Unlock()
}

// Receive returns the oldest queued value, or parks until a sender arrives.
// If ctx is done before a value arrives, it returns ctx.Err(). When a
// delivery races the cancellation, the value wins and is returned so that no
// value is ever swallowed.
func (c *Channel[T]) Receive(ctx context.Context) (T, error) {
	c.mu.Lock()
	if len(c.queue) > 0 {
		p := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()
		p.consumed.Fulfill()
		return p.value, nil
	}
	w := make(chan pendingSend[T], 1)
	c.recvs = append(c.recvs, w)
	c.mu.Unlock()

	select {
	case p := <-w:
		p.consumed.Fulfill()
		return p.value, nil
	case <-ctx.Done():
	}

	// Cancelled: withdraw the parked waiter. If a sender already claimed it,
	// the value is in flight and must be returned, not dropped.
	c.mu.Lock()
	for i, r := range c.recvs {
		if r == w {
			c.recvs = append(c.recvs[:i], c.recvs[i+1:]...)
			c.mu.Unlock()
			var zero T
			return zero, ctx.Err()
		}
	}
	c.mu.Unlock()
	p := <-w
	p.consumed.Fulfill()
	return p.value, nil
}

// Len reports the number of queued-but-unconsumed sends.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// All returns an unbounded lazy sequence that repeatedly receives from the
// channel. It never terminates on its own; iteration stops when ctx is done
// or the caller breaks out of the loop.
func (c *Channel[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := c.Receive(ctx)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
