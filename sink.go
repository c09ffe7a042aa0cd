package acervo

import (
	"context"
	"sync"
)

// Collector is a Sender that accumulates values into an in-memory slice.
// It is the simplest Pool sink and is safe for concurrent use.
type Collector[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewCollector returns an empty collector.
func NewCollector[T any]() *Collector[T] {
	return &Collector[T]{}
}

// Send appends value. It never blocks and always returns nil.
func (c *Collector[T]) Send(_ context.Context, value T) error {
	c.mu.Lock()
	c.items = append(c.items, value)
	c.mu.Unlock()
	return nil
}

// Items returns a snapshot of the collected values in arrival order.
func (c *Collector[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of collected values.
func (c *Collector[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
