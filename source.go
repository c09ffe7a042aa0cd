package acervo

import "sync/atomic"

// sliceCursor hands out the elements of a fixed collection to concurrent
// claimants, each element exactly once.
type sliceCursor[T any] struct {
	items []T
	next  atomic.Int64
}

func newSliceCursor[T any](items []T) *sliceCursor[T] {
	return &sliceCursor[T]{items: items}
}

func (c *sliceCursor[T]) claim() (v T, ok bool) {
	i := c.next.Add(1) - 1
	if i >= int64(len(c.items)) {
		return v, false
	}
	return c.items[i], true
}
