package metrics

import (
	"sync"
	"sync/atomic"
)

// BasicProvider is a concurrency-safe in-memory Provider. Instruments are
// created on demand by name and reused for the same name.
type BasicProvider struct {
	mu       sync.Mutex
	counters map[string]*BasicCounter
	updowns  map[string]*BasicUpDownCounter
}

// NewBasicProvider constructs an empty in-memory provider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		counters: make(map[string]*BasicCounter),
		updowns:  make(map[string]*BasicUpDownCounter),
	}
}

func (p *BasicProvider) Counter(name string) Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.counters[name]
	if !ok {
		c = &BasicCounter{}
		p.counters[name] = c
	}
	return c
}

func (p *BasicProvider) UpDownCounter(name string) UpDownCounter {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.updowns[name]
	if !ok {
		c = &BasicUpDownCounter{}
		p.updowns[name] = c
	}
	return c
}

// CounterValue returns the current value of the named counter, or zero when
// it was never used.
func (p *BasicProvider) CounterValue(name string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.counters[name]; ok {
		return c.Value()
	}
	return 0
}

// UpDownValue returns the current value of the named up/down counter, or
// zero when it was never used.
func (p *BasicProvider) UpDownValue(name string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.updowns[name]; ok {
		return c.Value()
	}
	return 0
}

// BasicCounter is a monotonic counter backed by an atomic value.
type BasicCounter struct {
	v atomic.Int64
}

func (c *BasicCounter) Add(n int64) { c.v.Add(n) }

// Value returns the current count.
func (c *BasicCounter) Value() int64 { return c.v.Load() }

// BasicUpDownCounter records a value that can move in both directions.
type BasicUpDownCounter struct {
	v atomic.Int64
}

func (c *BasicUpDownCounter) Add(n int64) { c.v.Add(n) }

// Value returns the current value.
func (c *BasicUpDownCounter) Value() int64 { return c.v.Load() }
