// Package metrics defines the minimal instrumentation surface used by the
// acervo pool, with a no-op default and a basic in-memory implementation
// suitable for tests and lightweight applications.
package metrics

// Provider constructs instruments used to record metrics.
// Implementations must be safe for concurrent use.
type Provider interface {
	Counter(name string) Counter
	UpDownCounter(name string) UpDownCounter
}

// Counter records monotonic counts.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records values that can move up or down, such as the number
// of items currently in flight.
type UpDownCounter interface {
	Add(n int64)
}
