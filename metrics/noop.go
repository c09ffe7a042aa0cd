package metrics

// NoopProvider returns no-op instruments. Used as the default provider.
type NoopProvider struct{}

// NewNoopProvider constructs a Provider that discards all metrics.
func NewNoopProvider() NoopProvider { return NoopProvider{} }

func (NoopProvider) Counter(string) Counter             { return noopCounter{} }
func (NoopProvider) UpDownCounter(string) UpDownCounter { return noopUpDownCounter{} }

type noopCounter struct{}

func (noopCounter) Add(int64) {}

type noopUpDownCounter struct{}

func (noopUpDownCounter) Add(int64) {}
