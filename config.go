package acervo

import (
	"strconv"

	"github.com/King-witcher/acervo/metrics"
	"github.com/ygrebnov/errorc"
)

// config holds Pool configuration.
type config struct {
	// Concurrency is the fixed number of workers launched per Consume call.
	// Default: 1.
	Concurrency int

	// Metrics receives pool instrumentation. Default: a no-op provider.
	Metrics metrics.Provider
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		Concurrency: 1,
		Metrics:     metrics.NewNoopProvider(),
	}
}

// Option configures a Pool. Invalid inputs surface as ErrInvalidConfig from
// NewPool rather than panicking.
type Option func(*config) error

// WithConcurrency sets the fixed number of workers (must be > 0).
func WithConcurrency(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return errorc.With(ErrInvalidConfig,
				errorc.String("concurrency", strconv.Itoa(n)))
		}
		cfg.Concurrency = n
		return nil
	}
}

// WithMetrics sets the metrics provider used to record pool activity.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig,
				errorc.String("metrics", "nil provider"))
		}
		cfg.Metrics = p
		return nil
	}
}
