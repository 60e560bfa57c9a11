package conctest

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/ygrebnov/conctest/metrics"
)

// Option configures a Registry. Use NewRegistry(opts...) to construct one.
type Option func(*Config)

// WithLogger sets the structured logger used for registry/controller
// lifecycle events. By default the registry logs nothing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithMetrics sets the metrics.Provider used to record advances, labels
// observed, isolated-prefix churn, and advance latency. By default the
// registry records nothing.
func WithMetrics(p metrics.Provider) Option {
	return func(c *Config) { c.Metrics = p }
}

// WithIDGenerator overrides how internal per-controller correlation ids
// are produced. By default this is uuid.NewString.
func WithIDGenerator(gen func() string) Option {
	return func(c *Config) { c.IDGenerator = gen }
}

// NewRegistry creates a new Registry, the sole entry point into the
// harness. A test instantiates exactly one Registry at entry and Close's
// it at exit (see Registry.Close).
func NewRegistry(opts ...Option) *Registry {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			panic("conctest: nil registry option")
		}
		opt(&cfg)
	}

	if err := validateConfig(&cfg); err != nil {
		panic(fmt.Errorf("conctest: invalid registry config: %w", err))
	}

	return newRegistry(&cfg)
}
