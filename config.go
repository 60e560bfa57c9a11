package conctest

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/ygrebnov/conctest/metrics"
)

// Config holds Registry configuration. Unlike the teacher's Config,
// which tunes pool sizing and buffering, conctest's Config only wires
// ambient concerns — there is no size knob on the registry itself: the
// rendezvous channels are fixed at capacity 1 per spec.
type Config struct {
	// Logger receives structured events for id registration, pending
	// resolves, isolation and heal transitions, completed advances, and
	// registry close. Advance failures are raised as panics and are not
	// logged.
	// Default: a disabled logger (zerolog.Nop()).
	Logger zerolog.Logger

	// Metrics receives counters/histograms for advances, labels observed,
	// isolated-prefix churn, and advance latency.
	// Default: metrics.NewNoopProvider().
	Metrics metrics.Provider

	// IDGenerator produces the internal correlation id attached to each
	// TaskController, independent of its user-chosen hierarchical TaskID.
	// Default: uuid.NewString.
	IDGenerator func() string
}

// defaultConfig centralizes default values for Config.
func defaultConfig() Config {
	return Config{
		Logger:      zerolog.Nop(),
		Metrics:     metrics.NewNoopProvider(),
		IDGenerator: uuid.NewString,
	}
}

// validateConfig performs lightweight invariant checks.
func validateConfig(cfg *Config) error {
	if cfg.Metrics == nil {
		return ErrInvalidConfig
	}
	if cfg.IDGenerator == nil {
		return ErrInvalidConfig
	}
	return nil
}
