package engine

import (
	"time"

	"go.uber.org/zap"
)

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger sets the logger used for pruner sweeps and lifecycle events.
// The default is a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCutoffHour sets the local hour at which good-for-day orders are
// swept. The default is DefaultCutoffHour.
func WithCutoffHour(hour int) Option {
	return func(e *Engine) {
		e.cutoffHour = hour
	}
}

// WithClock overrides the engine's time source. Used in tests to pin trade
// timestamps and day-boundary computation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}
