package tonic

import "time"

// RealizeEvent describes one instanced or computed realization attempt.
// Memoized cache hits are not logged.
type RealizeEvent struct {
	Kind     Kind
	Slot     string // "namespace.param" being resolved
	Target   string // target namespace or expression text
	Duration time.Duration
	Err      error
}

// RealizeLogger records realization events.
type RealizeLogger interface {
	LogRealization(RealizeEvent)
}

// RealizeLoggerFunc adapts a function to RealizeLogger.
type RealizeLoggerFunc func(RealizeEvent)

// LogRealization implements RealizeLogger.
func (f RealizeLoggerFunc) LogRealization(event RealizeEvent) {
	if f != nil {
		f(event)
	}
}

type noopRealizeLogger struct{}

func (noopRealizeLogger) LogRealization(RealizeEvent) {}

// WithRealizeLogger attaches a realization logger to the Config.
func WithRealizeLogger(logger RealizeLogger) Option {
	return func(cfg *configOptions) {
		if logger == nil {
			cfg.logger = noopRealizeLogger{}
			return
		}
		cfg.logger = logger
	}
}
