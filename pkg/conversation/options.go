package conversation

import (
	"io"
	"log/slog"
	"time"
)

// DefaultColorDelay is the pause before the prompt that follows a color pick.
const DefaultColorDelay = 300 * time.Millisecond

// Option configures an Engine.
type Option func(*Engine)

// WithScheduler sets the scheduler used for the deferred color continuation.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.scheduler = s
		}
	}
}

// WithColorDelay overrides DefaultColorDelay. Negative values are ignored.
func WithColorDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.colorDelay = d
		}
	}
}

// WithImageEncoder swaps the upload encoder.
func WithImageEncoder(enc ImageEncoder) Option {
	return func(e *Engine) {
		if enc != nil {
			e.encoder = enc
		}
	}
}

// WithLogger attaches a logger for step transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
