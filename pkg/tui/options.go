package tui

import (
	"log/slog"
	"os"

	"github.com/goliatone/go-folio/pkg/conversation"
)

// Theme captures optional formatting hints applied when printing messages.
type Theme struct {
	BotPrefix   string
	ErrorPrefix string
}

// DefaultTheme prefixes bot lines and rejection notices.
var DefaultTheme = Theme{
	BotPrefix:   "🤖 ",
	ErrorPrefix: "⚠️  ",
}

// Option configures the wizard.
type Option func(*Wizard)

// WithPromptDriver overrides the prompt driver used by the wizard.
func WithPromptDriver(driver PromptDriver) Option {
	return func(w *Wizard) {
		if driver != nil {
			w.driver = driver
		}
	}
}

// WithEngine drives an existing engine instead of a fresh one.
func WithEngine(engine *conversation.Engine) Option {
	return func(w *Wizard) {
		if engine != nil {
			w.engine = engine
		}
	}
}

// WithFileReader replaces os.ReadFile for image paths.
func WithFileReader(fn func(string) ([]byte, error)) Option {
	return func(w *Wizard) {
		if fn != nil {
			w.readFile = fn
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(w *Wizard) {
		w.theme = theme
	}
}

// WithLogger attaches a logger for rejected submissions.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func defaultReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
