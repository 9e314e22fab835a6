package internal

import (
	"io"

	"github.com/starford/notegraph/internal/filter"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	stdout io.Writer
	mode   *filter.Mode
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOutput sets where one-shot commands print their results.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.stdout = w
	}
}

// WithMode overrides the configured default filter mode.
func WithMode(m filter.Mode) Option {
	return func(a *application) {
		a.mode = &m
	}
}
