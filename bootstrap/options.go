package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/transcribe/logger"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	logWriter       io.Writer
	gracefulTimeout *time.Duration
	handleSignals   bool
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the application logger. If not set, one is built from the
// config's Logging section.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithLogWriter builds the logger from the config's Logging section but
// writes to w instead of the configured output.
func WithLogWriter(w io.Writer) Option {
	return func(o *appOptions) {
		o.logWriter = w
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithSignalHandling makes SIGINT and SIGTERM cancel a running task.
func WithSignalHandling() Option {
	return func(o *appOptions) {
		o.handleSignals = true
	}
}
