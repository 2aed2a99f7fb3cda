package workflow

import "time"

// DefaultStepTimeout bounds each step unless overridden.
const DefaultStepTimeout = 5 * time.Minute

// Options contains configuration for workflow execution.
type Options struct {
	// Timeout sets a deadline for the entire run (0 = none).
	Timeout time.Duration

	// StepTimeout bounds each leaf step and fan-out branch (0 = none).
	StepTimeout time.Duration

	// MaxConcurrency limits fan-out branches running at once (0 = unlimited).
	MaxConcurrency int
}

// Option is a functional option for workflow configuration.
type Option func(*Options)

// WithTimeout sets the overall run timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithStepTimeout sets the timeout for each step.
func WithStepTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.StepTimeout = d
	}
}

// WithMaxConcurrency limits parallel fan-out branches.
// A value of 0 means unlimited concurrency.
func WithMaxConcurrency(n int) Option {
	return func(o *Options) {
		o.MaxConcurrency = n
	}
}

// ApplyOptions applies functional options with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{StepTimeout: DefaultStepTimeout}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
