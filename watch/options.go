package watch

import (
	"time"

	"github.com/erraggy/apish/dslerrors"
	"github.com/erraggy/apish/logger"
)

// Option configures a Watcher.
type Option func(*config) error

type config struct {
	debounce  time.Duration
	timeout   time.Duration
	initial   bool
	onRebuild []func(Outcome)
	log       logger.Logger
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{initial: true, log: logger.NopLogger{}}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithDebounce waits until no notification arrived for d before
// rebuilding. Default: 0, rebuild immediately.
func WithDebounce(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return &dslerrors.ConfigError{Option: "debounce", Value: d, Message: "must not be negative"}
		}
		cfg.debounce = d
		return nil
	}
}

// WithTimeout bounds each rebuild's context. The rebuild itself is not
// interrupted; its result counts as failed once the deadline has passed.
// Default: 0, no timeout.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return &dslerrors.ConfigError{Option: "timeout", Value: d, Message: "must not be negative"}
		}
		cfg.timeout = d
		return nil
	}
}

// WithInitialBuild controls whether Run builds once before watching.
// Default: true.
func WithInitialBuild(enabled bool) Option {
	return func(cfg *config) error {
		cfg.initial = enabled
		return nil
	}
}

// WithOnRebuild registers fn to be called after every rebuild, on the
// goroutine that called Run.
func WithOnRebuild(fn func(Outcome)) Option {
	return func(cfg *config) error {
		if fn != nil {
			cfg.onRebuild = append(cfg.onRebuild, fn)
		}
		return nil
	}
}

// WithLogger sets the logger. Default: logger.NopLogger.
func WithLogger(l logger.Logger) Option {
	return func(cfg *config) error {
		cfg.log = logger.OrNop(l)
		return nil
	}
}
