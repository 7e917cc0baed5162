package openapi

import (
	"strings"

	"github.com/erraggy/apish/dslerrors"
	"github.com/erraggy/apish/logger"
)

// Option is a function that configures Generate.
type Option func(*generateConfig) error

type generateConfig struct {
	servers   []*Server
	deriveIDs bool
	log       logger.Logger
}

func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		deriveIDs: true,
		log:       logger.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithServer adds a server entry. It may be given more than once.
func WithServer(url, description string) Option {
	return func(cfg *generateConfig) error {
		url = strings.TrimSpace(url)
		if url == "" {
			return &dslerrors.ConfigError{Option: "server", Message: "url must not be empty"}
		}
		cfg.servers = append(cfg.servers, &Server{URL: url, Description: description})
		return nil
	}
}

// WithDerivedOperationIDs controls whether operations without an explicit
// operation id get one derived from verb and path. Default: true.
func WithDerivedOperationIDs(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.deriveIDs = enabled
		return nil
	}
}

// WithLogger sets the logger. Default: logger.NopLogger.
func WithLogger(l logger.Logger) Option {
	return func(cfg *generateConfig) error {
		cfg.log = logger.OrNop(l)
		return nil
	}
}
