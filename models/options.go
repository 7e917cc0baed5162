package models

import (
	"fmt"
	"io"

	"github.com/erraggy/apish/dslerrors"
	g "github.com/erraggy/apish/grammar"
	"github.com/erraggy/apish/internal/fileutil"
	"github.com/erraggy/apish/internal/options"
	"github.com/erraggy/apish/logger"
)

// Option is a function that configures a parse operation.
type Option func(*parseConfig) error

type parseConfig struct {
	source     fileutil.Source
	sourceName string
	maxSize    int64
	maxDepth   int
	log        logger.Logger
}

// ParseWithOptions parses a model document using functional options.
// Exactly one of WithFilePath, WithReader or WithBytes must be given.
//
// Example:
//
//	model, err := models.ParseWithOptions(
//	    models.WithFilePath("models.apish"),
//	    models.WithLogger(log),
//	)
func ParseWithOptions(opts ...Option) (*ProjectModel, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("models: invalid options: %w", err)
	}

	data, err := cfg.source.Read(cfg.maxSize)
	if err != nil {
		return nil, fmt.Errorf("models: %w", err)
	}
	name := cfg.sourceName
	if name == "" {
		name = cfg.source.Name("")
	}
	return parse(string(data), name, cfg.maxDepth, cfg.log)
}

// Parse parses a model document held in memory.
func Parse(data []byte) (*ProjectModel, error) {
	return ParseWithOptions(WithBytes(data))
}

func parse(src, name string, maxDepth int, log logger.Logger) (*ProjectModel, error) {
	log = logger.OrNop(log)
	tree, err := newGrammar().Parse(src, g.WithSource(name), g.WithMaxDepth(maxDepth))
	if err != nil {
		return nil, fmt.Errorf("models: %w", err)
	}
	model := newBuilder(log).build(tree)
	log.Debug("parsed model document", "source", name, "entities", len(model.Entities), "enums", len(model.Enums))
	return model, nil
}

func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{maxSize: fileutil.DefaultMaxDocumentSize, log: logger.NopLogger{}}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	err := options.ValidateSingleInputSource("models source",
		cfg.source.Path != "",
		cfg.source.Reader != nil,
		cfg.source.Bytes != nil,
	)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath reads the model document from a file.
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.source.Path = path
		return nil
	}
}

// WithReader reads the model document from r.
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		cfg.source.Reader = r
		return nil
	}
}

// WithBytes parses an in-memory model document.
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.source.Bytes = data
		return nil
	}
}

// WithSourceName names the document in syntax errors.
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		cfg.sourceName = name
		return nil
	}
}

// WithMaxDocumentSize limits the size of the document in bytes.
// A value of 0 disables the limit. Default: 10MB.
func WithMaxDocumentSize(size int64) Option {
	return func(cfg *parseConfig) error {
		if size < 0 {
			return &dslerrors.ConfigError{Option: "max document size", Value: size, Message: "must not be negative"}
		}
		cfg.maxSize = size
		return nil
	}
}

// WithMaxDepth bounds grammar nesting. Default: grammar.DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(cfg *parseConfig) error {
		if depth <= 0 {
			return &dslerrors.ConfigError{Option: "max depth", Value: depth, Message: "must be positive"}
		}
		cfg.maxDepth = depth
		return nil
	}
}

// WithLogger sets the logger. Default: logger.NopLogger.
func WithLogger(l logger.Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.log = logger.OrNop(l)
		return nil
	}
}
