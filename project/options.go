package project

import (
	"io"

	"github.com/erraggy/apish/dslerrors"
	"github.com/erraggy/apish/examples"
	"github.com/erraggy/apish/internal/fileutil"
	"github.com/erraggy/apish/internal/options"
	"github.com/erraggy/apish/logger"
	"github.com/erraggy/apish/models"
)

// Option is a function that configures a build.
type Option func(*buildConfig) error

type buildConfig struct {
	api        fileutil.Source
	sourceName string

	model       fileutil.Source
	modelValue  *models.ProjectModel
	hasModelVal bool

	examples       fileutil.Source
	examplesFormat examples.Format
	examplesValue  examples.Bag
	hasExamplesVal bool

	maxSize  int64
	maxDepth int
	log      logger.Logger
}

func applyOptions(opts ...Option) (*buildConfig, error) {
	cfg := &buildConfig{
		maxSize: fileutil.DefaultMaxDocumentSize,
		log:     logger.NopLogger{},
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource("api source",
		cfg.api.Path != "", cfg.api.Reader != nil, cfg.api.Bytes != nil,
	); err != nil {
		return nil, err
	}
	if err := options.ValidateOptionalInputSource("model source",
		cfg.model.Path != "", cfg.model.Bytes != nil, cfg.hasModelVal,
	); err != nil {
		return nil, err
	}
	if err := options.ValidateOptionalInputSource("examples source",
		cfg.examples.Path != "", cfg.examples.Bytes != nil, cfg.hasExamplesVal,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithAPIFile reads the API document from a file.
func WithAPIFile(path string) Option {
	return func(cfg *buildConfig) error {
		cfg.api.Path = path
		return nil
	}
}

// WithAPIBytes builds from an in-memory API document.
func WithAPIBytes(data []byte) Option {
	return func(cfg *buildConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.api.Bytes = data
		return nil
	}
}

// WithAPIReader reads the API document from r.
func WithAPIReader(r io.Reader) Option {
	return func(cfg *buildConfig) error {
		cfg.api.Reader = r
		return nil
	}
}

// WithSourceName names the API document in syntax errors and issues.
// Defaults to the file path, or "" for in-memory input.
func WithSourceName(name string) Option {
	return func(cfg *buildConfig) error {
		cfg.sourceName = name
		return nil
	}
}

// WithModelFile reads the model document from a file. A missing file is
// treated as an empty model document.
func WithModelFile(path string) Option {
	return func(cfg *buildConfig) error {
		cfg.model.Path = path
		return nil
	}
}

// WithModelBytes parses an in-memory model document.
func WithModelBytes(data []byte) Option {
	return func(cfg *buildConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.model.Bytes = data
		return nil
	}
}

// WithModels uses an already parsed model.
func WithModels(m *models.ProjectModel) Option {
	return func(cfg *buildConfig) error {
		if m == nil {
			return &dslerrors.ConfigError{Option: "models", Message: "model must not be nil"}
		}
		cfg.modelValue = m
		cfg.hasModelVal = true
		return nil
	}
}

// WithExamplesFile reads the examples document from a file. The format
// follows the extension (.json, .yaml, .yml) or the content. A missing
// file is treated as an empty bag.
func WithExamplesFile(path string) Option {
	return func(cfg *buildConfig) error {
		cfg.examples.Path = path
		return nil
	}
}

// WithExamplesBytes decodes an in-memory examples document.
func WithExamplesBytes(data []byte, format examples.Format) Option {
	return func(cfg *buildConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.examples.Bytes = data
		cfg.examplesFormat = format
		return nil
	}
}

// WithExamples uses an already loaded bag.
func WithExamples(bag examples.Bag) Option {
	return func(cfg *buildConfig) error {
		if bag == nil {
			bag = examples.Bag{}
		}
		cfg.examplesValue = bag
		cfg.hasExamplesVal = true
		return nil
	}
}

// WithMaxDocumentSize limits every input document to size bytes.
// A value of 0 disables the limit. Default: 10MB.
func WithMaxDocumentSize(size int64) Option {
	return func(cfg *buildConfig) error {
		if size < 0 {
			return &dslerrors.ConfigError{Option: "max document size", Value: size, Message: "must not be negative"}
		}
		cfg.maxSize = size
		return nil
	}
}

// WithMaxDepth bounds grammar nesting. Default: grammar.DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(cfg *buildConfig) error {
		if depth <= 0 {
			return &dslerrors.ConfigError{Option: "max depth", Value: depth, Message: "must be positive"}
		}
		cfg.maxDepth = depth
		return nil
	}
}

// WithLogger sets the logger. Default: logger.NopLogger.
func WithLogger(l logger.Logger) Option {
	return func(cfg *buildConfig) error {
		cfg.log = logger.OrNop(l)
		return nil
	}
}
