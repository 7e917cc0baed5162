// Package config loads the apish project file and applies APISH_*
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/apish/dslerrors"
	"github.com/erraggy/apish/internal/fileutil"
	"github.com/erraggy/apish/internal/stringutil"
	"github.com/erraggy/apish/logger"
)

// DefaultFile is the project file looked up in the working directory when
// no -config flag is given.
const DefaultFile = "apish.yaml"

// Project is the content of an apish.yaml file.
//
//	api: api.apish
//	models: models.apish
//	examples: examples.json
//	openapi:
//	  servers:
//	    - url: https://api.example.com
//	gotypes:
//	  package: petstore
//	watch:
//	  debounce: 200ms
//	serve:
//	  addr: 127.0.0.1:8080
type Project struct {
	API             string `yaml:"api"`
	Models          string `yaml:"models,omitempty"`
	Examples        string `yaml:"examples,omitempty"`
	MaxDocumentSize int64  `yaml:"max_document_size,omitempty"`

	OpenAPI OpenAPI `yaml:"openapi,omitempty"`
	GoTypes GoTypes `yaml:"gotypes,omitempty"`
	Watch   Watch   `yaml:"watch,omitempty"`
	Serve   Serve   `yaml:"serve,omitempty"`

	// dir is the directory of the loaded file; relative paths resolve
	// against it.
	dir string
}

// OpenAPI configures the openapi command and the preview server.
type OpenAPI struct {
	Servers []Server `yaml:"servers,omitempty"`
	// DeriveOperationIDs defaults to true when unset.
	DeriveOperationIDs *bool `yaml:"derive_operation_ids,omitempty"`
}

// Server is one entry of the OpenAPI servers list.
type Server struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
}

// GoTypes configures the gotypes command.
type GoTypes struct {
	Package string `yaml:"package,omitempty"`
	Output  string `yaml:"output,omitempty"`
}

// Watch configures the watch and serve commands.
type Watch struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
}

// Serve configures the preview server.
type Serve struct {
	Addr string `yaml:"addr,omitempty"`
}

// Defaults used when neither the file nor the environment sets a value.
const (
	DefaultPackage  = "models"
	DefaultAddr     = "127.0.0.1:8080"
	DefaultDebounce = 100 * time.Millisecond
)

// Default returns a Project with every default filled in.
func Default() *Project {
	return &Project{
		MaxDocumentSize: fileutil.DefaultMaxDocumentSize,
		GoTypes:         GoTypes{Package: DefaultPackage},
		Watch:           Watch{Debounce: DefaultDebounce},
		Serve:           Serve{Addr: DefaultAddr},
	}
}

// Load reads the project file at path. Unset values keep their defaults.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		p.dir = filepath.Dir(abs)
	}
	return p, nil
}

// LoadOptional is Load, except that a missing file yields Default().
func LoadOptional(path string) (*Project, error) {
	p, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return p, err
}

// Parse decodes a project file from memory and validates it.
func Parse(data []byte) (*Project, error) {
	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, &dslerrors.ConfigError{Option: "config", Message: "invalid project file", Cause: err}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate reports the first invalid value.
func (p *Project) Validate() error {
	switch {
	case p.MaxDocumentSize < 0:
		return &dslerrors.ConfigError{Option: "max_document_size", Value: p.MaxDocumentSize, Message: "must not be negative"}
	case p.GoTypes.Package != "" && (!stringutil.IsGoIdentifier(p.GoTypes.Package) || p.GoTypes.Package == "_"):
		return &dslerrors.ConfigError{Option: "gotypes.package", Value: p.GoTypes.Package, Message: "not a valid Go package name"}
	case p.Watch.Debounce < 0:
		return &dslerrors.ConfigError{Option: "watch.debounce", Value: p.Watch.Debounce, Message: "must not be negative"}
	case p.Watch.Timeout < 0:
		return &dslerrors.ConfigError{Option: "watch.timeout", Value: p.Watch.Timeout, Message: "must not be negative"}
	}
	for i, s := range p.OpenAPI.Servers {
		if strings.TrimSpace(s.URL) == "" {
			return &dslerrors.ConfigError{Option: fmt.Sprintf("openapi.servers[%d].url", i), Message: "must not be empty"}
		}
	}
	return nil
}

// DeriveOperationIDs reports whether missing operation ids are derived.
func (p *Project) DeriveOperationIDs() bool {
	return p.OpenAPI.DeriveOperationIDs == nil || *p.OpenAPI.DeriveOperationIDs
}

// Path resolves name against the directory of the loaded project file.
// Empty and absolute names are returned unchanged.
func (p *Project) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || p.dir == "" {
		return name
	}
	return filepath.Join(p.dir, name)
}

// Inputs returns the resolved paths of the configured input files, API
// first. Unset inputs are skipped.
func (p *Project) Inputs() []string {
	var out []string
	for _, name := range []string{p.API, p.Models, p.Examples} {
		if name != "" {
			out = append(out, p.Path(name))
		}
	}
	return out
}

// ApplyEnv overrides fields from APISH_* environment variables. Invalid
// values are logged and ignored.
func (p *Project) ApplyEnv(log logger.Logger) {
	log = logger.OrNop(log)
	p.API = envString("APISH_API", p.API)
	p.Models = envString("APISH_MODELS", p.Models)
	p.Examples = envString("APISH_EXAMPLES", p.Examples)
	p.MaxDocumentSize = envInt64(log, "APISH_MAX_DOCUMENT_SIZE", p.MaxDocumentSize)
	p.GoTypes.Package = envString("APISH_PACKAGE", p.GoTypes.Package)
	p.Watch.Debounce = envDuration(log, "APISH_DEBOUNCE", p.Watch.Debounce)
	p.Watch.Timeout = envDuration(log, "APISH_TIMEOUT", p.Watch.Timeout)
	p.Serve.Addr = envString("APISH_ADDR", p.Serve.Addr)
	if v, ok := envBool(log, "APISH_DERIVE_OPERATION_IDS"); ok {
		p.OpenAPI.DeriveOperationIDs = &v
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(log logger.Logger, key string) (value, ok bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn("invalid bool env var, ignoring", "key", key, "value", v)
		return false, false
	}
	return b, true
}

func envInt64(log logger.Logger, key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(log logger.Logger, key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
