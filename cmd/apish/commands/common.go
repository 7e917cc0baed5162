// Package commands provides CLI command handlers for apish.
package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/erraggy/apish/internal/config"
	"github.com/erraggy/apish/internal/issues"
	"github.com/erraggy/apish/logger"
	"github.com/erraggy/apish/project"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Stdout and Stderr are the command output streams. Tests replace them.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string, allowed ...string) error {
	if len(allowed) == 0 {
		allowed = []string{FormatText, FormatJSON, FormatYAML}
	}
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("invalid format '%s'. Valid formats: %v", format, allowed)
}

// ValidateOutputPath checks that outputPath does not overwrite one of the
// inputs and is not a symlink.
func ValidateOutputPath(outputPath string, inputPaths []string) (string, error) {
	absOutputPath, err := filepath.Abs(filepath.Clean(outputPath))
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	for _, inputPath := range inputPaths {
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return "", fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if absOutputPath == absInputPath {
			return "", fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}
	if err := RejectSymlinkOutput(absOutputPath); err != nil {
		return "", err
	}
	return absOutputPath, nil
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("commands: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("commands: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}

// WriteOutput writes data to path, or to Stdout when path is empty.
func WriteOutput(path string, data []byte, perm os.FileMode) error {
	if path == "" {
		if _, err := Stdout.Write(data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ProjectFlags are the flags shared by every command that reads documents.
type ProjectFlags struct {
	Config   string
	Models   string
	Examples string
	Verbose  bool
}

// Register binds the shared flags to fs.
func (pf *ProjectFlags) Register(fs *flag.FlagSet) {
	fs.StringVar(&pf.Config, "config", config.DefaultFile, "project file; a missing default file is ignored")
	fs.StringVar(&pf.Models, "m", "", "model document (overrides the project file)")
	fs.StringVar(&pf.Models, "models", "", "model document (overrides the project file)")
	fs.StringVar(&pf.Examples, "e", "", "examples bag, JSON or YAML (overrides the project file)")
	fs.StringVar(&pf.Examples, "examples", "", "examples bag, JSON or YAML (overrides the project file)")
	fs.BoolVar(&pf.Verbose, "v", false, "verbose (debug) logging")
}

// Load reads the project file, applies APISH_* overrides, then the
// command-line flags. The positional argument, if any, is the API document.
func (pf *ProjectFlags) Load(args []string) (*config.Project, logger.Logger, error) {
	log := NewLogger(Stderr, pf.Verbose)

	if len(args) > 1 {
		return nil, nil, fmt.Errorf("expected at most one API document, got %d", len(args))
	}
	var api string
	if len(args) == 1 {
		api = args[0]
	}

	var (
		p   *config.Project
		err error
	)
	if pf.Config == config.DefaultFile {
		p, err = config.LoadOptional(pf.Config)
	} else {
		p, err = config.Load(pf.Config)
	}
	if err != nil {
		return nil, nil, err
	}
	p.ApplyEnv(log)

	// Flag paths are relative to the working directory, not the project file.
	set := func(dst *string, v string) error {
		if v == "" {
			return nil
		}
		abs, err := filepath.Abs(v)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", v, err)
		}
		*dst = abs
		return nil
	}
	if err := set(&p.API, api); err != nil {
		return nil, nil, err
	}
	if err := set(&p.Models, pf.Models); err != nil {
		return nil, nil, err
	}
	if err := set(&p.Examples, pf.Examples); err != nil {
		return nil, nil, err
	}

	log.Debug("loaded project configuration", "config", pf.Config, "api", p.API, "models", p.Models, "examples", p.Examples)
	return p, log, nil
}

// ErrNoAPI is returned when neither an argument nor the project file names
// an API document.
var ErrNoAPI = errors.New("no API document: pass a file or set 'api' in " + config.DefaultFile)

// BuildOptions translates a loaded project into project build options.
func BuildOptions(p *config.Project, log logger.Logger) ([]project.Option, error) {
	if p.API == "" {
		return nil, ErrNoAPI
	}
	opts := []project.Option{
		project.WithAPIFile(p.Path(p.API)),
		project.WithMaxDocumentSize(p.MaxDocumentSize),
		project.WithLogger(log),
	}
	if p.Models != "" {
		opts = append(opts, project.WithModelFile(p.Path(p.Models)))
	}
	if p.Examples != "" {
		opts = append(opts, project.WithExamplesFile(p.Path(p.Examples)))
	}
	return opts, nil
}

// Build compiles the configured documents.
func Build(p *config.Project, log logger.Logger) (*project.Result, error) {
	opts, err := BuildOptions(p, log)
	if err != nil {
		return nil, err
	}
	return project.BuildWithOptions(opts...)
}

// Writef writes formatted output to w. A failed write is reported once on
// Stderr, unless w is Stderr itself.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil && w != Stderr {
		_, _ = fmt.Fprintf(Stderr, "write error: %v\n", err)
	}
}

// PrintIssues writes one line per issue to w.
func PrintIssues(w io.Writer, list []issues.Issue) {
	for _, issue := range list {
		Writef(w, "%s\n", issue.String())
	}
}

// parseArgs parses args into fs, treating -h as success.
func parseArgs(fs *flag.FlagSet, args []string) (help bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}
