package project

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/erraggy/apish/examples"
	g "github.com/erraggy/apish/grammar"
	"github.com/erraggy/apish/internal/issues"
	"github.com/erraggy/apish/internal/severity"
	"github.com/erraggy/apish/models"
)

// Result is the outcome of a successful build.
type Result struct {
	// Project is the resolved API document.
	Project *Project
	// Issues lists non-fatal problems: dropped references and unusable
	// optional inputs. A build with issues is still a successful build.
	Issues []issues.Issue
	// SourcePath is the API document's file path or source name.
	SourcePath string
	// BuildTime is the time spent reading, parsing and resolving.
	BuildTime time.Duration
}

// HasWarnings reports whether any issue is at least a warning.
func (r *Result) HasWarnings() bool {
	return issues.Count(r.Issues, severity.SeverityWarning) > 0
}

// BuildWithOptions runs the whole pipeline: model document, examples, then
// the API document resolved against both.
//
// The API source is mandatory. The model and examples are optional; a
// missing file counts as an empty document. A syntax error in either DSL
// document fails the build and no Project is returned.
//
// Example:
//
//	result, err := project.BuildWithOptions(
//	    project.WithAPIFile("api.apish"),
//	    project.WithModelFile("models.apish"),
//	    project.WithExamplesFile("examples.json"),
//	)
func BuildWithOptions(opts ...Option) (*Result, error) {
	start := time.Now()
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("project: invalid options: %w", err)
	}

	sourceName := cfg.sourceName
	if sourceName == "" {
		sourceName = cfg.api.Name("")
	}
	data, err := cfg.api.Read(cfg.maxSize)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	var loadIssues []issues.Issue
	model, err := cfg.loadModel()
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	bag, issue := cfg.loadExamples()
	if issue != nil {
		loadIssues = append(loadIssues, *issue)
	}

	tree, err := newGrammar().Parse(string(data), g.WithSource(sourceName), g.WithMaxDepth(cfg.maxDepth))
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	b := NewBuilder(cfg.log)
	b.source = sourceName
	newWalker(b).document(tree)
	p := b.Project()
	p.Models = model
	p.Examples = bag

	result := &Result{
		Project:    p,
		SourcePath: sourceName,
	}
	result.Issues = append(result.Issues, loadIssues...)
	result.Issues = append(result.Issues, b.Issues()...)
	result.Issues = append(result.Issues, p.Diagnose()...)
	result.BuildTime = time.Since(start)

	cfg.log.Debug("built project",
		"source", sourceName,
		"endpoints", len(p.Endpoints),
		"issues", len(result.Issues),
		"elapsed", result.BuildTime,
	)
	return result, nil
}

// Build builds a project from an in-memory API document alone.
func Build(api []byte) (*Project, error) {
	result, err := BuildWithOptions(WithAPIBytes(api))
	if err != nil {
		return nil, err
	}
	return result.Project, nil
}

func (cfg *buildConfig) loadModel() (*models.ProjectModel, error) {
	if cfg.hasModelVal {
		return cfg.modelValue, nil
	}
	if !cfg.model.IsSet() {
		return models.NewProjectModel(), nil
	}

	opts := []models.Option{models.WithLogger(cfg.log), models.WithMaxDocumentSize(cfg.maxSize)}
	if cfg.maxDepth > 0 {
		opts = append(opts, models.WithMaxDepth(cfg.maxDepth))
	}
	if cfg.model.Bytes != nil {
		opts = append(opts, models.WithBytes(cfg.model.Bytes))
	} else {
		opts = append(opts, models.WithFilePath(cfg.model.Path))
	}

	m, err := models.ParseWithOptions(opts...)
	if errors.Is(err, fs.ErrNotExist) {
		cfg.log.Info("model document not found, using an empty model", "path", cfg.model.Path)
		return models.NewProjectModel(), nil
	}
	return m, err
}

// loadExamples never fails: an unusable examples document becomes an
// empty bag and an error-level issue.
func (cfg *buildConfig) loadExamples() (examples.Bag, *issues.Issue) {
	if cfg.hasExamplesVal {
		return cfg.examplesValue, nil
	}
	if !cfg.examples.IsSet() {
		return examples.Bag{}, nil
	}

	var (
		bag  examples.Bag
		err  error
		file string
	)
	if cfg.examples.Bytes != nil {
		bag, err = examples.Parse(cfg.examples.Bytes, cfg.examplesFormat)
	} else {
		file = cfg.examples.Path
		bag, err = examples.ParseFile(file)
	}
	if err != nil {
		cfg.log.Warn("ignoring examples document", "path", file, "error", err)
		return examples.Bag{}, &issues.Issue{
			Path:     "examples",
			Message:  "examples document ignored: " + err.Error(),
			Severity: severity.SeverityError,
			File:     file,
			Cause:    err,
		}
	}
	return bag, nil
}
