// Package issues provides the diagnostic type reported alongside a build.
package issues

import (
	"fmt"

	"github.com/erraggy/apish/internal/severity"
)

// Issue is a single non-fatal problem found while building a document.
type Issue struct {
	// Path locates the construct in the resolved output (e.g., "apis./pets.get.headers")
	Path string `json:"path" yaml:"path"`
	// Message is a human-readable description of the issue
	Message string `json:"message" yaml:"message"`
	// Severity indicates the severity level of the issue
	Severity severity.Severity `json:"severity" yaml:"severity"`
	// Line is the 1-based line number in the source file (0 if unknown)
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
	// Column is the 1-based column number in the source file (0 if unknown)
	Column int `json:"column,omitempty" yaml:"column,omitempty"`
	// File is the source file path (empty for in-memory input)
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	// Cause is the typed error behind the issue, usually a *dslerrors.ReferenceError
	Cause error `json:"-" yaml:"-"`
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	if i.Line > 0 {
		return fmt.Sprintf("%s %s (%s): %s", symbol, i.Path, i.Location(), i.Message)
	}
	return fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
}

// Location returns the source location in IDE-friendly format.
// Returns "file:line:column" if file is set, "line:column" if only line is set,
// or the path if location is unknown.
func (i Issue) Location() string {
	if i.Line == 0 {
		return i.Path
	}
	if i.File != "" {
		return fmt.Sprintf("%s:%d:%d", i.File, i.Line, i.Column)
	}
	return fmt.Sprintf("%d:%d", i.Line, i.Column)
}

// HasLocation returns true if this issue has source location information.
func (i Issue) HasLocation() bool {
	return i.Line > 0
}

// Unwrap returns the underlying cause so callers can use errors.As on it.
func (i Issue) Unwrap() error {
	return i.Cause
}

// Count returns how many issues are at least as severe as min.
func Count(list []Issue, min severity.Severity) int {
	n := 0
	for _, i := range list {
		if i.Severity.AtLeast(min) {
			n++
		}
	}
	return n
}
