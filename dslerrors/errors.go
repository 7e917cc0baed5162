package dslerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrSyntax indicates a document did not match its grammar.
	ErrSyntax = errors.New("syntax error")

	// ErrReference indicates a reference could not be resolved.
	ErrReference = errors.New("reference error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// SyntaxError represents a failure to match a document against its grammar.
// The whole build for that document is aborted; no partial result exists.
type SyntaxError struct {
	// Source is the file path or source identifier (empty for in-memory input)
	Source string
	// Line is the 1-based line of the deepest failure
	Line int
	// Column is the 1-based column of the deepest failure
	Column int
	// Offset is the 0-based byte offset of the deepest failure
	Offset int
	// Rule is the innermost named grammar rule being matched at the failure
	Rule string
	// Expected lists what the grammar would have accepted at the failure
	Expected []string
	// Found is a short excerpt of the input at the failure ("" at end of input)
	Found string
}

// Error returns a human-readable error message.
func (e *SyntaxError) Error() string {
	msg := "syntax error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Rule != "" {
		msg += ": invalid " + e.Rule
	}
	if len(e.Expected) > 0 {
		msg += ": expected " + strings.Join(e.Expected, " or ")
	}
	if e.Found != "" {
		msg += fmt.Sprintf(", found %q", e.Found)
	} else if e.Line > 0 {
		msg += ", found end of input"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// ReferenceError describes a reference that resolved to nothing.
// It is never returned by a build; it is attached to diagnostics so tooling
// can tell which name was dropped.
type ReferenceError struct {
	// Kind is the reference kind: "header", "query", "param", "group",
	// "status_code", "example" or "model"
	Kind string
	// Name is the reference token as written in the document
	Name string
	// Section is the catalog or group section that was searched
	Section string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.Kind != "" {
		msg += ": unresolved " + e.Kind
	}
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Section != "" {
		msg += " in " + e.Section
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// ResourceLimitError represents a resource exhaustion condition.
// This occurs when a document exceeds the configured size or nesting limits.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "document_size", "rule_depth"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
