// Package severity provides the severity levels attached to build diagnostics.
//
// Levels are ordered from least to most severe: Info < Warning < Error.
// Diagnostics never fail a build on their own; callers decide what to do
// with an Error-level issue.
package severity

import "fmt"

// Severity indicates how much attention a diagnostic deserves.
type Severity int

const (
	// SeverityInfo marks a notice about a processing choice.
	SeverityInfo Severity = iota

	// SeverityWarning marks a reference that was dropped from the output.
	SeverityWarning

	// SeverityError marks input that could not be used at all, such as a
	// malformed examples document that was replaced by an empty bag.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so JSON and YAML output
// carry the level name instead of its ordinal.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("severity: unknown level %q", text)
	}
	return nil
}

// AtLeast reports whether s is as severe as min or more.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}
