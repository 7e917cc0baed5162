// Package options provides shared utilities for option validation across packages.
package options

import "github.com/erraggy/apish/dslerrors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// option names the input in the returned *dslerrors.ConfigError; sources is a
// list of booleans indicating whether each source is set.
func ValidateSingleInputSource(option string, sources ...bool) error {
	sourceCount := 0
	for _, hasSource := range sources {
		if hasSource {
			sourceCount++
		}
	}

	switch {
	case sourceCount == 0:
		return &dslerrors.ConfigError{Option: option, Message: "no input source specified"}
	case sourceCount > 1:
		return &dslerrors.ConfigError{Option: option, Value: sourceCount, Message: "only one input source may be specified"}
	}
	return nil
}

// ValidateOptionalInputSource allows zero or one input source.
func ValidateOptionalInputSource(option string, sources ...bool) error {
	for _, s := range sources {
		if !s {
			continue
		}
		return ValidateSingleInputSource(option, sources...)
	}
	return nil
}
