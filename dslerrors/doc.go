// Package dslerrors provides structured error types for apish.
//
// Import path: github.com/erraggy/apish/dslerrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to tell a broken document apart from a broken invocation.
//
// # Error Types
//
//   - [SyntaxError]: a document did not match its grammar; the build is aborted
//   - [ReferenceError]: a name, alias, group, status code, example or model reference
//     resolved to nothing; only ever carried by diagnostics, never returned
//   - [ResourceLimitError]: document size or grammar nesting limits were exceeded
//   - [ConfigError]: invalid options or missing mandatory inputs
//
// # Sentinel Errors
//
//   - [ErrSyntax]: Matches any [SyntaxError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
//	result, err := project.BuildWithOptions(project.WithAPIFile("api.apish"))
//	if errors.Is(err, dslerrors.ErrSyntax) {
//	    // The document is malformed; wait for the next edit
//	}
//
//	var syntaxErr *dslerrors.SyntaxError
//	if errors.As(err, &syntaxErr) {
//	    fmt.Printf("%d:%d: %s\n", syntaxErr.Line, syntaxErr.Column, syntaxErr.Rule)
//	}
package dslerrors
