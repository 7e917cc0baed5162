// Package stringutil provides token helpers shared by the DSL builders.
package stringutil

import (
	"regexp"
	"strconv"
	"strings"
)

var goIdentRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Normalize trims surrounding whitespace and removes at most one pair of
// enclosing double quotes. Inner whitespace is kept.
//
// Backslash escapes inside a quoted token are decoded with Go string
// literal rules. A token whose escapes are not valid Go escapes keeps its
// inner text verbatim.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	if strings.ContainsRune(s, '\\') {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s[1 : len(s)-1]
}

// NormalizeAll applies Normalize to every element, dropping empty results.
func NormalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if n := Normalize(item); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// IsGoIdentifier reports whether s can be used verbatim as a Go identifier.
func IsGoIdentifier(s string) bool {
	return goIdentRegex.MatchString(s)
}
