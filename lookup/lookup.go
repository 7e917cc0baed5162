// Package lookup holds the built-in fallback tables: HTTP status reasons
// and MIME shorthand tokens.
//
// Both tables are read-only. Lookups are case-sensitive and trim their
// input before comparing.
package lookup

import (
	"slices"
	"strings"
)

var statusTexts = map[int]string{
	200: "Ok",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	408: "Request Timeout",
	413: "Payload Too Large",
	415: "Unsupported Media Type",
	417: "Expectation Failed",
	418: "I'm a teapot",
	424: "Failed Dependency",
	429: "Too Many Requests",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
}

var mimeTypes = map[string]string{
	"json":       "application/json",
	"xml":        "application/xml",
	"text":       "text/plain",
	"css":        "text/css",
	"html":       "text/html",
	"javascript": "application/javascript",
	"js":         "application/javascript",
	"multipart":  "multipart/form-data",
	"binary":     "application/octet-stream",
	"mp4":        "video/mp4",
	"jpg":        "image/jpeg",
	"png":        "image/png",
	"svg":        "image/svg+xml",
}

// StatusText returns the built-in reason phrase for code.
func StatusText(code int) (string, bool) {
	text, ok := statusTexts[code]
	return text, ok
}

// StatusCodes returns every code in the built-in table, ascending.
func StatusCodes() []int {
	codes := make([]int, 0, len(statusTexts))
	for code := range statusTexts {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// MIMEType returns the media type for a shorthand token.
func MIMEType(token string) (string, bool) {
	mime, ok := mimeTypes[strings.TrimSpace(token)]
	return mime, ok
}

// ExpandMIME returns the media type for token, or the trimmed token itself
// when it is not a known shorthand.
func ExpandMIME(token string) string {
	token = strings.TrimSpace(token)
	if mime, ok := mimeTypes[token]; ok {
		return mime
	}
	return token
}

// ExpandMIMEList applies ExpandMIME to each token, keeping order and
// dropping tokens that are empty after trimming.
func ExpandMIMEList(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if m := ExpandMIME(t); m != "" {
			out = append(out, m)
		}
	}
	return out
}
