// Package fileutil reads DSL inputs and holds the permission modes used for
// generated output.
package fileutil

import (
	"fmt"
	"io"
	"os"

	"github.com/erraggy/apish/dslerrors"
)

// OwnerReadWrite is the file permission mode for generated documents
// (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for generated source code
// files intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644

// DefaultMaxDocumentSize is the default upper bound for a single input
// document (10MB).
const DefaultMaxDocumentSize int64 = 10 * 1024 * 1024

// Source is one input document. Exactly one of Path, Reader or Bytes is
// expected to be set; Bytes wins over Reader, Reader over Path.
type Source struct {
	Path   string
	Reader io.Reader
	Bytes  []byte
}

// IsSet reports whether any input was supplied.
func (s Source) IsSet() bool {
	return s.Path != "" || s.Reader != nil || s.Bytes != nil
}

// Read returns the document bytes, enforcing maxSize when it is > 0.
func (s Source) Read(maxSize int64) ([]byte, error) {
	var data []byte
	switch {
	case s.Bytes != nil:
		data = s.Bytes
	case s.Reader != nil:
		r := s.Reader
		if maxSize > 0 {
			r = io.LimitReader(r, maxSize+1)
		}
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("fileutil: failed to read data: %w", err)
		}
		data = b
	case s.Path != "":
		if maxSize > 0 {
			if info, err := os.Stat(s.Path); err == nil && info.Size() > maxSize {
				return nil, sizeError(maxSize, info.Size())
			}
		}
		b, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("fileutil: failed to read file: %w", err)
		}
		data = b
	default:
		return nil, &dslerrors.ConfigError{Option: "source", Message: "no input supplied"}
	}

	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, sizeError(maxSize, int64(len(data)))
	}
	return data, nil
}

// Name returns a label for the source in errors: the path when reading a
// file, otherwise fallback.
func (s Source) Name(fallback string) string {
	if s.Bytes == nil && s.Reader == nil && s.Path != "" {
		return s.Path
	}
	return fallback
}

func sizeError(limit, actual int64) error {
	return &dslerrors.ResourceLimitError{
		ResourceType: "document_size",
		Limit:        limit,
		Actual:       actual,
	}
}
