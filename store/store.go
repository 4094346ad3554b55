package store

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrInvalidPath = errors.New("invalid document path")
)

// Store is a key-addressed document store over a JSON tree. Paths are
// slash-separated; a path addresses either a whole document or any nested
// field of one. Each call is applied atomically by the backend, but no
// atomicity is guaranteed across calls.
type Store interface {
	// Read unmarshals the document at path into dst. Returns ErrNotFound
	// when nothing exists at or under the path.
	Read(ctx context.Context, path string, dst interface{}) error

	// Write fully replaces the document at path.
	Write(ctx context.Context, path string, doc interface{}) error

	// Patch shallow-merges fields into the document at path: every listed
	// field is replaced wholesale, unlisted fields are untouched.
	Patch(ctx context.Context, path string, fields map[string]interface{}) error

	// Append stores doc under a freshly generated child key of path and
	// returns that key.
	Append(ctx context.Context, path string, doc interface{}) (string, error)

	// Delete removes the document at path. Deleting a missing path is not
	// an error.
	Delete(ctx context.Context, path string) error
}

// splitPath normalizes a path into its non-empty segments.
func splitPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, ErrInvalidPath
	}
	segs := strings.Split(trimmed, "/")
	for _, s := range segs {
		if s == "" {
			return nil, ErrInvalidPath
		}
	}
	return segs, nil
}

func joinPath(segs []string) string {
	return strings.Join(segs, "/")
}
