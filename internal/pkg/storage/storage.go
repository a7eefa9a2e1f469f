package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned by Get when nothing is stored at the path.
var ErrObjectNotFound = errors.New("object not found")

// Storage stores opaque blobs under relative, slash-separated paths.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	// Get returns the content at path. The caller closes the reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes path. Deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error
}
