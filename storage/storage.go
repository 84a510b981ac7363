package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned (wrapped) when an object does not exist.
var ErrNotFound = errors.New("storage: object not found")

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Storage is an object store for media files.
type Storage interface {
	// Upload writes data from reader to key. contentType may be empty.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Download returns a reader for the object at key. The caller closes it.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object at key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object exists at key.
	Exists(ctx context.Context, key string) (bool, error)

	// URI returns the location the transcription service reads, such as
	// s3://bucket/key.
	URI(key string) string

	// List returns metadata for all objects whose key starts with prefix,
	// sorted by key.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}

// SignedURLProvider is implemented by backends that can issue time-limited
// HTTPS URLs for private objects.
type SignedURLProvider interface {
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
