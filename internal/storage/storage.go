// Package storage persists job snapshots. LocalStorage writes them to a
// directory; S3Storage additionally uploads them to a bucket.
package storage

import (
	"context"
	"io"
)

// Storage defines where snapshot documents are written.
type Storage interface {
	// Save writes data under name and returns the resulting path.
	// An existing file with the same name is replaced atomically.
	Save(ctx context.Context, name string, data io.Reader) (path string, err error)

	// Load opens a previously saved document.
	// The caller is responsible for closing the returned ReadCloser.
	Load(ctx context.Context, name string) (io.ReadCloser, error)

	// Prune removes the oldest documents matching pattern so that at most
	// keep remain.
	Prune(ctx context.Context, pattern string, keep int) error

	// UploadToS3 uploads data to S3 and returns the object URL.
	// Returns ErrS3NotConfigured if S3 is not configured.
	UploadToS3(ctx context.Context, key string, data io.Reader) (url string, err error)
}
