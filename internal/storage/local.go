package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ErrS3NotConfigured is returned when S3 operations are attempted
// without proper configuration.
var ErrS3NotConfigured = errors.New("S3 storage is not configured")

// LocalStorage implements the Storage interface using local disk.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates a new LocalStorage rooted at dir.
// If dir is empty, a "jobsync" directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "jobsync")
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}

	return &LocalStorage{dir: dir}, nil
}

// Dir returns the snapshot directory path.
func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save writes data to a temporary file and renames it to name.
func (s *LocalStorage) Save(ctx context.Context, name string, data io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	f, err := os.CreateTemp(s.dir, "."+name+"_*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	tmp := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("rename snapshot: %w", err)
	}
	return path, nil
}

// Load opens the document saved under name.
func (s *LocalStorage) Load(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	f, err := os.Open(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	return f, nil
}

// Prune removes the oldest files matching pattern beyond keep.
// Names are expected to sort chronologically.
// It continues even if some files fail to delete, returning the first error.
func (s *LocalStorage) Prune(ctx context.Context, pattern string, keep int) error {
	matches, err := filepath.Glob(filepath.Join(s.dir, pattern))
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if keep < 0 {
		keep = 0
	}
	if len(matches) <= keep {
		return nil
	}
	sort.Strings(matches)

	var firstErr error
	for _, p := range matches[:len(matches)-keep] {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled: %w", err)
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove snapshot %s: %w", p, err)
			}
		}
	}
	return firstErr
}

// UploadToS3 is not supported by LocalStorage and returns ErrS3NotConfigured.
func (s *LocalStorage) UploadToS3(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", ErrS3NotConfigured
}
