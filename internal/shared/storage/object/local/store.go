package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/object"
)

const (
	scheme        = "local"
	defaultBucket = "local"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
	bucket  string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, bucket: defaultBucket}
}

// Put writes the reader to disk at key. The file is written to a temp name
// and renamed so readers never observe a partial object.
func (s *Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error) {
	_ = contentType
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return 0, object.Fail(object.ReasonInvalidKey, "put", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, object.Fail(object.ReasonWriteFailed, "put", key, fmt.Errorf("mkdir: %w", err))
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return 0, object.Fail(object.ReasonWriteFailed, "put", key, fmt.Errorf("create temp: %w", err))
	}
	written, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		return 0, object.Fail(object.ReasonWriteFailed, "put", key, errors.Join(copyErr, closeErr))
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, object.Fail(object.ReasonWriteFailed, "put", key, fmt.Errorf("rename: %w", err))
	}
	return written, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, object.Fail(object.ReasonInvalidKey, "open", key, err)
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, object.Fail(object.ReasonNotFound, "open", key, err)
		}
		return nil, object.Fail(object.ReasonReadFailed, "open", key, err)
	}
	return f, nil
}

// Delete removes a stored object.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return object.Fail(object.ReasonInvalidKey, "delete", key, err)
	}
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return object.Fail(object.ReasonNotFound, "delete", key, err)
		}
		return object.Fail(object.ReasonDeleteFailed, "delete", key, err)
	}
	return nil
}

// URI renders local://local/<key>.
func (s *Store) URI(key string) string {
	return object.FormatURI(scheme, s.bucket, key)
}

func (s *Store) Scheme() string { return scheme }

func (s *Store) Bucket() string { return s.bucket }

func (s *Store) resolve(key string) (string, error) {
	clean := filepath.Clean(key)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.ObjectStore = (*Store)(nil)
