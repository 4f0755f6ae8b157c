package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/object"
)

const scheme = "gs"

// Store implements ObjectStore on a Google Cloud Storage bucket.
type Store struct {
	client *storage.Client
	bucket string
}

// New dials GCS. opts usually carry the service account credentials.
func New(ctx context.Context, bucket string, opts ...option.ClientOption) (*Store, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Store{client: client, bucket: bucket}, nil
}

// Put streams r into the bucket. The object is committed on writer Close.
func (s *Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(key) == "" {
		return 0, object.Fail(object.ReasonInvalidKey, "put", key, nil)
	}

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return 0, object.Fail(object.ReasonWriteFailed, "put", key, err)
	}
	if err := w.Close(); err != nil {
		return 0, object.Fail(object.ReasonWriteFailed, "put", key, err)
	}
	return n, nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, object.Fail(object.ReasonNotFound, "open", key, err)
		}
		return nil, object.Fail(object.ReasonReadFailed, "open", key, err)
	}
	return rc, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Bucket(s.bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return object.Fail(object.ReasonNotFound, "delete", key, err)
		}
		return object.Fail(object.ReasonDeleteFailed, "delete", key, err)
	}
	return nil
}

// URI renders gs://<bucket>/<key>, the form Document AI accepts.
func (s *Store) URI(key string) string {
	return object.FormatURI(scheme, s.bucket, key)
}

func (s *Store) Scheme() string { return scheme }

func (s *Store) Bucket() string { return s.bucket }

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ object.ObjectStore = (*Store)(nil)
