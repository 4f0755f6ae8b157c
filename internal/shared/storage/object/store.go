package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
// Keys are bucket-relative object names; URI renders them as scheme://bucket/key.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	URI(key string) string
	Scheme() string
	Bucket() string
}

// Reason classifies storage failures.
type Reason string

const (
	ReasonWriteFailed  Reason = "write_failed"
	ReasonReadFailed   Reason = "read_failed"
	ReasonDeleteFailed Reason = "delete_failed"
	ReasonNotFound     Reason = "object_not_found"
	ReasonInvalidKey   Reason = "invalid_key"
)

// Error is returned by every ObjectStore implementation.
type Error struct {
	Reason Reason
	Op     string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage %s key=%s: %s", e.Op, e.Key, e.Reason)
	}
	return fmt.Sprintf("storage %s key=%s: %s: %v", e.Op, e.Key, e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int { return 500 }

func (e *Error) Code() string { return "storage_" + string(e.Reason) }

func (e *Error) PublicMessage() string {
	switch e.Reason {
	case ReasonNotFound:
		return "Stored file not found"
	case ReasonDeleteFailed:
		return "Failed to delete stored file"
	case ReasonReadFailed:
		return "Failed to read stored file"
	default:
		return "Failed to store file"
	}
}

// Fail wraps err as a storage Error.
func Fail(reason Reason, op, key string, err error) error {
	return &Error{Reason: reason, Op: op, Key: key, Err: err}
}

// AsError extracts a storage Error from err.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ParseURI splits scheme://bucket/key.
func ParseURI(uri string) (scheme, bucket, key string, err error) {
	raw := strings.TrimSpace(uri)
	idx := strings.Index(raw, "://")
	if idx <= 0 {
		return "", "", "", fmt.Errorf("invalid storage uri %q", uri)
	}
	scheme = raw[:idx]
	rest := raw[idx+3:]
	slash := strings.Index(rest, "/")
	if slash <= 0 || slash == len(rest)-1 {
		return "", "", "", fmt.Errorf("invalid storage uri %q", uri)
	}
	return scheme, rest[:slash], rest[slash+1:], nil
}

// KeyFromURI returns the object key if uri belongs to store.
func KeyFromURI(store ObjectStore, uri string) (string, error) {
	scheme, bucket, key, err := ParseURI(uri)
	if err != nil {
		return "", err
	}
	if scheme != store.Scheme() || bucket != store.Bucket() {
		return "", fmt.Errorf("storage uri %q is outside %s://%s", uri, store.Scheme(), store.Bucket())
	}
	return key, nil
}

// FormatURI renders scheme://bucket/key.
func FormatURI(scheme, bucket, key string) string {
	return scheme + "://" + bucket + "/" + strings.TrimLeft(key, "/")
}

// ApplyPrefix joins an optional prefix and a key with a single slash.
func ApplyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(strings.TrimSpace(prefix), "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}
