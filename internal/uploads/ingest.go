// Package uploads validates incoming files and writes them to blob storage.
package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
	"github.com/Smith-Faldu/legal-lens/internal/shared/metrics"
	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/object"
	"github.com/Smith-Faldu/legal-lens/internal/shared/telemetry"
	"github.com/Smith-Faldu/legal-lens/internal/shared/util"
)

// DefaultMaxBytes is the upload ceiling.
const DefaultMaxBytes int64 = 50 << 20

var allowedMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/jpg":       {},
	"image/png":       {},
	"image/gif":       {},
	"image/tiff":      {},
	"image/bmp":       {},
	"image/webp":      {},
}

var (
	errInvalidType = apperr.Validation("Invalid file type. Only PDF and image files are allowed")
	// ErrFileTooLarge rejects uploads over the configured ceiling.
	ErrFileTooLarge = apperr.Validation("File size too large")
)

// Upload is a file received from a client.
type Upload struct {
	FileName string
	MimeType string
	Size     int64
	Body     io.Reader
}

// Stored describes an accepted upload after it was written.
type Stored struct {
	Key       string
	URI       string
	FileName  string
	MimeType  string
	SizeBytes int64
	Data      []byte
}

// Ingestor validates uploads and writes them to Store.
type Ingestor struct {
	Store    object.ObjectStore
	Prefix   string
	MaxBytes int64

	now   func() time.Time
	newID func() string
}

// NewIngestor builds an Ingestor. maxBytes <= 0 uses DefaultMaxBytes.
func NewIngestor(store object.ObjectStore, prefix string, maxBytes int64) *Ingestor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Ingestor{
		Store:    store,
		Prefix:   prefix,
		MaxBytes: maxBytes,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Ingest validates u and writes it with a single Put. Nothing is written
// when validation fails.
func (i *Ingestor) Ingest(ctx context.Context, u Upload) (Stored, error) {
	stored, err := i.ingest(ctx, u)
	if err != nil {
		if apperr.IsValidation(err) {
			metrics.IncUploadRejected()
		}
		return Stored{}, err
	}
	metrics.IncUploadAccepted()
	telemetry.Info("upload.stored", map[string]any{
		"key":        stored.Key,
		"mime_type":  stored.MimeType,
		"size_bytes": stored.SizeBytes,
	})
	return stored, nil
}

func (i *Ingestor) ingest(ctx context.Context, u Upload) (Stored, error) {
	name := strings.TrimSpace(u.FileName)
	if u.Body == nil || name == "" || u.Size == 0 {
		return Stored{}, apperr.Validation("No file uploaded")
	}
	if declared := DetectMimeType(u.MimeType, nil); declared != "" && !IsAllowedMimeType(declared) {
		return Stored{}, errInvalidType
	}
	if u.Size > i.MaxBytes {
		return Stored{}, ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(u.Body, i.MaxBytes+1))
	if err != nil {
		return Stored{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return Stored{}, apperr.Validation("No file uploaded")
	}
	if int64(len(data)) > i.MaxBytes {
		return Stored{}, ErrFileTooLarge
	}

	mimeType := DetectMimeType(u.MimeType, data)
	if !IsAllowedMimeType(mimeType) {
		return Stored{}, errInvalidType
	}

	sanitized, err := util.SanitizeFileName(name)
	if err != nil {
		return Stored{}, apperr.Validation("Invalid file name")
	}
	key := object.ApplyPrefix(i.Prefix, ObjectName(i.now(), i.newID(), sanitized))

	written, err := i.Store.Put(ctx, key, mimeType, bytes.NewReader(data))
	if err != nil {
		return Stored{}, err
	}

	return Stored{
		Key:       key,
		URI:       i.Store.URI(key),
		FileName:  name,
		MimeType:  mimeType,
		SizeBytes: written,
		Data:      data,
	}, nil
}

// ObjectName renders <unix-seconds>_<id>_<name>.
func ObjectName(at time.Time, id, sanitizedName string) string {
	return fmt.Sprintf("%d_%s_%s", at.Unix(), id, sanitizedName)
}

// DetectMimeType normalizes the declared type. An empty or generic declared
// type is replaced by the sniffed type of data.
func DetectMimeType(declared string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if clean != "" && clean != "application/octet-stream" {
		return clean
	}
	if data == nil {
		return ""
	}
	detected := mimetype.Detect(data)
	return strings.ToLower(strings.Split(detected.String(), ";")[0])
}

// IsAllowedMimeType reports whether mimeType may be uploaded.
func IsAllowedMimeType(mimeType string) bool {
	_, ok := allowedMimeTypes[mimeType]
	return ok
}

// MimeTypeFromName guesses a type from the extension of a stored object name.
func MimeTypeFromName(name string) string {
	switch util.Ext(name) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}
