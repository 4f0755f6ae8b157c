// Package extract turns stored documents into text and entities.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/object"
)

// DefaultConfidence is reported when the OCR result carries no token confidences.
const DefaultConfidence = 0.95

// Source identifies the document to process. Data may be empty, in which case
// the extractor reads the object behind URI.
type Source struct {
	URI      string
	MimeType string
	Data     []byte
}

// Entity is an OCR-detected entity, passed through unmodified.
type Entity struct {
	Type        string  `json:"type"`
	MentionText string  `json:"mentionText"`
	Confidence  float64 `json:"confidence"`
}

// Result is the text and metadata pulled from a document.
type Result struct {
	Text       string
	Entities   []Entity
	Confidence float64
	Pages      int
}

// Extractor pulls text out of a document.
type Extractor interface {
	Extract(ctx context.Context, src Source) (Result, error)
}

// Reason classifies extraction failures.
type Reason string

const (
	ReasonEmptyText   Reason = "empty_text"
	ReasonUnsupported Reason = "unsupported_type"
	ReasonUpstream    Reason = "ocr_failed"
)

// Error is returned by every Extractor.
type Error struct {
	Reason Reason
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract: %s", e.Reason)
	}
	return fmt.Sprintf("extract: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int {
	if e.Reason == ReasonUnsupported {
		return 400
	}
	return 502
}

func (e *Error) Code() string { return string(e.Reason) }

func (e *Error) PublicMessage() string {
	switch e.Reason {
	case ReasonEmptyText:
		return "No text could be extracted from the document"
	case ReasonUnsupported:
		return "Text extraction is not supported for this file type"
	default:
		return "Failed to process document"
	}
}

// Fail wraps err as an extraction Error.
func Fail(reason Reason, err error) error {
	return &Error{Reason: reason, Err: err}
}

// AsError extracts an extraction Error from err.
func AsError(err error) (*Error, bool) {
	var ee *Error
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// MeanConfidence averages token confidences, or returns DefaultConfidence
// when there are none.
func MeanConfidence(values []float32) float64 {
	if len(values) == 0 {
		return DefaultConfidence
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// loadData returns src.Data or reads the object behind src.URI from store.
func loadData(ctx context.Context, store object.ObjectStore, src Source) ([]byte, error) {
	if len(src.Data) > 0 {
		return src.Data, nil
	}
	if store == nil {
		return nil, fmt.Errorf("no data and no object store for %s", src.URI)
	}
	key, err := object.KeyFromURI(store, src.URI)
	if err != nil {
		return nil, err
	}
	rc, err := store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// resolveMime prefers the declared type and falls back to sniffing data.
func resolveMime(declared string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if clean != "" && clean != "application/octet-stream" {
		return clean
	}
	if len(data) == 0 {
		return clean
	}
	return mimetype.Detect(data).String()
}
