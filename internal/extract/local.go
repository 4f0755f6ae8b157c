package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/object"
)

const mimePDF = "application/pdf"

// Local extracts text from PDFs in-process. Images need OCR and are rejected.
type Local struct {
	store object.ObjectStore
}

// NewLocal builds an in-process extractor that reads objects from store.
func NewLocal(store object.ObjectStore) *Local {
	return &Local{store: store}
}

func (l *Local) Extract(ctx context.Context, src Source) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	data, err := loadData(ctx, l.store, src)
	if err != nil {
		return Result{}, err
	}

	mimeType := resolveMime(src.MimeType, data)
	if mimeType != mimePDF {
		return Result{}, Fail(ReasonUnsupported, fmt.Errorf("local extraction for %s", mimeType))
	}

	text, pages, err := extractPDF(data)
	if err != nil {
		return Result{}, Fail(ReasonUpstream, fmt.Errorf("parse pdf: %w", err))
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, Fail(ReasonEmptyText, nil)
	}
	return Result{
		Text:       text,
		Entities:   []Entity{},
		Confidence: DefaultConfidence,
		Pages:      pages,
	}, nil
}

func extractPDF(data []byte) (string, int, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", 0, err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", 0, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", 0, err
	}
	return buf.String(), pdfReader.NumPage(), nil
}

var _ Extractor = (*Local)(nil)
