package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/object"
)

type recordingStore struct {
	puts    []string
	putErr  error
	content map[string][]byte
}

func (s *recordingStore) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	s.puts = append(s.puts, key)
	if s.putErr != nil {
		return 0, s.putErr
	}
	data, _ := io.ReadAll(r)
	if s.content == nil {
		s.content = map[string][]byte{}
	}
	s.content[key] = data
	return int64(len(data)), nil
}

func (s *recordingStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.content[key])), nil
}

func (s *recordingStore) Delete(ctx context.Context, key string) error { return nil }
func (s *recordingStore) URI(key string) string                        { return object.FormatURI("gs", "legal-docs", key) }
func (s *recordingStore) Scheme() string                               { return "gs" }
func (s *recordingStore) Bucket() string                               { return "legal-docs" }

func newTestIngestor(store object.ObjectStore, prefix string) *Ingestor {
	in := NewIngestor(store, prefix, 0)
	in.now = func() time.Time { return time.Unix(1700000000, 0) }
	in.newID = func() string { return "11111111-2222-3333-4444-555555555555" }
	return in
}

func TestIngestWritesOnceAndReturnsURI(t *testing.T) {
	store := &recordingStore{}
	in := newTestIngestor(store, "uploads")

	body := "%PDF-1.4 contract body"
	got, err := in.Ingest(context.Background(), Upload{
		FileName: "Lease Agreement.pdf",
		MimeType: "application/pdf",
		Size:     int64(len(body)),
		Body:     strings.NewReader(body),
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if len(store.puts) != 1 {
		t.Fatalf("expected one Put, got %d", len(store.puts))
	}
	wantKey := "uploads/1700000000_11111111-2222-3333-4444-555555555555_Lease_Agreement.pdf"
	if got.Key != wantKey {
		t.Fatalf("key = %q", got.Key)
	}
	if got.URI != "gs://legal-docs/"+wantKey {
		t.Fatalf("uri = %q", got.URI)
	}
	if got.FileName != "Lease Agreement.pdf" || got.SizeBytes != int64(len(body)) || got.MimeType != "application/pdf" {
		t.Fatalf("unexpected stored %+v", got)
	}
}

func TestIngestValidationNeverWrites(t *testing.T) {
	cases := []struct {
		name   string
		upload Upload
		msg    string
	}{
		{"missing body", Upload{FileName: "a.pdf", Size: 3}, "No file uploaded"},
		{"empty name", Upload{FileName: " ", Size: 3, Body: strings.NewReader("abc")}, "No file uploaded"},
		{"zero size", Upload{FileName: "a.pdf", Size: 0, Body: strings.NewReader("")}, "No file uploaded"},
		{"bad type", Upload{FileName: "a.docx", MimeType: "application/msword", Size: 3, Body: strings.NewReader("abc")}, "Invalid file type"},
		{"too large", Upload{FileName: "a.pdf", MimeType: "application/pdf", Size: DefaultMaxBytes + 1, Body: strings.NewReader("abc")}, "File size too large"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &recordingStore{}
			_, err := newTestIngestor(store, "").Ingest(context.Background(), tc.upload)
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.HasPrefix(ve.Message, tc.msg) {
				t.Fatalf("message = %q, want prefix %q", ve.Message, tc.msg)
			}
			if len(store.puts) != 0 {
				t.Fatalf("store written on validation failure")
			}
		})
	}
}

func TestIngestRejectsBodyLargerThanDeclared(t *testing.T) {
	store := &recordingStore{}
	in := newTestIngestor(store, "")
	in.MaxBytes = 8

	_, err := in.Ingest(context.Background(), Upload{
		FileName: "a.pdf",
		MimeType: "application/pdf",
		Size:     4,
		Body:     strings.NewReader("%PDF-1.4 and more"),
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.puts) != 0 {
		t.Fatalf("store written on oversize body")
	}
}

func TestIngestSniffsOctetStream(t *testing.T) {
	store := &recordingStore{}
	body := "%PDF-1.7\n%binary"
	got, err := newTestIngestor(store, "").Ingest(context.Background(), Upload{
		FileName: "scan.pdf",
		MimeType: "application/octet-stream",
		Size:     int64(len(body)),
		Body:     strings.NewReader(body),
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if got.MimeType != "application/pdf" {
		t.Fatalf("mime = %q", got.MimeType)
	}
}

func TestIngestSurfacesStoreFailure(t *testing.T) {
	store := &recordingStore{putErr: object.Fail(object.ReasonWriteFailed, "put", "k", errors.New("boom"))}
	_, err := newTestIngestor(store, "").Ingest(context.Background(), Upload{
		FileName: "a.png",
		MimeType: "image/png",
		Size:     3,
		Body:     strings.NewReader("png"),
	})
	se, ok := object.AsError(err)
	if !ok || se.Reason != object.ReasonWriteFailed {
		t.Fatalf("expected write_failed, got %v", err)
	}
}

func TestAllowList(t *testing.T) {
	for _, m := range []string{"application/pdf", "image/jpeg", "image/jpg", "image/png", "image/gif", "image/tiff", "image/bmp", "image/webp"} {
		if !IsAllowedMimeType(m) {
			t.Fatalf("%s should be allowed", m)
		}
	}
	for _, m := range []string{"text/plain", "application/zip", "image/svg+xml", ""} {
		if IsAllowedMimeType(m) {
			t.Fatalf("%s should be rejected", m)
		}
	}
}

func TestMimeTypeFromName(t *testing.T) {
	if MimeTypeFromName("x/1_id_Scan.JPG") != "image/jpeg" {
		t.Fatal("jpg not mapped")
	}
	if MimeTypeFromName("notes.txt") != "" {
		t.Fatal("txt should not map")
	}
}
