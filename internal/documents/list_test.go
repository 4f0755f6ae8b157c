package documents

import (
	"testing"
	"time"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
)

func TestParseListOptionsDefaults(t *testing.T) {
	opts, err := ParseListOptions("", "", "", "", "")
	if err != nil {
		t.Fatalf("ParseListOptions: %v", err)
	}
	if opts.SortBy != SortCreatedAt || opts.Order != OrderDesc || opts.Page != 1 || opts.Limit != 20 {
		t.Fatalf("unexpected defaults %+v", opts)
	}
	if opts.Offset() != 0 {
		t.Fatalf("expected offset 0, got %d", opts.Offset())
	}
}

func TestParseListOptionsClampsLimit(t *testing.T) {
	opts, err := ParseListOptions("3", "500", "fileName", "ASC", "")
	if err != nil {
		t.Fatalf("ParseListOptions: %v", err)
	}
	if opts.Limit != 100 {
		t.Fatalf("expected limit clamped to 100, got %d", opts.Limit)
	}
	if opts.Order != OrderAsc || opts.SortBy != SortFileName {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.Offset() != 200 {
		t.Fatalf("expected offset 200, got %d", opts.Offset())
	}
}

func TestParseListOptionsRejects(t *testing.T) {
	cases := []struct {
		name                       string
		page, limit, sortBy, order string
	}{
		{"page zero", "0", "", "", ""},
		{"page text", "abc", "", "", ""},
		{"negative limit", "", "-1", "", ""},
		{"unknown sort", "", "", "owner", ""},
		{"unknown order", "", "", "", "sideways"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseListOptions(tc.page, tc.limit, tc.sortBy, tc.order, "")
			if !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCursorRoundTripPerField(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 123456000, time.UTC)
	doc := Document{
		ID:        "doc-1",
		FileName:  "lease.pdf",
		SizeBytes: 4096,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}

	for _, field := range []SortField{SortCreatedAt, SortUpdatedAt, SortFileName, SortSizeBytes} {
		token := NewCursor(field, doc)
		c, err := DecodeCursor(token, field)
		if err != nil {
			t.Fatalf("%s: DecodeCursor: %v", field, err)
		}
		if c.ID != "doc-1" {
			t.Fatalf("%s: expected id doc-1, got %q", field, c.ID)
		}
		if compareDocs(field, cursorDoc(c), doc) != 0 {
			t.Fatalf("%s: boundary does not match source document", field)
		}
	}
}

func TestDecodeCursorRejects(t *testing.T) {
	doc := Document{ID: "doc-1", FileName: "a.pdf"}
	token := NewCursor(SortFileName, doc)

	if _, err := DecodeCursor(token, SortCreatedAt); !apperr.IsValidation(err) {
		t.Fatalf("expected sort mismatch validation error, got %v", err)
	}
	if _, err := DecodeCursor("not base64!", SortCreatedAt); !apperr.IsValidation(err) {
		t.Fatalf("expected invalid cursor error, got %v", err)
	}
	if _, err := DecodeCursor("bm90LWpzb24", SortCreatedAt); !apperr.IsValidation(err) {
		t.Fatalf("expected invalid cursor error for non-json payload, got %v", err)
	}
}

func TestFinishPage(t *testing.T) {
	opts := ListOptions{SortBy: SortCreatedAt, Limit: 2}
	docs := []Document{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	page := finishPage(docs, opts)
	if !page.HasMore || len(page.Documents) != 2 {
		t.Fatalf("expected 2 documents with more, got %d hasMore=%v", len(page.Documents), page.HasMore)
	}
	c, err := DecodeCursor(page.NextCursor, SortCreatedAt)
	if err != nil || c.ID != "b" {
		t.Fatalf("expected cursor after b, got %+v err=%v", c, err)
	}

	empty := finishPage(nil, opts)
	if empty.Documents == nil || empty.HasMore || empty.NextCursor != "" {
		t.Fatalf("unexpected empty page %+v", empty)
	}
}
