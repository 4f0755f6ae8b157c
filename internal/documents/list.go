package documents

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
)

// SortField is a sortable document attribute.
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortFileName  SortField = "fileName"
	SortSizeBytes SortField = "sizeBytes"
)

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ListOptions selects a page of a user's documents. A non-empty Cursor takes
// precedence over Page.
type ListOptions struct {
	SortBy SortField
	Order  Order
	Page   int
	Limit  int
	Cursor string
}

// Offset is the number of records skipped by page-based listing.
func (o ListOptions) Offset() int {
	if o.Page <= 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

// Page is one slice of a listing.
type Page struct {
	Documents  []Document
	HasMore    bool
	NextCursor string
}

// ParseListOptions validates raw query values.
func ParseListOptions(page, limit, sortBy, order, cursor string) (ListOptions, error) {
	opts := ListOptions{
		SortBy: SortCreatedAt,
		Order:  OrderDesc,
		Page:   1,
		Limit:  defaultLimit,
		Cursor: strings.TrimSpace(cursor),
	}

	if v := strings.TrimSpace(page); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return ListOptions{}, apperr.Validation("Invalid page")
		}
		opts.Page = n
	}
	if v := strings.TrimSpace(limit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return ListOptions{}, apperr.Validation("Invalid limit")
		}
		if n > maxLimit {
			n = maxLimit
		}
		opts.Limit = n
	}
	if v := strings.TrimSpace(sortBy); v != "" {
		switch SortField(v) {
		case SortCreatedAt, SortUpdatedAt, SortFileName, SortSizeBytes:
			opts.SortBy = SortField(v)
		default:
			return ListOptions{}, apperr.Validation("Invalid sortBy. Use createdAt, updatedAt, fileName or sizeBytes")
		}
	}
	if v := strings.ToLower(strings.TrimSpace(order)); v != "" {
		switch Order(v) {
		case OrderAsc, OrderDesc:
			opts.Order = Order(v)
		default:
			return ListOptions{}, apperr.Validation("Invalid order. Use asc or desc")
		}
	}
	return opts, nil
}

// Cursor is the decoded form of a continuation token: the sort value and id
// of the last record returned.
type Cursor struct {
	SortBy SortField `json:"s"`
	Value  string    `json:"v"`
	ID     string    `json:"id"`
}

// NewCursor builds the continuation token that follows doc.
func NewCursor(sortBy SortField, doc Document) string {
	c := Cursor{SortBy: sortBy, ID: doc.ID, Value: sortValueString(sortBy, doc)}
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token produced by NewCursor for the same sort field.
func DecodeCursor(token string, sortBy SortField) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, apperr.Validation("Invalid cursor")
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil || c.ID == "" {
		return Cursor{}, apperr.Validation("Invalid cursor")
	}
	if c.SortBy != sortBy {
		return Cursor{}, apperr.Validation("Cursor does not match sortBy")
	}
	if _, err := c.TypedValue(); err != nil {
		return Cursor{}, apperr.Validation("Invalid cursor")
	}
	return c, nil
}

// TypedValue converts Value to the Go type of the sort field.
func (c Cursor) TypedValue() (any, error) {
	switch c.SortBy {
	case SortCreatedAt, SortUpdatedAt:
		return time.Parse(time.RFC3339Nano, c.Value)
	case SortSizeBytes:
		return strconv.ParseInt(c.Value, 10, 64)
	case SortFileName:
		return c.Value, nil
	default:
		return nil, fmt.Errorf("unknown sort field %q", c.SortBy)
	}
}

func sortValueString(sortBy SortField, doc Document) string {
	switch sortBy {
	case SortUpdatedAt:
		return doc.UpdatedAt.UTC().Format(time.RFC3339Nano)
	case SortFileName:
		return doc.FileName
	case SortSizeBytes:
		return strconv.FormatInt(doc.SizeBytes, 10)
	default:
		return doc.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
}

// compareDocs orders a and b by the sort field then id, ascending.
func compareDocs(sortBy SortField, a, b Document) int {
	var c int
	switch sortBy {
	case SortUpdatedAt:
		c = a.UpdatedAt.Compare(b.UpdatedAt)
	case SortFileName:
		c = strings.Compare(a.FileName, b.FileName)
	case SortSizeBytes:
		switch {
		case a.SizeBytes < b.SizeBytes:
			c = -1
		case a.SizeBytes > b.SizeBytes:
			c = 1
		}
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// cursorDoc rebuilds the boundary record a cursor points at, for comparison.
func cursorDoc(c Cursor) Document {
	doc := Document{ID: c.ID}
	v, _ := c.TypedValue()
	switch c.SortBy {
	case SortUpdatedAt:
		doc.UpdatedAt, _ = v.(time.Time)
	case SortFileName:
		doc.FileName, _ = v.(string)
	case SortSizeBytes:
		doc.SizeBytes, _ = v.(int64)
	default:
		doc.CreatedAt, _ = v.(time.Time)
	}
	return doc
}

// finishPage trims a limit+1 fetch into a Page.
func finishPage(docs []Document, opts ListOptions) Page {
	page := Page{Documents: docs}
	if len(docs) > opts.Limit {
		page.Documents = docs[:opts.Limit]
		page.HasMore = true
		page.NextCursor = NewCursor(opts.SortBy, page.Documents[len(page.Documents)-1])
	}
	if page.Documents == nil {
		page.Documents = []Document{}
	}
	return page
}
