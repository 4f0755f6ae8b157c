package documents

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Save(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return Document{}, fmt.Errorf("document %s: %w", id, apperr.ErrNotFound)
	}
	return doc, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, patch Patch, updatedAt time.Time) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return Document{}, fmt.Errorf("document %s: %w", id, apperr.ErrNotFound)
	}
	doc = patch.Apply(doc, updatedAt)
	r.docs[id] = doc
	return doc, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, apperr.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

// List sorts the user's documents and applies keyset or offset paging.
func (r *MemoryRepo) List(ctx context.Context, userID string, opts ListOptions) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	var boundary *Document
	if opts.Cursor != "" {
		c, err := DecodeCursor(opts.Cursor, opts.SortBy)
		if err != nil {
			return Page{}, err
		}
		b := cursorDoc(c)
		boundary = &b
	}

	r.mu.RLock()
	var docs []Document
	for _, doc := range r.docs {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(docs, func(a, b Document) int {
		c := compareDocs(opts.SortBy, a, b)
		if opts.Order == OrderDesc {
			return -c
		}
		return c
	})

	start := 0
	if boundary != nil {
		start = len(docs)
		for i, doc := range docs {
			c := compareDocs(opts.SortBy, doc, *boundary)
			if (opts.Order == OrderDesc && c < 0) || (opts.Order != OrderDesc && c > 0) {
				start = i
				break
			}
		}
	} else {
		start = min(opts.Offset(), len(docs))
	}

	end := min(start+opts.Limit+1, len(docs))
	out := make([]Document, end-start)
	copy(out, docs[start:end])
	return finishPage(out, opts), nil
}

var _ Repo = (*MemoryRepo)(nil)
