package documents

import (
	"context"
	"time"
)

// Repo defines persistence operations for documents. Missing records yield
// an error wrapping apperr.ErrNotFound.
type Repo interface {
	Save(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) (Document, error)
	Update(ctx context.Context, id string, patch Patch, updatedAt time.Time) (Document, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, userID string, opts ListOptions) (Page, error)
}
