package analyses

import "context"

// Repo defines persistence operations for analyses. Missing records yield an
// error wrapping apperr.ErrNotFound.
type Repo interface {
	Save(ctx context.Context, analysis Analysis) error
	Get(ctx context.Context, analysisID string) (Analysis, error)
	Delete(ctx context.Context, analysisID string) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error)
}
