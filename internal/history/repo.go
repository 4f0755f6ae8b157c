package history

import "context"

// Repo stores history entries keyed by user id. Recent returns newest first.
type Repo interface {
	Append(ctx context.Context, userID string, entry Entry) error
	Recent(ctx context.Context, userID string, limit int) ([]Entry, error)
}
