package users

import "context"

// Repo persists users. Upsert creates the record on first sign-in, keeping
// CreatedAt afterwards, and returns the stored state. Get wraps
// apperr.ErrNotFound for unknown ids.
type Repo interface {
	Upsert(ctx context.Context, user User) (User, error)
	Get(ctx context.Context, userID string) (User, error)
}
