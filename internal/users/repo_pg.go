package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, display_name, photo_url, created_at, last_login_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  display_name = EXCLUDED.display_name,
  photo_url = EXCLUDED.photo_url,
  last_login_at = EXCLUDED.last_login_at
RETURNING id, email, display_name, photo_url, created_at, last_login_at`
	var out User
	err := r.DB.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PhotoURL,
		user.CreatedAt,
		user.LastLoginAt,
	).Scan(&out.ID, &out.Email, &out.DisplayName, &out.PhotoURL, &out.CreatedAt, &out.LastLoginAt)
	if err != nil {
		return User{}, err
	}
	return out, nil
}

func (r *PGRepo) Get(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, display_name, photo_url, created_at, last_login_at
FROM users
WHERE id = $1
LIMIT 1`
	var user User
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PhotoURL,
		&user.CreatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
		}
		return User{}, err
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)
