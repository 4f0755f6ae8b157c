package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Smith-Faldu/legal-lens/internal/shared/auth"
	"github.com/Smith-Faldu/legal-lens/internal/shared/telemetry"
)

type Service struct {
	Repo Repo

	now func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }}
}

// SignIn mirrors the verified identity into the users store.
func (s *Service) SignIn(ctx context.Context, identity auth.Identity) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(identity.UID) == "" {
		return User{}, errors.New("user id is required")
	}
	now := s.now()
	user, err := s.Repo.Upsert(ctx, User{
		ID:          identity.UID,
		Email:       identity.Email,
		DisplayName: identity.Name,
		PhotoURL:    identity.Picture,
		CreatedAt:   now,
		LastLoginAt: now,
	})
	if err != nil {
		return User{}, err
	}
	telemetry.Info("users.signed_in", map[string]any{
		"user_id":    user.ID,
		"first_time": user.CreatedAt.Equal(now),
	})
	return user, nil
}

func (s *Service) Get(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.Get(ctx, userID)
}
