package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
	"github.com/Smith-Faldu/legal-lens/internal/shared/auth"
)

func TestSignInKeepsCreatedAt(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)
	ctx := context.Background()

	svc.now = func() time.Time { return first }
	if _, err := svc.SignIn(ctx, auth.Identity{UID: "uid-1", Email: "a@example.com", Name: "Ada"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	svc.now = func() time.Time { return second }
	user, err := svc.SignIn(ctx, auth.Identity{UID: "uid-1", Email: "ada@example.com", Name: "Ada L"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !user.CreatedAt.Equal(first) || !user.LastLoginAt.Equal(second) {
		t.Fatalf("unexpected timestamps created=%v lastLogin=%v", user.CreatedAt, user.LastLoginAt)
	}
	if user.Email != "ada@example.com" || user.DisplayName != "Ada L" {
		t.Fatalf("expected profile refresh, got %+v", user)
	}
}

func TestGetUnknownUser(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Get(context.Background(), "nobody"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SignIn(context.Background(), auth.Identity{}); err == nil {
		t.Fatalf("expected error for empty uid")
	}
}
