package users

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
)

const usersCollection = "users"

type firestoreUser struct {
	Email       string    `firestore:"email"`
	DisplayName string    `firestore:"displayName"`
	PhotoURL    string    `firestore:"photoUrl"`
	CreatedAt   time.Time `firestore:"createdAt"`
	LastLoginAt time.Time `firestore:"lastLoginAt"`
}

// FirestoreRepo stores users keyed by uid.
type FirestoreRepo struct {
	Client *firestore.Client
}

// Upsert reads and writes in one transaction so createdAt survives re-login.
func (r *FirestoreRepo) Upsert(ctx context.Context, user User) (User, error) {
	ref := r.Client.Collection(usersCollection).Doc(user.ID)
	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			var existing firestoreUser
			if err := snap.DataTo(&existing); err != nil {
				return err
			}
			if !existing.CreatedAt.IsZero() {
				user.CreatedAt = existing.CreatedAt
			}
		case status.Code(err) != codes.NotFound:
			return err
		}
		return tx.Set(ref, firestoreUser{
			Email:       user.Email,
			DisplayName: user.DisplayName,
			PhotoURL:    user.PhotoURL,
			CreatedAt:   user.CreatedAt,
			LastLoginAt: user.LastLoginAt,
		})
	})
	if err != nil {
		return User{}, fmt.Errorf("upsert user %s: %w", user.ID, err)
	}
	return user, nil
}

func (r *FirestoreRepo) Get(ctx context.Context, userID string) (User, error) {
	snap, err := r.Client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return User{}, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
		}
		return User{}, err
	}
	var fu firestoreUser
	if err := snap.DataTo(&fu); err != nil {
		return User{}, fmt.Errorf("decode user %s: %w", userID, err)
	}
	return User{
		ID:          snap.Ref.ID,
		Email:       fu.Email,
		DisplayName: fu.DisplayName,
		PhotoURL:    fu.PhotoURL,
		CreatedAt:   fu.CreatedAt,
		LastLoginAt: fu.LastLoginAt,
	}, nil
}

var _ Repo = (*FirestoreRepo)(nil)
