package auth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseVerifier verifies Firebase ID tokens with a revocation check.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier builds a verifier from an initialized Firebase app.
func NewFirebaseVerifier(ctx context.Context, app *firebase.App) (*FirebaseVerifier, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth client: %w", err)
	}
	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, Fail(ReasonMissing, nil)
	}
	tok, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return Identity{}, classifyFirebase(err)
	}
	return identityFromClaims(tok.UID, tok.Claims), nil
}

func classifyFirebase(err error) error {
	switch {
	case fbauth.IsIDTokenExpired(err):
		return Fail(ReasonExpired, err)
	case fbauth.IsIDTokenRevoked(err), fbauth.IsUserDisabled(err):
		return Fail(ReasonRevoked, err)
	default:
		return Fail(ReasonInvalid, err)
	}
}

func identityFromClaims(uid string, claims map[string]interface{}) Identity {
	id := Identity{UID: uid}
	if v, ok := claims["email"].(string); ok {
		id.Email = v
	}
	if v, ok := claims["name"].(string); ok {
		id.Name = v
	}
	if v, ok := claims["picture"].(string); ok {
		id.Picture = v
	}
	return id
}

var _ Verifier = (*FirebaseVerifier)(nil)
