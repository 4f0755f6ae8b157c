package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the HS256 token body used by the development verifier.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier verifies HS256 tokens signed with a shared secret. It stands in
// for Firebase when running locally.
type JWTVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewJWTVerifier builds a verifier. Production refuses an empty secret.
func NewJWTVerifier(secret string, production bool) (*JWTVerifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		if production {
			return nil, errors.New("JWT_SECRET required in production")
		}
		secret = "dev-secret"
	}
	return &JWTVerifier{secret: []byte(secret), now: time.Now}, nil
}

// Sign issues a token for identity valid for ttl.
func (v *JWTVerifier) Sign(identity Identity, ttl time.Duration) (string, error) {
	if identity.UID == "" {
		return "", errors.New("uid is required")
	}
	now := v.now()
	claims := &Claims{
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(v.secret)
}

// Verify parses and validates token.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	if strings.TrimSpace(token) == "" {
		return Identity{}, Fail(ReasonMissing, nil)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, Fail(ReasonExpired, err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Identity{}, Fail(ReasonMalformed, err)
		default:
			return Identity{}, Fail(ReasonInvalid, err)
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return Identity{}, Fail(ReasonInvalid, nil)
	}
	return Identity{
		UID:     claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

var _ Verifier = (*JWTVerifier)(nil)
