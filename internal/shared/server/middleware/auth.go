package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Smith-Faldu/legal-lens/internal/shared/auth"
	"github.com/Smith-Faldu/legal-lens/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	identityKey = "identity"
)

// Auth verifies the bearer token and stores the caller identity in context.
func Auth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			respond.Failure(c, err)
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if _, ok := auth.AsError(err); !ok {
				err = auth.Fail(auth.ReasonInvalid, err)
			}
			respond.Failure(c, err)
			return
		}

		c.Set(userIDKey, identity.UID)
		c.Set(identityKey, identity)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", auth.Fail(auth.ReasonMissing, nil)
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", auth.Fail(auth.ReasonMalformed, nil)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.Fail(auth.ReasonMissing, nil)
	}
	return token, nil
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// IdentityFromContext fetches the verified identity set by the auth middleware.
func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	if c == nil {
		return auth.Identity{}, false
	}
	val, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := val.(auth.Identity)
	return id, ok
}
