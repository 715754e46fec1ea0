// Package middleware provides gin middleware for authentication, CORS and
// request metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenVerifier resolves a bearer token to an identity ID.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// IdentityKey is the gin context key carrying the authenticated identity ID.
const IdentityKey = "identityID"

// RequireAuth rejects requests without a valid bearer token and stores the
// identity ID in the request context.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		identityID, err := verifier.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(IdentityKey, identityID)
		c.Next()
	}
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// Identity returns the authenticated identity ID set by RequireAuth.
func Identity(c *gin.Context) string {
	return c.GetString(IdentityKey)
}
