// README: Firebase auth middleware; populates caller UID and role claim.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fixme/internal/infra"
)

const (
	ctxKeyUID  = "caller_uid"
	ctxKeyRole = "caller_role"
)

// Auth verifies the Bearer token on every request and stores the caller's UID
// and role claim on the context. Requests without a valid token are rejected
// with 401.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxKeyUID, token.UID)
		if role, ok := token.Claims["role"].(string); ok {
			c.Set(ctxKeyRole, role)
		}
		c.Next()
	}
}

// CallerUID returns the authenticated caller's UID, empty when unauthenticated.
func CallerUID(c *gin.Context) string {
	return c.GetString(ctxKeyUID)
}

// CallerRole returns the role claim carried by the token, empty when absent.
// Authorization decisions use the mirrored user record, not this claim; it is
// informational.
func CallerRole(c *gin.Context) string {
	return c.GetString(ctxKeyRole)
}
