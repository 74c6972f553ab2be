package middleware

import (
	"net/http"
	"strings"

	"ganspro/internal/model"
	"ganspro/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	// AuthIdentityKey is the context key holding the canonical model.Identity
	// for the authenticated request.
	AuthIdentityKey = "authIdentity"

	// SessionCookieName carries the session token for browser clients.
	SessionCookieName = "ganspro_session"
)

// extractToken pulls the session token from the Authorization header or,
// for browser requests, the session cookie.
func extractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

// IdentityFrom returns the authenticated identity set by the auth middleware
func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	val, exists := c.Get(AuthIdentityKey)
	if !exists {
		return model.Identity{}, false
	}
	identity, ok := val.(model.Identity)
	return identity, ok
}

// JWTAuthMiddleware creates a middleware for JWT authentication on API routes
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(AuthIdentityKey, claims.Identity())

		c.Next()
	}
}
