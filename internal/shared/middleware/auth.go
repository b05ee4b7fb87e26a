package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"riffs-backend/internal/shared/response"
	"riffs-backend/pkg/jwt"
)

// ContextUserID is the gin context key set by Auth for the
// authenticated user's id.
const ContextUserID = "userID"

// ContextUserEmail carries the authenticated user's email.
const ContextUserEmail = "userEmail"

// Auth validates the bearer token and stores the caller's identity on
// the request context.
func Auth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AbortError(c, http.StatusUnauthorized, "AUTH001", "missing authorization header")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.AbortError(c, http.StatusUnauthorized, "AUTH002", "invalid authorization header format")
			return
		}

		claims, err := manager.VerifyToken(parts[1], jwt.AccessToken)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "AUTH003", "invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuth sets the user id when a valid token is present but lets
// anonymous requests through. Used by read endpoints that personalize
// their payload for signed-in users.
func OptionalAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				if claims, err := manager.VerifyToken(parts[1], jwt.AccessToken); err == nil {
					c.Set(ContextUserID, claims.UserID)
					c.Set(ContextUserEmail, claims.Email)
				}
			}
		}
		c.Next()
	}
}

// UserIDFromContext extracts the authenticated user id set by Auth.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
