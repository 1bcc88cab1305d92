package middleware

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the acting user for audit fields. There is no
// authentication; the value is recorded as given.
const UserIDHeader = "X-User-ID"

// DefaultUserID is recorded when a request names no user.
const DefaultUserID = "system"

// userIDKey is the key used to store the acting user's ID in the Gin context.
const userIDKey = contextKey("userID")

// maxUserIDLength bounds the header value stored in audit columns.
const maxUserIDLength = 64

// ActorMiddleware stores the acting user from the X-User-ID header in the
// Gin context and the request context.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			userID = DefaultUserID
		}
		userID = truncateUserID(userID)
		c.Set(string(userIDKey), userID)
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// truncateUserID drops invalid UTF-8 and cuts the value to at most
// maxUserIDLength bytes on a rune boundary.
func truncateUserID(userID string) string {
	userID = strings.ToValidUTF8(userID, "")
	if len(userID) <= maxUserIDLength {
		return userID
	}
	cut := maxUserIDLength
	for cut > 0 && !utf8.RuneStart(userID[cut]) {
		cut--
	}
	return userID[:cut]
}

// WithUserID returns a copy of ctx carrying the acting user.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the acting user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		if userID, ok := c.Request.Context().Value(userIDKey).(string); ok {
			return userID, true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	return userID, ok
}

// ActorFromContext returns the acting user, defaulting to DefaultUserID.
func ActorFromContext(c *gin.Context) string {
	if userID, ok := GetUserIDFromContext(c); ok && userID != "" {
		return userID
	}
	return DefaultUserID
}
