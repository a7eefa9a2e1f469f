package auth

import "github.com/gin-gonic/gin"

const (
	userIDKey    = "userID"
	principalKey = "principal"
)

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetPrincipal returns the principal stored by AuthRequired.
func GetPrincipal(c *gin.Context) (Principal, bool) {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(Principal); ok {
			return p, true
		}
	}
	return Principal{}, false
}

// SetPrincipal stores p on the request context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(userIDKey, p.UserID)
	c.Set(principalKey, p)
}
