package middleware

import (
	"github.com/gin-gonic/gin"
)

const userIDHeader = "X-User-ID"

// RequestUserID returns the acting user for audit fields. The API runs
// behind the association's trusted admin frontend, so the identity comes
// from a plain header and falls back to "system" for scripted callers.
func RequestUserID(c *gin.Context) string {
	if id := c.GetHeader(userIDHeader); id != "" {
		return id
	}
	return "system"
}
