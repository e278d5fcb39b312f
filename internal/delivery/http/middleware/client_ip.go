package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ForwardedIP returns the first X-Forwarded-For entry, falling back to the
// address gin resolves for the connection. The header is client controlled:
// use it for stored request metadata only, never as a rate-limit key.
func ForwardedIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return c.ClientIP()
}
