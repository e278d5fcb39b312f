package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"kohi-api/internal/delivery/http/response"
	"kohi-api/internal/domain"
	"kohi-api/pkg/security"

	"github.com/gin-gonic/gin"
)

// AdminGateConfig configures the Basic Auth gate in front of admin paths.
type AdminGateConfig struct {
	Credentials security.Credentials
	// Prefixes are the path prefixes the gate protects.
	Prefixes []string
	Realm    string
	Logger   *security.SecurityLogger
}

// DefaultAdminPrefixes covers the admin API and any admin UI mounted beside it.
var DefaultAdminPrefixes = []string{"/api/admin", "/admin"}

// AdminGate checks HTTP Basic credentials on every request under the
// configured prefixes, including paths no route matches. It keeps no session
// state: every request is checked on its own.
func AdminGate(cfg AdminGateConfig) gin.HandlerFunc {
	if len(cfg.Prefixes) == 0 {
		cfg.Prefixes = DefaultAdminPrefixes
	}
	if cfg.Realm == "" {
		cfg.Realm = "kohi-admin"
	}
	if cfg.Logger == nil {
		cfg.Logger = security.DefaultLogger()
	}
	challenge := fmt.Sprintf("Basic realm=%q", cfg.Realm)

	return func(c *gin.Context) {
		if !matchesPrefix(c.Request.URL.Path, cfg.Prefixes) {
			c.Next()
			return
		}

		ip := ForwardedIP(c)
		ua := c.GetHeader("User-Agent")
		reqID := c.GetString(string(domain.KeyRequestID))

		if !cfg.Credentials.Configured() {
			cfg.Logger.Log(c.Request.Context(), security.SecurityEvent{
				Event:     security.EventAdminDisabled,
				IP:        ip,
				UserAgent: ua,
				RequestID: reqID,
			})
			response.Error(c, http.StatusServiceUnavailable, "Admin disabled", nil)
			c.Abort()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", challenge)
			response.Error(c, http.StatusUnauthorized, "Authentication required", nil)
			c.Abort()
			return
		}

		if !cfg.Credentials.Match(user, pass) {
			cfg.Logger.LogAdminAuthFailed(c.Request.Context(), user, ip, ua, reqID, "invalid_credentials")
			c.Header("WWW-Authenticate", challenge)
			response.Error(c, http.StatusUnauthorized, "Invalid credentials", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyAdminUser), user)
		c.Next()
	}
}

// matchesPrefix matches whole path segments, so /administrator is not gated
// by /admin.
func matchesPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
