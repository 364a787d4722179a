package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions tunes SecurityHeaders. HSTS is sent only on HTTPS requests
// (directly or via X-Forwarded-Proto) and only when EnableHSTS is set.
// NoStore marks responses uncacheable; the profile and chat bodies are
// personal data.
type SecurityOptions struct {
	EnableHSTS   bool
	HSTSMaxAge   time.Duration // default 180 days
	NoStore      bool
	EnablePolicy bool // Permissions-Policy and X-Permitted-Cross-Domain-Policies
}

// SecurityHeaders adds the usual JSON-API hardening headers and exposes
// X-Request-ID to browsers.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = 180 * 24 * time.Hour
	}
	hsts := "max-age=" + strconv.FormatInt(int64(maxAge/time.Second), 10) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}
		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}
		if h.Get(HeaderRequestID) != "" {
			exposeHeader(h, HeaderRequestID)
		}

		c.Next()
	}
}

func exposeHeader(h http.Header, name string) {
	const key = "Access-Control-Expose-Headers"
	cur := h.Get(key)
	switch {
	case cur == "":
		h.Set(key, name)
	case !strings.Contains(strings.ToLower(cur), strings.ToLower(name)):
		h.Set(key, cur+", "+name)
	}
}

func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
