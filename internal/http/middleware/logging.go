// Package middleware holds the Gin middleware shared by every route of the
// stylist API.
//
// Recommended order, as wired by the router:
//
//	RequestID → Identity → Logger → Recovery → ... → handlers
//
// so that access logs and panics carry the request id and the caller.
package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Header names understood by the API.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderUserID    = "X-User-ID"
)

// Gin context keys.
const (
	ctxKeyRequestID = "requestID"
	ctxKeyUserID    = "userID"
	ctxKeyLogger    = "logger"
)

const (
	maxQueryLog = 2048
	maxUserID   = 64
)

// RequestID reuses the caller's X-Request-ID or mints a UUID, and echoes it
// on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Next()
	}
}

// Identity copies X-User-ID into the context. There is no authentication in
// front of the API; the header is trusted as the owner id and oversize
// values are ignored.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" && len(uid) <= maxUserID {
			c.Set(ctxKeyUserID, uid)
		}
		c.Next()
	}
}

// UserID returns the caller set by Identity, or "demo-user".
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "demo-user"
}

// RequestIDFrom returns the id set by RequestID, if any.
func RequestIDFrom(c *gin.Context) string {
	v, _ := c.Get(ctxKeyRequestID)
	s, _ := v.(string)
	return s
}

// Logger builds a request-scoped zerolog.Logger, stores it both in the Gin
// context and in the request's context.Context (services read it with
// zerolog.Ctx), and writes one access line per request once the handler
// chain returns. Query strings and header values pass through a Redactor
// built from opts; bodies are never logged.
//
// Level: error on 5xx or recorded gin errors, warn on 4xx, info otherwise.
func Logger(opts RedactOptions) gin.HandlerFunc {
	rd := NewRedactor(opts)

	return func(c *gin.Context) {
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		l := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("user_id", UserID(c)).
			Str("method", c.Request.Method).
			Str("path", route).
			Logger()

		c.Set(ctxKeyLogger, &l)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		query := rd.String(truncate(c.Request.URL.RawQuery, maxQueryLog))
		headers := rd.Headers(c.Request.Header)

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case len(c.Errors) > 0:
			ev = l.Error().Str("errors", c.Errors.String())
		case status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		ev.Str("query", query).
			Str("remote_ip", c.ClientIP()).
			Int64("bytes_in", c.Request.ContentLength).
			Int("status", status).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request")
	}
}

// LoggerFrom returns the logger stored by Logger, or the global logger.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(ctxKeyLogger); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// Recovery turns a panic into a JSON 500 and logs the stack. Nothing is
// written when the handler already started the response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := RequestIDFrom(c)
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(HeaderRequestID, rid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":    false,
				"request_id": rid,
				"code":       "internal_error",
				"error":      "internal server error",
			})
		}()
		c.Next()
	}
}

// truncate caps s at max bytes. Byte slicing is fine for log output.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
