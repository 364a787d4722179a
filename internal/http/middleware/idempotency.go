package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey lets a client retry a chat turn without paying for a
// second completion. The same key in the same chat returns the first reply.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// IdempotencyOptions bounds accepted keys. Zero values mean 200 bytes and
// the token pattern ^[A-Za-z0-9._~\-:]+$.
type IdempotencyOptions struct {
	MaxLen  int
	Pattern *regexp.Regexp
}

// ReplayLookup reports whether a still-valid turn exists for the key. Expiry
// is the lookup's business.
type ReplayLookup func(ctx context.Context, userID, chatID, key string, now time.Time) (bool, error)

// Idempotency validates Idempotency-Key on POST requests and stashes it for
// the handler. When lookup finds a stored turn the request is flagged as a
// replay and exempted from rate limiting, since serving it costs no upstream
// call. Lookup errors are ignored; the request is then processed normally.
//
// The chat id is read from the :id route parameter.
func Idempotency(opts IdempotencyOptions, lookup ReplayLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pattern := opts.Pattern
	if pattern == nil {
		pattern = defaultKeyPattern
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if len(key) > maxLen || !pattern.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success":    false,
				"request_id": RequestIDFrom(c),
				"code":       "bad_idempotency_key",
				"error":      "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			found, err := lookup(c.Request.Context(), UserID(c), c.Param("id"), key, time.Now().UTC())
			if err == nil && found {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}

// IdempotencyKey returns the validated key, if the request carried one.
func IdempotencyKey(c *gin.Context) (string, bool) {
	v, _ := c.Get(ctxKeyIdemKey)
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether Idempotency found a stored turn for the key.
func IsReplay(c *gin.Context) bool {
	return c.GetBool(ctxKeyIdemReplay)
}
