package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-stylist-backend/internal/http/middleware"
)

// ErrorResponse is the error body of the REST endpoints.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Code      string `json:"code" example:"not_found"`
	Message   string `json:"message" example:"chat not found"`
}

// fail aborts with an ErrorResponse. 5xx responses are logged.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: middleware.RequestIDFrom(c),
		Code:      code,
		Message:   msg,
	})
}

// Fail is fail for the router's fallback routes.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// failErr maps a service error to its status and code and aborts.
func failErr(c *gin.Context, err error) {
	e := classify(err)
	fail(c, e.status, e.code, e.message)
}

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// weakETag sets the ETag and reports whether the client already has it.
func weakETag(c *gin.Context, tag string) (notModified bool) {
	c.Header("ETag", tag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == tag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}
