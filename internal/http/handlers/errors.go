package handlers

import (
	"errors"
	"net/http"

	"github.com/tbourn/go-stylist-backend/internal/services"
)

// Stable error codes. Clients branch on these, not on messages.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	ErrCodeMisconfigured       = "misconfigured"
	ErrCodePersistFailed       = "persist_failed"
	ErrCodeUpstreamUnavailable = "upstream_unavailable"
)

type apiError struct {
	status  int
	code    string
	message string
}

// classify maps service sentinels onto HTTP. Unknown errors are a 500 with
// a generic message; the detail goes to the log, not to the client.
func classify(err error) apiError {
	switch {
	case errors.Is(err, services.ErrEmptyPrompt):
		return apiError{http.StatusBadRequest, ErrCodeBadRequest, "message is required"}
	case errors.Is(err, services.ErrInvalidChatID):
		return apiError{http.StatusBadRequest, ErrCodeBadRequest, "a valid chatId is required"}
	case errors.Is(err, services.ErrInvalidProfile):
		return apiError{http.StatusBadRequest, ErrCodeBadRequest, err.Error()}
	case errors.Is(err, services.ErrInvalidGroomingFilter):
		return apiError{http.StatusBadRequest, ErrCodeBadRequest, err.Error()}
	case errors.Is(err, services.ErrInvalidFeedback):
		return apiError{http.StatusBadRequest, ErrCodeBadRequest, "value must be -1 or 1"}

	case errors.Is(err, services.ErrChatNotFound):
		return apiError{http.StatusNotFound, ErrCodeNotFound, "chat not found"}
	case errors.Is(err, services.ErrProfileNotFound):
		return apiError{http.StatusNotFound, ErrCodeNotFound, "profile not found"}
	case errors.Is(err, services.ErrMessageNotFound):
		return apiError{http.StatusNotFound, ErrCodeNotFound, "message not found"}

	case errors.Is(err, services.ErrForbiddenFeedback):
		return apiError{http.StatusForbidden, ErrCodeForbidden, "cannot leave feedback on this message"}
	case errors.Is(err, services.ErrDuplicateFeedback):
		return apiError{http.StatusConflict, ErrCodeConflict, "feedback already exists"}

	case errors.Is(err, services.ErrMisconfigured):
		return apiError{http.StatusInternalServerError, ErrCodeMisconfigured, "AI service is not configured"}
	case errors.Is(err, services.ErrPersistUserMessage):
		return apiError{http.StatusInternalServerError, ErrCodePersistFailed, "failed to save message"}
	case errors.Is(err, services.ErrCompletionUnavailable):
		return apiError{http.StatusServiceUnavailable, ErrCodeUpstreamUnavailable, services.ErrCompletionUnavailable.Error()}
	}
	return apiError{http.StatusInternalServerError, ErrCodeInternal, "internal server error"}
}
