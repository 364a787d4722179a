// Package services defines the business logic for chats, chat turns, style
// profiles and feedback. This file centralizes the service-level error
// values so that they can be returned consistently by service methods and
// checked by callers.
//
// Translation into HTTP status codes happens in the handlers package.
package services

import "errors"

// Chat and turn errors.
var (
	// ErrChatNotFound indicates that the requested chat does not exist or is
	// not accessible to the current user.
	ErrChatNotFound = errors.New("chat not found")

	// ErrInvalidChatID is returned when a turn names no chat, or names it with
	// something that is not a chat id.
	ErrInvalidChatID = errors.New("invalid chat id")

	// ErrEmptyPrompt is returned when the message is empty after trimming.
	ErrEmptyPrompt = errors.New("message is empty")

	// ErrMisconfigured is returned when the completion credential is missing
	// or too short. Nothing is persisted.
	ErrMisconfigured = errors.New("completion service is not configured")

	// ErrPersistUserMessage is returned when the user's message cannot be
	// stored. No upstream call is made.
	ErrPersistUserMessage = errors.New("failed to save user message")

	// ErrCompletionUnavailable is returned when the completion provider fails.
	// The user's message stays; no assistant message is stored.
	ErrCompletionUnavailable = errors.New("AI service temporarily unavailable")
)

// Profile errors.
var (
	// ErrProfileNotFound is returned when the user has not saved a profile.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidProfile is returned when a profile field is out of range.
	ErrInvalidProfile = errors.New("invalid profile")
)

// ErrInvalidGroomingFilter is returned when a grooming filter names an
// unknown skin or scalp type.
var ErrInvalidGroomingFilter = errors.New("invalid grooming filter")

// Feedback errors.
var (
	// ErrInvalidFeedback is returned when a feedback value is outside the
	// allowed set (-1 or 1).
	ErrInvalidFeedback = errors.New("feedback value must be -1 or 1")

	// ErrMessageNotFound indicates that the requested message does not exist.
	ErrMessageNotFound = errors.New("message not found")

	// ErrForbiddenFeedback is returned when the message is not an assistant
	// reply in one of the user's chats.
	ErrForbiddenFeedback = errors.New("cannot leave feedback on this message")

	// ErrDuplicateFeedback is returned when the user already rated the message.
	ErrDuplicateFeedback = errors.New("feedback already exists")
)
