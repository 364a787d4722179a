// Package llm talks to the chat-completion providers the stylist can use.
//
// Two providers are supported: Groq, through its OpenAI-compatible REST API,
// and Gemini, through the google.golang.org/genai SDK. Both are hidden behind
// Completer so the chat turn does not care which one is configured.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tbourn/go-stylist-backend/internal/config"
)

// Roles of a conversation turn as sent upstream.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrUnavailable wraps every upstream failure: transport errors, non-2xx
	// answers and undecodable bodies.
	ErrUnavailable = errors.New("completion service unavailable")

	// ErrBadKey is returned for a missing or implausibly short credential.
	ErrBadKey = errors.New("completion credential missing or too short")
)

// Message is one prior utterance passed as context.
type Message struct {
	Role    string
	Content string
}

// Request is a single completion call.
type Request struct {
	System      string
	History     []Message // oldest first, ends with the user's message
	Temperature float64
	MaxTokens   int
}

// Completer produces the assistant's next reply. An empty string with a nil
// error means the provider answered without any text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// New builds the Completer selected by cfg.Provider.
func New(ctx context.Context, cfg config.CompletionConfig) (Completer, error) {
	if err := ValidateKey(cfg.APIKey); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case config.ProviderGroq, "":
		return NewGroq(cfg), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}

// ValidateKey rejects blank keys and keys shorter than config.MinAPIKeyLen.
func ValidateKey(key string) error {
	if len(strings.TrimSpace(key)) < config.MinAPIKeyLen {
		return ErrBadKey
	}
	return nil
}

// RedactKey keeps the first and last four characters of a credential so it
// can be told apart in logs without being leaked.
func RedactKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}
