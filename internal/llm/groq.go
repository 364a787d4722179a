package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tbourn/go-stylist-backend/internal/config"
)

// Groq calls an OpenAI-compatible /chat/completions endpoint.
type Groq struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client
}

// NewGroq returns a Groq client. A zero cfg.Timeout leaves the HTTP client
// without a deadline; the caller's context still applies.
func NewGroq(cfg config.CompletionConfig) *Groq {
	return &Groq{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Model:   cfg.Model,
		HTTP:    &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends the system prompt followed by the history.
func (g *Groq) Complete(ctx context.Context, req Request) (string, error) {
	msgs := make([]chatMessage, 0, len(req.History)+1)
	msgs = append(msgs, chatMessage{Role: RoleSystem, Content: req.System})
	for _, m := range req.History {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(chatRequest{
		Model:       g.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	client := g.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, snippet(raw))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decode body: %v", ErrUnavailable, err)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

// snippet trims an error body for inclusion in an error message.
func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
