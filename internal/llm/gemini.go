package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/tbourn/go-stylist-backend/internal/config"
)

// Gemini completes through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini client for cfg.Model. A non-empty cfg.BaseURL
// overrides the SDK endpoint.
func NewGemini(ctx context.Context, cfg config.CompletionConfig) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model}, nil
}

// Complete maps the system prompt to a system instruction and the history to
// user/model contents.
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	contents := make([]*genai.Content, 0, len(req.History))
	for _, m := range req.History {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	temp := float32(req.Temperature)
	gc := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   int32(req.MaxTokens),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, gc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.Text != "" && !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}
