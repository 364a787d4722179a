// Package imagegen builds image URLs for a Pollinations-style service, where
// the prompt is embedded in the URL path and the image is rendered on first
// fetch, and checks that the URL answers.
//
// Nothing here fails a chat turn. Every outcome is a Result whose Status says
// how much the caller can trust the URL.
package imagegen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-stylist-backend/internal/config"
)

// Status tells how an image URL was obtained.
type Status string

const (
	// StatusReady means the probe answered 2xx.
	StatusReady Status = "ready"
	// StatusUnverified means the probe failed or timed out. The URL is
	// returned anyway; the service usually renders it on first view.
	StatusUnverified Status = "unverified"
	// StatusFallback means the tailored prompt was unusable and the generic
	// prompt was rendered instead.
	StatusFallback Status = "fallback"
	// StatusDegraded means no URL could be produced.
	StatusDegraded Status = "degraded"
)

// Result is the outcome of one image request.
type Result struct {
	URL    string
	Status Status
	Reason string // why the result is not ready; empty when it is
}

// OK reports whether the result carries a URL.
func (r Result) OK() bool { return r.URL != "" }

// Sizes of the two kinds of picture.
const (
	outfitWidth, outfitHeight = 512, 512
	tryOnWidth, tryOnHeight   = 512, 768
)

// maxSeed bounds the random seed, [0, maxSeed).
const maxSeed = 1_000_000

var unsafeChars = regexp.MustCompile(`[^\w\s,.-]`)

// Client renders prompts into image URLs.
type Client struct {
	BaseURL      string
	Model        string
	ProbeTimeout time.Duration
	// Generic is rendered when a tailored prompt is unusable.
	Generic string
	HTTP    *http.Client
	// Seed returns the seed of the next URL. Defaults to a random value.
	Seed func() int
}

// New returns a Client for cfg. generic is the substitute prompt.
func New(cfg config.ImageConfig, generic string) *Client {
	return &Client{
		BaseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		Model:        cfg.Model,
		ProbeTimeout: cfg.ProbeTimeout,
		Generic:      generic,
		HTTP:         &http.Client{},
	}
}

// Generate renders an outfit picture (512x512).
func (c *Client) Generate(ctx context.Context, prompt string) (Result, error) {
	return c.render(ctx, "outfit", prompt, outfitWidth, outfitHeight)
}

// TryOn renders a virtual try-on picture (512x768).
func (c *Client) TryOn(ctx context.Context, prompt string) (Result, error) {
	return c.render(ctx, "try-on", prompt, tryOnWidth, tryOnHeight)
}

// render returns an error only when ctx is already done; every other failure
// is folded into the Result.
func (c *Client) render(ctx context.Context, kind, prompt string, w, h int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Status: StatusDegraded, Reason: err.Error()}, err
	}

	status := StatusReady
	reason := ""
	clean := Clean(prompt)
	if clean == "" {
		clean = Clean(c.Generic)
		status = StatusFallback
		reason = "prompt empty after cleaning"
	}

	u, err := c.BuildURL(clean, w, h, c.seed())
	if err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("image url build failed")
		return Result{Status: StatusDegraded, Reason: err.Error()}, nil
	}

	if perr := c.probe(ctx, u); perr != nil {
		log.Info().Str("kind", kind).Str("reason", perr.Error()).Msg("image probe failed, returning url anyway")
		if status == StatusReady {
			status = StatusUnverified
			reason = perr.Error()
		}
	}
	return Result{URL: u, Status: status, Reason: reason}, nil
}

// BuildURL embeds an already-cleaned prompt in a request URL:
// {base}/prompt/{prompt}?width=W&height=H&seed=N&model=M&enhance=true.
func (c *Client) BuildURL(clean string, w, h, seed int) (string, error) {
	if clean == "" {
		return "", fmt.Errorf("empty prompt")
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse image base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return "", fmt.Errorf("image base url %q is not absolute http(s)", c.BaseURL)
	}
	model := c.Model
	if model == "" {
		model = "flux"
	}
	return c.BaseURL + "/prompt/" + url.PathEscape(clean) +
		"?width=" + strconv.Itoa(w) +
		"&height=" + strconv.Itoa(h) +
		"&seed=" + strconv.Itoa(seed) +
		"&model=" + url.QueryEscape(model) +
		"&enhance=true", nil
}

// Clean drops every character other than ASCII word characters, whitespace,
// commas, dots and hyphens, then trims.
func Clean(prompt string) string {
	return strings.TrimSpace(unsafeChars.ReplaceAllString(prompt, ""))
}

func (c *Client) seed() int {
	if c.Seed != nil {
		return c.Seed()
	}
	return rand.IntN(maxSeed)
}

// probe sends a HEAD request bounded by ProbeTimeout.
func (c *Client) probe(ctx context.Context, u string) error {
	timeout := c.ProbeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return err
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("probe status %d", resp.StatusCode)
	}
	return nil
}
