// Package config reads the stylist's settings from the environment.
//
// Every variable has a default. Malformed values (a duration that does not
// parse, "maybe" for a boolean) are reported instead of silently replaced,
// and Load returns all problems at once.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Completion providers understood by the stylist.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// MinAPIKeyLen is the shortest credential considered plausible. Anything
// shorter is treated as a misconfiguration.
const MinAPIKeyLen = 20

// CORSConfig lists browser origins allowed to call the API. Empty means any.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig controls Strict-Transport-Security.
type SecurityConfig struct {
	EnableHSTS bool          // ENABLE_HSTS
	HSTSMaxAge time.Duration // HSTS_MAX_AGE
}

// OTELConfig is the trace export setup.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT, host:port of a gRPC collector
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE, plaintext gRPC
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG, 0 to 1
}

// CompletionConfig selects and authenticates the chat-completion provider.
type CompletionConfig struct {
	Provider    string        // COMPLETION_PROVIDER: groq|gemini
	APIKey      string        // GROQ_API_KEY or GEMINI_API_KEY, depending on Provider
	BaseURL     string        // COMPLETION_BASE_URL; empty means the SDK default for gemini
	Model       string        // COMPLETION_MODEL
	Temperature float64       // COMPLETION_TEMPERATURE in [0..2]
	MaxTokens   int           // COMPLETION_MAX_TOKENS
	Timeout     time.Duration // COMPLETION_TIMEOUT; 0 means no client timeout
}

// ImageConfig points at the URL-prompted image generation service.
type ImageConfig struct {
	BaseURL      string        // IMAGE_BASE_URL
	Model        string        // IMAGE_MODEL
	ProbeTimeout time.Duration // IMAGE_PROBE_TIMEOUT
}

// StylistConfig bounds a single chat turn.
type StylistConfig struct {
	MaxMessageRunes int // MAX_MESSAGE_RUNES
	HistoryLimit    int // HISTORY_LIMIT
}

// Config is everything the server needs to start.
type Config struct {
	Port              string        // PORT
	ReadTimeout       time.Duration // READ_TIMEOUT
	ReadHeaderTimeout time.Duration // READ_HEADER_TIMEOUT
	WriteTimeout      time.Duration // WRITE_TIMEOUT; covers a full completion plus image probes
	IdleTimeout       time.Duration // IDLE_TIMEOUT
	MaxHeaderBytes    int           // MAX_HEADER_BYTES
	GinMode           string        // GIN_MODE; unknown values become release

	LogLevel       string // LOG_LEVEL; "warning" is read as warn
	LogPretty      bool   // LOG_PRETTY
	SwaggerEnabled bool   // SWAGGER_ENABLED
	APIBasePath    string // API_BASE_PATH, always with a leading slash

	DBPath     string // DB_PATH
	StylesPath string // STYLES_PATH

	RateRPS   float64 // RATE_RPS per client IP; 0 disables refill
	RateBurst int     // RATE_BURST

	CORS     CORSConfig
	Security SecurityConfig

	IdempotencyTTL time.Duration // IDEMPOTENCY_TTL

	Completion CompletionConfig
	Image      ImageConfig
	Stylist    StylistConfig

	OTEL OTELConfig
}

// MustLoad is Load for callers that cannot start without a config.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the environment, applies defaults and validates the result.
// The returned error joins every malformed or out-of-range setting.
func Load() (Config, error) {
	var e env
	provider := strings.ToLower(strings.TrimSpace(e.str("COMPLETION_PROVIDER", ProviderGroq)))

	cfg := Config{
		Port:              strings.TrimSpace(e.str("PORT", "8080")),
		ReadTimeout:       e.dur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: e.dur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      e.dur("WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:       e.dur("IDLE_TIMEOUT", time.Minute),
		MaxHeaderBytes:    e.integer("MAX_HEADER_BYTES", 1<<20),
		GinMode:           ginMode(e.str("GIN_MODE", "release")),

		LogLevel:       logLevel(e.str("LOG_LEVEL", "info")),
		LogPretty:      e.flag("LOG_PRETTY", false),
		SwaggerEnabled: e.flag("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(e.str("API_BASE_PATH", "/api/v1")),

		DBPath:     strings.TrimSpace(e.str("DB_PATH", "stylist.db")),
		StylesPath: e.str("STYLES_PATH", "data/styles.md"),

		RateRPS:   e.number("RATE_RPS", 2),
		RateBurst: e.integer("RATE_BURST", 5),

		CORS: CORSConfig{AllowedOrigins: splitCSV(e.str("CORS_ALLOWED_ORIGINS", ""))},
		Security: SecurityConfig{
			EnableHSTS: e.flag("ENABLE_HSTS", false),
			HSTSMaxAge: e.dur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: e.dur("IDEMPOTENCY_TTL", 24*time.Hour),

		Completion: CompletionConfig{
			Provider:    provider,
			APIKey:      strings.TrimSpace(e.str(apiKeyEnv(provider), "")),
			BaseURL:     strings.TrimRight(e.str("COMPLETION_BASE_URL", defaultBaseURLFor(provider)), "/"),
			Model:       e.str("COMPLETION_MODEL", defaultModelFor(provider)),
			Temperature: e.number("COMPLETION_TEMPERATURE", 0.7),
			MaxTokens:   e.integer("COMPLETION_MAX_TOKENS", 1000),
			Timeout:     e.dur("COMPLETION_TIMEOUT", 0),
		},
		Image: ImageConfig{
			BaseURL:      strings.TrimRight(e.str("IMAGE_BASE_URL", "https://image.pollinations.ai"), "/"),
			Model:        e.str("IMAGE_MODEL", "flux"),
			ProbeTimeout: e.dur("IMAGE_PROBE_TIMEOUT", 10*time.Second),
		},
		Stylist: StylistConfig{
			MaxMessageRunes: e.integer("MAX_MESSAGE_RUNES", 1000),
			HistoryLimit:    e.integer("HISTORY_LIMIT", 10),
		},

		OTEL: OTELConfig{
			Enabled:     e.flag("OTEL_ENABLED", false),
			Endpoint:    e.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    e.flag("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: e.str("OTEL_SERVICE_NAME", "go-stylist-backend"),
			SampleRatio: e.number("OTEL_TRACES_SAMPLER_ARG", 1),
		},
	}

	if err := errors.Join(append(e.errs, cfg.Validate())...); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every setting that is out of range.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q: want debug, info, warn, error, fatal or panic", c.LogLevel))
	}
	check(c.Port != "", "PORT must not be empty")
	check(c.ReadTimeout > 0 && c.ReadHeaderTimeout > 0 && c.WriteTimeout > 0 && c.IdleTimeout > 0,
		"timeouts must be positive durations")
	check(c.MaxHeaderBytes > 0, "MAX_HEADER_BYTES must be > 0")
	check(c.DBPath != "", "DB_PATH must not be empty")
	check(c.RateRPS >= 0, "RATE_RPS must be >= 0")
	check(c.RateBurst >= 1, "RATE_BURST must be >= 1")
	check(c.Security.HSTSMaxAge >= 0, "HSTS_MAX_AGE must be >= 0")
	check(c.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be > 0")
	check(c.OTEL.SampleRatio >= 0 && c.OTEL.SampleRatio <= 1, "OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	check(c.Image.ProbeTimeout > 0, "IMAGE_PROBE_TIMEOUT must be > 0")
	check(c.Stylist.MaxMessageRunes >= 1, "MAX_MESSAGE_RUNES must be >= 1")
	check(c.Stylist.HistoryLimit >= 0, "HISTORY_LIMIT must be >= 0")
	if err := c.Completion.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks the provider name, the credential and the sampling
// parameters. A missing or implausibly short key is rejected.
func (c CompletionConfig) Validate() error {
	var errs []error
	switch c.Provider {
	case ProviderGroq, ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("COMPLETION_PROVIDER %q: want %s or %s", c.Provider, ProviderGroq, ProviderGemini))
	}
	if len(strings.TrimSpace(c.APIKey)) < MinAPIKeyLen {
		errs = append(errs, fmt.Errorf("%s is not set, empty, or too short", apiKeyEnv(c.Provider)))
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, errors.New("COMPLETION_TEMPERATURE must be in [0,2]"))
	}
	if c.MaxTokens < 1 {
		errs = append(errs, errors.New("COMPLETION_MAX_TOKENS must be >= 1"))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("COMPLETION_TIMEOUT must be >= 0"))
	}
	return errors.Join(errs...)
}

func apiKeyEnv(provider string) string {
	if provider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "GROQ_API_KEY"
}

func defaultBaseURLFor(provider string) string {
	if provider == ProviderGemini {
		return "" // genai SDK default
	}
	return "https://api.groq.com/openai/v1"
}

func defaultModelFor(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.0-flash"
	}
	return "llama3-70b-8192"
}

func ginMode(s string) string {
	switch m := strings.ToLower(strings.TrimSpace(s)); m {
	case "debug", "release", "test":
		return m
	default:
		return "release"
	}
}

func logLevel(s string) string {
	l := strings.ToLower(strings.TrimSpace(s))
	if l == "warning" {
		return "warn"
	}
	return l
}

// env reads typed variables and collects parse failures. Unset and empty
// variables take the default.
type env struct {
	errs []error
}

func (e *env) lookup(k string) (string, bool) {
	v, ok := os.LookupEnv(k)
	return v, ok && v != ""
}

func (e *env) str(k, def string) string {
	if v, ok := e.lookup(k); ok {
		return v
	}
	return def
}

func (e *env) integer(k string, def int) int {
	return parse(e, k, def, "an integer", func(v string) (int, error) { return strconv.Atoi(strings.TrimSpace(v)) })
}

func (e *env) number(k string, def float64) float64 {
	return parse(e, k, def, "a number", func(v string) (float64, error) { return strconv.ParseFloat(strings.TrimSpace(v), 64) })
}

func (e *env) dur(k string, def time.Duration) time.Duration {
	return parse(e, k, def, "a duration like 30s", func(v string) (time.Duration, error) { return time.ParseDuration(strings.TrimSpace(v)) })
}

func (e *env) flag(k string, def bool) bool {
	return parse(e, k, def, "a boolean", func(v string) (bool, error) {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true, nil
		case "0", "false", "no", "n", "off":
			return false, nil
		}
		return false, strconv.ErrSyntax
	})
}

func parse[T any](e *env, k string, def T, want string, fn func(string) (T, error)) T {
	v, ok := e.lookup(k)
	if !ok {
		return def
	}
	out, err := fn(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s=%q: want %s", k, v, want))
		return def
	}
	return out
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeBasePath returns p with one leading slash and no trailing one.
// Empty means root.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
