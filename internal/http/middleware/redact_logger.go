package middleware

import (
	"net/http"
	"regexp"
	"strings"
)

// RedactOptions adds header names whose values are replaced wholesale. The
// built-in set covers Authorization, Cookie, Set-Cookie, apikey and
// X-API-Key.
type RedactOptions struct {
	MaskHeaders []string
}

// Redactor scrubs request metadata before it reaches the logs: provider API
// keys, ids, e-mail addresses and phone numbers. Safe for concurrent use.
type Redactor struct {
	masked map[string]struct{}
}

// Patterns are applied in this order. Keys first, since a long key can
// contain digit runs the phone pattern would otherwise eat; UUIDs before
// phones for the same reason.
var redactions = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\bgsk_[A-Za-z0-9]{16,}\b`), "[REDACTED:key]"},
	{regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{30,}`), "[REDACTED:key]"},
	{regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._\-]+`), "Bearer [REDACTED:key]"},
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

// NewRedactor builds a Redactor masking the default headers plus opts.
func NewRedactor(opts RedactOptions) *Redactor {
	masked := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
		"apikey":        {},
		"x-api-key":     {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			masked[h] = struct{}{}
		}
	}
	return &Redactor{masked: masked}
}

// String returns s with every sensitive match replaced.
func (r *Redactor) String(s string) string {
	if s == "" {
		return s
	}
	for _, p := range redactions {
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return s
}

// Headers flattens h into a loggable map. Masked headers read "[REDACTED]".
func (r *Redactor) Headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := r.masked[strings.ToLower(k)]; ok {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = r.String(strings.Join(vv, ", "))
	}
	return out
}
