// Package catalog is a read-only, in-memory catalog of menswear styles
// (grunge, techwear, old money, ...) parsed from a Markdown file, with a
// small keyword search on top.
//
// Each "## " heading starts a style. Inside a section the first paragraph is
// the summary, later paragraphs are details, "- " lines are key elements and
// an "Outfit:" line lists a sample look as comma-separated pieces.
//
// Search scores a style by Jaccard similarity between the query tokens and the
// style's tokens: score = |Q ∩ S| / |Q ∪ S|. Ties break on name. A Catalog is
// immutable after construction and safe for concurrent use.
package catalog

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Style is one catalog entry.
type Style struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Summary     string   `json:"summary"`
	Details     string   `json:"details,omitempty"`
	KeyElements []string `json:"key_elements"`
	Outfit      []string `json:"outfit,omitempty"`
}

// Result is a ranked style with its similarity score.
type Result struct {
	Style Style   `json:"style"`
	Score float64 `json:"score"`
}

// Searcher is what the HTTP layer needs from a catalog.
type Searcher interface {
	All() []Style
	Get(slug string) (Style, bool)
	TopK(query string, k int) []Result
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	stopwords map[string]struct{}
	maxStyles int
}

func defaultConfig() config {
	return config{stopwords: defaultStopwords}
}

// WithStopwords replaces the default English stop-word list.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		c.stopwords = m
	}
}

// WithMaxStyles stops parsing after n styles.
func WithMaxStyles(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxStyles = n
		}
	}
}

// ----------------------------------------------------------------------------
// Construction

type entry struct {
	style  Style
	tokens map[string]struct{}
}

// Catalog holds the parsed styles in file order.
type Catalog struct {
	cfg     config
	entries []entry
	bySlug  map[string]int
}

var _ Searcher = (*Catalog)(nil)

// Load parses the Markdown catalog at path.
func Load(path string, opts ...Option) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(b), opts...)
}

// Parse builds a Catalog from Markdown read from r.
func Parse(r io.Reader, opts ...Option) (*Catalog, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	var (
		styles []Style
		cur    *Style
		para   []string
		paras  []string
	)
	flushPara := func() {
		if len(para) > 0 {
			paras = append(paras, strings.Join(para, " "))
			para = para[:0]
		}
	}
	flushStyle := func() {
		if cur == nil {
			return
		}
		flushPara()
		if len(paras) > 0 {
			cur.Summary = paras[0]
			cur.Details = strings.Join(paras[1:], "\n\n")
		}
		styles = append(styles, *cur)
		cur, paras = nil, nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "## "):
			flushStyle()
			if cfg.maxStyles > 0 && len(styles) >= cfg.maxStyles {
				return build(styles, cfg), nil
			}
			name := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			cur = &Style{Name: name, Slug: Slugify(name)}
		case cur == nil:
			// preamble before the first style
		case line == "":
			flushPara()
		case strings.HasPrefix(line, "- "):
			flushPara()
			if el := strings.TrimSpace(line[2:]); el != "" {
				cur.KeyElements = append(cur.KeyElements, el)
			}
		case strings.HasPrefix(strings.ToLower(line), "outfit:"):
			flushPara()
			cur.Outfit = splitPieces(line[len("outfit:"):])
		default:
			para = append(para, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flushStyle()
	return build(styles, cfg), nil
}

func build(styles []Style, cfg config) *Catalog {
	c := &Catalog{cfg: cfg, entries: make([]entry, 0, len(styles)), bySlug: make(map[string]int, len(styles))}
	for _, s := range styles {
		if s.Slug == "" {
			continue
		}
		if _, dup := c.bySlug[s.Slug]; dup {
			continue
		}
		text := strings.Join([]string{s.Name, s.Summary, s.Details, strings.Join(s.KeyElements, " "), strings.Join(s.Outfit, " ")}, " ")
		c.bySlug[s.Slug] = len(c.entries)
		c.entries = append(c.entries, entry{style: s, tokens: tokenize(text, cfg.stopwords)})
	}
	return c
}

// ----------------------------------------------------------------------------
// Queries

// All returns every style in file order.
func (c *Catalog) All() []Style {
	out := make([]Style, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.style
	}
	return out
}

// Get looks a style up by slug.
func (c *Catalog) Get(slug string) (Style, bool) {
	i, ok := c.bySlug[Slugify(slug)]
	if !ok {
		return Style{}, false
	}
	return c.entries[i].style, true
}

// TopK returns up to k styles with a positive score, best first. k <= 0
// means 3.
func (c *Catalog) TopK(q string, k int) []Result {
	if len(c.entries) == 0 || strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 3
	}
	qTokens := tokenize(q, c.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}

	out := make([]Result, 0, len(c.entries))
	for _, e := range c.entries {
		over := overlap(qTokens, e.tokens)
		if over == 0 {
			continue
		}
		union := float64(len(qTokens) + len(e.tokens) - over)
		out = append(out, Result{Style: e.style, Score: float64(over) / union})
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].Style.Name < out[b].Style.Name
	})
	if k < len(out) {
		out = out[:k]
	}
	return out
}

// ----------------------------------------------------------------------------
// Helpers

var (
	wordRE    = regexp.MustCompile(`\p{L}+\p{N}*`)
	nonSlugRE = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify lowercases s and joins its alphanumeric runs with '-'.
// "Old Money / Quiet Luxury" becomes "old-money-quiet-luxury".
func Slugify(s string) string {
	return strings.Trim(nonSlugRE.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func splitPieces(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, skip := stop[w]; skip {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

var defaultStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "the": {}, "of": {}, "to": {}, "in": {}, "on": {},
	"for": {}, "with": {}, "or": {}, "is": {}, "it": {}, "that": {}, "this": {},
	"i": {}, "me": {}, "my": {}, "what": {}, "how": {}, "should": {}, "wear": {},
	"look": {}, "style": {}, "than": {}, "over": {}, "often": {},
}
