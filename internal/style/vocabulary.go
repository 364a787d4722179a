// Package style turns free-form stylist advice into the short, tag-like
// prompts the image service understands, and builds the stylist's system
// prompt.
//
// Everything here is pure: the same advice always yields the same tags in the
// same order. The word lists, outfit markers and prompt templates live in an
// embedded, versioned YAML table (vocabulary.yaml) so they can change without
// touching the matching code.
package style

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var vocabularyYAML []byte

// Vocabulary is a parsed, validated vocabulary table.
type Vocabulary struct {
	Version     int            `yaml:"version"`
	KeywordSet  KeywordTable   `yaml:"keywords"`
	OccasionSet OccasionTable  `yaml:"occasions"`
	Outfit      OutfitTable    `yaml:"outfit"`
	Prompts     PromptTemplate `yaml:"prompts"`

	terms   []string // flattened KeywordSet.Groups, in scan order
	markers []marker
}

// KeywordTable lists clothing, color, style, pattern and accessory terms.
type KeywordTable struct {
	Max      int         `yaml:"max"`
	Fallback string      `yaml:"fallback"`
	Groups   []TermGroup `yaml:"groups"`
}

// TermGroup is a named, ordered list of terms.
type TermGroup struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

// OccasionTable maps trigger words to occasion tags.
type OccasionTable struct {
	Fallback string         `yaml:"fallback"`
	Rules    []OccasionRule `yaml:"rules"`
}

// OccasionRule emits Tag when any of its words occurs in the text.
type OccasionRule struct {
	Tag string   `yaml:"tag"`
	Any []string `yaml:"any"`
}

// OutfitTable configures primary-outfit extraction.
type OutfitTable struct {
	MaxRunes int            `yaml:"max_runes"`
	Markers  []OutfitMarker `yaml:"markers"`
}

// OutfitMarker is a pair of case-insensitive regular expressions: where a
// snippet starts and what ends it (besides "##" and end of text).
type OutfitMarker struct {
	Start string `yaml:"start"`
	Until string `yaml:"until"`
}

// PromptTemplate holds the fixed phrases image prompts are assembled from.
type PromptTemplate struct {
	Subject               string `yaml:"subject"`
	ImageSuffix           string `yaml:"image_suffix"`
	TryOnKeywordsSuffix   string `yaml:"tryon_keywords_suffix"`
	TryOnKeywordsFallback string `yaml:"tryon_keywords_fallback"`
	TryOnPrefix           string `yaml:"tryon_prefix"`
	TryOnSuffix           string `yaml:"tryon_suffix"`
	Generic               string `yaml:"generic"`
}

type marker struct {
	start *regexp.Regexp
	until *regexp.Regexp
}

var defaultVocabulary = MustParse(vocabularyYAML)

// Default returns the embedded vocabulary.
func Default() *Vocabulary { return defaultVocabulary }

// MustParse is Parse that panics on error.
func MustParse(b []byte) *Vocabulary {
	v, err := Parse(b)
	if err != nil {
		panic(fmt.Sprintf("style: %v", err))
	}
	return v
}

// Parse decodes and validates a vocabulary table and compiles its markers.
func Parse(b []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	if v.Version < 1 {
		return nil, errors.New("vocabulary version must be >= 1")
	}
	if v.KeywordSet.Max < 1 {
		return nil, errors.New("keywords.max must be >= 1")
	}
	if v.Outfit.MaxRunes < 1 {
		return nil, errors.New("outfit.max_runes must be >= 1")
	}

	for _, g := range v.KeywordSet.Groups {
		for _, t := range g.Terms {
			t = strings.ToLower(strings.TrimSpace(t))
			if t != "" {
				v.terms = append(v.terms, t)
			}
		}
	}
	if len(v.terms) == 0 {
		return nil, errors.New("keywords.groups has no terms")
	}

	for i, m := range v.Outfit.Markers {
		start, err := regexp.Compile(`(?is)` + m.Start + `[:\-\s]*`)
		if err != nil {
			return nil, fmt.Errorf("outfit.markers[%d].start: %w", i, err)
		}
		until, err := regexp.Compile(`(?is)(?:` + m.Until + `)|##`)
		if err != nil {
			return nil, fmt.Errorf("outfit.markers[%d].until: %w", i, err)
		}
		v.markers = append(v.markers, marker{start: start, until: until})
	}
	return &v, nil
}

// Keywords returns the vocabulary terms found in text, in table order,
// at most KeywordSet.Max of them. Matching is a case-insensitive substring
// test, so "blazers" yields "blazer".
func (v *Vocabulary) Keywords(text string) []string {
	lower := strings.ToLower(text)
	out := make([]string, 0, v.KeywordSet.Max)
	for _, t := range v.terms {
		if strings.Contains(lower, t) {
			out = append(out, t)
			if len(out) == v.KeywordSet.Max {
				break
			}
		}
	}
	return out
}

// KeywordPhrase joins Keywords with ", " or returns the fallback phrase.
func (v *Vocabulary) KeywordPhrase(text string) string {
	if kw := v.Keywords(text); len(kw) > 0 {
		return strings.Join(kw, ", ")
	}
	return v.KeywordSet.Fallback
}

// Occasions returns the occasion tags triggered by text, in rule order.
func (v *Vocabulary) Occasions(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, r := range v.OccasionSet.Rules {
		for _, w := range r.Any {
			if strings.Contains(lower, strings.ToLower(w)) {
				out = append(out, r.Tag)
				break
			}
		}
	}
	return out
}

// OccasionPhrase joins Occasions with ", " or returns the fallback phrase.
func (v *Vocabulary) OccasionPhrase(text string) string {
	if occ := v.Occasions(text); len(occ) > 0 {
		return strings.Join(occ, ", ")
	}
	return v.OccasionSet.Fallback
}

// PrimaryOutfit extracts the first outfit the advice describes.
//
// Markers are tried in order. For a marker, only its first occurrence counts:
// the snippet after it is trimmed and, when non-empty, returned cut to
// Outfit.MaxRunes. If that snippet is empty the next marker is tried. With no
// usable marker the first MaxRunes runes of the advice are returned.
func (v *Vocabulary) PrimaryOutfit(advice string) string {
	for _, m := range v.markers {
		loc := m.start.FindStringIndex(advice)
		if loc == nil {
			continue
		}
		rest := advice[loc[1]:]
		if end := m.until.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}
		if s := strings.TrimSpace(rest); s != "" {
			return truncateRunes(s, v.Outfit.MaxRunes)
		}
	}
	return truncateRunes(advice, v.Outfit.MaxRunes)
}

// ImagePrompt builds the outfit image prompt for a stylist reply: the
// keywords of its primary outfit plus the occasions of the whole reply.
func (v *Vocabulary) ImagePrompt(advice string) string {
	p := v.Prompts
	return joinPhrases(p.Subject, v.KeywordPhrase(v.PrimaryOutfit(advice)), v.OccasionPhrase(advice), p.ImageSuffix)
}

// TryOnPrompt builds the virtual try-on prompt from the keywords of the
// whole reply.
func (v *Vocabulary) TryOnPrompt(advice string) string {
	p := v.Prompts
	wearing := joinPhrases(p.Subject, p.TryOnKeywordsFallback)
	if kw := v.Keywords(advice); len(kw) > 0 {
		wearing = joinPhrases(p.Subject, strings.Join(kw, ", "), p.TryOnKeywordsSuffix)
	}
	return p.TryOnPrefix + " " + joinPhrases(wearing, p.TryOnSuffix)
}

// GenericPrompt is the substitute prompt used when a tailored one cannot be
// turned into a request.
func (v *Vocabulary) GenericPrompt() string { return v.Prompts.Generic }

func joinPhrases(parts ...string) string { return strings.Join(parts, ", ") }

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
