// Package grooming holds the skincare and haircare products the stylist
// recommends, keyed by skin and scalp type.
//
// The table is an embedded, versioned YAML file (products.yaml). A Table is
// immutable after Parse and safe for concurrent use.
package grooming

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Any is the filter value, and the product type, that matches every type.
const Any = "all"

//go:embed products.yaml
var productsYAML []byte

var defaultTable = MustParse(productsYAML)

// Product is one recommendable item. Types lists the skin types (skincare)
// or scalp types (haircare) it suits.
type Product struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Brand       string   `yaml:"brand" json:"brand"`
	Description string   `yaml:"description" json:"description"`
	Price       float64  `yaml:"price" json:"price"`
	ImageURL    string   `yaml:"image" json:"image_url"`
	Link        string   `yaml:"link" json:"link,omitempty"`
	Types       []string `yaml:"types" json:"types"`
	Rating      float64  `yaml:"rating" json:"rating"`
	Tags        []string `yaml:"tags" json:"tags"`
}

// Routine is a named list of care steps.
type Routine struct {
	Name  string   `yaml:"name" json:"name"`
	Steps []string `yaml:"steps" json:"steps"`
}

type document struct {
	Version      int       `yaml:"version"`
	SkinTypes    []string  `yaml:"skin_types"`
	ScalpTypes   []string  `yaml:"scalp_types"`
	Skincare     []Product `yaml:"skincare"`
	Haircare     []Product `yaml:"haircare"`
	SkinRoutines []Routine `yaml:"skin_routines"`
	HairRoutines []Routine `yaml:"hair_routines"`
}

// Table is a parsed product table.
type Table struct {
	version      int
	skinTypes    []string
	scalpTypes   []string
	skincare     []Product
	haircare     []Product
	skinRoutines []Routine
	hairRoutines []Routine
}

// Default returns the embedded table.
func Default() *Table { return defaultTable }

// MustParse is Parse that panics on error.
func MustParse(b []byte) *Table {
	t, err := Parse(b)
	if err != nil {
		panic(fmt.Sprintf("grooming: %v", err))
	}
	return t
}

// Parse decodes and validates a product table. Type names are lowercased,
// and every product type must be declared or be "all".
func Parse(b []byte) (*Table, error) {
	var d document
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode grooming table: %w", err)
	}
	if d.Version < 1 {
		return nil, errors.New("grooming table version must be >= 1")
	}

	t := &Table{
		version:      d.Version,
		skinTypes:    normalizeAll(d.SkinTypes),
		scalpTypes:   normalizeAll(d.ScalpTypes),
		skinRoutines: d.SkinRoutines,
		hairRoutines: d.HairRoutines,
	}
	if len(t.skinTypes) == 0 || len(t.scalpTypes) == 0 {
		return nil, errors.New("skin_types and scalp_types must not be empty")
	}

	seen := make(map[string]struct{})
	var err error
	if t.skincare, err = checkProducts("skincare", d.Skincare, t.skinTypes, seen); err != nil {
		return nil, err
	}
	if t.haircare, err = checkProducts("haircare", d.Haircare, t.scalpTypes, seen); err != nil {
		return nil, err
	}
	return t, nil
}

func checkProducts(section string, ps []Product, declared []string, seen map[string]struct{}) ([]Product, error) {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" || strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%s: product needs an id and a name", section)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate product id %q", section, p.ID)
		}
		seen[p.ID] = struct{}{}

		p.Types = normalizeAll(p.Types)
		if len(p.Types) == 0 {
			return nil, fmt.Errorf("%s: product %q lists no types", section, p.ID)
		}
		for _, ty := range p.Types {
			if ty != Any && !contains(declared, ty) {
				return nil, fmt.Errorf("%s: product %q has undeclared type %q", section, p.ID, ty)
			}
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		out = append(out, p)
	}
	return out, nil
}

// Version is the table's version number.
func (t *Table) Version() int { return t.version }

// SkinTypes lists the declared skin types in table order.
func (t *Table) SkinTypes() []string { return append([]string(nil), t.skinTypes...) }

// ScalpTypes lists the declared scalp types in table order.
func (t *Table) ScalpTypes() []string { return append([]string(nil), t.scalpTypes...) }

// KnownSkinType reports whether s, after Normalize, is "all" or declared.
func (t *Table) KnownSkinType(s string) bool {
	s = Normalize(s)
	return s == Any || contains(t.skinTypes, s)
}

// KnownScalpType reports whether s, after Normalize, is "all" or declared.
func (t *Table) KnownScalpType(s string) bool {
	s = Normalize(s)
	return s == Any || contains(t.scalpTypes, s)
}

// Skincare returns the skincare products for skinType in table order.
func (t *Table) Skincare(skinType string) []Product { return filter(t.skincare, skinType) }

// Haircare returns the haircare products for scalpType in table order.
func (t *Table) Haircare(scalpType string) []Product { return filter(t.haircare, scalpType) }

// SkinRoutines returns the skincare routines.
func (t *Table) SkinRoutines() []Routine { return append([]Routine(nil), t.skinRoutines...) }

// HairRoutines returns the haircare routines.
func (t *Table) HairRoutines() []Routine { return append([]Routine(nil), t.hairRoutines...) }

// filter keeps products suited to typ. "all" (or empty) keeps everything;
// otherwise a product matches when it lists typ or "all".
func filter(ps []Product, typ string) []Product {
	typ = Normalize(typ)
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		if typ == Any || contains(p.Types, typ) || contains(p.Types, Any) {
			out = append(out, p)
		}
	}
	return out
}

// Normalize lowercases and trims a type name. Empty means "all".
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Any
	}
	return s
}

func normalizeAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" && !contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
