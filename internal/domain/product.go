package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Field names consumed by the catalog. Documents may carry any other fields;
// they are passed through untouched.
const (
	FieldID             = "id"
	FieldTitle          = "title"
	FieldPrice          = "price"
	FieldBrand          = "brand"
	FieldCategory       = "category"
	FieldSearchKeywords = "searchKeywords"
)

// Product is an opaque catalog document keyed by a provider-assigned
// identifier. Fields holds the decoded document body; it never contains the
// identifier itself.
type Product struct {
	ID     string
	Fields map[string]any
}

// NewProduct builds a Product from a decoded document body. An "id" entry in
// fields is dropped in favor of id.
func NewProduct(id string, fields map[string]any) *Product {
	doc := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == FieldID {
			continue
		}
		doc[k] = v
	}
	return &Product{ID: id, Fields: doc}
}

// Validate checks the rules every stored product must satisfy.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: %w: empty identifier", ErrValidation, ErrInvalidID)
	}
	return nil
}

// Get returns the raw value of a document field.
func (p *Product) Get(field string) (any, bool) {
	if p.Fields == nil {
		return nil, false
	}
	v, ok := p.Fields[field]
	return v, ok
}

// Title returns the product title if the document has a string title.
func (p *Product) Title() (string, bool) {
	v, ok := p.Get(FieldTitle)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SearchKeywords returns the stored derived keyword set. Non-string entries
// are skipped.
func (p *Product) SearchKeywords() []string {
	v, ok := p.Get(FieldSearchKeywords)
	if !ok {
		return nil
	}
	switch kw := v.(type) {
	case []string:
		return kw
	case []any:
		out := make([]string, 0, len(kw))
		for _, item := range kw {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON renders the document body with the identifier under "id".
func (p *Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Fields)+1)
	for k, v := range p.Fields {
		out[k] = v
	}
	out[FieldID] = p.ID
	return json.Marshal(out)
}

// UnmarshalJSON reads a flat document, lifting "id" into the identifier.
// A missing or non-string id leaves ID empty.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, _ := raw[FieldID].(string)
	*p = *NewProduct(id, raw)
	return nil
}

// DeriveSearchKeywords returns the lowercase whitespace-separated tokens of
// title, deduplicated in first-seen order.
func DeriveSearchKeywords(title string) []string {
	tokens := strings.Fields(strings.ToLower(title))
	keywords := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}

// KeywordsEqual reports whether two keyword lists hold the same set.
func KeywordsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}
