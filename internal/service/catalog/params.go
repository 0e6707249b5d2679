package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/store"
)

// Limits bounds the pagination parameters accepted from clients.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
	MaxPage      int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{DefaultLimit: 10, MaxLimit: 100, MaxPage: 10000}
}

// ListParams are the normalized inputs of ListProducts.
type ListParams struct {
	Category string
	SortBy   string
	Order    store.Direction
	Limit    int
	Page     int
	// Cursor is an opaque token from a previous page. When set, Page is
	// ignored.
	Cursor string
}

// SearchParams are the normalized inputs of SearchProducts.
type SearchParams struct {
	// Term is the lowercase keyword to match.
	Term string
}

// FilterParams are the normalized inputs of FilterProducts.
type FilterParams struct {
	MinPrice float64
	// MaxPrice is +Inf when no upper bound applies.
	MaxPrice float64
	Brand    string
	Sort     string
}

// ParseListParams extracts list parameters from a query string. Malformed or
// non-positive limit and page values fall back to their defaults; limit is
// clamped to the maximum.
func ParseListParams(q url.Values, limits Limits) (ListParams, error) {
	p := ListParams{
		Category: q.Get("category"),
		SortBy:   strings.TrimSpace(q.Get("sortBy")),
		Limit:    positiveInt(q.Get("limit"), limits.DefaultLimit),
		Page:     positiveInt(q.Get("page"), 1),
		Cursor:   strings.TrimSpace(q.Get("cursor")),
	}
	if p.SortBy == "" {
		p.SortBy = domain.FieldPrice
	}
	if limits.MaxLimit > 0 && p.Limit > limits.MaxLimit {
		p.Limit = limits.MaxLimit
	}
	if limits.MaxPage > 0 && p.Page > limits.MaxPage {
		return ListParams{}, invalidQuery("page must not exceed %d", limits.MaxPage)
	}

	order, err := parseOrder(q.Get("order"))
	if err != nil {
		return ListParams{}, err
	}
	p.Order = order

	return p, nil
}

// ParseSearchParams extracts the search term. A missing or blank q is an
// ErrInvalidQuery.
func ParseSearchParams(q url.Values) (SearchParams, error) {
	term := strings.TrimSpace(q.Get("q"))
	if term == "" {
		return SearchParams{}, invalidQuery("search term q is required")
	}
	return SearchParams{Term: strings.ToLower(term)}, nil
}

// ParseFilterParams extracts filter parameters. Malformed price bounds fall
// back to [0, +Inf).
func ParseFilterParams(q url.Values) FilterParams {
	p := FilterParams{
		MinPrice: price(q.Get("minPrice"), 0),
		MaxPrice: price(q.Get("maxPrice"), math.Inf(1)),
		Brand:    strings.ToLower(strings.TrimSpace(q.Get("brand"))),
		Sort:     strings.TrimSpace(q.Get("sort")),
	}
	if p.Sort == "" {
		p.Sort = domain.FieldPrice
	}
	return p
}

func parseOrder(raw string) (store.Direction, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return store.Ascending, nil
	}
	d := store.Direction(raw)
	if !d.Valid() {
		return "", invalidQuery("order must be asc or desc, got %q", raw)
	}
	return d, nil
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func price(raw string, fallback float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}
