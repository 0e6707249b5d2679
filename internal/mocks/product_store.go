package mocks

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/store"
)

// MockProductStore implements store.ProductStore for testing
type MockProductStore struct {
	// Function fields for customizable behavior
	GetByIDFn           func(ctx context.Context, id string) (*domain.Product, error)
	QueryFn             func(ctx context.Context, q store.ProductQuery) ([]*domain.Product, error)
	SetSearchKeywordsFn func(ctx context.Context, id string, keywords []string) error
	UpsertFn            func(ctx context.Context, p *domain.Product) error

	mu       sync.RWMutex
	products map[string]*domain.Product

	// Recorded calls
	Queries          []store.ProductQuery
	KeywordWrites    map[string]int
	KeywordWriteErrs map[string]error
}

// NewMockProductStore creates a store holding copies of the given products.
func NewMockProductStore(products ...*domain.Product) *MockProductStore {
	m := &MockProductStore{
		products:         make(map[string]*domain.Product, len(products)),
		KeywordWrites:    make(map[string]int),
		KeywordWriteErrs: make(map[string]error),
	}
	for _, p := range products {
		m.products[p.ID] = cloneProduct(p)
	}
	return m
}

var _ store.ProductStore = (*MockProductStore)(nil)

// GetByID implements the ProductStore interface
func (m *MockProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

// Query implements the ProductStore interface
func (m *MockProductStore) Query(ctx context.Context, q store.ProductQuery) ([]*domain.Product, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, q)
	m.mu.Unlock()

	if m.QueryFn != nil {
		return m.QueryFn(ctx, q)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var startAfter any
	if q.StartAfter != nil && q.OrderBy != "" {
		v, err := decodeValue(q.StartAfter.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: bad cursor value: %v", store.ErrInvalidQuery, err)
		}
		startAfter = v
	}

	type candidate struct {
		product *domain.Product
		key     any
	}

	m.mu.RLock()
	var matched []candidate
	for _, p := range m.products {
		doc := normalize(p.Fields)
		fields, _ := doc.(map[string]any)
		if !matchesAll(fields, q.Filters) {
			continue
		}
		var key any
		if q.OrderBy != "" {
			v, ok := fields[q.OrderBy]
			if !ok {
				continue
			}
			key = v
		}
		matched = append(matched, candidate{product: cloneProduct(p), key: key})
	}
	m.mu.RUnlock()

	desc := q.OrderBy != "" && q.Direction == store.Descending
	order := func(a, b candidate) int {
		c := 0
		if q.OrderBy != "" {
			c = compareValues(a.key, b.key)
		}
		if c == 0 {
			c = strings.Compare(a.product.ID, b.product.ID)
		}
		if desc {
			return -c
		}
		return c
	}
	slices.SortFunc(matched, order)

	result := make([]*domain.Product, 0, len(matched))
	for _, c := range matched {
		if q.StartAfter != nil {
			cursor := candidate{product: &domain.Product{ID: q.StartAfter.ID}, key: startAfter}
			if order(c, cursor) <= 0 {
				continue
			}
		}
		result = append(result, c.product)
		if q.Limit > 0 && len(result) == q.Limit {
			break
		}
	}
	return result, nil
}

// SetSearchKeywords implements the ProductStore interface
func (m *MockProductStore) SetSearchKeywords(ctx context.Context, id string, keywords []string) error {
	if m.SetSearchKeywordsFn != nil {
		return m.SetSearchKeywordsFn(ctx, id, keywords)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.KeywordWriteErrs[id]; err != nil {
		return err
	}
	p, ok := m.products[id]
	if !ok {
		return store.ErrProductNotFound
	}
	p.Fields[domain.FieldSearchKeywords] = slices.Clone(keywords)
	m.KeywordWrites[id]++
	return nil
}

// Upsert implements the ProductStore interface
func (m *MockProductStore) Upsert(ctx context.Context, p *domain.Product) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, p)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = cloneProduct(p)
	return nil
}

// WithTx implements the ProductStore interface. The mock has no
// transactions; writes apply immediately.
func (m *MockProductStore) WithTx(_ *sql.Tx) store.ProductStore {
	return m
}

// Product returns a copy of a stored product, or nil.
func (m *MockProductStore) Product(id string) *domain.Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil
	}
	return cloneProduct(p)
}

// Len returns the number of stored products.
func (m *MockProductStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products)
}

func cloneProduct(p *domain.Product) *domain.Product {
	fields := maps.Clone(p.Fields)
	if fields == nil {
		fields = map[string]any{}
	}
	return &domain.Product{ID: p.ID, Fields: fields}
}

func matchesAll(fields map[string]any, filters []store.Filter) bool {
	for _, f := range filters {
		if !matches(fields, f) {
			return false
		}
	}
	return true
}

func matches(fields map[string]any, f store.Filter) bool {
	v, ok := fields[f.Field]
	if !ok {
		return false
	}
	want := normalize(f.Value)

	switch f.Op {
	case store.OpEqual:
		return typeRank(v) == typeRank(want) && compareValues(v, want) == 0
	case store.OpGreaterOrEqual:
		return typeRank(v) == typeRank(want) && compareValues(v, want) >= 0
	case store.OpLessOrEqual:
		return typeRank(v) == typeRank(want) && compareValues(v, want) <= 0
	case store.OpArrayContains:
		arr, ok := v.([]any)
		if !ok {
			return false
		}
		for _, item := range arr {
			if typeRank(item) == typeRank(want) && compareValues(item, want) == 0 {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// normalize converts v to its JSON-decoded form with json.Number numbers.
func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	out, err := decodeValue(raw)
	if err != nil {
		return nil
	}
	return out
}

func decodeValue(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// typeRank orders JSON types the way jsonb does:
// null < string < number < boolean < array < object.
func typeRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case string:
		return 1
	case json.Number:
		return 2
	case bool:
		return 3
	case []any:
		return 4
	default:
		return 5
	}
}

func compareValues(a, b any) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		return ra - rb
	}

	switch x := a.(type) {
	case string:
		return strings.Compare(x, b.(string))
	case json.Number:
		fx, _ := x.Float64()
		fy, _ := b.(json.Number).Float64()
		switch {
		case fx < fy:
			return -1
		case fx > fy:
			return 1
		}
		return 0
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case []any:
		y := b.([]any)
		if len(x) != len(y) {
			return len(x) - len(y)
		}
		for i := range x {
			if c := compareValues(x[i], y[i]); c != 0 {
				return c
			}
		}
		return 0
	case nil:
		return 0
	default:
		ja, _ := json.Marshal(a)
		jb, _ := json.Marshal(b)
		return bytes.Compare(ja, jb)
	}
}
