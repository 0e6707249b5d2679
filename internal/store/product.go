package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/phrazzld/catalog-api/internal/domain"
)

// Operator is a document predicate operator.
type Operator string

const (
	// OpEqual matches documents whose field equals the value.
	OpEqual Operator = "=="
	// OpGreaterOrEqual matches documents whose field is >= the value. Only
	// fields holding the same JSON type as the value can match.
	OpGreaterOrEqual Operator = ">="
	// OpLessOrEqual matches documents whose field is <= the value. Only
	// fields holding the same JSON type as the value can match.
	OpLessOrEqual Operator = "<="
	// OpArrayContains matches documents whose array field holds the value as
	// an element.
	OpArrayContains Operator = "array-contains"
)

// Direction is the ordering direction of a query.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Ascending || d == Descending
}

// Filter is a single predicate on a document field.
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Cursor identifies a position in an ordered result: the order-by value of
// the last seen document and its identifier, which breaks ties.
type Cursor struct {
	ID    string
	Value json.RawMessage
}

// ProductQuery describes an ordered, filtered, bounded query over the
// product collection. Filters are AND-combined.
//
// When OrderBy is set, documents without that field are excluded and results
// are ordered by the field then by identifier, both in Direction. When
// OrderBy is empty, results are ordered by identifier ascending.
// A Limit of zero means unbounded.
type ProductQuery struct {
	Filters    []Filter
	OrderBy    string
	Direction  Direction
	Limit      int
	StartAfter *Cursor
}

// Where returns a copy of q with an extra filter.
func (q ProductQuery) Where(field string, op Operator, value any) ProductQuery {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// Validate checks the query for structural problems.
func (q ProductQuery) Validate() error {
	for _, f := range q.Filters {
		if f.Field == "" {
			return fmt.Errorf("%w: filter with empty field", ErrInvalidQuery)
		}
		switch f.Op {
		case OpEqual, OpGreaterOrEqual, OpLessOrEqual, OpArrayContains:
		default:
			return fmt.Errorf("%w: unsupported operator %q", ErrInvalidQuery, f.Op)
		}
	}
	if q.OrderBy != "" && !q.Direction.Valid() {
		return fmt.Errorf("%w: unsupported direction %q", ErrInvalidQuery, q.Direction)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}
	if q.StartAfter != nil {
		if q.StartAfter.ID == "" {
			return fmt.Errorf("%w: cursor without identifier", ErrInvalidQuery)
		}
		if q.OrderBy != "" && len(q.StartAfter.Value) == 0 {
			return fmt.Errorf("%w: cursor without %s value", ErrInvalidQuery, q.OrderBy)
		}
	}
	return nil
}

// CursorAt builds the cursor positioned on p for a query ordered by orderBy.
func CursorAt(p *domain.Product, orderBy string) (*Cursor, error) {
	c := &Cursor{ID: p.ID}
	if orderBy == "" {
		return c, nil
	}
	v, ok := p.Get(orderBy)
	if !ok {
		return nil, fmt.Errorf("%w: product %s has no %s field", ErrInvalidQuery, p.ID, orderBy)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cursor value: %w", err)
	}
	c.Value = raw
	return c, nil
}

// ProductReader is the read side of the product collection used by the
// request path.
type ProductReader interface {
	// GetByID retrieves a product by its identifier.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// Query runs an ordered, filtered, bounded query.
	// Returns ErrInvalidQuery for malformed queries.
	Query(ctx context.Context, q ProductQuery) ([]*domain.Product, error)
}

// ProductStore is the full product collection, including the write
// operations used by maintenance routines and bulk import.
type ProductStore interface {
	ProductReader

	// SetSearchKeywords overwrites the derived keyword field of one product.
	// Returns ErrProductNotFound if the product does not exist.
	SetSearchKeywords(ctx context.Context, id string, keywords []string) error

	// Upsert inserts the product or replaces the document of an existing one.
	// Returns ErrInvalidEntity if the product fails validation.
	Upsert(ctx context.Context, p *domain.Product) error

	// WithTx returns a ProductStore bound to the given transaction.
	WithTx(tx *sql.Tx) ProductStore
}
