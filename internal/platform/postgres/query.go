package postgres

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/phrazzld/catalog-api/internal/store"
)

const selectProducts = "SELECT id, doc FROM products"

// queryBuilder accumulates positional arguments for a single statement.
type queryBuilder struct {
	args []any
}

// arg registers v and returns its placeholder.
func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// jsonArg registers v encoded as JSON text and returns a jsonb placeholder.
func (b *queryBuilder) jsonArg(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: cannot encode %T value: %v", store.ErrInvalidQuery, v, err)
	}
	return b.arg(string(raw)) + "::jsonb", nil
}

// fieldRef returns the jsonb expression for a top-level document field.
// The field name is always bound as a parameter, never interpolated.
func (b *queryBuilder) fieldRef(field string) string {
	return "doc -> " + b.arg(field) + "::text"
}

// buildProductQuery translates a document query into SQL over the products
// table. Ordering follows jsonb comparison semantics with the identifier as
// tiebreaker in the same direction.
func buildProductQuery(q store.ProductQuery) (string, []any, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	b := &queryBuilder{}
	var where []string

	for _, f := range q.Filters {
		clause, err := b.filterClause(f)
		if err != nil {
			return "", nil, err
		}
		where = append(where, clause)
	}

	var orderBy string
	if q.OrderBy != "" {
		field := b.arg(q.OrderBy) + "::text"
		ref := "doc -> " + field
		where = append(where, "doc ? "+field)

		dir, cmp := "ASC", ">"
		if q.Direction == store.Descending {
			dir, cmp = "DESC", "<"
		}

		if q.StartAfter != nil {
			value := b.arg(string(q.StartAfter.Value)) + "::jsonb"
			id := b.arg(q.StartAfter.ID) + "::text"
			where = append(where, fmt.Sprintf("(%s, id) %s (%s, %s)", ref, cmp, value, id))
		}
		orderBy = fmt.Sprintf("%s %s, id %s", ref, dir, dir)
	} else {
		if q.StartAfter != nil {
			where = append(where, "id > "+b.arg(q.StartAfter.ID)+"::text")
		}
		orderBy = "id ASC"
	}

	var sb strings.Builder
	sb.WriteString(selectProducts)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy)
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.arg(q.Limit))
	}

	return sb.String(), b.args, nil
}

func (b *queryBuilder) filterClause(f store.Filter) (string, error) {
	switch f.Op {
	case store.OpEqual:
		ref := b.fieldRef(f.Field)
		value, err := b.jsonArg(f.Value)
		if err != nil {
			return "", err
		}
		return ref + " = " + value, nil

	case store.OpGreaterOrEqual, store.OpLessOrEqual:
		ref := b.fieldRef(f.Field)
		value, err := b.jsonArg(f.Value)
		if err != nil {
			return "", err
		}
		// Range predicates never match across JSON types.
		return fmt.Sprintf("jsonb_typeof(%s) = jsonb_typeof(%s) AND %s %s %s",
			ref, value, ref, f.Op, value), nil

	case store.OpArrayContains:
		ref := b.fieldRef(f.Field)
		value, err := b.jsonArg([]any{f.Value})
		if err != nil {
			return "", err
		}
		return ref + " @> " + value, nil

	default:
		return "", fmt.Errorf("%w: unsupported operator %q", store.ErrInvalidQuery, f.Op)
	}
}
