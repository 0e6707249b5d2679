package postgres

import (
	"encoding/json"
	"testing"

	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProductQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    store.ProductQuery
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "unfiltered scan orders by id",
			query:   store.ProductQuery{},
			wantSQL: "SELECT id, doc FROM products ORDER BY id ASC",
		},
		{
			name: "category listing ordered by price",
			query: store.ProductQuery{
				Filters:   []store.Filter{{Field: "category", Op: store.OpEqual, Value: "shoes"}},
				OrderBy:   "price",
				Direction: store.Ascending,
				Limit:     10,
			},
			wantSQL: "SELECT id, doc FROM products" +
				" WHERE doc -> $1::text = $2::jsonb AND doc ? $3::text" +
				" ORDER BY doc -> $3::text ASC, id ASC LIMIT $4",
			wantArgs: []any{"category", `"shoes"`, "price", 10},
		},
		{
			name: "descending page after cursor",
			query: store.ProductQuery{
				OrderBy:    "rating",
				Direction:  store.Descending,
				Limit:      5,
				StartAfter: &store.Cursor{ID: "p-7", Value: json.RawMessage("4.5")},
			},
			wantSQL: "SELECT id, doc FROM products" +
				" WHERE doc ? $1::text AND (doc -> $1::text, id) < ($2::jsonb, $3::text)" +
				" ORDER BY doc -> $1::text DESC, id DESC LIMIT $4",
			wantArgs: []any{"rating", "4.5", "p-7", 5},
		},
		{
			name: "price range with brand",
			query: store.ProductQuery{
				Filters: []store.Filter{
					{Field: "price", Op: store.OpGreaterOrEqual, Value: 10.0},
					{Field: "price", Op: store.OpLessOrEqual, Value: 50.0},
					{Field: "brand", Op: store.OpEqual, Value: "acme"},
				},
				OrderBy:   "price",
				Direction: store.Ascending,
			},
			wantSQL: "SELECT id, doc FROM products" +
				" WHERE jsonb_typeof(doc -> $1::text) = jsonb_typeof($2::jsonb) AND doc -> $1::text >= $2::jsonb" +
				" AND jsonb_typeof(doc -> $3::text) = jsonb_typeof($4::jsonb) AND doc -> $3::text <= $4::jsonb" +
				" AND doc -> $5::text = $6::jsonb AND doc ? $7::text" +
				" ORDER BY doc -> $7::text ASC, id ASC",
			wantArgs: []any{"price", "10", "price", "50", "brand", `"acme"`, "price"},
		},
		{
			name: "keyword membership",
			query: store.ProductQuery{
				Filters: []store.Filter{{Field: "searchKeywords", Op: store.OpArrayContains, Value: "red"}},
			},
			wantSQL:  "SELECT id, doc FROM products WHERE doc -> $1::text @> $2::jsonb ORDER BY id ASC",
			wantArgs: []any{"searchKeywords", `["red"]`},
		},
		{
			name: "batch scan after id",
			query: store.ProductQuery{
				Limit:      100,
				StartAfter: &store.Cursor{ID: "m"},
			},
			wantSQL:  "SELECT id, doc FROM products WHERE id > $1::text ORDER BY id ASC LIMIT $2",
			wantArgs: []any{"m", 100},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sql, args, err := buildProductQuery(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, sql)
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestBuildProductQueryRejectsInvalid(t *testing.T) {
	_, _, err := buildProductQuery(store.ProductQuery{Limit: -3})
	assert.ErrorIs(t, err, store.ErrInvalidQuery)

	_, _, err = buildProductQuery(store.ProductQuery{
		Filters: []store.Filter{{Field: "price", Op: store.OpEqual, Value: make(chan int)}},
	})
	assert.ErrorIs(t, err, store.ErrInvalidQuery)
}

func TestBuildProductQueryNeverInterpolatesFieldNames(t *testing.T) {
	hostile := "price'; DROP TABLE products; --"
	sql, args, err := buildProductQuery(store.ProductQuery{
		OrderBy:   hostile,
		Direction: store.Ascending,
	})
	require.NoError(t, err)
	assert.NotContains(t, sql, "DROP TABLE")
	assert.Contains(t, args, hostile)
}
