package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/mocks"
	"github.com/phrazzld/catalog-api/internal/service/catalog"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, fields map[string]any) *domain.Product {
	return domain.NewProduct(id, fields)
}

func ids(products []*domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

// shoeFixture returns 25 shoes whose prices repeat every 7 items, a hat, and
// a shoe without a price.
func shoeFixture() []*domain.Product {
	var products []*domain.Product
	for i := 0; i < 25; i++ {
		products = append(products, product(fmt.Sprintf("s%02d", i), map[string]any{
			"category": "shoes",
			"price":    float64(i % 7),
		}))
	}
	products = append(products,
		product("h01", map[string]any{"category": "hats", "price": 1.0}),
		product("s-unpriced", map[string]any{"category": "shoes"}),
	)
	return products
}

// expectedShoeOrder returns the priced shoe ids ordered by (price, id).
func expectedShoeOrder(desc bool) []string {
	type entry struct {
		id    string
		price int
	}
	var entries []entry
	for i := 0; i < 25; i++ {
		entries = append(entries, entry{fmt.Sprintf("s%02d", i), i % 7})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		c := a.price - b.price
		if c == 0 {
			c = strings.Compare(a.id, b.id)
		}
		if desc {
			return -c
		}
		return c
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

func newService(t *testing.T, products store.ProductReader) catalog.Service {
	t.Helper()
	svc, err := catalog.NewService(products, catalog.DefaultLimits(), nil)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := catalog.NewService(nil, catalog.DefaultLimits(), nil)
	assert.Error(t, err)
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	shoes := catalog.ListParams{Category: "shoes", SortBy: "price", Order: store.Ascending, Limit: 10}

	t.Run("first page is ordered and bounded", func(t *testing.T) {
		svc := newService(t, mocks.NewMockProductStore(shoeFixture()...))

		page, err := svc.ListProducts(ctx, shoes)

		require.NoError(t, err)
		assert.Equal(t, expectedShoeOrder(false)[:10], ids(page.Products))
		assert.NotEmpty(t, page.NextCursor)
	})

	t.Run("pages are disjoint and preserve global order", func(t *testing.T) {
		svc := newService(t, mocks.NewMockProductStore(shoeFixture()...))

		var all []string
		for n := 1; n <= 3; n++ {
			p := shoes
			p.Page = n
			page, err := svc.ListProducts(ctx, p)
			require.NoError(t, err)
			all = append(all, ids(page.Products)...)
		}

		assert.Equal(t, expectedShoeOrder(false), all)
	})

	t.Run("cursor walk matches page form", func(t *testing.T) {
		svc := newService(t, mocks.NewMockProductStore(shoeFixture()...))

		for _, order := range []store.Direction{store.Ascending, store.Descending} {
			base := shoes
			base.Order = order

			cursor := ""
			for n := 1; n <= 3; n++ {
				byPage := base
				byPage.Page = n
				want, err := svc.ListProducts(ctx, byPage)
				require.NoError(t, err)

				byCursor := base
				byCursor.Cursor = cursor
				got, err := svc.ListProducts(ctx, byCursor)
				require.NoError(t, err)

				assert.Equal(t, ids(want.Products), ids(got.Products), "order %s page %d", order, n)
				cursor = got.NextCursor
			}
			assert.Empty(t, cursor, "last page is not full")
		}
	})

	t.Run("descending order breaks ties by descending id", func(t *testing.T) {
		svc := newService(t, mocks.NewMockProductStore(shoeFixture()...))
		p := shoes
		p.Order = store.Descending
		p.Limit = 100

		page, err := svc.ListProducts(ctx, p)

		require.NoError(t, err)
		assert.Equal(t, expectedShoeOrder(true), ids(page.Products))
		assert.Empty(t, page.NextCursor)
	})

	t.Run("documents without the sort field are excluded", func(t *testing.T) {
		svc := newService(t, mocks.NewMockProductStore(shoeFixture()...))
		p := shoes
		p.Limit = 100

		page, err := svc.ListProducts(ctx, p)

		require.NoError(t, err)
		assert.NotContains(t, ids(page.Products), "s-unpriced")
		assert.NotContains(t, ids(page.Products), "h01")
	})

	t.Run("without category lists everything priced", func(t *testing.T) {
		svc := newService(t, mocks.NewMockProductStore(shoeFixture()...))

		page, err := svc.ListProducts(ctx, catalog.ListParams{Limit: 100})

		require.NoError(t, err)
		assert.Len(t, page.Products, 26)
	})

	t.Run("page beyond the data is empty", func(t *testing.T) {
		svc := newService(t, mocks.NewMockProductStore(shoeFixture()...))
		p := shoes
		p.Page = 4

		page, err := svc.ListProducts(ctx, p)

		require.NoError(t, err)
		assert.Empty(t, page.Products)
		assert.Empty(t, page.NextCursor)
	})

	t.Run("empty prefix applies no cursor", func(t *testing.T) {
		products := mocks.NewMockProductStore(shoeFixture()...)
		svc := newService(t, products)
		p := shoes
		p.Category = "gloves"
		p.Page = 3

		page, err := svc.ListProducts(ctx, p)

		require.NoError(t, err)
		assert.Empty(t, page.Products)
		require.Len(t, products.Queries, 2)
		assert.Equal(t, 20, products.Queries[0].Limit)
		assert.Nil(t, products.Queries[1].StartAfter)
	})

	t.Run("cursor skips the prefix query", func(t *testing.T) {
		products := mocks.NewMockProductStore(shoeFixture()...)
		svc := newService(t, products)

		first, err := svc.ListProducts(ctx, shoes)
		require.NoError(t, err)

		p := shoes
		p.Cursor = first.NextCursor
		p.Page = 9
		_, err = svc.ListProducts(ctx, p)
		require.NoError(t, err)

		assert.Len(t, products.Queries, 2)
	})

	t.Run("mismatched cursor is a client error", func(t *testing.T) {
		products := mocks.NewMockProductStore(shoeFixture()...)
		svc := newService(t, products)

		first, err := svc.ListProducts(ctx, shoes)
		require.NoError(t, err)

		p := shoes
		p.Category = "hats"
		p.Cursor = first.NextCursor
		_, err = svc.ListProducts(ctx, p)

		assert.ErrorIs(t, err, catalog.ErrInvalidQuery)
		assert.Len(t, products.Queries, 1)
	})

	t.Run("store fault", func(t *testing.T) {
		products := mocks.NewMockProductStore()
		products.QueryFn = func(context.Context, store.ProductQuery) ([]*domain.Product, error) {
			return nil, errors.New("connection reset")
		}
		svc := newService(t, products)

		_, err := svc.ListProducts(ctx, shoes)

		var serviceErr *catalog.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "list", serviceErr.Operation)
		assert.NotErrorIs(t, err, catalog.ErrInvalidQuery)
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, mocks.NewMockProductStore(product("p-1", map[string]any{"title": "Mug"})))

	t.Run("found", func(t *testing.T) {
		p, err := svc.GetProduct(ctx, "p-1")
		require.NoError(t, err)
		assert.Equal(t, "p-1", p.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.GetProduct(ctx, "p-2")
		assert.ErrorIs(t, err, store.ErrProductNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	fixture := []*domain.Product{
		product("a", map[string]any{"searchKeywords": []string{"red", "shoe"}}),
		product("b", map[string]any{"searchKeywords": []string{"blue", "shoe"}}),
		product("c", map[string]any{"searchKeywords": []string{"red", "hat"}}),
		product("d", map[string]any{"title": "Red Scarf"}),
	}

	t.Run("case of input is irrelevant", func(t *testing.T) {
		svc := newService(t, mocks.NewMockProductStore(fixture...))

		for _, raw := range []string{"q=red", "q=RED", "q=+Red+"} {
			params, err := catalog.ParseSearchParams(mustQuery(raw))
			require.NoError(t, err)
			got, err := svc.SearchProducts(ctx, params)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "c"}, ids(got), raw)
		}
	})

	t.Run("exact token only", func(t *testing.T) {
		svc := newService(t, mocks.NewMockProductStore(fixture...))

		got, err := svc.SearchProducts(ctx, catalog.SearchParams{Term: "re"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("blank term runs no query", func(t *testing.T) {
		products := mocks.NewMockProductStore(fixture...)
		svc := newService(t, products)

		_, err := svc.SearchProducts(ctx, catalog.SearchParams{})
		assert.ErrorIs(t, err, catalog.ErrInvalidQuery)
		assert.Empty(t, products.Queries)
	})
}

func TestFilterProducts(t *testing.T) {
	ctx := context.Background()
	fixture := []*domain.Product{
		product("A", map[string]any{"price": 5, "brand": "acme"}),
		product("B", map[string]any{"price": 20, "brand": "acme", "rating": 4}),
		product("C", map[string]any{"price": 45, "brand": "zeta", "rating": 2}),
		product("D", map[string]any{"price": 60, "brand": "acme"}),
		product("E", map[string]any{"price": "call us", "brand": "acme"}),
	}

	tests := []struct {
		name   string
		params catalog.FilterParams
		want   []string
	}{
		{
			name:   "inclusive price range",
			params: catalog.FilterParams{MinPrice: 10, MaxPrice: 50},
			want:   []string{"B", "C"},
		},
		{
			name:   "bounds are inclusive",
			params: catalog.FilterParams{MinPrice: 20, MaxPrice: 45},
			want:   []string{"B", "C"},
		},
		{
			name:   "brand restricts",
			params: catalog.FilterParams{MinPrice: 10, MaxPrice: 50, Brand: "acme"},
			want:   []string{"B"},
		},
		{
			name:   "no bounds is zero to infinity",
			params: catalog.FilterParams{MaxPrice: math.Inf(1)},
			want:   []string{"A", "B", "C", "D"},
		},
		{
			name:   "other sort field excludes documents without it",
			params: catalog.FilterParams{MaxPrice: math.Inf(1), Sort: "rating"},
			want:   []string{"C", "B"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := newService(t, mocks.NewMockProductStore(fixture...))

			got, err := svc.FilterProducts(ctx, tc.params)

			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))
		})
	}

	t.Run("parsed example", func(t *testing.T) {
		svc := newService(t, mocks.NewMockProductStore(fixture...))

		got, err := svc.FilterProducts(ctx, catalog.ParseFilterParams(mustQuery("minPrice=10&maxPrice=50&brand=Acme")))

		require.NoError(t, err)
		assert.Equal(t, []string{"B"}, ids(got))
	})
}
