package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/mocks"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadProducts(t *testing.T) {
	input := `[
		{"id": "sku-1", "title": "Red  Running Shoe red", "price": 59.99, "brand": "acme"},
		{"title": "Blue Hat", "price": 12},
		{"id": "  ", "price": 3}
	]`

	products, report, err := readProducts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, products, 3)

	first := products[0]
	assert.Equal(t, "sku-1", first.ID)
	assert.Equal(t, []string{"red", "running", "shoe"}, first.Fields[domain.FieldSearchKeywords])
	assert.Equal(t, json.Number("59.99"), first.Fields[domain.FieldPrice])
	_, hasID := first.Fields[domain.FieldID]
	assert.False(t, hasID, "id must not be kept in the document body")

	second := products[1]
	_, err = uuid.Parse(second.ID)
	assert.NoError(t, err, "missing id gets a UUID")
	assert.Equal(t, []string{"blue", "hat"}, second.Fields[domain.FieldSearchKeywords])

	third := products[2]
	_, err = uuid.Parse(third.ID)
	assert.NoError(t, err, "blank id gets a UUID")
	_, hasKeywords := third.Fields[domain.FieldSearchKeywords]
	assert.False(t, hasKeywords)

	assert.Equal(t, []string{second.ID, third.ID}, report.GeneratedIDs)
	assert.Equal(t, []string{third.ID}, report.NoTitle)
}

func TestReadProducts_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "products"},
		{name: "not an array", input: `{"id": "a"}`},
		{name: "null element", input: `[{"id": "a"}, null]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := readProducts(strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestUpsertAll(t *testing.T) {
	ctx := context.Background()

	t.Run("writes every product", func(t *testing.T) {
		s := mocks.NewMockProductStore(domain.NewProduct("a", map[string]any{"title": "Old"}))
		products := []*domain.Product{
			domain.NewProduct("a", map[string]any{"title": "New"}),
			domain.NewProduct("b", map[string]any{"title": "Other"}),
		}

		require.NoError(t, upsertAll(ctx, s, products))

		assert.Equal(t, 2, s.Len())
		title, _ := s.Product("a").Title()
		assert.Equal(t, "New", title)
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		s := mocks.NewMockProductStore()
		boom := errors.New("boom")
		var written []string
		s.UpsertFn = func(_ context.Context, p *domain.Product) error {
			if p.ID == "b" {
				return boom
			}
			written = append(written, p.ID)
			return nil
		}

		err := upsertAll(ctx, s, []*domain.Product{
			domain.NewProduct("a", nil),
			domain.NewProduct("b", nil),
			domain.NewProduct("c", nil),
		})

		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "product b")
		assert.Equal(t, []string{"a"}, written)
	})

	t.Run("invalid product", func(t *testing.T) {
		s := mocks.NewMockProductStore()

		err := upsertAll(ctx, s, []*domain.Product{domain.NewProduct("", nil)})

		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeReport(&buf, &ImportReport{
		Imported:     2,
		GeneratedIDs: []string{"x"},
		NoTitle:      []string{},
	}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(2), got["imported"])
	assert.Equal(t, []any{"x"}, got["generated_ids"])
	assert.Equal(t, []any{}, got["no_title"])
}
