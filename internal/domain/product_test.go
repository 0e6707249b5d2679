package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSearchKeywords(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{"simple", "Red Running Shoe", []string{"red", "running", "shoe"}},
		{"duplicates and case", "RED red Red shoe", []string{"red", "shoe"}},
		{"extra whitespace", "  big\tblue \n mug  ", []string{"big", "blue", "mug"}},
		{"empty", "", []string{}},
		{"punctuation kept", "Kids' T-Shirt", []string{"kids'", "t-shirt"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveSearchKeywords(tc.title))
		})
	}
}

func TestKeywordsEqual(t *testing.T) {
	assert.True(t, KeywordsEqual([]string{"a", "b"}, []string{"b", "a"}))
	assert.True(t, KeywordsEqual(nil, []string{}))
	assert.False(t, KeywordsEqual([]string{"a"}, []string{"a", "b"}))
	assert.False(t, KeywordsEqual([]string{"a", "c"}, []string{"a", "b"}))
}

func TestProductJSONRoundTrip(t *testing.T) {
	p := NewProduct("p-1", map[string]any{
		"title": "Blue Mug",
		"price": 12.5,
		"id":    "ignored",
	})

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "p-1", body["id"])
	assert.Equal(t, "Blue Mug", body["title"])
	assert.Equal(t, 12.5, body["price"])

	var decoded Product
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "p-1", decoded.ID)
	_, hasID := decoded.Fields["id"]
	assert.False(t, hasID, "identifier must not be duplicated into the document body")
}

func TestProductAccessors(t *testing.T) {
	p := NewProduct("p-2", map[string]any{
		"title":          "Desk Lamp",
		"searchKeywords": []any{"desk", "lamp", 3},
	})

	title, ok := p.Title()
	assert.True(t, ok)
	assert.Equal(t, "Desk Lamp", title)
	assert.Equal(t, []string{"desk", "lamp"}, p.SearchKeywords())

	untitled := NewProduct("p-3", map[string]any{"title": 42})
	_, ok = untitled.Title()
	assert.False(t, ok)
	assert.Nil(t, untitled.SearchKeywords())
}

func TestProductValidate(t *testing.T) {
	assert.NoError(t, NewProduct("x", nil).Validate())

	err := NewProduct("  ", nil).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.True(t, errors.Is(err, ErrInvalidID))
}
