package catalog

import (
	"encoding/base64"
	"encoding/json"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/store"
)

// cursorToken is the client-visible form of a list cursor. It records the
// query shape it was issued for so it cannot resume a different listing.
type cursorToken struct {
	SortBy   string          `json:"s"`
	Order    store.Direction `json:"o"`
	Category string          `json:"c,omitempty"`
	Value    json.RawMessage `json:"v"`
	ID       string          `json:"id"`
}

// encodeCursor returns the token resuming p's listing after last.
func encodeCursor(p ListParams, last *domain.Product) (string, error) {
	c, err := store.CursorAt(last, p.SortBy)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(cursorToken{
		SortBy:   p.SortBy,
		Order:    p.Order,
		Category: p.Category,
		Value:    c.Value,
		ID:       c.ID,
	})
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// decodeCursor parses token and checks it belongs to p's listing.
func decodeCursor(token string, p ListParams) (*store.Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, invalidQuery("malformed cursor")
	}

	var t cursorToken
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, invalidQuery("malformed cursor")
	}
	if t.ID == "" || len(t.Value) == 0 || !json.Valid(t.Value) {
		return nil, invalidQuery("malformed cursor")
	}
	if t.SortBy != p.SortBy || t.Order != p.Order || t.Category != p.Category {
		return nil, invalidQuery("cursor was issued for a different listing")
	}

	return &store.Cursor{ID: t.ID, Value: t.Value}, nil
}
