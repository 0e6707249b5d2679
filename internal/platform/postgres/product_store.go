package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/store"
)

// PostgresProductStore implements the store.ProductStore interface
// using a PostgreSQL JSONB table as the document store.
type PostgresProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductStore creates a new PostgreSQL implementation of the ProductStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProductStore(db store.DBTX, logger *slog.Logger) *PostgresProductStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProductStore{
		db:     db,
		logger: logger.With(slog.String("component", "product_store")),
	}
}

// Ensure PostgresProductStore implements store.ProductStore interface
var _ store.ProductStore = (*PostgresProductStore)(nil)

// GetByID implements store.ProductStore.GetByID
func (s *PostgresProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, selectProducts+" WHERE id = $1", id)

	var (
		productID string
		doc       []byte
	)
	if err := row.Scan(&productID, &doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProductNotFound
		}
		s.logger.Error("failed to get product", slog.String("product_id", id), slog.String("error", err.Error()))
		return nil, store.NewStoreError("product", "get", "failed to fetch document", MapError(err))
	}

	return decodeProduct(productID, doc)
}

// Query implements store.ProductStore.Query
func (s *PostgresProductStore) Query(ctx context.Context, q store.ProductQuery) ([]*domain.Product, error) {
	query, args, err := buildProductQuery(q)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("querying products",
		slog.Int("filters", len(q.Filters)),
		slog.String("order_by", q.OrderBy),
		slog.String("direction", string(q.Direction)),
		slog.Int("limit", q.Limit),
		slog.Bool("start_after", q.StartAfter != nil))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("product", "query", "failed to execute query", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, store.NewStoreError("product", "query", "failed to scan row", MapError(err))
		}
		p, err := decodeProduct(id, doc)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("product", "query", "failed to iterate rows", MapError(err))
	}

	return products, nil
}

// SetSearchKeywords implements store.ProductStore.SetSearchKeywords
func (s *PostgresProductStore) SetSearchKeywords(ctx context.Context, id string, keywords []string) error {
	if keywords == nil {
		keywords = []string{}
	}
	raw, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET doc = jsonb_set(doc, '{searchKeywords}', $2::jsonb, true),
			updated_at = NOW()
		WHERE id = $1`,
		id, string(raw))
	if err != nil {
		return store.NewStoreError("product", "update", "failed to set search keywords", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrProductNotFound)
}

// Upsert implements store.ProductStore.Upsert
func (s *PostgresProductStore) Upsert(ctx context.Context, p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	fields := p.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: cannot encode document: %v", store.ErrInvalidEntity, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products (id, doc)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (id) DO UPDATE
		SET doc = EXCLUDED.doc,
			updated_at = NOW()`,
		p.ID, string(raw))
	if err != nil {
		return store.NewStoreError("product", "upsert", "failed to write document", MapError(err))
	}
	return nil
}

// WithTx implements store.ProductStore.WithTx
func (s *PostgresProductStore) WithTx(tx *sql.Tx) store.ProductStore {
	return &PostgresProductStore{
		db:     tx,
		logger: s.logger,
	}
}

// decodeProduct turns a stored document into a Product. Numbers keep their
// exact textual form so cursor values round-trip unchanged.
func decodeProduct(id string, doc []byte) (*domain.Product, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, store.NewStoreError("product", "decode", "stored document is not a JSON object", err)
	}
	return domain.NewProduct(id, fields), nil
}
