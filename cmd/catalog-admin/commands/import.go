package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/platform/postgres"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/urfave/cli/v3"
)

// ImportReport summarizes a bulk import.
type ImportReport struct {
	Imported     int      `json:"imported"`
	GeneratedIDs []string `json:"generated_ids"`
	NoTitle      []string `json:"no_title"`
}

// ImportAction upserts every product in a JSON array file inside a single
// transaction. Nothing is written if any product fails.
func ImportAction(ctx context.Context, cmd *cli.Command) error {
	f, err := os.Open(cmd.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	products, report, err := readProducts(f)
	if err != nil {
		return err
	}

	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	productStore := postgres.NewPostgresProductStore(appCtx.DB, appCtx.Logger)
	err = store.RunInTransaction(ctx, appCtx.DB, func(ctx context.Context, tx *sql.Tx) error {
		return upsertAll(ctx, productStore.WithTx(tx), products)
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	report.Imported = len(products)
	appCtx.Logger.Info("products imported",
		slog.Int("imported", report.Imported),
		slog.Int("generated_ids", len(report.GeneratedIDs)),
		slog.Int("no_title", len(report.NoTitle)))
	return writeReport(cmd.Root().Writer, report)
}

// readProducts decodes a JSON array of product documents. Products without
// an identifier get a random UUID; products with a string title get their
// searchKeywords derived from it.
func readProducts(r io.Reader) ([]*domain.Product, *ImportReport, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var docs []map[string]any
	if err := dec.Decode(&docs); err != nil {
		return nil, nil, fmt.Errorf("failed to decode products: %w", err)
	}

	report := &ImportReport{GeneratedIDs: []string{}, NoTitle: []string{}}
	products := make([]*domain.Product, 0, len(docs))
	for i, doc := range docs {
		if doc == nil {
			return nil, nil, fmt.Errorf("product %d is not an object", i)
		}
		id, _ := doc[domain.FieldID].(string)
		id = strings.TrimSpace(id)
		if id == "" {
			id = uuid.NewString()
			report.GeneratedIDs = append(report.GeneratedIDs, id)
		}

		p := domain.NewProduct(id, doc)
		if title, ok := p.Title(); ok {
			p.Fields[domain.FieldSearchKeywords] = domain.DeriveSearchKeywords(title)
		} else {
			report.NoTitle = append(report.NoTitle, id)
		}
		products = append(products, p)
	}
	return products, report, nil
}

func upsertAll(ctx context.Context, s store.ProductStore, products []*domain.Product) error {
	for _, p := range products {
		if err := s.Upsert(ctx, p); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
		}
	}
	return nil
}
