package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/catalog-api/internal/config"
	"github.com/phrazzld/catalog-api/internal/platform/postgres"
	"github.com/phrazzld/catalog-api/internal/service/catalog"
	"github.com/phrazzld/catalog-api/internal/store"
)

// application holds the shared dependencies of the server so they are built
// once and released together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	productStore   store.ProductReader
	catalogService catalog.Service
}

// newApplication wires the PostgreSQL product store into the catalog service.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	products := postgres.NewPostgresProductStore(db, logger.With(slog.String("component", "product_store")))
	app, err := buildApplication(cfg, logger, products)
	if err != nil {
		return nil, err
	}
	app.db = db
	return app, nil
}

// buildApplication assembles everything above the store. Tests use it with an
// in-memory store.
func buildApplication(cfg *config.Config, logger *slog.Logger, products store.ProductReader) (*application, error) {
	svc, err := catalog.NewService(
		products,
		catalogLimits(cfg.Catalog),
		logger.With(slog.String("component", "catalog_service")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog service: %w", err)
	}

	logger.Info("application initialized")
	return &application{
		config:         cfg,
		logger:         logger,
		productStore:   products,
		catalogService: svc,
	}, nil
}

func catalogLimits(cfg config.CatalogConfig) catalog.Limits {
	return catalog.Limits{
		DefaultLimit: cfg.DefaultLimit,
		MaxLimit:     cfg.MaxLimit,
		MaxPage:      cfg.MaxPage,
	}
}

// Run serves HTTP until ctx is canceled or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		} else {
			app.logger.Info("database connection closed")
		}
	}
}
