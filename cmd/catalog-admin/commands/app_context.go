// Package commands holds the actions of the catalog-admin CLI.
package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/catalog-api/internal/config"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/platform/postgres"
)

// AppContext carries the dependencies shared by every command.
type AppContext struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
}

// NewAppContext loads configuration from envFile and the environment, sets
// up logging and opens the database.
func NewAppContext(ctx context.Context, envFile string) (*AppContext, error) {
	opts := config.DefaultOptions()
	opts.EnvFile = envFile

	cfg, err := config.LoadWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := postgres.Open(ctx, cfg.Database, l)
	if err != nil {
		return nil, err
	}

	return &AppContext{Config: cfg, Logger: l, DB: db}, nil
}

// Close releases the database connection.
func (a *AppContext) Close() {
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("failed to close database", slog.String("error", err.Error()))
	}
}
