package commands

import (
	"context"
	"fmt"

	"github.com/phrazzld/catalog-api/internal/platform/postgres"
	"github.com/urfave/cli/v3"
)

// MigrateAction applies the embedded schema migrations.
func MigrateAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if err := postgres.Migrate(ctx, appCtx.DB, appCtx.Logger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, err := postgres.MigrationVersion(ctx, appCtx.DB)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "schema at version %d\n", version)
	return err
}
