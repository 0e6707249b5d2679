package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/phrazzld/catalog-api/internal/platform/postgres"
	"github.com/phrazzld/catalog-api/internal/task"
	"github.com/urfave/cli/v3"
)

// RefreshKeywordsAction runs the keyword maintenance pass and prints its
// report as JSON. Flags override the configured worker count and batch size.
func RefreshKeywordsAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	cfg := task.KeywordRefresherConfig{
		Workers:   appCtx.Config.Maintenance.Workers,
		BatchSize: appCtx.Config.Maintenance.BatchSize,
	}
	if n := cmd.Int("workers"); n > 0 {
		cfg.Workers = n
	}
	if n := cmd.Int("batch-size"); n > 0 {
		cfg.BatchSize = n
	}

	refresher, err := task.NewKeywordRefresher(
		postgres.NewPostgresProductStore(appCtx.DB, appCtx.Logger),
		cfg,
		appCtx.Logger,
	)
	if err != nil {
		return err
	}

	report, runErr := refresher.Run(ctx)
	if err := writeReport(cmd.Root().Writer, report); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("keyword refresh aborted: %w", runErr)
	}
	if report.Failed() > 0 {
		return cli.Exit(fmt.Sprintf("keyword refresh finished with %d failures", report.Failed()), 2)
	}
	return nil
}

func writeReport(w io.Writer, report any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
