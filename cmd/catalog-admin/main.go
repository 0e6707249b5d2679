// Package main implements catalog-admin, the maintenance CLI for the product
// collection: schema migrations, keyword refresh and bulk import.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/catalog-api/cmd/catalog-admin/commands"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envFlag := &cli.StringFlag{
		Name:  "env",
		Usage: "path to a dotenv file",
		Value: ".env",
	}

	app := &cli.Command{
		Name:  "catalog-admin",
		Usage: "maintenance tasks for the product catalog",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending schema migrations",
				Flags:  []cli.Flag{envFlag},
				Action: commands.MigrateAction,
			},
			{
				Name:  "refresh-keywords",
				Usage: "recompute searchKeywords for every product from its title",
				Flags: []cli.Flag{
					envFlag,
					&cli.IntFlag{
						Name:  "workers",
						Usage: "concurrent keyword writes (default from config)",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "products read per scan query (default from config)",
					},
				},
				Action: commands.RefreshKeywordsAction,
			},
			{
				Name:  "import",
				Usage: "upsert products from a JSON array file",
				Flags: []cli.Flag{
					envFlag,
					&cli.StringFlag{
						Name:     "file",
						Usage:    "path to the JSON file",
						Required: true,
					},
				},
				Action: commands.ImportAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
