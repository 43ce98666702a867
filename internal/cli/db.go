package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/storefront_chatbot/internal/persistence"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// DBCommand returns a command for schema operations
func DBCommand() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Database operations",
		Subcommands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply pending migrations",
				Action: dbMigrateAction,
			},
			{
				Name:   "version",
				Usage:  "Print the applied schema version",
				Action: dbVersionAction,
			},
		},
	}
}

func openStores(ctx *cli.Context) (*persistence.Stores, logger.Logger, error) {
	cfg, log, err := loadConfig(ctx)
	if err != nil {
		return nil, log, fmt.Errorf("failed to load config: %w", err)
	}
	// Migrations run explicitly here.
	cfg.Database.AutoMigrate = false
	stores, err := persistence.Open(ctx.Context, cfg.Database, log)
	if err != nil {
		return nil, log, fmt.Errorf("failed to open database: %w", err)
	}
	return stores, log, nil
}

func dbMigrateAction(ctx *cli.Context) error {
	stores, log, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close() }()

	if err := stores.Migrate(); err != nil {
		log.Error("Migration failed", logger.ErrorField(err))
		return err
	}
	return printVersion(ctx, stores)
}

func dbVersionAction(ctx *cli.Context) error {
	stores, _, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close() }()
	return printVersion(ctx, stores)
}

func printVersion(ctx *cli.Context, stores *persistence.Stores) error {
	version, dirty, err := stores.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	fmt.Fprintf(ctx.App.Writer, "driver=%s version=%d dirty=%t\n", stores.Driver, version, dirty)
	return nil
}
