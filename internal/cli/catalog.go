package cli

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/internal/storage_manager"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// CatalogCommand returns a command for catalog import and export
func CatalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Catalog operations",
		Subcommands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import products from a YAML document in catalog storage",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Treat the argument as a prefix and import every YAML document under it",
					},
				},
				Action: catalogImportAction,
			},
			{
				Name:      "export",
				Usage:     "Write the active catalog to a YAML document in catalog storage",
				ArgsUsage: "<file>",
				Action:    catalogExportAction,
			},
		},
	}
}

func catalogImportAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 && !ctx.Bool("all") {
		return errors.New("catalog import requires exactly one file argument")
	}
	cfg, log, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	storage, err := storage_manager.New(ctx.Context, cfg.Storage.ManagerConfig())
	if err != nil {
		return fmt.Errorf("failed to open catalog storage: %w", err)
	}
	rt, err := newRuntime(ctx.Context, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	log.Info("Importing catalog",
		logger.StringField("backend", string(storage.Backend())),
		logger.StringField("source", ctx.Args().First()))
	importer := catalog.NewImporter(storage.GetProvider(""), rt.stores.Products, log)
	var result catalog.ImportResult
	if ctx.Bool("all") {
		result, err = importer.ImportDir(ctx.Context, ctx.Args().First())
	} else {
		result, err = importer.ImportFile(ctx.Context, ctx.Args().First())
	}
	if result.Imported > 0 {
		rt.invalidateCatalog(ctx.Context)
	}

	fmt.Fprintf(ctx.App.Writer, "files=%d imported=%d skipped=%d\n", result.Files, result.Imported, result.Skipped)
	if err != nil {
		log.Error("Catalog import finished with errors", logger.ErrorField(err))
		return err
	}
	return nil
}

func catalogExportAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("catalog export requires exactly one file argument")
	}
	cfg, log, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	storage, err := storage_manager.New(ctx.Context, cfg.Storage.ManagerConfig())
	if err != nil {
		return fmt.Errorf("failed to open catalog storage: %w", err)
	}
	rt, err := newRuntime(ctx.Context, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	n, err := catalog.Export(ctx.Context, rt.stores.Catalog, storage.GetProvider(""), ctx.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "exported=%d\n", n)
	return nil
}
