// Package cli implements the storefront command line.
package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// NewApp builds the storefront command line application.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "storefront",
		Usage:   "Storefront catalog and shopping assistant",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "config-file",
				Value:   "",
				Usage:   "Path to configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Before: func(ctx *cli.Context) error {
			log := logger.NewLogger(logger.Config{
				Level:   logger.ParseLevel(ctx.String("log-level")),
				Format:  "json",
				Service: "storefront-cli",
			})
			ctx.App.Metadata = map[string]interface{}{
				"logger": log,
			}
			return nil
		},
		Commands: []*cli.Command{
			ConfigCommand(),
			ServerCommand(),
			DBCommand(),
			CatalogCommand(),
			ChatCommand(),
		},
	}
}
