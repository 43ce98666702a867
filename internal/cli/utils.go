package cli

import (
	"github.com/urfave/cli/v2"

	appconfig "github.com/lewisedginton/storefront_chatbot/internal/config"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// getLogger retrieves the logger from the CLI context metadata
func getLogger(ctx *cli.Context) logger.Logger {
	if ctx.App.Metadata != nil {
		if log, ok := ctx.App.Metadata["logger"].(logger.Logger); ok {
			return log
		}
	}
	return logger.NewLogger(logger.Config{
		Level:   logger.InfoLevel,
		Format:  "json",
		Service: "storefront-cli",
	})
}

// loadConfig reads --config-file and the environment. An explicit
// --log-level wins over the configured one and rebuilds the logger.
func loadConfig(ctx *cli.Context) (*appconfig.AppConfig, logger.Logger, error) {
	cfg, err := appconfig.Load(ctx.String("config-file"))
	if err != nil {
		return nil, getLogger(ctx), err
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	return cfg, cfg.NewLogger(), nil
}
