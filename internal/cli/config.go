package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// ConfigCommand returns a command for configuration operations
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Configuration operations",
		Subcommands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Validate configuration",
				Action: configValidateAction,
			},
		},
	}
}

func configValidateAction(ctx *cli.Context) error {
	cfg, log, err := loadConfig(ctx)
	if err != nil {
		log.Error("Configuration validation failed", logger.ErrorField(err))
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cfg.LogConfig(log)
	fmt.Fprintln(ctx.App.Writer, "Configuration is valid")
	return nil
}
