package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"
)

// ChatCommand returns a command for talking to the assistant from a terminal
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Chat with the storefront assistant",
		Subcommands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Send one message and print the reply",
				ArgsUsage: "<message>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Value: "cli", Usage: "User identity the session belongs to"},
					&cli.StringFlag{Name: "session", Usage: "Continue an existing session"},
					&cli.BoolFlag{Name: "json", Usage: "Print the raw reply as JSON"},
				},
				Action: chatAskAction,
			},
		},
	}
}

func chatAskAction(ctx *cli.Context) error {
	message := strings.Join(ctx.Args().Slice(), " ")
	if strings.TrimSpace(message) == "" {
		return errors.New("chat ask requires a message")
	}
	cfg, log, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rt, err := newRuntime(ctx.Context, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	result, err := rt.chat.Query(ctx.Context, ctx.String("user"), ctx.String("session"), message)
	if err != nil {
		return err
	}

	w := ctx.App.Writer
	if ctx.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(w, "[%s] %s\n", result.Intent, result.Message)
	for _, p := range result.Products {
		fmt.Fprintf(w, "  #%d %s  $%.2f  %s  (%.1f)\n", p.ID, p.Title, p.Price, p.Brand, p.Rating)
	}
	if len(result.Suggestions) > 0 {
		fmt.Fprintf(w, "Try: %s\n", strings.Join(result.Suggestions, " | "))
	}
	fmt.Fprintf(w, "session: %s\n", result.SessionID)
	return nil
}
