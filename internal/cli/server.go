package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/storefront_chatbot/internal/connectors/telegram"
	"github.com/lewisedginton/storefront_chatbot/internal/monitoring"
	"github.com/lewisedginton/storefront_chatbot/internal/server"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
	"github.com/lewisedginton/storefront_chatbot/pkg/utils"
)

// ServerCommand returns a command for server operations
func ServerCommand() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Server operations",
		Subcommands: []*cli.Command{
			{
				Name:   "start",
				Usage:  "Start the HTTP API and, when configured, the Telegram bot",
				Action: serverStartAction,
			},
		},
	}
}

func serverStartAction(ctx *cli.Context) error {
	cfg, log, err := loadConfig(ctx)
	if err != nil {
		log.Error("Failed to load config", logger.ErrorField(err))
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.LogConfig(log)

	runCtx, cancel := context.WithCancel(ctx.Context)
	defer cancel()

	rt, err := newRuntime(runCtx, cfg, log)
	if err != nil {
		log.Error("Failed to initialise services", logger.ErrorField(err))
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Error("Failed to close services", logger.ErrorField(err))
		}
	}()

	var errChans []<-chan error

	var connector *telegram.Connector
	if cfg.Telegram.Enabled() {
		connector, err = telegram.NewConnector(telegram.Config{
			BotToken:     cfg.Telegram.BotToken,
			Debug:        cfg.Telegram.Debug,
			ReplyTimeout: cfg.Telegram.ReplyTimeout,
		}, rt.chat, log)
		if err != nil {
			log.Error("Failed to create Telegram connector", logger.ErrorField(err))
			return fmt.Errorf("failed to create telegram connector: %w", err)
		}
		tgErr := make(chan error, 1)
		go func() {
			if err := connector.Start(runCtx); err != nil {
				tgErr <- fmt.Errorf("telegram connector: %w", err)
			}
		}()
		errChans = append(errChans, tgErr)
	}

	var health *monitoring.HealthMonitor
	if cfg.Health.Enabled {
		hc := monitoring.Config{
			Logger:           log,
			Version:          cfg.Version,
			Database:         rt.stores,
			DependencyURLs:   cfg.Health.DependencyURLs,
			Timeout:          cfg.Health.Timeout,
			FailureThreshold: cfg.Health.FailureThreshold,
		}
		if rt.redis != nil {
			hc.Redis = rt.redis.Redis()
		}
		if connector != nil {
			hc.TelegramConnector = connector
		}
		health = monitoring.NewHealthMonitor(hc)
	}

	if cfg.Metrics.ExposeMetrics {
		errChans = append(errChans, rt.metrics.Listen(cfg.Metrics.Port))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if err := rt.metrics.Shutdown(shutdownCtx); err != nil {
				log.Error("Failed to stop metrics server", logger.ErrorField(err))
			}
		}()
	}

	srv := server.New(cfg, server.Deps{
		Chat:    rt.chat,
		Catalog: rt.catalog,
		Health:  health,
		Metrics: rt.metrics,
	}, log)
	httpErr, closer, gracefulCloser := srv.Listen()
	errChans = append(errChans, httpErr)

	log.Info("Storefront assistant started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", logger.StringField("signal", sig.String()))
		cancel()
		gracefulCloser()
		log.Info("Server exited gracefully")
	case <-ctx.Context.Done():
		gracefulCloser()
	case err := <-utils.MergeErrorChans(errChans...):
		if err != nil {
			log.Error("Fatal server error occurred", logger.ErrorField(err))
			closer()
			return fmt.Errorf("server error: %w", err)
		}
		log.Info("Server exited normally")
		gracefulCloser()
	}

	return nil
}
