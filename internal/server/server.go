// Package server exposes the storefront chat assistant and catalog over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/internal/chat"
	appconfig "github.com/lewisedginton/storefront_chatbot/internal/config"
	"github.com/lewisedginton/storefront_chatbot/internal/monitoring"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
	"github.com/lewisedginton/storefront_chatbot/pkg/metrics"
)

// Deps are the services the HTTP API serves.
type Deps struct {
	Chat    *chat.Service
	Catalog catalog.Reader
	// Health and Metrics are optional
	Health  *monitoring.HealthMonitor
	Metrics *metrics.Metrics
}

// Server is the storefront HTTP API.
type Server struct {
	cfg    *appconfig.AppConfig
	log    logger.Logger
	deps   Deps
	server *http.Server
}

// New creates the API server. Nothing listens until Listen is called.
func New(cfg *appconfig.AppConfig, deps Deps, log logger.Logger) *Server {
	s := &Server{cfg: cfg, log: log, deps: deps}
	s.server = &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           s.routes(),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
	}

	log.Info("HTTP server initialized",
		logger.IntField("http_port", cfg.HTTP.Port),
		logger.BoolField("health_enabled", deps.Health != nil),
		logger.BoolField("metrics_enabled", deps.Metrics != nil))
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Listen starts the HTTP server and returns a channel for serve errors along
// with a forceful and a graceful closer.
func (s *Server) Listen() (<-chan error, func(), func()) {
	errChan := make(chan error, 1)

	go func() {
		s.log.Info("Starting HTTP server", logger.StringField("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	closer := func() {
		s.log.Info("Forcefully closing HTTP server")
		if err := s.server.Close(); err != nil {
			s.log.Error("Error during forced shutdown", logger.ErrorField(err))
		}
	}

	gracefulCloser := func() {
		s.log.Info("Gracefully closing HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.log.Error("Error during graceful shutdown", logger.ErrorField(err))
		}
	}

	return errChan, closer, gracefulCloser
}
