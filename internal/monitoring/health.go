// Package monitoring wires the storefront's dependencies into liveness and
// readiness probes.
package monitoring

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/lewisedginton/storefront_chatbot/pkg/health"
	"github.com/lewisedginton/storefront_chatbot/pkg/health/checkers"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// Health status constants
const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthMonitor manages health checks and monitoring endpoints for the application
type HealthMonitor struct {
	checker   *health.HealthChecker
	logger    logger.Logger
	version   string
	startTime time.Time
	now       func() time.Time
}

// ConnectorHealthCheck represents a connector that can perform health checks
type ConnectorHealthCheck interface {
	Ready() error
}

// Config holds configuration for the health monitor
type Config struct {
	Logger  logger.Logger
	Version string
	// Database is pinged by the readiness probe when set
	Database checkers.Pinger
	// Redis is pinged by the readiness probe when set
	Redis redis.UniversalClient
	// DependencyURLs are probed with GET by the readiness probe
	DependencyURLs    []string
	TelegramConnector ConnectorHealthCheck
	Timeout           time.Duration
	FailureThreshold  int
}

// NewHealthMonitor creates a new health monitor with configured checks
func NewHealthMonitor(cfg Config) *HealthMonitor {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	checker := health.New(
		health.WithLogger(cfg.Logger),
		health.WithTimeout(cfg.Timeout),
		health.WithFailureThreshold(cfg.FailureThreshold),
	)

	checker.AddLivenessCheck(health.NewCheckFunc("process", func(ctx context.Context) error {
		return nil
	}))

	if cfg.Database != nil {
		checker.AddReadinessCheck(checkers.NewDatabaseChecker(cfg.Database, "database"))
	}
	if cfg.Redis != nil {
		checker.AddReadinessCheck(checkers.NewRedisChecker(cfg.Redis, "redis"))
	}
	for _, url := range cfg.DependencyURLs {
		checker.AddReadinessCheck(checkers.NewHTTPChecker(url, "http:"+url))
	}
	if cfg.TelegramConnector != nil {
		checker.AddReadinessCheck(health.NewCheckFunc("telegram_connector", func(ctx context.Context) error {
			return cfg.TelegramConnector.Ready()
		}))
	}

	return &HealthMonitor{
		checker:   checker,
		logger:    cfg.Logger,
		version:   cfg.Version,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// LivenessHandler serves GET /health/live.
func (hm *HealthMonitor) LivenessHandler() http.HandlerFunc {
	return hm.checker.LivenessHandler()
}

// ReadinessHandler serves GET /health/ready.
func (hm *HealthMonitor) ReadinessHandler() http.HandlerFunc {
	return hm.checker.ReadinessHandler()
}

// CombinedResponse is the body of GET /health.
type CombinedResponse struct {
	Status    string                `json:"status"`
	Timestamp string                `json:"timestamp"`
	Uptime    string                `json:"uptime"`
	Version   string                `json:"version"`
	Liveness  health.HealthResponse `json:"liveness"`
	Readiness health.HealthResponse `json:"readiness"`
}

// HealthHandler returns a combined health endpoint that includes both liveness and readiness
// GET /health - Returns comprehensive health status
func (hm *HealthMonitor) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		livenessStatus, livenessErr := hm.checker.CheckLiveness(ctx)
		readinessStatus, readinessErr := hm.checker.CheckReadiness(ctx)

		response := CombinedResponse{
			Status:    statusHealthy,
			Timestamp: hm.now().UTC().Format(time.RFC3339),
			Uptime:    hm.now().Sub(hm.startTime).Round(time.Second).String(),
			Version:   hm.version,
			Liveness:  health.NewHealthResponse(livenessStatus, livenessErr),
			Readiness: health.NewHealthResponse(readinessStatus, readinessErr),
		}

		code := http.StatusOK
		if !livenessStatus.Healthy || !readinessStatus.Healthy {
			response.Status = statusUnhealthy
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			hm.logger.Error("Failed to encode health response", logger.ErrorField(err))
		}
	}
}

// Routes mounts /health, /health/live and /health/ready on r.
func (hm *HealthMonitor) Routes(r chi.Router) {
	r.Get("/health", hm.HealthHandler())
	r.Get("/health/live", hm.LivenessHandler())
	r.Get("/health/ready", hm.ReadinessHandler())
}
