// Package config defines the storefront service configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/lewisedginton/storefront_chatbot/pkg/config"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

// AppConfig holds all application configuration
type AppConfig struct {
	config.CommonConfig `yaml:",inline"`

	// Service identity
	ServiceName string `env:"SERVICE_NAME" yaml:"service_name" default:"storefront-chatbot"`
	Version     string `env:"VERSION" yaml:"version" default:"dev"`
	Environment string `env:"ENVIRONMENT" yaml:"environment" default:"development"`

	HTTP     config.HTTPServerConfig `yaml:"http"`
	Metrics  config.MetricsConfig    `yaml:"metrics"`
	Health   HealthConfig            `yaml:"health"`
	Database config.DatabaseConfig   `yaml:"database"`
	Redis    config.RedisConfig      `yaml:"redis"`
	Security SecurityConfig          `yaml:"security"`
	Storage  StorageConfig           `yaml:"storage"`
	Telegram TelegramConfig          `yaml:"telegram"`
}

// Load reads path (optional) and the environment into an AppConfig.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := config.GetConfig(&cfg, path, false); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *AppConfig) Validate() error {
	var result error

	for _, err := range []error{
		c.CommonConfig.Validate(),
		c.HTTP.Validate(),
		c.Metrics.Validate(),
		c.Health.Validate(),
		c.Database.Validate(),
		c.Redis.Validate(),
		c.Security.Validate(),
		c.Storage.Validate(),
	} {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	if c.Metrics.ExposeMetrics && c.Metrics.Port == c.HTTP.Port {
		result = multierror.Append(result, fmt.Errorf("metrics port %d collides with http port", c.Metrics.Port))
	}

	return result
}

// GetLogLevel returns the parsed logger level
func (c *AppConfig) GetLogLevel() logger.Level {
	return logger.ParseLevel(c.LogLevel)
}

// NewLogger builds the service logger from the logging settings.
func (c *AppConfig) NewLogger() logger.Logger {
	return logger.NewLogger(logger.Config{
		Level:   c.GetLogLevel(),
		Format:  c.LogFormat,
		Service: c.ServiceName,
	})
}

// IsProduction returns true if running in production environment
func (c *AppConfig) IsProduction() bool {
	return strings.ToLower(c.Environment) == "production"
}

// IsDevelopment returns true if running in development environment
func (c *AppConfig) IsDevelopment() bool {
	env := strings.ToLower(c.Environment)
	return env == "development" || env == "dev"
}

// LogConfig logs the current configuration (without sensitive data)
func (c *AppConfig) LogConfig(log logger.Logger) {
	log.Info("Application configuration loaded",
		logger.StringField("service_name", c.ServiceName),
		logger.StringField("version", c.Version),
		logger.StringField("environment", c.Environment),
		logger.IntField("port", c.HTTP.Port),
		logger.StringField("log_level", c.LogLevel),
		logger.StringField("log_format", c.LogFormat),
		logger.StringField("database_driver", c.Database.Driver()),
		logger.StringField("database_url", c.Database.Redacted()),
		logger.BoolField("auto_migrate", c.Database.AutoMigrate),
		logger.BoolField("redis_configured", c.Redis.Enabled()),
		logger.BoolField("metrics_exposed", c.Metrics.ExposeMetrics),
		logger.StringField("storage_backend", c.Storage.Backend),
		logger.BoolField("telegram_enabled", c.Telegram.Enabled()),
		logger.Field("cors_allowed_origins", c.Security.CORSAllowedOrigins),
	)
}
