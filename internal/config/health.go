package config

import (
	"fmt"
	"time"
)

// HealthConfig holds health check configuration
type HealthConfig struct {
	Enabled          bool          `env:"HEALTH_ENABLED" yaml:"enabled" default:"true"`
	Timeout          time.Duration `env:"HEALTH_TIMEOUT" yaml:"timeout" default:"5s"`
	FailureThreshold int           `env:"HEALTH_FAILURE_THRESHOLD" yaml:"failure_threshold" default:"3"`
	// DependencyURLs are probed over HTTP by the readiness check
	DependencyURLs []string `env:"HEALTH_DEPENDENCY_URLS" yaml:"dependency_urls"`
}

// Validate checks the timeout and threshold.
func (h HealthConfig) Validate() error {
	if !h.Enabled {
		return nil
	}
	if h.Timeout <= 0 {
		return fmt.Errorf("health timeout must be greater than 0")
	}
	if h.FailureThreshold < 1 {
		return fmt.Errorf("health failure_threshold must be positive, got %d", h.FailureThreshold)
	}
	return nil
}
