package config

import (
	"fmt"
	"time"
)

// HTTPServerConfig holds HTTP server settings
type HTTPServerConfig struct {
	Port            int           `env:"HTTP_PORT" yaml:"http_port" default:"8000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" yaml:"write_timeout" default:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" yaml:"idle_timeout" default:"60s"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" yaml:"request_timeout" default:"20s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout" default:"10s"`
	MaxHeaderBytes  int           `env:"HTTP_MAX_HEADER_BYTES" yaml:"max_header_bytes" default:"1048576"`
	MaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES" yaml:"max_body_bytes" default:"65536"`
}

// Addr returns the listen address for the configured port.
func (h HTTPServerConfig) Addr() string {
	return fmt.Sprintf(":%d", h.Port)
}

// Validate checks the port range and that timeouts are positive.
func (h HTTPServerConfig) Validate() error {
	var errs []error
	if h.Port < 1 || h.Port > 65535 {
		errs = append(errs, fmt.Errorf("http port must be between 1-65535, got %d", h.Port))
	}
	if h.ReadTimeout <= 0 || h.WriteTimeout <= 0 || h.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http timeouts must be greater than 0"))
	}
	if h.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes must be greater than 0"))
	}
	return joinErrors(errs)
}
