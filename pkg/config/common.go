package config

import (
	"fmt"
	"slices"
	"strings"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// CommonConfig holds settings shared by every command.
type CommonConfig struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel string `env:"LOG_LEVEL" yaml:"log_level" default:"info"`
	// LogFormat is json or text
	LogFormat string `env:"LOG_FORMAT" yaml:"log_format" default:"json"`
}

// Validate checks the log level and format.
func (c CommonConfig) Validate() error {
	var errs []error
	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("log_level must be one of %v, got %q", validLogLevels, c.LogLevel))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("log_format must be either 'json' or 'text', got %q", c.LogFormat))
	}
	return joinErrors(errs)
}
