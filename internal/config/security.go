package config

import "fmt"

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" yaml:"cors_allowed_origins" default:"http://localhost:5173,http://localhost:3000"`
	// UserIDHeader carries the caller identity set by the auth gateway
	UserIDHeader string `env:"USER_ID_HEADER" yaml:"user_id_header" default:"X-User-ID"`
	// StripPrefix is removed from request paths when the service sits behind a path-routing proxy
	StripPrefix string `env:"HTTP_STRIP_PREFIX" yaml:"strip_prefix"`
}

// Validate checks the identity header is set.
func (s SecurityConfig) Validate() error {
	if s.UserIDHeader == "" {
		return fmt.Errorf("user_id_header must not be empty")
	}
	return nil
}
