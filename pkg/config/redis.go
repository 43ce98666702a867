package config

import (
	"fmt"
	"time"
)

// RedisConfig holds connection settings for the optional Redis cache.
// An empty URL disables Redis entirely.
type RedisConfig struct {
	URL         string        `env:"REDIS_URL" yaml:"url"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" yaml:"dial_timeout" default:"5s"`
	ReadTimeout time.Duration `env:"REDIS_READ_TIMEOUT" yaml:"read_timeout" default:"3s"`
	KeyPrefix   string        `env:"REDIS_KEY_PREFIX" yaml:"key_prefix" default:"storefront"`
	TTL         time.Duration `env:"REDIS_TTL" yaml:"ttl" default:"5m"`
	PoolSize    int           `env:"REDIS_POOL_SIZE" yaml:"pool_size" default:"10"`
}

// Enabled reports whether a Redis URL is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// Validate checks TTL and pool settings when Redis is enabled.
func (r RedisConfig) Validate() error {
	if !r.Enabled() {
		return nil
	}
	var errs []error
	if r.TTL <= 0 {
		errs = append(errs, fmt.Errorf("redis ttl must be greater than 0"))
	}
	if r.PoolSize < 1 {
		errs = append(errs, fmt.Errorf("redis pool_size must be positive, got %d", r.PoolSize))
	}
	return joinErrors(errs)
}
