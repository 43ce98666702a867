// Package checkers holds health.Check implementations for external dependencies.
package checkers

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisChecker pings a Redis server.
type RedisChecker struct {
	client redis.UniversalClient
	name   string
}

// NewRedisChecker creates a new Redis health checker. An empty name defaults to "redis".
func NewRedisChecker(client redis.UniversalClient, name string) *RedisChecker {
	if name == "" {
		name = "redis"
	}
	return &RedisChecker{client: client, name: name}
}

// Name returns the name of this health check.
func (r *RedisChecker) Name() string {
	return r.name
}

// Check performs a ping to the Redis server to verify connectivity.
func (r *RedisChecker) Check(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}
