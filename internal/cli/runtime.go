package cli

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/lewisedginton/storefront_chatbot/internal/cache"
	"github.com/lewisedginton/storefront_chatbot/internal/catalog"
	"github.com/lewisedginton/storefront_chatbot/internal/chat"
	appconfig "github.com/lewisedginton/storefront_chatbot/internal/config"
	"github.com/lewisedginton/storefront_chatbot/internal/dialogue"
	"github.com/lewisedginton/storefront_chatbot/internal/persistence"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
	"github.com/lewisedginton/storefront_chatbot/pkg/metrics"
)

// runtime is the wired service graph shared by the commands.
type runtime struct {
	cfg     *appconfig.AppConfig
	log     logger.Logger
	stores  *persistence.Stores
	redis   *cache.RedisClient
	catalog catalog.Reader
	metrics *metrics.Metrics
	chat    *chat.Service
}

// newRuntime opens the database, the optional Redis cache and builds the
// chat service on top of them.
func newRuntime(ctx context.Context, cfg *appconfig.AppConfig, log logger.Logger) (*runtime, error) {
	stores, err := persistence.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	rt := &runtime{cfg: cfg, log: log, stores: stores, catalog: stores.Catalog}

	if cfg.Redis.Enabled() {
		rt.redis, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			_ = rt.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		rt.catalog = catalog.NewCachedReader(stores.Catalog, rt.redis, cfg.Redis.TTL, log)
		log.Info("Catalog cache enabled", logger.DurationField("ttl", cfg.Redis.TTL))
	}

	rt.metrics = metrics.NewMetrics(cfg.Metrics.EnableHTTPMetrics, cfg.Metrics.EnableDialogueMetrics, log)
	assistant := dialogue.NewAssistant(rt.catalog,
		dialogue.WithLogger(log),
		dialogue.WithMetrics(rt.metrics))
	rt.chat = chat.NewService(stores.Chat, assistant, log)

	return rt, nil
}

// invalidateCatalog drops cached catalog reads after a write.
func (rt *runtime) invalidateCatalog(ctx context.Context) {
	cached, ok := rt.catalog.(*catalog.CachedReader)
	if !ok {
		return
	}
	if err := cached.Invalidate(ctx); err != nil {
		rt.log.Warn("Failed to invalidate catalog cache", logger.ErrorField(err))
	}
}

// Close releases the cache and database connections.
func (rt *runtime) Close() error {
	var result error
	if rt.redis != nil {
		if err := rt.redis.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("redis: %w", err))
		}
	}
	if err := rt.stores.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("database: %w", err))
	}
	return result
}
