package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/lewisedginton/storefront_chatbot/internal/cache"
	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
)

const keyPrefix = "catalog:"

// CachedReader is a read-through cache in front of another Reader. Results
// are stored as JSON for ttl. Cache failures are logged and the call falls
// through to the underlying reader.
type CachedReader struct {
	next   Reader
	cache  cache.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewCachedReader wraps next with cache c.
func NewCachedReader(next Reader, c cache.Client, ttl time.Duration, log logger.Logger) *CachedReader {
	if log == nil {
		log = logger.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedReader{next: next, cache: c, ttl: ttl, logger: log}
}

func (c *CachedReader) Search(ctx context.Context, filter SearchFilter) ([]ProductSummary, error) {
	filter = filter.Normalize()
	return cached(ctx, c, searchKey(filter), func() ([]ProductSummary, error) {
		return c.next.Search(ctx, filter)
	})
}

func (c *CachedReader) Categories(ctx context.Context) ([]string, error) {
	return cached(ctx, c, keyPrefix+"categories", func() ([]string, error) {
		return c.next.Categories(ctx)
	})
}

func (c *CachedReader) Brands(ctx context.Context) ([]string, error) {
	return cached(ctx, c, keyPrefix+"brands", func() ([]string, error) {
		return c.next.Brands(ctx)
	})
}

func (c *CachedReader) Popular(ctx context.Context, limit int) ([]ProductSummary, error) {
	return cached(ctx, c, keyPrefix+"popular:"+strconv.Itoa(limit), func() ([]ProductSummary, error) {
		return c.next.Popular(ctx, limit)
	})
}

func (c *CachedReader) Get(ctx context.Context, id int64) (Product, error) {
	return cached(ctx, c, keyPrefix+"product:"+strconv.FormatInt(id, 10), func() (Product, error) {
		return c.next.Get(ctx, id)
	})
}

// Invalidate drops every cached catalog entry.
func (c *CachedReader) Invalidate(ctx context.Context) error {
	return c.cache.DeleteByPrefix(ctx, keyPrefix)
}

func cached[T any](ctx context.Context, c *CachedReader, key string, load func() (T, error)) (T, error) {
	log := c.logger.WithFields(logger.StringField("cache_key", key))

	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		jsonErr := json.Unmarshal(raw, &v)
		if jsonErr == nil {
			return v, nil
		}
		log.Warn("Discarding undecodable cache entry", logger.ErrorField(jsonErr))
	case !errors.Is(err, cache.ErrCacheMiss):
		log.Warn("Catalog cache read failed", logger.ErrorField(err))
	}

	v, err := load()
	if err != nil {
		return v, err
	}

	data, err := json.Marshal(v)
	if err != nil {
		log.Warn("Failed to encode catalog cache entry", logger.ErrorField(err))
		return v, nil
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		log.Warn("Catalog cache write failed", logger.ErrorField(err))
	}
	return v, nil
}

func searchKey(filter SearchFilter) string {
	data, _ := json.Marshal(filter)
	sum := sha256.Sum256(data)
	return keyPrefix + "search:" + hex.EncodeToString(sum[:])
}
