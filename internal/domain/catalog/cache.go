package catalog

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ListCacheTTL    = 2 * time.Minute
	OptionsCacheTTL = 10 * time.Minute

	keyPrefix = "storefront:catalog:"
)

// CachedStore is a read-through Redis cache in front of a Store. Redis
// failures are logged and bypassed; they never fail the request.
type CachedStore struct {
	next   Store
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewCachedStore(next Store, rdb redis.Cmdable, ttl time.Duration, logger *zap.SugaredLogger) *CachedStore {
	if ttl <= 0 {
		ttl = ListCacheTTL
	}
	return &CachedStore{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachedStore) GetProducts(ctx context.Context, f Filters) (*Page, error) {
	f = f.Normalize()
	var page Page
	err := c.getOrLoad(ctx, listCacheKey(f), c.ttl, &page, func() (any, error) {
		return c.next.GetProducts(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *CachedStore) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	var opts FilterOptions
	err := c.getOrLoad(ctx, keyPrefix+"filters", OptionsCacheTTL, &opts, func() (any, error) {
		return c.next.FilterOptions(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &opts, nil
}

// Invalidate drops every cached catalog entry.
func (c *CachedStore) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *CachedStore) getOrLoad(ctx context.Context, key string, ttl time.Duration, dst any, load func() (any, error)) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jerr := json.Unmarshal(raw, dst); jerr == nil {
			return nil
		}
		c.logger.Warnw("catalog cache entry undecodable", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warnw("catalog cache read failed", "key", key, "error", err)
	}

	v, err := load()
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warnw("catalog cache write failed", "key", key, "error", err)
	}
	return json.Unmarshal(data, dst)
}

// listCacheKey is deterministic for equal normalized filters.
func listCacheKey(f Filters) string {
	data, _ := json.Marshal(f)
	sum := md5.Sum(data)
	return keyPrefix + "products:" + hex.EncodeToString(sum[:])
}
