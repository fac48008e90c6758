package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/travigo/driverportal/pkg/sheet"
)

// Cache keeps fetched feeds for the registry's TTL. Invalidate drops entries immediately.
type Cache interface {
	Get(ctx context.Context, identifier string) (*sheet.Table, bool)
	Set(ctx context.Context, identifier string, table *sheet.Table) error
	Invalidate(ctx context.Context, identifiers ...string) error
}

// MemoryCache is an in-process cache, the default for a single portal instance.
type MemoryCache struct {
	store gcache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		store: gcache.New(16).
			LRU().
			Expiration(ttl).
			Build(),
	}
}

func (c *MemoryCache) Get(_ context.Context, identifier string) (*sheet.Table, bool) {
	value, err := c.store.Get(identifier)
	if err != nil {
		return nil, false
	}

	table, ok := value.(*sheet.Table)

	return table, ok
}

func (c *MemoryCache) Set(_ context.Context, identifier string, table *sheet.Table) error {
	return c.store.Set(identifier, table)
}

func (c *MemoryCache) Invalidate(_ context.Context, identifiers ...string) error {
	for _, identifier := range identifiers {
		c.store.Remove(identifier)
	}

	return nil
}

// RedisCache shares fetched feeds between portal instances.
type RedisCache struct {
	Cache *cache.Cache[string]
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(ttl))

	return &RedisCache{
		Cache: cache.New[string](redisStore),
	}
}

func redisKey(identifier string) string {
	return fmt.Sprintf("driverportal:feed:%s", identifier)
}

type cachedTable struct {
	Name    string     `json:"name"`
	Records [][]string `json:"records"`
}

func (c *RedisCache) Get(ctx context.Context, identifier string) (*sheet.Table, bool) {
	value, err := c.Cache.Get(ctx, redisKey(identifier))
	if err != nil {
		return nil, false
	}

	var cached cachedTable
	if err := json.Unmarshal([]byte(value), &cached); err != nil {
		return nil, false
	}

	return sheet.NewTable(cached.Name, cached.Records), true
}

func (c *RedisCache) Set(ctx context.Context, identifier string, table *sheet.Table) error {
	encoded, err := json.Marshal(cachedTable{Name: table.Name, Records: table.Records()})
	if err != nil {
		return err
	}

	return c.Cache.Set(ctx, redisKey(identifier), string(encoded))
}

func (c *RedisCache) Invalidate(ctx context.Context, identifiers ...string) error {
	for _, identifier := range identifiers {
		if err := c.Cache.Delete(ctx, redisKey(identifier)); err != nil {
			return err
		}
	}

	return nil
}
