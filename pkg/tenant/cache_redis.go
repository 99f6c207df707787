package tenant

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces tenant entries in Redis.
const DefaultRedisKeyPrefix = "tenant:"

type redisCache struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// NewRedisCache creates a Cache backed by Redis so that several API
// instances share resolved tenants. Redis errors are logged and treated as
// cache misses.
func NewRedisCache(client redis.UniversalClient, prefix string, logger *slog.Logger) Cache {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &redisCache{client: client, prefix: prefix, logger: logger}
}

func (c *redisCache) key(id int64) string {
	return c.prefix + strconv.FormatInt(id, 10)
}

func (c *redisCache) Get(ctx context.Context, id int64) (*Tenant, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "tenant cache get failed", slog.Int64("id", id), slog.String("error", err.Error()))
		}
		return nil, false
	}

	var t Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		c.logger.WarnContext(ctx, "tenant cache entry is corrupted", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, false
	}
	return &t, true
}

func (c *redisCache) Set(ctx context.Context, id int64, tenant *Tenant, ttl time.Duration) {
	data, err := json.Marshal(tenant)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(id), data, ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "tenant cache set failed", slog.Int64("id", id), slog.String("error", err.Error()))
	}
}

func (c *redisCache) Delete(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.logger.WarnContext(ctx, "tenant cache delete failed", slog.Int64("id", id), slog.String("error", err.Error()))
	}
}

// Close is a no-op: the client is owned by the caller.
func (c *redisCache) Close() error { return nil }
