package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Unaivero/financiera-ancestral/internal/core/port"
)

var _ port.CachePort = (*ResponseCache)(nil)

const keyPrefix = "responses:"

// ResponseCache backs the cache port with Redis so multiple server
// processes share one view of cached responses. TTL enforcement and
// eviction are left to Redis itself; a cache that cannot be reached only
// costs recomputation, so errors are logged and treated as misses.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewResponseCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &ResponseCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Ping checks the connection to the Redis server.
func (c *ResponseCache) Ping(ctx context.Context) string {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Sprintf("down: %v", err)
	}
	return "up"
}

func (c *ResponseCache) key(signature string) string {
	return keyPrefix + signature
}

func (c *ResponseCache) Get(ctx context.Context, signature string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, c.key(signature)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("redis cache lookup failed", slog.Any("error", err))
		return nil, false
	}
	return payload, true
}

func (c *ResponseCache) Put(ctx context.Context, signature string, payload []byte) {
	if err := c.client.Set(ctx, c.key(signature), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("redis cache store failed", slog.Any("error", err))
	}
}
