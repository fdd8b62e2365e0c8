package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Unaivero/financiera-ancestral/internal/core/port"
)

var _ port.LimiterPort = (*FixedWindow)(nil)

const keyPrefix = "ratelimit:"

// FixedWindow backs the limiter port with Redis so multiple server
// processes enforce one shared quota. INCR plus a first-write expiry gives
// the fixed-window semantics: the key's TTL is the time left in the window.
// An unreachable Redis fails open; dropping rate limiting beats dropping
// every request.
type FixedWindow struct {
	client      *redis.Client
	maxRequests int
	window      time.Duration
	logger      *slog.Logger
}

func NewFixedWindow(client *redis.Client, maxRequests int, window time.Duration, logger *slog.Logger) *FixedWindow {
	if maxRequests < 1 {
		maxRequests = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	return &FixedWindow{
		client:      client,
		maxRequests: maxRequests,
		window:      window,
		logger:      logger,
	}
}

func (l *FixedWindow) Allow(ctx context.Context, clientID string, _ time.Time) (bool, time.Duration) {
	key := keyPrefix + clientID

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Warn("redis rate limit check failed", slog.Any("error", err))
		return true, 0
	}

	if count.Val() <= int64(l.maxRequests) {
		return true, 0
	}

	retryAfter, err := l.client.TTL(ctx, key).Result()
	if err != nil || retryAfter < 0 {
		retryAfter = l.window
	}
	return false, retryAfter
}
