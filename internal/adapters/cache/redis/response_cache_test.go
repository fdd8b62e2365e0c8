package redis

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ResponseCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewResponseCache(client, ttl, slog.Default()), mr
}

func TestPutThenGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, time.Minute)

	cache.Put(ctx, "statistics|decade=2010s", []byte(`{"count":3}`))

	payload, ok := cache.Get(ctx, "statistics|decade=2010s")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"count":3}`), payload)
}

func TestMissingSignatureIsAMiss(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, time.Minute)

	_, ok := cache.Get(ctx, "never-stored")
	assert.False(t, ok)
}

func TestEntryExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, 60*time.Second)

	cache.Put(ctx, "sig", []byte("payload"))

	mr.FastForward(59 * time.Second)
	_, ok := cache.Get(ctx, "sig")
	assert.True(t, ok)

	mr.FastForward(time.Second)
	_, ok = cache.Get(ctx, "sig")
	assert.False(t, ok)
}

func TestUnreachableRedisBehavesAsMiss(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Minute)

	cache.Put(ctx, "sig", []byte("payload"))
	mr.Close()

	_, ok := cache.Get(ctx, "sig")
	assert.False(t, ok, "a down cache only costs recomputation")
}

func TestPing(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestCache(t, time.Minute)

	assert.Equal(t, "up", cache.Ping(ctx))

	mr.Close()
	assert.Contains(t, cache.Ping(ctx), "down")
}
