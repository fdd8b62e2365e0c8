package port

import (
	"context"
	"time"

	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
)

// StorePort is the read handle over persisted stock records. Implementations
// may return records in any stable order; callers must sort themselves.
type StorePort interface {
	Find(ctx context.Context, filter domain.QueryFilter) ([]domain.StockRecord, error)
}

// CachePort memoizes serialized response payloads per canonical query
// signature. Get returns false for absent or expired entries; Put stores a
// fully built payload that becomes immediately visible to other callers.
type CachePort interface {
	Get(ctx context.Context, signature string) ([]byte, bool)
	Put(ctx context.Context, signature string, payload []byte)
}

// LimiterPort gates requests per client identity. A denied request carries
// the advisory delay until the client's window resets.
type LimiterPort interface {
	Allow(ctx context.Context, clientID string, now time.Time) (allowed bool, retryAfter time.Duration)
}

// QueryServicePort is the surface the transport layer drives. Every method
// returns either a completed result or a structured error; rate limiting is
// reported as a domain.RateLimited error.
type QueryServicePort interface {
	Decades(ctx context.Context, clientID string) (domain.QueryResult, error)
	Markets(ctx context.Context, clientID string) (domain.QueryResult, error)
	DecadeData(ctx context.Context, clientID string, decade string) (domain.QueryResult, error)
	MarketData(ctx context.Context, clientID string, market, decade string) (domain.QueryResult, error)
	StockHistory(ctx context.Context, clientID string, symbol string) (domain.QueryResult, error)
	TopPerformers(ctx context.Context, clientID string, decade, market string, limit int) (domain.QueryResult, error)
	Statistics(ctx context.Context, clientID string, decade, market string) (domain.QueryResult, error)
	Export(ctx context.Context, clientID string, decade, market, format string) (domain.QueryResult, error)
}
