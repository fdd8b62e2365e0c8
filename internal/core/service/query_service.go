package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
	"github.com/Unaivero/financiera-ancestral/internal/core/export"
	"github.com/Unaivero/financiera-ancestral/internal/core/port"
)

var _ port.QueryServicePort = (*QueryService)(nil)

// QueryService drives every query through the same path: admit the client,
// canonicalize the query, consult the cache, and only then hit the store and
// the engine. Failed computations are never cached.
type QueryService struct {
	store        port.StorePort
	cache        port.CachePort
	limiter      port.LimiterPort
	defaultLimit int
	logger       *slog.Logger

	now func() time.Time
}

func NewQueryService(
	store port.StorePort,
	cache port.CachePort,
	limiter port.LimiterPort,
	defaultLimit int,
	logger *slog.Logger,
) *QueryService {
	if defaultLimit < 1 {
		defaultLimit = 10
	}

	return &QueryService{
		store:        store,
		cache:        cache,
		limiter:      limiter,
		defaultLimit: defaultLimit,
		logger:       logger,
		now:          time.Now,
	}
}

// admit gates the request by client identity. It runs before validation,
// so malformed requests consume quota like any other.
func (s *QueryService) admit(ctx context.Context, clientID string) error {
	if allowed, retryAfter := s.limiter.Allow(ctx, clientID, s.now()); !allowed {
		s.logger.Warn("rate limit exceeded", slog.String("client", clientID))
		return domain.RateLimited{RetryAfter: retryAfter}
	}
	return nil
}

// serve is the shared path for admitted requests. compute runs only on a
// cache miss and its payload is cached only when it succeeds.
func (s *QueryService) serve(
	ctx context.Context,
	signature string,
	contentType string,
	compute func(ctx context.Context) ([]byte, error),
) (domain.QueryResult, error) {
	if payload, ok := s.cache.Get(ctx, signature); ok {
		return domain.QueryResult{
			Payload:     payload,
			Source:      domain.SourceCached,
			ContentType: contentType,
		}, nil
	}

	payload, err := compute(ctx)
	if err != nil {
		return domain.QueryResult{}, err
	}

	s.cache.Put(ctx, signature, payload)
	return domain.QueryResult{
		Payload:     payload,
		Source:      domain.SourceComputed,
		ContentType: contentType,
	}, nil
}

const jsonContentType = "application/json"

func (s *QueryService) marshal(v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, domain.NewQueryError(domain.ErrMalformedRecord, "failed to encode response", err)
	}
	return payload, nil
}

// Decades lists the decade buckets present in the store.
func (s *QueryService) Decades(ctx context.Context, clientID string) (domain.QueryResult, error) {
	if err := s.admit(ctx, clientID); err != nil {
		return domain.QueryResult{}, err
	}

	signature := CanonicalSignature("decades", nil)

	return s.serve(ctx, signature, jsonContentType, func(ctx context.Context) ([]byte, error) {
		records, err := s.store.Find(ctx, domain.QueryFilter{})
		if err != nil {
			return nil, err
		}

		decades := DistinctDecades(records)
		return s.marshal(domain.DecadesResponse{
			Decades:   decades,
			Count:     len(decades),
			Timestamp: s.now().UTC(),
		})
	})
}

// Markets lists the markets present in the store.
func (s *QueryService) Markets(ctx context.Context, clientID string) (domain.QueryResult, error) {
	if err := s.admit(ctx, clientID); err != nil {
		return domain.QueryResult{}, err
	}

	signature := CanonicalSignature("markets", nil)

	return s.serve(ctx, signature, jsonContentType, func(ctx context.Context) ([]byte, error) {
		records, err := s.store.Find(ctx, domain.QueryFilter{})
		if err != nil {
			return nil, err
		}

		markets := DistinctMarkets(records)
		return s.marshal(domain.MarketsResponse{
			Markets:   markets,
			Count:     len(markets),
			Timestamp: s.now().UTC(),
		})
	})
}

// DecadeData returns every record of one decade, grouped by market.
func (s *QueryService) DecadeData(ctx context.Context, clientID string, decade string) (domain.QueryResult, error) {
	if err := s.admit(ctx, clientID); err != nil {
		return domain.QueryResult{}, err
	}

	filter, err := domain.NewQueryFilter(decade, "", "")
	if err != nil {
		return domain.QueryResult{}, err
	}
	if filter.Decade == "" {
		return domain.QueryResult{}, domain.NewQueryError(domain.ErrInvalidFilter, "decade is required", nil)
	}

	signature := CanonicalSignature("decade", map[string]string{
		"decade": string(filter.Decade),
	})

	return s.serve(ctx, signature, jsonContentType, func(ctx context.Context) ([]byte, error) {
		records, err := s.store.Find(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, domain.NewQueryError(domain.ErrNotFound, "no data found for this decade", nil)
		}

		groups := make(map[domain.Market]domain.MarketGroup)
		for _, rec := range records {
			group := groups[rec.Market]
			group.Name = rec.Market
			group.Stocks = append(group.Stocks, rec)
			group.TotalStocks++
			groups[rec.Market] = group
		}

		return s.marshal(domain.DecadeDataResponse{
			Decade:      filter.Decade,
			Markets:     groups,
			TotalStocks: len(records),
			Timestamp:   s.now().UTC(),
		})
	})
}

// MarketData returns every record of one market, optionally narrowed to a
// decade.
func (s *QueryService) MarketData(ctx context.Context, clientID string, market, decade string) (domain.QueryResult, error) {
	if err := s.admit(ctx, clientID); err != nil {
		return domain.QueryResult{}, err
	}

	filter, err := domain.NewQueryFilter(decade, market, "")
	if err != nil {
		return domain.QueryResult{}, err
	}
	if filter.Market == "" {
		return domain.QueryResult{}, domain.NewQueryError(domain.ErrInvalidFilter, "market is required", nil)
	}

	signature := CanonicalSignature("market", map[string]string{
		"market": string(filter.Market),
		"decade": string(filter.Decade),
	})

	return s.serve(ctx, signature, jsonContentType, func(ctx context.Context) ([]byte, error) {
		records, err := s.store.Find(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, domain.NewQueryError(domain.ErrNotFound, "no data found for this market", nil)
		}

		return s.marshal(domain.MarketDataResponse{
			Market:      filter.Market,
			Decade:      filter.Decade,
			Stocks:      SortByDecade(records),
			TotalStocks: len(records),
			Timestamp:   s.now().UTC(),
		})
	})
}

// StockHistory returns one symbol's records across decades, each tagged
// with its performance bucket.
func (s *QueryService) StockHistory(ctx context.Context, clientID string, symbol string) (domain.QueryResult, error) {
	if err := s.admit(ctx, clientID); err != nil {
		return domain.QueryResult{}, err
	}

	sym, err := domain.NormalizeSymbol(symbol)
	if err != nil {
		return domain.QueryResult{}, err
	}

	signature := CanonicalSignature("stock", map[string]string{
		"symbol": sym,
	})

	return s.serve(ctx, signature, jsonContentType, func(ctx context.Context) ([]byte, error) {
		records, err := s.store.Find(ctx, domain.QueryFilter{Symbol: sym})
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, domain.NewQueryError(domain.ErrNotFound, "no data found for this stock", nil)
		}

		history := make([]domain.StockHistoryEntry, 0, len(records))
		for _, rec := range SortByDecade(records) {
			history = append(history, domain.StockHistoryEntry{
				StockRecord: rec,
				Performance: PerformanceBucket(rec.TotalReturn),
			})
		}

		resp := domain.StockHistoryResponse{
			Symbol:         sym,
			HistoricalData: history,
			DecadesCount:   len(history),
			Timestamp:      s.now().UTC(),
		}
		if len(history) > 0 {
			resp.CompanyName = history[0].CompanyName
		}
		return s.marshal(resp)
	})
}

// TopPerformers ranks records by total return. A limit of zero falls back
// to the configured default; anything outside [1, 50] is clamped.
func (s *QueryService) TopPerformers(ctx context.Context, clientID string, decade, market string, limit int) (domain.QueryResult, error) {
	if err := s.admit(ctx, clientID); err != nil {
		return domain.QueryResult{}, err
	}

	filter, err := domain.NewQueryFilter(decade, market, "")
	if err != nil {
		return domain.QueryResult{}, err
	}

	if limit == 0 {
		limit = s.defaultLimit
	}
	limit = ClampLimit(limit)

	signature := CanonicalSignature("top-performers", map[string]string{
		"decade": string(filter.Decade),
		"market": string(filter.Market),
		"limit":  fmt.Sprintf("%d", limit),
	})

	return s.serve(ctx, signature, jsonContentType, func(ctx context.Context) ([]byte, error) {
		records, err := s.store.Find(ctx, filter)
		if err != nil {
			return nil, err
		}

		ranked := RankTopPerformers(records, limit)
		return s.marshal(domain.TopPerformersResponse{
			TopPerformers: ranked,
			Filters: domain.AppliedFilters{
				Decade: filter.Decade,
				Market: filter.Market,
				Limit:  limit,
			},
			Count:     len(ranked),
			Timestamp: s.now().UTC(),
		})
	})
}

// Statistics aggregates the filtered record set.
func (s *QueryService) Statistics(ctx context.Context, clientID string, decade, market string) (domain.QueryResult, error) {
	if err := s.admit(ctx, clientID); err != nil {
		return domain.QueryResult{}, err
	}

	filter, err := domain.NewQueryFilter(decade, market, "")
	if err != nil {
		return domain.QueryResult{}, err
	}

	signature := CanonicalSignature("statistics", map[string]string{
		"decade": string(filter.Decade),
		"market": string(filter.Market),
	})

	return s.serve(ctx, signature, jsonContentType, func(ctx context.Context) ([]byte, error) {
		records, err := s.store.Find(ctx, filter)
		if err != nil {
			return nil, err
		}

		return s.marshal(domain.StatisticsResponse{
			Statistics: Aggregate(records),
			Filters: domain.AppliedFilters{
				Decade: filter.Decade,
				Market: filter.Market,
			},
			Timestamp: s.now().UTC(),
		})
	})
}

// Export serializes the filtered record set for download.
func (s *QueryService) Export(ctx context.Context, clientID string, decade, market, format string) (domain.QueryResult, error) {
	if err := s.admit(ctx, clientID); err != nil {
		return domain.QueryResult{}, err
	}

	filter, err := domain.NewQueryFilter(decade, market, "")
	if err != nil {
		return domain.QueryResult{}, err
	}

	format = strings.ToLower(strings.TrimSpace(format))
	contentType, err := export.ContentType(format)
	if err != nil {
		return domain.QueryResult{}, err
	}

	signature := CanonicalSignature("export", map[string]string{
		"decade": string(filter.Decade),
		"market": string(filter.Market),
		"format": format,
	})

	return s.serve(ctx, signature, contentType, func(ctx context.Context) ([]byte, error) {
		records, err := s.store.Find(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, domain.NewQueryError(domain.ErrNotFound, "no data found for export", nil)
		}
		return export.Format(records, format)
	})
}
