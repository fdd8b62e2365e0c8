package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
)

type stubStore struct {
	records []domain.StockRecord
	err     error
	calls   int
}

func (s *stubStore) Find(_ context.Context, filter domain.QueryFilter) ([]domain.StockRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return FilterRecords(s.records, filter), nil
}

type stubCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	puts    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]byte)}
}

func (c *stubCache) Get(_ context.Context, signature string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[signature]
	return payload, ok
}

func (c *stubCache) Put(_ context.Context, signature string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[signature] = payload
	c.puts++
}

// stubLimiter admits the first denyAfter calls and rejects the rest.
// Zero means always allow; negative means always deny.
type stubLimiter struct {
	denyAfter int
	calls     int
}

func (l *stubLimiter) Allow(_ context.Context, _ string, _ time.Time) (bool, time.Duration) {
	l.calls++
	if l.denyAfter != 0 && l.calls > l.denyAfter {
		return false, 30 * time.Second
	}
	return true, 0
}

func newTestService(store *stubStore, cache *stubCache, limiter *stubLimiter) *QueryService {
	return NewQueryService(store, cache, limiter, 10, slog.Default())
}

var testRecords = []domain.StockRecord{
	{
		Symbol: "AAPL", CompanyName: "Apple Inc.", Sector: "Technology",
		Market: domain.MarketNYSE, Decade: "2010s",
		StartDate: time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC),
		StartPrice: 30, EndPrice: 75, TotalReturn: 1.50,
		AvgVolume: 1e7, Volatility: 0.02, DataPointCount: 2500,
	},
	{
		Symbol: "IBM", CompanyName: "IBM Corp.", Sector: "Technology",
		Market: domain.MarketNYSE, Decade: "2010s",
		StartDate: time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC),
		StartPrice: 100, EndPrice: 110, TotalReturn: 0.10,
		AvgVolume: 5e6, Volatility: 0.015, DataPointCount: 2500,
	},
	{
		Symbol: "GE", CompanyName: "General Electric", Sector: "Industrials",
		Market: domain.MarketNYSE, Decade: "2010s",
		StartDate: time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC),
		StartPrice: 10, EndPrice: 25, TotalReturn: 1.50,
		AvgVolume: 8e6, Volatility: 0.03, DataPointCount: 2500,
	},
}

func TestTopPerformersEndToEnd(t *testing.T) {
	store := &stubStore{records: testRecords}
	svc := newTestService(store, newStubCache(), &stubLimiter{})

	result, err := svc.TopPerformers(context.Background(), "1.2.3.4", "2010s", "NYSE", 2)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceComputed, result.Source)

	var resp domain.TopPerformersResponse
	require.NoError(t, json.Unmarshal(result.Payload, &resp))
	require.Len(t, resp.TopPerformers, 2)
	assert.Equal(t, "AAPL", resp.TopPerformers[0].Symbol)
	assert.Equal(t, "GE", resp.TopPerformers[1].Symbol)
	assert.Equal(t, 2, resp.Filters.Limit)
}

func TestSecondCallHitsCache(t *testing.T) {
	store := &stubStore{records: testRecords}
	svc := newTestService(store, newStubCache(), &stubLimiter{})

	first, err := svc.Statistics(context.Background(), "c1", "2010s", "NYSE")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceComputed, first.Source)

	second, err := svc.Statistics(context.Background(), "c1", "2010s", "NYSE")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceCached, second.Source)
	assert.Equal(t, first.Payload, second.Payload)
	assert.Equal(t, 1, store.calls)
}

func TestParameterCasingSharesCacheEntry(t *testing.T) {
	store := &stubStore{records: testRecords}
	cache := newStubCache()
	svc := newTestService(store, cache, &stubLimiter{})

	_, err := svc.Statistics(context.Background(), "c1", "2010s", "nyse")
	require.NoError(t, err)

	second, err := svc.Statistics(context.Background(), "c1", "2010S", "NYSE")
	require.NoError(t, err)

	assert.Equal(t, domain.SourceCached, second.Source)
	assert.Equal(t, 1, cache.puts)
	assert.Equal(t, 1, store.calls)
}

func TestRateLimitedBeforeAnyWork(t *testing.T) {
	store := &stubStore{records: testRecords}
	limiter := &stubLimiter{denyAfter: 1}
	svc := newTestService(store, newStubCache(), limiter)

	_, err := svc.Decades(context.Background(), "c1")
	require.NoError(t, err)

	_, err = svc.Decades(context.Background(), "c1")
	var limited domain.RateLimited
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, 30*time.Second, limited.RetryAfter)
	assert.Equal(t, 1, store.calls)
}

func TestOverQuotaClientIsRejectedBeforeValidation(t *testing.T) {
	store := &stubStore{records: testRecords}
	limiter := &stubLimiter{denyAfter: -1}
	svc := newTestService(store, newStubCache(), limiter)

	// The decade is invalid, but quota gating comes first.
	_, err := svc.Statistics(context.Background(), "1.2.3.4", "1850s", "")
	var limited domain.RateLimited
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, 1, limiter.calls)
	assert.Equal(t, 0, store.calls)

	_, err = svc.Export(context.Background(), "1.2.3.4", "", "", "xml")
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, 2, limiter.calls)
}

func TestInvalidFilterRejectedBeforeStore(t *testing.T) {
	store := &stubStore{records: testRecords}
	svc := newTestService(store, newStubCache(), &stubLimiter{})

	_, err := svc.Statistics(context.Background(), "c1", "1850s", "")
	var qe *domain.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, domain.ErrInvalidFilter, qe.Kind)
	assert.Equal(t, 0, store.calls)
}

func TestFailedComputationIsNeverCached(t *testing.T) {
	store := &stubStore{err: domain.NewQueryError(domain.ErrStoreUnavailable, "store down", errors.New("conn refused"))}
	cache := newStubCache()
	svc := newTestService(store, cache, &stubLimiter{})

	_, err := svc.Statistics(context.Background(), "c1", "2010s", "NYSE")
	var qe *domain.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, domain.ErrStoreUnavailable, qe.Kind)
	assert.Equal(t, 0, cache.puts)

	// Store recovers; the earlier failure must not serve as a hit.
	store.err = nil
	store.records = testRecords
	result, err := svc.Statistics(context.Background(), "c1", "2010s", "NYSE")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceComputed, result.Source)
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := newTestService(&stubStore{records: testRecords}, newStubCache(), &stubLimiter{})

	_, err := svc.Export(context.Background(), "c1", "", "", "xml")
	var qe *domain.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, domain.ErrUnsupportedFormat, qe.Kind)
}

func TestExportCSVAndJSON(t *testing.T) {
	svc := newTestService(&stubStore{records: testRecords}, newStubCache(), &stubLimiter{})

	csvResult, err := svc.Export(context.Background(), "c1", "2010s", "NYSE", "CSV")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", csvResult.ContentType)

	jsonResult, err := svc.Export(context.Background(), "c1", "2010s", "NYSE", "json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", jsonResult.ContentType)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(jsonResult.Payload, &rows))
	assert.Len(t, rows, 3)
}

func TestStockHistoryBucketsAndOrder(t *testing.T) {
	records := []domain.StockRecord{
		{
			Symbol: "SPY", Market: domain.MarketNYSE, Decade: "2010s",
			StartDate: time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC),
			StartPrice: 100, EndPrice: 280, TotalReturn: 1.80,
			DataPointCount: 2500,
		},
		{
			Symbol: "SPY", Market: domain.MarketNYSE, Decade: "2000s",
			StartDate: time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2009, 12, 31, 0, 0, 0, 0, time.UTC),
			StartPrice: 140, EndPrice: 110, TotalReturn: -0.21,
			DataPointCount: 2500,
		},
	}
	svc := newTestService(&stubStore{records: records}, newStubCache(), &stubLimiter{})

	result, err := svc.StockHistory(context.Background(), "c1", "spy")
	require.NoError(t, err)

	var resp domain.StockHistoryResponse
	require.NoError(t, json.Unmarshal(result.Payload, &resp))
	assert.Equal(t, "SPY", resp.Symbol)
	require.Len(t, resp.HistoricalData, 2)
	assert.Equal(t, domain.Decade("2000s"), resp.HistoricalData[0].Decade)
	assert.Equal(t, domain.BucketPoor, resp.HistoricalData[0].Performance)
	assert.Equal(t, domain.BucketOutstanding, resp.HistoricalData[1].Performance)
}

func TestNotFoundIsNotCached(t *testing.T) {
	store := &stubStore{}
	cache := newStubCache()
	svc := newTestService(store, cache, &stubLimiter{})

	_, err := svc.DecadeData(context.Background(), "c1", "1920s")
	var qe *domain.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, domain.ErrNotFound, qe.Kind)
	assert.Equal(t, 0, cache.puts)
}
