package domain

import "time"

// Response envelopes returned by the query endpoints. Shapes follow the
// public API: list endpoints carry a count and timestamp, detail endpoints
// echo the filters they were asked for.

type DecadesResponse struct {
	Decades   []Decade  `json:"decades"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

type MarketsResponse struct {
	Markets   []Market  `json:"markets"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// MarketGroup is one market's slice of a decade listing.
type MarketGroup struct {
	Name        Market        `json:"name"`
	Stocks      []StockRecord `json:"stocks"`
	TotalStocks int           `json:"total_stocks"`
}

type DecadeDataResponse struct {
	Decade      Decade                 `json:"decade"`
	Markets     map[Market]MarketGroup `json:"markets"`
	TotalStocks int                    `json:"total_stocks"`
	Timestamp   time.Time              `json:"timestamp"`
}

type MarketDataResponse struct {
	Market      Market        `json:"market"`
	Decade      Decade        `json:"decade,omitempty"`
	Stocks      []StockRecord `json:"stocks"`
	TotalStocks int           `json:"total_stocks"`
	Timestamp   time.Time     `json:"timestamp"`
}

// StockHistoryEntry is one decade of a symbol's history, tagged with its
// qualitative performance bucket.
type StockHistoryEntry struct {
	StockRecord
	Performance Bucket `json:"performance"`
}

type StockHistoryResponse struct {
	Symbol         string              `json:"symbol"`
	CompanyName    string              `json:"company_name"`
	HistoricalData []StockHistoryEntry `json:"historical_data"`
	DecadesCount   int                 `json:"decades_count"`
	Timestamp      time.Time           `json:"timestamp"`
}

// AppliedFilters echoes the filter set a ranking or statistics query ran
// with, including the effective (clamped) limit.
type AppliedFilters struct {
	Decade Decade `json:"decade,omitempty"`
	Market Market `json:"market,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type TopPerformersResponse struct {
	TopPerformers []StockRecord  `json:"top_performers"`
	Filters       AppliedFilters `json:"filters"`
	Count         int            `json:"count"`
	Timestamp     time.Time      `json:"timestamp"`
}

type StatisticsResponse struct {
	Statistics Statistics     `json:"statistics"`
	Filters    AppliedFilters `json:"filters"`
	Timestamp  time.Time      `json:"timestamp"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Postgres  string    `json:"postgres"`
	Redis     string    `json:"redis,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
