package domain

import (
	"fmt"
	"time"
)

// StockRecord is one row of decade-summarized performance for a symbol on a
// market. Records are produced by the offline importer and are read-only to
// the serving core. (Symbol, Market, Decade) is unique.
type StockRecord struct {
	Symbol         string    `json:"symbol"`
	CompanyName    string    `json:"company_name"`
	Sector         string    `json:"sector"`
	Market         Market    `json:"market"`
	Decade         Decade    `json:"decade"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	StartPrice     float64   `json:"start_price"`
	EndPrice       float64   `json:"end_price"`
	TotalReturn    float64   `json:"total_return"`
	AvgVolume      float64   `json:"avg_volume"`
	Volatility     float64   `json:"volatility"`
	DataPointCount int       `json:"data_points"`
}

// Key identifies a record for error reporting.
func (r StockRecord) Key() string {
	return fmt.Sprintf("%s/%s/%s", r.Symbol, r.Market, r.Decade)
}

// Validate reports the first integrity problem found, or nil. Used by the
// export formatter to surface malformed rows coming out of the store.
func (r StockRecord) Validate() error {
	switch {
	case r.Symbol == "":
		return fmt.Errorf("record %s: empty symbol", r.Key())
	case !r.Market.Valid():
		return fmt.Errorf("record %s: unknown market %q", r.Key(), string(r.Market))
	case !r.Decade.Valid():
		return fmt.Errorf("record %s: unknown decade %q", r.Key(), string(r.Decade))
	case r.StartDate.IsZero() || r.EndDate.IsZero():
		return fmt.Errorf("record %s: missing date range", r.Key())
	case !r.StartDate.Before(r.EndDate):
		return fmt.Errorf("record %s: start date not before end date", r.Key())
	case r.StartPrice <= 0 || r.EndPrice <= 0:
		return fmt.Errorf("record %s: non-positive price", r.Key())
	case r.AvgVolume < 0:
		return fmt.Errorf("record %s: negative volume", r.Key())
	case r.Volatility < 0:
		return fmt.Errorf("record %s: negative volatility", r.Key())
	case r.DataPointCount < 1:
		return fmt.Errorf("record %s: no data points", r.Key())
	}
	return nil
}
