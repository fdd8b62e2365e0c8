// Package export serializes record sets for download. CSV and JSON carry
// the same field set under the same names; only the framing differs.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
)

const (
	KindCSV  = "csv"
	KindJSON = "json"
)

const dateLayout = "2006-01-02"

// Column order is fixed and matches the record schema.
var header = []string{
	"symbol", "company_name", "sector", "market", "decade",
	"start_date", "end_date", "start_price", "end_price",
	"total_return", "avg_volume", "volatility", "data_points",
}

// row mirrors a StockRecord with dates flattened to calendar strings so the
// two formats render identically.
type row struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"company_name"`
	Sector      string  `json:"sector"`
	Market      string  `json:"market"`
	Decade      string  `json:"decade"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	StartPrice  float64 `json:"start_price"`
	EndPrice    float64 `json:"end_price"`
	TotalReturn float64 `json:"total_return"`
	AvgVolume   float64 `json:"avg_volume"`
	Volatility  float64 `json:"volatility"`
	DataPoints  int     `json:"data_points"`
}

// ContentType returns the MIME type for a supported kind, or an
// UnsupportedFormat error.
func ContentType(kind string) (string, error) {
	switch kind {
	case KindCSV:
		return "text/csv", nil
	case KindJSON:
		return "application/json", nil
	default:
		return "", domain.NewQueryError(domain.ErrUnsupportedFormat,
			fmt.Sprintf("unsupported export format %q, use csv or json", kind), nil)
	}
}

// Format serializes records in the requested kind, preserving input order.
// An unknown kind yields UnsupportedFormat; a record failing validation
// yields MalformedRecord naming the offending record.
func Format(records []domain.StockRecord, kind string) ([]byte, error) {
	rows := make([]row, 0, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, domain.NewQueryError(domain.ErrMalformedRecord,
				fmt.Sprintf("malformed record %s", r.Key()), err)
		}
		rows = append(rows, row{
			Symbol:      r.Symbol,
			CompanyName: r.CompanyName,
			Sector:      r.Sector,
			Market:      string(r.Market),
			Decade:      string(r.Decade),
			StartDate:   r.StartDate.Format(dateLayout),
			EndDate:     r.EndDate.Format(dateLayout),
			StartPrice:  r.StartPrice,
			EndPrice:    r.EndPrice,
			TotalReturn: r.TotalReturn,
			AvgVolume:   r.AvgVolume,
			Volatility:  r.Volatility,
			DataPoints:  r.DataPointCount,
		})
	}

	switch kind {
	case KindCSV:
		return formatCSV(rows)
	case KindJSON:
		return formatJSON(rows)
	default:
		return nil, domain.NewQueryError(domain.ErrUnsupportedFormat,
			fmt.Sprintf("unsupported export format %q, use csv or json", kind), nil)
	}
}

func formatCSV(rows []row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range rows {
		record := []string{
			r.Symbol,
			r.CompanyName,
			r.Sector,
			r.Market,
			r.Decade,
			r.StartDate,
			r.EndDate,
			formatFloat(r.StartPrice),
			formatFloat(r.EndPrice),
			formatFloat(r.TotalReturn),
			formatFloat(r.AvgVolume),
			formatFloat(r.Volatility),
			strconv.Itoa(r.DataPoints),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatJSON(rows []row) ([]byte, error) {
	return json.MarshalIndent(rows, "", "  ")
}

// formatFloat renders the shortest exact decimal form, locale-independent.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
