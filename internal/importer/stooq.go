// Package importer turns daily Stooq price history into the decade-summary
// records the serving core reads. It is the system's only write path and
// runs offline, never inside a request.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
)

const dateLayout = "2006-01-02"

// DailyBar is one row of a Stooq daily CSV (Date,Open,High,Low,Close,Volume).
type DailyBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// ParseCSV reads a Stooq daily CSV. The header row is required; rows come
// back sorted by date regardless of file order.
func ParseCSV(r io.Reader) ([]DailyBar, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"Date", "Open", "Close", "Volume"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("csv missing required column %q", required)
		}
	}

	var bars []DailyBar
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		bar, err := parseBar(row, col)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func parseBar(row []string, col map[string]int) (DailyBar, error) {
	var bar DailyBar

	date, err := time.Parse(dateLayout, row[col["Date"]])
	if err != nil {
		return bar, fmt.Errorf("parse date %q: %w", row[col["Date"]], err)
	}
	bar.Date = date

	fields := []struct {
		name string
		dst  *float64
	}{
		{"Open", &bar.Open},
		{"Close", &bar.Close},
		{"Volume", &bar.Volume},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(row[col[f.name]], 64)
		if err != nil {
			return bar, fmt.Errorf("parse %s %q: %w", f.name, row[col[f.name]], err)
		}
		*f.dst = v
	}

	if i, ok := col["High"]; ok {
		bar.High, _ = strconv.ParseFloat(row[i], 64)
	}
	if i, ok := col["Low"]; ok {
		bar.Low, _ = strconv.ParseFloat(row[i], 64)
	}

	return bar, nil
}

// decadeOf buckets a year: 1987 → "1980s".
func decadeOf(year int) domain.Decade {
	return domain.Decade(fmt.Sprintf("%ds", year/10*10))
}

// SummarizeByDecade folds daily bars into one record per decade: the window
// opens at the decade's first Open and closes at its last Close, total
// return is fractional, and volatility is the population standard deviation
// of day-over-day returns within the decade.
func SummarizeByDecade(bars []DailyBar, symbol, companyName, sector string, market domain.Market) []domain.StockRecord {
	byDecade := make(map[domain.Decade][]DailyBar)
	var order []domain.Decade
	for _, bar := range bars {
		d := decadeOf(bar.Date.Year())
		if _, seen := byDecade[d]; !seen {
			order = append(order, d)
		}
		byDecade[d] = append(byDecade[d], bar)
	}

	var records []domain.StockRecord
	for _, d := range order {
		window := byDecade[d]
		first, last := window[0], window[len(window)-1]
		// One bar cannot open a date range; a zero Open cannot anchor a
		// return. Either way the decade is dropped.
		if len(window) < 2 || first.Open <= 0 {
			continue
		}

		var volumeSum float64
		for _, bar := range window {
			volumeSum += bar.Volume
		}

		records = append(records, domain.StockRecord{
			Symbol:         symbol,
			CompanyName:    companyName,
			Sector:         sector,
			Market:         market,
			Decade:         d,
			StartDate:      first.Date,
			EndDate:        last.Date,
			StartPrice:     first.Open,
			EndPrice:       last.Close,
			TotalReturn:    (last.Close - first.Open) / first.Open,
			AvgVolume:      volumeSum / float64(len(window)),
			Volatility:     dailyReturnStdDev(window),
			DataPointCount: len(window),
		})
	}

	return records
}

// dailyReturnStdDev is the population standard deviation of day-over-day
// close returns. Fewer than two bars means no returns to measure.
func dailyReturnStdDev(window []DailyBar) float64 {
	if len(window) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		prev := window[i-1].Close
		if prev <= 0 {
			continue
		}
		returns = append(returns, (window[i].Close-prev)/prev)
	}
	if len(returns) == 0 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		sq += (r - mean) * (r - mean)
	}
	return math.Sqrt(sq / float64(len(returns)))
}
