package service

import (
	"sort"

	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
)

const (
	minRankLimit = 1
	maxRankLimit = 50
)

// The analytics engine: pure functions over record sets. Nothing in this
// file mutates its input or touches shared state, so every function is safe
// to call from concurrent requests.

// FilterRecords returns the subset matching the filter. Omitted filter
// fields pass all records; present fields compose as a logical AND.
func FilterRecords(records []domain.StockRecord, filter domain.QueryFilter) []domain.StockRecord {
	if filter.IsEmpty() {
		out := make([]domain.StockRecord, len(records))
		copy(out, records)
		return out
	}

	out := make([]domain.StockRecord, 0, len(records))
	for _, r := range records {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// ClampLimit forces a requested result count into [1, 50]. Values above the
// ceiling are capped, not rejected; zero and negatives become 1.
func ClampLimit(limit int) int {
	if limit < minRankLimit {
		return minRankLimit
	}
	if limit > maxRankLimit {
		return maxRankLimit
	}
	return limit
}

// RankTopPerformers sorts by total return descending, breaking ties by
// symbol ascending so the ordering is deterministic, and truncates to the
// clamped limit.
func RankTopPerformers(records []domain.StockRecord, limit int) []domain.StockRecord {
	limit = ClampLimit(limit)

	ranked := make([]domain.StockRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalReturn != ranked[j].TotalReturn {
			return ranked[i].TotalReturn > ranked[j].TotalReturn
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Aggregate computes summary statistics over a record set using population
// formulas. An empty set yields a zero-valued result with Count 0 rather
// than a division error. Volatility is averaged as imported, never
// recomputed from price series.
func Aggregate(records []domain.StockRecord) domain.Statistics {
	stats := domain.Statistics{Count: len(records)}
	if len(records) == 0 {
		return stats
	}

	returns := make([]float64, 0, len(records))
	marketSet := make(map[domain.Market]struct{})
	decadeSet := make(map[domain.Decade]struct{})

	var sumReturn, sumVolatility, sumVolume float64
	stats.MinReturn = records[0].TotalReturn
	stats.MaxReturn = records[0].TotalReturn

	for _, r := range records {
		sumReturn += r.TotalReturn
		sumVolatility += r.Volatility
		sumVolume += r.AvgVolume
		returns = append(returns, r.TotalReturn)
		marketSet[r.Market] = struct{}{}
		decadeSet[r.Decade] = struct{}{}

		if r.TotalReturn < stats.MinReturn {
			stats.MinReturn = r.TotalReturn
		}
		if r.TotalReturn > stats.MaxReturn {
			stats.MaxReturn = r.TotalReturn
		}
	}

	n := float64(len(records))
	stats.MeanReturn = sumReturn / n
	stats.MeanVolatility = sumVolatility / n
	stats.MeanVolume = sumVolume / n
	stats.MedianReturn = median(returns)
	stats.Markets = len(marketSet)
	stats.Decades = len(decadeSet)

	return stats
}

// median mutates its argument by sorting it; callers pass a private copy.
func median(values []float64) float64 {
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

// PerformanceBucket maps a fractional total return onto its qualitative
// category. Exposed on its own so presentation layers can label records
// without running a full query.
func PerformanceBucket(totalReturn float64) domain.Bucket {
	switch {
	case totalReturn < 0:
		return domain.BucketPoor
	case totalReturn < 0.20:
		return domain.BucketModest
	case totalReturn < 0.50:
		return domain.BucketGood
	case totalReturn < 1.00:
		return domain.BucketExcellent
	default:
		return domain.BucketOutstanding
	}
}

// DistinctDecades lists the decade buckets present in a record set, sorted
// ascending. Chronological and lexicographic order coincide for decades.
func DistinctDecades(records []domain.StockRecord) []domain.Decade {
	seen := make(map[domain.Decade]struct{})
	out := make([]domain.Decade, 0)
	for _, r := range records {
		if _, ok := seen[r.Decade]; !ok {
			seen[r.Decade] = struct{}{}
			out = append(out, r.Decade)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DistinctMarkets lists the markets present in a record set, sorted
// ascending by name.
func DistinctMarkets(records []domain.StockRecord) []domain.Market {
	seen := make(map[domain.Market]struct{})
	out := make([]domain.Market, 0)
	for _, r := range records {
		if _, ok := seen[r.Market]; !ok {
			seen[r.Market] = struct{}{}
			out = append(out, r.Market)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortByDecade orders a copy of the records chronologically, then by market
// and symbol for a stable listing.
func SortByDecade(records []domain.StockRecord) []domain.StockRecord {
	out := make([]domain.StockRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Decade != out[j].Decade {
			return out[i].Decade < out[j].Decade
		}
		if out[i].Market != out[j].Market {
			return out[i].Market < out[j].Market
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
