package domain

// Statistics summarizes a filtered record set. A Count of zero means every
// other field is a meaningless zero value, never the result of dividing by
// an empty set.
type Statistics struct {
	Count          int     `json:"total_stocks"`
	MeanReturn     float64 `json:"avg_return"`
	MedianReturn   float64 `json:"median_return"`
	MinReturn      float64 `json:"min_return"`
	MaxReturn      float64 `json:"max_return"`
	MeanVolatility float64 `json:"avg_volatility"`
	MeanVolume     float64 `json:"avg_volume"`
	Markets        int     `json:"markets_count"`
	Decades        int     `json:"decades_count"`
}

// Bucket is the qualitative performance category shown by presentation
// layers alongside a record's total return.
type Bucket string

const (
	BucketPoor        Bucket = "Poor"
	BucketModest      Bucket = "Modest"
	BucketGood        Bucket = "Good"
	BucketExcellent   Bucket = "Excellent"
	BucketOutstanding Bucket = "Outstanding"
)
