package domain

import "strings"

// Market is one of the four supported exchanges. The canonical string forms
// match the values stored by the importer.
type Market string

const (
	MarketNYSE      Market = "NYSE"
	MarketFrankfurt Market = "Frankfurt"
	MarketTokyo     Market = "Tokyo"
	MarketHongKong  Market = "Hong Kong"
)

var markets = []Market{MarketNYSE, MarketFrankfurt, MarketTokyo, MarketHongKong}

func (m Market) Valid() bool {
	for _, known := range markets {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMarket resolves a market name case-insensitively. "hong kong",
// "hongkong" and "hong-kong" all resolve to MarketHongKong.
func ParseMarket(s string) (Market, bool) {
	folded := strings.ToLower(strings.TrimSpace(s))
	folded = strings.ReplaceAll(folded, "-", " ")
	for _, known := range markets {
		if folded == strings.ToLower(string(known)) {
			return known, true
		}
	}
	if folded == "hongkong" {
		return MarketHongKong, true
	}
	return "", false
}

// Decade is a fixed ten-year bucket, "1920s" through "2020s".
type Decade string

var decades = []Decade{
	"1920s", "1930s", "1940s", "1950s", "1960s",
	"1970s", "1980s", "1990s", "2000s", "2010s", "2020s",
}

func (d Decade) Valid() bool {
	for _, known := range decades {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDecade resolves a decade bucket case-insensitively ("1980S" → "1980s").
func ParseDecade(s string) (Decade, bool) {
	folded := strings.ToLower(strings.TrimSpace(s))
	for _, known := range decades {
		if folded == string(known) {
			return known, true
		}
	}
	return "", false
}
