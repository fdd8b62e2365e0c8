package domain

import (
	"fmt"
	"strings"
)

const maxSymbolLen = 10

// QueryFilter is the typed filter set a request carries into the core.
// Zero-valued fields are "not filtered". Filters are built and validated once
// at the transport boundary; the engine trusts them.
type QueryFilter struct {
	Decade Decade
	Market Market
	Symbol string
}

// NewQueryFilter validates the raw query parameters and builds a typed
// filter. Any unrecognized value yields an ErrInvalidFilter error.
func NewQueryFilter(decade, market, symbol string) (QueryFilter, error) {
	var f QueryFilter

	if decade != "" {
		d, ok := ParseDecade(decade)
		if !ok {
			return f, NewQueryError(ErrInvalidFilter, fmt.Sprintf("invalid decade %q", decade), nil)
		}
		f.Decade = d
	}

	if market != "" {
		m, ok := ParseMarket(market)
		if !ok {
			return f, NewQueryError(ErrInvalidFilter, fmt.Sprintf("invalid market %q", market), nil)
		}
		f.Market = m
	}

	if symbol != "" {
		sym, err := NormalizeSymbol(symbol)
		if err != nil {
			return f, err
		}
		f.Symbol = sym
	}

	return f, nil
}

// NormalizeSymbol uppercases a ticker and rejects anything that could not be
// one: empty, too long, or containing characters outside [A-Z0-9.-].
func NormalizeSymbol(s string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(s))
	if sym == "" || len(sym) > maxSymbolLen {
		return "", NewQueryError(ErrInvalidFilter, fmt.Sprintf("invalid symbol %q", s), nil)
	}
	for _, c := range sym {
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '.' || c == '-':
		default:
			return "", NewQueryError(ErrInvalidFilter, fmt.Sprintf("invalid symbol %q", s), nil)
		}
	}
	return sym, nil
}

// IsEmpty reports whether the filter passes every record through.
func (f QueryFilter) IsEmpty() bool {
	return f.Decade == "" && f.Market == "" && f.Symbol == ""
}

// Matches applies the filter to a single record; omitted fields always pass
// and present fields compose as a logical AND.
func (f QueryFilter) Matches(r StockRecord) bool {
	if f.Decade != "" && r.Decade != f.Decade {
		return false
	}
	if f.Market != "" && r.Market != f.Market {
		return false
	}
	if f.Symbol != "" && r.Symbol != f.Symbol {
		return false
	}
	return true
}
