package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
)

const sampleCSV = `Date,Open,High,Low,Close,Volume
2009-12-30,110,112,109,111,1000
2009-12-28,108,110,107,109,900
2010-01-04,100,101,99,100,2000
2010-01-05,100,103,100,102,3000
2019-12-31,300,301,298,300,4000
`

func TestParseCSV(t *testing.T) {
	bars, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, bars, 5)

	// Rows come back date-sorted regardless of file order.
	assert.Equal(t, 108.0, bars[0].Open)
	assert.Equal(t, 100.0, bars[2].Open)
	assert.Equal(t, 4000.0, bars[4].Volume)
}

func TestParseCSVRejectsMissingColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Date,Close\n2020-01-02,10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Open")
}

func TestParseCSVRejectsBadValues(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Date,Open,High,Low,Close,Volume\nnot-a-date,1,1,1,1,1\n"))
	require.Error(t, err)

	_, err = ParseCSV(strings.NewReader("Date,Open,High,Low,Close,Volume\n2020-01-02,x,1,1,1,1\n"))
	require.Error(t, err)
}

func TestSummarizeByDecade(t *testing.T) {
	bars, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	records := SummarizeByDecade(bars, "SPY", "SPDR S&P 500 ETF", "ETF", domain.MarketNYSE)
	require.Len(t, records, 2)

	var r2010s domain.StockRecord
	for _, rec := range records {
		require.NoError(t, rec.Validate())
		if rec.Decade == "2010s" {
			r2010s = rec
		}
	}

	assert.Equal(t, "SPY", r2010s.Symbol)
	assert.Equal(t, 100.0, r2010s.StartPrice, "decade opens at its first Open")
	assert.Equal(t, 300.0, r2010s.EndPrice, "decade closes at its last Close")
	assert.InDelta(t, 2.0, r2010s.TotalReturn, 1e-9, "(300-100)/100, fractional")
	assert.InDelta(t, 3000.0, r2010s.AvgVolume, 1e-9)
	assert.Equal(t, 3, r2010s.DataPointCount)
	assert.Greater(t, r2010s.Volatility, 0.0)
}

func TestSummarizeSkipsSingleBarDecades(t *testing.T) {
	bars, err := ParseCSV(strings.NewReader("Date,Open,High,Low,Close,Volume\n1999-06-01,50,51,49,55,100\n"))
	require.NoError(t, err)

	records := SummarizeByDecade(bars, "X", "", "", domain.MarketTokyo)
	assert.Empty(t, records, "one bar cannot open a date range")
}
