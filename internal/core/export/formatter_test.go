package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unaivero/financiera-ancestral/internal/core/domain"
)

func sampleRecords() []domain.StockRecord {
	return []domain.StockRecord{
		{
			Symbol: "AAPL", CompanyName: "Apple Inc.", Sector: "Technology",
			Market: domain.MarketNYSE, Decade: "2010s",
			StartDate: time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC),
			StartPrice: 30.57, EndPrice: 73.41, TotalReturn: 1.4014,
			AvgVolume: 125000000, Volatility: 0.0174, DataPointCount: 2516,
		},
		{
			Symbol: "SAP", CompanyName: `Software "AG", Walldorf`, Sector: "Technology",
			Market: domain.MarketFrankfurt, Decade: "2010s",
			StartDate: time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2019, 12, 30, 0, 0, 0, 0, time.UTC),
			StartPrice: 33.1, EndPrice: 120.32, TotalReturn: 2.6351,
			AvgVolume: 2900000, Volatility: 0.0131, DataPointCount: 2533,
		},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	records := sampleRecords()

	out, err := Format(records, KindCSV)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per record")

	assert.Equal(t, header, rows[0])

	for i, rec := range records {
		row := rows[i+1]
		assert.Equal(t, rec.Symbol, row[0])
		assert.Equal(t, rec.CompanyName, row[1])
		assert.Equal(t, rec.Sector, row[2])
		assert.Equal(t, string(rec.Market), row[3])
		assert.Equal(t, string(rec.Decade), row[4])
		assert.Equal(t, rec.StartDate.Format("2006-01-02"), row[5])
		assert.Equal(t, rec.EndDate.Format("2006-01-02"), row[6])

		startPrice, err := strconv.ParseFloat(row[7], 64)
		require.NoError(t, err)
		assert.Equal(t, rec.StartPrice, startPrice)

		totalReturn, err := strconv.ParseFloat(row[9], 64)
		require.NoError(t, err)
		assert.Equal(t, rec.TotalReturn, totalReturn)

		dataPoints, err := strconv.Atoi(row[12])
		require.NoError(t, err)
		assert.Equal(t, rec.DataPointCount, dataPoints)
	}
}

func TestCSVQuotesEmbeddedDelimitersAndQuotes(t *testing.T) {
	out, err := Format(sampleRecords(), KindCSV)
	require.NoError(t, err)

	// The company name containing a comma and quotes must come out doubled
	// and quoted per CSV rules.
	assert.Contains(t, string(out), `"Software ""AG"", Walldorf"`)
	assert.False(t, strings.Contains(string(out), "\r\n"), "line terminator is a single newline")
}

func TestJSONRoundTrip(t *testing.T) {
	records := sampleRecords()

	out, err := Format(records, KindJSON)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(out, &rows))
	require.Len(t, rows, 2)

	// Input ordering preserved, numbers emitted as JSON numbers.
	assert.Equal(t, "AAPL", rows[0]["symbol"])
	assert.Equal(t, "SAP", rows[1]["symbol"])
	assert.InDelta(t, 1.4014, rows[0]["total_return"], 1e-9)
	assert.InDelta(t, 2516, rows[0]["data_points"], 0)
	assert.Equal(t, "2010-01-04", rows[0]["start_date"])

	// Field names match the CSV header set exactly.
	for _, name := range header {
		_, ok := rows[0][name]
		assert.True(t, ok, "missing field %q", name)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := Format(sampleRecords(), "xml")
	var qe *domain.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, domain.ErrUnsupportedFormat, qe.Kind)

	_, err = ContentType("parquet")
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, domain.ErrUnsupportedFormat, qe.Kind)
}

func TestMalformedRecordNamesOffendingKey(t *testing.T) {
	records := sampleRecords()
	records[1].Symbol = ""

	_, err := Format(records, KindCSV)
	var qe *domain.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, domain.ErrMalformedRecord, qe.Kind)
	assert.Contains(t, qe.Detail, "Frankfurt")
	assert.Contains(t, qe.Detail, "2010s")
}

func TestEmptySetStillHasHeader(t *testing.T) {
	out, err := Format(nil, KindCSV)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(header, ",")+"\n", string(out))
}
