package etrade

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nvraman/schedulefa"
	"github.com/nvraman/schedulefa/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFmv answers every fair-market-value query with a fixed USD price.
type stubFmv struct {
	price string
}

func (s stubFmv) FairMarketValue(ticker string, on date.Date) (schedulefa.Money, date.Date, error) {
	return schedulefa.M(decimal.RequireFromString(s.price), "USD"), on, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("cannot create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("cannot write %s: %v", path, err)
	}
}

const esppSheet = `Record Type,Symbol,Purchase Date,Purchase Date FMV,Sellable Qty.
Purchase,ADBE,30-JUN-2020,$435.31,2
Sale,ADBE,15-JUL-2020,$440.00,1
Purchase,ADBE,31-DEC-2020,$500.12,1.5
`

const rsuSheet = `Record Type,Event Type,Symbol,Date,Qty. or Amount
Grant,,ADBE,,
Event,Shares released,,9/15/2020,3
Event,Cash transfer,,9/16/2020,100
`

func TestParseMode(t *testing.T) {
	m, err := ParseMode("ETRADE_BENEFIT_HISTORY")
	require.NoError(t, err)
	assert.Equal(t, BenefitHistory, m)

	m, err = ParseMode("etrade_holdings_bystatus")
	require.NoError(t, err)
	assert.Equal(t, HoldingsByStatus, m)

	_, err = ParseMode("schwab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schwab")
}

func TestParseESPPSheet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, esppSheetFile), esppSheet)

	acquisitions, err := ParseBenefitHistory(dir, schedulefa.NewRegistry(), stubFmv{"400"}, nil)
	require.NoError(t, err)
	require.Len(t, acquisitions, 2, "only Purchase records count")

	a := acquisitions[0]
	assert.Equal(t, "adbe", a.Ticker)
	assert.Equal(t, date.New(2020, time.June, 30), a.Date.Date)
	assert.Equal(t, "30-JUN-2020", a.Date.Original(), "verbatim source string retained")
	assert.True(t, a.FMV.Equal(schedulefa.M(decimal.RequireFromString("435.31"), "USD")), "fmv %s", a.FMV)
	assert.True(t, a.Quantity.Equal(schedulefa.Q(2)))

	assert.True(t, acquisitions[1].Quantity.Equal(schedulefa.Q(1.5)), "fractional quantities survive")
}

func TestParseRSUSheet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, rsuSheetFile), rsuSheet)

	acquisitions, err := ParseBenefitHistory(dir, schedulefa.NewRegistry(), stubFmv{"480.00"}, nil)
	require.NoError(t, err)
	require.Len(t, acquisitions, 1, "only release events count")

	a := acquisitions[0]
	assert.Equal(t, "adbe", a.Ticker, "ticker comes from the preceding Grant record")
	assert.Equal(t, date.New(2020, time.September, 15), a.Date.Date)
	assert.True(t, a.FMV.Equal(schedulefa.M(decimal.RequireFromString("480.00"), "USD")), "fmv resolved from the price source")
	assert.True(t, a.Quantity.Equal(schedulefa.Q(3)))
}

func TestParseRSUReleaseWithoutGrant(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, rsuSheetFile),
		"Record Type,Event Type,Symbol,Date,Qty. or Amount\nEvent,Shares released,,9/15/2020,3\n")

	_, err := ParseBenefitHistory(dir, schedulefa.NewRegistry(), stubFmv{"480.00"}, nil)
	require.ErrorIs(t, err, schedulefa.ErrUnknownTicker)
}

func TestParseRSUBounds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, rsuSheetFile), `Record Type,Event Type,Symbol,Date,Qty. or Amount
Grant,,ADBE,,
Event,Shares released,,9/15/2019,5
Event,Shares released,,9/15/2020,3
`)
	bounds := &date.Period{
		From: date.New(2020, time.January, 1),
		To:   date.New(2020, time.December, 31),
	}
	acquisitions, err := ParseBenefitHistory(dir, schedulefa.NewRegistry(), stubFmv{"480.00"}, bounds)
	require.NoError(t, err)
	require.Len(t, acquisitions, 1)
	assert.Equal(t, date.New(2020, time.September, 15), acquisitions[0].Date.Date)
}

func TestParseBenefitHistoryMergesChronologically(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, esppSheetFile), esppSheet)
	writeFile(t, filepath.Join(dir, rsuSheetFile), rsuSheet)

	acquisitions, err := ParseBenefitHistory(dir, schedulefa.NewRegistry(), stubFmv{"480.00"}, nil)
	require.NoError(t, err)
	require.Len(t, acquisitions, 3)
	for i := 1; i < len(acquisitions); i++ {
		assert.False(t, acquisitions[i].Date.Before(acquisitions[i-1].Date.Date),
			"acquisitions must come out sorted, got %s before %s", acquisitions[i].Date, acquisitions[i-1].Date)
	}
}

func TestParseBenefitHistoryNoSheets(t *testing.T) {
	_, err := ParseBenefitHistory(t.TempDir(), schedulefa.NewRegistry(), stubFmv{"1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no")
}

func TestParseBenefitHistoryUnknownTicker(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, esppSheetFile),
		"Record Type,Symbol,Purchase Date,Purchase Date FMV,Sellable Qty.\nPurchase,MSFT,30-JUN-2020,$200.00,1\n")
	_, err := ParseBenefitHistory(dir, schedulefa.NewRegistry(), stubFmv{"1"}, nil)
	require.ErrorIs(t, err, schedulefa.ErrUnknownTicker)
}

func TestParseHoldings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sellable.csv")
	writeFile(t, path, `Symbol,Date Acquired,Purchase Date FMV,Sellable Qty.
ADBE,30-JUN-2020,$435.31,2
,,,
ADBE,15-SEP-2020,$480.00,1
Total,,,
`)
	acquisitions, err := ParseHoldings(path, schedulefa.NewRegistry())
	require.NoError(t, err)
	require.Len(t, acquisitions, 2, "rows without a date acquired are skipped")
	assert.Equal(t, date.New(2020, time.June, 30), acquisitions[0].Date.Date)
	assert.Equal(t, date.New(2020, time.September, 15), acquisitions[1].Date.Date)
}

func TestParseHoldingsMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sellable.csv")
	writeFile(t, path, "Symbol,Qty\nADBE,2\n")
	_, err := ParseHoldings(path, schedulefa.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestParseHoldingsMissingFile(t *testing.T) {
	_, err := ParseHoldings(filepath.Join(t.TempDir(), "nope.csv"), schedulefa.NewRegistry())
	require.Error(t, err)
}
