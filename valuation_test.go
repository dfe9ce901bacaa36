package schedulefa

import (
	"testing"
	"time"

	"github.com/nvraman/schedulefa/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFairMarketValue(t *testing.T) {
	v := newTestValuation(t)

	fmv, matched, err := v.FairMarketValue("adbe", date.New(2020, time.June, 30))
	require.NoError(t, err)
	assert.Equal(t, "USD", fmv.Currency())
	assert.True(t, fmv.Amount().Equal(decimal.RequireFromString("435.31")), "fmv %s", fmv.Amount())
	assert.Equal(t, date.New(2020, time.June, 30), matched)
}

func TestFairMarketValueUnknownTicker(t *testing.T) {
	v := newTestValuation(t)
	_, _, err := v.FairMarketValue("msft", date.New(2020, time.June, 30))
	require.ErrorIs(t, err, ErrUnknownTicker)
}

func TestClosingValue(t *testing.T) {
	v := newTestValuation(t)

	// closing price 500.12 on Dec 31 2020, November rate 74.10, 2 shares
	got, err := v.ClosingValue("adbe", Q(2), date.New(2020, time.December, 31))
	require.NoError(t, err)
	want := decimal.RequireFromString("500.12").
		Mul(decimal.RequireFromString("74.10")).
		Mul(decimal.NewFromInt(2))
	assert.Equal(t, ReportingCurrency, got.Currency())
	assert.True(t, got.Amount().Equal(want), "closing %s want %s", got.Amount(), want)
}

// TestPeakValuePicksConvertedPeak sets up a window where the raw price peak
// and the FX-adjusted peak fall on different dates: the peak must follow the
// converted value.
func TestPeakValuePicksConvertedPeak(t *testing.T) {
	dir := t.TempDir()
	// Mar 2: raw peak 100.00; Apr 1: lower price but a much stronger rate.
	writePrices(t, dir, "acme",
		[2]string{"2020-03-02", "100.00"},
		[2]string{"2020-04-01", "99.00"},
	)
	writeRates(t, dir,
		[3]string{"28 Feb 2020", "USD", "10.00"}, // effective in March
		[3]string{"31 Mar 2020", "USD", "10.50"}, // effective in April
	)
	registry := testRegistry(t, `{"ticker":"acme","currency":"USD","name":"Acme Corp","countryName":"United States","countryCode":"2","address":"1 Main St","nature":"Listed","zipCode":"00001"}`)
	v := NewValuation(dir, registry)

	peak, on, err := v.PeakValue("acme", Q(1), date.New(2020, time.March, 1), date.New(2020, time.April, 30))
	require.NoError(t, err)

	// 99.00 * 10.50 = 1039.50 beats 100.00 * 10.00 = 1000.00
	assert.Equal(t, date.New(2020, time.April, 1), on, "peak must follow the converted value, not the raw price")
	assert.True(t, peak.Amount().Equal(decimal.RequireFromString("1039.50")), "peak %s", peak.Amount())
	assert.Equal(t, ReportingCurrency, peak.Currency())
}

// TestPeakValueTieBreak asserts the documented deterministic rule: on equal
// converted values, the earliest date wins.
func TestPeakValueTieBreak(t *testing.T) {
	dir := t.TempDir()
	writePrices(t, dir, "acme",
		[2]string{"2020-05-04", "100.00"},
		[2]string{"2020-06-03", "100.00"},
	)
	writeRates(t, dir,
		[3]string{"30 Apr 2020", "USD", "10.00"}, // effective in May
		[3]string{"29 May 2020", "USD", "10.00"}, // effective in June
	)
	registry := testRegistry(t, `{"ticker":"acme","currency":"USD","name":"Acme Corp","countryName":"United States","countryCode":"2","address":"1 Main St","nature":"Listed","zipCode":"00001"}`)
	v := NewValuation(dir, registry)

	_, on, err := v.PeakValue("acme", Q(1), date.New(2020, time.May, 1), date.New(2020, time.June, 30))
	require.NoError(t, err)
	assert.Equal(t, date.New(2020, time.May, 4), on)
}

func TestPeakValueInvalidWindow(t *testing.T) {
	v := newTestValuation(t)
	_, _, err := v.PeakValue("adbe", Q(1), date.New(2020, time.December, 31), date.New(2020, time.January, 1))
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestPeakValueEmptyWindow(t *testing.T) {
	v := newTestValuation(t)
	_, _, err := v.PeakValue("adbe", Q(1), date.New(2020, time.July, 1), date.New(2020, time.July, 31))
	require.ErrorIs(t, err, ErrNoPriceData)
}

func TestPeakValueScalesWithQuantity(t *testing.T) {
	v := newTestValuation(t)

	unit, _, err := v.PeakValue("adbe", Q(1), date.New(2020, time.January, 1), date.New(2020, time.December, 31))
	require.NoError(t, err)
	ten, _, err := v.PeakValue("adbe", Q(10), date.New(2020, time.January, 1), date.New(2020, time.December, 31))
	require.NoError(t, err)
	assert.True(t, ten.Amount().Equal(unit.Amount().Mul(decimal.NewFromInt(10))))
}
