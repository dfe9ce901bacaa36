package schedulefa

import (
	"fmt"
	"log"

	"github.com/nvraman/schedulefa/date"
	"github.com/shopspring/decimal"
)

// ReportingCurrency is the currency every disclosure value is expressed in.
const ReportingCurrency = "INR"

// Valuation composes the price index, the FX rate table and the organization
// registry to answer the three queries the schedule needs: fair market value
// at a date, closing value at a date, and peak value within a window. It owns
// the caches and is injected into the aggregator.
type Valuation struct {
	Market   *Market
	Rates    *Rates
	Registry *Registry
}

// NewValuation wires a valuation engine over the datasets under dir.
func NewValuation(dir string, registry *Registry) *Valuation {
	return &Valuation{
		Market:   NewMarket(dir),
		Rates:    NewRates(dir),
		Registry: registry,
	}
}

// FairMarketValue returns the FMV of one share at 'on' in the ticker's
// trading currency, forward-filled to the next available trading day, and
// the day the price was actually observed.
func (v *Valuation) FairMarketValue(ticker string, on date.Date) (Money, date.Date, error) {
	currency, err := v.Registry.Currency(ticker)
	if err != nil {
		return Money{}, date.Date{}, err
	}
	price, matched, err := v.Market.PriceOnOrAfter(ticker, on)
	if err != nil {
		return Money{}, date.Date{}, err
	}
	return M(price, currency), matched, nil
}

// ClosingValue returns the value of 'qty' shares at the close on or before
// 'asOf', converted to the reporting currency at the rate in effect that day.
func (v *Valuation) ClosingValue(ticker string, qty Quantity, asOf date.Date) (Money, error) {
	currency, err := v.Registry.Currency(ticker)
	if err != nil {
		return Money{}, err
	}
	price, err := v.Market.PriceAsOf(ticker, asOf)
	if err != nil {
		return Money{}, err
	}
	rate, err := v.Rates.EffectiveOn(currency, asOf)
	if err != nil {
		return Money{}, err
	}
	return M(price, currency).Convert(rate, ReportingCurrency).Mul(qty), nil
}

// PeakValue returns the peak value of 'qty' shares over [from, to] in the
// reporting currency, and the day the peak occurred.
//
// The peak is the date maximizing price times the rate in effect that day,
// not the raw price peak: currency movement can shift which date is the true
// peak. On equal converted values the earliest date wins.
func (v *Valuation) PeakValue(ticker string, qty Quantity, from, to date.Date) (Money, date.Date, error) {
	currency, err := v.Registry.Currency(ticker)
	if err != nil {
		return Money{}, date.Date{}, err
	}
	prices, err := v.Market.PricesBetween(ticker, from, to)
	if err != nil {
		return Money{}, date.Date{}, err
	}

	var best decimal.Decimal
	var bestDay date.Date
	found := false
	for day, price := range prices {
		rate, err := v.Rates.EffectiveOn(currency, day)
		if err != nil {
			return Money{}, date.Date{}, err
		}
		converted := price.Mul(rate)
		if !found || converted.GreaterThan(best) {
			best, bestDay, found = converted, day, true
		}
	}
	if !found {
		return Money{}, date.Date{}, fmt.Errorf("%w: no prices for %q between %s and %s",
			ErrNoPriceData, ticker, from.Display(), to.Display())
	}

	log.Printf("peak ticker=%q from=%s to=%s value=%s %s on=%s",
		ticker, from.Display(), to.Display(), best, ReportingCurrency, bestDay.Display())
	return M(best, ReportingCurrency).Mul(qty), bestDay, nil
}

var _ FmvSource = (*Valuation)(nil)
