package schedulefa

import (
	"fmt"
	"log"
	"time"

	"github.com/nvraman/schedulefa/date"
)

// Schedule runs the period aggregation: it partitions each ticker's
// acquisitions into pre-period holdings and in-period acquisitions, and
// produces one disclosure entry per in-period acquisition plus at most one
// carried-forward entry for the pre-period balance.
//
// Entries come out as a flat sequence, grouped by ticker in order of first
// appearance, chronological within a ticker.
func Schedule(v *Valuation, mode date.Mode, assessmentYear int, acquisitions []Acquisition) ([]Entry, error) {
	period, err := date.PeriodBounds(mode, assessmentYear)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, group := range groupByTicker(acquisitions) {
		tickerEntries, err := tickerSchedule(v, group.ticker, period, assessmentYear, group.acquisitions)
		if err != nil {
			return nil, err
		}
		entries = append(entries, tickerEntries...)
	}
	return entries, nil
}

type tickerGroup struct {
	ticker       string
	acquisitions []Acquisition
}

// groupByTicker splits acquisitions per ticker, preserving the order of
// first appearance and the relative order within each ticker.
func groupByTicker(acquisitions []Acquisition) []tickerGroup {
	index := make(map[string]int)
	var groups []tickerGroup
	for _, a := range acquisitions {
		i, ok := index[a.Ticker]
		if !ok {
			i = len(groups)
			index[a.Ticker] = i
			groups = append(groups, tickerGroup{ticker: a.Ticker})
		}
		groups[i].acquisitions = append(groups[i].acquisitions, a)
	}
	return groups
}

// tickerSchedule emits the disclosure entries of a single ticker.
func tickerSchedule(v *Valuation, ticker string, period date.Period, assessmentYear int, acquisitions []Acquisition) ([]Entry, error) {
	org, err := v.Registry.Org(ticker)
	if err != nil {
		return nil, err
	}
	currency, err := v.Registry.Currency(ticker)
	if err != nil {
		return nil, err
	}

	var before, during []Acquisition
	for _, a := range acquisitions {
		switch {
		case a.Date.Before(period.From):
			before = append(before, a)
		case period.Contains(a.Date.Date):
			during = append(during, a)
		}
	}

	carried := Q(0)
	for _, a := range before {
		carried = carried.Add(a.Quantity)
	}
	acquired := Q(0)
	for _, a := range during {
		acquired = acquired.Add(a.Quantity)
	}
	log.Printf("%s: previous period (before %s) total shares = %s", ticker, period.From.Display(), carried)
	log.Printf("%s: this period (%s to %s) total shares = %s", ticker, period.From.Display(), period.To.Display(), acquired)

	// Per-share closing value in the reporting currency, shared by every
	// entry of this ticker.
	closingUnit, err := v.ClosingValue(ticker, Q(1), period.To)
	if err != nil {
		return nil, err
	}
	log.Printf("%s: closing value per share = %s %s", ticker, closingUnit.Amount(), closingUnit.Currency())

	var entries []Entry

	if !carried.IsZero() {
		entry, err := carriedForwardEntry(v, ticker, org, currency, period, assessmentYear, carried, closingUnit)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	for _, a := range during {
		rate, err := v.Rates.EffectiveOn(currency, a.Date.Date)
		if err != nil {
			return nil, err
		}
		peakUnit, _, err := v.PeakValue(ticker, Q(1), a.Date.Date, period.To)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Org:          org,
			Acquisition:  a,
			InitialValue: a.FMV.Convert(rate, ReportingCurrency).Mul(a.Quantity),
			PeakValue:    peakUnit.Mul(a.Quantity),
			ClosingValue: closingUnit.Mul(a.Quantity),
		})
	}
	return entries, nil
}

// carriedForwardEntry synthesizes the single entry representing all shares
// held before the period start. It is dated at the fixed reference date of
// Dec 31 two assessment years prior, with the FMV looked up at that date.
func carriedForwardEntry(v *Valuation, ticker string, org Org, currency string, period date.Period, assessmentYear int, carried Quantity, closingUnit Money) (Entry, error) {
	reference := date.New(assessmentYear-2, time.December, 31)

	fmv, _, err := v.FairMarketValue(ticker, reference)
	if err != nil {
		return Entry{}, fmt.Errorf("carried-forward FMV for %q: %w", ticker, err)
	}
	log.Printf("%s: FMV on %s is %s, used for the carried-forward balance", ticker, reference.Display(), fmv)

	// The initial value of the carried balance converts at the rate in
	// effect at the period start, not at the reference date.
	startRate, err := v.Rates.EffectiveOn(currency, period.From)
	if err != nil {
		return Entry{}, err
	}
	peakUnit, _, err := v.PeakValue(ticker, Q(1), period.From, period.To)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Org: org,
		Acquisition: Acquisition{
			Date:     date.On(reference),
			FMV:      fmv,
			Quantity: carried,
			Ticker:   ticker,
		},
		InitialValue:   fmv.Convert(startRate, ReportingCurrency).Mul(carried),
		PeakValue:      peakUnit.Mul(carried),
		ClosingValue:   closingUnit.Mul(carried),
		CarriedForward: true,
	}, nil
}
