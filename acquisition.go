package schedulefa

import (
	"fmt"

	"github.com/nvraman/schedulefa/date"
)

// Acquisition is one purchase or release event of foreign shares: an ESPP
// purchase, an RSU release, or a line of a holdings snapshot. Immutable once
// created by ingestion.
type Acquisition struct {
	Date     date.ParsedDate
	FMV      Money // fair market value per share, in the ticker's trading currency
	Quantity Quantity
	Ticker   string
}

func (a Acquisition) String() string {
	return fmt.Sprintf("date = %s, ticker = %s, quantity = %s & fmv = %s",
		a.Date.Display(), a.Ticker, a.Quantity, a.FMV)
}

// MarshalJSON emits the acquisition for the audit dump.
func (a Acquisition) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ticker", a.Ticker)
	w.Append("date", a.Date)
	w.Append("quantity", a.Quantity)
	w.Append("fmv", a.FMV)
	return w.MarshalJSON()
}

// FmvSource answers fair-market-value queries for a ticker at a date. The
// RSU ingestion needs one because release rows carry no price; the valuation
// engine is the production implementation.
type FmvSource interface {
	FairMarketValue(ticker string, on date.Date) (Money, date.Date, error)
}
