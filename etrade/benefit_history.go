package etrade

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nvraman/schedulefa"
	"github.com/nvraman/schedulefa/date"
	"github.com/shopspring/decimal"
)

// Sheet file names expected in a benefit history export directory.
const (
	esppSheetFile = "espp.csv"
	rsuSheetFile  = "rsu.csv"
)

// ParseBenefitHistory ingests the CSV exports of the benefit history
// workbook found in dir. Either sheet may be absent; both absent is an
// error. Acquisitions come back sorted chronologically.
func ParseBenefitHistory(dir string, registry *schedulefa.Registry, fmv schedulefa.FmvSource, bounds *date.Period) ([]schedulefa.Acquisition, error) {
	espp, err := parseESPP(filepath.Join(dir, esppSheetFile), registry)
	if err != nil {
		return nil, err
	}
	rsu, err := parseRSU(filepath.Join(dir, rsuSheetFile), registry, fmv, bounds)
	if err != nil {
		return nil, err
	}
	if espp == nil && rsu == nil {
		return nil, fmt.Errorf("no %q or %q sheet found in %q", esppSheetFile, rsuSheetFile, dir)
	}

	acquisitions := append(espp, rsu...)
	sort.SliceStable(acquisitions, func(i, j int) bool {
		return acquisitions[i].Date.Before(acquisitions[j].Date.Date)
	})
	logTickerTotals(acquisitions)
	return acquisitions, nil
}

// parseESPP reads the ESPP sheet: every "Purchase" record is one
// acquisition, priced at the purchase date FMV printed on the sheet.
func parseESPP(path string, registry *schedulefa.Registry) ([]schedulefa.Acquisition, error) {
	rows, err := openSheet(path, "Record Type", "Purchase Date", "Purchase Date FMV", "Sellable Qty.", "Symbol")
	if err != nil || rows == nil {
		return nil, err
	}
	log.Printf("parse-sheet file=%q rows=%d", path, len(rows))

	var acquisitions []schedulefa.Acquisition
	for _, r := range rows {
		if r.Get("Record Type") != "Purchase" {
			continue
		}
		a, err := esppAcquisition(r, registry)
		if err != nil {
			return nil, fmt.Errorf("in %q line %d: %w", path, r.line, err)
		}
		acquisitions = append(acquisitions, a)
	}
	return acquisitions, nil
}

func esppAcquisition(r row, registry *schedulefa.Registry) (schedulefa.Acquisition, error) {
	ticker := strings.ToLower(r.Get("Symbol"))
	currency, err := registry.Currency(ticker)
	if err != nil {
		return schedulefa.Acquisition{}, err
	}
	on, err := date.Parse(r.Get("Purchase Date"), date.DayMonthnameYear)
	if err != nil {
		return schedulefa.Acquisition{}, err
	}
	price, err := decimal.NewFromString(dollars(r.Get("Purchase Date FMV")))
	if err != nil {
		return schedulefa.Acquisition{}, fmt.Errorf("bad purchase date FMV %q: %w", r.Get("Purchase Date FMV"), err)
	}
	qty, err := schedulefa.ParseQuantity(r.Get("Sellable Qty."))
	if err != nil {
		return schedulefa.Acquisition{}, fmt.Errorf("bad sellable quantity %q: %w", r.Get("Sellable Qty."), err)
	}
	return schedulefa.Acquisition{
		Date:     on,
		FMV:      schedulefa.M(price, currency),
		Quantity: qty,
		Ticker:   ticker,
	}, nil
}

// parseRSU reads the Restricted Stock sheet. "Grant" records set the current
// ticker; "Shares released" events become acquisitions whose FMV is resolved
// from the historical price series, since release rows carry no price. A
// release appearing before any Grant is a hard error rather than a silently
// reused stale ticker.
func parseRSU(path string, registry *schedulefa.Registry, fmv schedulefa.FmvSource, bounds *date.Period) ([]schedulefa.Acquisition, error) {
	rows, err := openSheet(path, "Record Type", "Event Type", "Date", "Qty. or Amount")
	if err != nil || rows == nil {
		return nil, err
	}
	log.Printf("parse-sheet file=%q rows=%d", path, len(rows))

	var acquisitions []schedulefa.Acquisition
	var ticker string
	for _, r := range rows {
		if r.Get("Record Type") == "Grant" {
			ticker = strings.ToLower(r.Get("Symbol"))
		}
		if r.Get("Event Type") != "Shares released" {
			continue
		}
		if ticker == "" {
			return nil, fmt.Errorf("in %q line %d: %w: release event %q has no preceding Grant record carrying the ticker",
				path, r.line, schedulefa.ErrUnknownTicker, r.Get("Event Type"))
		}
		a, err := rsuAcquisition(r, ticker, registry, fmv)
		if err != nil {
			return nil, fmt.Errorf("in %q line %d: %w", path, r.line, err)
		}
		if bounds != nil && !bounds.Contains(a.Date.Date) {
			continue
		}
		acquisitions = append(acquisitions, a)
	}
	return acquisitions, nil
}

func rsuAcquisition(r row, ticker string, registry *schedulefa.Registry, fmv schedulefa.FmvSource) (schedulefa.Acquisition, error) {
	if _, err := registry.Currency(ticker); err != nil {
		return schedulefa.Acquisition{}, err
	}
	on, err := date.Parse(r.Get("Date"), date.MonthDayYear)
	if err != nil {
		return schedulefa.Acquisition{}, err
	}
	price, _, err := fmv.FairMarketValue(ticker, on.Date)
	if err != nil {
		return schedulefa.Acquisition{}, err
	}
	qty, err := schedulefa.ParseQuantity(r.Get("Qty. or Amount"))
	if err != nil {
		return schedulefa.Acquisition{}, fmt.Errorf("bad quantity %q: %w", r.Get("Qty. or Amount"), err)
	}
	return schedulefa.Acquisition{
		Date:     on,
		FMV:      price,
		Quantity: qty,
		Ticker:   ticker,
	}, nil
}

// logTickerTotals prints the per-ticker share totals found in the source,
// the first sanity check against the brokerage statement.
func logTickerTotals(acquisitions []schedulefa.Acquisition) {
	totals := make(map[string]schedulefa.Quantity)
	var order []string
	for _, a := range acquisitions {
		if _, ok := totals[a.Ticker]; !ok {
			order = append(order, a.Ticker)
		}
		totals[a.Ticker] = totals[a.Ticker].Add(a.Quantity)
	}
	for _, ticker := range order {
		log.Printf("%s: total shares present in the sheet = %s", ticker, totals[ticker])
	}
}
