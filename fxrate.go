package schedulefa

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nvraman/schedulefa/date"
	"github.com/shopspring/decimal"
)

// rateObs is one monthly reference-rate observation. The RBI publishes a rate
// per business day; the table keeps the latest-dated observation of each
// month, which is the rate in effect for that month.
type rateObs struct {
	asOf date.Date
	rate decimal.Decimal
}

type monthKey struct {
	year  int
	month time.Month
}

// Rates answers "INR per 1 unit of foreign currency" queries from the RBI
// monthly reference-rate table at <dir>/rates/rbi.csv. The table is loaded
// on first use and memoized; the mutex guards the lazy build.
type Rates struct {
	dir string

	mu     sync.Mutex
	loaded bool
	table  map[string]map[monthKey]rateObs
}

// NewRates returns a rate table reading reference data under dir.
func NewRates(dir string) *Rates {
	return &Rates{dir: dir}
}

func (r *Rates) path() string { return filepath.Join(r.dir, "rates", "rbi.csv") }

func (r *Rates) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}

	path := r.path()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: RBI reference rates file %q is not present", ErrNoRateData, path)
	}
	if err != nil {
		return fmt.Errorf("cannot open rates file %q: %w", path, err)
	}
	defer f.Close()

	log.Printf("parse-rbi-rates file=%q", path)
	table, err := decodeRates(f)
	if err != nil {
		return fmt.Errorf("in %q: %w", path, err)
	}
	r.table = table
	r.loaded = true
	return nil
}

// decodeRates reads the reference-rate CSV. Columns are "Date" (like
// "31 Mar 2023"), "Currency Pairs" (like "INR / 1 USD") and "Rate".
func decodeRates(rd io.Reader) (map[string]map[monthKey]rateObs, error) {
	cr := csv.NewReader(rd)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse rates csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty rates csv")
	}

	dateCol, pairCol, rateCol := -1, -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case "Date":
			dateCol = i
		case "Currency Pairs":
			pairCol = i
		case "Rate":
			rateCol = i
		}
	}
	if dateCol < 0 || pairCol < 0 || rateCol < 0 {
		return nil, fmt.Errorf("rates csv must have %q, %q and %q columns, got %v",
			"Date", "Currency Pairs", "Rate", records[0])
	}

	table := make(map[string]map[monthKey]rateObs)
	for n, rec := range records[1:] {
		currency, ok := pairCurrency(rec[pairCol])
		if !ok {
			// other pairs (EUR cross rates etc.) share the sheet, skip them
			continue
		}
		on, err := date.Parse(strings.TrimSpace(rec[dateCol]), date.DayMonthnameSpace)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(rec[rateCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad rate %q: %w", n+2, rec[rateCol], err)
		}

		months, ok := table[currency]
		if !ok {
			months = make(map[monthKey]rateObs)
			table[currency] = months
		}
		key := monthKey{on.Year(), on.Month()}
		// keep the latest observation of the month
		if prev, ok := months[key]; !ok || prev.asOf.Before(on.Date) {
			months[key] = rateObs{asOf: on.Date, rate: rate}
		}
	}
	return table, nil
}

// pairCurrency extracts the foreign currency from an "INR / 1 USD" pair label.
func pairCurrency(pair string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(pair), "INR / 1 ")
	if !ok {
		return "", false
	}
	rest = strings.ToUpper(strings.TrimSpace(rest))
	if len(rest) != 3 {
		return "", false
	}
	return rest, true
}

// ForMonth returns the rate in effect for the given month, INR per one unit
// of the currency.
func (r *Rates) ForMonth(currency string, year int, month time.Month) (decimal.Decimal, error) {
	if err := r.load(); err != nil {
		return decimal.Decimal{}, err
	}
	currency = strings.ToUpper(currency)
	months, ok := r.table[currency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no RBI data for currency %q in %q", ErrNoRateData, currency, r.path())
	}
	obs, ok := months[monthKey{year, month}]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no RBI data for currency %q in %q for %d/%d",
			ErrNoRateData, currency, r.path(), int(month), year)
	}
	return obs.rate, nil
}

// EffectiveOn returns the rate in effect at a date: the previous calendar
// month's published rate, modelling the reporting lag of official rates.
// January resolves to December of the prior year.
func (r *Rates) EffectiveOn(currency string, on date.Date) (decimal.Decimal, error) {
	year, month := on.Year(), on.Month()
	if month == time.January {
		year, month = year-1, time.December
	} else {
		month--
	}
	return r.ForMonth(currency, year, month)
}
