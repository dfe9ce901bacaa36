package schedulefa

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nvraman/schedulefa/date"
	"github.com/shopspring/decimal"
)

// Market answers historical closing-price queries from per-ticker sparse
// daily series. Series are loaded lazily from <dir>/shares/<ticker>/data.csv
// on first access and memoized for the process lifetime; the cache is guarded
// by a mutex because lazy construction is not safe under concurrent misses.
type Market struct {
	dir string

	// StaleLimit is the number of days a forward-filled FMV may be stale
	// before the lookup becomes a hard error. Zero keeps staleness a
	// logged warning only.
	StaleLimit int

	mu     sync.Mutex
	series map[string]*date.History[decimal.Decimal]
}

// NewMarket returns a market reading historical data under dir.
func NewMarket(dir string) *Market {
	return &Market{dir: dir, series: make(map[string]*date.History[decimal.Decimal])}
}

// seriesPath is where the original datasets keep a ticker's daily closes.
func (m *Market) seriesPath(ticker string) string {
	return filepath.Join(m.dir, "shares", strings.ToLower(ticker), "data.csv")
}

// history returns the (possibly cached) price series for a ticker.
func (m *Market) history(ticker string) (*date.History[decimal.Decimal], error) {
	ticker = strings.ToLower(ticker)
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.series[ticker]; ok {
		return h, nil
	}

	path := m.seriesPath(ticker)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: historic share data for %q not present at %q", ErrNoPriceData, ticker, path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open price series %q: %w", path, err)
	}
	defer f.Close()

	log.Printf("parse-price-series ticker=%q file=%q", ticker, path)
	h, err := decodePriceSeries(f)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", path, err)
	}
	m.series[ticker] = h
	return h, nil
}

// decodePriceSeries reads a Date,Close CSV (ISO dates, one trading day per
// row) into a sorted history.
func decodePriceSeries(r io.Reader) (*date.History[decimal.Decimal], error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse price csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty price csv")
	}

	header := records[0]
	dateCol, closeCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "Date":
			dateCol = i
		case "Close":
			closeCol = i
		}
	}
	if dateCol < 0 || closeCol < 0 {
		return nil, fmt.Errorf("price csv must have %q and %q columns, got %v", "Date", "Close", header)
	}

	h := &date.History[decimal.Decimal]{}
	for n, rec := range records[1:] {
		on, err := date.Parse(rec[dateCol], date.ISO)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		close, err := decimal.NewFromString(strings.TrimSpace(rec[closeCol]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad close price %q: %w", n+2, rec[closeCol], err)
		}
		h.Append(on.Date, close)
	}
	return h, nil
}

// PriceOnOrAfter returns the first closing price at or after 'on', the
// forward-fill FMV lookup. When the match lands strictly after 'on' (holiday
// or weekend gap) the staleness of the last preceding data point is logged,
// and becomes an error above StaleLimit days.
func (m *Market) PriceOnOrAfter(ticker string, on date.Date) (decimal.Decimal, date.Date, error) {
	h, err := m.history(ticker)
	if err != nil {
		return decimal.Decimal{}, date.Date{}, err
	}
	matched, price, ok := h.ValueOnOrAfter(on)
	if !ok {
		return decimal.Decimal{}, date.Date{}, fmt.Errorf("%w: could not find FMV for %q at %s (series ends %s)",
			ErrNoPriceData, ticker, on.Display(), latestDay(h).Display())
	}
	if matched.After(on) {
		if err := m.checkStaleness(ticker, on, matched, h); err != nil {
			return decimal.Decimal{}, date.Date{}, err
		}
	}
	return price, matched, nil
}

// checkStaleness measures how old the last available data before 'on' is,
// relative to the last business day, and warns or fails accordingly.
func (m *Market) checkStaleness(ticker string, on, used date.Date, h *date.History[decimal.Decimal]) error {
	gap := 0
	if prev, ok := lastDayAtOrBefore(h, on); ok {
		gap = date.LastBusinessDay(on).Sub(prev)
	}
	if gap <= 0 {
		return nil
	}
	log.Printf("stale-fmv ticker=%q on=%s: no FMV that day (public holiday or weekend), last data is %d days old; using next available at %s",
		ticker, on.Display(), gap, used.Display())
	if m.StaleLimit > 0 && gap > m.StaleLimit {
		return fmt.Errorf("FMV for %q at %s is %d days stale, above the %d day limit",
			ticker, on.Display(), gap, m.StaleLimit)
	}
	return nil
}

// PriceAsOf returns the most recent closing price at or before 'on', used
// for the period-end closing value.
func (m *Market) PriceAsOf(ticker string, on date.Date) (decimal.Decimal, error) {
	h, err := m.history(ticker)
	if err != nil {
		return decimal.Decimal{}, err
	}
	price, ok := h.ValueAsOf(on)
	if !ok {
		first, _ := h.First()
		return decimal.Decimal{}, fmt.Errorf("%w: no closing price for %q at or before %s (series starts %s)",
			ErrNoPriceData, ticker, on.Display(), first.Display())
	}
	return price, nil
}

// PricesBetween iterates the closing prices with from <= day <= to in
// chronological order.
func (m *Market) PricesBetween(ticker string, from, to date.Date) (iter.Seq2[date.Date, decimal.Decimal], error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidWindow, from, to)
	}
	h, err := m.history(ticker)
	if err != nil {
		return nil, err
	}
	return h.Between(from, to), nil
}

func latestDay(h *date.History[decimal.Decimal]) date.Date {
	day, _ := h.Latest()
	return day
}

// lastDayAtOrBefore returns the latest series day at or before 'on'.
func lastDayAtOrBefore(h *date.History[decimal.Decimal], on date.Date) (date.Date, bool) {
	var found date.Date
	ok := false
	for day := range h.Values() {
		if day.After(on) {
			break
		}
		found, ok = day, true
	}
	return found, ok
}
