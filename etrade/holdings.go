package etrade

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/nvraman/schedulefa"
	"github.com/nvraman/schedulefa/date"
	"github.com/shopspring/decimal"
)

// ParseHoldings ingests a holdings-by-status export (the Sellable sheet as
// one CSV file). Rows without an acquisition date are subtotal or filler
// lines and are skipped. The file order is preserved.
func ParseHoldings(path string, registry *schedulefa.Registry) ([]schedulefa.Acquisition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer f.Close()

	rows, err := readSheet(f, "Date Acquired", "Purchase Date FMV", "Sellable Qty.", "Symbol")
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", path, err)
	}
	log.Printf("parse-sheet file=%q rows=%d", path, len(rows))

	var acquisitions []schedulefa.Acquisition
	for _, r := range rows {
		if r.Get("Date Acquired") == "" {
			continue
		}
		a, err := sellableAcquisition(r, registry)
		if err != nil {
			return nil, fmt.Errorf("in %q line %d: %w", path, r.line, err)
		}
		acquisitions = append(acquisitions, a)
	}
	logTickerTotals(acquisitions)
	return acquisitions, nil
}

func sellableAcquisition(r row, registry *schedulefa.Registry) (schedulefa.Acquisition, error) {
	ticker := strings.ToLower(r.Get("Symbol"))
	currency, err := registry.Currency(ticker)
	if err != nil {
		return schedulefa.Acquisition{}, err
	}
	on, err := date.Parse(r.Get("Date Acquired"), date.DayMonthnameYear)
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
