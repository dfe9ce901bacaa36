// Package etrade ingests E*TRADE export files into acquisition records.
//
// Two source modes are supported: the benefit history workbook (ESPP and
// Restricted Stock sheets, exported as espp.csv and rsu.csv) and the
// holdings-by-status export (the Sellable sheet as a single CSV). Both
// produce the same Acquisition shape; everything downstream is agnostic of
// the source.
package etrade

import (
	"fmt"
	"strings"

	"github.com/nvraman/schedulefa"
	"github.com/nvraman/schedulefa/date"
)

// Mode is the tagged variant of supported ingestion sources.
type Mode int

const (
	// BenefitHistory reads the ESPP and RSU sheets of BenefitHistory.xlsx,
	// exported as CSV files in a directory.
	BenefitHistory Mode = iota
	// HoldingsByStatus reads the Sellable sheet of the holdings-by-status
	// export as a single CSV file.
	HoldingsByStatus
)

func (m Mode) String() string {
	switch m {
	case BenefitHistory:
		return "etrade_benefit_history"
	case HoldingsByStatus:
		return "etrade_holdings_bystatus"
	default:
		panic(fmt.Sprintf("unknown source mode %d", m))
	}
}

// ParseMode parses a source mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "etrade_benefit_history":
		return BenefitHistory, nil
	case "etrade_holdings_bystatus":
		return HoldingsByStatus, nil
	default:
		return BenefitHistory, fmt.Errorf("unknown source mode %q: want %q or %q",
			s, BenefitHistory, HoldingsByStatus)
	}
}

// Parse ingests the source at path according to the mode.
//
// The registry resolves ticker currencies, fmv resolves FMV for RSU releases
// (release rows carry no price), and bounds optionally restricts RSU releases
// to a date window (nil keeps everything).
func Parse(mode Mode, path string, registry *schedulefa.Registry, fmv schedulefa.FmvSource, bounds *date.Period) ([]schedulefa.Acquisition, error) {
	switch mode {
	case BenefitHistory:
		return ParseBenefitHistory(path, registry, fmv, bounds)
	case HoldingsByStatus:
		return ParseHoldings(path, registry)
	default:
		return nil, fmt.Errorf("unknown source mode %d", mode)
	}
}
