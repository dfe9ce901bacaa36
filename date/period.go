package date

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedMode reports a reporting period mode this tool does not know.
var ErrUnsupportedMode = errors.New("unsupported calendar mode")

// Mode selects how the reporting period of an assessment year is laid out.
type Mode int

const (
	// Calendar reports on [Jan 1, Dec 31] of the year before the assessment year.
	Calendar Mode = iota
	// Financial reports on the Indian fiscal year [Apr 1 AY-1, Mar 31 AY].
	Financial
)

func (m Mode) String() string {
	switch m {
	case Calendar:
		return "calendar"
	case Financial:
		return "financial"
	default:
		panic(fmt.Sprintf("unknown mode %d", m))
	}
}

// ParseMode parses a calendar mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "calendar":
		return Calendar, nil
	case "financial":
		return Financial, nil
	default:
		return Calendar, fmt.Errorf("%w %q: want \"calendar\" or \"financial\"", ErrUnsupportedMode, s)
	}
}

// Period is an inclusive date range [From, To].
type Period struct{ From, To Date }

// Contains reports whether d falls inside the period, bounds included.
func (p Period) Contains(d Date) bool { return !d.Before(p.From) && !d.After(p.To) }

func (p Period) String() string { return fmt.Sprintf("%s..%s", p.From, p.To) }

// PeriodBounds computes the reporting period for an assessment year.
// Schedule FA for AY 2021 in calendar mode covers Jan 1 to Dec 31 2020;
// financial mode covers Apr 1 2020 to Mar 31 2021.
func PeriodBounds(mode Mode, assessmentYear int) (Period, error) {
	switch mode {
	case Calendar:
		return Period{
			From: New(assessmentYear-1, time.January, 1),
			To:   New(assessmentYear-1, time.December, 31),
		}, nil
	case Financial:
		return Period{
			From: New(assessmentYear-1, time.April, 1),
			To:   New(assessmentYear, time.March, 31),
		}, nil
	default:
		return Period{}, fmt.Errorf("%w %d for assessment year %d", ErrUnsupportedMode, mode, assessmentYear)
	}
}
