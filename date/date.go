// Package date provides day-granularity dates, the brokerage and reference
// date layouts, reporting periods and sparse day-keyed histories used by the
// Schedule FA pipeline.
package date

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// DisplayFormat is the human form used throughout logs and the audit dump,
// e.g. "30-Jun-2020".
const DisplayFormat = "02-Jan-2006"

// ErrMalformedDate reports an input string that does not match its layout.
var ErrMalformedDate = errors.New("malformed date")

// Date represent a date with no lower than day granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool { return d == Date{} }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// Sub returns the number of whole days between d and x (positive when d is after x).
func (d Date) Sub(x Date) int { return int(d.time().Sub(x.time()).Hours() / 24) }

// Unix returns the UTC-midnight epoch milliseconds of the date.
func (d Date) Unix() int64 { return d.time().UnixMilli() }

// String formats the date in its standard ISO form.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Display formats the date in the human "30-Jun-2020" form.
func (d Date) Display() string { return d.time().Format(DisplayFormat) }

// Layout identifies one of the supported input date shapes.
type Layout int

const (
	// DayMonthnameYear parses "30-JUN-2020" (month name case-insensitive).
	DayMonthnameYear Layout = iota
	// MonthDayYear parses "10/15/2023".
	MonthDayYear
	// DayMonthnameSpace parses "31 Mar 2023".
	DayMonthnameSpace
	// ISO parses "2023-03-31".
	ISO
)

func (l Layout) layout() string {
	switch l {
	case DayMonthnameYear:
		return "2-Jan-2006"
	case MonthDayYear:
		return "1/2/2006"
	case DayMonthnameSpace:
		return "2 Jan 2006"
	case ISO:
		return "2006-01-02"
	default:
		panic(fmt.Sprintf("unknown date layout %d", l))
	}
}

// Parse parses a date string against the given layout. The returned
// ParsedDate retains the verbatim input for traceability.
func Parse(str string, l Layout) (ParsedDate, error) {
	// Brokerage sheets shout month names ("30-JUN-2020"); time.Parse wants "Jun".
	canon := str
	if l == DayMonthnameYear || l == DayMonthnameSpace {
		canon = titleMonth(str)
	}
	on, err := time.Parse(l.layout(), canon)
	if err != nil {
		return ParsedDate{}, fmt.Errorf("%w: %q does not match layout %q", ErrMalformedDate, str, l.layout())
	}
	return ParsedDate{Date: New(on.Date()), original: str}, nil
}

// titleMonth normalizes the alphabetic runs of a date string so that
// "30-JUN-2020" and "30-jun-2020" both parse.
func titleMonth(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(toUpper(r))
		case isLetter:
			b.WriteRune(toLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}

// MustParse is like Parse but panics on error.
func MustParse(str string, l Layout) ParsedDate {
	d, err := Parse(str, l)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// ParsedDate is a Date that remembers the exact string it was parsed from.
type ParsedDate struct {
	Date
	original string
}

// On wraps an already-known Date into a ParsedDate whose original input is
// the canonical display form. Used for synthesized dates (the carried-forward
// entry) that were never read from a source file.
func On(d Date) ParsedDate { return ParsedDate{Date: d, original: d.Display()} }

// Original returns the verbatim input string the date was parsed from.
func (p ParsedDate) Original() string { return p.original }

// MarshalJSON emits the parsed date with its canonical and original forms.
func (p ParsedDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		On       string `json:"on"`
		Display  string `json:"display"`
		Original string `json:"original,omitempty"`
	}{On: p.String(), Display: p.Display(), Original: p.original})
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	d, err := Parse(str, ISO)
	if err != nil {
		return err
	}
	*j = d.Date
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)

// LastBusinessDay returns the last weekday on or before d: Saturday rolls
// back one day, Sunday two. Market holidays are not accounted for.
func LastBusinessDay(d Date) Date {
	switch d.Weekday() {
	case time.Saturday:
		return d.Add(-1)
	case time.Sunday:
		return d.Add(-2)
	default:
		return d
	}
}
