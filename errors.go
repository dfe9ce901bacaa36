package schedulefa

import "errors"

// The error taxonomy of the pipeline. All of these are fatal: the tool
// produces a single filing artifact, so a run aborts rather than emitting
// partial output. Callers wrap them with the offending ticker, date or
// currency so the data files can be fixed by hand.
var (
	// ErrNoPriceData reports a missing or exhausted historical price series.
	ErrNoPriceData = errors.New("no price data")
	// ErrNoRateData reports a missing monthly reference rate.
	ErrNoRateData = errors.New("no rate data")
	// ErrInvalidWindow reports a peak query with start after end, an
	// ordering bug upstream.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrUnknownTicker reports a ticker absent from the organization registry.
	ErrUnknownTicker = errors.New("unknown ticker")
)
