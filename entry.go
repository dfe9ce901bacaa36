package schedulefa

// Entry is one row of Schedule FA, Table A3: an acquisition (or the single
// carried-forward pseudo-acquisition of pre-period holdings) annotated with
// the three monetary columns in the reporting currency. Entries are created
// only by the aggregator and never mutated.
type Entry struct {
	Org          Org
	Acquisition  Acquisition
	InitialValue Money
	PeakValue    Money
	ClosingValue Money

	// CarriedForward marks the synthetic pre-period holdings entry.
	CarriedForward bool
}

// MarshalJSON emits the full-precision entry for the audit dump.
func (e Entry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("org", e.Org)
	w.Append("acquisition", e.Acquisition)
	w.Append("initialValue", e.InitialValue)
	w.Append("peakValue", e.PeakValue)
	w.Append("closingValue", e.ClosingValue)
	w.Optional("carriedForward", e.CarriedForward)
	return w.MarshalJSON()
}
