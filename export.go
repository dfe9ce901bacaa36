package schedulefa

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// exportHeader is the fixed column set of Schedule FA, Table A3, in the
// order the ITR utility expects.
var exportHeader = []string{
	"Country/Region name",
	"Country Name and Code",
	"Name of entity",
	"Address of entity",
	"ZIP Code",
	"Nature of entity",
	"Date of acquiring the interest",
	"Initial value of the investment",
	"Peak value of investment during the Period",
	"Closing balance",
	"Total gross amount paid/credited with respect to the holding during the period",
	"Total gross proceeds from sale or redemption of investment during the period",
}

// ExportCSV writes the filing-shaped tabular export. Acquisition dates are
// ISO formatted and the three monetary columns are rounded to whole rupees
// here, at the boundary, never earlier. The two sale columns are always 0:
// disposals are not modelled.
func ExportCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("cannot write export header: %w", err)
	}
	for i, e := range entries {
		record := []string{
			e.Org.CountryName,
			e.Org.CountryCode,
			e.Org.Name,
			e.Org.Address,
			e.Org.ZipCode,
			e.Org.Nature,
			e.Acquisition.Date.String(),
			strconv.FormatInt(e.InitialValue.Rounded(), 10),
			strconv.FormatInt(e.PeakValue.Rounded(), 10),
			strconv.FormatInt(e.ClosingValue.Rounded(), 10),
			"0",
			"0",
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write export row %d (%q): %w", i, e.Acquisition.Ticker, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("cannot flush export: %w", err)
	}
	return nil
}
