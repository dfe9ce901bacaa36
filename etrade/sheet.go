package etrade

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// row gives by-column-name access to one CSV record, the moral equivalent of
// a spreadsheet row.
type row struct {
	columns map[string]int
	fields  []string
	line    int
}

// Get returns the named column's value, trimmed, or "" when the column does
// not exist or the record is short.
func (r row) Get(name string) string {
	i, ok := r.columns[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// readSheet reads a CSV export of one workbook sheet into rows with header
// indexed columns. The required columns must all be present in the header.
func readSheet(r io.Reader, required ...string) ([]row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // brokerage exports pad rows unevenly
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q in header %v", name, records[0])
		}
	}

	rows := make([]row, 0, len(records)-1)
	for i, rec := range records[1:] {
		rows = append(rows, row{columns: columns, fields: rec, line: i + 2})
	}
	return rows, nil
}

// openSheet opens and reads a sheet file. A missing file yields (nil, nil):
// a workbook export may legitimately lack one of its sheets.
func openSheet(path string, required ...string) ([]row, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer f.Close()
	rows, err := readSheet(f, required...)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", path, err)
	}
	return rows, nil
}

// dollars strips the leading "$" of a sheet price cell.
func dollars(s string) string { return strings.TrimPrefix(strings.TrimSpace(s), "$") }
