package schedulefa

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writePrices lays out a <dir>/shares/<ticker>/data.csv price series the way
// the historic datasets do. Rows are (ISO date, close) pairs.
func writePrices(t *testing.T, dir, ticker string, rows ...[2]string) {
	t.Helper()
	folder := filepath.Join(dir, "shares", ticker)
	if err := os.MkdirAll(folder, 0755); err != nil {
		t.Fatalf("cannot create price folder: %v", err)
	}
	var b strings.Builder
	b.WriteString("Date,Close\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,%s\n", r[0], r[1])
	}
	if err := os.WriteFile(filepath.Join(folder, "data.csv"), []byte(b.String()), 0644); err != nil {
		t.Fatalf("cannot write price csv: %v", err)
	}
}

// writeRates lays out a <dir>/rates/rbi.csv reference-rate file. Rows are
// (date "31 Mar 2023", currency code, rate) triples.
func writeRates(t *testing.T, dir string, rows ...[3]string) {
	t.Helper()
	folder := filepath.Join(dir, "rates")
	if err := os.MkdirAll(folder, 0755); err != nil {
		t.Fatalf("cannot create rates folder: %v", err)
	}
	var b strings.Builder
	b.WriteString("Date,Currency Pairs,Rate\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,INR / 1 %s,%s\n", r[0], r[1], r[2])
	}
	if err := os.WriteFile(filepath.Join(folder, "rbi.csv"), []byte(b.String()), 0644); err != nil {
		t.Fatalf("cannot write rates csv: %v", err)
	}
}

// testRegistry builds a registry from JSONL lines on top of the defaults.
func testRegistry(t *testing.T, jsonl string) *Registry {
	t.Helper()
	reg, err := DecodeRegistry(strings.NewReader(jsonl))
	if err != nil {
		t.Fatalf("cannot decode test registry: %v", err)
	}
	return reg
}

// usdRates2020 is the fixture rate table most valuation tests share.
var usdRates2020 = [][3]string{
	{"31 Dec 2019", "USD", "71.27"},
	{"29 May 2020", "USD", "75.61"},
	{"31 Aug 2020", "USD", "74.00"},
	{"30 Nov 2020", "USD", "74.10"},
}

// adbePrices2020 is the fixture price series most valuation tests share.
var adbePrices2020 = [][2]string{
	{"2019-12-31", "329.81"},
	{"2020-06-30", "435.31"},
	{"2020-09-15", "480.00"},
	{"2020-12-31", "500.12"},
}

// newTestValuation wires a valuation over the shared adbe/USD fixtures.
func newTestValuation(t *testing.T) *Valuation {
	t.Helper()
	dir := t.TempDir()
	writePrices(t, dir, "adbe", adbePrices2020...)
	writeRates(t, dir, usdRates2020...)
	return NewValuation(dir, NewRegistry())
}
