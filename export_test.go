package schedulefa

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nvraman/schedulefa/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportFixture() []Entry {
	org := Org{
		CountryName: "United States",
		CountryCode: "2",
		Name:        "Adobe Incorporation",
		Address:     "345 Park Avenue San Jose, CA",
		Nature:      "Listed",
		ZipCode:     "95110",
	}
	return []Entry{
		{
			Org: org,
			Acquisition: Acquisition{
				Date:     date.On(date.New(2020, time.June, 30)),
				FMV:      M(decimal.RequireFromString("435.31"), "USD"),
				Quantity: Q(2),
				Ticker:   "adbe",
			},
			InitialValue: M(decimal.RequireFromString("65827.5782"), ReportingCurrency),
			PeakValue:    M(decimal.RequireFromString("74117.784"), ReportingCurrency),
			ClosingValue: M(decimal.RequireFromString("74117.784"), ReportingCurrency),
		},
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, exportFixture()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Country/Region name,Country Name and Code,Name of entity,Address of entity,ZIP Code,Nature of entity,Date of acquiring the interest,Initial value of the investment,Peak value of investment during the Period,Closing balance,Total gross amount paid/credited with respect to the holding during the period,Total gross proceeds from sale or redemption of investment during the period", lines[0])
	assert.Equal(t, `United States,2,Adobe Incorporation,"345 Park Avenue San Jose, CA",95110,Listed,2020-06-30,65828,74118,74118,0,0`, lines[1])
}

// TestExportCSVDeterministic: identical input must produce byte-identical
// output, so the audit trail can diff runs.
func TestExportCSVDeterministic(t *testing.T) {
	entries := exportFixture()
	var a, b bytes.Buffer
	require.NoError(t, ExportCSV(&a, entries))
	require.NoError(t, ExportCSV(&b, entries))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestExportCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, nil))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 1, "header only")
}

func TestEncodeEntries(t *testing.T) {
	meta := NewRunMeta(date.Calendar, 2021, date.Period{
		From: date.New(2020, time.January, 1),
		To:   date.New(2020, time.December, 31),
	})
	entries := exportFixture()

	var buf bytes.Buffer
	require.NoError(t, EncodeEntries(&buf, meta, entries))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1+len(entries))

	var header map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &header))
	assert.Equal(t, meta.ID, header["run"])
	assert.Equal(t, "calendar", header["mode"])
	assert.Equal(t, float64(2021), header["assessmentYear"])

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Contains(t, entry, "org")
	assert.Contains(t, entry, "acquisition")
	assert.Contains(t, entry, "initialValue")
	assert.Contains(t, entry, "peakValue")
	assert.Contains(t, entry, "closingValue")
}

func TestCreateOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fa_entries.csv")

	f, err := CreateOutputFile(path, false)
	require.NoError(t, err)
	_, err = f.WriteString("first\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// refuses to clobber without the overwrite flag
	_, err = CreateOutputFile(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// and truncates with it
	f, err = CreateOutputFile(path, true)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}
