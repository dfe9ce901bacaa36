// Package renderer renders computed disclosure entries as markdown for
// terminal display. The CSV and JSONL outputs are the real artifacts; this
// is the human-facing recap printed after a run.
package renderer

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/nvraman/schedulefa"
)

const entriesTemplate = `# Schedule FA, Table A3 — AY {{.AssessmentYear}} ({{.Mode}} period {{.From}} to {{.To}})

| Entity | Acquired | Quantity | Initial (INR) | Peak (INR) | Closing (INR) |
|---|---|---:|---:|---:|---:|
{{- range .Rows}}
| {{.Entity}} | {{.Acquired}} | {{.Quantity}} | {{.Initial}} | {{.Peak}} | {{.Closing}} |
{{- end}}

{{.Count}} entries. Values rounded to whole rupees for display; the audit dump keeps full precision.
`

type entriesData struct {
	AssessmentYear int
	Mode           string
	From, To       string
	Rows           []entryRow
	Count          int
}

type entryRow struct {
	Entity   string
	Acquired string
	Quantity string
	Initial  string
	Peak     string
	Closing  string
}

// EntriesMarkdown renders the entry table to a markdown string.
func EntriesMarkdown(meta schedulefa.RunMeta, entries []schedulefa.Entry) string {
	data := entriesData{
		AssessmentYear: meta.AssessmentYear,
		Mode:           meta.Mode,
		From:           meta.Period.From.String(),
		To:             meta.Period.To.String(),
		Count:          len(entries),
	}
	for _, e := range entries {
		entity := e.Org.Name
		if e.CarriedForward {
			entity += " (carried forward)"
		}
		data.Rows = append(data.Rows, entryRow{
			Entity:   entity,
			Acquired: e.Acquisition.Date.String(),
			Quantity: e.Acquisition.Quantity.String(),
			Initial:  fmt.Sprintf("%d", e.InitialValue.Rounded()),
			Peak:     fmt.Sprintf("%d", e.PeakValue.Rounded()),
			Closing:  fmt.Sprintf("%d", e.ClosingValue.Rounded()),
		})
	}

	tmpl, err := template.New("entries").Parse(entriesTemplate)
	if err != nil {
		return fmt.Sprintf("error parsing entries template: %v", err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("error executing entries template: %v", err)
	}
	return b.String()
}
