package schedulefa

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nvraman/schedulefa/date"
)

// RunMeta identifies one run of the pipeline in the audit dump, so a filing
// can be traced back to the exact invocation that produced it.
type RunMeta struct {
	ID             string      `json:"run"`
	GeneratedAt    string      `json:"generatedAt"`
	Mode           string      `json:"mode"`
	AssessmentYear int         `json:"assessmentYear"`
	Period         date.Period `json:"-"`
}

// NewRunMeta stamps a fresh run identifier.
func NewRunMeta(mode date.Mode, assessmentYear int, period date.Period) RunMeta {
	return RunMeta{
		ID:             uuid.NewString(),
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		Mode:           mode.String(),
		AssessmentYear: assessmentYear,
		Period:         period,
	}
}

// EncodeEntries writes the lossless audit dump: a JSONL stream opening with
// the run metadata followed by one line per disclosure entry, decimals at
// full precision and acquisition dates with their verbatim source strings.
func EncodeEntries(w io.Writer, meta RunMeta, entries []Entry) error {
	var hw jsonObjectWriter
	hw.Append("run", meta.ID)
	hw.Append("generatedAt", meta.GeneratedAt)
	hw.Append("mode", meta.Mode)
	hw.Append("assessmentYear", meta.AssessmentYear)
	hw.Append("from", meta.Period.From)
	hw.Append("to", meta.Period.To)
	header, err := hw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot marshal run metadata: %w", err)
	}
	if _, err := w.Write(append(header, '\n')); err != nil {
		return fmt.Errorf("cannot write audit dump: %w", err)
	}

	for i, e := range entries {
		data, err := e.MarshalJSON()
		if err != nil {
			return fmt.Errorf("cannot marshal entry %d (%q): %w", i, e.Acquisition.Ticker, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("cannot write audit dump: %w", err)
		}
	}
	return nil
}

// CreateOutputFile creates an output file, refusing to clobber an existing
// one unless overwrite is set.
func CreateOutputFile(path string, overwrite bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if os.IsExist(err) {
		return nil, fmt.Errorf("output file %q already exists (use -f to overwrite)", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot create output file %q: %w", path, err)
	}
	return f, nil
}
