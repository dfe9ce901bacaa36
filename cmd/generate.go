package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/nvraman/schedulefa"
	"github.com/nvraman/schedulefa/date"
	"github.com/nvraman/schedulefa/etrade"
	"github.com/nvraman/schedulefa/renderer"
)

// generateCmd holds the flags for the 'generate' subcommand.
type generateCmd struct {
	input          string
	sourceMode     string
	calendarMode   string
	assessmentYear int
	output         string
	overwrite      bool
}

func (*generateCmd) Name() string     { return "generate" }
func (*generateCmd) Synopsis() string { return "generate the Schedule FA Table A3 entries" }
func (*generateCmd) Usage() string {
	return `fagen generate -i <input> -ay <year> [-m <source-mode>] [-cal <calendar-mode>] [-o <folder>] [-f]

  Ingests a brokerage export, values every foreign holding over the reporting
  period and writes fa_entries.jsonl (audit dump) and fa_entries.csv (filing
  export) into the output folder.

Usage Examples:
# Benefit history export for AY 2021, calendar period.
$ fagen generate -i exports/benefit_history -ay 2021

# Holdings-by-status export, financial year period.
$ fagen generate -i exports/sellable.csv -m etrade_holdings_bystatus -cal financial -ay 2021
`
}

func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Input file or folder of the brokerage export")
	f.StringVar(&c.sourceMode, "m", etrade.BenefitHistory.String(), "Source mode (etrade_benefit_history, etrade_holdings_bystatus)")
	f.StringVar(&c.calendarMode, "cal", date.Calendar.String(), "Calendar period mode (calendar, financial)")
	f.IntVar(&c.assessmentYear, "ay", 0, "Assessment year; for AY 2019-2020 pass 2019")
	f.StringVar(&c.output, "o", envOr("FAGEN_OUTPUT_DIR", "output"), "Output folder for the generated files")
	f.BoolVar(&c.overwrite, "f", false, "Overwrite existing output files")
}

func (c *generateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.input == "" {
		fmt.Fprintln(os.Stderr, "Error: -i input is required")
		return subcommands.ExitUsageError
	}
	if c.assessmentYear == 0 {
		fmt.Fprintln(os.Stderr, "Error: -ay assessment year is required")
		return subcommands.ExitUsageError
	}
	sourceMode, err := etrade.ParseMode(c.sourceMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	calendarMode, err := date.ParseMode(c.calendarMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	period, err := date.PeriodBounds(calendarMode, c.assessmentYear)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	valuation, err := newValuation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading reference data: %v\n", err)
		return subcommands.ExitFailure
	}

	acquisitions, err := etrade.Parse(sourceMode, c.input, valuation.Registry, valuation, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error ingesting %q: %v\n", c.input, err)
		return subcommands.ExitFailure
	}

	entries, err := schedulefa.Schedule(valuation, calendarMode, c.assessmentYear, acquisitions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing entries: %v\n", err)
		return subcommands.ExitFailure
	}

	// All entries are computed before any file is touched, so a failure
	// never leaves a partial filing artifact behind.
	meta := schedulefa.NewRunMeta(calendarMode, c.assessmentYear, period)
	if err := c.write(meta, entries); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.EntriesMarkdown(meta, entries))
	return subcommands.ExitSuccess
}

func (c *generateCmd) write(meta schedulefa.RunMeta, entries []schedulefa.Entry) error {
	if err := os.MkdirAll(c.output, 0755); err != nil {
		return fmt.Errorf("cannot create output folder %q: %w", c.output, err)
	}

	dumpPath := filepath.Join(c.output, "fa_entries.jsonl")
	dump, err := schedulefa.CreateOutputFile(dumpPath, c.overwrite)
	if err != nil {
		return err
	}
	defer dump.Close()
	if err := schedulefa.EncodeEntries(dump, meta, entries); err != nil {
		return err
	}
	fmt.Printf("Wrote audit dump to %s\n", dumpPath)

	csvPath := filepath.Join(c.output, "fa_entries.csv")
	export, err := schedulefa.CreateOutputFile(csvPath, c.overwrite)
	if err != nil {
		return err
	}
	defer export.Close()
	if err := schedulefa.ExportCSV(export, entries); err != nil {
		return err
	}
	fmt.Printf("Wrote filing export to %s\n", csvPath)
	return nil
}
