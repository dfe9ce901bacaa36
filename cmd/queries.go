package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/nvraman/schedulefa"
	"github.com/nvraman/schedulefa/date"
)

// The query subcommands expose the valuation pipeline one lookup at a time,
// for checking individual numbers against the data files.

// fmvCmd holds the flags for the 'fmv' subcommand.
type fmvCmd struct {
	ticker string
	date   string
}

func (*fmvCmd) Name() string     { return "fmv" }
func (*fmvCmd) Synopsis() string { return "look up the fair market value of a ticker at a date" }
func (*fmvCmd) Usage() string {
	return `fagen fmv -t <ticker> -d <yyyy-mm-dd>

  Prints the closing price forward-filled to the next trading day.
`
}

func (c *fmvCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker symbol")
	f.StringVar(&c.date, "d", "", "Date in ISO form")
}

func (c *fmvCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date, date.ISO)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	v, err := newValuation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading reference data: %v\n", err)
		return subcommands.ExitFailure
	}
	fmv, matched, err := v.FairMarketValue(c.ticker, on.Date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: FMV at %s is %s (observed %s)\n", c.ticker, on.Display(), fmv, matched.Display())
	return subcommands.ExitSuccess
}

// rateCmd holds the flags for the 'rate' subcommand.
type rateCmd struct {
	currency string
	date     string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "look up the effective INR reference rate at a date" }
func (*rateCmd) Usage() string {
	return `fagen rate -c <currency> -d <yyyy-mm-dd>

  Prints the INR rate in effect at the date, i.e. the previous calendar
  month's published RBI reference rate.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "USD", "Foreign currency code")
	f.StringVar(&c.date, "d", "", "Date in ISO form")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date, date.ISO)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	v, err := newValuation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading reference data: %v\n", err)
		return subcommands.ExitFailure
	}
	rate, err := v.Rates.EffectiveOn(c.currency, on.Date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("INR / 1 %s in effect at %s: %s\n", c.currency, on.Display(), rate)
	return subcommands.ExitSuccess
}

// peakCmd holds the flags for the 'peak' subcommand.
type peakCmd struct {
	ticker string
	from   string
	to     string
}

func (*peakCmd) Name() string     { return "peak" }
func (*peakCmd) Synopsis() string { return "find the INR peak value of one share over a window" }
func (*peakCmd) Usage() string {
	return `fagen peak -t <ticker> -s <yyyy-mm-dd> -d <yyyy-mm-dd>

  Finds the day maximizing price times effective rate, which is not always
  the raw price peak.
`
}

func (c *peakCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker symbol")
	f.StringVar(&c.from, "s", "", "Window start in ISO form")
	f.StringVar(&c.to, "d", "", "Window end in ISO form")
}

func (c *peakCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, err := date.Parse(c.from, date.ISO)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := date.Parse(c.to, date.ISO)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}
	v, err := newValuation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading reference data: %v\n", err)
		return subcommands.ExitFailure
	}
	peak, on, err := v.PeakValue(c.ticker, schedulefa.Q(1), from.Date, to.Date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: peak value per share between %s and %s is %s on %s\n",
		c.ticker, from.Display(), to.Display(), peak, on.Display())
	return subcommands.ExitSuccess
}

// orgsCmd lists the organization registry.
type orgsCmd struct{}

func (*orgsCmd) Name() string     { return "orgs" }
func (*orgsCmd) Synopsis() string { return "list the known tickers and their organization identity" }
func (*orgsCmd) Usage() string {
	return `fagen orgs

  Lists the tickers the registry can disclose, with their entity identity
  and trading currency.
`
}

func (c *orgsCmd) SetFlags(f *flag.FlagSet) {}

func (c *orgsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	registry, err := schedulefa.LoadRegistry(*registryFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading registry: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, ticker := range registry.Tickers() {
		org, _ := registry.Org(ticker)
		currency, _ := registry.Currency(ticker)
		fmt.Printf("%s (%s): %s, %s %s, %s (%s), nature %q\n",
			ticker, currency, org.Name, org.Address, org.ZipCode, org.CountryName, org.CountryCode, org.Nature)
	}
	return subcommands.ExitSuccess
}
