// Package cmd implements the CLI application that generates the Schedule FA
// Table A3 entries.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/nvraman/schedulefa"

	// load a .env before the flag defaults below read the environment.
	_ "github.com/joho/godotenv/autoload"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&generateCmd{}, "schedule")

	c.Register(&fmvCmd{}, "queries")
	c.Register(&rateCmd{}, "queries")
	c.Register(&peakCmd{}, "queries")
	c.Register(&orgsCmd{}, "queries")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data", envOr("FAGEN_DATA_DIR", "historic_data"), "Path to the historic data folder (shares and rates)")
var registryFile = flag.String("registry", envOr("FAGEN_REGISTRY_FILE", "orgs.jsonl"), "Path to the organization registry file (JSONL format)")
var staleLimit = flag.Int("stale-limit", 0, "Days an FMV may be stale before failing; 0 only warns")
var Verbose = flag.Bool("v", false, "Enable debug logs")

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ConfigureLogging routes the log package according to the -v flag.
// The pipeline narrates its lookups through log; quiet runs only keep them
// on failure paths.
func ConfigureLogging() {
	log.SetFlags(0)
	if !*Verbose {
		log.SetOutput(io.Discard)
	}
}

// newValuation is the central place where subcommands wire the engine.
func newValuation() (*schedulefa.Valuation, error) {
	registry, err := schedulefa.LoadRegistry(*registryFile)
	if err != nil {
		return nil, err
	}
	v := schedulefa.NewValuation(*dataDir, registry)
	v.Market.StaleLimit = *staleLimit
	return v, nil
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering fails (e.g. not a tty).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
