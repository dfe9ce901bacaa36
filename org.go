package schedulefa

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Org is the static identity of the foreign entity behind a ticker, as it
// must appear on the A3 table. Read-only reference data.
type Org struct {
	CountryName string `json:"countryName"` // e.g. "United States"
	CountryCode string `json:"countryCode"` // ITR country code, e.g. "2"
	Name        string `json:"name"`
	Address     string `json:"address"`
	Nature      string `json:"nature"` // nature of holding, e.g. "Listed"
	ZipCode     string `json:"zipCode"`
}

// Registry maps tickers to their organization identity and trading currency.
// It is loaded once and never mutated afterwards.
type Registry struct {
	orgs       map[string]Org
	currencies map[string]string
}

// NewRegistry returns a registry pre-populated with the built-in tickers.
func NewRegistry() *Registry {
	return &Registry{
		orgs: map[string]Org{
			"adbe": {
				CountryName: "United States",
				CountryCode: "2",
				Name:        "Adobe Incorporation",
				Address:     "345 Park Avenue San Jose, CA",
				Nature:      "Listed",
				ZipCode:     "95110",
			},
		},
		currencies: map[string]string{
			"adbe": "USD",
		},
	}
}

// Org returns the organization identity for a ticker.
func (r *Registry) Org(ticker string) (Org, error) {
	org, ok := r.orgs[strings.ToLower(ticker)]
	if !ok {
		return Org{}, fmt.Errorf("%w: no organization info for %q", ErrUnknownTicker, ticker)
	}
	return org, nil
}

// Currency returns the trading currency code for a ticker.
func (r *Registry) Currency(ticker string) (string, error) {
	c, ok := r.currencies[strings.ToLower(ticker)]
	if !ok {
		return "", fmt.Errorf("%w: no currency info for %q", ErrUnknownTicker, ticker)
	}
	return c, nil
}

// Has reports whether the ticker is known to the registry.
func (r *Registry) Has(ticker string) bool {
	_, ok := r.orgs[strings.ToLower(ticker)]
	return ok
}

// Tickers returns the known tickers in lexical order.
func (r *Registry) Tickers() []string {
	tickers := make([]string, 0, len(r.orgs))
	for t := range r.orgs {
		tickers = append(tickers, t)
	}
	slices.Sort(tickers)
	return tickers
}

// jorg is the persisted form of a registry line.
type jorg struct {
	Ticker   string `json:"ticker"`
	Currency string `json:"currency"`
	Org
}

// DecodeRegistry reads additional organizations from 'r' in JSONL form, one
// organization per line, merged over the built-in defaults. The last
// definition of a ticker wins.
func DecodeRegistry(r io.Reader) (*Registry, error) {
	reg := NewRegistry()
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var jo jorg
		if err := json.Unmarshal(line, &jo); err != nil {
			return nil, fmt.Errorf("format error in registry line %d: %q: %w", n, string(line), err)
		}
		if jo.Ticker == "" {
			return nil, fmt.Errorf("format error in registry line %d: missing ticker", n)
		}
		ticker := strings.ToLower(jo.Ticker)
		reg.orgs[ticker] = jo.Org
		reg.currencies[ticker] = strings.ToUpper(jo.Currency)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read registry: %w", err)
	}
	return reg, nil
}

// LoadRegistry loads the registry file at path, or just the built-in
// defaults when the file does not exist.
func LoadRegistry(path string) (*Registry, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open registry %q: %w", path, err)
	}
	defer f.Close()
	reg, err := DecodeRegistry(f)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", path, err)
	}
	return reg, nil
}
