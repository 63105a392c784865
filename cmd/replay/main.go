// Command replay normalizes captured upstream payloads from a directory,
// stores them, and prints the correlation between two datasets as JSON.
// It needs no network access or API keys, which makes it handy for checking
// normalizer changes against real provider responses.
//
// The directory may hold any of:
//
//	weather.json      {"city": ..., "location": {...}, "days": [{"date": ..., "body": {...}}]}
//	financial.json    {"AAPL": <chart body>, ...}
//	health.json       <disease.sh historical body>
//	tech.json         {"category": ..., "company": ..., "company_name": ..., "body": {...}}
//	agriculture.json  {"crop": ..., "region": ..., "days": [...]}
//
// Usage:
//
//	go run ./cmd/replay -dir cmd/replay/testdata -dataset1 weather -dataset2 health
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/couchcryptid/cross-domain-correlator/internal/correlation"
	"github.com/couchcryptid/cross-domain-correlator/internal/domain"
	"github.com/couchcryptid/cross-domain-correlator/internal/store"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, log.New(os.Stderr, "", 0)); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer, logger *log.Logger) error {
	flags := flag.NewFlagSet("replay", flag.ContinueOnError)
	flags.SetOutput(logger.Writer())
	dir := flags.String("dir", "", "directory containing captured payload fixtures")
	dataset1 := flags.String("dataset1", "", "first dataset to correlate")
	dataset2 := flags.String("dataset2", "", "second dataset to correlate")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *dir == "" || *dataset1 == "" || *dataset2 == "" {
		flags.Usage()
		return errors.New("missing required flags: -dir, -dataset1, -dataset2")
	}

	st := store.New(nil)
	for _, d := range domain.Datasets {
		series, err := load(*dir, d)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", d, err)
		}
		st.Set(series)
		logger.Printf("%s: %d records", d, series.Len())
	}

	a, err := domain.ParseDataset(*dataset1)
	if err != nil {
		return err
	}
	b, err := domain.ParseDataset(*dataset2)
	if err != nil {
		return err
	}
	result, err := correlation.NewEngine(st).Correlate(a, b)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// load reads and normalizes the fixture for d.
func load(dir string, d domain.Dataset) (domain.Series, error) {
	data, err := os.ReadFile(filepath.Join(dir, string(d)+".json"))
	if err != nil {
		return domain.Series{}, err
	}

	switch d {
	case domain.Weather:
		var p domain.WeatherPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return domain.Series{}, fmt.Errorf("decode fixture: %w", err)
		}
		return domain.NormalizeWeather(p)
	case domain.Financial:
		var p domain.FinancialPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return domain.Series{}, fmt.Errorf("decode fixture: %w", err)
		}
		return domain.NormalizeFinancial(p)
	case domain.Health:
		return domain.NormalizeHealth(data)
	case domain.Tech:
		var p domain.TechPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return domain.Series{}, fmt.Errorf("decode fixture: %w", err)
		}
		return domain.NormalizeTech(p)
	case domain.Agriculture:
		var p domain.AgriculturePayload
		if err := json.Unmarshal(data, &p); err != nil {
			return domain.Series{}, fmt.Errorf("decode fixture: %w", err)
		}
		return domain.NormalizeAgriculture(p)
	default:
		return domain.Series{}, fmt.Errorf("no fixture format for %s: %w", d, fs.ErrNotExist)
	}
}
