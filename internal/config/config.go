// Package config centralizes configuration for the catalog tools. All
// tunables come from command-line flags with environment-variable fallbacks
// (12-factor friendly); flags are defined first so `-help` lists every knob
// with its default.
//
// Typical usage:
//
//	cfg := config.Load() // reads os.Args and os.Environ
//
// For tests, prefer LoadFromArgs to keep them hermetic:
//
//	fs := flag.NewFlagSet("test", flag.ContinueOnError)
//	getenv := func(k string) string { return testEnv[k] }
//	cfg := config.LoadFromArgs(fs, getenv, []string{"-out=x.csv"})
package config

import (
	"flag"
	"os"
	"strconv"
)

// Config holds all process configuration derived from flags and environment
// variables. All fields are plain values, so the struct can be copied freely
// after construction.
type Config struct {
	// IO controls input/output file locations.
	OldPath     string // old-generation dataset (CSV/XLSX), keyed by SKU
	NewPath     string // new-generation dataset (CSV/XLSX), keyed by MECA
	InPath      string // generic input for single-dataset tools
	OutPath     string // primary output CSV; review files derive from it
	SKUNamesCSV string // identifier → brand name side map from the extraction stage

	// Reconciliation policies.
	UnmatchedPolicy string // "export" or "discard" for old-only records
	DuplicatePolicy string // "keep-first", "keep-last", "most-complete"

	// Brand directory & catalog API connectivity.
	DirectoryURL string // brand directory endpoint returning [{id,name}]
	APIBase      string // catalog API base URL (deactivation tool)
	APIKey       string // X-Api-Key header value
	APIToken     string // X-Api-Token header value
	PageSize     int    // page size for paginated catalog API calls

	// Metrics.
	MetricsBackend string // "pushgateway" or "none"
	PushgatewayURL string // Pushgateway base URL
}

// LoadFromArgs builds a Config by defining flags on fs, wiring each flag to
// an environment-variable fallback via getenv, and then parsing args. This
// is the most testable entry point: callers supply a private FlagSet, a
// getenv func (often backed by a map), and a synthetic arg slice.
//
// Precedence:
//  1. Environment values seed each flag's default.
//  2. Explicit CLI flags (in args) override the seeded defaults.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) *Config {
	cfg := &Config{}

	envOrDefaultFn := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	intEnvOrDefaultFn := func(k string, d int) int {
		if v := getenv(k); v != "" {
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
		return d
	}

	// IO paths
	fs.StringVar(&cfg.OldPath, "old", envOrDefaultFn("OLD_DATASET", "articulos_sku.csv"), "Path to the old-generation dataset (SKU-keyed)")
	fs.StringVar(&cfg.NewPath, "new", envOrDefaultFn("NEW_DATASET", "articulos_meca.csv"), "Path to the new-generation dataset (MECA-keyed)")
	fs.StringVar(&cfg.InPath, "in", envOrDefaultFn("IN_DATASET", ""), "Path to the input dataset for single-file tools")
	fs.StringVar(&cfg.OutPath, "out", envOrDefaultFn("OUT_DATASET", "unificado.csv"), "Primary output CSV; review exports derive their names from it")
	fs.StringVar(&cfg.SKUNamesCSV, "sku-names", envOrDefaultFn("SKU_NAMES_CSV", "marcas_por_sku.csv"), "CSV side map: identifier, brand name")

	// Policies
	fs.StringVar(&cfg.UnmatchedPolicy, "unmatched", envOrDefaultFn("UNMATCHED_POLICY", "export"), "Old-only record policy: 'export' (review file) or 'discard'")
	fs.StringVar(&cfg.DuplicatePolicy, "duplicates", envOrDefaultFn("DUPLICATE_POLICY", "keep-last"), "Duplicate identifier policy: 'keep-first', 'keep-last' or 'most-complete'")

	// Directory & API connectivity
	fs.StringVar(&cfg.DirectoryURL, "directory-url", getenv("BRAND_DIRECTORY_URL"), "Brand directory endpoint returning a JSON [{id,name}] list")
	fs.StringVar(&cfg.APIBase, "api-base", getenv("CATALOG_API_BASE"), "Catalog API base URL")
	fs.StringVar(&cfg.APIKey, "api-key", getenv("CATALOG_API_KEY"), "Catalog API key header value")
	fs.StringVar(&cfg.APIToken, "api-token", getenv("CATALOG_API_TOKEN"), "Catalog API token header value")
	fs.IntVar(&cfg.PageSize, "page-size", intEnvOrDefaultFn("CATALOG_PAGE_SIZE", 50), "Page size for paginated catalog API calls")

	// Metrics
	fs.StringVar(&cfg.MetricsBackend, "metrics-backend", envOrDefaultFn("METRICS_BACKEND", "none"), "Metrics backend: 'pushgateway' or 'none'")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway-url", envOrDefaultFn("PUSHGATEWAY_URL", "http://localhost:9091"), "Prometheus Pushgateway base URL")

	if args == nil {
		args = []string{}
	}
	_ = fs.Parse(args)
	return cfg
}

// Load is the production entry point. It wires the loader to the process
// flag set (flag.CommandLine), reads environment variables via os.Getenv,
// and parses os.Args[1:].
func Load() *Config {
	return LoadFromArgs(flag.CommandLine, os.Getenv, os.Args[1:])
}
