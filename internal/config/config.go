// Package config defines the CLI surface and run-time constants for
// orbitsim: flag parsing plus an optional YAML overlay, mirroring the
// reference system's argparse flags (src/main.py) with the additional
// ambient flags a complete Go entrypoint needs (data/results locations,
// metrics endpoint, strategy selection).
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults matching the reference constellation (main.py module constants).
const (
	DefaultNsat                     = 636
	DefaultNgs                      = 146
	DefaultGrowthFactor             = 2.0
	DefaultMaxTimeSteps             = 4 * 60
	DefaultSeed                     = 0
	DefaultRepetitions              = 1
	DefaultGSLFailureShare = 0.03
	DefaultISLFailureShare = 0.50
	DefaultGSFailureShare  = 0.50
	timeLayout             = "2006-01-02 15:04:05"
	defaultStartTimeStr    = "2023-09-28 08:26:00"
	defaultFailureTimeStr  = "2023-09-30 08:26:00"
	defaultResetTimeStr    = "2023-10-02 08:26:00"
	DefaultDataDir         = "data"
	DefaultResultsDir      = "results"
)

// Config holds every run parameter: the flags from spec.md §6 plus the
// ambient additions (config overlay path, data/results directories,
// metrics endpoint, strategy selection) needed to run a complete binary.
type Config struct {
	GrowthFactor float64
	GSLFailures  bool
	ISLFailures  bool
	GSFailures   bool
	MaxTimeSteps int
	Logging      bool
	Seed         int64
	Repetitions  int
	Strategies   []string

	DataDir     string
	ResultsDir  string
	MetricsAddr string

	// Nsat and Ngs are the constellation size constants (main.py's
	// NUM_SATELLITES/NUM_GROUNDSTATIONS); not exposed as flags since they
	// describe the fixed input dataset, not a run-time choice.
	Nsat int
	Ngs  int

	StartTime   time.Time
	FailureTime time.Time
	ResetTime   time.Time

	GSLFailureShare float64
	ISLFailureShare float64
	GSFailureShare  float64
}

// overlay mirrors Config with pointer/omittable fields so a YAML file only
// needs to specify the keys it wants to override.
type overlay struct {
	GrowthFactor *float64 `yaml:"growth_factor"`
	GSLFailures  *bool    `yaml:"gsl_failures"`
	ISLFailures  *bool    `yaml:"isl_failures"`
	GSFailures   *bool    `yaml:"gs_failures"`
	MaxTimeSteps *int     `yaml:"max_time_steps"`
	Logging      *bool    `yaml:"logging"`
	Seed         *int64   `yaml:"seed"`
	Repetitions  *int     `yaml:"repetitions"`
	Strategies   []string `yaml:"strategies"`
	DataDir      *string  `yaml:"data_dir"`
	ResultsDir   *string  `yaml:"results_dir"`
	MetricsAddr  *string  `yaml:"metrics_addr"`
}

func mustParseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		panic(fmt.Sprintf("config: invalid built-in time constant %q: %v", s, err))
	}
	return t.UTC()
}

// Defaults returns the configuration the reference system ships with: all
// seven strategies, no failures, growth factor 2, 240 steps.
func Defaults() Config {
	return Config{
		GrowthFactor:    DefaultGrowthFactor,
		MaxTimeSteps:    DefaultMaxTimeSteps,
		Seed:            DefaultSeed,
		Repetitions:     DefaultRepetitions,
		Strategies:      append([]string{}, strategyNames()...),
		DataDir:         DefaultDataDir,
		ResultsDir:      DefaultResultsDir,
		Nsat:            DefaultNsat,
		Ngs:             DefaultNgs,
		StartTime:       mustParseTime(defaultStartTimeStr),
		FailureTime:     mustParseTime(defaultFailureTimeStr),
		ResetTime:       mustParseTime(defaultResetTimeStr),
		GSLFailureShare: DefaultGSLFailureShare,
		ISLFailureShare: DefaultISLFailureShare,
		GSFailureShare:  DefaultGSFailureShare,
	}
}

// strategyNames avoids an import cycle with internal/strategy (config is a
// leaf package); the registry's own Names slice is the source of truth.
// Names are not validated at Parse time: an unknown name is reported when a
// worker asks strategy.New for it.
func strategyNames() []string {
	return []string{"random", "bent_pipe", "dijkstra", "gounder", "q_learning", "ucb1", "tile_coded_ucb"}
}

// Parse builds a Config from CLI flags, then applies an optional --config
// YAML overlay: every key the overlay sets replaces the flag value, whether
// or not that flag was passed; keys it omits keep the flag value.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("orbitsim", flag.ContinueOnError)

	cfg := Defaults()
	var strategiesFlag, configPath string

	fs.Float64Var(&cfg.GrowthFactor, "growth_factor", cfg.GrowthFactor, "factor scaling data generation rate")
	fs.BoolVar(&cfg.GSLFailures, "gsl_failures", false, "enable GSL failure injection")
	fs.BoolVar(&cfg.ISLFailures, "isl_failures", false, "enable ISL failure injection")
	fs.BoolVar(&cfg.GSFailures, "gs_failures", false, "enable ground-station failure injection")
	fs.IntVar(&cfg.MaxTimeSteps, "max_time_steps", cfg.MaxTimeSteps, "number of simulation steps to run")
	fs.BoolVar(&cfg.Logging, "logging", false, "stored in the config; no per-node log is written")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "base random seed; repetition i uses seed+i")
	fs.IntVar(&cfg.Repetitions, "repetitions", cfg.Repetitions, "number of repetitions per strategy")
	fs.StringVar(&strategiesFlag, "strategies", strings.Join(cfg.Strategies, ","), "comma-separated strategy names")
	fs.StringVar(&cfg.DataDir, "data_dir", cfg.DataDir, "root directory for the gob-encoded input source")
	fs.StringVar(&cfg.ResultsDir, "results_dir", cfg.ResultsDir, "directory for per-run CSV result files")
	fs.StringVar(&cfg.MetricsAddr, "metrics_addr", "", "optional address to serve Prometheus /metrics on")
	fs.StringVar(&configPath, "config", "", "optional YAML file overlaying the flags above")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Strategies = splitStrategies(strategiesFlag)

	if configPath != "" {
		if err := applyOverlay(&cfg, configPath); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func splitStrategies(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func applyOverlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading overlay %s: %w", path, err)
	}

	var ov overlay
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("config: parsing overlay %s: %w", path, err)
	}

	if ov.GrowthFactor != nil {
		cfg.GrowthFactor = *ov.GrowthFactor
	}
	if ov.GSLFailures != nil {
		cfg.GSLFailures = *ov.GSLFailures
	}
	if ov.ISLFailures != nil {
		cfg.ISLFailures = *ov.ISLFailures
	}
	if ov.GSFailures != nil {
		cfg.GSFailures = *ov.GSFailures
	}
	if ov.MaxTimeSteps != nil {
		cfg.MaxTimeSteps = *ov.MaxTimeSteps
	}
	if ov.Logging != nil {
		cfg.Logging = *ov.Logging
	}
	if ov.Seed != nil {
		cfg.Seed = *ov.Seed
	}
	if ov.Repetitions != nil {
		cfg.Repetitions = *ov.Repetitions
	}
	if len(ov.Strategies) > 0 {
		cfg.Strategies = ov.Strategies
	}
	if ov.DataDir != nil {
		cfg.DataDir = *ov.DataDir
	}
	if ov.ResultsDir != nil {
		cfg.ResultsDir = *ov.ResultsDir
	}
	if ov.MetricsAddr != nil {
		cfg.MetricsAddr = *ov.MetricsAddr
	}

	return nil
}
