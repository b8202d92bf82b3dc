// Package config loads the analyzer configuration from an HCL file, falling
// back to defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config holds all tunables for the log monitor, chart rendering and
// strategy analysis.
type Config struct {
	LogDir          string   `hcl:"log_dir,optional"`
	LogGlob         string   `hcl:"log_glob,optional"`
	ResultsDir      string   `hcl:"results_dir,optional"`
	ChartDir        string   `hcl:"chart_dir,optional"`
	RefreshInterval string   `hcl:"refresh_interval,optional"`
	SmoothingWindow int      `hcl:"smoothing_window,optional"`
	Parameters      []string `hcl:"parameters,optional"`
}

// DefaultParameters are the tuner parameters the optimizer is known to emit,
// in their conventional display order. Logs may still introduce other labels;
// those are carried through records untouched.
var DefaultParameters = []string{
	"OpportunityWeight", "RarityWeight", "ProgressWeight", "RarityScalar",
	"CollectionWeight", "CollectionScalar", "CompletionWeight", "CatchUpWeight",
	"DiceCostWeight", "VarianceWeight", "GameProgressWeight", "AllDiceBonusWeight",
	"RemainingValueWeight", "EfficiencyWeight", "CommitmentRiskWeight", "MultiCollectThreshold",
	"ContinuationWeight",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogDir:          "logs",
		LogGlob:         "genetic_optimizer_*.txt",
		ResultsDir:      "simulation_results",
		ChartDir:        "charts",
		RefreshInterval: "2s",
		SmoothingWindow: 5,
		Parameters:      append([]string(nil), DefaultParameters...),
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; a present but invalid file is an error.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse config: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decode config: %s", diags.Error())
	}

	applyDefaults(&cfg)
	if _, err := cfg.Interval(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.LogDir == "" {
		cfg.LogDir = def.LogDir
	}
	if cfg.LogGlob == "" {
		cfg.LogGlob = def.LogGlob
	}
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = def.ResultsDir
	}
	if cfg.ChartDir == "" {
		cfg.ChartDir = def.ChartDir
	}
	if cfg.RefreshInterval == "" {
		cfg.RefreshInterval = def.RefreshInterval
	}
	if cfg.SmoothingWindow <= 0 {
		cfg.SmoothingWindow = def.SmoothingWindow
	}
	if len(cfg.Parameters) == 0 {
		cfg.Parameters = def.Parameters
	}
}

// Interval parses the refresh interval.
func (c *Config) Interval() (time.Duration, error) {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid refresh_interval %q: %w", c.RefreshInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("refresh_interval must be positive, got %s", d)
	}
	return d, nil
}
