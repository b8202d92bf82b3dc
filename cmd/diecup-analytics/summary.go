package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rhaversen/diecup-analytics/internal/optlog"
)

type SummaryCmd struct {
	File   string `arg:"" optional:"" help:"Optimizer log file (defaults to the newest matching file in the log directory)" type:"path"`
	Format string `default:"text" enum:"text,json" help:"Output format (text, json)"`
}

func (c *SummaryCmd) Run(app *App) error {
	path, err := resolveLogFile(app, c.File)
	if err != nil {
		return err
	}

	records, _, err := loadRecords(app, path)
	if err != nil {
		return err
	}

	if c.Format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	fmt.Printf("Log: %s\n", path)
	printSummary(os.Stdout, records)
	return nil
}

// printSummary writes the human-readable improvement summary: the most
// recent improvements in full, then the value range every parameter covered.
func printSummary(w io.Writer, records []optlog.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No improvements found.")
		return
	}

	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "Found %d improvements\n", len(records))
	fmt.Fprintf(w, "%s\n\n", rule)

	recent := records
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	fmt.Fprintf(w, "Most recent %d improvements:\n\n", len(recent))

	for i, rec := range recent {
		idx := len(records) - len(recent) + i + 1
		extra := ""
		if rec.P95 != nil {
			extra += fmt.Sprintf(", P95: %.1f", *rec.P95)
		}
		if rec.Max != nil {
			extra += fmt.Sprintf(", Max: %.0f", *rec.Max)
		}
		fmt.Fprintf(w, "Improvement %d (Gen %d, Fitness: %s, Mean: %s, Var: %s%s)\n",
			idx, rec.Generation, fmtOptScalar(rec.Fitness), fmtOptScalar(rec.Mean), fmtOptScalar(rec.Variance), extra)

		names := make([]string, 0, len(rec.Params))
		for name := range rec.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %-25s = %8.4f\n", name, rec.Params[name])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintln(w, "Parameter Ranges Across All Improvements")
	fmt.Fprintf(w, "%s\n\n", rule)

	ranges := paramRanges(records)
	names := make([]string, 0, len(ranges))
	for name := range ranges {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r := ranges[name]
		fmt.Fprintf(w, "%-25s: min=%8.4f, max=%8.4f, first=%8.4f, last=%8.4f\n",
			name, r.min, r.max, r.first, r.last)
	}
}

type paramRange struct {
	min, max, first, last float64
}

func paramRanges(records []optlog.Record) map[string]paramRange {
	ranges := make(map[string]paramRange)
	for _, rec := range records {
		for name, v := range rec.Params {
			r, ok := ranges[name]
			if !ok {
				ranges[name] = paramRange{min: v, max: v, first: v, last: v}
				continue
			}
			if v < r.min {
				r.min = v
			}
			if v > r.max {
				r.max = v
			}
			r.last = v
			ranges[name] = r
		}
	}
	return ranges
}
