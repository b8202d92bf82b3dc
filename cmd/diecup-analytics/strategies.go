package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/rhaversen/diecup-analytics/internal/charts"
	"github.com/rhaversen/diecup-analytics/internal/results"
	"github.com/rhaversen/diecup-analytics/internal/stats"
	"github.com/rhaversen/diecup-analytics/internal/tui"
)

type StrategiesCmd struct {
	Dir         string `arg:"" optional:"" help:"Results directory (defaults to the configured results_dir)" type:"path"`
	Chart       string `help:"Write the turn-distribution chart PNG to this path" type:"path"`
	Interactive bool   `short:"i" help:"Browse strategies interactively"`
}

func (c *StrategiesCmd) Run(app *App) error {
	dir := c.Dir
	if dir == "" {
		dir = app.Config.ResultsDir
	}

	data, err := results.LoadDir(context.Background(), dir, app.Logger)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("no result files found in %s", dir)
	}

	if c.Interactive {
		model := tui.NewBrowserModel(data, log.New(io.Discard))
		_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	}

	fmt.Printf("=== STRATEGY RESULTS (%s) ===\n", dir)
	fmt.Printf("%-25s %8s %8s %8s %8s %8s %8s %8s\n",
		"Strategy", "games", "avg", "med", "Q1", "Q3", "P95", "max")
	for _, name := range results.Strategies(data) {
		s := stats.Summarize(results.Floats(data[name]))
		fmt.Printf("%-25s %8d %8.2f %8.1f %8.1f %8.1f %8.1f %8.0f\n",
			name, s.N, s.Mean, s.Median, s.Q1, s.Q3, s.P95, s.Max)
	}

	if c.Chart != "" {
		ch, ok := charts.DistributionChart(data, app.Config.SmoothingWindow)
		if !ok {
			return fmt.Errorf("not enough data to chart")
		}
		if err := charts.WritePNG(ch, c.Chart); err != nil {
			return err
		}
		fmt.Printf("\nWrote distribution chart to %s\n", c.Chart)
	}
	return nil
}
