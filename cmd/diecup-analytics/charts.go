package main

import (
	"fmt"

	"github.com/rhaversen/diecup-analytics/internal/charts"
)

type ChartsCmd struct {
	File string `arg:"" optional:"" help:"Optimizer log file (defaults to the newest matching file in the log directory)" type:"path"`
	Out  string `help:"Output directory (defaults to the configured chart_dir)" type:"path"`
}

func (c *ChartsCmd) Run(app *App) error {
	path, err := resolveLogFile(app, c.File)
	if err != nil {
		return err
	}

	records, _, err := loadRecords(app, path)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no improvements found in %s", path)
	}

	dir := c.Out
	if dir == "" {
		dir = app.Config.ChartDir
	}

	written, err := charts.WriteAll(records, app.Config.Parameters, dir)
	if err != nil {
		return err
	}
	for _, p := range written {
		app.Logger.Info().Str("chart", p).Msg("rendered")
	}
	fmt.Printf("Wrote %d charts to %s (from %d improvements)\n", len(written), dir, len(records))
	return nil
}
