package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/rhaversen/diecup-analytics/internal/charts"
	"github.com/rhaversen/diecup-analytics/internal/monitor"
	"github.com/rhaversen/diecup-analytics/internal/optlog"
	"github.com/rhaversen/diecup-analytics/internal/tui"
)

type WatchCmd struct {
	File     string        `arg:"" optional:"" help:"Optimizer log file (defaults to the newest matching file in the log directory)" type:"path"`
	Interval time.Duration `help:"Override the configured poll interval"`
	Plain    bool          `help:"Log new improvements instead of drawing the dashboard"`
	Charts   bool          `help:"Re-render the PNG chart set whenever new records arrive"`
}

func (c *WatchCmd) Run(app *App) error {
	path, err := resolveLogFile(app, c.File)
	if err != nil {
		return err
	}

	interval := c.Interval
	if interval <= 0 {
		if interval, err = app.Config.Interval(); err != nil {
			return err
		}
	}

	app.Logger.Info().Str("log", path).Dur("interval", interval).Msg("monitoring optimizer log")
	tailer := optlog.NewTailer(path, app.Logger)

	if c.Plain {
		return c.runPlain(app, tailer, interval)
	}
	return c.runDashboard(app, tailer, interval)
}

// runDashboard drives the Bubble Tea dashboard from monitor snapshots. The
// final summary is printed after the dashboard closes, once the session
// goroutine has stopped touching the tailer.
func (c *WatchCmd) runDashboard(app *App, tailer *optlog.Tailer, interval time.Duration) error {
	model := tui.NewWatchModel(app.Config.Parameters, log.New(io.Discard))
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := monitor.NewSession(tailer, interval, func(s monitor.Snapshot) {
		p.Send(tui.SnapshotMsg{Snapshot: s})
		c.maybeRenderCharts(app, s)
	}, monitor.WithLogger(app.Logger))

	var g errgroup.Group
	g.Go(func() error { return session.Run(ctx) })

	_, runErr := p.Run()
	cancel()
	if err := g.Wait(); err != nil {
		app.Logger.Warn().Err(err).Msg("monitor session ended with error")
	}
	if runErr != nil {
		return runErr
	}

	printSummary(os.Stdout, tailer.Records())
	return nil
}

// runPlain is the headless fallback: no screen handling, one styled log line
// per improvement, stopped by ctrl+c.
func (c *WatchCmd) runPlain(app *App, tailer *optlog.Tailer, interval time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	plain := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	seen := 0

	session := monitor.NewSession(tailer, interval, func(s monitor.Snapshot) {
		c.maybeRenderCharts(app, s)
		if !s.New {
			return
		}
		for _, rec := range s.Records[seen:] {
			plain.Info("improvement accepted",
				"gen", rec.Generation,
				"fitness", fmtOptScalar(rec.Fitness),
				"mean", fmtOptScalar(rec.Mean),
				"params", len(rec.Params))
		}
		seen = len(s.Records)
	}, monitor.WithLogger(app.Logger))

	if err := session.Run(ctx); err != nil {
		return err
	}
	printSummary(os.Stdout, tailer.Records())
	return nil
}

func (c *WatchCmd) maybeRenderCharts(app *App, s monitor.Snapshot) {
	if !c.Charts || !s.New {
		return
	}
	written, err := charts.WriteAll(s.Records, app.Config.Parameters, app.Config.ChartDir)
	if err != nil {
		app.Logger.Warn().Err(err).Msg("chart render failed")
		return
	}
	app.Logger.Debug().Int("charts", len(written)).Msg("charts updated")
}

func fmtOptScalar(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *v)
}
