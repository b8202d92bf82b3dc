package main

import (
	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/rhaversen/diecup-analytics/internal/config"
	"github.com/rhaversen/diecup-analytics/internal/fileutil"
	"github.com/rhaversen/diecup-analytics/internal/optlog"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging"`
	Config  string           `help:"Path to HCL config file" type:"path" default:"diecup-analytics.hcl"`

	Watch      WatchCmd      `cmd:"" help:"Live dashboard monitoring an optimizer log"`
	Summary    SummaryCmd    `cmd:"" help:"Print a summary of the improvements in a log"`
	Charts     ChartsCmd     `cmd:"" help:"Render the PNG chart set for a log"`
	Strategies StrategiesCmd `cmd:"" help:"Analyze strategy simulation results"`
}

// App carries the resolved configuration and logger into every command.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("diecup-analytics"),
		kong.Description("Monitor diecup optimizer logs and chart strategy simulation results"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	cfg, err := config.Load(cli.Config)
	ctx.FatalIfErrorf(err)

	app := &App{Config: cfg, Logger: setupLogger(cli.Debug)}
	err = ctx.Run(app)
	ctx.FatalIfErrorf(err)
}

// resolveLogFile picks the log to analyze: an explicit path wins, otherwise
// the most recently modified matching file in the configured log directory.
func resolveLogFile(app *App, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return fileutil.LatestMatch(app.Config.LogDir, app.Config.LogGlob)
}

// loadRecords parses a complete log in one shot.
func loadRecords(app *App, path string) ([]optlog.Record, optlog.Rolling, error) {
	tailer := optlog.NewTailer(path, app.Logger)
	if _, err := tailer.Poll(); err != nil {
		return nil, optlog.Rolling{}, err
	}
	tailer.Flush()
	return tailer.Records(), tailer.Rolling(), nil
}
