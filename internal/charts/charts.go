// Package charts builds the PNG charts for optimizer improvements and
// strategy turn distributions.
package charts

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rhaversen/diecup-analytics/internal/fileutil"
	"github.com/rhaversen/diecup-analytics/internal/optlog"
	"github.com/rhaversen/diecup-analytics/internal/results"
	"github.com/rhaversen/diecup-analytics/internal/stats"
)

// Metric selects one scalar series out of the improvement records.
type Metric struct {
	Key   string
	Title string
	value func(optlog.Record) *float64
}

// Metrics lists the scalar metrics in display order. Lower is better for all
// of them by convention.
var Metrics = []Metric{
	{"fitness", "Fitness (lower is better)", func(r optlog.Record) *float64 { return r.Fitness }},
	{"mean", "Mean Turns (lower is better)", func(r optlog.Record) *float64 { return r.Mean }},
	{"variance", "Variance (lower is better)", func(r optlog.Record) *float64 { return r.Variance }},
	{"p95", "P95 Turns (tail risk)", func(r optlog.Record) *float64 { return r.P95 }},
	{"max", "Max Turns (worst case)", func(r optlog.Record) *float64 { return r.Max }},
}

// MetricSeries extracts generation/value pairs for one metric, skipping
// records where it is absent.
func MetricSeries(records []optlog.Record, m Metric) (gens, vals []float64) {
	for _, rec := range records {
		if v := m.value(rec); v != nil {
			gens = append(gens, float64(rec.Generation))
			vals = append(vals, *v)
		}
	}
	return gens, vals
}

// ParamSeries extracts generation/value pairs for one parameter.
func ParamSeries(records []optlog.Record, name string) (gens, vals []float64) {
	for _, rec := range records {
		if v, ok := rec.Params[name]; ok {
			gens = append(gens, float64(rec.Generation))
			vals = append(vals, v)
		}
	}
	return gens, vals
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2.5,
		DotColor:    col,
		DotWidth:    3,
	}
}

// widen pads a single-point series so the axis range cannot collapse, which
// the renderer rejects.
func widen(xs, ys []float64) ([]float64, []float64) {
	if len(xs) != 1 {
		return xs, ys
	}
	return []float64{xs[0], xs[0] + 1}, []float64{ys[0], ys[0]}
}

func zeroLine(minX, maxX float64) chart.Series {
	if maxX <= minX {
		maxX = minX + 1
	}
	return chart.ContinuousSeries{
		XValues: []float64{minX, maxX},
		YValues: []float64{0, 0},
		Style: chart.Style{
			StrokeColor:     chart.ColorAlternateGray,
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5, 5},
		},
	}
}

func baseChart(title string) chart.Chart {
	return chart.Chart{
		Title:      title,
		Width:      1000,
		Height:     400,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Generation"},
	}
}

// MetricChart builds a generation-vs-metric chart. ok is false when no
// record carries the metric.
func MetricChart(records []optlog.Record, m Metric) (chart.Chart, bool) {
	gens, vals := MetricSeries(records, m)
	if len(vals) == 0 {
		return chart.Chart{}, false
	}

	best := vals[0]
	for _, v := range vals[1:] {
		if v < best {
			best = v
		}
	}

	xs, ys := widen(gens, vals)
	ch := baseChart(fmt.Sprintf("%s - n=%d, best=%.4f", m.Title, len(vals), best))
	ch.YAxis = chart.YAxis{Name: m.Key}
	ch.Series = []chart.Series{chart.ContinuousSeries{
		Name:    m.Key,
		XValues: xs,
		YValues: ys,
		Style:   lineStyle(chart.ColorBlue),
	}}
	return ch, true
}

// ParamChart builds a generation-vs-value chart for one parameter, with a
// zero reference line.
func ParamChart(records []optlog.Record, name string) (chart.Chart, bool) {
	gens, vals := ParamSeries(records, name)
	if len(vals) == 0 {
		return chart.Chart{}, false
	}

	xs, ys := widen(gens, vals)
	ch := baseChart(fmt.Sprintf("%s = %.3f", name, vals[len(vals)-1]))
	ch.YAxis = chart.YAxis{Name: "Value"}
	ch.Series = []chart.Series{
		zeroLine(xs[0], xs[len(xs)-1]),
		chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(chart.ColorGreen),
		},
	}
	return ch, true
}

// CombinedParamsChart overlays every named parameter on one chart with a
// legend, mirroring the combined view of the live monitor.
func CombinedParamsChart(records []optlog.Record, names []string) (chart.Chart, bool) {
	var series []chart.Series
	var minX, maxX float64
	for i, name := range names {
		gens, vals := ParamSeries(records, name)
		if len(vals) == 0 {
			continue
		}
		xs, ys := widen(gens, vals)
		if len(series) == 0 || xs[0] < minX {
			minX = xs[0]
		}
		if xs[len(xs)-1] > maxX {
			maxX = xs[len(xs)-1]
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2,
			},
		})
	}
	if len(series) == 0 {
		return chart.Chart{}, false
	}

	lastGen := records[len(records)-1].Generation
	ch := baseChart(fmt.Sprintf("All Parameters Combined - Gen %d, n=%d", lastGen, len(records)))
	ch.Height = 700
	ch.YAxis = chart.YAxis{Name: "Parameter Value"}
	ch.Series = append([]chart.Series{zeroLine(minX, maxX)}, series...)
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, true
}

// DistributionChart plots the smoothed turn-count histogram of every
// strategy over shared integer bins, with summary figures in the legend.
func DistributionChart(data map[string][]int, window int) (chart.Chart, bool) {
	lo, hi, ok := stats.IntBounds(data)
	if !ok {
		return chart.Chart{}, false
	}

	var series []chart.Series
	for i, name := range results.Strategies(data) {
		turns := data[name]
		if len(turns) == 0 {
			continue
		}
		centers, counts := stats.IntHistogram(turns, lo, hi)
		ys := stats.MovingAverage(counts, window)
		xs := centers
		if len(ys) == 0 {
			// Sample narrower than the smoothing window: plot it raw.
			ys = counts
		} else {
			xs = centers[:len(ys)]
		}
		xs, ys = widen(xs, ys)

		s := stats.Summarize(results.Floats(turns))
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s (avg %.2f, med %.1f, Q1 %.1f, Q3 %.1f)", name, s.Mean, s.Median, s.Q1, s.Q3),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2.5,
			},
		})
	}
	if len(series) == 0 {
		return chart.Chart{}, false
	}

	ch := chart.Chart{
		Title:      "Distribution of Turns for Different Strategies",
		Width:      1100,
		Height:     600,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Turns"},
		YAxis:      chart.YAxis{Name: "Frequency"},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch, true
}

// WritePNG renders a chart and writes it atomically.
func WritePNG(ch chart.Chart, path string) error {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteAll renders the full chart set for the given records into dir:
// one chart per scalar metric, one per parameter, and the combined
// parameter view. It returns the paths written.
func WriteAll(records []optlog.Record, params []string, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}

	var written []string
	write := func(ch chart.Chart, name string) error {
		path := filepath.Join(dir, name)
		if err := WritePNG(ch, path); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	for _, m := range Metrics {
		if ch, ok := MetricChart(records, m); ok {
			if err := write(ch, m.Key+".png"); err != nil {
				return written, err
			}
		}
	}
	if ch, ok := CombinedParamsChart(records, params); ok {
		if err := write(ch, "params.png"); err != nil {
			return written, err
		}
	}
	for _, name := range params {
		if ch, ok := ParamChart(records, name); ok {
			if err := write(ch, "param_"+name+".png"); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}
