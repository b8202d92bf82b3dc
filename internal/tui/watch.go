package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/rhaversen/diecup-analytics/internal/monitor"
	"github.com/rhaversen/diecup-analytics/internal/optlog"
)

// SnapshotMsg delivers a monitor snapshot to the dashboard. The watch
// command forwards these from the session callback via Program.Send.
type SnapshotMsg struct {
	Snapshot monitor.Snapshot
}

// WatchModel is the live dashboard for one optimizer log.
type WatchModel struct {
	logger *log.Logger

	paramNames []string
	snapshot   monitor.Snapshot
	hasData    bool

	improvements viewport.Model

	width       int
	height      int
	initialized bool
	quitting    bool
}

// NewWatchModel creates the dashboard. paramNames fixes the display order of
// the known tuner parameters; labels not in the list are appended sorted.
func NewWatchModel(paramNames []string, logger *log.Logger) *WatchModel {
	vp := viewport.New(10, 5)
	vp.SetContent("waiting for improvements…")
	return &WatchModel{
		logger:       logger,
		paramNames:   paramNames,
		improvements: vp,
	}
}

func (m *WatchModel) Init() tea.Cmd { return nil }

func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.initialized = true
		m.resizeViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.improvements, cmd = m.improvements.Update(msg)
		return m, cmd

	case SnapshotMsg:
		m.snapshot = msg.Snapshot
		m.hasData = true
		if msg.Snapshot.New {
			m.logger.Debug("new improvements", "count", len(msg.Snapshot.Records))
			m.improvements.SetContent(strings.Join(improvementLines(msg.Snapshot.Records), "\n"))
			m.improvements.GotoBottom()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.improvements, cmd = m.improvements.Update(msg)
	return m, cmd
}

func (m *WatchModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.initialized {
		return "starting…"
	}

	title := titleStyle.Render("diecup optimizer - " + filepath.Base(m.snapshot.Path))
	status := labelStyle.Render(fmt.Sprintf("improvements: %d · last poll: %s",
		len(m.snapshot.Records), m.snapshot.At.Format("15:04:05")))

	sections := []string{
		lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", status),
		m.metricsView(),
		m.sparklineView(),
		m.paramsView(),
		borderStyle.Width(m.contentWidth()).Render(m.improvements.View()),
		helpStyle.Render("q quit · ↑/↓ scroll improvements"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *WatchModel) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m *WatchModel) resizeViewport() {
	m.improvements.Width = m.contentWidth()
	h := m.height - 14 - min(len(m.paramRows()), 20)
	if h < 4 {
		h = 4
	}
	m.improvements.Height = h
}

func (m *WatchModel) metricsView() string {
	r := m.snapshot.Rolling
	pairs := []struct {
		label string
		value string
	}{
		{"Gen", fmt.Sprintf("%d", r.Generation)},
		{"Fit", fmtOpt(r.Fitness, 4)},
		{"mean", fmtOpt(r.Mean, 2)},
		{"var", fmtOpt(r.Variance, 2)},
		{"p95", fmtOpt(r.P95, 1)},
		{"max", fmtOpt(r.Max, 0)},
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = labelStyle.Render(p.label+" ") + valueStyle.Render(p.value)
	}
	return borderStyle.Render(strings.Join(parts, "   "))
}

func (m *WatchModel) sparklineView() string {
	var fitness []float64
	for _, rec := range m.snapshot.Records {
		if rec.Fitness != nil {
			fitness = append(fitness, *rec.Fitness)
		}
	}
	if len(fitness) == 0 {
		return labelStyle.Render("  fitness trend: no data yet")
	}

	best := fitness[0]
	for _, v := range fitness[1:] {
		if v < best {
			best = v
		}
	}
	line := sparkline(fitness, m.contentWidth()-24)
	return fmt.Sprintf("  %s %s  %s", labelStyle.Render("fitness"), line,
		bestStyle.Render(fmt.Sprintf("best %.4f", best)))
}

type paramRow struct {
	name                  string
	first, last, min, max float64
}

func (m *WatchModel) paramRows() []paramRow {
	ordered := orderedParams(m.paramNames, m.snapshot.Records)
	rows := make([]paramRow, 0, len(ordered))
	for _, name := range ordered {
		var row paramRow
		seen := false
		for _, rec := range m.snapshot.Records {
			v, ok := rec.Params[name]
			if !ok {
				continue
			}
			if !seen {
				row = paramRow{name: name, first: v, last: v, min: v, max: v}
				seen = true
				continue
			}
			row.last = v
			if v < row.min {
				row.min = v
			}
			if v > row.max {
				row.max = v
			}
		}
		if seen {
			rows = append(rows, row)
		}
	}
	return rows
}

func (m *WatchModel) paramsView() string {
	rows := m.paramRows()
	if len(rows) == 0 {
		return labelStyle.Render("  no parameters captured yet")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-25s %10s %10s %10s %10s", "Parameter", "last", "min", "max", "first")))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%-25s %10.4f %10.4f %10.4f %10.4f",
			row.name, row.last, row.min, row.max, row.first))
	}
	return borderStyle.Width(m.contentWidth()).Render(b.String())
}

// orderedParams returns the configured names that appear in the records, in
// configured order, followed by any other labels encountered, sorted.
func orderedParams(configured []string, records []optlog.Record) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for name := range rec.Params {
			seen[name] = true
		}
	}

	var ordered []string
	for _, name := range configured {
		if seen[name] {
			ordered = append(ordered, name)
			delete(seen, name)
		}
	}
	var extras []string
	for name := range seen {
		extras = append(extras, name)
	}
	sort.Strings(extras)
	return append(ordered, extras...)
}

// improvementLines formats records the way the final summary prints them.
func improvementLines(records []optlog.Record) []string {
	var lines []string
	for i, rec := range records {
		extra := ""
		if rec.P95 != nil {
			extra += fmt.Sprintf(", P95: %.1f", *rec.P95)
		}
		if rec.Max != nil {
			extra += fmt.Sprintf(", Max: %.0f", *rec.Max)
		}
		lines = append(lines, headerStyle.Render(fmt.Sprintf(
			"Improvement %d (Gen %d, Fitness: %s, Mean: %s, Var: %s%s)",
			i+1, rec.Generation, fmtOpt(rec.Fitness, 4), fmtOpt(rec.Mean, 2), fmtOpt(rec.Variance, 2), extra)))

		names := make([]string, 0, len(rec.Params))
		for name := range rec.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("  %-25s = %8.4f", name, rec.Params[name]))
		}
		lines = append(lines, "")
	}
	return lines
}

func fmtOpt(v *float64, prec int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, *v)
}
