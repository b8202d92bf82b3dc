package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/rhaversen/diecup-analytics/internal/results"
	"github.com/rhaversen/diecup-analytics/internal/stats"
)

type browseMode int

const (
	modeOverview browseMode = iota
	modeDetail
)

type actionKind int

const (
	actionNone actionKind = iota
	actionSwitchToStrategy
	actionBackToOverview
	actionQuit
)

// browseAction is an explicit tag for what a key event should do, keyed off
// the current mode and selection rather than any global state.
type browseAction struct {
	kind     actionKind
	strategy string
}

// BrowserModel is the interactive strategy-results browser. The overview
// lists per-strategy summaries; selecting a row switches to a detail view
// with a turn-count histogram.
type BrowserModel struct {
	logger *log.Logger

	data      map[string][]int
	names     []string
	summaries map[string]stats.Summary

	mode   browseMode
	cursor int
	detail string

	width    int
	height   int
	quitting bool
}

// NewBrowserModel builds the browser over loaded strategy results.
func NewBrowserModel(data map[string][]int, logger *log.Logger) *BrowserModel {
	names := results.Strategies(data)
	summaries := make(map[string]stats.Summary, len(names))
	for _, name := range names {
		summaries[name] = stats.Summarize(results.Floats(data[name]))
	}
	return &BrowserModel{
		logger:    logger,
		data:      data,
		names:     names,
		summaries: summaries,
	}
}

func (m *BrowserModel) Init() tea.Cmd { return nil }

// actionFor maps a key event to an explicit action for the current mode.
func (m *BrowserModel) actionFor(key string) browseAction {
	switch key {
	case "q", "ctrl+c":
		return browseAction{kind: actionQuit}
	case "enter":
		if m.mode == modeOverview && len(m.names) > 0 {
			return browseAction{kind: actionSwitchToStrategy, strategy: m.names[m.cursor]}
		}
	case "esc", "b":
		if m.mode == modeDetail {
			return browseAction{kind: actionBackToOverview}
		}
		return browseAction{kind: actionQuit}
	}
	return browseAction{kind: actionNone}
}

func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.mode == modeOverview && m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "j":
			if m.mode == modeOverview && m.cursor < len(m.names)-1 {
				m.cursor++
			}
			return m, nil
		}

		switch act := m.actionFor(msg.String()); act.kind {
		case actionSwitchToStrategy:
			m.logger.Debug("switching to strategy detail", "strategy", act.strategy)
			m.mode = modeDetail
			m.detail = act.strategy
		case actionBackToOverview:
			m.mode = modeOverview
			m.detail = ""
		case actionQuit:
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m *BrowserModel) View() string {
	if m.quitting {
		return ""
	}
	if m.mode == modeDetail {
		return m.detailView()
	}
	return m.overviewView()
}

func (m *BrowserModel) overviewView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("strategy results"))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-25s %8s %8s %8s %8s %8s %8s",
		"Strategy", "games", "avg", "med", "Q1", "Q3", "P95")))
	b.WriteString("\n")

	for i, name := range m.names {
		s := m.summaries[name]
		line := fmt.Sprintf("  %-25s %8d %8.2f %8.1f %8.1f %8.1f %8.1f",
			name, s.N, s.Mean, s.Median, s.Q1, s.Q3, s.P95)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select · enter detail · q quit"))
	return b.String()
}

func (m *BrowserModel) detailView() string {
	s := m.summaries[m.detail]
	turns := m.data[m.detail]

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.detail))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  games %s   avg %s   med %s   Q1 %s   Q3 %s   min %s   max %s\n\n",
		valueStyle.Render(fmt.Sprintf("%d", s.N)),
		valueStyle.Render(fmt.Sprintf("%.2f", s.Mean)),
		valueStyle.Render(fmt.Sprintf("%.1f", s.Median)),
		valueStyle.Render(fmt.Sprintf("%.1f", s.Q1)),
		valueStyle.Render(fmt.Sprintf("%.1f", s.Q3)),
		valueStyle.Render(fmt.Sprintf("%.0f", s.Min)),
		valueStyle.Render(fmt.Sprintf("%.0f", s.Max))))

	b.WriteString(m.histogramView(turns))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc back to overview · q quit"))
	return b.String()
}

// histogramView draws a horizontal bar per turn count, binned over the
// bounds shared by all strategies so detail views stay comparable.
func (m *BrowserModel) histogramView(turns []int) string {
	lo, hi, ok := stats.IntBounds(m.data)
	if !ok || len(turns) == 0 {
		return labelStyle.Render("  no data")
	}
	centers, counts := stats.IntHistogram(turns, lo, hi)

	maxCount := 0.0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return labelStyle.Render("  no data")
	}

	barWidth := m.width - 20
	if barWidth < 10 {
		barWidth = 40
	}

	var b strings.Builder
	for i, count := range counts {
		bar := int(count / maxCount * float64(barWidth))
		b.WriteString(fmt.Sprintf("  %4d %s %.0f\n",
			int(centers[i]-0.5), strings.Repeat("█", bar), count))
	}
	return b.String()
}
