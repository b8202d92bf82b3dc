// Package tui contains the Bubble Tea models: the live optimizer dashboard
// and the strategy results browser.
package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	bestStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// sparkLevels are the block glyphs used for inline trend lines.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// asciiSparkLevels replace the block glyphs on dumb terminals.
var asciiSparkLevels = []rune("_.-=+*#%")

// sparkline renders values as a fixed-width trend line, newest values last.
func sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	levels := sparkLevels
	if termenv.EnvColorProfile() == termenv.Ascii {
		levels = asciiSparkLevels
	}

	out := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if max > min {
			idx = int((v - min) / (max - min) * float64(len(levels)-1))
		}
		out[i] = levels[idx]
	}
	return string(out)
}
