package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBrowser() *BrowserModel {
	return NewBrowserModel(map[string][]int{
		"SelectHighest": {10, 11, 12, 12, 13},
		"SelectRarest":  {14, 15, 16, 17, 18},
	}, log.New(io.Discard))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowserOverviewListsStrategies(t *testing.T) {
	m := testBrowser()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	assert.Contains(t, view, "SelectHighest")
	assert.Contains(t, view, "SelectRarest")
	assert.Contains(t, view, "avg")
}

func TestBrowserActionMapping(t *testing.T) {
	m := testBrowser()

	act := m.actionFor("enter")
	assert.Equal(t, actionSwitchToStrategy, act.kind)
	assert.Equal(t, "SelectHighest", act.strategy)

	// esc in the overview quits; in the detail view it goes back.
	assert.Equal(t, actionQuit, m.actionFor("esc").kind)
	m.mode = modeDetail
	assert.Equal(t, actionBackToOverview, m.actionFor("esc").kind)
	assert.Equal(t, actionNone, m.actionFor("x").kind)
}

func TestBrowserSwitchesToDetailAndBack(t *testing.T) {
	m := testBrowser()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m.Update(key("down"))
	model, _ := m.Update(key("enter"))

	view := model.View()
	assert.Contains(t, view, "SelectRarest")
	assert.Contains(t, view, "games")
	assert.Contains(t, view, "back to overview")

	model, _ = model.Update(key("esc"))
	assert.Contains(t, model.View(), "SelectHighest")
}

func TestBrowserCursorBounds(t *testing.T) {
	m := testBrowser()
	m.Update(key("up"))
	assert.Equal(t, 0, m.cursor)

	m.Update(key("down"))
	m.Update(key("down"))
	m.Update(key("down"))
	assert.Equal(t, 1, m.cursor)
}

func TestBrowserQuits(t *testing.T) {
	m := testBrowser()
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Empty(t, m.View())
}
