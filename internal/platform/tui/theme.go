package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Palette shared by the picker, viewer and leaderboard screens.
var (
	colorAccent   = lipgloss.Color("229")
	colorMuted    = lipgloss.Color("241")
	colorFrame    = lipgloss.Color("240")
	colorSelected = lipgloss.Color("57")
	colorAlert    = lipgloss.Color("9")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	helpStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	alertStyle = lipgloss.NewStyle().Foreground(colorAlert)
	emptyStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true).Padding(2, 4)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorFrame).Padding(0, 1)
)

// newTable builds a focused table with the shared header and selection styles.
// The height leaves room for the title, help line and borders.
func newTable(columns []table.Column, screenHeight int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(screenHeight-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorFrame).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorAccent).
		Background(colorSelected).
		Bold(false)
	t.SetStyles(s)
	return t
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// truncate shortens s to n bytes, marking the cut with a dot.
func truncate(s string, n int) string {
	if n <= 1 || len(s) <= n {
		return s
	}
	return s[:n-1] + "."
}
