package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/beamforge/internal/storage"
)

const (
	levelListMinWidth = 80 // narrower terminals show a level switcher line instead
	levelListWidth    = 22
	leaderboardRows   = 100
)

// ScoreboardKeyMap defines the key bindings for the leaderboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp implements help.KeyMap.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevLevel, k.NextLevel, k.Up, k.Down, k.Back}
}

// FullHelp implements help.KeyMap.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextLevel: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next level")),
		PrevLevel: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev level")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows the best verified solutions of one level at a time,
// ranked by cost and then latency.
type ScoreboardModel struct {
	store    *storage.Store
	levelIDs []string
	current  int

	solutions []storage.Solution
	stats     *storage.LevelStats

	table table.Model
	help  help.Model
	keys  ScoreboardKeyMap

	width, height int
	quitting      bool
	goingBack     bool
}

// NewScoreboardModel creates a leaderboard over levelIDs, starting at the
// first one. A nil store shows empty boards.
func NewScoreboardModel(store *storage.Store, levelIDs []string, width, height int) ScoreboardModel {
	h := help.New()
	h.Width = width

	m := ScoreboardModel{
		store:    store,
		levelIDs: levelIDs,
		keys:     DefaultScoreboardKeyMap(),
		help:     h,
		width:    width,
		height:   height,
	}
	m.table = newTable(leaderboardColumns(), height)
	m.reload()
	return m
}

func leaderboardColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Player", Width: 14},
		{Title: "Cost", Width: 6},
		{Title: "Latency", Width: 8},
		{Title: "Solved", Width: 13},
	}
}

// reload fetches the current level's rows and statistics.
func (m *ScoreboardModel) reload() {
	m.solutions, m.stats = nil, nil
	id := m.CurrentLevel()
	if m.store != nil && id != "" {
		if sols, err := m.store.TopSolutions(id, leaderboardRows); err == nil {
			m.solutions = sols
		}
		if st, err := m.store.GetLevelStats(id); err == nil {
			m.stats = st
		}
	}

	rows := make([]table.Row, 0, len(m.solutions))
	for i, s := range m.solutions {
		rows = append(rows, table.Row{
			fmt.Sprint(i + 1),
			s.Player,
			fmt.Sprint(s.Cost),
			fmt.Sprint(s.Latency),
			s.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// step moves the level selection by delta, wrapping at both ends.
func (m *ScoreboardModel) step(delta int) {
	n := len(m.levelIDs)
	if n == 0 {
		return
	}
	m.current = ((m.current+delta)%n + n) % n
	m.reload()
}

// Init implements tea.Model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.NextLevel):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevLevel):
			m.step(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = newTable(leaderboardColumns(), m.height)
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "LEADERBOARD"
	if id := m.CurrentLevel(); id != "" {
		title += " · " + id
	}

	board := emptyStyle.Render("No verified solutions yet.\nSolve the level to claim the top spot!")
	if len(m.solutions) > 0 {
		board = m.table.View()
	}
	board = lipgloss.JoinVertical(lipgloss.Left, helpStyle.Render(m.summary()), board)
	board = panelStyle.Render(board)

	var body string
	if m.width >= levelListMinWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.levelList(), " ", board)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			centerText("‹ "+m.CurrentLevel()+" ›", m.width), "", board)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.MarginBottom(1).Render(centerText(title, m.width)),
		body,
		helpStyle.Render(m.help.View(m.keys)),
	)
}

// summary is the one-line statistics header above the table.
func (m ScoreboardModel) summary() string {
	if m.stats == nil || m.stats.Solutions == 0 {
		return "unsolved"
	}
	return fmt.Sprintf("%d solutions by %d players · best %d/%d",
		m.stats.Solutions, m.stats.Players, m.stats.BestCost, m.stats.BestLatency)
}

// levelList renders the level switcher column.
func (m ScoreboardModel) levelList() string {
	var b strings.Builder
	b.WriteString("Levels\n\n")
	for i, id := range m.levelIDs {
		line := "  " + truncate(id, levelListWidth-6)
		if i == m.current {
			line = titleStyle.Render("▸ " + truncate(id, levelListWidth-6))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return panelStyle.Width(levelListWidth).Render(strings.TrimSuffix(b.String(), "\n"))
}

// CurrentLevel returns the level whose solutions are shown.
func (m ScoreboardModel) CurrentLevel() string {
	if len(m.levelIDs) == 0 {
		return ""
	}
	return m.levelIDs[m.current]
}

// Solutions returns the loaded leaderboard rows.
func (m ScoreboardModel) Solutions() []storage.Solution {
	return m.solutions
}

// IsGoingBack reports whether the user asked to return to the picker.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting reports whether the user asked to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the leaderboard as a standalone program.
func RunScoreboard(store *storage.Store, levelIDs []string, width, height int) error {
	_, err := tea.NewProgram(NewScoreboardModel(store, levelIDs, width, height), tea.WithAltScreen()).Run()
	return err
}
