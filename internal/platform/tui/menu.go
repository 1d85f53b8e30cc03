package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/beamforge/internal/levels"
	"github.com/vovakirdan/beamforge/internal/storage"
)

// Level status shown in the picker.
const (
	statusLocked = "locked"
	statusOpen   = "open"
	statusSolved = "solved"
)

// PickerItem is one row of the level picker.
type PickerItem struct {
	ID          string
	Name        string
	Status      string
	BestCost    int
	BestLatency int
	Solutions   int
}

// Playable reports whether the level may be opened.
func (it PickerItem) Playable() bool {
	return it.Status != statusLocked
}

// PickerModel is the Bubble Tea model for the level picker. Levels are listed
// breadth-first from the roots of the dependency tree; a level unlocks once
// all of its parents are solved by the current player.
type PickerModel struct {
	tree           *levels.Tree
	store          *storage.Store
	player         string
	items          []PickerItem
	table          table.Model
	help           help.Model
	keys           PickerKeyMap
	width          int
	height         int
	message        string
	quitting       bool
	selected       *PickerItem
	openScoreboard bool
}

// NewPickerModel creates a new picker model.
func NewPickerModel(tree *levels.Tree, store *storage.Store, player string, width, height int) PickerModel {
	h := help.New()
	h.Width = width

	m := PickerModel{
		tree:   tree,
		store:  store,
		player: player,
		keys:   DefaultPickerKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.items = BuildPickerItems(tree, store, player)
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// BuildPickerItems computes picker rows. A nil store treats every level as
// unlocked, since progress cannot be tracked.
func BuildPickerItems(tree *levels.Tree, store *storage.Store, player string) []PickerItem {
	var (
		completed map[string]bool
		stats     map[string]*storage.LevelStats
	)
	if store != nil {
		completed, _ = store.Completed(player)
		stats, _ = store.GetAllLevelStats()
	}

	unlocked := make(map[string]bool)
	for _, id := range tree.Unlocked(completed) {
		unlocked[id] = true
	}

	var items []PickerItem
	for _, id := range tree.Walk() {
		def, ok := tree.Get(id)
		if !ok {
			continue
		}
		it := PickerItem{ID: id, Name: def.Name, Status: statusLocked}
		switch {
		case completed[id]:
			it.Status = statusSolved
		case store == nil || unlocked[id]:
			it.Status = statusOpen
		}
		if st, ok := stats[id]; ok {
			it.BestCost = st.BestCost
			it.BestLatency = st.BestLatency
			it.Solutions = st.Solutions
		}
		items = append(items, it)
	}
	return items
}

// createTable creates the level table sized to the window.
func (m *PickerModel) createTable() table.Model {
	return newTable([]table.Column{
		{Title: "Level", Width: 14},
		{Title: "Name", Width: 20},
		{Title: "Status", Width: 8},
		{Title: "Best", Width: 10},
		{Title: "Solved", Width: 7},
	}, m.height)
}

func (m *PickerModel) updateTableRows() {
	rows := make([]table.Row, len(m.items))
	for i, it := range m.items {
		best := "-"
		if it.Solutions > 0 {
			best = fmt.Sprintf("%d/%d", it.BestCost, it.BestLatency)
		}
		rows[i] = table.Row{it.ID, it.Name, it.Status, best, fmt.Sprintf("%d", it.Solutions)}
	}
	m.table.SetRows(rows)
}

// Init initializes the picker model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Scores):
			m.openScoreboard = true
			return m, nil

		case key.Matches(msg, m.keys.Select):
			i := m.table.Cursor()
			if i < 0 || i >= len(m.items) {
				return m, nil
			}
			it := m.items[i]
			if !it.Playable() {
				m.message = fmt.Sprintf("%s is locked: solve its prerequisites first", it.ID)
				return m, nil
			}
			m.selected = &it
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("B E A M F O R G E", m.width)))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(emptyStyle.Render("No levels loaded."))
	} else {
		b.WriteString(panelStyle.Render(m.table.View()))
	}
	b.WriteString("\n")

	if m.message != "" {
		b.WriteString(alertStyle.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// Items returns the picker rows.
func (m PickerModel) Items() []PickerItem {
	return m.items
}

// Selected returns the selected level, or nil if none selected.
func (m PickerModel) Selected() *PickerItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested the scoreboard.
func (m PickerModel) WantsScoreboard() bool {
	return m.openScoreboard
}
