package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/beamforge/internal/levels"
	"github.com/vovakirdan/beamforge/internal/sched"
	"github.com/vovakirdan/beamforge/internal/storage"
)

// runnerSlot remembers the scheduler of the open viewer so it can be stopped
// when the session ends from outside the program (an SSH disconnect).
type runnerSlot struct {
	mu sync.Mutex
	r  *sched.Scheduler
}

func (s *runnerSlot) set(r *sched.Scheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r = r
}

func (s *runnerSlot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.r != nil {
		s.r.Close()
		s.r = nil
	}
}

// SessionModel manages the full session flow: picker -> viewer -> picker,
// with the scoreboard reachable from the picker.
// This is the top-level model used for local play and SSH sessions.
type SessionModel struct {
	tree       *levels.Tree
	store      *storage.Store
	player     string
	opts       ViewerOptions
	picker     PickerModel
	viewer     *ViewerModel
	scoreboard *ScoreboardModel
	active     *runnerSlot
	quitting   bool
}

// NewSessionModel creates a new session model. opts is the template for every
// viewer the session opens; its Store and Player fields are overridden.
func NewSessionModel(tree *levels.Tree, store *storage.Store, player string, opts ViewerOptions) SessionModel {
	opts.Store = store
	opts.Player = player
	return SessionModel{
		tree:   tree,
		store:  store,
		player: player,
		opts:   opts,
		picker: NewPickerModel(tree, store, player, opts.Width, opts.Height),
		active: &runnerSlot{},
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	switch {
	case m.viewer != nil:
		return m.updateViewer(msg)
	case m.scoreboard != nil:
		return m.updateScoreboard(msg)
	}
	return m.updatePicker(msg)
}

// updatePicker handles updates when the level picker is shown.
func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPicker, cmd := m.picker.Update(msg)
	if pm, ok := newPicker.(PickerModel); ok {
		m.picker = pm
	}

	if m.picker.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.picker.WantsScoreboard() {
		ids := make([]string, 0, len(m.picker.Items()))
		for _, it := range m.picker.Items() {
			ids = append(ids, it.ID)
		}
		sb := NewScoreboardModel(m.store, ids, m.opts.Width, m.opts.Height)
		m.scoreboard = &sb
		return m, sb.Init()
	}

	if selected := m.picker.Selected(); selected != nil {
		def, ok := m.tree.Get(selected.ID)
		if !ok {
			m.picker = m.newPicker()
			m.picker.message = "level " + selected.ID + " is no longer available"
			return m, nil
		}
		viewer, err := NewViewerModel(def, m.opts)
		if err != nil {
			m.picker = m.newPicker()
			m.picker.message = err.Error()
			return m, nil
		}
		m.viewer = &viewer
		m.active.set(viewer.Scheduler())
		return m, m.viewer.Init()
	}

	return m, cmd
}

// updateViewer handles updates when a level is open.
func (m SessionModel) updateViewer(msg tea.Msg) (tea.Model, tea.Cmd) {
	newViewer, cmd := m.viewer.Update(msg)
	if vm, ok := newViewer.(ViewerModel); ok {
		m.viewer = &vm
	}

	if m.viewer.IsQuitting() {
		m.active.Close()
		m.quitting = true
		return m, tea.Quit
	}

	if m.viewer.BackToMenu() {
		m.active.Close()
		m.viewer = nil
		// Rebuild so newly solved levels unlock
		m.picker = m.newPicker()
		return m, m.picker.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates when the scoreboard is shown.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.scoreboard.Update(msg)
	if sb, ok := newBoard.(ScoreboardModel); ok {
		m.scoreboard = &sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scoreboard.IsGoingBack() {
		m.scoreboard = nil
		m.picker = m.newPicker()
		return m, m.picker.Init()
	}

	return m, cmd
}

func (m SessionModel) newPicker() PickerModel {
	return NewPickerModel(m.tree, m.store, m.player, m.opts.Width, m.opts.Height)
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.viewer != nil:
		return m.viewer.View()
	case m.scoreboard != nil:
		return m.scoreboard.View()
	}
	return m.picker.View()
}

// Close stops the simulation of the open level, if any. Safe to call more
// than once.
func (m SessionModel) Close() {
	m.active.Close()
}

// InViewer reports whether a level is currently open.
func (m SessionModel) InViewer() bool {
	return m.viewer != nil
}

// InScoreboard reports whether the scoreboard is currently shown.
func (m SessionModel) InScoreboard() bool {
	return m.scoreboard != nil
}

// RunSession runs the interactive picker/viewer flow in the local terminal.
func RunSession(tree *levels.Tree, store *storage.Store, player string, opts ViewerOptions) error {
	model := NewSessionModel(tree, store, player, opts)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
