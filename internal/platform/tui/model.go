package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/beamforge/internal/beam"
	"github.com/vovakirdan/beamforge/internal/core"
	"github.com/vovakirdan/beamforge/internal/levels"
	"github.com/vovakirdan/beamforge/internal/levels/formats"
	"github.com/vovakirdan/beamforge/internal/sched"
	"github.com/vovakirdan/beamforge/internal/storage"
)

// Palette lists the tiles a player can place, in cycling order.
var Palette = []beam.Tile{
	beam.Mirror(false),
	beam.Mirror(true),
	beam.Splitter(false),
	beam.Splitter(true),
	beam.Delay(),
	beam.Wall(),
	beam.Galvo(),
	beam.Emitter(beam.DirRight),
}

// ViewerOptions configures a ViewerModel.
type ViewerOptions struct {
	Board    *beam.Board    // initial player board; nil starts from the permanent tiles
	Store    *storage.Store // nil disables recording graded solutions
	Player   string
	Period   time.Duration // initial tick period
	MaxTicks int           // per-case budget override, 0 uses the level's
	SaveDir  string        // where ctrl+s writes board files; empty uses ~/.beamforge/boards
	Width    int
	Height   int
	Logger   *log.Logger
}

// ViewerModel is the Bubble Tea model for editing and watching one level.
// The simulation runs on a sched.Scheduler; the model only edits the shared
// state under its lock and redraws on a fixed frame rate.
type ViewerModel struct {
	def      levels.Definition
	board    *beam.Board // the player's design, including permanent tiles
	runner   *sched.Scheduler
	store    *storage.Store
	player   string
	maxTicks int
	saveDir  string
	logger   *log.Logger

	screen  *core.Screen
	keys    *KeyMapper
	help    help.Model
	cursor  beam.Pos
	palette int

	status      string
	statusColor core.Color
	lastGrade   *sched.Report

	quitting   bool
	backToMenu bool
}

// NewViewerModel creates a viewer for def and starts its scheduler paused.
func NewViewerModel(def levels.Definition, opts ViewerOptions) (ViewerModel, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	board := def.Board()
	if opts.Board != nil {
		board = def.WithPermanent(opts.Board)
	}
	if err := def.CheckBoard(board); err != nil {
		return ViewerModel{}, fmt.Errorf("level %s: %w", def.ID, err)
	}

	st, err := beam.NewState(board, def.NewLevelState(opts.MaxTicks))
	if err != nil {
		return ViewerModel{}, fmt.Errorf("level %s: %w", def.ID, err)
	}

	period := opts.Period
	if period <= 0 {
		period = core.DefaultTickPeriod
	}
	cfg := core.RuntimeConfig{TickPeriod: core.ClampPeriod(period)}

	h := help.New()
	h.ShowAll = false
	h.Width = opts.Width

	return ViewerModel{
		def:      def,
		board:    board,
		runner:   sched.New(st, cfg, logger.With("level", def.ID)),
		store:    opts.Store,
		player:   opts.Player,
		maxTicks: opts.MaxTicks,
		saveDir:  opts.SaveDir,
		logger:   logger,
		screen:   core.NewScreen(opts.Width, max(opts.Height-2, 0)),
		keys:     NewKeyMapper(DefaultViewerKeyMap()),
		help:     h,
		status:   "paused, press space to run",
	}, nil
}

// Init starts the redraw loop.
func (m ViewerModel) Init() tea.Cmd {
	return frameCmd(DefaultFrameRate)
}

// Update handles messages and updates the model state.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleAction(m.keys.MapKey(msg))

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-2, 0))
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		if m.quitting || m.backToMenu {
			return m, nil
		}
		return m, frameCmd(DefaultFrameRate)
	}

	return m, nil
}

// handleAction applies one viewer action.
func (m ViewerModel) handleAction(a core.Action) (tea.Model, tea.Cmd) {
	if dx, dy, ok := a.Move(); ok {
		area := m.def.Area()
		m.cursor = beam.P(
			core.Clamp(m.cursor.X+dx, area.Min.X, area.Max.X),
			core.Clamp(m.cursor.Y+dy, area.Min.Y, area.Max.Y),
		)
		return m, nil
	}

	switch a {
	case core.ActionQuit:
		m.runner.Close()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		m.runner.Close()
		m.backToMenu = true
		return m, nil

	case core.ActionToggle:
		running := !m.runner.Running()
		m.runner.SetRunning(running)
		if running {
			m.setStatus("running", core.ColorText)
		} else {
			m.setStatus("paused", core.ColorText)
		}

	case core.ActionStep:
		if m.runner.Running() {
			m.setStatus("pause before stepping", core.ColorFail)
			break
		}
		m.runner.With(func(sh *sched.Shared) {
			if sh.State != nil {
				sh.State.Tick()
			}
		})

	case core.ActionFaster, core.ActionSlower:
		var period time.Duration
		m.runner.With(func(sh *sched.Shared) {
			if a == core.ActionFaster {
				sh.Config = sh.Config.Faster()
			} else {
				sh.Config = sh.Config.Slower()
			}
			period = sh.Config.TickPeriod
		})
		m.setStatus("tick period "+period.String(), core.ColorText)

	case core.ActionReset:
		m.reset()

	case core.ActionNextTile:
		m.palette = (m.palette + 1) % len(Palette)

	case core.ActionPlace:
		m.edit(Palette[m.palette], false)

	case core.ActionRotate:
		t := m.board.Tile(m.cursor)
		if t.IsEmpty() {
			break
		}
		m.edit(t.Rotate(), false)

	case core.ActionErase:
		m.edit(beam.Empty(), true)

	case core.ActionGrade:
		m.grade()

	case core.ActionSave:
		m.save()

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *ViewerModel) setStatus(s string, c core.Color) {
	m.status = s
	m.statusColor = c
}

// edit applies a placement or removal at the cursor to both the design and
// the running simulation.
func (m *ViewerModel) edit(t beam.Tile, erase bool) {
	p := m.cursor
	if _, ok := m.def.Permanent[p]; ok {
		m.setStatus("that tile is part of the level", core.ColorFail)
		return
	}

	trial := m.board.Clone()
	if erase {
		trial.Remove(p)
	} else {
		trial.Set(p, t)
	}
	if err := m.def.CheckBoard(trial); err != nil {
		m.setStatus(err.Error(), core.ColorFail)
		return
	}
	m.board = trial

	m.runner.With(func(sh *sched.Shared) {
		if sh.State == nil {
			return
		}
		if erase {
			sh.State.Clear(p)
		} else {
			sh.State.Set(p, t)
		}
	})
	m.setStatus(fmt.Sprintf("cost %d", m.def.Cost(m.board)), core.ColorText)
}

// reset rebuilds the simulation from the current design and pauses it.
func (m *ViewerModel) reset() {
	st, err := beam.NewState(m.board, m.def.NewLevelState(m.maxTicks))
	if err != nil {
		m.setStatus(err.Error(), core.ColorFail)
		return
	}
	m.runner.SetRunning(false)
	m.runner.Load(st)
	m.setStatus("reset", core.ColorText)
}

// grade runs the design offline and records a successful result.
func (m *ViewerModel) grade() {
	rep, err := sched.Grade(m.def, m.board, m.maxTicks)
	if err != nil {
		m.setStatus(err.Error(), core.ColorFail)
		return
	}
	m.lastGrade = &rep

	if !rep.Result.Success() {
		m.setStatus(rep.Result.String(), core.ColorFail)
		return
	}

	msg := fmt.Sprintf("%s | cost %d", rep.Result.String(), rep.Cost)
	if m.store != nil {
		data, err := formats.EncodeBoard(m.def.ID, m.board)
		if err == nil {
			_, err = m.store.SaveSolution(storage.Solution{
				SubmissionID: uuid.NewString(),
				LevelID:      m.def.ID,
				Player:       m.player,
				Cost:         rep.Cost,
				Latency:      rep.Result.Latency,
				Ticks:        rep.Result.Ticks,
				BoardHash:    rep.BoardHash,
				Board:        data,
			})
		}
		if err != nil {
			m.logger.Warn("could not record solution", "level", m.def.ID, "error", err)
			msg += " | not saved"
		} else {
			msg += " | saved"
		}
	}
	m.setStatus(msg, core.ColorOK)
}

// save writes the design as a board file.
func (m *ViewerModel) save() {
	dir := m.saveDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.setStatus("no home directory for boards", core.ColorFail)
			return
		}
		dir = filepath.Join(home, ".beamforge", "boards")
	}
	data, err := formats.EncodeBoard(m.def.ID, m.board)
	if err == nil {
		err = os.MkdirAll(dir, 0o755)
	}
	path := filepath.Join(dir, m.def.ID+".yaml")
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		m.setStatus("save failed: "+err.Error(), core.ColorFail)
		return
	}
	m.setStatus("saved "+path, core.ColorOK)
}

// View renders the current state to a string for display.
func (m ViewerModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	s := m.screen
	s.Clear()

	title := m.def.Name
	if title == "" {
		title = m.def.ID
	}
	s.DrawText(0, 0, title, core.ColorText)

	var (
		header string
		result *beam.Result
	)
	m.runner.With(func(sh *sched.Shared) {
		st := sh.State
		if st == nil {
			return
		}
		drawBoard(s, 0, 2, st.Board(), boardView{
			Area:       m.def.Area(),
			Permanent:  m.def.Permanent,
			Cursor:     m.cursor,
			ShowCursor: true,
		})

		state := "paused"
		if sh.Config.Running {
			state = "running"
		}
		header = fmt.Sprintf("tick %d | %s @ %v", st.Ticks(), state, sh.Config.TickPeriod)
		if lvl := st.Level(); lvl != nil {
			if r, done := lvl.Complete(); done {
				result = &r
			} else {
				header += fmt.Sprintf(" | case %d/%d (%d/%d)",
					lvl.CaseIndex()+1, len(lvl.Spec().Cases), lvl.CaseTicks(), lvl.MaxTicks())
			}
		}
	})
	s.DrawText(0, 1, header, core.ColorFrame)

	row := m.def.Height + 5
	tile := Palette[m.palette]
	s.DrawText(0, row, fmt.Sprintf("tile: %c %s", beam.Glyph(beam.Cell{Tile: tile}), tile.Kind), core.ColorText)
	s.DrawText(0, row+1, fmt.Sprintf("cost: %d", m.def.Cost(m.board)), core.ColorText)
	if result != nil {
		c := core.ColorFail
		if result.Success() {
			c = core.ColorOK
		}
		s.DrawText(0, row+2, "result: "+result.String(), c)
	}
	s.DrawText(0, row+4, m.status, m.statusColor)

	if hint := m.def.Metadata["hint"]; hint != "" {
		s.DrawText(0, row+5, "hint: "+hint, core.ColorFrame)
	}

	var b strings.Builder
	b.WriteString(RenderScreen(s))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys.Keys())))
	return b.String()
}

// Board returns a copy of the current design.
func (m ViewerModel) Board() *beam.Board {
	return m.board.Clone()
}

// Cursor returns the cursor position.
func (m ViewerModel) Cursor() beam.Pos {
	return m.cursor
}

// Status returns the last status line.
func (m ViewerModel) Status() string {
	return m.status
}

// LastGrade returns the most recent offline grading report, if any.
func (m ViewerModel) LastGrade() *sched.Report {
	return m.lastGrade
}

// Scheduler returns the scheduler driving the live simulation.
func (m ViewerModel) Scheduler() *sched.Scheduler {
	return m.runner
}

// IsQuitting returns true if user requested to quit entirely.
func (m ViewerModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the level picker.
func (m ViewerModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a Bubble Tea program showing a single level.
func Run(def levels.Definition, opts ViewerOptions) error {
	model, err := NewViewerModel(def, opts)
	if err != nil {
		return err
	}
	defer model.runner.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
