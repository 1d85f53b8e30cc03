package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/beamforge/internal/core"
)

// ViewerKeyMap defines the key bindings for the board viewer.
type ViewerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Toggle   key.Binding
	Step     key.Binding
	Faster   key.Binding
	Slower   key.Binding
	Reset    key.Binding
	NextTile key.Binding
	Place    key.Binding
	Rotate   key.Binding
	Erase    key.Binding
	Grade    key.Binding
	Save     key.Binding
	Help     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ViewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Step, k.Place, k.NextTile, k.Grade, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ViewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Step, k.Faster, k.Slower, k.Reset},
		{k.NextTile, k.Place, k.Rotate, k.Erase},
		{k.Grade, k.Save, k.Back, k.Quit},
	}
}

// DefaultViewerKeyMap returns default key bindings.
func DefaultViewerKeyMap() ViewerKeyMap {
	return ViewerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "cursor up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "cursor down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "cursor left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "cursor right"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "run/pause"),
		),
		Step: key.NewBinding(
			key.WithKeys("n", "."),
			key.WithHelp("n", "step"),
		),
		Faster: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "faster"),
		),
		Slower: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "slower"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		NextTile: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tile"),
		),
		Place: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "place"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "rotate"),
		),
		Erase: key.NewBinding(
			key.WithKeys("x", "backspace", "delete"),
			key.WithHelp("x", "erase"),
		),
		Grade: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grade"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save board"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "levels"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to viewer actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys     ViewerKeyMap
	bindings []actionBinding
}

type actionBinding struct {
	binding key.Binding
	action  core.Action
}

// NewKeyMapper creates a key mapper over the given bindings.
func NewKeyMapper(keys ViewerKeyMap) *KeyMapper {
	return &KeyMapper{
		keys: keys,
		bindings: []actionBinding{
			{keys.Quit, core.ActionQuit},
			{keys.Back, core.ActionBack},
			{keys.Up, core.ActionUp},
			{keys.Down, core.ActionDown},
			{keys.Left, core.ActionLeft},
			{keys.Right, core.ActionRight},
			{keys.Toggle, core.ActionToggle},
			{keys.Step, core.ActionStep},
			{keys.Faster, core.ActionFaster},
			{keys.Slower, core.ActionSlower},
			{keys.Reset, core.ActionReset},
			{keys.NextTile, core.ActionNextTile},
			{keys.Place, core.ActionPlace},
			{keys.Rotate, core.ActionRotate},
			{keys.Erase, core.ActionErase},
			{keys.Grade, core.ActionGrade},
			{keys.Save, core.ActionSave},
			{keys.Help, core.ActionHelp},
		},
	}
}

// Keys returns the bindings used by the mapper.
func (km *KeyMapper) Keys() ViewerKeyMap {
	return km.keys
}

// MapKey translates a key message to an action.
// Returns ActionNone for unbound keys.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	for _, b := range km.bindings {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return core.ActionNone
}

// PickerKeyMap defines the key bindings for the level picker.
type PickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Scores key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.Scores, k.Quit}}
}

// DefaultPickerKeyMap returns default key bindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab", "s"),
			key.WithHelp("tab", "scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
