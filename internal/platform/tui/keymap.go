package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tryangles/internal/core"
)

// GameKeyMap defines the in-game key bindings.
type GameKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	Back    key.Binding
	Undo    key.Binding
	Hint    key.Binding
	NewGame key.Binding
	Yes     key.Binding
	Pause   key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Back, k.Undo, k.Hint, k.NewGame, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Back, k.Undo, k.Hint},
		{k.NewGame, k.Yes, k.Pause, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("down/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("left/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("right/l", "right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "pick point"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "cancel/menu"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "backspace"),
			key.WithHelp("u", "undo"),
		),
		Hint: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "hint"),
		),
		NewGame: key.NewBinding(
			key.WithKeys("n", "r"),
			key.WithHelp("n", "new game"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys     GameKeyMap
	bindings []actionBinding
}

type actionBinding struct {
	binding key.Binding
	action  core.Action
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	k := DefaultGameKeyMap()
	return &KeyMapper{
		keys: k,
		bindings: []actionBinding{
			{k.Up, core.ActionUp},
			{k.Down, core.ActionDown},
			{k.Left, core.ActionLeft},
			{k.Right, core.ActionRight},
			{k.Select, core.ActionConfirm},
			{k.Back, core.ActionBack},
			{k.Undo, core.ActionUndo},
			{k.Hint, core.ActionHint},
			{k.NewGame, core.ActionRestart},
			{k.Yes, core.ActionYes},
			{k.Pause, core.ActionPause},
		},
	}
}

// Keys returns the bindings, for help views.
func (km *KeyMapper) Keys() GameKeyMap {
	return km.keys
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	if key.Matches(msg, km.keys.Quit) {
		return core.ActionQuit, true
	}

	for _, b := range km.bindings {
		if key.Matches(msg, b.binding) {
			return b.action, false
		}
	}

	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone && !isQuit {
		frame.Set(action)
	}
	return isQuit
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionHistory
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionHistory
	}

	return MenuActionNone
}
