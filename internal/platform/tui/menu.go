package tui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tryangles/internal/core"
	"github.com/vovakirdan/tryangles/internal/registry"
)

// MenuItem represents a selectable game mode in the menu.
type MenuItem struct {
	GameID string
	Title  string
}

// historyItem is the pseudo entry that opens the results history.
const historyItem = "History"

// MenuModel is the Bubble Tea model for the mode picker menu.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	quitting    bool
	selected    *MenuItem // Set when user selects a game
	openHistory bool      // True if user asked for the results history
}

// NewMenuModel creates a new menu model.
func NewMenuModel(cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		items = append(items, MenuItem{
			GameID: g.ID,
			Title:  g.Title,
		})
	}

	return MenuModel{
		items:     items,
		cursor:    0,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// WithItem returns the menu with an extra entry after the game modes.
func (m MenuModel) WithItem(item MenuItem) MenuModel {
	m.items = append(slices.Clone(m.items), item)
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
// The cursor runs over the game modes plus the History entry.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items) {
			m.cursor++
		}

	case MenuActionSelect:
		if m.cursor == len(m.items) {
			m.openHistory = true
			return m, tea.Quit
		}
		selected := m.items[m.cursor]
		m.selected = &selected
		return m, tea.Quit // Exit menu to start game

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit // Exit menu to show history
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Title
	b.WriteString("\n")
	b.WriteString(centerText("T R Y A N G L E S", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Draw lines, never close a triangle", m.width))
	b.WriteString("\n\n")

	// Mode list
	for i, item := range m.items {
		b.WriteString(centerText(menuLine(i == m.cursor, item.Title), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText(menuLine(m.cursor == len(m.items), historyItem), m.width))
	b.WriteString("\n")

	// Footer with controls
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: History  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

func menuLine(current bool, title string) string {
	cursor := "  "
	if current {
		cursor = "> "
	}
	return fmt.Sprintf("%s%s", cursor, title)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the results history.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID       string
	Config       core.RuntimeConfig
	WantsHistory bool
	Quit         bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
	}

	if m.WantsHistory() {
		result.WantsHistory = true
		return result, nil
	}

	if m.IsQuitting() {
		result.Quit = true
		return result, nil
	}

	if m.Selected() != nil {
		result.GameID = m.Selected().GameID
	} else {
		result.Quit = true
	}

	return result, nil
}
