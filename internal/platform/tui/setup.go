package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tryangles/internal/config"
	"github.com/vovakirdan/tryangles/internal/core"
)

// Configurable is implemented by games whose board and opponent can be
// chosen before play.
type Configurable interface {
	Config() config.TryanglesConfig
	SetConfig(cfg config.TryanglesConfig)
	HasCPU() bool
}

// BoardSize is a named lattice size offered by the setup screen.
type BoardSize struct {
	Label  string
	Width  int
	Height int
}

// BoardSizes lists the preset lattice sizes.
var BoardSizes = []BoardSize{
	{"Small", 5, 5},
	{"Medium", 7, 7},
	{"Classic", 10, 10},
	{"Large", 15, 12},
	{"Huge", 26, 20},
}

// SetupSelection holds the user's choices from the setup screen.
type SetupSelection struct {
	Width      int
	Height     int
	Difficulty config.DifficultyPreset // empty when no CPU plays
}

// Apply returns cfg with the selection applied.
func (s SetupSelection) Apply(cfg config.TryanglesConfig) config.TryanglesConfig {
	cfg.Board = config.BoardConfig{Width: s.Width, Height: s.Height}
	if s.Difficulty != "" {
		config.ApplyTryanglesPreset(&cfg, s.Difficulty)
	}
	return cfg
}

// SetupModel lets users choose the board size and, against the computer,
// its difficulty.
type SetupModel struct {
	title      string
	sizes      []BoardSize
	cursor     int
	diffCursor int
	inDiffStep bool
	withCPU    bool
	width      int
	height     int
	keyMapper  *KeyMapper
	selection  SetupSelection
	choosing   bool
	quitting   bool
	back       bool
}

// NewSetupModel creates a setup screen preselecting the values from cfg.
func NewSetupModel(title string, cfg config.TryanglesConfig, withCPU bool, width, height int) SetupModel {
	sizes := BoardSizes
	cursor := -1
	for i, s := range sizes {
		if s.Width == cfg.Board.Width && s.Height == cfg.Board.Height {
			cursor = i
		}
	}
	if cursor < 0 {
		custom := BoardSize{"Configured", cfg.Board.Width, cfg.Board.Height}
		sizes = append([]BoardSize{custom}, sizes...)
		cursor = 0
	}

	diffCursor := 0
	for i, d := range config.Difficulties {
		if d == cfg.CPU.Difficulty {
			diffCursor = i
		}
	}

	return SetupModel{
		title:      title,
		sizes:      sizes,
		cursor:     cursor,
		diffCursor: diffCursor,
		withCPU:    withCPU,
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
		choosing:   true,
	}
}

// Init initializes the model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m SetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	if m.inDiffStep {
		return m.handleDifficultyKey(action)
	}
	return m.handleSizeKey(action)
}

func (m SetupModel) handleSizeKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(m.sizes)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		size := m.sizes[m.cursor]
		m.selection = SetupSelection{Width: size.Width, Height: size.Height}
		if m.withCPU {
			m.inDiffStep = true
			return m, nil
		}
		m.choosing = false
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

func (m SetupModel) handleDifficultyKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.diffCursor > 0 {
			m.diffCursor--
		}
	case MenuActionDown:
		if m.diffCursor < len(config.Difficulties)-1 {
			m.diffCursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection.Difficulty = config.Difficulties[m.diffCursor]
		return m, tea.Quit
	case MenuActionBack:
		m.inDiffStep = false
	}

	return m, nil
}

// View renders the current setup step.
func (m SetupModel) View() string {
	if m.quitting || m.back || !m.choosing {
		return ""
	}

	if m.inDiffStep {
		return m.viewDifficulty()
	}
	return m.viewSize()
}

func (m SetupModel) viewSize() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(strings.ToUpper(m.title), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select board size:", m.width))
	b.WriteString("\n\n")

	for i, s := range m.sizes {
		line := fmt.Sprintf("%-10s %2d x %-2d", s.Label, s.Width, s.Height)
		b.WriteString(centerText(menuLine(i == m.cursor, line), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m SetupModel) viewDifficulty() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("CPU DIFFICULTY", m.width))
	b.WriteString("\n\n")

	descriptions := map[config.DifficultyPreset]string{
		config.DifficultyEasy:   "plays at random",
		config.DifficultyNormal: "takes the first safe line",
		config.DifficultyHard:   "picks among all safe lines",
	}
	for i, d := range config.Difficulties {
		line := fmt.Sprintf("%-7s %s", d, descriptions[d])
		b.WriteString(centerText(menuLine(i == m.diffCursor, line), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m SetupModel) Selected() *SetupSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m SetupModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m SetupModel) WantsBack() bool {
	return m.back
}

// RunSetup runs the setup screen for game and applies the selection to it.
// ok is false if the user backed out; quit reports a request to exit.
func RunSetup(game Configurable, title string, cfg core.RuntimeConfig) (ok, quit bool, err error) {
	model := NewSetupModel(title, game.Config(), game.HasCPU(), cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, false, err
	}

	m, isSetup := finalModel.(SetupModel)
	if !isSetup {
		return false, true, nil
	}
	if m.IsQuitting() {
		return false, true, nil
	}
	if m.WantsBack() || m.Selected() == nil {
		return false, false, nil
	}

	game.SetConfig(m.Selected().Apply(game.Config()))
	return true, false, nil
}
