package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tryangles/internal/core"
	"github.com/vovakirdan/tryangles/internal/registry"
	"github.com/vovakirdan/tryangles/internal/storage"
)

// helpRows is the number of screen rows reserved for the help bar.
const helpRows = 1

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	quitting   bool
	backToMenu bool
	saved      bool   // Whether the outcome has been saved for the current game over
	savedID    string // ID of the stored result, if any
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-helpRows, 1)),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	// Initialize the game
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	// Start the tick loop
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	// Back leaves the game once it is over or paused; otherwise it
	// cancels the selection in progress.
	if action == core.ActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, tea.Quit
	}

	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize processes window resize events.
// The board layout follows the screen size, so the game keeps its state.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-helpRows, 1))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Run game simulation
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// A new game was started from the game over screen
	if !m.gameState.GameOver {
		m.saved = false
		m.savedID = ""
	}

	// Save the outcome on game over (once)
	if m.gameState.GameOver && !m.saved {
		m.savedID = saveOutcome(m.store, m.game)
		m.saved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// saveOutcome stores the outcome of a finished game if the game reports one.
// Returns the stored result ID, or "" when nothing was saved.
func saveOutcome(store *storage.Store, game registry.Game) string {
	reporter, ok := game.(registry.Reporter)
	if store == nil || !ok {
		return ""
	}
	id, err := store.SaveOutcome(reporter.Outcome())
	if err != nil {
		// Best-effort save, game continues regardless
		return ""
	}
	return id
}

// screenshotDir returns where ctrl+s snapshots are written.
func screenshotDir() string {
	return filepath.Join(os.Getenv("HOME"), ".tryangles", "screenshots")
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	// Create screenshots directory
	dir := screenshotDir()
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	// Save screenshot
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	// Convert screen to string and append the help bar
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// SavedResultID returns the ID of the stored result of the last finished game.
func (m Model) SavedResultID() string {
	return m.savedID
}

// Run starts the Bubble Tea program with the given model.
// It returns when the player quits or goes back to the menu; quit reports
// which of the two happened.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) (quit bool, err error) {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return true, err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return true, nil
	}
	return m.IsQuitting(), nil
}
