package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tryangles/internal/registry"
	"github.com/vovakirdan/tryangles/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show mode list sidebar
	sidebarWidth       = 22  // Width of mode list sidebar
	maxResults         = 100 // Max results to load
)

// HistoryKeyMap defines the key bindings for the history screen.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.PrevMode, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev mode"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next mode"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel is the Bubble Tea model for the results history screen.
type HistoryModel struct {
	modes       []registry.GameInfo // Game modes that can have results
	modeCursor  int                 // Currently selected mode index
	store       *storage.Store
	results     []storage.Result
	stats       *storage.GameStats
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show mode list sidebar
}

// NewHistoryModel creates a new history model.
func NewHistoryModel(store *storage.Store, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		modes:       registry.Modes(),
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()

	if len(m.modes) > 0 {
		m.loadResults(m.modes[0].ID)
	}

	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Winner", Width: 14},
		{Title: "Moves", Width: 6},
		{Title: "Board", Width: 7},
		{Title: "Date", Width: 12},
	}

	// Calculate available width for table
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}

	// Give the winner column the spare space
	if spare := tableWidth - 53; spare > 0 {
		columns[1].Width += min(spare, 16)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, stats, help, and margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadResults loads recent results and stats for the given mode.
func (m *HistoryModel) loadResults(gameID string) {
	m.results = nil
	m.stats = nil
	if m.store != nil {
		if results, err := m.store.RecentResults(gameID, maxResults); err == nil {
			m.results = results
		}
		if stats, err := m.store.GetGameStats(gameID); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// winnerLabel names the winner of a result.
func winnerLabel(r storage.Result) string {
	switch r.Winner {
	case 1:
		return r.Player1
	case 2:
		return r.Player2
	default:
		return "Draw"
	}
}

// updateTableRows updates the table with the loaded results.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			winnerLabel(r),
			fmt.Sprintf("%d", len(r.Moves)),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history screen.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMode), key.Matches(msg, m.keys.Right):
			if len(m.modes) > 0 {
				m.modeCursor = (m.modeCursor + 1) % len(m.modes)
				m.loadResults(m.modes[m.modeCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevMode), key.Matches(msg, m.keys.Left):
			if len(m.modes) > 0 {
				m.modeCursor--
				if m.modeCursor < 0 {
					m.modeCursor = len(m.modes) - 1
				}
				m.loadResults(m.modes[m.modeCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history screen.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "HISTORY"
	if len(m.modes) > 0 {
		title = fmt.Sprintf("HISTORY - %s", m.modes[m.modeCursor].Title)
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the selected mode.
func (m HistoryModel) statsLine() string {
	if m.stats == nil || m.stats.GamesCount == 0 {
		return "No games played"
	}
	s := m.stats
	return fmt.Sprintf("Played %d  |  P1 %d  P2 %d  Draws %d  |  Avg %.1f moves  |  Longest %d",
		s.GamesCount, s.Player1Wins, s.Player2Wins, s.Draws, s.AvgMoves, s.LongestGame)
}

// renderWideLayout renders the history with a sidebar for mode selection.
func (m HistoryModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Modes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, g := range m.modes {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.modeCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := []rune(g.Title)
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = append(name[:maxLen-1], '.')
		}
		sidebar.WriteString(style.Render(cursor + string(name)))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders the current mode name above the table.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder

	if len(m.modes) > 0 {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.modes[m.modeCursor].Title), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.results) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No games recorded yet.\nFinish a game to see it here!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewHistoryModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
