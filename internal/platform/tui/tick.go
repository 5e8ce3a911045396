// Package tui runs Tryangles in the terminal with Bubble Tea, locally and
// over SSH. It maps keys to game actions, drives the game clock and stores
// finished games.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// defaultTickRate is used when a runtime config has no usable rate.
const defaultTickRate = 60

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = defaultTickRate
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
