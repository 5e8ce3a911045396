// Package config provides YAML-based game configuration loading and
// difficulty management for Tryangles.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tryangles/internal/core"
	engine "github.com/vovakirdan/tryangles/internal/games/tryangles/core"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// TryanglesConfig contains all configuration for a Tryangles game.
type TryanglesConfig struct {
	Board   BoardConfig    `yaml:"board"`
	Hint    HintConfig     `yaml:"hint"`
	Players []PlayerConfig `yaml:"players"`
	CPU     CPUConfig      `yaml:"cpu"`
}

// BoardConfig defines the lattice size.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// HintConfig controls whether the hint line is shown when a game starts.
type HintConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PlayerConfig defines how a seat is labelled and drawn.
type PlayerConfig struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"` // palette name, see core.ParseColor
}

// CPUConfig defines the computer opponent.
type CPUConfig struct {
	Difficulty DifficultyPreset `yaml:"difficulty"`
	ThinkTicks int              `yaml:"think_ticks"` // delay before the CPU plays
}

// Validate checks the config against the engine limits and the color palette.
func (c TryanglesConfig) Validate() error {
	b := c.Board
	if b.Width < engine.MinWidth || b.Width > engine.MaxWidth {
		return fmt.Errorf("%w: board width %d not in %d..%d",
			ErrInvalidConfig, b.Width, engine.MinWidth, engine.MaxWidth)
	}
	if b.Height < engine.MinHeight || b.Height > engine.MaxHeight {
		return fmt.Errorf("%w: board height %d not in %d..%d",
			ErrInvalidConfig, b.Height, engine.MinHeight, engine.MaxHeight)
	}

	if len(c.Players) != 2 {
		return fmt.Errorf("%w: need exactly 2 players, got %d", ErrInvalidConfig, len(c.Players))
	}
	for i, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("%w: player %d has no name", ErrInvalidConfig, i+1)
		}
		if _, ok := core.ParseColor(p.Color); !ok {
			return fmt.Errorf("%w: player %d color %q", ErrInvalidConfig, i+1, p.Color)
		}
	}

	if _, err := ParseDifficulty(string(c.CPU.Difficulty)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.CPU.ThinkTicks < 0 {
		return fmt.Errorf("%w: negative think_ticks %d", ErrInvalidConfig, c.CPU.ThinkTicks)
	}
	return nil
}

// PlayerColor returns the palette color of seat i (0 or 1).
func (c TryanglesConfig) PlayerColor(i int) core.Color {
	if i < 0 || i >= len(c.Players) {
		return core.ColorDefault
	}
	col, _ := core.ParseColor(c.Players[i].Color)
	return col
}

// PlayerName returns the display name of seat i (0 or 1).
func (c TryanglesConfig) PlayerName(i int) string {
	if i < 0 || i >= len(c.Players) {
		return fmt.Sprintf("Player %d", i+1)
	}
	return c.Players[i].Name
}
