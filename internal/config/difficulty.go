package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named CPU strength.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Difficulties lists the presets from weakest to strongest.
var Difficulties = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}

// ParseDifficulty converts a flag or config value to a preset.
// Matching is case-insensitive.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range Difficulties {
		if p == d {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal or hard)", s)
}

// ThinkTicksForPreset returns how many ticks the CPU waits before playing.
// Weaker opponents take longer so their moves are easier to follow.
func ThinkTicksForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 40
	case DifficultyHard:
		return 10
	default:
		return 20
	}
}

// ApplyTryanglesPreset sets the CPU difficulty and its pacing.
func ApplyTryanglesPreset(cfg *TryanglesConfig, preset DifficultyPreset) {
	cfg.CPU.Difficulty = preset
	cfg.CPU.ThinkTicks = ThinkTicksForPreset(preset)
}
