package config

import (
	_ "embed"
)

//go:embed defaults/tryangles.yaml
var defaultTryanglesYAML []byte

// DefaultTryanglesConfig returns the default Tryangles configuration.
func DefaultTryanglesConfig() TryanglesConfig {
	return TryanglesConfig{
		Board: BoardConfig{
			Width:  10,
			Height: 10,
		},
		Hint: HintConfig{
			Enabled: false,
		},
		Players: []PlayerConfig{
			{Name: "Blue", Color: "blue"},
			{Name: "Green", Color: "green"},
		},
		CPU: CPUConfig{
			Difficulty: DifficultyNormal,
			ThinkTicks: 20,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultTryanglesYAML
}
