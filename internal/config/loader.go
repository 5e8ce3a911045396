package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the search directories.
const FileName = "tryangles.yaml"

// LoadTryangles loads Tryangles configuration.
// Search order: customPath -> ~/.tryangles/configs/tryangles.yaml ->
// ./configs/tryangles.yaml -> embedded default.
// Values missing from the file keep their defaults.
func LoadTryangles(customPath string) (TryanglesConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultTryanglesConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return DefaultTryanglesConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return DefaultTryanglesConfig(), fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if cfg, ok := loadOptional(userCfgPath); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := loadOptional(filepath.Join("configs", FileName)); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg, err := parse(defaultTryanglesYAML)
	if err != nil || cfg.Validate() != nil {
		return DefaultTryanglesConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// loadOptional reads a config from a search directory. Missing, unreadable
// or invalid files are skipped.
func loadOptional(path string) (TryanglesConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TryanglesConfig{}, false
	}
	cfg, err := parse(data)
	if err != nil || cfg.Validate() != nil {
		return TryanglesConfig{}, false
	}
	return cfg, true
}

// parse decodes YAML on top of the hardcoded defaults.
func parse(data []byte) (TryanglesConfig, error) {
	cfg := DefaultTryanglesConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if d, err := ParseDifficulty(string(cfg.CPU.Difficulty)); err == nil {
		cfg.CPU.Difficulty = d
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tryangles", "configs", filename)
}
