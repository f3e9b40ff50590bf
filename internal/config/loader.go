package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the search path.
const FileName = "snake-arena.yaml"

// Load reads the configuration.
// Search order: customPath -> ~/.snake-arena/config.yaml -> ./configs/snake-arena.yaml -> embedded default.
// Values missing from a file keep their defaults. It returns the path that
// was used, empty for the embedded default.
func Load(customPath string) (Config, string, error) {
	// Try custom path first
	if customPath != "" {
		path := ExpandHome(customPath)
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, "", fmt.Errorf("config: failed to read %s: %w", path, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, "", fmt.Errorf("config: %s: %w", path, err)
		}
		return cfg, path, nil
	}

	// Try user config directory, then local configs directory
	for _, path := range []string{userConfigPath(), filepath.Join("configs", FileName)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg, err := Parse(data)
		if err != nil {
			return Config{}, "", fmt.Errorf("config: %s: %w", path, err)
		}
		return cfg, path, nil
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultYAML)
	if err != nil {
		return Default(), "", nil // Fallback to hardcoded if embed fails
	}
	return cfg, "", nil
}

// Parse decodes YAML over the defaults, applies the difficulty preset and
// validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse: %w", err)
	}
	if cfg.Game.Difficulty == "" {
		cfg.Game.Difficulty = DifficultyNormal
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Game = ApplyDifficulty(cfg.Game, cfg.Game.Difficulty)
	return cfg, nil
}

// userConfigPath returns the path to the user config file, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake-arena", "config.yaml")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
