package config

import (
	"fmt"
	"strings"
	"time"
)

// DifficultyPreset scales the human game's speed.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Valid reports whether p is a known preset.
func (p DifficultyPreset) Valid() bool {
	switch p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty parses a preset name.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalid, s)
	}
	return p, nil
}

// speedFactor is the multiplier applied to the tick intervals.
func (p DifficultyPreset) speedFactor() float64 {
	switch p {
	case DifficultyEasy:
		return 4.0 / 3.0
	case DifficultyHard:
		return 2.0 / 3.0
	default:
		return 1
	}
}

// ApplyDifficulty returns g with its intervals scaled for preset.
// Normal leaves the configured values untouched.
func ApplyDifficulty(g GameConfig, preset DifficultyPreset) GameConfig {
	f := preset.speedFactor()
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * f).Round(time.Millisecond)
	}
	g.Difficulty = preset
	g.InitialInterval = scale(g.InitialInterval)
	g.MinInterval = scale(g.MinInterval)
	return g
}

// WithDifficulty switches a loaded configuration to preset, rescaling the
// intervals from the preset that was applied when it was parsed.
func (c Config) WithDifficulty(preset DifficultyPreset) Config {
	current := c.Game.Difficulty
	if !current.Valid() {
		current = DifficultyNormal
	}
	ratio := preset.speedFactor() / current.speedFactor()
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) * ratio).Round(time.Millisecond)
	}
	c.Game.Difficulty = preset
	c.Game.InitialInterval = scale(c.Game.InitialInterval)
	c.Game.MinInterval = scale(c.Game.MinInterval)
	return c
}
