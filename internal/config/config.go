// Package config provides YAML-based configuration loading, validation and
// hot reload for the snake arena.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	SSH      SSHConfig      `yaml:"ssh"`
	Game     GameConfig     `yaml:"game"`
	Autoplay AutoplayConfig `yaml:"autoplay"`
	Client   ClientConfig   `yaml:"client"`
	Sound    SoundConfig    `yaml:"sound"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the REST API.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	DBPath      string        `yaml:"db_path"`
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	CORSOrigin  string        `yaml:"cors_origin"`
	SeedDemo    bool          `yaml:"seed_demo"`
}

// SSHConfig configures the optional SSH play server.
type SSHConfig struct {
	Addr        string        `yaml:"addr"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// GameConfig holds the human game's speed and scoring.
type GameConfig struct {
	Difficulty      DifficultyPreset `yaml:"difficulty"`
	InitialInterval time.Duration    `yaml:"initial_interval"`
	SpeedDecrement  time.Duration    `yaml:"speed_decrement"`
	MinInterval     time.Duration    `yaml:"min_interval"`
	ScorePerFood    int              `yaml:"score_per_food"`
}

// AutoplayConfig holds the spectator runs' settings.
type AutoplayConfig struct {
	Interval         time.Duration `yaml:"interval"`
	SecondBestChance float64       `yaml:"second_best_chance"`
	LiveGames        int           `yaml:"live_games"`
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	BaseURL     string        `yaml:"base_url"`
	SessionPath string        `yaml:"session_path"`
	Timeout     time.Duration `yaml:"timeout"`
}

// SoundConfig toggles sound cues.
type SoundConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig sets the log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}

// Validate reports the first invalid setting, wrapped in ErrInvalid.
func (c Config) Validate() error {
	g := c.Game
	switch {
	case g.InitialInterval <= 0:
		return fmt.Errorf("%w: game.initial_interval must be positive", ErrInvalid)
	case g.MinInterval <= 0:
		return fmt.Errorf("%w: game.min_interval must be positive", ErrInvalid)
	case g.MinInterval > g.InitialInterval:
		return fmt.Errorf("%w: game.min_interval %v exceeds initial_interval %v", ErrInvalid, g.MinInterval, g.InitialInterval)
	case g.SpeedDecrement < 0:
		return fmt.Errorf("%w: game.speed_decrement must not be negative", ErrInvalid)
	case g.ScorePerFood < 0:
		return fmt.Errorf("%w: game.score_per_food must not be negative", ErrInvalid)
	}

	a := c.Autoplay
	switch {
	case a.Interval <= 0:
		return fmt.Errorf("%w: autoplay.interval must be positive", ErrInvalid)
	case a.SecondBestChance < 0 || a.SecondBestChance > 1:
		return fmt.Errorf("%w: autoplay.second_best_chance must be within [0,1]", ErrInvalid)
	case a.LiveGames < 0:
		return fmt.Errorf("%w: autoplay.live_games must not be negative", ErrInvalid)
	}

	if c.Server.TokenTTL < 0 {
		return fmt.Errorf("%w: server.token_ttl must not be negative", ErrInvalid)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalid, c.Log.Level)
	}

	if g.Difficulty != "" && !g.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown game.difficulty %q", ErrInvalid, g.Difficulty)
	}
	return nil
}

// Tuning converts the game section to the engine's tuning constants.
func (g GameConfig) Tuning() snake.Tuning {
	return snake.Tuning{
		InitialInterval: g.InitialInterval,
		SpeedDecrement:  g.SpeedDecrement,
		MinInterval:     g.MinInterval,
		ScorePerFood:    g.ScorePerFood,
	}
}
