package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snake-arena.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8081",
			DBPath:      "~/.snake-arena/arena.db",
			TokenSecret: "change-me",
			TokenTTL:    30 * time.Minute,
			CORSOrigin:  "*",
			SeedDemo:    true,
		},
		SSH: SSHConfig{
			Addr:        ":2222",
			HostKeyPath: "~/.snake-arena/ssh_host_ed25519",
			IdleTimeout: 10 * time.Minute,
		},
		Game: GameConfig{
			Difficulty:      DifficultyNormal,
			InitialInterval: 150 * time.Millisecond,
			SpeedDecrement:  5 * time.Millisecond,
			MinInterval:     50 * time.Millisecond,
			ScorePerFood:    10,
		},
		Autoplay: AutoplayConfig{
			Interval:         120 * time.Millisecond,
			SecondBestChance: 0.2,
			LiveGames:        3,
		},
		Client: ClientConfig{
			BaseURL:     "http://localhost:8081",
			SessionPath: "~/.snake-arena/session.yaml",
			Timeout:     10 * time.Second,
		},
		Sound: SoundConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
