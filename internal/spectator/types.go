// Package spectator hosts cosmetic live games: autoplay runs that viewers can
// list, join and stream. Runs are isolated; each is ticked by its own task.
package spectator

import (
	"errors"
	"time"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
)

// ErrGameNotFound is returned for an unknown live game id.
var ErrGameNotFound = errors.New("spectator: game not found")

// ErrClosed is returned once the hub has been shut down.
var ErrClosed = errors.New("spectator: hub closed")

// Player is the account a live game is shown under.
type Player struct {
	ID      string
	Name    string
	Avatar  string
	Mode    snake.Mode
	Viewers int // starting viewer count
	Score   int // carried into the score until the run first restarts
}

// LiveGame is the public view of a running game.
type LiveGame struct {
	ID           string           `json:"id"`
	PlayerID     string           `json:"playerId"`
	PlayerName   string           `json:"playerName"`
	PlayerAvatar string           `json:"playerAvatar,omitempty"`
	Score        int              `json:"score"`
	Mode         snake.Mode       `json:"mode"`
	Snake        []snake.Position `json:"snake"`
	Food         snake.Position   `json:"food"`
	Status       snake.Status     `json:"status"`
	Viewers      int              `json:"viewers"`
	StartedAt    time.Time        `json:"startedAt"`
}

// Config holds hub settings.
type Config struct {
	Interval         time.Duration // autoplay cadence
	SecondBestChance float64
	ScorePerFood     int
	SubscriberBuffer int // snapshots buffered per stream before dropping
}

// DefaultConfig returns the stock autoplay settings.
func DefaultConfig() Config {
	return Config{
		Interval:         snake.DefaultAutoplayInterval,
		SecondBestChance: snake.DefaultSecondBestChance,
		ScorePerFood:     snake.DefaultTuning().ScorePerFood,
		SubscriberBuffer: 16,
	}
}

// DemoPlayers returns the players seeded as live games on a fresh server.
func DemoPlayers() []Player {
	return []Player{
		{ID: "2", Name: "NeonViper", Mode: snake.ModeWalls, Viewers: 12, Score: 340},
		{ID: "3", Name: "PixelPython", Mode: snake.ModePassThrough, Viewers: 8, Score: 580},
		{ID: "4", Name: "ArcadeAce", Mode: snake.ModeWalls, Viewers: 5, Score: 220},
	}
}
