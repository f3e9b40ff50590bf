package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frame callbacks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int    // Current score
	Status   string // Lifecycle status reported by the game
	Mode     string // Active game mode
	GameOver bool   // Whether the game has ended
	Paused   bool   // Whether the game is paused
}

// Event is a notable thing that happened during a frame.
type Event int

const (
	EventNone      Event = iota
	EventStarted         // A new round began
	EventAte             // Food was eaten
	EventCollision       // The round ended in a collision
)

func (e Event) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventAte:
		return "ate"
	case EventCollision:
		return "collision"
	default:
		return "none"
	}
}

// StepResult is returned by Game.Step() after each frame callback.
type StepResult struct {
	State    GameState
	Events   []Event
	Advanced bool // Whether the simulation moved this frame
}

// Has reports whether e was emitted this frame.
func (r StepResult) Has(e Event) bool {
	for _, got := range r.Events {
		if got == e {
			return true
		}
	}
	return false
}
