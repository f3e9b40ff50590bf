package snake

import (
	"fmt"
	"strings"
)

// GridSize is the width and height of the square board in cells.
const GridSize = 20

// Position is a 0-indexed grid cell.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Add returns the position offset by v.
func (p Position) Add(v Position) Position {
	return Position{X: p.X + v.X, Y: p.Y + v.Y}
}

// InBounds reports whether p lies inside [0, GridSize) on both axes.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// Wrap folds p back onto the board, handling negative coordinates.
func (p Position) Wrap() Position {
	return Position{
		X: (p.X%GridSize + GridSize) % GridSize,
		Y: (p.Y%GridSize + GridSize) % GridSize,
	}
}

// Direction is one of the four movement headings.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists every heading in candidate order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

var directionVectors = [4]Position{
	DirUp:    {X: 0, Y: -1},
	DirDown:  {X: 0, Y: 1},
	DirLeft:  {X: -1, Y: 0},
	DirRight: {X: 1, Y: 0},
}

// Vector returns the unit offset for d.
func (d Direction) Vector() Position {
	if d < DirUp || d > DirRight {
		return Position{}
	}
	return directionVectors[d]
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "UP"
	case DirDown:
		return "DOWN"
	case DirLeft:
		return "LEFT"
	case DirRight:
		return "RIGHT"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the direction as its upper-case name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText, case-insensitively.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection parses "up", "DOWN", etc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UP":
		return DirUp, nil
	case "DOWN":
		return DirDown, nil
	case "LEFT":
		return DirLeft, nil
	case "RIGHT":
		return DirRight, nil
	}
	return DirRight, fmt.Errorf("snake: unknown direction %q", s)
}

// Mode selects the boundary policy.
type Mode string

const (
	ModePassThrough Mode = "pass-through"
	ModeWalls       Mode = "walls"
)

// Modes lists the supported modes.
var Modes = []Mode{ModePassThrough, ModeWalls}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModePassThrough || m == ModeWalls
}

// Title returns a display name for the mode.
func (m Mode) Title() string {
	if m == ModeWalls {
		return "Walls"
	}
	return "Pass-through"
}

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("snake: unknown mode %q", s)
	}
	return m, nil
}

// Status is the tick driver's lifecycle state.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusPlaying  Status = "playing"
	StatusPaused   Status = "paused"
	StatusGameOver Status = "game-over"
)
