// Package snake implements the Snake simulation: a pure step function, food
// placement, the tick driver state machine and the autoplay heuristic used by
// spectator runs.
package snake

// StepResult is the outcome of advancing the snake by one cell.
type StepResult struct {
	Snake     []Position
	Ate       bool
	Collision bool
}

// Step advances snake (head first) one cell in direction.
// On collision the input snake is returned unchanged. The input slice is never
// modified.
func Step(snake []Position, direction Direction, mode Mode, food Position) StepResult {
	if len(snake) == 0 {
		return StepResult{Snake: snake, Collision: true}
	}

	head := snake[0].Add(direction.Vector())

	if mode == ModeWalls {
		if !head.InBounds() {
			return StepResult{Snake: snake, Collision: true}
		}
	} else {
		head = head.Wrap()
	}

	// The tail cell is about to be vacated, so it is not an obstacle.
	for _, seg := range snake[:len(snake)-1] {
		if seg == head {
			return StepResult{Snake: snake, Collision: true}
		}
	}

	ate := head == food

	keep := len(snake) - 1
	if ate {
		keep = len(snake)
	}
	next := make([]Position, 0, keep+1)
	next = append(next, head)
	next = append(next, snake[:keep]...)

	return StepResult{Snake: next, Ate: ate}
}

// IsValidDirectionChange reports whether requested may replace current.
// Only a direct reversal is rejected.
func IsValidDirectionChange(current, requested Direction) bool {
	return requested != current.Opposite()
}

// Occupies reports whether any snake segment sits on p.
func Occupies(snake []Position, p Position) bool {
	for _, seg := range snake {
		if seg == p {
			return true
		}
	}
	return false
}

// InitialSnake returns the 3-cell starting snake heading right with its head at (10,10).
func InitialSnake() []Position {
	return []Position{
		{X: 10, Y: 10},
		{X: 9, Y: 10},
		{X: 8, Y: 10},
	}
}
