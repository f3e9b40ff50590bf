package snake

import "math/rand"

// NoFood marks a board with no free cell left.
var NoFood = Position{X: -1, Y: -1}

const (
	// maxFoodAttempts bounds rejection sampling before falling back to enumeration.
	maxFoodAttempts = 64
	// denseBoardCells switches straight to enumeration once the snake covers
	// three quarters of the board.
	denseBoardCells = GridSize * GridSize * 3 / 4
)

// PlaceFood picks a uniformly random cell not occupied by snake.
// It returns NoFood and false when the snake covers the whole board.
func PlaceFood(snake []Position, rng *rand.Rand) (Position, bool) {
	occupied := make(map[Position]struct{}, len(snake))
	for _, seg := range snake {
		occupied[seg] = struct{}{}
	}

	if len(occupied) < denseBoardCells {
		for range maxFoodAttempts {
			p := Position{X: rng.Intn(GridSize), Y: rng.Intn(GridSize)}
			if _, taken := occupied[p]; !taken {
				return p, true
			}
		}
	}

	free := make([]Position, 0, GridSize*GridSize-len(occupied))
	for y := range GridSize {
		for x := range GridSize {
			p := Position{X: x, Y: y}
			if _, taken := occupied[p]; !taken {
				free = append(free, p)
			}
		}
	}
	if len(free) == 0 {
		return NoFood, false
	}
	return free[rng.Intn(len(free))], true
}
