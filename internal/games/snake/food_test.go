package snake

import (
	"math/rand"
	"testing"
)

func TestPlaceFoodAvoidsSnake(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := range 200 {
		snake := randomSnake(rng, 1+rng.Intn(350))
		food, ok := PlaceFood(snake, rng)
		if !ok {
			t.Fatalf("trial %d: expected a free cell", trial)
		}
		if !food.InBounds() {
			t.Fatalf("trial %d: food %v out of bounds", trial, food)
		}
		if Occupies(snake, food) {
			t.Fatalf("trial %d: food %v placed on snake", trial, food)
		}
	}
}

func TestPlaceFoodLastFreeCell(t *testing.T) {
	free := Position{X: 13, Y: 7}
	snake := make([]Position, 0, GridSize*GridSize-1)
	for y := range GridSize {
		for x := range GridSize {
			if p := (Position{X: x, Y: y}); p != free {
				snake = append(snake, p)
			}
		}
	}

	food, ok := PlaceFood(snake, rand.New(rand.NewSource(1)))
	if !ok || food != free {
		t.Errorf("PlaceFood() = %v, %v; expected %v, true", food, ok, free)
	}
}

func TestPlaceFoodFullBoard(t *testing.T) {
	snake := make([]Position, 0, GridSize*GridSize)
	for y := range GridSize {
		for x := range GridSize {
			snake = append(snake, Position{X: x, Y: y})
		}
	}

	food, ok := PlaceFood(snake, rand.New(rand.NewSource(1)))
	if ok {
		t.Error("full board should report no free cell")
	}
	if food != NoFood {
		t.Errorf("food = %v, expected %v", food, NoFood)
	}
}

func TestNextInterval(t *testing.T) {
	tuning := DefaultTuning()

	tests := []struct {
		name     string
		current  int
		expected int
	}{
		{"initial", 150, 145},
		{"near floor", 52, 50},
		{"at floor", 50, 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tuning.NextInterval(ms(tc.current))
			if got != ms(tc.expected) {
				t.Errorf("NextInterval(%dms) = %v, expected %dms", tc.current, got, tc.expected)
			}
		})
	}
}

// randomSnake returns n distinct cells. Contiguity does not matter for placement.
func randomSnake(rng *rand.Rand, n int) []Position {
	cells := rng.Perm(GridSize * GridSize)[:n]
	snake := make([]Position, n)
	for i, c := range cells {
		snake[i] = Position{X: c % GridSize, Y: c / GridSize}
	}
	return snake
}
