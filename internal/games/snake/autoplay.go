package snake

import (
	"math/rand"
	"sort"
	"time"

	"github.com/vovakirdan/snake-arena/internal/core"
)

// Autoplay defaults.
const (
	DefaultAutoplayInterval = 120 * time.Millisecond
	DefaultSecondBestChance = 0.2
)

// Autopilot steers a snake toward food with a greedy Manhattan-distance
// heuristic, occasionally taking the runner-up move.
type Autopilot struct {
	Rand             *rand.Rand
	SecondBestChance float64
}

// NewAutopilot returns an autopilot with the default second-best chance.
func NewAutopilot(rng *rand.Rand) Autopilot {
	return Autopilot{Rand: rng, SecondBestChance: DefaultSecondBestChance}
}

type candidate struct {
	dir  Direction
	dist int
}

// Choose picks the next heading. Reversals and moves whose wrapped head lands
// on any snake cell are excluded; with nothing left, current is returned.
func (a Autopilot) Choose(snake []Position, food Position, current Direction) Direction {
	if len(snake) == 0 {
		return current
	}
	head := snake[0]

	cands := make([]candidate, 0, len(Directions))
	for _, d := range Directions {
		if d == current.Opposite() {
			continue
		}
		next := head.Add(d.Vector()).Wrap()
		if Occupies(snake, next) {
			continue
		}
		cands = append(cands, candidate{dir: d, dist: manhattan(next, food)})
	}

	if len(cands) == 0 {
		return current
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].dist < cands[j].dist
	})

	if len(cands) > 1 && a.Rand != nil && a.Rand.Float64() < a.SecondBestChance {
		return cands[1].dir
	}
	return cands[0].dir
}

// ChooseDirection runs the default autopilot once.
func ChooseDirection(snake []Position, food Position, current Direction, rng *rand.Rand) Direction {
	return NewAutopilot(rng).Choose(snake, food, current)
}

func manhattan(a, b Position) int {
	return core.Abs(a.X-b.X) + core.Abs(a.Y-b.Y)
}
