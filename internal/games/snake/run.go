package snake

import "math/rand"

// RunOptions tunes a cosmetic autoplay run.
type RunOptions struct {
	SecondBestChance float64
	ScorePerFood     int
}

// DefaultRunOptions returns the stock autoplay settings.
func DefaultRunOptions() RunOptions {
	return RunOptions{
		SecondBestChance: DefaultSecondBestChance,
		ScorePerFood:     DefaultTuning().ScorePerFood,
	}
}

// Run is a decorative snake driven by the autopilot. It always moves with
// pass-through boundaries and restarts silently instead of ending.
// A Run is not safe for concurrent use.
type Run struct {
	rng   *rand.Rand
	pilot Autopilot
	opts  RunOptions

	snake     []Position
	food      Position
	direction Direction
	score     int
	ticks     uint64
	restarts  int
}

// NewRun creates a run seeded with seed.
func NewRun(seed int64, opts RunOptions) *Run {
	rng := rand.New(rand.NewSource(seed))
	r := &Run{
		rng:   rng,
		pilot: Autopilot{Rand: rng, SecondBestChance: opts.SecondBestChance},
		opts:  opts,
	}
	r.restart()
	return r
}

func (r *Run) restart() {
	r.snake = InitialSnake()
	r.direction = DirRight
	r.score = 0
	r.food, _ = PlaceFood(r.snake, r.rng)
}

// Tick advances the run by one cell. It reports whether food was eaten and
// whether the run had to start over.
func (r *Run) Tick() (ate, restarted bool) {
	r.ticks++

	dir := r.pilot.Choose(r.snake, r.food, r.direction)
	res := Step(r.snake, dir, ModePassThrough, r.food)
	if res.Collision {
		r.restart()
		r.restarts++
		return false, true
	}

	r.snake = res.Snake
	r.direction = dir
	if !res.Ate {
		return false, false
	}

	r.score += r.opts.ScorePerFood
	food, ok := PlaceFood(r.snake, r.rng)
	if !ok {
		r.restart()
		r.restarts++
		return true, true
	}
	r.food = food
	return true, false
}

func (r *Run) Score() int           { return r.score }
func (r *Run) Direction() Direction { return r.direction }
func (r *Run) Food() Position       { return r.food }
func (r *Run) Restarts() int        { return r.restarts }
func (r *Run) Snake() []Position    { return append([]Position(nil), r.snake...) }
