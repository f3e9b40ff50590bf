package snake

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/registry"
)

// Listener is notified about ate, collision and start events as they happen.
type Listener func(ev core.Event, st core.GameState)

// Game is the tick driver for a human-controlled round. It owns the mutable
// state and feeds it through Step once per accepted tick.
type Game struct {
	variant Mode // mode the game was registered with, fixes ID and Title
	mode    Mode
	tuning  Tuning
	rng     *rand.Rand

	snake     []Position
	food      Position
	hasFood   bool
	direction Direction
	nextDir   Direction // buffered, applied at the next accepted tick
	score     int
	status    Status
	interval  time.Duration
	lastTick  time.Time

	screenW int
	screenH int

	listeners []Listener
	stepping  bool
	pending   []core.Event // events emitted during the current Step
}

// New creates an idle game in the given mode with default tuning.
func New(mode Mode) *Game {
	if !mode.Valid() {
		mode = ModePassThrough
	}
	g := &Game{
		variant: mode,
		mode:    mode,
		tuning:  DefaultTuning(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		screenW: core.DefaultConfig().ScreenW,
		screenH: core.DefaultConfig().ScreenH,
	}
	g.init()
	return g
}

func init() {
	registry.Register("snake", func() registry.Game {
		return New(ModePassThrough)
	})
	registry.Register("snake_walls", func() registry.Game {
		return New(ModeWalls)
	})
}

// ID returns the registry identifier of the variant.
func (g *Game) ID() string {
	if g.variant == ModeWalls {
		return "snake_walls"
	}
	return "snake"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == ModeWalls {
		return "Snake (Walls)"
	}
	return "Snake"
}

// SetTuning replaces the speed and scoring constants. It takes effect the
// next time the round is initialized.
func (g *Game) SetTuning(t Tuning) {
	g.tuning = t
}

// OnEvent registers a listener for game events.
func (g *Game) OnEvent(l Listener) {
	g.listeners = append(g.listeners, l)
}

// Reset reseeds the game and returns it to idle in the current mode.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))
	if cfg.ScreenW > 0 {
		g.screenW = cfg.ScreenW
	}
	if cfg.ScreenH > 0 {
		g.screenH = cfg.ScreenH
	}
	g.init()
}

// init puts a fresh round on the board and leaves it idle.
func (g *Game) init() {
	g.snake = InitialSnake()
	g.direction = DirRight
	g.nextDir = DirRight
	g.score = 0
	g.interval = g.tuning.InitialInterval
	g.lastTick = time.Time{}
	g.status = StatusIdle
	g.food, g.hasFood = PlaceFood(g.snake, g.rng)
}

// Start begins a fresh round from idle or game-over.
// It reports false when a round is already running or paused.
func (g *Game) Start() bool {
	if g.status != StatusIdle && g.status != StatusGameOver {
		return false
	}
	g.init()
	g.status = StatusPlaying
	g.emit(core.EventStarted)
	return true
}

// TogglePause switches between playing and paused without touching the board.
func (g *Game) TogglePause() {
	switch g.status {
	case StatusPlaying:
		g.status = StatusPaused
	case StatusPaused:
		g.status = StatusPlaying
	}
}

// StartOrPause is the Space key: start when stopped, pause toggle otherwise.
func (g *Game) StartOrPause() {
	if !g.Start() {
		g.TogglePause()
	}
}

// ResetRound discards the current round and returns to idle.
func (g *Game) ResetRound() {
	g.init()
}

// SetMode switches the boundary mode. It is refused while playing; otherwise
// the board is reinitialized for the new mode.
func (g *Game) SetMode(m Mode) bool {
	if !m.Valid() || g.status == StatusPlaying {
		return false
	}
	g.mode = m
	g.init()
	return true
}

// ToggleMode flips between pass-through and walls.
func (g *Game) ToggleMode() bool {
	if g.mode == ModeWalls {
		return g.SetMode(ModePassThrough)
	}
	return g.SetMode(ModeWalls)
}

// ChangeDirection buffers d for the next tick. Requests are ignored unless
// playing, and a reversal of the direction in effect is rejected.
func (g *Game) ChangeDirection(d Direction) bool {
	if g.status != StatusPlaying {
		return false
	}
	if !IsValidDirectionChange(g.direction, d) {
		return false
	}
	g.nextDir = d
	return true
}

// Advance applies one engine step if the round is playing and at least one
// interval elapsed since the previous accepted tick.
func (g *Game) Advance(now time.Time) bool {
	if g.status != StatusPlaying {
		return false
	}
	if !g.lastTick.IsZero() && now.Sub(g.lastTick) < g.interval {
		return false
	}
	g.lastTick = now

	res := Step(g.snake, g.nextDir, g.mode, g.food)
	if res.Collision {
		g.status = StatusGameOver
		g.emit(core.EventCollision)
		return true
	}

	g.snake = res.Snake
	g.direction = g.nextDir
	if res.Ate {
		g.score += g.tuning.ScorePerFood
		g.interval = g.tuning.NextInterval(g.interval)
		g.food, g.hasFood = PlaceFood(g.snake, g.rng)
		g.emit(core.EventAte)
	}
	return true
}

// Step maps one frame of input to commands, then advances the clock.
func (g *Game) Step(in core.InputFrame, now time.Time) core.StepResult {
	g.pending = g.pending[:0]
	g.stepping = true
	defer func() { g.stepping = false }()

	for _, a := range in.Ordered() {
		switch a {
		case core.ActionStart:
			g.StartOrPause()
		case core.ActionReset:
			g.ResetRound()
		case core.ActionToggleMode:
			g.ToggleMode()
		case core.ActionUp:
			g.ChangeDirection(DirUp)
		case core.ActionDown:
			g.ChangeDirection(DirDown)
		case core.ActionLeft:
			g.ChangeDirection(DirLeft)
		case core.ActionRight:
			g.ChangeDirection(DirRight)
		}
	}

	advanced := g.Advance(now)

	events := make([]core.Event, len(g.pending))
	copy(events, g.pending)
	return core.StepResult{
		State:    g.State(),
		Events:   events,
		Advanced: advanced,
	}
}

func (g *Game) emit(ev core.Event) {
	if g.stepping {
		g.pending = append(g.pending, ev)
	}
	st := g.State()
	for _, l := range g.listeners {
		l(ev, st)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		Status:   string(g.status),
		Mode:     string(g.mode),
		GameOver: g.status == StatusGameOver,
		Paused:   g.status == StatusPaused,
	}
}

// Accessors.

func (g *Game) Mode() Mode               { return g.mode }
func (g *Game) Status() Status           { return g.status }
func (g *Game) Score() int               { return g.score }
func (g *Game) Direction() Direction     { return g.direction }
func (g *Game) NextDirection() Direction { return g.nextDir }
func (g *Game) Interval() time.Duration  { return g.interval }
func (g *Game) Snake() []Position        { return append([]Position(nil), g.snake...) }
func (g *Game) Food() (Position, bool)   { return g.food, g.hasFood }
