package spectator

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/scheduler"
)

// liveGame is one autoplay run and its audience.
type liveGame struct {
	id        string
	player    Player
	startedAt time.Time
	task      *scheduler.Task

	mu      sync.Mutex
	run     *snake.Run
	viewers int
	subs    map[*Subscription]struct{}
}

func (g *liveGame) view() LiveGame {
	snap := g.run.Snapshot()
	score := snap.Score
	if g.run.Restarts() == 0 {
		score += g.player.Score
	}
	return LiveGame{
		ID:           g.id,
		PlayerID:     g.player.ID,
		PlayerName:   g.player.Name,
		PlayerAvatar: g.player.Avatar,
		Score:        score,
		Mode:         g.player.Mode,
		Snake:        snap.Snake,
		Food:         snap.Food,
		Status:       snap.Status,
		Viewers:      g.viewers,
		StartedAt:    g.startedAt,
	}
}

// tick advances the run and fans the new state out to subscribers.
func (g *liveGame) tick(time.Time) {
	g.mu.Lock()
	g.run.Tick()
	view := g.view()
	subs := make([]*Subscription, 0, len(g.subs))
	for s := range g.subs {
		subs = append(subs, s)
	}
	g.mu.Unlock()

	for _, s := range subs {
		s.send(view)
	}
}

// Hub owns every live game on the server.
type Hub struct {
	logger *log.Logger

	mu     sync.RWMutex
	cfg    Config
	games  map[string]*liveGame
	order  []string
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	now  func() time.Time
	seed func() int64
}

// NewHub creates an empty hub. Games are added with Add or Seed.
func NewHub(cfg Config, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		logger: logger.WithPrefix("spectator"),
		cfg:    cfg,
		games:  make(map[string]*liveGame),
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
		seed:   func() int64 { return time.Now().UnixNano() },
	}
}

// SetConfig replaces the settings used for games added afterwards.
// Running games keep the settings they started with.
func (h *Hub) SetConfig(cfg Config) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg = cfg
}

// Add starts a new live game for p and returns its initial view.
func (h *Hub) Add(p Player) (LiveGame, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return LiveGame{}, ErrClosed
	}
	if !p.Mode.Valid() {
		p.Mode = snake.ModePassThrough
	}

	g := &liveGame{
		id:        uuid.NewString(),
		player:    p,
		startedAt: h.now(),
		run: snake.NewRun(h.seed(), snake.RunOptions{
			SecondBestChance: h.cfg.SecondBestChance,
			ScorePerFood:     h.cfg.ScorePerFood,
		}),
		viewers: max(0, p.Viewers),
		subs:    make(map[*Subscription]struct{}),
	}
	g.task = scheduler.Every(h.cfg.Interval, g.tick)

	h.games[g.id] = g
	h.order = append(h.order, g.id)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		g.task.Run(h.ctx)
	}()

	h.logger.Info("live game started", "id", g.id, "player", p.Name, "mode", p.Mode)

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view(), nil
}

// Seed adds one live game per player.
func (h *Hub) Seed(players []Player) error {
	for _, p := range players {
		if _, err := h.Add(p); err != nil {
			return err
		}
	}
	return nil
}

// Remove stops a live game and closes its streams.
func (h *Hub) Remove(id string) error {
	h.mu.Lock()
	g, ok := h.games[id]
	if ok {
		delete(h.games, id)
		for i, gid := range h.order {
			if gid == id {
				h.order = append(h.order[:i], h.order[i+1:]...)
				break
			}
		}
	}
	h.mu.Unlock()

	if !ok {
		return ErrGameNotFound
	}

	g.task.Stop()
	g.closeSubscribers()
	h.logger.Info("live game removed", "id", id)
	return nil
}

// List returns every live game in creation order.
func (h *Hub) List() []LiveGame {
	h.mu.RLock()
	games := make([]*liveGame, 0, len(h.order))
	for _, id := range h.order {
		games = append(games, h.games[id])
	}
	h.mu.RUnlock()

	result := make([]LiveGame, 0, len(games))
	for _, g := range games {
		g.mu.Lock()
		result = append(result, g.view())
		g.mu.Unlock()
	}
	return result
}

// Get returns one live game.
func (h *Hub) Get(id string) (LiveGame, error) {
	g, err := h.lookup(id)
	if err != nil {
		return LiveGame{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.view(), nil
}

// Join counts a new viewer.
func (h *Hub) Join(id string) (LiveGame, error) {
	return h.adjustViewers(id, 1)
}

// Leave removes a viewer. The counter never drops below zero.
func (h *Hub) Leave(id string) (LiveGame, error) {
	return h.adjustViewers(id, -1)
}

func (h *Hub) adjustViewers(id string, delta int) (LiveGame, error) {
	g, err := h.lookup(id)
	if err != nil {
		return LiveGame{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.viewers = max(0, g.viewers+delta)
	return g.view(), nil
}

// Subscribe joins the game and streams its snapshots until the subscription
// is closed. Closing it leaves the game.
func (h *Hub) Subscribe(id string) (*Subscription, LiveGame, error) {
	g, err := h.lookup(id)
	if err != nil {
		return nil, LiveGame{}, err
	}

	h.mu.RLock()
	buffer := h.cfg.SubscriberBuffer
	h.mu.RUnlock()

	var sub *Subscription
	sub = newSubscription(id, buffer, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if _, ok := g.subs[sub]; ok {
			delete(g.subs, sub)
			g.viewers = max(0, g.viewers-1)
		}
	})

	g.mu.Lock()
	g.subs[sub] = struct{}{}
	g.viewers++
	view := g.view()
	g.mu.Unlock()

	return sub, view, nil
}

func (h *Hub) lookup(id string) (*liveGame, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	g, ok := h.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Count returns the number of live games.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games)
}

// Close stops every run, ends all streams and waits for the tasks to exit.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	games := make([]*liveGame, 0, len(h.games))
	for _, g := range h.games {
		games = append(games, g)
	}
	h.mu.Unlock()

	h.cancel()
	h.wg.Wait()

	for _, g := range games {
		g.closeSubscribers()
	}
}

func (g *liveGame) closeSubscribers() {
	g.mu.Lock()
	subs := make([]*Subscription, 0, len(g.subs))
	for s := range g.subs {
		subs = append(subs, s)
	}
	g.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}
