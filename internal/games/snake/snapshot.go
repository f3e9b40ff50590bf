package snake

// Snapshot is a serializable view of a board, shared by the tick driver,
// autoplay runs and the live stream.
type Snapshot struct {
	Tick       uint64     `json:"tick"`
	Mode       Mode       `json:"mode"`
	Status     Status     `json:"status"`
	Score      int        `json:"score"`
	Snake      []Position `json:"snake"`
	Food       Position   `json:"food"`
	Direction  Direction  `json:"direction"`
	IntervalMS int64      `json:"intervalMs"`
}

// Snapshot captures the current round.
func (g *Game) Snapshot() Snapshot {
	food := g.food
	if !g.hasFood {
		food = NoFood
	}
	return Snapshot{
		Mode:       g.mode,
		Status:     g.status,
		Score:      g.score,
		Snake:      g.Snake(),
		Food:       food,
		Direction:  g.direction,
		IntervalMS: g.interval.Milliseconds(),
	}
}

// Snapshot captures the run. Runs are always playing in pass-through mode.
func (r *Run) Snapshot() Snapshot {
	return Snapshot{
		Tick:       r.ticks,
		Mode:       ModePassThrough,
		Status:     StatusPlaying,
		Score:      r.score,
		Snake:      r.Snake(),
		Food:       r.food,
		Direction:  r.direction,
		IntervalMS: DefaultAutoplayInterval.Milliseconds(),
	}
}
