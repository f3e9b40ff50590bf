package snake

import "time"

// Tuning holds the scoring and speed constants of a human game.
type Tuning struct {
	InitialInterval time.Duration // tick interval at score 0
	SpeedDecrement  time.Duration // subtracted from the interval per food
	MinInterval     time.Duration // floor for the interval
	ScorePerFood    int
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		InitialInterval: 150 * time.Millisecond,
		SpeedDecrement:  5 * time.Millisecond,
		MinInterval:     50 * time.Millisecond,
		ScorePerFood:    10,
	}
}

// NextInterval returns the interval after one more food pickup.
func (t Tuning) NextInterval(current time.Duration) time.Duration {
	return max(t.MinInterval, current-t.SpeedDecrement)
}
