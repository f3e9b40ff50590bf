// Package scheduler runs a step function on a fixed cadence.
// Each run owns its state; the step itself knows nothing about timing.
package scheduler

import (
	"context"
	"sync"
	"time"
)

// StepFunc is called once per tick with the tick time.
type StepFunc func(now time.Time)

// Task is a repeating task bound to an interval source.
type Task struct {
	step StepFunc

	mu       sync.Mutex
	interval time.Duration
	ticker   *time.Ticker

	done     chan struct{}
	doneOnce sync.Once
}

// Every creates a task that calls step every interval once Run is called.
func Every(interval time.Duration, step StepFunc) *Task {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Task{
		step:     step,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Interval returns the current cadence.
func (t *Task) Interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.interval
}

// SetInterval changes the cadence. A running task picks it up immediately.
func (t *Task) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interval = d
	if t.ticker != nil {
		t.ticker.Reset(d)
	}
}

// Run blocks, calling the step function on every tick until ctx is done or
// Stop is called. Ticks never overlap.
func (t *Task) Run(ctx context.Context) {
	t.mu.Lock()
	ticker := time.NewTicker(t.interval)
	t.ticker = ticker
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		ticker.Stop()
		t.ticker = nil
		t.mu.Unlock()
	}()

	for {
		select {
		case now := <-ticker.C:
			t.step(now)
		case <-ctx.Done():
			return
		case <-t.done:
			return
		}
	}
}

// Stop ends the task. Safe to call multiple times.
func (t *Task) Stop() {
	t.doneOnce.Do(func() {
		close(t.done)
	})
}

// Done returns a channel that closes when Stop is called.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
