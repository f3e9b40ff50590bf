package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestTaskRunsUntilCancelled(t *testing.T) {
	ticks := make(chan time.Time, 16)
	task := Every(2*time.Millisecond, func(now time.Time) {
		select {
		case ticks <- now:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan struct{})
	go func() {
		task.Run(ctx)
		close(finished)
	}()

	for i := range 3 {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d never arrived", i)
		}
	}

	cancel()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestTaskStop(t *testing.T) {
	task := Every(time.Hour, func(time.Time) {})

	finished := make(chan struct{})
	go func() {
		task.Run(context.Background())
		close(finished)
	}()

	task.Stop()
	task.Stop()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after Stop")
	}
	select {
	case <-task.Done():
	default:
		t.Error("Done() should be closed after Stop")
	}
}

func TestTaskInterval(t *testing.T) {
	task := Every(0, func(time.Time) {})
	if task.Interval() <= 0 {
		t.Errorf("Interval() = %v, expected a positive default", task.Interval())
	}

	task.SetInterval(120 * time.Millisecond)
	if task.Interval() != 120*time.Millisecond {
		t.Errorf("Interval() = %v, expected 120ms", task.Interval())
	}

	task.SetInterval(-1)
	if task.Interval() != 120*time.Millisecond {
		t.Error("non-positive intervals should be ignored")
	}
}
