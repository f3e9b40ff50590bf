package spectator

import "sync"

// Subscription delivers snapshots of one live game.
type Subscription struct {
	gameID   string
	updates  chan LiveGame
	done     chan struct{}
	doneOnce sync.Once
	onClose  func()
}

func newSubscription(gameID string, buffer int, onClose func()) *Subscription {
	if buffer < 1 {
		buffer = 16
	}
	return &Subscription{
		gameID:  gameID,
		updates: make(chan LiveGame, buffer),
		done:    make(chan struct{}),
		onClose: onClose,
	}
}

// GameID returns the id of the watched game.
func (s *Subscription) GameID() string {
	return s.gameID
}

// Updates returns the channel snapshots arrive on.
func (s *Subscription) Updates() <-chan LiveGame {
	return s.updates
}

// Done returns a channel that closes when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close ends the subscription and releases its viewer slot.
// Safe to call multiple times.
func (s *Subscription) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
		if s.onClose != nil {
			s.onClose()
		}
	})
}

// send never blocks. When the buffer is full the oldest snapshot is dropped.
func (s *Subscription) send(g LiveGame) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.updates <- g:
	default:
		select {
		case <-s.updates:
		default:
		}
		select {
		case s.updates <- g:
		default:
		}
	}
}
