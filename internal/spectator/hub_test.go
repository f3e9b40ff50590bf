package spectator

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Interval = 5 * time.Millisecond
	h := NewHub(cfg, log.New(io.Discard))
	t.Cleanup(h.Close)
	return h
}

func TestHubSeedAndList(t *testing.T) {
	h := newTestHub(t)

	if err := h.Seed(DemoPlayers()); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}

	games := h.List()
	if len(games) != 3 {
		t.Fatalf("List() returned %d games, expected 3", len(games))
	}
	names := []string{"NeonViper", "PixelPython", "ArcadeAce"}
	for i, g := range games {
		if g.PlayerName != names[i] {
			t.Errorf("game %d player = %q, expected %q", i, g.PlayerName, names[i])
		}
		if g.Status != snake.StatusPlaying {
			t.Errorf("game %d status = %q, expected playing", i, g.Status)
		}
		if len(g.Snake) < 3 {
			t.Errorf("game %d snake too short: %v", i, g.Snake)
		}
	}
	if games[0].Viewers != 12 {
		t.Errorf("viewers = %d, expected 12", games[0].Viewers)
	}

	got, err := h.Get(games[1].ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.PlayerName != "PixelPython" {
		t.Errorf("Get() player = %q", got.PlayerName)
	}
}

func TestHubUnknownGame(t *testing.T) {
	h := newTestHub(t)

	if _, err := h.Get("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Get() error = %v, expected ErrGameNotFound", err)
	}
	if _, err := h.Join("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Join() error = %v, expected ErrGameNotFound", err)
	}
	if _, _, err := h.Subscribe("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Subscribe() error = %v, expected ErrGameNotFound", err)
	}
	if err := h.Remove("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Remove() error = %v, expected ErrGameNotFound", err)
	}
}

func TestHubViewersNeverNegative(t *testing.T) {
	h := newTestHub(t)

	g, err := h.Add(Player{ID: "9", Name: "Solo", Mode: snake.ModeWalls})
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	left, err := h.Leave(g.ID)
	if err != nil {
		t.Fatalf("Leave() failed: %v", err)
	}
	if left.Viewers != 0 {
		t.Errorf("viewers = %d after leaving an empty game, expected 0", left.Viewers)
	}

	joined, _ := h.Join(g.ID)
	joined, _ = h.Join(g.ID)
	if joined.Viewers != 2 {
		t.Errorf("viewers = %d, expected 2", joined.Viewers)
	}
}

func TestHubSubscribe(t *testing.T) {
	h := newTestHub(t)

	g, _ := h.Add(Player{ID: "9", Name: "Solo", Viewers: 1})

	sub, view, err := h.Subscribe(g.ID)
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}
	if view.Viewers != 2 {
		t.Errorf("viewers = %d after subscribing, expected 2", view.Viewers)
	}

	select {
	case update := <-sub.Updates():
		if update.ID != g.ID {
			t.Errorf("update for %q, expected %q", update.ID, g.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
	}

	sub.Close()
	sub.Close()

	after, _ := h.Get(g.ID)
	if after.Viewers != 1 {
		t.Errorf("viewers = %d after closing the stream, expected 1", after.Viewers)
	}
}

func TestHubRemoveClosesStreams(t *testing.T) {
	h := newTestHub(t)

	g, _ := h.Add(Player{ID: "9", Name: "Solo"})
	sub, _, _ := h.Subscribe(g.ID)

	if err := h.Remove(g.ID); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription should end when its game is removed")
	}
	if h.Count() != 0 {
		t.Errorf("Count() = %d, expected 0", h.Count())
	}
}

func TestHubClose(t *testing.T) {
	h := newTestHub(t)
	_ = h.Seed(DemoPlayers())

	h.Close()

	if _, err := h.Add(Player{Name: "Late"}); !errors.Is(err, ErrClosed) {
		t.Errorf("Add() after Close error = %v, expected ErrClosed", err)
	}
}

func TestSubscriptionDropsOldest(t *testing.T) {
	sub := newSubscription("g", 2, nil)

	sub.send(LiveGame{Score: 1})
	sub.send(LiveGame{Score: 2})
	sub.send(LiveGame{Score: 3})

	first := <-sub.Updates()
	second := <-sub.Updates()
	if first.Score != 2 || second.Score != 3 {
		t.Errorf("received %d, %d; expected 2, 3", first.Score, second.Score)
	}

	sub.Close()
	sub.send(LiveGame{Score: 4})
	select {
	case <-sub.Updates():
		t.Error("closed subscription should not receive")
	default:
	}
}
