package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-arena/internal/api"
	"github.com/vovakirdan/snake-arena/internal/auth"
	"github.com/vovakirdan/snake-arena/internal/session"
	"github.com/vovakirdan/snake-arena/internal/spectator"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

type testServer struct {
	url string
	hub *spectator.Hub
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "client.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := log.New(io.Discard)
	cfg := spectator.DefaultConfig()
	cfg.Interval = 5 * time.Millisecond
	hub := spectator.NewHub(cfg, logger)
	t.Cleanup(hub.Close)

	srv := api.New(store, auth.NewIssuer("test-secret", time.Hour), hub, api.Options{Logger: logger})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return testServer{url: ts.URL, hub: hub}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	sess, err := session.Load(filepath.Join(t.TempDir(), "session.yaml"))
	if err != nil {
		t.Fatalf("session.Load() failed: %v", err)
	}
	return New(baseURL, 5*time.Second, sess)
}

func TestSignupLoginLogout(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts.url)
	ctx := context.Background()

	u, err := c.Signup(ctx, "alice@example.com", "secret1", "alice")
	if err != nil {
		t.Fatalf("Signup() failed: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q, expected alice", u.Username)
	}
	if !c.Session().IsAuthenticated() {
		t.Fatal("session not authenticated after signup")
	}

	reloaded, err := session.Load(c.Session().Path())
	if err != nil {
		t.Fatalf("session.Load() failed: %v", err)
	}
	if reloaded.Token != c.Session().Token || reloaded.User.ID != u.ID {
		t.Error("signup did not persist the session")
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}
	if c.Session().IsAuthenticated() {
		t.Error("session still authenticated after logout")
	}

	if _, err := c.Login(ctx, "alice@example.com", "secret1"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	me, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me() failed: %v", err)
	}
	if me.ID != u.ID {
		t.Errorf("Me() id = %q, expected %q", me.ID, u.ID)
	}
}

func TestAPIErrorDetail(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts.url)
	ctx := context.Background()

	_, err := c.Login(ctx, "nobody@example.com", "secret1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, expected *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Detail != "Invalid email or password" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if apiErr.Error() != "api: Invalid email or password" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestNotAuthenticated(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts.url)
	ctx := context.Background()

	if _, err := c.SubmitScore(ctx, 10, "walls"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("SubmitScore() without login error = %v, expected ErrNotAuthenticated", err)
	}

	// A stale token is rejected by the server and dropped locally.
	if err := c.Session().SetAuth(session.User{ID: "ghost"}, "stale-token"); err != nil {
		t.Fatalf("SetAuth() failed: %v", err)
	}
	_, err := c.Me(ctx)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Me() with stale token error = %v, expected ErrNotAuthenticated", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "Could not validate credentials" {
		t.Errorf("Me() error does not carry the server detail: %v", err)
	}
	if c.Session().IsAuthenticated() {
		t.Error("session kept a rejected token")
	}
}

func TestScoresAndLeaderboard(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts.url)
	ctx := context.Background()

	u, err := c.Signup(ctx, "alice@example.com", "secret1", "alice")
	if err != nil {
		t.Fatalf("Signup() failed: %v", err)
	}

	entry, err := c.SubmitScore(ctx, 70, "pass-through")
	if err != nil {
		t.Fatalf("SubmitScore() failed: %v", err)
	}
	if entry.Rank != 1 || entry.Score != 70 {
		t.Errorf("entry = %+v", entry)
	}
	if _, err := c.SubmitScore(ctx, 40, "walls"); err != nil {
		t.Fatalf("SubmitScore() failed: %v", err)
	}

	all, err := c.Leaderboard(ctx, "", 0)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	if len(all) != 2 || all[0].Score != 70 {
		t.Errorf("leaderboard = %+v", all)
	}
	walls, err := c.Leaderboard(ctx, "walls", 10)
	if err != nil {
		t.Fatalf("Leaderboard(walls) failed: %v", err)
	}
	if len(walls) != 1 || walls[0].Mode != "walls" {
		t.Errorf("walls leaderboard = %+v", walls)
	}

	stats, err := c.UserStats(ctx, u.ID)
	if err != nil {
		t.Fatalf("UserStats() failed: %v", err)
	}
	if stats.HighScore != 70 || stats.GamesPlayed != 2 || stats.Rank != 1 {
		t.Errorf("stats = %+v", stats)
	}

	name := "alicia"
	updated, err := c.UpdateProfile(ctx, &name, nil)
	if err != nil {
		t.Fatalf("UpdateProfile() failed: %v", err)
	}
	if updated.Username != "alicia" || c.Session().User.Username != "alicia" {
		t.Errorf("profile not updated: %+v", updated)
	}
}

func TestLiveGamesAndWatch(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts.url)
	ctx := context.Background()

	if err := ts.hub.Seed(spectator.DemoPlayers()[:1]); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}

	games, err := c.LiveGames(ctx)
	if err != nil {
		t.Fatalf("LiveGames() failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("got %d live games, expected 1", len(games))
	}
	id := games[0].ID

	joined, err := c.JoinLiveGame(ctx, id)
	if err != nil {
		t.Fatalf("JoinLiveGame() failed: %v", err)
	}
	if joined.Viewers != games[0].Viewers+1 {
		t.Errorf("viewers after join = %d", joined.Viewers)
	}
	if _, err := c.LeaveLiveGame(ctx, id); err != nil {
		t.Fatalf("LeaveLiveGame() failed: %v", err)
	}

	var apiErr *APIError
	if _, err := c.LiveGame(ctx, "missing"); !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("LiveGame(missing) error = %v, expected 404", err)
	}

	watchCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	received := 0
	err = c.Watch(watchCtx, id, func(g spectator.LiveGame) {
		if g.ID != id {
			t.Errorf("snapshot id = %q, expected %q", g.ID, id)
		}
		received++
		if received == 3 {
			cancel()
		}
	})
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	if received < 3 {
		t.Errorf("received %d snapshots, expected at least 3", received)
	}
}

func TestWatchUnknownGame(t *testing.T) {
	ts := newTestServer(t)
	c := newTestClient(t, ts.url)

	err := c.Watch(context.Background(), "missing", func(spectator.LiveGame) {})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("Watch(missing) error = %v, expected 404", err)
	}
}

func TestStreamURL(t *testing.T) {
	tests := []struct {
		base, expected string
	}{
		{"http://localhost:8081", "ws://localhost:8081/live-games/abc/stream"},
		{"https://arena.example.com/api/", "wss://arena.example.com/api/live-games/abc/stream"},
	}
	for _, tt := range tests {
		c := New(tt.base, 0, nil)
		got, err := c.streamURL("abc")
		if err != nil {
			t.Fatalf("streamURL() failed: %v", err)
		}
		if got != tt.expected {
			t.Errorf("streamURL(%q) = %q, expected %q", tt.base, got, tt.expected)
		}
	}
}
