package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake-arena/internal/auth"
	"github.com/vovakirdan/snake-arena/internal/spectator"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

type testEnv struct {
	srv    *Server
	store  *storage.Store
	issuer *auth.Issuer
	hub    *spectator.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := log.New(io.Discard)
	cfg := spectator.DefaultConfig()
	cfg.Interval = 5 * time.Millisecond
	hub := spectator.NewHub(cfg, logger)
	t.Cleanup(hub.Close)

	issuer := auth.NewIssuer("test-secret", time.Hour)
	srv := New(store, issuer, hub, Options{CORSOrigin: "*", Logger: logger})
	return &testEnv{srv: srv, store: store, issuer: issuer, hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["detail"]
}

func (e *testEnv) signup(t *testing.T, name string) AuthResponse {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/signup", map[string]string{
		"email":    name + "@example.com",
		"password": "secret1",
		"username": name,
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("signup %s: status %d, body %s", name, rec.Code, rec.Body.String())
	}
	return decode[AuthResponse](t, rec)
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, expected 200", rec.Code)
	}
}

func TestSignupAndLogin(t *testing.T) {
	e := newTestEnv(t)

	resp := e.signup(t, "alice")
	if resp.Token == "" {
		t.Fatal("signup returned empty token")
	}
	if resp.User.Username != "alice" || resp.User.Email != "alice@example.com" {
		t.Errorf("signup user = %+v", resp.User)
	}
	if id, err := e.issuer.Verify(resp.Token); err != nil || id != resp.User.ID {
		t.Errorf("token subject = %q, %v; expected %q", id, err, resp.User.ID)
	}

	rec := e.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "ALICE@example.com", "password": "secret1",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decode[AuthResponse](t, rec); got.User.ID != resp.User.ID {
		t.Errorf("login user id = %q, expected %q", got.User.ID, resp.User.ID)
	}
}

func TestSignupValidation(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "alice")

	tests := []struct {
		name   string
		body   map[string]string
		detail string
	}{
		{"duplicate email", map[string]string{"email": "alice@example.com", "password": "secret1", "username": "bob"}, "Email or username already exists"},
		{"duplicate username", map[string]string{"email": "bob@example.com", "password": "secret1", "username": "alice"}, "Email or username already exists"},
		{"short password", map[string]string{"email": "bob@example.com", "password": "abc", "username": "bob"}, "Password must be at least 6 characters"},
		{"bad email", map[string]string{"email": "bob", "password": "secret1", "username": "bob"}, "A valid email is required"},
		{"missing username", map[string]string{"email": "bob@example.com", "password": "secret1"}, "Username is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/auth/signup", tt.body, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected 400", rec.Code)
			}
			if got := detailOf(t, rec); got != tt.detail {
				t.Errorf("detail = %q, expected %q", got, tt.detail)
			}
		})
	}
}

func TestLoginFailures(t *testing.T) {
	e := newTestEnv(t)
	e.signup(t, "alice")

	for _, body := range []map[string]string{
		{"email": "alice@example.com", "password": "wrong-pass"},
		{"email": "nobody@example.com", "password": "secret1"},
	} {
		rec := e.do(t, http.MethodPost, "/auth/login", body, "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("login %v: status = %d, expected 401", body, rec.Code)
		}
		if got := detailOf(t, rec); got != "Invalid email or password" {
			t.Errorf("detail = %q", got)
		}
	}
}

func TestMe(t *testing.T) {
	e := newTestEnv(t)
	resp := e.signup(t, "alice")

	rec := e.do(t, http.MethodGet, "/auth/me", nil, resp.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	if u := decode[storage.User](t, rec); u.ID != resp.User.ID {
		t.Errorf("me id = %q, expected %q", u.ID, resp.User.ID)
	}

	for _, token := range []string{"", "garbage"} {
		rec := e.do(t, http.MethodGet, "/auth/me", nil, token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, expected 401", token, rec.Code)
		}
		if got := detailOf(t, rec); got != "Could not validate credentials" {
			t.Errorf("detail = %q", got)
		}
	}
}

func TestLogout(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/auth/logout", nil, "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, expected 200", rec.Code)
	}
	if got := detailOf(t, rec); got != "Successfully logged out" {
		t.Errorf("detail = %q", got)
	}
}

func TestUpdateProfile(t *testing.T) {
	e := newTestEnv(t)
	alice := e.signup(t, "alice")
	e.signup(t, "bob")

	rec := e.do(t, http.MethodPatch, "/users/profile", map[string]string{"username": "alicia", "avatar": "🐍"}, alice.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	u := decode[storage.User](t, rec)
	if u.Username != "alicia" || u.Avatar != "🐍" {
		t.Errorf("updated user = %+v", u)
	}

	rec = e.do(t, http.MethodPatch, "/users/profile", map[string]string{"username": "bob"}, alice.Token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("taken username: status = %d, expected 400", rec.Code)
	}

	rec = e.do(t, http.MethodPatch, "/users/profile", map[string]string{"avatar": "x"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, expected 401", rec.Code)
	}
}

func TestSubmitScoreAndLeaderboard(t *testing.T) {
	e := newTestEnv(t)
	alice := e.signup(t, "alice")
	bob := e.signup(t, "bob")

	submit := func(token string, score int, mode string) *httptest.ResponseRecorder {
		return e.do(t, http.MethodPost, "/leaderboard/submit", map[string]any{"score": score, "mode": mode}, token)
	}

	if rec := submit(alice.Token, 120, "walls"); rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec := submit(bob.Token, 300, "walls")
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d", rec.Code)
	}
	if entry := decode[storage.LeaderboardEntry](t, rec); entry.Rank != 1 || entry.Username != "bob" {
		t.Errorf("bob entry = %+v, expected rank 1", entry)
	}
	if rec := submit(alice.Token, 50, "pass-through"); rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d", rec.Code)
	}

	rec = e.do(t, http.MethodGet, "/leaderboard", nil, "")
	entries := decode[[]storage.LeaderboardEntry](t, rec)
	if len(entries) != 3 {
		t.Fatalf("leaderboard has %d entries, expected 3", len(entries))
	}
	for i, entry := range entries {
		if entry.Rank != i+1 {
			t.Errorf("entry %d rank = %d", i, entry.Rank)
		}
		if i > 0 && entry.Score > entries[i-1].Score {
			t.Errorf("entries not sorted: %d after %d", entry.Score, entries[i-1].Score)
		}
	}

	rec = e.do(t, http.MethodGet, "/leaderboard?mode=walls&limit=1", nil, "")
	entries = decode[[]storage.LeaderboardEntry](t, rec)
	if len(entries) != 1 || entries[0].Score != 300 {
		t.Errorf("walls top 1 = %+v", entries)
	}

	rec = e.do(t, http.MethodGet, "/users/"+alice.User.ID+"/stats", nil, "")
	stats := decode[storage.UserStats](t, rec)
	if stats.HighScore != 120 || stats.GamesPlayed != 2 || stats.Rank != 2 {
		t.Errorf("alice stats = %+v, expected {120 2 2}", stats)
	}
}

func TestSubmitScoreValidation(t *testing.T) {
	e := newTestEnv(t)
	alice := e.signup(t, "alice")

	tests := []struct {
		name   string
		body   map[string]any
		token  string
		status int
	}{
		{"no token", map[string]any{"score": 10, "mode": "walls"}, "", http.StatusUnauthorized},
		{"missing score", map[string]any{"mode": "walls"}, alice.Token, http.StatusBadRequest},
		{"missing mode", map[string]any{"score": 10}, alice.Token, http.StatusBadRequest},
		{"negative score", map[string]any{"score": -1, "mode": "walls"}, alice.Token, http.StatusBadRequest},
		{"bad mode", map[string]any{"score": 10, "mode": "portal"}, alice.Token, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/leaderboard/submit", tt.body, tt.token)
			if rec.Code != tt.status {
				t.Errorf("status = %d, expected %d", rec.Code, tt.status)
			}
		})
	}

	rec := e.do(t, http.MethodPost, "/leaderboard/submit", map[string]any{"mode": "walls"}, alice.Token)
	if got := detailOf(t, rec); got != "Score and mode are required" {
		t.Errorf("detail = %q", got)
	}
}

func TestLeaderboardBadQuery(t *testing.T) {
	e := newTestEnv(t)
	for _, path := range []string{"/leaderboard?mode=portal", "/leaderboard?limit=0", "/leaderboard?limit=abc"} {
		if rec := e.do(t, http.MethodGet, path, nil, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, expected 400", path, rec.Code)
		}
	}
}

func TestUserStatsUnknown(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/users/nobody/stats", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", rec.Code)
	}
}

func TestLiveGames(t *testing.T) {
	e := newTestEnv(t)
	if err := e.hub.Seed(spectator.DemoPlayers()); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}

	rec := e.do(t, http.MethodGet, "/live-games", nil, "")
	games := decode[[]spectator.LiveGame](t, rec)
	if len(games) != 3 {
		t.Fatalf("got %d live games, expected 3", len(games))
	}
	id := games[0].ID

	rec = e.do(t, http.MethodGet, "/live-games/"+id, nil, "")
	if g := decode[spectator.LiveGame](t, rec); g.PlayerName != "NeonViper" {
		t.Errorf("player = %q, expected NeonViper", g.PlayerName)
	}

	rec = e.do(t, http.MethodPost, "/live-games/"+id+"/join", nil, "")
	if g := decode[spectator.LiveGame](t, rec); g.Viewers != 13 {
		t.Errorf("viewers after join = %d, expected 13", g.Viewers)
	}
	rec = e.do(t, http.MethodPost, "/live-games/"+id+"/leave", nil, "")
	if g := decode[spectator.LiveGame](t, rec); g.Viewers != 12 {
		t.Errorf("viewers after leave = %d, expected 12", g.Viewers)
	}

	for _, path := range []string{"/live-games/missing", "/live-games/missing/join", "/live-games/missing/leave"} {
		method := http.MethodPost
		if path == "/live-games/missing" {
			method = http.MethodGet
		}
		if rec := e.do(t, method, path, nil, ""); rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, expected 404", path, rec.Code)
		}
	}
}

func TestLiveGameStream(t *testing.T) {
	e := newTestEnv(t)
	g, err := e.hub.Add(spectator.Player{ID: "7", Name: "Streamer", Viewers: 0})
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	ts := httptest.NewServer(e.srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live-games/" + g.ID + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for i := range 3 {
		var snap spectator.LiveGame
		if err := conn.ReadJSON(&snap); err != nil {
			t.Fatalf("ReadJSON() #%d failed: %v", i, err)
		}
		if snap.ID != g.ID {
			t.Errorf("snapshot id = %q, expected %q", snap.ID, g.ID)
		}
		if snap.Viewers != 1 {
			t.Errorf("snapshot viewers = %d, expected 1 while streaming", snap.Viewers)
		}
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, _ := e.hub.Get(g.ID)
		if got.Viewers == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("viewer count did not drop after the stream closed")
}

func TestLiveGameStreamUnknown(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/live-games/missing/stream", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodOptions, "/leaderboard", nil, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, expected 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q, expected *", got)
	}
}
