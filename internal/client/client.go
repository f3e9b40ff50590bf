// Package client talks to the snake arena REST API on behalf of the terminal
// client, keeping the session file in sync with login state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/snake-arena/internal/session"
	"github.com/vovakirdan/snake-arena/internal/spectator"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

// ErrNotAuthenticated is returned when a call needs a login the session lacks,
// or the server rejected the stored token.
var ErrNotAuthenticated = errors.New("client: not authenticated")

// APIError is a non-2xx response. Detail is the server's reason.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %s", e.Detail)
}

// Client is a REST client bound to one session.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

// New creates a client. sess may be nil for anonymous use.
func New(baseURL string, timeout time.Duration, sess *session.Session) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if sess == nil {
		sess = &session.Session{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
	}
}

// Session returns the session the client keeps up to date.
func (c *Client) Session() *session.Session {
	return c.session
}

type authResponse struct {
	User  session.User `json:"user"`
	Token string       `json:"token"`
}

// Signup creates an account and stores the new session.
func (c *Client) Signup(ctx context.Context, email, password, username string) (session.User, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password, "username": username}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, &resp, false); err != nil {
		return session.User{}, err
	}
	if err := c.session.SetAuth(resp.User, resp.Token); err != nil {
		return resp.User, err
	}
	return resp.User, nil
}

// Login signs in and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) (session.User, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp, false); err != nil {
		return session.User{}, err
	}
	if err := c.session.SetAuth(resp.User, resp.Token); err != nil {
		return resp.User, err
	}
	return resp.User, nil
}

// Logout tells the server and clears the local session either way.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, false)
	if clearErr := c.session.Clear(); clearErr != nil {
		return clearErr
	}
	return err
}

// Me refreshes the signed-in user from the server.
func (c *Client) Me(ctx context.Context) (session.User, error) {
	var u session.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &u, true); err != nil {
		return session.User{}, err
	}
	return u, c.session.SetUser(u)
}

// UpdateProfile changes the username and/or avatar. Nil fields are kept.
func (c *Client) UpdateProfile(ctx context.Context, username, avatar *string) (session.User, error) {
	body := map[string]string{}
	if username != nil {
		body["username"] = *username
	}
	if avatar != nil {
		body["avatar"] = *avatar
	}
	var u session.User
	if err := c.do(ctx, http.MethodPatch, "/users/profile", body, &u, true); err != nil {
		return session.User{}, err
	}
	return u, c.session.SetUser(u)
}

// UserStats returns the standing of a user.
func (c *Client) UserStats(ctx context.Context, userID string) (storage.UserStats, error) {
	var stats storage.UserStats
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/stats", nil, &stats, false)
	return stats, err
}

// Leaderboard fetches ranked entries, optionally for one mode.
func (c *Client) Leaderboard(ctx context.Context, mode string, limit int) ([]storage.LeaderboardEntry, error) {
	q := url.Values{}
	if mode != "" {
		q.Set("mode", mode)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/leaderboard"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var entries []storage.LeaderboardEntry
	err := c.do(ctx, http.MethodGet, path, nil, &entries, false)
	return entries, err
}

// SubmitScore records a finished game for the signed-in user.
func (c *Client) SubmitScore(ctx context.Context, score int, mode string) (storage.LeaderboardEntry, error) {
	var entry storage.LeaderboardEntry
	body := map[string]any{"score": score, "mode": mode}
	err := c.do(ctx, http.MethodPost, "/leaderboard/submit", body, &entry, true)
	return entry, err
}

// LiveGames lists the games that can be watched.
func (c *Client) LiveGames(ctx context.Context) ([]spectator.LiveGame, error) {
	var games []spectator.LiveGame
	err := c.do(ctx, http.MethodGet, "/live-games", nil, &games, false)
	return games, err
}

// LiveGame fetches one live game.
func (c *Client) LiveGame(ctx context.Context, id string) (spectator.LiveGame, error) {
	var g spectator.LiveGame
	err := c.do(ctx, http.MethodGet, "/live-games/"+url.PathEscape(id), nil, &g, false)
	return g, err
}

// JoinLiveGame counts the caller as a viewer.
func (c *Client) JoinLiveGame(ctx context.Context, id string) (spectator.LiveGame, error) {
	var g spectator.LiveGame
	err := c.do(ctx, http.MethodPost, "/live-games/"+url.PathEscape(id)+"/join", nil, &g, false)
	return g, err
}

// LeaveLiveGame stops counting the caller as a viewer.
func (c *Client) LeaveLiveGame(ctx context.Context, id string) (spectator.LiveGame, error) {
	var g spectator.LiveGame
	err := c.do(ctx, http.MethodPost, "/live-games/"+url.PathEscape(id)+"/leave", nil, &g, false)
	return g, err
}

// do sends a JSON request and decodes a JSON response into out.
// With auth set, the session token is attached; a missing token or a 401
// yields ErrNotAuthenticated, and the 401 also clears the session.
func (c *Client) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	if auth && !c.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: cannot encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: cannot build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Detail = payload.Detail
		}
		if auth && resp.StatusCode == http.StatusUnauthorized {
			_ = c.session.Clear()
			return fmt.Errorf("%w: %w", ErrNotAuthenticated, apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: cannot decode response: %w", err)
	}
	return nil
}
