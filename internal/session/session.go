// Package session persists the signed-in user and token of the terminal client.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/snake-arena/internal/config"
)

// User is the client's copy of the signed-in account.
type User struct {
	ID          string `yaml:"id" json:"id"`
	Username    string `yaml:"username" json:"username"`
	Email       string `yaml:"email" json:"email"`
	Avatar      string `yaml:"avatar,omitempty" json:"avatar,omitempty"`
	HighScore   int    `yaml:"high_score" json:"highScore"`
	GamesPlayed int    `yaml:"games_played" json:"gamesPlayed"`
}

// Session is the current user and bearer token. It is loaded at startup and
// saved at login, signup and profile updates.
type Session struct {
	User  *User  `yaml:"user,omitempty"`
	Token string `yaml:"token,omitempty"`

	path string
}

// Load reads the session file at path. A missing file yields an empty session.
func Load(path string) (*Session, error) {
	path = config.ExpandHome(path)
	s := &Session{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: cannot read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("session: cannot parse %s: %w", path, err)
	}
	return s, nil
}

// Path returns the file the session is stored in.
func (s *Session) Path() string {
	return s.path
}

// IsAuthenticated reports whether a token is held.
func (s *Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// SetAuth records a successful login and saves it.
func (s *Session) SetAuth(u User, token string) error {
	s.User = &u
	s.Token = token
	return s.Save()
}

// SetUser replaces the cached user, keeping the token, and saves it.
func (s *Session) SetUser(u User) error {
	s.User = &u
	return s.Save()
}

// Save writes the session file with owner-only permissions.
func (s *Session) Save() error {
	if s.path == "" {
		return errors.New("session: no path")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: cannot create directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: cannot encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: cannot write %s: %w", s.path, err)
	}
	return nil
}

// Clear forgets the user and token and removes the file.
func (s *Session) Clear() error {
	s.User = nil
	s.Token = ""
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: cannot remove %s: %w", s.path, err)
	}
	return nil
}
