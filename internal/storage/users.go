package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a player account.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Avatar      string    `json:"avatar,omitempty"`
	HighScore   int       `json:"highScore"`
	GamesPlayed int       `json:"gamesPlayed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewUser holds the fields needed to create an account.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Avatar       string
}

// ProfileUpdate lists the profile fields to change. Nil fields are kept.
type ProfileUpdate struct {
	Username *string
	Avatar   *string
}

// UserStats summarizes a user's standing.
type UserStats struct {
	HighScore   int `json:"highScore"`
	GamesPlayed int `json:"gamesPlayed"`
	Rank        int `json:"rank"`
}

const userColumns = `id, username, email, avatar, high_score, games_played, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	var createdAt any
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Avatar, &u.HighScore, &u.GamesPlayed, &createdAt); err != nil {
		return User{}, err
	}
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

// CreateUser inserts a new account. Emails are stored lower-cased.
// Returns ErrUserExists when the email or username is taken.
func (s *Store) CreateUser(nu NewUser) (User, error) {
	nu.Email = strings.ToLower(strings.TrimSpace(nu.Email))
	nu.Username = strings.TrimSpace(nu.Username)

	tx, err := s.db.Begin()
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	var taken int
	err = tx.QueryRow(
		"SELECT COUNT(*) FROM users WHERE email = ? OR username = ?",
		nu.Email, nu.Username,
	).Scan(&taken)
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot check user: %w", err)
	}
	if taken > 0 {
		return User{}, ErrUserExists
	}

	u := User{
		ID:        uuid.NewString(),
		Username:  nu.Username,
		Email:     nu.Email,
		Avatar:    nu.Avatar,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}
	_, err = tx.Exec(
		`INSERT INTO users (id, username, email, password_hash, avatar, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, nu.PasswordHash, u.Avatar, u.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot create user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("storage: cannot commit user: %w", err)
	}
	return u, nil
}

// UserByID looks up a user by id.
func (s *Store) UserByID(id string) (User, error) {
	return s.userWhere("id = ?", id)
}

// UserByEmail looks up a user by email, case-insensitively.
func (s *Store) UserByEmail(email string) (User, error) {
	return s.userWhere("email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// UserByUsername looks up a user by username.
func (s *Store) UserByUsername(username string) (User, error) {
	return s.userWhere("username = ?", username)
}

func (s *Store) userWhere(cond string, arg any) (User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE "+cond, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot query user: %w", err)
	}
	return u, nil
}

// Credentials returns the user and stored password hash for an email.
func (s *Store) Credentials(email string) (User, string, error) {
	row := s.db.QueryRow(
		"SELECT "+userColumns+", password_hash FROM users WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)),
	)

	var u User
	var createdAt any
	var hash string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Avatar, &u.HighScore, &u.GamesPlayed, &createdAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, "", ErrNotFound
	}
	if err != nil {
		return User{}, "", fmt.Errorf("storage: cannot query credentials: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	return u, hash, nil
}

// UpdateProfile changes the username and/or avatar of a user.
func (s *Store) UpdateProfile(id string, upd ProfileUpdate) (User, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		var taken int
		err := tx.QueryRow(
			"SELECT COUNT(*) FROM users WHERE username = ? AND id != ?", name, id,
		).Scan(&taken)
		if err != nil {
			return User{}, fmt.Errorf("storage: cannot check username: %w", err)
		}
		if taken > 0 {
			return User{}, ErrUserExists
		}
		if _, err := tx.Exec("UPDATE users SET username = ? WHERE id = ?", name, id); err != nil {
			return User{}, fmt.Errorf("storage: cannot update username: %w", err)
		}
	}

	if upd.Avatar != nil {
		if _, err := tx.Exec("UPDATE users SET avatar = ? WHERE id = ?", *upd.Avatar, id); err != nil {
			return User{}, fmt.Errorf("storage: cannot update avatar: %w", err)
		}
	}

	u, err := scanUser(tx.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot reload user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("storage: cannot commit profile: %w", err)
	}
	return u, nil
}

// EnsureUser returns the account for username, creating a password-less one
// if needed. Used for SSH players, who are identified by their SSH user.
func (s *Store) EnsureUser(username string) (User, error) {
	u, err := s.UserByUsername(username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	u, err = s.CreateUser(NewUser{
		Username: username,
		Email:    strings.ToLower(username) + "@ssh.local",
	})
	if errors.Is(err, ErrUserExists) {
		// Lost a race with another session for the same user.
		return s.UserByUsername(username)
	}
	return u, err
}

// UserStats returns the high score, games played and rank of a user.
// Rank is one more than the number of users with a strictly higher high score.
func (s *Store) UserStats(id string) (UserStats, error) {
	u, err := s.UserByID(id)
	if err != nil {
		return UserStats{}, err
	}

	var higher int
	err = s.db.QueryRow(
		"SELECT COUNT(*) FROM users WHERE high_score > ?", u.HighScore,
	).Scan(&higher)
	if err != nil {
		return UserStats{}, fmt.Errorf("storage: cannot rank user: %w", err)
	}

	return UserStats{
		HighScore:   u.HighScore,
		GamesPlayed: u.GamesPlayed,
		Rank:        higher + 1,
	}, nil
}

// UserCount returns the number of accounts.
func (s *Store) UserCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count users: %w", err)
	}
	return n, nil
}
