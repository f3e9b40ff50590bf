package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultLeaderboardLimit caps leaderboard queries without an explicit limit.
const DefaultLeaderboardLimit = 100

// LeaderboardEntry is one ranked score.
type LeaderboardEntry struct {
	ID       string    `json:"id"`
	Rank     int       `json:"rank"`
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Avatar   string    `json:"avatar,omitempty"`
	Score    int       `json:"score"`
	Mode     string    `json:"mode"`
	Date     time.Time `json:"date"`
}

// ModeStats contains aggregated statistics for one mode.
type ModeStats struct {
	Mode       string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// SaveScore records a finished game for userID and updates the user's high
// score and games played. The returned entry carries its rank within mode at
// the time of submission.
func (s *Store) SaveScore(userID string, score int, mode string) (LeaderboardEntry, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return LeaderboardEntry{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	u, err := scanUser(tx.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", userID))
	if errors.Is(err, sql.ErrNoRows) {
		return LeaderboardEntry{}, ErrNotFound
	}
	if err != nil {
		return LeaderboardEntry{}, fmt.Errorf("storage: cannot query user: %w", err)
	}

	entry := LeaderboardEntry{
		ID:       uuid.NewString(),
		UserID:   u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Score:    score,
		Mode:     mode,
		Date:     s.now().UTC().Truncate(time.Second),
	}

	_, err = tx.Exec(
		`INSERT INTO scores (id, user_id, username, avatar, score, mode, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Username, entry.Avatar, entry.Score, entry.Mode, entry.Date.Format(timeLayout),
	)
	if err != nil {
		return LeaderboardEntry{}, fmt.Errorf("storage: cannot save score: %w", err)
	}

	_, err = tx.Exec(
		`UPDATE users
		 SET high_score = MAX(high_score, ?), games_played = games_played + 1
		 WHERE id = ?`,
		score, u.ID,
	)
	if err != nil {
		return LeaderboardEntry{}, fmt.Errorf("storage: cannot update user stats: %w", err)
	}

	var higher int
	err = tx.QueryRow(
		"SELECT COUNT(*) FROM scores WHERE mode = ? AND score > ?", mode, score,
	).Scan(&higher)
	if err != nil {
		return LeaderboardEntry{}, fmt.Errorf("storage: cannot rank score: %w", err)
	}
	entry.Rank = higher + 1

	if err := tx.Commit(); err != nil {
		return LeaderboardEntry{}, fmt.Errorf("storage: cannot commit score: %w", err)
	}
	return entry, nil
}

// Leaderboard returns the best scores, highest first, ranked 1..N.
// An empty mode returns every mode. Ties keep submission order.
func (s *Store) Leaderboard(mode string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	query := `SELECT s.id, s.user_id, COALESCE(u.username, s.username), COALESCE(u.avatar, s.avatar),
		         s.score, s.mode, s.created_at
		  FROM scores s LEFT JOIN users u ON u.id = s.user_id`
	args := []any{}
	if mode != "" {
		query += " WHERE s.mode = ?"
		args = append(args, mode)
	}
	query += " ORDER BY s.score DESC, s.created_at ASC, s.rowid ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Avatar, &e.Score, &e.Mode, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Date = parseTime(createdAt)
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ModeStats retrieves aggregated statistics for one mode.
func (s *Store) ModeStats(mode string) (*ModeStats, error) {
	stats := &ModeStats{Mode: mode}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at)
		 FROM scores WHERE mode = ?`,
		mode,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mode stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// AllModeStats retrieves statistics for every mode that has been played.
func (s *Store) AllModeStats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), MAX(score), AVG(score), SUM(score), MAX(created_at)
		 FROM scores
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all mode stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var ms ModeStats
		var lastPlayed any
		if err := rows.Scan(&ms.Mode, &ms.GamesCount, &ms.HighScore, &ms.AvgScore, &ms.TotalScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ms.LastPlayed = parseTime(lastPlayed)
		stats[ms.Mode] = &ms
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
