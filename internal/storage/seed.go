package storage

import "fmt"

type demoUser struct {
	id, username, email string
	highScore, played   int
	createdAt           string
}

type demoScore struct {
	id, userID, username, mode string
	score                      int
	date                       string
}

var demoUsers = []demoUser{
	{"1", "SnakeMaster", "snakemaster@game.com", 2450, 342, "2024-01-15 10:00:00"},
	{"2", "NeonViper", "neonviper@game.com", 2100, 256, "2024-02-20 14:30:00"},
	{"3", "PixelPython", "pixelpython@game.com", 1980, 189, "2024-03-05 09:15:00"},
	{"4", "ArcadeAce", "arcadeace@game.com", 1875, 421, "2024-01-08 16:45:00"},
	{"5", "RetroRacer", "retroracer@game.com", 1650, 167, "2024-04-12 11:20:00"},
}

var demoScores = []demoScore{
	{"1", "1", "SnakeMaster", "walls", 2450, "2024-12-20 15:30:00"},
	{"2", "2", "NeonViper", "walls", 2100, "2024-12-19 12:00:00"},
	{"3", "3", "PixelPython", "pass-through", 1980, "2024-12-21 09:45:00"},
	{"4", "4", "ArcadeAce", "walls", 1875, "2024-12-18 20:15:00"},
	{"5", "5", "RetroRacer", "pass-through", 1650, "2024-12-17 14:30:00"},
	{"6", "6", "CyberSlither", "walls", 1520, "2024-12-16 18:00:00"},
	{"7", "7", "NightCrawler", "pass-through", 1480, "2024-12-15 22:45:00"},
	{"8", "8", "GlowWorm", "walls", 1350, "2024-12-14 10:30:00"},
	{"9", "9", "NeonNinja", "pass-through", 1290, "2024-12-13 16:15:00"},
	{"10", "10", "PixelProwler", "walls", 1180, "2024-12-12 11:00:00"},
}

// DemoPassword is the password of every seeded demo account.
const DemoPassword = "password123"

// SeedDemo fills an empty database with the demo accounts and leaderboard.
// passwordHash is stored for every demo account. It reports whether anything
// was inserted.
func (s *Store) SeedDemo(passwordHash string) (bool, error) {
	n, err := s.UserCount()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, u := range demoUsers {
		_, err := tx.Exec(
			`INSERT INTO users (id, username, email, password_hash, high_score, games_played, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			u.id, u.username, u.email, passwordHash, u.highScore, u.played, u.createdAt,
		)
		if err != nil {
			return false, fmt.Errorf("storage: cannot seed user %s: %w", u.username, err)
		}
	}

	for _, sc := range demoScores {
		_, err := tx.Exec(
			`INSERT INTO scores (id, user_id, username, score, mode, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			"demo-"+sc.id, sc.userID, sc.username, sc.score, sc.mode, sc.date,
		)
		if err != nil {
			return false, fmt.Errorf("storage: cannot seed score %s: %w", sc.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: cannot commit demo data: %w", err)
	}
	return true, nil
}

