// Package tui provides the Bubble Tea front ends of snake arena: the play
// screen, the live game viewer, the leaderboard table and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 60

// TickMsg is sent on every frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends one frame message at fps.
func tickCmd(fps int) tea.Cmd {
	if fps <= 0 {
		fps = DefaultFPS
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
