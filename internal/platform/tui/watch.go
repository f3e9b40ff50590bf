package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/spectator"
)

// LiveWatcher streams snapshots of a live game until ctx is done.
type LiveWatcher interface {
	Watch(ctx context.Context, id string, fn func(spectator.LiveGame)) error
}

type snapshotMsg spectator.LiveGame

type streamEndedMsg struct{ err error }

// WatchModel shows a live game as it is streamed from the server.
type WatchModel struct {
	id       string
	screen   *core.Screen
	watcher  LiveWatcher
	msgs     chan tea.Msg
	cancel   context.CancelFunc
	game     *spectator.LiveGame
	err      error
	finished bool
	quitting bool
}

// NewWatchModel creates a viewer for live game id.
func NewWatchModel(watcher LiveWatcher, id string, width, height int) WatchModel {
	return WatchModel{
		id:      id,
		screen:  core.NewScreen(width, height),
		watcher: watcher,
		msgs:    make(chan tea.Msg, 8),
	}
}

// Init opens the stream.
func (m *WatchModel) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	// Snapshots and the final error share one channel to keep their order.
	msgs := m.msgs
	go func() {
		err := m.watcher.Watch(ctx, m.id, func(g spectator.LiveGame) {
			select {
			case msgs <- snapshotMsg(g):
			case <-ctx.Done():
			}
		})
		select {
		case msgs <- streamEndedMsg{err: err}:
		case <-ctx.Done():
		}
	}()
	return m.waitForUpdate()
}

// waitForUpdate delivers the next snapshot or the end of the stream.
func (m *WatchModel) waitForUpdate() tea.Cmd {
	msgs := m.msgs
	return func() tea.Msg {
		return <-msgs
	}
}

// Update handles messages.
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			m.stop()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)

	case snapshotMsg:
		g := spectator.LiveGame(msg)
		m.game = &g
		return m, m.waitForUpdate()

	case streamEndedMsg:
		m.finished = true
		m.err = msg.err
	}
	return m, nil
}

func (m *WatchModel) stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// View renders the last received snapshot.
func (m *WatchModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.game == nil && m.err != nil:
		m.screen.Clear()
		m.screen.DrawTextCentered(m.screen.Height()/2, "Cannot watch game: "+m.err.Error())
	case m.game == nil:
		m.screen.Clear()
		m.screen.DrawTextCentered(m.screen.Height()/2, "Connecting...")
	default:
		g := m.game
		hud := fmt.Sprintf(" %s  Score: %d  Mode: %s  Viewers: %d", g.PlayerName, g.Score, g.Mode.Title(), g.Viewers)
		snake.RenderBoard(m.screen, snapshotOf(*g), hud)

		footer := " Watching live  Q quit"
		if m.finished {
			footer = " Stream ended  Q quit"
		}
		m.screen.DrawTextColored(0, m.screen.Height()-1, footer, core.ColorGray)
	}
	return RenderScreen(m.screen)
}

// Err returns the error that ended the stream, if any.
func (m *WatchModel) Err() error {
	return m.err
}

func snapshotOf(g spectator.LiveGame) snake.Snapshot {
	return snake.Snapshot{
		Mode:   g.Mode,
		Status: g.Status,
		Score:  g.Score,
		Snake:  g.Snake,
		Food:   g.Food,
	}
}

// RunWatch shows live game id in the current terminal until the user quits.
func RunWatch(watcher LiveWatcher, id string, width, height int) error {
	m := NewWatchModel(watcher, id, width, height)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	m.stop()
	return m.Err()
}
