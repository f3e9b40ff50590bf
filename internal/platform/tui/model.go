package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-arena/internal/client"
	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/registry"
	"github.com/vovakirdan/snake-arena/internal/sound"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

// submitTimeout bounds one score submission.
const submitTimeout = 10 * time.Second

// ScoreSubmitter records finished games. The REST client and the local
// store adapter used for SSH players both implement it.
type ScoreSubmitter interface {
	SubmitScore(ctx context.Context, score int, mode string) (storage.LeaderboardEntry, error)
}

// PlayOptions configures a play session.
type PlayOptions struct {
	FPS    int
	Cues   sound.Cues     // nil plays nothing
	Scores ScoreSubmitter // nil keeps scores local to the screen
	Logger *log.Logger
}

// scoreSubmittedMsg carries the outcome of an asynchronous submission.
type scoreSubmittedMsg struct {
	score int
	entry storage.LeaderboardEntry
	err   error
}

// Model is the Bubble Tea model for playing snake.
type Model struct {
	game     registry.Game
	screen   *core.Screen
	config   core.RuntimeConfig
	opts     PlayOptions
	keys     *KeyMapper
	input    core.InputFrame
	state    core.GameState
	notice   string
	quitting bool
}

// NewModel creates a play model for game.
func NewModel(game registry.Game, cfg core.RuntimeConfig, opts PlayOptions) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.FPS <= 0 {
		opts.FPS = cfg.TickRate
	}
	if opts.Cues == nil {
		opts.Cues = sound.Silent{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	cfg.TickRate = opts.FPS

	game.Reset(cfg)
	return Model{
		game:   game,
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config: cfg,
		opts:   opts,
		keys:   NewKeyMapper(),
		input:  core.NewInputFrame(),
		state:  game.State(),
	}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.FPS)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.keys.MapKeyToFrame(msg, &m.input) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case scoreSubmittedMsg:
		m.notice = m.submissionNotice(msg)
		return m, nil
	}

	return m, nil
}

// handleTick feeds the buffered input to the game and reacts to its events.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	result := m.game.Step(m.input, now)
	m.input.Clear()
	m.state = result.State

	cmds := []tea.Cmd{tickCmd(m.opts.FPS)}
	for _, ev := range result.Events {
		switch ev {
		case core.EventStarted:
			m.notice = ""
		case core.EventAte:
			m.opts.Cues.Eat()
		case core.EventCollision:
			m.opts.Cues.GameOver()
			if cmd := m.submitScore(result.State); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return m, tea.Batch(cmds...)
}

// submitScore returns a command that records a finished game, or nil when
// there is nothing to record.
func (m *Model) submitScore(st core.GameState) tea.Cmd {
	if st.Score <= 0 {
		return nil
	}
	if m.opts.Scores == nil {
		m.notice = fmt.Sprintf("Sign in to save your score! You scored %d points", st.Score)
		return nil
	}

	scores := m.opts.Scores
	m.notice = "Submitting score..."
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		entry, err := scores.SubmitScore(ctx, st.Score, st.Mode)
		return scoreSubmittedMsg{score: st.Score, entry: entry, err: err}
	}
}

func (m Model) submissionNotice(msg scoreSubmittedMsg) string {
	switch {
	case errors.Is(msg.err, client.ErrNotAuthenticated):
		return fmt.Sprintf("Sign in to save your score! You scored %d points", msg.score)
	case msg.err != nil:
		m.opts.Logger.Warn("could not submit score", "score", msg.score, "error", msg.err)
		return "Could not submit score: " + msg.err.Error()
	default:
		return fmt.Sprintf("Score submitted: %d (rank #%d)", msg.entry.Score, msg.entry.Rank)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.notice != "" {
		// The notice takes the place of the key help line.
		last := m.screen.Height() - 1
		m.screen.FillRect(core.NewRect(0, last, m.screen.Width(), 1), ' ')
		m.screen.DrawTextColored(1, last, m.notice, core.ColorCyan)
	}
	return RenderScreen(m.screen)
}

// Notice returns the status line shown under the board.
func (m Model) Notice() string {
	return m.notice
}

// State returns the game state after the last frame.
func (m Model) State() core.GameState {
	return m.state
}

// Run starts a play session in the current terminal.
func Run(game registry.Game, cfg core.RuntimeConfig, opts PlayOptions) error {
	p := tea.NewProgram(
		NewModel(game, cfg, opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
