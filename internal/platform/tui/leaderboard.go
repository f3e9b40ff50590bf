package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

const (
	leaderboardLimit   = 100
	leaderboardTimeout = 10 * time.Second
)

// LeaderboardSource loads ranked entries, optionally for one mode.
type LeaderboardSource interface {
	Leaderboard(ctx context.Context, mode string, limit int) ([]storage.LeaderboardEntry, error)
}

// leaderboardFilter is one tab of the leaderboard.
type leaderboardFilter struct {
	title string
	mode  snake.Mode
}

var leaderboardFilters = []leaderboardFilter{
	{title: "All modes"},
	{title: snake.ModePassThrough.Title(), mode: snake.ModePassThrough},
	{title: snake.ModeWalls.Title(), mode: snake.ModeWalls},
}

// LeaderboardKeyMap defines the key bindings for the leaderboard.
type LeaderboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LeaderboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k LeaderboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Refresh, k.Quit},
	}
}

// DefaultLeaderboardKeyMap returns default key bindings.
func DefaultLeaderboardKeyMap() LeaderboardKeyMap {
	return LeaderboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type leaderboardLoadedMsg struct {
	filter  int
	entries []storage.LeaderboardEntry
	err     error
}

// LeaderboardModel is the Bubble Tea model for the leaderboard screen.
type LeaderboardModel struct {
	source   LeaderboardSource
	filter   int
	entries  []storage.LeaderboardEntry
	err      error
	loading  bool
	table    table.Model
	help     help.Model
	keys     LeaderboardKeyMap
	width    int
	height   int
	quitting bool
}

// NewLeaderboardModel creates a leaderboard model starting on mode.
// An empty mode shows every mode.
func NewLeaderboardModel(source LeaderboardSource, mode snake.Mode, width, height int) LeaderboardModel {
	m := LeaderboardModel{
		source: source,
		keys:   DefaultLeaderboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	for i, f := range leaderboardFilters {
		if f.mode == mode {
			m.filter = i
		}
	}
	m.table = m.createTable()
	return m
}

// createTable creates a table sized to the window.
func (m *LeaderboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 8},
		{Title: "Mode", Width: 14},
		{Title: "Date", Width: 14},
	}

	height := m.height - 8
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load fetches the entries of the current filter.
func (m *LeaderboardModel) load() tea.Cmd {
	m.loading = true
	source, filter := m.source, m.filter
	mode := string(leaderboardFilters[filter].mode)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), leaderboardTimeout)
		defer cancel()
		entries, err := source.Leaderboard(ctx, mode, leaderboardLimit)
		return leaderboardLoadedMsg{filter: filter, entries: entries, err: err}
	}
}

// updateTableRows updates the table with the current entries.
func (m *LeaderboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		name := e.Username
		if e.Avatar != "" {
			name = e.Avatar + " " + name
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", e.Rank),
			name,
			fmt.Sprintf("%d", e.Score),
			snake.Mode(e.Mode).Title(),
			e.Date.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init loads the first page.
func (m LeaderboardModel) Init() tea.Cmd {
	return m.load()
}

// Update handles messages for the leaderboard.
func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMode):
			m.filter = (m.filter + 1) % len(leaderboardFilters)
			return m, m.load()

		case key.Matches(msg, m.keys.PrevMode):
			m.filter = (m.filter + len(leaderboardFilters) - 1) % len(leaderboardFilters)
			return m, m.load()

		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}

	case leaderboardLoadedMsg:
		// Drop results of a tab the user already left.
		if msg.filter != m.filter {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.entries = msg.entries
		m.updateTableRows()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the leaderboard.
func (m LeaderboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("LEADERBOARD", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m LeaderboardModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(leaderboardFilters))
	for i, f := range leaderboardFilters {
		if i == m.filter {
			tabs[i] = activeTabStyle.Render(f.title)
		} else {
			tabs[i] = tabStyle.Render(f.title)
		}
	}
	return strings.Join(tabs, " ")
}

// renderTableContent renders the table or a placeholder.
func (m LeaderboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.err != nil:
		return emptyStyle.Render("Could not load leaderboard:\n" + m.err.Error())
	case m.loading && len(m.entries) == 0:
		return emptyStyle.Render("Loading...")
	case len(m.entries) == 0:
		return emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!")
	}
	return m.table.View()
}

// Entries returns the entries currently shown.
func (m LeaderboardModel) Entries() []storage.LeaderboardEntry {
	return m.entries
}

// Mode returns the mode filter of the current tab. Empty means all modes.
func (m LeaderboardModel) Mode() snake.Mode {
	return leaderboardFilters[m.filter].mode
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	return strings.Repeat(" ", (width-textWidth)/2) + text
}

// RunLeaderboard shows the leaderboard in the current terminal.
func RunLeaderboard(source LeaderboardSource, mode snake.Mode, width, height int) error {
	p := tea.NewProgram(
		NewLeaderboardModel(source, mode, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
