package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/platform/tui"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

var (
	flagBoardMode string
	flagLimit     int
	flagPlain     bool
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Browse the online leaderboard",
	Long: `Show the server's ranked scores in an interactive table.

Tab switches between all modes, pass-through and walls. Use --plain to
print the table instead.

Examples:
  snake-arena leaderboard
  snake-arena leaderboard --mode walls
  snake-arena leaderboard --plain --limit 10`,
	Args: cobra.NoArgs,
	RunE: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().StringVar(&flagBoardMode, "mode", "", "Only show one mode: pass-through or walls")
	leaderboardCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries with --plain")
	leaderboardCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print instead of opening the interactive table")
}

func runLeaderboard(cmd *cobra.Command, _ []string) error {
	var mode snake.Mode
	if flagBoardMode != "" {
		m, err := snake.ParseMode(flagBoardMode)
		if err != nil {
			return err
		}
		mode = m
	}

	cl, err := newClient()
	if err != nil {
		return err
	}

	if !flagPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunLeaderboard(cl, mode, width, height)
	}

	entries, err := cl.Leaderboard(cmd.Context(), string(mode), flagLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-5s  %-16s  %-7s  %-12s  %s\n", "Rank", "Player", "Score", "Mode", "Date")
	fmt.Printf("  %-5s  %-16s  %-7s  %-12s  %s\n", "----", "------", "-----", "----", "----")
	for _, e := range entries {
		fmt.Printf("  #%-4d  %-16s  %-7d  %-12s  %s\n",
			e.Rank, e.Username, e.Score, snake.Mode(e.Mode).Title(), e.Date.Local().Format("2006-01-02"))
	}
	return nil
}

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show local database statistics per mode",
	Long: `Summarize the scores stored in the local database: games played,
best and average score for each mode.

Examples:
  snake-arena scores
  snake-arena scores --db ./arena.db`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(appConfig.Server.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.AllModeStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake-arena play' to set the first high score!")
		return nil
	}

	modes := make([]string, 0, len(stats))
	for mode := range stats {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	fmt.Printf("  %-12s  %-6s  %-6s  %-8s  %s\n", "Mode", "Games", "Best", "Average", "Last played")
	fmt.Printf("  %-12s  %-6s  %-6s  %-8s  %s\n", "----", "-----", "----", "-------", "-----------")
	for _, mode := range modes {
		s := stats[mode]
		fmt.Printf("  %-12s  %-6d  %-6d  %-8.1f  %s\n",
			snake.Mode(mode).Title(), s.GamesCount, s.HighScore, s.AvgScore, s.LastPlayed.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
