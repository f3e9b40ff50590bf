package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake-arena/internal/platform/tui"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "List live games",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cl, err := newClient()
		if err != nil {
			return err
		}
		games, err := cl.LiveGames(cmd.Context())
		if err != nil {
			return err
		}
		if len(games) == 0 {
			fmt.Println("No live games right now.")
			return nil
		}

		fmt.Printf("  %-36s  %-14s  %-6s  %-12s  %-7s  %s\n", "ID", "Player", "Score", "Mode", "Viewers", "Playing for")
		for _, g := range games {
			fmt.Printf("  %-36s  %-14s  %-6d  %-12s  %-7d  %s\n",
				g.ID, g.PlayerName, g.Score, g.Mode.Title(), g.Viewers, time.Since(g.StartedAt).Round(time.Second))
		}
		fmt.Println()
		fmt.Println("Run 'snake-arena watch <id>' to watch a game.")
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch <id>",
	Short: "Watch a live game",
	Long: `Stream a live game into the terminal. Press Q to stop watching.

Examples:
  snake-arena live
  snake-arena watch 3f2b6c1e-...`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cl, err := newClient()
		if err != nil {
			return err
		}

		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunWatch(cl, args[0], width, height)
	},
}
