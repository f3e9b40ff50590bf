package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/platform/tui"
	"github.com/vovakirdan/snake-arena/internal/registry"
	"github.com/vovakirdan/snake-arena/internal/sound"
)

var (
	flagMode string
	flagMute bool
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play snake",
	Long: `Start a game in the terminal.

Controls:
  Arrows/WASD  - Steer
  Space        - Start, pause and resume
  Esc          - Reset the round
  Tab          - Switch between pass-through and walls (not while playing)
  Q/Ctrl+C     - Quit

When you are signed in (see 'snake-arena login'), finished games are
submitted to the leaderboard.

Examples:
  snake-arena play
  snake-arena play snake_walls
  snake-arena play --mode walls --difficulty hard
  snake-arena play --mute`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Boundary mode: pass-through or walls")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable sound cues")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := "snake"
	if len(args) == 1 {
		gameID = args[0]
	}
	if flagMode != "" {
		mode, err := snake.ParseMode(flagMode)
		if err != nil {
			return err
		}
		gameID = "snake"
		if mode == snake.ModeWalls {
			gameID = "snake_walls"
		}
	}
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'snake-arena list' to see available games", gameID)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}
	if g, ok := game.(*snake.Game); ok {
		g.SetTuning(appConfig.Game.Tuning())
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	cl, err := newClient()
	if err != nil {
		return err
	}

	cues := sound.New(appConfig.Sound.Enabled && !flagMute, logger)
	if closer, ok := cues.(interface{ Close() }); ok {
		defer closer.Close()
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
	return tui.Run(game, cfg, tui.PlayOptions{
		FPS:    flagFPS,
		Cues:   cues,
		Scores: cl,
		// Log lines would tear the alt screen; failures show in the notice line.
		Logger: log.New(io.Discard),
	})
}
