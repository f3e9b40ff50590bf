// snake-arena is a terminal snake game with an online leaderboard and
// spectator mode.
//
// Usage:
//
//	snake-arena play             - Play in the terminal
//	snake-arena serve            - Run the REST API (and optionally SSH play)
//	snake-arena leaderboard      - Browse the online leaderboard
//	snake-arena scores           - Show local database statistics per mode
//	snake-arena live             - List live games
//	snake-arena watch <id>       - Watch a live game
//	snake-arena signup|login     - Create an account or sign in
//	snake-arena logout|whoami    - Sign out or show the current account
//	snake-arena profile          - Change username or avatar
//	snake-arena list             - List game modes
//
// Global flags:
//
//	--config <path>      - Configuration file
//	--db <path>          - Database path (serve, scores)
//	--server <url>       - API base URL (client commands)
//	--fps <rate>         - Frame rate of the terminal screens
//	--seed <value>       - RNG seed for reproducible games
//	--difficulty <name>  - easy, normal or hard
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake-arena/internal/config"
)

var (
	// Global flags
	flagConfig     string
	flagDBPath     string
	flagServer     string
	flagFPS        int
	flagSeed       int64
	flagDifficulty string
	flagLogLevel   string
)

// Loaded by the root command before any subcommand runs.
var (
	appConfig  config.Config
	configPath string // empty when the embedded defaults are used
	logger     *log.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake-arena",
	Short: "Snake Arena - play snake in your terminal",
	Long: `Snake Arena is a terminal snake game with accounts, an online
leaderboard and live games you can watch.

Examples:
  snake-arena play --mode walls
  snake-arena serve --ssh :2222
  snake-arena login --email you@example.com
  snake-arena leaderboard --mode pass-through
  snake-arena live
  snake-arena watch <game-id>`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "Path to configuration YAML")
	flags.StringVar(&flagDBPath, "db", "", "Path to the database (default from config)")
	flags.StringVar(&flagServer, "server", "", "API base URL (default from config)")
	flags.IntVar(&flagFPS, "fps", 60, "Frame rate of the terminal screens")
	flags.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	flags.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	flags.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		listCmd,
		playCmd,
		serveCmd,
		leaderboardCmd,
		scoresCmd,
		liveCmd,
		watchCmd,
		signupCmd,
		loginCmd,
		logoutCmd,
		whoamiCmd,
		profileCmd,
	)
}

// loadConfig reads the configuration and applies the global flags over it.
func loadConfig(_ *cobra.Command, _ []string) error {
	cfg, path, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDifficulty != "" {
		preset, err := config.ParseDifficulty(flagDifficulty)
		if err != nil {
			return err
		}
		cfg = cfg.WithDifficulty(preset)
	}
	if flagDBPath != "" {
		cfg.Server.DBPath = flagDBPath
	}
	if flagServer != "" {
		cfg.Client.BaseURL = flagServer
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake-arena",
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	logger.SetLevel(level)
	if path != "" {
		logger.Debug("loaded configuration", "path", path)
	}

	appConfig = cfg
	configPath = path
	return nil
}
