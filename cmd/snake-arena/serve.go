package main

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/snake-arena/internal/api"
	"github.com/vovakirdan/snake-arena/internal/auth"
	"github.com/vovakirdan/snake-arena/internal/config"
	"github.com/vovakirdan/snake-arena/internal/platform/tui"
	"github.com/vovakirdan/snake-arena/internal/spectator"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

var (
	flagHTTPAddr string
	flagSSHAddr  string
	flagHostKey  string
	flagNoSeed   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the snake arena server",
	Long: `Start the REST API with the leaderboard, accounts and live games.

With --ssh, the play screen is also served over SSH. SSH users get an
account named after their SSH user and their scores go to the same
leaderboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.snake-arena/host_key

When the configuration was loaded from a file, edits to its game and
autoplay sections apply to games started afterwards.

Examples:
  snake-arena serve                      # REST API on :8081
  snake-arena serve --http :9000         # Different API address
  snake-arena serve --ssh :2222          # Also serve play over SSH
  snake-arena serve --db ./arena.db      # Use specific database

Players can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP address (default from config)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "Also serve play over SSH on this address")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().BoolVar(&flagNoSeed, "no-seed", false, "Do not insert demo accounts into an empty database")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	if flagHTTPAddr != "" {
		cfg.Server.Addr = flagHTTPAddr
	}
	if flagSSHAddr != "" {
		cfg.SSH.Addr = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKeyPath = flagHostKey
	}

	store, err := storage.Open(cfg.Server.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Server.SeedDemo && !flagNoSeed {
		if err := seedDemo(store); err != nil {
			return err
		}
	}

	if cfg.Server.TokenSecret == config.Default().Server.TokenSecret {
		logger.Warn("using the default token secret, set server.token_secret in production")
	}
	issuer := auth.NewIssuer(cfg.Server.TokenSecret, cfg.Server.TokenTTL)

	hub := spectator.NewHub(spectatorConfig(cfg), logger)
	defer hub.Close()
	players := spectator.DemoPlayers()
	if n := cfg.Autoplay.LiveGames; n < len(players) {
		players = players[:max(0, n)]
	}
	if err := hub.Seed(players); err != nil {
		return err
	}

	srv := api.New(store, issuer, hub, api.Options{
		CORSOrigin: cfg.Server.CORSOrigin,
		Logger:     logger,
	})

	var sshServer *tui.SSHServer
	if flagSSHAddr != "" {
		sshServer, err = tui.NewSSHServer(tui.SSHServerConfig{
			Address:     cfg.SSH.Addr,
			HostKeyPath: cfg.SSH.HostKeyPath,
			IdleTimeout: cfg.SSH.IdleTimeout,
			FPS:         flagFPS,
			Tuning:      cfg.Game.Tuning(),
		}, store, logger)
		if err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	})
	if sshServer != nil {
		g.Go(func() error {
			return sshServer.ListenAndServe(ctx)
		})
	}
	if configPath != "" {
		g.Go(func() error {
			return watchConfig(ctx, hub, sshServer)
		})
	}

	fmt.Printf("Snake arena API listening on %s\n", cfg.Server.Addr)
	if sshServer != nil {
		fmt.Printf("Play over SSH: ssh localhost -p %s\n", portOf(cfg.SSH.Addr))
	}
	fmt.Println("Press Ctrl+C to stop")

	return g.Wait()
}

// seedDemo fills an empty database with the demo accounts.
func seedDemo(store *storage.Store) error {
	hash, err := auth.HashPassword(storage.DemoPassword)
	if err != nil {
		return err
	}
	seeded, err := store.SeedDemo(hash)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("seeded demo accounts", "password", storage.DemoPassword)
	}
	return nil
}

func spectatorConfig(cfg config.Config) spectator.Config {
	sc := spectator.DefaultConfig()
	sc.Interval = cfg.Autoplay.Interval
	sc.SecondBestChance = cfg.Autoplay.SecondBestChance
	sc.ScorePerFood = cfg.Game.ScorePerFood
	return sc
}

// watchConfig applies edits of the configuration file to games started
// afterwards. Running games keep their settings.
func watchConfig(ctx context.Context, hub *spectator.Hub, sshServer *tui.SSHServer) error {
	preset, presetErr := config.ParseDifficulty(flagDifficulty)
	err := config.Watch(ctx, configPath, func(cfg config.Config) {
		if flagDifficulty != "" && presetErr == nil {
			cfg = cfg.WithDifficulty(preset)
		}
		hub.SetConfig(spectatorConfig(cfg))
		if sshServer != nil {
			sshServer.SetTuning(cfg.Game.Tuning())
		}
		logger.Info("configuration reloaded", "path", configPath)
	}, func(err error) {
		logger.Warn("ignoring invalid configuration", "path", configPath, "error", err)
	})
	if err != nil {
		// Serving goes on without hot reload.
		logger.Warn("cannot watch configuration", "path", configPath, "error", err)
	}
	return nil
}

func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
