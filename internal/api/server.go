// Package api serves the snake arena REST API and the live game stream.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake-arena/internal/auth"
	"github.com/vovakirdan/snake-arena/internal/spectator"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

// Options configures a Server.
type Options struct {
	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty disables CORS.
	CORSOrigin string
	Logger     *log.Logger
}

// Server wires the HTTP handlers to storage, tokens and the live game hub.
type Server struct {
	store    *storage.Store
	issuer   *auth.Issuer
	hub      *spectator.Hub
	logger   *log.Logger
	router   *gin.Engine
	upgrader websocket.Upgrader
}

// New creates a server and registers its routes.
func New(store *storage.Store, issuer *auth.Issuer, hub *spectator.Hub, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		store:  store,
		issuer: issuer,
		hub:    hub,
		logger: logger.WithPrefix("api"),
		router: gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	s.router.Use(gin.Recovery(), requestLogger(s.logger))
	if opts.CORSOrigin != "" {
		s.router.Use(cors(opts.CORSOrigin))
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/auth")
	authGroup.POST("/signup", s.signup)
	authGroup.POST("/login", s.login)
	authGroup.POST("/logout", s.logout)
	authGroup.GET("/me", s.requireUser, s.me)

	r.PATCH("/users/profile", s.requireUser, s.updateProfile)
	r.GET("/users/:id/stats", s.userStats)

	r.GET("/leaderboard", s.leaderboard)
	r.POST("/leaderboard/submit", s.requireUser, s.submitScore)

	live := r.Group("/live-games")
	live.GET("", s.listLiveGames)
	live.GET("/:id", s.getLiveGame)
	live.POST("/:id/join", s.joinLiveGame)
	live.POST("/:id/leave", s.leaveLiveGame)
	live.GET("/:id/stream", s.streamLiveGame)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// detail aborts the request with a JSON {"detail": msg} body.
func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}
