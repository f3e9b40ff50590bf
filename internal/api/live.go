package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snake-arena/internal/spectator"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = pongWait * 9 / 10
)

func (s *Server) listLiveGames(c *gin.Context) {
	c.JSON(http.StatusOK, s.hub.List())
}

func (s *Server) getLiveGame(c *gin.Context) {
	s.respondLive(c)(s.hub.Get(c.Param("id")))
}

func (s *Server) joinLiveGame(c *gin.Context) {
	s.respondLive(c)(s.hub.Join(c.Param("id")))
}

func (s *Server) leaveLiveGame(c *gin.Context) {
	s.respondLive(c)(s.hub.Leave(c.Param("id")))
}

func (s *Server) respondLive(c *gin.Context) func(spectator.LiveGame, error) {
	return func(g spectator.LiveGame, err error) {
		switch {
		case errors.Is(err, spectator.ErrGameNotFound):
			detail(c, http.StatusNotFound, "Game not found")
		case err != nil:
			s.internal(c, "live game", err)
		default:
			c.JSON(http.StatusOK, g)
		}
	}
}

// streamLiveGame upgrades to a websocket and pushes a snapshot per tick.
// The connection counts as a viewer while it is open.
func (s *Server) streamLiveGame(c *gin.Context) {
	sub, first, err := s.hub.Subscribe(c.Param("id"))
	if errors.Is(err, spectator.ErrGameNotFound) {
		detail(c, http.StatusNotFound, "Game not found")
		return
	}
	if err != nil {
		s.internal(c, "subscribe", err)
		return
	}
	defer sub.Close()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "game", sub.GameID(), "error", err)
		return
	}
	defer conn.Close()

	s.logger.Debug("viewer connected", "game", sub.GameID(), "remote", c.ClientIP())
	defer s.logger.Debug("viewer disconnected", "game", sub.GameID(), "remote", c.ClientIP())

	// Read side only handles control frames and notices the client leaving.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := writeJSON(conn, first); err != nil {
		return
	}
	for {
		select {
		case g, ok := <-sub.Updates():
			if !ok {
				return
			}
			if err := writeJSON(conn, g); err != nil {
				return
			}
		case <-sub.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "game ended"),
				time.Now().Add(writeWait))
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
