package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

type submitRequest struct {
	Score *int   `json:"score"`
	Mode  string `json:"mode"`
}

func (s *Server) leaderboard(c *gin.Context) {
	mode := c.Query("mode")
	if mode != "" {
		if _, err := snake.ParseMode(mode); err != nil {
			detail(c, http.StatusBadRequest, "Invalid mode")
			return
		}
	}

	limit := storage.DefaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			detail(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	entries, err := s.store.Leaderboard(mode, limit)
	if err != nil {
		s.internal(c, "load leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) submitScore(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Score == nil || req.Mode == "" {
		detail(c, http.StatusBadRequest, "Score and mode are required")
		return
	}
	if *req.Score < 0 {
		detail(c, http.StatusBadRequest, "Score cannot be negative")
		return
	}
	mode, err := snake.ParseMode(req.Mode)
	if err != nil {
		detail(c, http.StatusBadRequest, "Invalid mode")
		return
	}

	entry, err := s.store.SaveScore(c.GetString(userIDKey), *req.Score, string(mode))
	if errors.Is(err, storage.ErrNotFound) {
		detail(c, http.StatusUnauthorized, credentialsDetail)
		return
	}
	if err != nil {
		s.internal(c, "save score", err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
