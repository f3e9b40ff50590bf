package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/snake-arena/internal/auth"
	"github.com/vovakirdan/snake-arena/internal/storage"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Username *string `json:"username"`
	Avatar   *string `json:"avatar"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	User  storage.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		detail(c, http.StatusBadRequest, "A valid email is required")
		return
	case req.Username == "":
		detail(c, http.StatusBadRequest, "Username is required")
		return
	case len(req.Password) < auth.MinPasswordLength:
		detail(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.internal(c, "hash password", err)
		return
	}
	u, err := s.store.CreateUser(storage.NewUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, storage.ErrUserExists) {
		detail(c, http.StatusBadRequest, "Email or username already exists")
		return
	}
	if err != nil {
		s.internal(c, "create user", err)
		return
	}

	s.respondWithToken(c, u)
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, hash, err := s.store.Credentials(req.Email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.internal(c, "load credentials", err)
		return
	}
	if err != nil || auth.CheckPassword(hash, req.Password) != nil {
		detail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.respondWithToken(c, u)
}

func (s *Server) respondWithToken(c *gin.Context, u storage.User) {
	token, err := s.issuer.Issue(u.ID)
	if err != nil {
		s.internal(c, "issue token", err)
		return
	}
	c.JSON(http.StatusOK, AuthResponse{User: u, Token: token})
}

// Tokens are stateless; logging out is the client dropping its token.
func (s *Server) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"detail": "Successfully logged out"})
}

func (s *Server) me(c *gin.Context) {
	u, err := s.store.UserByID(c.GetString(userIDKey))
	if errors.Is(err, storage.ErrNotFound) {
		detail(c, http.StatusUnauthorized, credentialsDetail)
		return
	}
	if err != nil {
		s.internal(c, "load user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username != nil && strings.TrimSpace(*req.Username) == "" {
		detail(c, http.StatusBadRequest, "Username cannot be empty")
		return
	}

	u, err := s.store.UpdateProfile(c.GetString(userIDKey), storage.ProfileUpdate{
		Username: req.Username,
		Avatar:   req.Avatar,
	})
	switch {
	case errors.Is(err, storage.ErrUserExists):
		detail(c, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, storage.ErrNotFound):
		detail(c, http.StatusUnauthorized, credentialsDetail)
	case err != nil:
		s.internal(c, "update profile", err)
	default:
		c.JSON(http.StatusOK, u)
	}
}

func (s *Server) userStats(c *gin.Context) {
	stats, err := s.store.UserStats(c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.internal(c, "load stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) internal(c *gin.Context, action string, err error) {
	s.logger.Error("request failed", "action", action, "error", err)
	detail(c, http.StatusInternalServerError, "Internal server error")
}
