package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/qubic/backend/internal/domain"
	"github.com/iamasit07/qubic/backend/internal/service/game"
	"github.com/iamasit07/qubic/backend/internal/transport/http/middleware"
)

type GameHandler struct {
	SessionManager *game.SessionManager
}

func NewGameHandler(sm *game.SessionManager) *GameHandler {
	return &GameHandler{SessionManager: sm}
}

type createGameRequest struct {
	Side       string `json:"side"`
	Difficulty string `json:"difficulty"`
}

type playMoveRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
	Z *int `json:"z" binding:"required"`
}

// CreateGame starts a game against the bot. The human plays X unless told otherwise.
func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, username, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req createGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}

	side := domain.X
	if strings.TrimSpace(req.Side) != "" {
		parsed, err := domain.ParsePlayer(req.Side)
		if err != nil {
			writeError(c, err)
			return
		}
		side = parsed
	}

	snapshot, err := h.SessionManager.CreateSession(c.Request.Context(), userID, username, side, domain.ParseDifficulty(req.Difficulty))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	snapshot, err := h.SessionManager.LoadSnapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *GameHandler) PlayMove(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req playMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x, y and z are required"})
		return
	}

	snapshot, err := h.SessionManager.PlayMove(c.Request.Context(), c.Param("id"), userID, *req.X, *req.Y, *req.Z)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *GameHandler) Resign(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	snapshot, err := h.SessionManager.Resign(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
