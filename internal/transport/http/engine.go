package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/qubic/backend/internal/domain"
	"github.com/iamasit07/qubic/backend/internal/service/game"
)

// EngineHandler exposes the stateless engine: any position in, a move out.
type EngineHandler struct {
	Service *game.Service
}

func NewEngineHandler(svc *game.Service) *EngineHandler {
	return &EngineHandler{Service: svc}
}

type boardRequest struct {
	XMask uint64 `json:"xMask,string"`
	OMask uint64 `json:"oMask,string"`
}

type moveRequest struct {
	boardRequest
	Player     string `json:"player" binding:"required"`
	Difficulty string `json:"difficulty"`
	Depth      int    `json:"depth"`
}

func (h *EngineHandler) SuggestMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	player, err := domain.ParsePlayer(req.Player)
	if err != nil {
		writeError(c, err)
		return
	}
	if req.Depth < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth must not be negative"})
		return
	}

	board := domain.Board{XMask: req.XMask, OMask: req.OMask}
	suggestion, err := h.Service.SuggestMove(board, player, domain.ParseDifficulty(req.Difficulty), req.Depth)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

func (h *EngineHandler) ClassifyBoard(c *gin.Context) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	classification, err := h.Service.ClassifyBoard(domain.Board{XMask: req.XMask, OMask: req.OMask})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, classification)
}
