package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/iamasit07/qubic/backend/internal/domain"
	"github.com/iamasit07/qubic/backend/internal/repository/postgres"
	"github.com/iamasit07/qubic/backend/internal/transport/http/middleware"
)

const historyLimit = 50

type HistoryHandler struct {
	GameRepo GameStore
}

func NewHistoryHandler(gameRepo GameStore) *HistoryHandler {
	return &HistoryHandler{GameRepo: gameRepo}
}

type gameHistoryItem struct {
	ID         string            `json:"id"`
	BotName    string            `json:"botName"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Side       string            `json:"side"`
	Result     string            `json:"result"` // "win", "loss", "draw"
	EndReason  string            `json:"endReason"`
	MovesCount int               `json:"movesCount"`
	CreatedAt  time.Time         `json:"createdAt"`
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	games, err := h.GameRepo.GetUserGameHistory(c.Request.Context(), userID, historyLimit)
	if err != nil {
		writeError(c, err)
		return
	}

	history := lo.Map(games, func(g postgres.GameResult, _ int) gameHistoryItem {
		return gameHistoryItem{
			ID:         g.GameID,
			BotName:    g.BotName,
			Difficulty: g.Difficulty,
			Side:       g.HumanSide,
			Result:     resultFor(g),
			EndReason:  g.Reason,
			MovesCount: g.TotalMoves,
			CreatedAt:  g.CreatedAt,
		}
	})
	c.JSON(http.StatusOK, history)
}

func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	g, err := h.GameRepo.GetGameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	if g.UserID != userID {
		writeError(c, domain.ErrNotYourGame)
		return
	}

	board := domain.Board{XMask: g.XMask, OMask: g.OMask}
	c.JSON(http.StatusOK, struct {
		*postgres.GameResult
		Result       string `json:"result"`
		WinningCells []int  `json:"winningCells"`
		Board        string `json:"board"`
	}{
		GameResult:   g,
		Result:       resultFor(*g),
		WinningCells: domain.MaskToCells(board.WinningMask()),
		Board:        board.String(),
	})
}

func resultFor(g postgres.GameResult) string {
	switch g.Winner {
	case g.HumanSide:
		return "win"
	case domain.None.String():
		return "draw"
	default:
		return "loss"
	}
}
