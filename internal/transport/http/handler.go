package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/qubic/backend/internal/domain"
	"github.com/iamasit07/qubic/backend/internal/repository/postgres"
)

// UserStore is the part of postgres.UserRepo the handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*postgres.User, error)
	GetUserByID(ctx context.Context, userID int64) (*postgres.User, error)
	GetLeaderboard(ctx context.Context, limit int) ([]postgres.PlayerStats, error)
}

// GameStore is the read side of postgres.GameRepo.
type GameStore interface {
	GetGameByID(ctx context.Context, gameID string) (*postgres.GameResult, error)
	GetUserGameHistory(ctx context.Context, userID int64, limit int) ([]postgres.GameResult, error)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var domainErr domain.Error
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotYourGame):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrCellOccupied), errors.Is(err, domain.ErrGameOver), errors.Is(err, domain.ErrNotYourTurn):
		status = http.StatusConflict
	case errors.As(err, &domainErr):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msgf("[HTTP] %s %s failed", c.Request.Method, c.FullPath())
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
