package http

import (
	"github.com/gin-gonic/gin"

	"github.com/iamasit07/qubic/backend/internal/transport/http/middleware"
)

type Handlers struct {
	Auth    *AuthHandler
	Engine  *EngineHandler
	Game    *GameHandler
	History *HistoryHandler
	Watch   *WatchHandler
	// Spectate upgrades /ws/watch/:id; nil leaves the route out
	Spectate gin.HandlerFunc
}

// NewRouter wires middleware and every API route.
func NewRouter(h Handlers, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(allowedOrigins))

	// Public Routes
	router.GET("/health", h.Watch.Health)
	router.POST("/api/auth/register", h.Auth.Register)
	router.POST("/api/auth/login", h.Auth.Login)
	router.POST("/api/auth/logout", h.Auth.Logout)
	router.GET("/api/leaderboard", h.Auth.Leaderboard)
	router.POST("/api/engine/move", h.Engine.SuggestMove)
	router.POST("/api/engine/state", h.Engine.ClassifyBoard)
	router.GET("/api/watch", h.Watch.GetLiveGames)
	if h.Spectate != nil {
		router.GET("/ws/watch/:id", h.Spectate)
	}

	// Protected Routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/me", h.Auth.Me)

		protected.POST("/games", h.Game.CreateGame)
		protected.GET("/games/:id", h.Game.GetGame)
		protected.POST("/games/:id/moves", h.Game.PlayMove)
		protected.POST("/games/:id/resign", h.Game.Resign)

		protected.GET("/history", h.History.GetHistory)
		protected.GET("/history/:id", h.History.GetGameDetails)
	}

	return router
}
