package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/iamasit07/qubic/backend/internal/domain"
	"github.com/iamasit07/qubic/backend/internal/repository/postgres"
	"github.com/iamasit07/qubic/backend/internal/service/game"
	"github.com/iamasit07/qubic/backend/internal/transport/http/middleware"
	"github.com/iamasit07/qubic/backend/pkg/auth"
	"github.com/iamasit07/qubic/backend/pkg/httputil"
)

const (
	profileCacheTTL     = time.Hour
	defaultLeaderboard  = 50
	maxLeaderboardLimit = 200
)

type AuthHandler struct {
	UserRepo UserStore
	Cache    game.CacheRepository
}

func NewAuthHandler(userRepo UserStore, cache game.CacheRepository) *AuthHandler {
	return &AuthHandler{
		UserRepo: userRepo,
		Cache:    cache,
	}
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := auth.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if isReservedName(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Username '%s' is reserved", req.Username)})
		return
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	existing, err := h.UserRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		writeError(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	hashedPwd, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	userID, err := h.UserRepo.CreateUser(ctx, req.Username, hashedPwd)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := auth.GenerateAccessToken(userID, req.Username)
	if err != nil {
		writeError(c, err)
		return
	}

	log.Info().Msgf("[AUTH] Registered %s (ID: %d)", req.Username, userID)

	user := &postgres.User{ID: userID, Username: req.Username, Rating: postgres.DefaultRating}
	httputil.SetAuthCookie(c.Writer, token)
	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user.UserResponse(),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.UserRepo.GetUserByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil || user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		writeError(c, err)
		return
	}

	httputil.SetAuthCookie(c.Writer, token)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.UserResponse(),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	httputil.ClearAuthCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	ctx := c.Request.Context()
	cacheKey := domain.ProfileCacheKey(userID)

	if h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, cacheKey); err == nil && cached != "" {
			var response map[string]interface{}
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				c.Header("X-Cache", "HIT")
				c.JSON(http.StatusOK, response)
				return
			}
		}
	}

	user, err := h.UserRepo.GetUserByID(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	response := user.UserResponse()
	if h.Cache != nil {
		if data, err := json.Marshal(response); err == nil {
			if err := h.Cache.Set(ctx, cacheKey, data, profileCacheTTL); err != nil {
				log.Warn().Err(err).Msgf("[AUTH] Failed to cache profile for %d", userID)
			}
		}
	}

	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) Leaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLeaderboard)))
	if err != nil || limit <= 0 {
		limit = defaultLeaderboard
	}
	limit = min(limit, maxLeaderboardLimit)

	stats, err := h.UserRepo.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// bot names cannot be registered
func isReservedName(username string) bool {
	return strings.EqualFold(username, "BOT") || lo.ContainsBy(lo.Values(domain.BotNames), func(name string) bool {
		return strings.EqualFold(name, username)
	})
}
