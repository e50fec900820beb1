package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/iamasit07/qubic/backend/internal/config"
	"github.com/iamasit07/qubic/backend/internal/repository/postgres"
	"github.com/iamasit07/qubic/backend/internal/repository/redis"
	"github.com/iamasit07/qubic/backend/internal/service/cleanup"
	"github.com/iamasit07/qubic/backend/internal/service/game"
	transportHttp "github.com/iamasit07/qubic/backend/internal/transport/http"
	"github.com/iamasit07/qubic/backend/internal/transport/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Debug().Msg("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	config.SetupLogging(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Persistence
	db, err := postgres.InitDB(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
	if err != nil {
		log.Fatal().Err(err).Msg("Database unavailable")
	}
	defer postgres.CloseDB()

	gameRepo := postgres.NewGameRepo(db)
	userRepo := postgres.NewUserRepo(db)

	var cache game.CacheRepository
	if client := redis.InitRedis(ctx, cfg.RedisURL, cfg.RedisPassword); client != nil {
		cache = redis.NewRedisCache(client)
	}
	defer redis.CloseRedis()

	// 2. Services
	engineService := game.NewService(cfg.MaxSearchDepth)
	sessionManager := game.NewSessionManager(gameRepo, cache)
	sessionManager.SnapshotTTL = cfg.SnapshotTTL

	hub := websocket.NewHub()
	sessionManager.SetNotifier(hub)
	wsHandler := websocket.NewHandler(hub, sessionManager, cfg.AllowedOrigins)

	cleanupWorker := cleanup.NewWorker(sessionManager, cfg.CleanupInterval, cfg.SessionIdleTimeout)

	// 3. HTTP
	router := transportHttp.NewRouter(transportHttp.Handlers{
		Auth:     transportHttp.NewAuthHandler(userRepo, cache),
		Engine:   transportHttp.NewEngineHandler(engineService),
		Game:     transportHttp.NewGameHandler(sessionManager),
		History:  transportHttp.NewHistoryHandler(gameRepo),
		Watch:    transportHttp.NewWatchHandler(sessionManager),
		Spectate: wsHandler.Watch,
	}, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msgf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return cleanupWorker.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}

	// let in-flight game saves reach the database before it is closed
	sessionManager.Wait()
	log.Info().Msg("Server exited gracefully")
}
