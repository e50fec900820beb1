package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionSweeper is satisfied by game.SessionManager.
type SessionSweeper interface {
	CleanupIdleSessions(maxIdle time.Duration) int
}

type Worker struct {
	Sessions SessionSweeper
	Interval time.Duration
	MaxIdle  time.Duration
}

func NewWorker(sessions SessionSweeper, interval, maxIdle time.Duration) *Worker {
	return &Worker{Sessions: sessions, Interval: interval, MaxIdle: maxIdle}
}

// Start sweeps idle sessions every Interval until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	log.Info().Msgf("[CLEANUP] Background worker started (every %s, idle after %s)", w.Interval, w.MaxIdle)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("[CLEANUP] Background worker stopped")
			return nil
		case <-ticker.C:
			w.runCleanup()
		}
	}
}

func (w *Worker) runCleanup() int {
	removed := w.Sessions.CleanupIdleSessions(w.MaxIdle)
	if removed > 0 {
		log.Info().Msgf("[CLEANUP] Removed %d idle game sessions", removed)
	}
	return removed
}
