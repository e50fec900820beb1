package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/iamasit07/qubic/backend/internal/domain"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// SnapshotSource is satisfied by game.SessionManager.
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context, gameID string) (*domain.GameSnapshot, error)
}

// Handler upgrades spectator connections
type Handler struct {
	Hub       *Hub
	Snapshots SnapshotSource
	Upgrader  websocket.Upgrader
}

// NewHandler accepts connections from allowedOrigins; an empty list allows any origin.
func NewHandler(hub *Hub, snapshots SnapshotSource, allowedOrigins []string) *Handler {
	return &Handler{
		Hub:       hub,
		Snapshots: snapshots,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || lo.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Watch streams a game to a spectator: the current snapshot first, then every update.
func (h *Handler) Watch(c *gin.Context) {
	gameID := c.Param("id")
	snapshot, err := h.Snapshots.LoadSnapshot(c.Request.Context(), gameID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[WS] Upgrade error")
		return
	}

	s := &spectator{conn: conn}
	h.Hub.add(gameID, s)
	log.Debug().Msgf("[WS] Spectator joined %s (%d watching)", gameID, h.Hub.SpectatorCount(gameID))

	if err := s.send(domain.ServerMessage{Type: "game_state", Game: snapshot}); err != nil {
		h.Hub.remove(gameID, s)
		return
	}

	h.serve(gameID, s)
}

// serve keeps the connection alive until the client leaves or stops answering pings.
func (h *Handler) serve(gameID string, s *spectator) {
	done := make(chan struct{})
	defer func() {
		close(done)
		h.Hub.remove(gameID, s)
		log.Debug().Msgf("[WS] Spectator left %s", gameID)
	}()

	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// spectators only listen; anything they send is discarded
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msgf("[WS] Spectator of %s disconnected unexpectedly", gameID)
			}
			return
		}
	}
}
