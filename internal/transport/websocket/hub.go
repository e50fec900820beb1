package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/qubic/backend/internal/domain"
)

const writeWait = 10 * time.Second

// spectator is one websocket watching one game
type spectator struct {
	conn *websocket.Conn
	// gorilla connections allow a single concurrent writer
	writeMu sync.Mutex
}

func (s *spectator) send(message domain.ServerMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(message)
}

func (s *spectator) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub tracks spectators per game and fans out game updates
type Hub struct {
	games map[string]map[*spectator]struct{}
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		games: make(map[string]map[*spectator]struct{}),
	}
}

func (h *Hub) add(gameID string, s *spectator) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers, ok := h.games[gameID]
	if !ok {
		watchers = make(map[*spectator]struct{})
		h.games[gameID] = watchers
	}
	watchers[s] = struct{}{}
}

func (h *Hub) remove(gameID string, s *spectator) {
	h.mu.Lock()
	defer h.mu.Unlock()

	watchers, ok := h.games[gameID]
	if !ok {
		return
	}
	delete(watchers, s)
	if len(watchers) == 0 {
		delete(h.games, gameID)
	}
	s.conn.Close()
}

// Broadcast sends message to everyone watching gameID. Spectators whose write
// fails are dropped.
func (h *Hub) Broadcast(gameID string, message domain.ServerMessage) {
	h.mu.RLock()
	watchers := make([]*spectator, 0, len(h.games[gameID]))
	for s := range h.games[gameID] {
		watchers = append(watchers, s)
	}
	h.mu.RUnlock()

	for _, s := range watchers {
		if err := s.send(message); err != nil {
			log.Debug().Err(err).Msgf("[WS] Dropping spectator of %s", gameID)
			h.remove(gameID, s)
		}
	}
}

func (h *Hub) SpectatorCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}
