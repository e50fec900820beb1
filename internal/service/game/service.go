package game

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/iamasit07/qubic/backend/internal/domain"
	"github.com/iamasit07/qubic/backend/internal/service/bot"
	"github.com/iamasit07/qubic/backend/pkg/uid"
)

const snapshotKeyPrefix = "game:snapshot:"

type GameSession struct {
	GameID      string
	UserID      int64
	Username    string
	HumanSide   domain.Player
	BotSide     domain.Player
	Difficulty  domain.Difficulty
	Game        *domain.Game
	Reason      string
	LastBotMove int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FinishedAt  time.Time
	saved       bool
	mu          sync.Mutex
}

type GameRepository interface {
	SaveGame(ctx context.Context, record domain.GameRecord) error
}

// CacheRepository is satisfied by the Redis wrapper; nil means memory only.
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// Notifier pushes updates to whoever is watching a game.
type Notifier interface {
	Broadcast(gameID string, message domain.ServerMessage)
	SpectatorCount(gameID string) int
}

// BotFunc picks the bot's reply. It must return an empty cell or bot.NoMove.
type BotFunc func(board domain.Board, player domain.Player, difficulty domain.Difficulty) int

// SessionManager manages active games against the bot
type SessionManager struct {
	Session     map[string]*GameSession // gameID → GameSession
	BotMove     BotFunc
	SnapshotTTL time.Duration
	mu          sync.RWMutex
	repo        GameRepository
	cache       CacheRepository
	notifier    Notifier
	pending     sync.WaitGroup
}

func NewSessionManager(repo GameRepository, cache CacheRepository) *SessionManager {
	return &SessionManager{
		Session:     make(map[string]*GameSession),
		BotMove:     bot.CalculateBestMove,
		SnapshotTTL: time.Hour,
		repo:        repo,
		cache:       cache,
	}
}

func (sm *SessionManager) SetNotifier(n Notifier) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.notifier = n
}

// CreateSession starts a new game for userID. When the human takes O the bot opens.
func (sm *SessionManager) CreateSession(ctx context.Context, userID int64, username string, side domain.Player, difficulty domain.Difficulty) (*domain.GameSnapshot, error) {
	if side != domain.X && side != domain.O {
		return nil, domain.ErrInvalidPlayer
	}

	now := time.Now()
	session := &GameSession{
		GameID:      uid.GenerateGameID(),
		UserID:      userID,
		Username:    username,
		HumanSide:   side,
		BotSide:     side.Opponent(),
		Difficulty:  difficulty,
		Game:        domain.NewGame(),
		LastBotMove: bot.NoMove,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	session.mu.Lock()
	if session.Game.CurrentPlayer == session.BotSide {
		sm.playBotTurn(session)
	}
	snapshot := session.snapshotLocked()
	session.mu.Unlock()

	sm.mu.Lock()
	sm.Session[session.GameID] = session
	sm.mu.Unlock()

	log.Info().Msgf("[SESSION] Created session %s: %s (ID: %d) as %s vs %s (%s)",
		session.GameID, username, userID, side, domain.GetBotName(difficulty), difficulty)

	sm.publish(ctx, snapshot)
	return snapshot, nil
}

func (sm *SessionManager) GetSessionByGameID(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[gameID]
	return session, exists
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.Session[gameID]; !exists {
		return domain.ErrSessionNotFound
	}
	log.Debug().Msgf("[SESSION] Removing session %s", gameID)
	delete(sm.Session, gameID)
	return nil
}

// PlayMove applies the human move at (x, y, z) and, if the game goes on, the bot reply.
func (sm *SessionManager) PlayMove(ctx context.Context, gameID string, userID int64, x, y, z int) (*domain.GameSnapshot, error) {
	session, exists := sm.GetSessionByGameID(gameID)
	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, domain.ErrNotYourGame
	}

	session.mu.Lock()
	if session.Game.IsFinished() {
		session.mu.Unlock()
		return nil, domain.ErrGameOver
	}
	if session.Game.CurrentPlayer != session.HumanSide {
		session.mu.Unlock()
		return nil, domain.ErrNotYourTurn
	}
	if err := session.Game.MakeMove(x, y, z); err != nil {
		session.mu.Unlock()
		return nil, err
	}

	if !session.Game.IsFinished() {
		sm.playBotTurn(session)
	}

	session.UpdatedAt = time.Now()
	finished := session.Game.IsFinished()
	if finished {
		session.finishLocked(reasonFor(session.Game.State()))
	}
	snapshot := session.snapshotLocked()
	session.mu.Unlock()

	sm.publish(ctx, snapshot)
	if finished {
		sm.saveGameAsync(session)
	}

	return snapshot, nil
}

// Resign hands the game to the bot.
func (sm *SessionManager) Resign(ctx context.Context, gameID string, userID int64) (*domain.GameSnapshot, error) {
	session, exists := sm.GetSessionByGameID(gameID)
	if !exists {
		return nil, domain.ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, domain.ErrNotYourGame
	}

	session.mu.Lock()
	if err := session.Game.Resign(session.HumanSide); err != nil {
		session.mu.Unlock()
		return nil, err
	}
	session.UpdatedAt = time.Now()
	session.finishLocked(domain.ReasonResigned)
	snapshot := session.snapshotLocked()
	session.mu.Unlock()

	log.Info().Msgf("[SESSION] %s resigned game %s", session.Username, gameID)

	sm.publish(ctx, snapshot)
	sm.saveGameAsync(session)
	return snapshot, nil
}

// Snapshot returns the in-memory view of a game.
func (sm *SessionManager) Snapshot(gameID string) (*domain.GameSnapshot, bool) {
	session, exists := sm.GetSessionByGameID(gameID)
	if !exists {
		return nil, false
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.snapshotLocked(), true
}

// LoadSnapshot looks in memory first and then in the cache, so games that were
// cleaned up recently can still be displayed.
func (sm *SessionManager) LoadSnapshot(ctx context.Context, gameID string) (*domain.GameSnapshot, error) {
	if snapshot, ok := sm.Snapshot(gameID); ok {
		return snapshot, nil
	}
	if sm.cache == nil {
		return nil, domain.ErrSessionNotFound
	}

	raw, err := sm.cache.Get(ctx, snapshotKeyPrefix+gameID)
	if err != nil || raw == "" {
		return nil, domain.ErrSessionNotFound
	}

	var snapshot domain.GameSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		log.Warn().Err(err).Msgf("[SESSION] Corrupt cached snapshot for %s", gameID)
		return nil, domain.ErrSessionNotFound
	}
	return &snapshot, nil
}

// GetActiveGames lists ongoing games, oldest first.
func (sm *SessionManager) GetActiveGames() []domain.LiveGame {
	sm.mu.RLock()
	sessions := lo.Values(sm.Session)
	notifier := sm.notifier
	sm.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	live := lo.FilterMap(sessions, func(s *GameSession, _ int) (domain.LiveGame, bool) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.Game.IsFinished() {
			return domain.LiveGame{}, false
		}
		g := domain.LiveGame{
			GameID:     s.GameID,
			Username:   s.Username,
			BotName:    domain.GetBotName(s.Difficulty),
			Difficulty: s.Difficulty,
			MoveCount:  s.Game.MoveCount,
			StartedAt:  s.CreatedAt.Format(time.RFC3339),
		}
		if notifier != nil {
			g.SpectatorCount = notifier.SpectatorCount(s.GameID)
		}
		return g, true
	})

	return live
}

// CleanupIdleSessions drops sessions untouched for longer than maxIdle. Unfinished
// games are recorded as abandoned first.
func (sm *SessionManager) CleanupIdleSessions(maxIdle time.Duration) int {
	now := time.Now()

	sm.mu.Lock()
	var stale []*GameSession
	removed := 0
	for gameID, session := range sm.Session {
		session.mu.Lock()
		idle := now.Sub(session.UpdatedAt) > maxIdle
		if idle && !session.Game.IsFinished() {
			_ = session.Game.Resign(session.HumanSide)
			session.finishLocked(domain.ReasonAbandoned)
			stale = append(stale, session)
		}
		session.mu.Unlock()

		if idle {
			delete(sm.Session, gameID)
			removed++
		}
	}
	sm.mu.Unlock()

	for _, session := range stale {
		sm.saveGameAsync(session)
	}

	if removed > 0 {
		log.Info().Msgf("[SESSION] Memory cleanup: removed %d idle game sessions (%d abandoned)", removed, len(stale))
	}
	return removed
}

// Count is the number of sessions currently held in memory.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.Session)
}

// Wait blocks until every pending save has completed.
func (sm *SessionManager) Wait() {
	sm.pending.Wait()
}

// playBotTurn must be called with session.mu held.
func (sm *SessionManager) playBotTurn(session *GameSession) {
	move := sm.BotMove(session.Game.Board, session.BotSide, session.Difficulty)
	if move == bot.NoMove {
		return
	}
	if err := session.Game.MakeMoveIndex(move); err != nil {
		log.Error().Err(err).Msgf("[SESSION] Bot produced illegal move %d in game %s", move, session.GameID)
		return
	}
	session.LastBotMove = move
}

// finishLocked must be called with session.mu held.
func (gs *GameSession) finishLocked(reason string) {
	gs.Reason = reason
	gs.FinishedAt = time.Now()
}

func (gs *GameSession) snapshotLocked() *domain.GameSnapshot {
	g := gs.Game
	state := g.State()
	winningMask := g.Board.WinningMask()

	return &domain.GameSnapshot{
		GameID:        gs.GameID,
		Username:      gs.Username,
		BotName:       domain.GetBotName(gs.Difficulty),
		Difficulty:    gs.Difficulty,
		HumanSide:     gs.HumanSide.String(),
		XMask:         g.Board.XMask,
		OMask:         g.Board.OMask,
		CurrentPlayer: g.CurrentPlayer.String(),
		State:         state.String(),
		Winner:        g.Winner().String(),
		Reason:        gs.Reason,
		WinningMask:   winningMask,
		WinningCells:  domain.MaskToCells(winningMask),
		Moves:         append([]int(nil), g.Moves...),
		MoveCount:     g.MoveCount,
		LastBotMove:   gs.LastBotMove,
		CreatedAt:     gs.CreatedAt,
		UpdatedAt:     gs.UpdatedAt,
	}
}

func (gs *GameSession) recordLocked() domain.GameRecord {
	return domain.GameRecord{
		GameID:          gs.GameID,
		UserID:          gs.UserID,
		Username:        gs.Username,
		BotName:         domain.GetBotName(gs.Difficulty),
		Difficulty:      gs.Difficulty,
		HumanSide:       gs.HumanSide,
		Winner:          gs.Game.Winner(),
		Reason:          gs.Reason,
		TotalMoves:      gs.Game.MoveCount,
		DurationSeconds: int(gs.FinishedAt.Sub(gs.CreatedAt).Seconds()),
		XMask:           gs.Game.Board.XMask,
		OMask:           gs.Game.Board.OMask,
		Moves:           append([]int(nil), gs.Game.Moves...),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.FinishedAt,
	}
}

func reasonFor(state domain.GameState) string {
	if state == domain.Draw {
		return domain.ReasonDraw
	}
	return domain.ReasonFourInARow
}

// publish pushes the snapshot to the cache and to spectators. Both are best effort.
func (sm *SessionManager) publish(ctx context.Context, snapshot *domain.GameSnapshot) {
	if sm.cache != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			if err := sm.cache.Set(ctx, snapshotKeyPrefix+snapshot.GameID, data, sm.SnapshotTTL); err != nil {
				log.Warn().Err(err).Msgf("[SESSION] Failed to cache snapshot for %s", snapshot.GameID)
			}
		}
	}

	sm.mu.RLock()
	notifier := sm.notifier
	sm.mu.RUnlock()
	if notifier != nil {
		notifier.Broadcast(snapshot.GameID, domain.ServerMessage{Type: "game_update", Game: snapshot})
	}
}

// Saves game data to database in background so callers get their response right away
func (sm *SessionManager) saveGameAsync(session *GameSession) {
	session.mu.Lock()
	if session.saved || sm.repo == nil {
		session.mu.Unlock()
		return
	}
	session.saved = true
	record := session.recordLocked()
	session.mu.Unlock()

	sm.pending.Add(1)
	go func() {
		defer sm.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := sm.repo.SaveGame(ctx, record); err != nil {
			log.Error().Err(err).Msgf("[GAME] Error saving game %s", record.GameID)
			return
		}
		if sm.cache != nil {
			_ = sm.cache.Del(ctx, domain.ProfileCacheKey(record.UserID))
		}
		log.Info().Msgf("[GAME] Game %s saved successfully", record.GameID)
	}()
}
