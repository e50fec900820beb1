package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/qubic/backend/internal/config"
	"github.com/iamasit07/qubic/backend/internal/domain"
	"github.com/iamasit07/qubic/backend/internal/repository/postgres"
	"github.com/iamasit07/qubic/backend/internal/service/bot"
	"github.com/iamasit07/qubic/backend/internal/service/game"
)

type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*postgres.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{nextID: 1, users: make(map[string]*postgres.User)}
}

func (m *memoryUsers) CreateUser(_ context.Context, username, passwordHash string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.users[username] = &postgres.User{ID: id, Username: username, PasswordHash: passwordHash, Rating: postgres.DefaultRating}
	return id, nil
}

func (m *memoryUsers) GetUserByUsername(_ context.Context, username string) (*postgres.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[username], nil
}

func (m *memoryUsers) GetUserByID(_ context.Context, userID int64) (*postgres.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) GetLeaderboard(_ context.Context, limit int) ([]postgres.PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := make([]postgres.PlayerStats, 0)
	for _, u := range m.users {
		if len(stats) == limit {
			break
		}
		stats = append(stats, postgres.PlayerStats{Username: u.Username, Rating: u.Rating})
	}
	return stats, nil
}

type memoryGames struct {
	games map[string]postgres.GameResult
}

func (m *memoryGames) GetGameByID(_ context.Context, gameID string) (*postgres.GameResult, error) {
	g, ok := m.games[gameID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (m *memoryGames) GetUserGameHistory(_ context.Context, userID int64, _ int) ([]postgres.GameResult, error) {
	out := make([]postgres.GameResult, 0)
	for _, g := range m.games {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

type testServer struct {
	router *gin.Engine
	games  *memoryGames
	sm     *game.SessionManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "router-secret", AccessTokenTTL: time.Hour}

	sm := game.NewSessionManager(nil, nil)
	sm.BotMove = func(board domain.Board, _ domain.Player, _ domain.Difficulty) int {
		cells := domain.MaskToCells(board.EmptyCells())
		if len(cells) == 0 {
			return bot.NoMove
		}
		return cells[0]
	}

	games := &memoryGames{games: make(map[string]postgres.GameResult)}
	router := NewRouter(Handlers{
		Auth:    NewAuthHandler(newMemoryUsers(), nil),
		Engine:  NewEngineHandler(game.NewService(4)),
		Game:    NewGameHandler(sm),
		History: NewHistoryHandler(games),
		Watch:   NewWatchHandler(sm),
	}, []string{"http://localhost:5173"})

	return &testServer{router: router, games: games, sm: sm}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, username string) (string, int64) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"username": username, "password": "password1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", username, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("register response: %v %s", err, w.Body.String())
	}
	return resp.Token, resp.User.ID
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) domain.GameSnapshot {
	t.Helper()
	var snap domain.GameSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v (%s)", err, w.Body.String())
	}
	return snap
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")

	if w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"username": "alice", "password": "password1"}); w.Code != http.StatusConflict {
		t.Fatalf("duplicate register: %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"username": "charles", "password": "password1"}); w.Code != http.StatusBadRequest {
		t.Fatalf("bot name should be reserved: %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"username": "weakling", "password": "short"}); w.Code != http.StatusBadRequest {
		t.Fatalf("weak password: %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, "/api/auth/register", "", `{`); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: %d", w.Code)
	}

	if w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "wrongpass1"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", w.Code)
	}
	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "password1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: %d %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusOK || w.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("me: %d %s", w.Code, w.Body.String())
	}
	var me map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &me)
	if me["username"] != "alice" || me["rating"] != float64(postgres.DefaultRating) {
		t.Fatalf("me = %v", me)
	}

	if w := s.do(t, http.MethodGet, "/api/auth/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("me without token: %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/leaderboard?limit=abc", "", nil); w.Code != http.StatusOK {
		t.Fatalf("leaderboard: %d", w.Code)
	}
}

func TestGameFlow(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "alice")
	otherToken, _ := s.register(t, "mallory")

	w := s.do(t, http.MethodPost, "/api/games", token, gin.H{"side": "X", "difficulty": "easy"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	snap := decodeSnapshot(t, w)
	if snap.HumanSide != "X" || snap.BotName != "Alice" || snap.Username != "alice" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	path := "/api/games/" + snap.GameID

	w = s.do(t, http.MethodPost, path+"/moves", token, gin.H{"x": 1, "y": 1, "z": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("move: %d %s", w.Code, w.Body.String())
	}
	snap = decodeSnapshot(t, w)
	if snap.XMask != domain.BitAt(1, 1, 1) || snap.OMask != 1 || snap.LastBotMove != 0 {
		t.Fatalf("unexpected masks %+v", snap)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"xMask":"2097152"`)) {
		t.Fatalf("masks should be sent as strings: %s", w.Body.String())
	}

	cases := []struct {
		name  string
		token string
		body  interface{}
		want  int
	}{
		{"missing coordinate", token, gin.H{"x": 0, "y": 0}, http.StatusBadRequest},
		{"occupied", token, gin.H{"x": 1, "y": 1, "z": 1}, http.StatusConflict},
		{"out of bounds", token, gin.H{"x": 0, "y": 4, "z": 0}, http.StatusBadRequest},
		{"someone else's game", otherToken, gin.H{"x": 2, "y": 2, "z": 2}, http.StatusForbidden},
	}
	for _, tc := range cases {
		if w := s.do(t, http.MethodPost, path+"/moves", tc.token, tc.body); w.Code != tc.want {
			t.Fatalf("%s: got %d want %d (%s)", tc.name, w.Code, tc.want, w.Body.String())
		}
	}

	if w := s.do(t, http.MethodGet, "/api/games/does-not-exist", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown game: %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, path, otherToken, nil); w.Code != http.StatusOK {
		t.Fatalf("any signed-in user may view a game: %d", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/watch", "", nil)
	var live []domain.LiveGame
	if err := json.Unmarshal(w.Body.Bytes(), &live); err != nil || len(live) != 1 || live[0].MoveCount != 2 {
		t.Fatalf("watch = %s", w.Body.String())
	}

	w = s.do(t, http.MethodPost, path+"/resign", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("resign: %d %s", w.Code, w.Body.String())
	}
	if snap = decodeSnapshot(t, w); snap.State != "o_wins" || snap.Reason != domain.ReasonResigned {
		t.Fatalf("unexpected resign snapshot %+v", snap)
	}
	if w := s.do(t, http.MethodPost, path+"/moves", token, gin.H{"x": 2, "y": 2, "z": 2}); w.Code != http.StatusConflict {
		t.Fatalf("move after resign: %d", w.Code)
	}

	w = s.do(t, http.MethodPost, "/api/games", token, gin.H{"side": "O"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create as O: %d", w.Code)
	}
	if snap = decodeSnapshot(t, w); snap.XMask != 1 || snap.CurrentPlayer != "O" || snap.Difficulty != domain.DifficultyMedium {
		t.Fatalf("bot should open as X: %+v", snap)
	}
	if w := s.do(t, http.MethodPost, "/api/games", token, gin.H{"side": "Q"}); w.Code != http.StatusBadRequest {
		t.Fatalf("bad side: %d", w.Code)
	}

	w = s.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"activeGames":2`)) {
		t.Fatalf("health: %s", w.Body.String())
	}
}

func TestEngineEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/engine/move", "", gin.H{"xMask": "7", "oMask": "0", "player": "X"})
	if w.Code != http.StatusOK {
		t.Fatalf("move: %d %s", w.Code, w.Body.String())
	}
	var suggestion game.Suggestion
	if err := json.Unmarshal(w.Body.Bytes(), &suggestion); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if suggestion.Move != 3 || suggestion.X != 3 || suggestion.Score < bot.WinScore {
		t.Fatalf("engine should complete the row: %+v", suggestion)
	}

	bad := []interface{}{
		gin.H{"xMask": "1", "oMask": "1", "player": "X"},
		gin.H{"xMask": "0", "oMask": "0", "player": "Z"},
		gin.H{"xMask": "0", "oMask": "0"},
		gin.H{"xMask": "0", "oMask": "0", "player": "O", "depth": -1},
		`{"xMask": 7, "oMask": "0", "player": "X"}`,
	}
	for i, body := range bad {
		if w := s.do(t, http.MethodPost, "/api/engine/move", "", body); w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: got %d (%s)", i, w.Code, w.Body.String())
		}
	}

	w = s.do(t, http.MethodPost, "/api/engine/move", "", gin.H{"xMask": "15", "oMask": "48", "player": "O"})
	if err := json.Unmarshal(w.Body.Bytes(), &suggestion); err != nil || suggestion.Move != bot.NoMove || suggestion.State != "x_wins" {
		t.Fatalf("terminal board: %s", w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/api/engine/state", "", gin.H{"xMask": "15", "oMask": "48"})
	var cls game.Classification
	if err := json.Unmarshal(w.Body.Bytes(), &cls); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cls.State != "x_wins" || cls.Winner != "X" || cls.WinningMask != 15 || len(cls.WinningCells) != 4 || cls.Occupied != 6 {
		t.Fatalf("unexpected classification %+v", cls)
	}
}

func TestHistory(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.register(t, "alice")

	s.games.games["g1"] = postgres.GameResult{
		GameID: "g1", UserID: userID, HumanSide: "X", Winner: "X", BotName: "Bob",
		Difficulty: domain.DifficultyMedium, XMask: 15, OMask: 48 << 4, TotalMoves: 7, Moves: []int{0, 4, 1, 5, 2, 6, 3},
	}
	s.games.games["g2"] = postgres.GameResult{GameID: "g2", UserID: userID + 100, HumanSide: "O", Winner: "none"}

	w := s.do(t, http.MethodGet, "/api/history", token, nil)
	var items []gameHistoryItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil || len(items) != 1 {
		t.Fatalf("history = %s", w.Body.String())
	}
	if items[0].Result != "win" || items[0].BotName != "Bob" {
		t.Fatalf("unexpected item %+v", items[0])
	}

	w = s.do(t, http.MethodGet, "/api/history/g1", token, nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"winningCells":[0,1,2,3]`)) {
		t.Fatalf("details: %d %s", w.Code, w.Body.String())
	}
	if w := s.do(t, http.MethodGet, "/api/history/g2", token, nil); w.Code != http.StatusForbidden {
		t.Fatalf("foreign game: %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/history/nope", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing game: %d", w.Code)
	}
}

func TestResultFor(t *testing.T) {
	cases := []struct {
		side, winner, want string
	}{
		{"X", "X", "win"},
		{"O", "X", "loss"},
		{"O", "none", "draw"},
	}
	for _, tc := range cases {
		if got := resultFor(postgres.GameResult{HumanSide: tc.side, Winner: tc.winner}); got != tc.want {
			t.Fatalf("resultFor(%s, %s) = %s, want %s", tc.side, tc.winner, got, tc.want)
		}
	}
}
