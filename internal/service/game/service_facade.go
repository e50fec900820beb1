package game

import (
	"github.com/iamasit07/qubic/backend/internal/domain"
	"github.com/iamasit07/qubic/backend/internal/service/bot"
)

// Service is the stateless entry point to the engine (facade)
type Service struct {
	MaxDepth int
}

func NewService(maxDepth int) *Service {
	return &Service{
		MaxDepth: maxDepth,
	}
}

type Suggestion struct {
	Move        int               `json:"move"`
	X           int               `json:"x"`
	Y           int               `json:"y"`
	Z           int               `json:"z"`
	Score       int               `json:"score"`
	Depth       int               `json:"depth"`
	Difficulty  domain.Difficulty `json:"difficulty"`
	State       string            `json:"state"`
	WinningMask uint64            `json:"winningMask,string"`
}

type Classification struct {
	State        string `json:"state"`
	Winner       string `json:"winner"`
	WinningMask  uint64 `json:"winningMask,string"`
	WinningCells []int  `json:"winningCells"`
	Occupied     int    `json:"occupied"`
}

// SuggestMove asks the engine for player's move. A positive depth overrides the
// difficulty's depth, capped at MaxDepth. On a decided board the move is bot.NoMove.
func (s *Service) SuggestMove(board domain.Board, player domain.Player, difficulty domain.Difficulty, depth int) (*Suggestion, error) {
	if !board.Valid() {
		return nil, domain.ErrInvalidBoard
	}
	if player != domain.X && player != domain.O {
		return nil, domain.ErrInvalidPlayer
	}

	state := board.State()
	suggestion := &Suggestion{
		Move:        bot.NoMove,
		X:           -1,
		Y:           -1,
		Z:           -1,
		Difficulty:  difficulty,
		State:       state.String(),
		WinningMask: board.WinningMask(),
	}
	if state != domain.Ongoing {
		suggestion.Score = terminalScore(state)
		return suggestion, nil
	}

	var result bot.SearchResult
	if difficulty == domain.DifficultyEasy && depth <= 0 {
		result.Move = bot.CalculateBestMoveEasy(board)
		result.Score = bot.Evaluate(board.Place(result.Move, player))
	} else {
		cfg := bot.ConfigFor(difficulty)
		if depth > 0 {
			cfg.MaxDepth = depth
		}
		if s.MaxDepth > 0 && cfg.MaxDepth > s.MaxDepth {
			cfg.MaxDepth = s.MaxDepth
		}
		suggestion.Depth = cfg.MaxDepth
		result = bot.Search(board, player, cfg)
	}

	suggestion.Move = result.Move
	suggestion.Score = result.Score
	if result.HasMove() {
		suggestion.X, suggestion.Y, suggestion.Z = domain.Coords(result.Move)
	}
	return suggestion, nil
}

// ClassifyBoard reports the terminal state of a board the way the engine sees it.
func (s *Service) ClassifyBoard(board domain.Board) (*Classification, error) {
	if !board.Valid() {
		return nil, domain.ErrInvalidBoard
	}
	state := board.State()
	mask := board.WinningMask()
	return &Classification{
		State:        state.String(),
		Winner:       state.Winner().String(),
		WinningMask:  mask,
		WinningCells: domain.MaskToCells(mask),
		Occupied:     board.Count(),
	}, nil
}

func terminalScore(state domain.GameState) int {
	switch state {
	case domain.XWins:
		return bot.WinScore
	case domain.OWins:
		return -bot.WinScore
	default:
		return bot.DrawScore
	}
}
