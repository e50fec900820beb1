package bot

import (
	"github.com/iamasit07/qubic/backend/internal/domain"
)

const (
	MEDIUM_DEPTH = 3
	HARD_DEPTH   = 5
)

// ConfigFor maps a difficulty onto search settings. Easy does not search.
func ConfigFor(difficulty domain.Difficulty) EngineConfig {
	switch difficulty {
	case domain.DifficultyHard:
		return EngineConfig{MaxDepth: HARD_DEPTH, HardMode: true}
	case domain.DifficultyEasy:
		return EngineConfig{MaxDepth: 1}
	default:
		return EngineConfig{MaxDepth: MEDIUM_DEPTH}
	}
}

// CalculateBestMove selects the best move based on difficulty
func CalculateBestMove(board domain.Board, botPlayer domain.Player, difficulty domain.Difficulty) int {
	switch difficulty {
	case domain.DifficultyEasy:
		return CalculateBestMoveEasy(board)
	case domain.DifficultyHard:
		return FindBestMove(board, botPlayer, ConfigFor(domain.DifficultyHard))
	default:
		return FindBestMove(board, botPlayer, ConfigFor(domain.DifficultyMedium))
	}
}
