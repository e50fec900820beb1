package bot

import (
	"lukechampine.com/frand"

	"github.com/iamasit07/qubic/backend/internal/domain"
)

// CalculateBestMoveEasy plays a uniformly random empty cell.
func CalculateBestMoveEasy(board domain.Board) int {
	if board.IsTerminal() {
		return NoMove
	}

	moves := domain.MaskToCells(board.EmptyCells())
	if len(moves) == 0 {
		return NoMove
	}

	return moves[frand.Intn(len(moves))]
}
