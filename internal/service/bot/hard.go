package bot

import (
	"github.com/samber/lo"

	"github.com/iamasit07/qubic/backend/internal/domain"
)

// safeMoves lists the empty cells after which the opponent cannot complete a line on
// their very next move. A move that completes the mover's own line is always safe.
func safeMoves(board domain.Board, player domain.Player) []int {
	opponent := player.Opponent()
	candidates := domain.MaskToCells(board.EmptyCells())

	return lo.Filter(candidates, func(move int, _ int) bool {
		next := board.Place(move, player)
		if next.HasWon(player) {
			return true
		}
		return !canWinNext(next, opponent)
	})
}

// canWinNext reports whether player has a cell that completes one of their lines.
func canWinNext(board domain.Board, player domain.Player) bool {
	own := board.Mask(player)
	empty := board.EmptyCells()
	for _, mask := range domain.WinLines {
		missing := mask &^ own
		// exactly one cell missing and that cell is free
		if missing != 0 && missing&(missing-1) == 0 && missing&empty != 0 {
			return true
		}
	}
	return false
}

// singleSafeMove returns the only safe move when there is exactly one.
func singleSafeMove(board domain.Board, player domain.Player) (int, bool) {
	if board.IsTerminal() {
		return NoMove, false
	}
	safe := safeMoves(board, player)
	if len(safe) == 1 {
		return safe[0], true
	}
	return NoMove, false
}
