package bot

import (
	"math/bits"

	"github.com/iamasit07/qubic/backend/internal/domain"
)

const (
	ONE_IN_LINE_WEIGHT   = 1
	TWO_IN_LINE_WEIGHT   = 10
	THREE_IN_LINE_WEIGHT = 100
)

// Evaluate scores a non-terminal board from X's point of view.
// Only lines still open for exactly one side count.
func Evaluate(board domain.Board) int {
	score := 0
	for _, mask := range domain.WinLines {
		xCount := bits.OnesCount64(board.XMask & mask)
		oCount := bits.OnesCount64(board.OMask & mask)

		if xCount > 0 && oCount == 0 {
			score += lineWeight(xCount)
		} else if oCount > 0 && xCount == 0 {
			score -= lineWeight(oCount)
		}
	}
	return score
}

func lineWeight(count int) int {
	switch count {
	case 3:
		return THREE_IN_LINE_WEIGHT
	case 2:
		return TWO_IN_LINE_WEIGHT
	case 1:
		return ONE_IN_LINE_WEIGHT
	default:
		return 0
	}
}
