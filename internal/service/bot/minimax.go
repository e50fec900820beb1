package bot

import (
	"math/bits"

	"github.com/rs/zerolog/log"

	"github.com/iamasit07/qubic/backend/internal/domain"
)

const (
	NoMove = -1

	WinScore  = 100000
	DrawScore = 0
	// Infinity bounds the alpha-beta window; every reachable score is strictly inside it.
	Infinity = 1000000
)

// EngineConfig is supplied per search and holds no state between calls.
type EngineConfig struct {
	MaxDepth int
	HardMode bool
}

func NewEngineConfig(maxDepth int) EngineConfig {
	return EngineConfig{MaxDepth: maxDepth}
}

type SearchResult struct {
	Score int
	Move  int
}

func (r SearchResult) HasMove() bool {
	return r.Move != NoMove
}

// FindBestMove returns the cell index the engine would play for player, or NoMove
// when the board is already decided.
func FindBestMove(board domain.Board, player domain.Player, cfg EngineConfig) int {
	return Search(board, player, cfg).Move
}

// Search runs the full decision including the hard-mode shortcut and reports the score.
// X maximizes, O minimizes.
func Search(board domain.Board, player domain.Player, cfg EngineConfig) SearchResult {
	maximizing := player == domain.X

	if cfg.HardMode {
		if move, ok := singleSafeMove(board, player); ok {
			log.Debug().Int("move", move).Msg("[ENGINE] hard-mode safe move selected")
			leaf := minimax(board.Place(move, player), 0, !maximizing, -Infinity, Infinity)
			return SearchResult{Score: leaf.Score, Move: move}
		}
	}

	result := minimax(board, cfg.MaxDepth, maximizing, -Infinity, Infinity)

	log.Debug().
		Int("move", result.Move).
		Int("score", result.Score).
		Int("depth", cfg.MaxDepth).
		Str("player", player.String()).
		Msg("[ENGINE] chose move")

	return result
}

// minimax is depth-limited minimax with alpha-beta pruning. depth counts the plies
// still allowed, so a win seen with more depth left is a faster win and scores higher.
func minimax(board domain.Board, depth int, maximizing bool, alpha, beta int) SearchResult {
	for _, mask := range domain.WinLines {
		if board.XMask&mask == mask {
			return SearchResult{Score: WinScore + depth, Move: NoMove}
		}
		if board.OMask&mask == mask {
			return SearchResult{Score: -WinScore - depth, Move: NoMove}
		}
	}

	occupied := board.Occupied()
	if bits.OnesCount64(occupied) == domain.NumCells {
		return SearchResult{Score: DrawScore, Move: NoMove}
	}

	if depth == 0 {
		return SearchResult{Score: Evaluate(board), Move: NoMove}
	}

	best := SearchResult{Score: Infinity, Move: NoMove}
	if maximizing {
		best.Score = -Infinity
	}

	for empty := ^occupied; empty != 0; empty &= empty - 1 {
		move := bits.TrailingZeros64(empty)
		bit := uint64(1) << move
		next := board

		if maximizing {
			next.XMask |= bit
			child := minimax(next, depth-1, false, alpha, beta)
			if child.Score > best.Score {
				best = SearchResult{Score: child.Score, Move: move}
			}
			alpha = max(alpha, best.Score)
		} else {
			next.OMask |= bit
			child := minimax(next, depth-1, true, alpha, beta)
			if child.Score < best.Score {
				best = SearchResult{Score: child.Score, Move: move}
			}
			beta = min(beta, best.Score)
		}

		if beta <= alpha {
			break
		}
	}

	return best
}
