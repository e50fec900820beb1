package bot

import (
	"testing"

	"github.com/iamasit07/qubic/backend/internal/domain"
)

func TestSafeMovesForcedBlock(t *testing.T) {
	board := domain.Board{XMask: cells(5, 10, 21), OMask: cells(48, 49, 50)}
	safe := safeMoves(board, domain.X)
	if len(safe) != 1 || safe[0] != 51 {
		t.Fatalf("safeMoves = %v, want [51]", safe)
	}

	move, ok := singleSafeMove(board, domain.X)
	if !ok || move != 51 {
		t.Fatalf("singleSafeMove = %d, %v", move, ok)
	}
}

func TestSafeMovesCountsOwnWin(t *testing.T) {
	board := domain.Board{XMask: cells(0, 1, 2), OMask: cells(48, 49, 50)}
	safe := safeMoves(board, domain.X)
	if len(safe) != 2 || safe[0] != 3 || safe[1] != 51 {
		t.Fatalf("safeMoves = %v, want [3 51]", safe)
	}
	if _, ok := singleSafeMove(board, domain.X); ok {
		t.Fatalf("two safe moves must not short-circuit")
	}
}

func TestHardModeTakesWinOverBlock(t *testing.T) {
	board := domain.Board{XMask: cells(0, 1, 2), OMask: cells(48, 49, 50)}
	res := Search(board, domain.X, EngineConfig{MaxDepth: 3, HardMode: true})
	if res.Move != 3 {
		t.Fatalf("hard mode should win at 3, got %+v", res)
	}
}

func TestHardModeShortcut(t *testing.T) {
	board := domain.Board{XMask: cells(5, 10, 21), OMask: cells(48, 49, 50)}
	res := Search(board, domain.X, EngineConfig{MaxDepth: HARD_DEPTH, HardMode: true})
	if res.Move != 51 {
		t.Fatalf("hard mode move = %d, want 51", res.Move)
	}
}

func TestCanWinNext(t *testing.T) {
	if !canWinNext(domain.Board{OMask: cells(48, 49, 50)}, domain.O) {
		t.Fatalf("O has an open three")
	}
	if canWinNext(domain.Board{XMask: cells(51), OMask: cells(48, 49, 50)}, domain.O) {
		t.Fatalf("the three is blocked")
	}
	if canWinNext(domain.NewBoard(), domain.X) {
		t.Fatalf("nothing to complete on an empty board")
	}
}

func TestCalculateBestMoveByDifficulty(t *testing.T) {
	board := domain.Board{XMask: cells(0, 1, 2), OMask: cells(16, 17, 40)}
	for _, d := range []domain.Difficulty{domain.DifficultyMedium, domain.DifficultyHard, "unknown"} {
		if move := CalculateBestMove(board, domain.X, d); move != 3 {
			t.Fatalf("%s: move = %d, want 3", d, move)
		}
	}

	for i := 0; i < 50; i++ {
		move := CalculateBestMove(board, domain.O, domain.DifficultyEasy)
		if !domain.ValidIndex(move) || !board.IsCellEmpty(move) {
			t.Fatalf("easy picked an illegal cell %d", move)
		}
	}
}

func TestEasyOnFinishedBoard(t *testing.T) {
	drawn := domain.Board{XMask: 0x3dca7829265e9687, OMask: 0xc23587d6d9a16978}
	if move := CalculateBestMoveEasy(drawn); move != NoMove {
		t.Fatalf("easy on full board = %d, want NoMove", move)
	}
	won := domain.Board{XMask: domain.WinLines[10]}
	if move := CalculateBestMoveEasy(won); move != NoMove {
		t.Fatalf("easy on won board = %d, want NoMove", move)
	}
}

func TestConfigFor(t *testing.T) {
	if cfg := ConfigFor(domain.DifficultyHard); cfg.MaxDepth != HARD_DEPTH || !cfg.HardMode {
		t.Fatalf("hard config = %+v", cfg)
	}
	if cfg := ConfigFor(domain.DifficultyMedium); cfg.MaxDepth != MEDIUM_DEPTH || cfg.HardMode {
		t.Fatalf("medium config = %+v", cfg)
	}
}
