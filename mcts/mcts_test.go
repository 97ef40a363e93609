package mcts

import (
	"testing"

	"hyperchess/boardgame"
	"hyperchess/coordinate"
)

func idx2D(file, rank int) int { return coordinate.Index(coordinate.New([]int{file, rank}), 8) }

func TestTreeRunReturnsAMove(t *testing.T) {
	b := boardgame.New(2, 8)
	b.SetupStandard2D()

	tree := NewTree(b, boardgame.White, nil, 1)
	winRate, move, found := tree.Run(b, 40)

	if !found {
		t.Fatal("expected MCTS to find a root move")
	}
	if winRate < 0 || winRate > 1 {
		t.Fatalf("win rate %f out of range", winRate)
	}
	if move.From == move.To {
		t.Fatalf("degenerate move returned: %v", move)
	}
}

func TestTreeLeavesBoardUnchanged(t *testing.T) {
	b := boardgame.New(2, 8)
	b.SetupStandard2D()
	beforeHash := b.Hash

	tree := NewTree(b, boardgame.White, nil, 1)
	tree.Run(b, 30)

	if b.Hash != beforeHash {
		t.Fatalf("board hash changed after MCTS run: before=%d after=%d", beforeHash, b.Hash)
	}
}

func TestEvaluateTerminalStalemateIsHalf(t *testing.T) {
	b := boardgame.New(2, 8)
	// King with no legal moves and not in check: a stalemate shape.
	b.PlacePiece(idx2D(0, 0), boardgame.NewPiece(boardgame.King, boardgame.White))
	b.PlacePiece(idx2D(2, 1), boardgame.NewPiece(boardgame.King, boardgame.Black))
	b.PlacePiece(idx2D(1, 2), boardgame.NewPiece(boardgame.Queen, boardgame.Black))
	b.PushHistory()

	tree := &Tree{rootPlayer: boardgame.White}
	score := tree.evaluateTerminal(b, boardgame.White)
	if score != 0.5 {
		t.Fatalf("expected stalemate-shaped terminal to score 0.5, got %f", score)
	}
}
