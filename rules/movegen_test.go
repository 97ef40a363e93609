package rules

import (
	"testing"

	"hyperchess/boardgame"
	"hyperchess/coordinate"
)

func idx2D(file, rank int) int { return coordinate.Index(coordinate.New([]int{file, rank}), 8) }

func TestStandardStartHasTwentyLegalMoves(t *testing.T) {
	b := boardgame.New(2, 8)
	b.SetupStandard2D()

	moves := GenerateLegalMoves(b, boardgame.White)
	if len(moves) != 20 {
		t.Fatalf("legal moves from standard start = %d, want 20", len(moves))
	}
}

func TestGeneratorSoundness(t *testing.T) {
	b := boardgame.New(2, 8)
	b.SetupStandard2D()

	moves := GenerateLegalMoves(b, boardgame.White)
	for _, m := range moves {
		info, err := b.ApplyMove(m)
		if err != nil {
			t.Fatalf("move %v failed to apply: %v", m, err)
		}
		kingCoord, ok := b.GetKingCoordinate(boardgame.White)
		if ok && IsSquareAttacked(b, kingCoord, boardgame.Black) {
			t.Errorf("legal move %v leaves own king in check", m)
		}
		b.UnmakeMove(m, info)
	}
}

func TestMateInOne2D(t *testing.T) {
	// Back-rank mate: White king boxed in by its own pawns on d2/e2/f2,
	// Black queen delivers mate along the open first rank with Qh4-h1.
	b := boardgame.New(2, 8)
	b.PlacePiece(idx2D(4, 0), boardgame.NewPiece(boardgame.King, boardgame.White))
	b.PlacePiece(idx2D(4, 1), boardgame.NewPiece(boardgame.Pawn, boardgame.White))
	b.PlacePiece(idx2D(5, 1), boardgame.NewPiece(boardgame.Pawn, boardgame.White))
	b.PlacePiece(idx2D(6, 1), boardgame.NewPiece(boardgame.Pawn, boardgame.White))
	b.PlacePiece(idx2D(3, 1), boardgame.NewPiece(boardgame.Pawn, boardgame.White))
	b.PlacePiece(idx2D(7, 3), boardgame.NewPiece(boardgame.Queen, boardgame.Black))
	b.PlacePiece(idx2D(0, 7), boardgame.NewPiece(boardgame.King, boardgame.Black))
	b.SetSideToMove(boardgame.Black)
	b.PushHistory()

	moves := GenerateLegalMoves(b, boardgame.Black)
	var mateMove boardgame.Move
	found := false
	for _, m := range moves {
		if m.To == idx2D(7, 0) {
			mateMove = m
			found = true
		}
	}
	if !found {
		t.Fatal("expected Qh4-h1 mating move to be legal")
	}

	info, err := b.ApplyMove(mateMove)
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if !InCheckmate(b, boardgame.White) {
		t.Error("expected white to be in checkmate after the mating move")
	}
	b.UnmakeMove(mateMove, info)
}

func TestEnPassantCapture(t *testing.T) {
	b := boardgame.New(2, 8)
	b.PlacePiece(idx2D(4, 0), boardgame.NewPiece(boardgame.King, boardgame.White))
	b.PlacePiece(idx2D(4, 7), boardgame.NewPiece(boardgame.King, boardgame.Black))
	b.PlacePiece(idx2D(4, 4), boardgame.NewPiece(boardgame.Pawn, boardgame.White))
	b.PlacePiece(idx2D(3, 6), boardgame.NewPiece(boardgame.Pawn, boardgame.Black))
	b.SetSideToMove(boardgame.Black)
	b.PushHistory()

	double := boardgame.Move{From: idx2D(3, 6), To: idx2D(3, 4), MovedKind: boardgame.Pawn, Flag: boardgame.FlagDoublePush, PawnAxis: 1}
	if _, err := b.ApplyMove(double); err != nil {
		t.Fatalf("double push: %v", err)
	}

	if b.EnPassantCell != idx2D(3, 5) {
		t.Fatalf("en passant target cell = %d, want %d", b.EnPassantCell, idx2D(3, 5))
	}

	moves := GenerateLegalMoves(b, boardgame.White)
	var epMove boardgame.Move
	found := false
	for _, m := range moves {
		if m.Flag == boardgame.FlagEnPassant {
			epMove = m
			found = true
		}
	}
	if !found {
		t.Fatal("expected an en passant capture to be available")
	}

	info, err := b.ApplyMove(epMove)
	if err != nil {
		t.Fatalf("ApplyMove en passant: %v", err)
	}
	if !b.PieceAt(idx2D(3, 4)).IsEmpty() {
		t.Error("captured pawn should have been removed by en passant")
	}
	b.UnmakeMove(epMove, info)
	if b.PieceAt(idx2D(3, 4)).Kind() != boardgame.Pawn {
		t.Error("unmake should have restored the captured pawn")
	}
}

func TestCastlingKingside(t *testing.T) {
	b := boardgame.New(2, 8)
	b.PlacePiece(idx2D(4, 0), boardgame.NewPiece(boardgame.King, boardgame.White))
	b.PlacePiece(idx2D(7, 0), boardgame.NewPiece(boardgame.Rook, boardgame.White))
	b.PlacePiece(idx2D(4, 7), boardgame.NewPiece(boardgame.King, boardgame.Black))
	b.Castling = boardgame.CastleWhiteKingside
	b.PushHistory()

	moves := GenerateLegalMoves(b, boardgame.White)
	var castle boardgame.Move
	found := false
	for _, m := range moves {
		if m.Flag == boardgame.FlagCastle {
			castle = m
			found = true
		}
	}
	if !found {
		t.Fatal("expected kingside castling to be legal")
	}

	info, err := b.ApplyMove(castle)
	if err != nil {
		t.Fatalf("ApplyMove castle: %v", err)
	}
	if b.PieceAt(idx2D(6, 0)).Kind() != boardgame.King {
		t.Error("king did not land on g1")
	}
	if b.PieceAt(idx2D(5, 0)).Kind() != boardgame.Rook {
		t.Error("rook did not land on f1")
	}
	b.UnmakeMove(castle, info)
	if b.PieceAt(idx2D(4, 0)).Kind() != boardgame.King || b.PieceAt(idx2D(7, 0)).Kind() != boardgame.Rook {
		t.Error("unmake did not restore castling rook/king positions")
	}
}

func TestCastlingThroughCheckBlocked(t *testing.T) {
	b := boardgame.New(2, 8)
	b.PlacePiece(idx2D(4, 0), boardgame.NewPiece(boardgame.King, boardgame.White))
	b.PlacePiece(idx2D(7, 0), boardgame.NewPiece(boardgame.Rook, boardgame.White))
	b.PlacePiece(idx2D(4, 7), boardgame.NewPiece(boardgame.King, boardgame.Black))
	// Black rook attacks f1, the square the king must pass through.
	b.PlacePiece(idx2D(5, 5), boardgame.NewPiece(boardgame.Rook, boardgame.Black))
	b.Castling = boardgame.CastleWhiteKingside
	b.PushHistory()

	moves := GenerateLegalMoves(b, boardgame.White)
	for _, m := range moves {
		if m.Flag == boardgame.FlagCastle {
			t.Fatalf("castling should be illegal while passing through an attacked square, got %v", m)
		}
	}
}

func TestForwardPawnPush3D(t *testing.T) {
	b := boardgame.New(3, 5)
	from := coordinate.Index(coordinate.New([]int{2, 1, 2}), 5)
	b.PlacePiece(from, boardgame.NewPiece(boardgame.Pawn, boardgame.White))
	b.PlacePiece(coordinate.Index(coordinate.New([]int{0, 0, 0}), 5), boardgame.NewPiece(boardgame.King, boardgame.White))
	b.PlacePiece(coordinate.Index(coordinate.New([]int{4, 4, 4}), 5), boardgame.NewPiece(boardgame.King, boardgame.Black))
	b.PushHistory()

	moves := GenerateLegalMoves(b, boardgame.White)
	wantSingleAxis1 := coordinate.Index(coordinate.New([]int{2, 2, 2}), 5)
	wantDoubleAxis1 := coordinate.Index(coordinate.New([]int{2, 3, 2}), 5)
	wantSingleAxis2 := coordinate.Index(coordinate.New([]int{2, 1, 3}), 5)

	var sawSingleAxis1, sawDoubleAxis1, sawSingleAxis2 bool
	for _, m := range moves {
		if m.From != from {
			continue
		}
		if m.To == wantSingleAxis1 {
			sawSingleAxis1 = true
		}
		if m.To == wantDoubleAxis1 && m.Flag == boardgame.FlagDoublePush {
			sawDoubleAxis1 = true
		}
		if m.To == wantSingleAxis2 {
			sawSingleAxis2 = true
		}
	}
	if !sawSingleAxis1 {
		t.Error("expected single forward push along axis 1 in 3D")
	}
	if !sawDoubleAxis1 {
		t.Error("expected double push from the starting rank in 3D")
	}
	if !sawSingleAxis2 {
		t.Error("expected single forward push along axis 2 in 3D, the super-pawn generalization")
	}
}
