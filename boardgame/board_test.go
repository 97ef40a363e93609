package boardgame

import "testing"

func TestSetupStandard2D(t *testing.T) {
	b := New(2, 8)
	b.SetupStandard2D()

	if got := b.Occupancy(White).PopCount(); got != 16 {
		t.Fatalf("white occupancy = %d, want 16", got)
	}
	if got := b.Occupancy(Black).PopCount(); got != 16 {
		t.Fatalf("black occupancy = %d, want 16", got)
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := b.RecomputeHash(); got != b.Hash {
		t.Fatalf("RecomputeHash = %d, want incremental hash %d", got, b.Hash)
	}
}

func TestApplyUnmakeRestoresExactState(t *testing.T) {
	b := New(2, 8)
	b.SetupStandard2D()

	before := snapshot(b)

	// e2-e4 equivalent: file 4, rank 1 -> file 4, rank 3.
	from := 4 + 1*8
	to := 4 + 3*8
	m := Move{From: from, To: to, MovedKind: Pawn, Flag: FlagDoublePush, PawnAxis: 1}

	info, err := b.ApplyMove(m)
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if b.PieceAt(to).Kind() != Pawn {
		t.Fatal("expected pawn at destination after move")
	}
	b.UnmakeMove(m, info)

	after := snapshot(b)
	if before != after {
		t.Fatalf("board state not restored: before=%+v after=%+v", before, after)
	}
}

func TestHashIdempotenceOverTwentyMoves(t *testing.T) {
	b := New(2, 8)
	b.SetupStandard2D()
	startHash := b.Hash

	type applied struct {
		move Move
		info UnmakeInfo
	}
	var stack []applied

	for i := 0; i < 20; i++ {
		moves := pseudoPawnAndKnightMoves(b)
		if len(moves) == 0 {
			break
		}
		m := moves[i%len(moves)]
		info, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		stack = append(stack, applied{m, info})
	}

	for i := len(stack) - 1; i >= 0; i-- {
		b.UnmakeMove(stack[i].move, stack[i].info)
	}

	if b.Hash != startHash {
		t.Fatalf("hash not restored after make/unmake sequence: got %d want %d", b.Hash, startHash)
	}
	if got := b.RecomputeHash(); got != b.Hash {
		t.Fatalf("RecomputeHash disagrees with incremental hash: got %d want %d", got, b.Hash)
	}
}

func TestKingCoordinateConsistency(t *testing.T) {
	b := New(2, 8)
	b.SetupStandard2D()
	coord, ok := b.GetKingCoordinate(White)
	if !ok {
		t.Fatal("expected to find white king")
	}
	idx := coord.Values[0] + coord.Values[1]*8
	if b.PieceAt(idx).Kind() != King || b.PieceAt(idx).Owner() != White {
		t.Fatalf("king coordinate %v does not point at a white king", coord)
	}
}

type stateSnapshot struct {
	hash      uint64
	castling  CastlingRights
	epCell    int
	pieces    string
}

func snapshot(b *Board) stateSnapshot {
	pieces := make([]byte, len(b.squares))
	for i, p := range b.squares {
		pieces[i] = byte(p)
	}
	return stateSnapshot{
		hash:     b.Hash,
		castling: b.Castling,
		epCell:   b.EnPassantCell,
		pieces:   string(pieces),
	}
}

// pseudoPawnAndKnightMoves returns a small set of structurally valid
// (not necessarily legal) moves for the side to move, enough to exercise
// ApplyMove/UnmakeMove bit-exactness without depending on the rules
// package (which in turn depends on this package).
func pseudoPawnAndKnightMoves(b *Board) []Move {
	var moves []Move
	player := b.SideToMove
	dir := 1
	if player == Black {
		dir = -1
	}
	b.KindOccupancy(Pawn, player).ForEach(func(fromIdx int) {
		toIdx := fromIdx + dir*8
		if toIdx < 0 || toIdx >= 64 || !b.PieceAt(toIdx).IsEmpty() {
			return
		}
		moves = append(moves, Move{From: fromIdx, To: toIdx, MovedKind: Pawn, PawnAxis: 1})
	})
	b.KindOccupancy(Knight, player).ForEach(func(fromIdx int) {
		file := fromIdx % 8
		rank := fromIdx / 8
		candidates := [][2]int{
			{file + 1, rank + 2}, {file - 1, rank + 2}, {file + 2, rank + 1}, {file - 2, rank + 1},
			{file + 1, rank - 2}, {file - 1, rank - 2}, {file + 2, rank - 1}, {file - 2, rank - 1},
		}
		for _, c := range candidates {
			if c[0] < 0 || c[0] > 7 || c[1] < 0 || c[1] > 7 {
				continue
			}
			toIdx := c[0] + c[1]*8
			target := b.PieceAt(toIdx)
			if !target.IsEmpty() && target.Owner() == player {
				continue
			}
			moves = append(moves, Move{From: fromIdx, To: toIdx, MovedKind: Knight, Captured: target})
		}
	})
	return moves
}
