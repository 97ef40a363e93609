package ttable

import (
	"testing"

	"hyperchess/boardgame"
)

func TestStoreProbeRoundTrip(t *testing.T) {
	tbl := New(1)
	hash := uint64(0x1122334455667788)
	bestMove := boardgame.Move{From: 12, To: 28, MovedKind: boardgame.Pawn}
	tbl.Store(hash, -150, 6, FlagExact, bestMove)

	entry, ok := tbl.Probe(hash)
	if !ok {
		t.Fatal("expected a hit after Store")
	}
	if entry.Score != -150 || entry.Depth != 6 || entry.Flag != FlagExact {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Move != bestMove {
		t.Fatalf("entry.Move = %v, want %v", entry.Move, bestMove)
	}
}

func TestProbeMissOnUnknownHash(t *testing.T) {
	tbl := New(1)
	if _, ok := tbl.Probe(0xDEADBEEF); ok {
		t.Fatal("expected a miss on an empty table")
	}
}

func TestClear(t *testing.T) {
	tbl := New(1)
	tbl.Store(42, 10, 1, FlagExact, boardgame.Move{})
	tbl.Clear()
	if _, ok := tbl.Probe(42); ok {
		t.Fatal("expected a miss after Clear")
	}
}

func TestSizeIsPowerOfTwo(t *testing.T) {
	tbl := New(1)
	n := len(tbl.slots)
	if n&(n-1) != 0 {
		t.Fatalf("slot count %d is not a power of two", n)
	}
}
