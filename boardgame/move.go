package boardgame

import (
	"fmt"

	"hyperchess/coordinate"
)

// MoveFlag carries the special-move tags a Move can have, mirroring the
// teacher's FlagNone/FlagCastle/FlagEnPassant convention (promotion is
// signaled separately by a non-NoKind Promotion field instead of a flag
// bit, since a move can simultaneously promote and not need any other
// flag).
type MoveFlag uint8

const (
	FlagNone MoveFlag = iota
	FlagCastle
	FlagEnPassant
	FlagDoublePush
)

// Move is a single ply: a source cell, a destination cell, and an
// optional promotion kind. Unlike the teacher's packed 32-bit encoding,
// From/To are linear board indices rather than fixed 6-bit squares, since
// an N-dimensional board's index range is unbounded at compile time.
type Move struct {
	From      int
	To        int
	Promotion PieceKind
	Flag      MoveFlag
	MovedKind PieceKind
	Captured  Piece
	RookFrom  int // castling only
	RookTo    int // castling only

	// PawnAxis is the axis a pawn advanced along to produce this move:
	// meaningful only when MovedKind is Pawn, since in N dimensions a
	// pawn may advance along any axis except the file axis (axis 0 in
	// this engine's coordinate layout), so the forward axis cannot be
	// recovered from From/To alone once diagonal captures are involved.
	// Zero is a safe "unset" value for non-pawn moves: axis 0 is the
	// file axis and is never a pawn's own forward axis.
	PawnAxis int
}

// String renders a move using bracketed coordinate vectors rather than
// algebraic notation, since algebraic notation is only well defined for
// 2-D 8x8 boards (spec explicitly excludes coordinate parsing/printing as
// a production concern, but a readable Stringer is still useful for logs
// and tests).
func (m Move) String() string {
	s := fmt.Sprintf("%d->%d", m.From, m.To)
	if m.Promotion != NoKind {
		s += fmt.Sprintf("=%d", m.Promotion)
	}
	return s
}

// CoordString renders the move using board-relative coordinates, given
// the board's dimension and side length.
func (m Move) CoordString(n, side int) string {
	from := coordinate.FromIndex(m.From, n, side)
	to := coordinate.FromIndex(m.To, n, side)
	return fmt.Sprintf("%s->%s", from, to)
}

// MoveList is a simple move container, mirroring the teacher's MoveList
// usage as a plain slice with append-based construction.
type MoveList []Move
