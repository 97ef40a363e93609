package boardgame

import (
	"github.com/pkg/errors"

	"hyperchess/coordinate"
)

// ErrInvalidMove is returned by ApplyMove when the move cannot be applied
// to the current board state (no piece at From, etc). It never indicates
// an illegal-but-structurally-sound move; legality (king safety) is the
// rules engine's concern, applied on top of ApplyMove/UnmakeMove.
var ErrInvalidMove = errors.New("boardgame: invalid move")

// UnmakeInfo captures everything ApplyMove mutated beyond the board's
// permanent position fields, so UnmakeMove can restore the board exactly,
// mirroring the teacher's per-move undo record in makemove.go.
type UnmakeInfo struct {
	Captured          Piece
	CapturedAt        int
	PrevEnPassantCell int
	PrevCastling      CastlingRights
	PrevHash          uint64
}

// ApplyMove performs move on the board in place: it moves the piece,
// resolves captures (including en passant), moves the castling rook, and
// promotes a pawn reaching the far edge. No legality checking (king
// safety) happens here; that is the rules engine's job, applied by
// calling ApplyMove, inspecting attacks, and calling UnmakeMove if the
// resulting position is illegal.
func (b *Board) ApplyMove(m Move) (UnmakeInfo, error) {
	piece := b.squares[m.From]
	if piece.IsEmpty() {
		return UnmakeInfo{}, errors.Wrapf(ErrInvalidMove, "no piece at cell %d", m.From)
	}

	info := UnmakeInfo{
		PrevEnPassantCell: b.EnPassantCell,
		PrevCastling:      b.Castling,
		PrevHash:          b.Hash,
	}

	// Clear the old en-passant key; a fresh one (or none) is set below.
	if b.EnPassantCell != NoCell {
		b.Hash ^= b.Keys.EnPassantCell[b.EnPassantCell]
	}
	b.Hash ^= b.Keys.Castling[b.Castling]

	capturedAt := m.To
	if m.Flag == FlagEnPassant {
		capturedAt = enPassantCapturedCell(b, m)
	}
	captured := b.squares[capturedAt]
	if !captured.IsEmpty() {
		b.RemovePiece(capturedAt)
	}
	info.Captured = captured
	info.CapturedAt = capturedAt

	b.RemovePiece(m.From)
	finalKind := piece.Kind()
	if m.Promotion != NoKind {
		finalKind = m.Promotion
	}
	b.PlacePiece(m.To, NewPiece(finalKind, piece.Owner()))

	if m.Flag == FlagCastle {
		rook := b.squares[m.RookFrom]
		b.RemovePiece(m.RookFrom)
		b.PlacePiece(m.RookTo, rook)
	}

	b.Castling &^= castlingLossMask(b, piece, m, captured, capturedAt)
	b.Hash ^= b.Keys.Castling[b.Castling]

	b.EnPassantCell = NoCell
	if m.Flag == FlagDoublePush {
		b.EnPassantCell = enPassantTargetCell(b, m)
		b.Hash ^= b.Keys.EnPassantCell[b.EnPassantCell]
	}

	b.Hash ^= b.Keys.SideToMove
	b.SideToMove = b.SideToMove.Opponent()
	b.PushHistory()

	return info, nil
}

// UnmakeMove exactly reverses the ApplyMove call that produced info,
// restoring the board to its prior state without recomputing the hash
// from scratch.
func (b *Board) UnmakeMove(m Move, info UnmakeInfo) {
	b.PopHistory()
	b.SideToMove = b.SideToMove.Opponent()

	if m.Flag == FlagCastle {
		rook := b.squares[m.RookTo]
		b.RemovePiece(m.RookTo)
		b.PlacePiece(m.RookFrom, rook)
	}

	moved := b.squares[m.To]
	originalKind := moved.Kind()
	if m.Promotion != NoKind {
		originalKind = Pawn
	}
	b.RemovePiece(m.To)
	b.PlacePiece(m.From, NewPiece(originalKind, moved.Owner()))

	if !info.Captured.IsEmpty() {
		b.PlacePiece(info.CapturedAt, info.Captured)
	}

	b.EnPassantCell = info.PrevEnPassantCell
	b.Castling = info.PrevCastling
	b.Hash = info.PrevHash
}

// enPassantCapturedCell returns the cell of the pawn actually captured by
// an en-passant move: every axis matches the destination except the
// move's own forward axis, which matches the source (the captured pawn
// sits beside the moving pawn's starting rank, not on the destination
// cell). The forward axis comes from the move itself, not a fixed axis,
// since a pawn may advance along any axis except the file axis.
func enPassantCapturedCell(b *Board, m Move) int {
	from := coordinate.FromIndex(m.From, b.N, b.Side)
	to := coordinate.FromIndex(m.To, b.N, b.Side)
	to.Values[m.PawnAxis] = from.Values[m.PawnAxis]
	return coordinate.Index(to, b.Side)
}

// enPassantTargetCell returns the cell a double-pushed pawn can be
// captured into: halfway between From and To along the move's forward
// axis, identical to the destination along every other axis.
func enPassantTargetCell(b *Board, m Move) int {
	from := coordinate.FromIndex(m.From, b.N, b.Side)
	to := coordinate.FromIndex(m.To, b.N, b.Side)
	mid := to
	mid.Values[m.PawnAxis] = (from.Values[m.PawnAxis] + to.Values[m.PawnAxis]) / 2
	return coordinate.Index(mid, b.Side)
}

// castlingLossMask computes which castling-rights bits move invalidates:
// a king move, a rook move from its home cell, or a capture landing on
// the opponent's home rook cell.
func castlingLossMask(b *Board, piece Piece, m Move, captured Piece, capturedAt int) CastlingRights {
	var mask CastlingRights
	if b.Side != 8 {
		return 0
	}
	if piece.Kind() == King {
		if piece.Owner() == White {
			mask |= CastleWhiteKingside | CastleWhiteQueenside
		} else {
			mask |= CastleBlackKingside | CastleBlackQueenside
		}
	}
	mask |= castlingRightForRookCell(b, m.From)
	mask |= castlingRightForRookCell(b, capturedAt)
	return mask
}

func castlingRightForRookCell(b *Board, index int) CastlingRights {
	side := b.Side
	back0 := 0
	backN := side - 1
	rank := index / side
	file := index % side
	switch {
	case rank == back0 && file == backN:
		return CastleWhiteKingside
	case rank == back0 && file == 0:
		return CastleWhiteQueenside
	case rank == backN && file == backN:
		return CastleBlackKingside
	case rank == backN && file == 0:
		return CastleBlackQueenside
	default:
		return 0
	}
}
