package boardgame

import (
	"github.com/pkg/errors"

	"hyperchess/bitboard"
	"hyperchess/coordinate"
	"hyperchess/zobrist"
)

// CastlingRights packs the four standard castling flags into one byte,
// mirroring the teacher's CastlingRights bit flags. Castling only applies
// when Side == 8 (spec's castling precondition), but the rights byte is
// carried on every board shape for uniformity.
type CastlingRights uint8

const (
	CastleWhiteKingside  CastlingRights = 1 << iota
	CastleWhiteQueenside
	CastleBlackKingside
	CastleBlackQueenside
)

// NoCell marks the absence of a target cell (used for EnPassant).
const NoCell = -1

// Board is the full mutable game state: piece placement, side to move,
// en-passant target, castling rights, and an incrementally maintained
// Zobrist hash. It generalizes the teacher's goosemg.Board from a fixed
// 8x8 layout to an arbitrary (N, Side) shape.
type Board struct {
	N    int
	Side int

	// squares holds the piece occupying each linear index, NoPiece for
	// empty cells. Kept alongside the per-kind bitboards below so piece
	// lookups by index are O(1), matching the teacher's pieces[] array.
	squares []Piece

	// byKindPlayer[kind][player] is the occupancy bitboard for that
	// piece kind and player.
	byKindPlayer [7][2]bitboard.Bitboard
	occupancy    [2]bitboard.Bitboard

	SideToMove Player

	// EnPassantCell is the cell a pawn can capture into via en passant,
	// or NoCell if none is available this ply.
	EnPassantCell int
	Castling      CastlingRights

	Keys *zobrist.Keys
	Hash uint64

	// History records the hash of every position reached so far
	// (including the current one), used by IsRepetition.
	History []uint64
}

// New allocates an empty board of the given dimension and side length.
func New(n, side int) *Board {
	total := coordinate.TotalCells(n, side)
	b := &Board{
		N:             n,
		Side:          side,
		squares:       make([]Piece, total),
		EnPassantCell: NoCell,
		Keys:          zobrist.New(total),
	}
	for kind := 0; kind < 7; kind++ {
		for pl := 0; pl < 2; pl++ {
			b.byKindPlayer[kind][pl] = bitboard.New(total)
		}
	}
	b.occupancy[White] = bitboard.New(total)
	b.occupancy[Black] = bitboard.New(total)
	return b
}

// TotalCells returns the number of cells on the board.
func (b *Board) TotalCells() int { return len(b.squares) }

// PieceAt returns the piece occupying index, or NoPiece.
func (b *Board) PieceAt(index int) Piece { return b.squares[index] }

// Occupancy returns the combined occupancy bitboard for player.
func (b *Board) Occupancy(player Player) bitboard.Bitboard { return b.occupancy[player] }

// KindOccupancy returns the occupancy bitboard for (kind, player).
func (b *Board) KindOccupancy(kind PieceKind, player Player) bitboard.Bitboard {
	return b.byKindPlayer[kind][player]
}

// AnyOccupancy returns a bitboard of every occupied cell.
func (b *Board) AnyOccupancy() bitboard.Bitboard {
	occ := b.occupancy[White].Clone()
	occ.OrWith(b.occupancy[Black])
	return occ
}

// PlacePiece puts piece on index, updating bitboards, squares, and hash.
// It does not check that index is currently empty; callers (board setup,
// make/unmake) are responsible for that invariant.
func (b *Board) PlacePiece(index int, piece Piece) {
	b.squares[index] = piece
	kind, owner := piece.Kind(), piece.Owner()
	b.byKindPlayer[kind][owner].Set(index)
	b.occupancy[owner].Set(index)
	b.Hash ^= b.Keys.Piece[kind-1][owner][index]
}

// RemovePiece clears whatever piece occupies index (if any), updating
// bitboards, squares, and hash symmetrically with PlacePiece.
func (b *Board) RemovePiece(index int) {
	piece := b.squares[index]
	if piece.IsEmpty() {
		return
	}
	kind, owner := piece.Kind(), piece.Owner()
	b.byKindPlayer[kind][owner].Clear(index)
	b.occupancy[owner].Clear(index)
	b.squares[index] = NoPiece
	b.Hash ^= b.Keys.Piece[kind-1][owner][index]
}

// SetSideToMove overrides the side to move directly, for test setup and
// editor-style board construction (spec's Lifecycle allows direct editor
// calls outside normal make/unmake).
func (b *Board) SetSideToMove(p Player) {
	if b.SideToMove != p {
		b.Hash ^= b.Keys.SideToMove
	}
	b.SideToMove = p
}

// GetKingCoordinate returns the Coordinate of player's king, or false if
// the board has none (which should not happen in a well-formed game but
// is tolerated for partially constructed test fixtures).
func (b *Board) GetKingCoordinate(player Player) (coordinate.Coordinate, bool) {
	var found coordinate.Coordinate
	ok := false
	b.byKindPlayer[King][player].ForEach(func(idx int) {
		found = coordinate.FromIndex(idx, b.N, b.Side)
		ok = true
	})
	return found, ok
}

// RecomputeHash rebuilds Hash from scratch by scanning every cell, the
// side to move, castling rights, and en-passant cell. It is used for
// verification against the incrementally maintained hash, never on a hot
// path.
func (b *Board) RecomputeHash() uint64 {
	var h uint64
	for idx, piece := range b.squares {
		if piece.IsEmpty() {
			continue
		}
		h ^= b.Keys.Piece[piece.Kind()-1][piece.Owner()][idx]
	}
	if b.SideToMove == Black {
		h ^= b.Keys.SideToMove
	}
	h ^= b.Keys.Castling[b.Castling]
	if b.EnPassantCell != NoCell {
		h ^= b.Keys.EnPassantCell[b.EnPassantCell]
	}
	return h
}

// IsRepetition reports whether the current hash has occurred at any
// earlier point in History (spec's "any prior occurrence" repetition
// rule, deliberately not FIDE three-fold; see the Open Question decision
// recorded for this module).
func (b *Board) IsRepetition() bool {
	if len(b.History) == 0 {
		return false
	}
	current := b.Hash
	// The most recently pushed entry is the current position itself;
	// look for an earlier match.
	for i := 0; i < len(b.History)-1; i++ {
		if b.History[i] == current {
			return true
		}
	}
	return false
}

// PushHistory appends the current hash to History.
func (b *Board) PushHistory() {
	b.History = append(b.History, b.Hash)
}

// PopHistory removes the most recently pushed history entry.
func (b *Board) PopHistory() {
	if len(b.History) > 0 {
		b.History = b.History[:len(b.History)-1]
	}
}

// Validate performs an internal-consistency self-check: every bit set in
// a per-kind bitboard must match squares[], and no cell may be claimed by
// two different (kind, player) pairs. It is used by tests only.
func (b *Board) Validate() error {
	for idx, piece := range b.squares {
		if piece.IsEmpty() {
			continue
		}
		kind, owner := piece.Kind(), piece.Owner()
		if !b.byKindPlayer[kind][owner].Test(idx) {
			return errors.Errorf("board: squares[%d]=%v but bitboard not set", idx, piece)
		}
		if !b.occupancy[owner].Test(idx) {
			return errors.Errorf("board: squares[%d] owner %v missing from occupancy", idx, owner)
		}
	}
	for idx := range b.squares {
		count := 0
		for kind := Pawn; kind <= King; kind++ {
			for pl := White; pl <= Black; pl++ {
				if b.byKindPlayer[kind][pl].Test(idx) {
					count++
				}
			}
		}
		if count > 1 {
			return errors.Errorf("board: cell %d claimed by %d (kind,player) pairs", idx, count)
		}
		if count > 0 && b.squares[idx].IsEmpty() {
			return errors.Errorf("board: cell %d set in a per-kind bitboard but squares[%d] is empty", idx, idx)
		}
	}
	return nil
}

// Clone returns a deep copy of the board, used by Lazy SMP workers and
// MCTS root-parallel tasks that each need an independent mutable board
// sharing the same immutable Zobrist key table.
func (b *Board) Clone() *Board {
	out := &Board{
		N:             b.N,
		Side:          b.Side,
		squares:       append([]Piece(nil), b.squares...),
		SideToMove:    b.SideToMove,
		EnPassantCell: b.EnPassantCell,
		Castling:      b.Castling,
		Keys:          b.Keys,
		Hash:          b.Hash,
		History:       append([]uint64(nil), b.History...),
	}
	for kind := 0; kind < 7; kind++ {
		for pl := 0; pl < 2; pl++ {
			out.byKindPlayer[kind][pl] = b.byKindPlayer[kind][pl].Clone()
		}
	}
	out.occupancy[White] = b.occupancy[White].Clone()
	out.occupancy[Black] = b.occupancy[Black].Clone()
	return out
}

// SetupStandard2D populates an 8x8, N==2 board with the standard chess
// starting position. It is a convenience used by tests and the CLI; it
// panics if the board is not 8x8 2-D, matching the teacher's assumption
// that the standard setup only makes sense on the classical board shape.
func (b *Board) SetupStandard2D() {
	if b.N != 2 || b.Side != 8 {
		panic("boardgame: SetupStandard2D requires a 2-dimensional, side-8 board")
	}

	back := []PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	place := func(file, rank int, kind PieceKind, owner Player) {
		idx := coordinate.Index(coordinate.New([]int{file, rank}), b.Side)
		b.PlacePiece(idx, NewPiece(kind, owner))
	}

	for file := 0; file < 8; file++ {
		place(file, 0, back[file], White)
		place(file, 1, Pawn, White)
		place(file, 6, Pawn, Black)
		place(file, 7, back[file], Black)
	}

	b.SideToMove = White
	b.Castling = CastleWhiteKingside | CastleWhiteQueenside | CastleBlackKingside | CastleBlackQueenside
	b.Hash ^= b.Keys.Castling[b.Castling]
	b.PushHistory()
}
