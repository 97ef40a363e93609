// Package rules is the move-generation and legality engine: pseudo-legal
// generation by piece geometry, attack queries by reverse raycasting, and
// legality filtering by apply/check/unmake. It is grounded directly on
// original_source/src/domain/rules/attacks.rs and move_gen.rs, translated
// from Rust's Option/Vec idiom into Go's zero-value/slice idiom, and on
// the teacher's step-by-step ray walk in goosemg/movegen.go rather than
// the original's Kogge-Stone bitboard fill.
package rules

import (
	"hyperchess/boardgame"
	"hyperchess/coordinate"
	"hyperchess/geometry"
)

// IsSquareAttacked reports whether any piece owned by attacker threatens
// target. Rather than generating every attacker's move list, it walks
// outward from target using each piece kind's own geometry (a "reverse
// raycast"): the first occupied cell found along a given direction is
// the only cell that could possibly attack target along that direction.
func IsSquareAttacked(b *boardgame.Board, target coordinate.Coordinate, attacker boardgame.Player) bool {
	if pawnAttacksSquare(b, target, attacker) {
		return true
	}
	if leaperAttacksSquare(b, target, attacker, geometry.Knight, boardgame.Knight) {
		return true
	}
	if leaperAttacksSquare(b, target, attacker, geometry.King, boardgame.King) {
		return true
	}
	if sliderAttacksSquare(b, target, attacker, geometry.Rook, boardgame.Rook, boardgame.Queen) {
		return true
	}
	if sliderAttacksSquare(b, target, attacker, geometry.Bishop, boardgame.Bishop, boardgame.Queen) {
		return true
	}
	return false
}

func pawnAttacksSquare(b *boardgame.Board, target coordinate.Coordinate, attacker boardgame.Player) bool {
	sign := pawnForwardSign(attacker)
	for _, po := range geometry.PawnCaptureOffsets(b.N) {
		if po.Vector[po.ForwardAxis] != -sign {
			continue
		}
		src := target.Add(po.Vector)
		if !src.InBounds(b.Side) {
			continue
		}
		idx := coordinate.Index(src, b.Side)
		piece := b.PieceAt(idx)
		if piece.IsEmpty() || piece.Owner() != attacker || piece.Kind() != boardgame.Pawn {
			continue
		}
		return true
	}
	return false
}

func leaperAttacksSquare(b *boardgame.Board, target coordinate.Coordinate, attacker boardgame.Player, geomKind geometry.Kind, pieceKind boardgame.PieceKind) bool {
	for _, off := range geometry.Offsets(geomKind, b.N) {
		src := target.Add(off)
		if !src.InBounds(b.Side) {
			continue
		}
		idx := coordinate.Index(src, b.Side)
		piece := b.PieceAt(idx)
		if !piece.IsEmpty() && piece.Owner() == attacker && piece.Kind() == pieceKind {
			return true
		}
	}
	return false
}

func sliderAttacksSquare(b *boardgame.Board, target coordinate.Coordinate, attacker boardgame.Player, geomKind geometry.Kind, pieceKinds ...boardgame.PieceKind) bool {
	for _, dir := range geometry.Offsets(geomKind, b.N) {
		cur := target
		for {
			cur = cur.Add(dir)
			if !cur.InBounds(b.Side) {
				break
			}
			idx := coordinate.Index(cur, b.Side)
			piece := b.PieceAt(idx)
			if piece.IsEmpty() {
				continue
			}
			if piece.Owner() == attacker {
				for _, k := range pieceKinds {
					if piece.Kind() == k {
						return true
					}
				}
			}
			break
		}
	}
	return false
}

// pawnForwardSign returns the direction (+1 or -1) a player's pawns
// advance along the forward axis. White advances toward increasing
// values, Black toward decreasing ones, matching the teacher's rank
// convention (White starts at low ranks).
func pawnForwardSign(p boardgame.Player) int {
	if p == boardgame.White {
		return 1
	}
	return -1
}
