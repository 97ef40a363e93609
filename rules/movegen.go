package rules

import (
	"hyperchess/boardgame"
	"hyperchess/coordinate"
	"hyperchess/geometry"
)

// GenerateLegalMoves returns every legal move available to player: the
// pseudo-legal list, filtered by actually applying each move, checking
// whether the mover's own king is attacked afterward, and unmaking. No
// board is ever cloned for this filter; it is pure apply/check/unmake,
// per the data model's make/unmake protocol.
func GenerateLegalMoves(b *boardgame.Board, player boardgame.Player) boardgame.MoveList {
	pseudo := generatePseudoLegalMoves(b, player)
	legal := make(boardgame.MoveList, 0, len(pseudo))
	for _, m := range pseudo {
		info, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		kingCoord, ok := b.GetKingCoordinate(player)
		safe := !ok || !IsSquareAttacked(b, kingCoord, player.Opponent())
		b.UnmakeMove(m, info)
		if safe {
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMoves reports whether player has at least one legal move,
// short-circuiting as soon as one is found rather than building the
// whole list (mirrored from the teacher's terminal-detection helpers,
// generalized to N dimensions).
func HasLegalMoves(b *boardgame.Board, player boardgame.Player) bool {
	pseudo := generatePseudoLegalMoves(b, player)
	for _, m := range pseudo {
		info, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		kingCoord, ok := b.GetKingCoordinate(player)
		safe := !ok || !IsSquareAttacked(b, kingCoord, player.Opponent())
		b.UnmakeMove(m, info)
		if safe {
			return true
		}
	}
	return false
}

// InCheck reports whether player's king is currently attacked.
func InCheck(b *boardgame.Board, player boardgame.Player) bool {
	kingCoord, ok := b.GetKingCoordinate(player)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, kingCoord, player.Opponent())
}

// InCheckmate reports whether player is in check and has no legal move.
func InCheckmate(b *boardgame.Board, player boardgame.Player) bool {
	return InCheck(b, player) && !HasLegalMoves(b, player)
}

// InStalemate reports whether player is not in check but has no legal
// move.
func InStalemate(b *boardgame.Board, player boardgame.Player) bool {
	return !InCheck(b, player) && !HasLegalMoves(b, player)
}

// GivesCheck reports whether applying m would leave the opponent's king
// attacked, without leaving any lasting mutation on the board. Nothing in
// this module calls it: the search's move ordering does not use it, and
// legality flows through GenerateLegalMoves's own apply/check/unmake
// filter.
func GivesCheck(b *boardgame.Board, player boardgame.Player, m boardgame.Move) bool {
	info, err := b.ApplyMove(m)
	if err != nil {
		return false
	}
	opp := player.Opponent()
	kingCoord, ok := b.GetKingCoordinate(opp)
	check := ok && IsSquareAttacked(b, kingCoord, player)
	b.UnmakeMove(m, info)
	return check
}

func generatePseudoLegalMoves(b *boardgame.Board, player boardgame.Player) boardgame.MoveList {
	var moves boardgame.MoveList
	own := b.Occupancy(player)

	generateLeaperMoves(b, player, boardgame.Knight, geometry.Knight, &moves)
	generateLeaperMoves(b, player, boardgame.King, geometry.King, &moves)
	generateSliderMoves(b, player, boardgame.Rook, geometry.Rook, &moves)
	generateSliderMoves(b, player, boardgame.Bishop, geometry.Bishop, &moves)
	generateSliderMoves(b, player, boardgame.Queen, geometry.Queen, &moves)
	generatePawnMoves(b, player, &moves)
	generateCastlingMoves(b, player, &moves)

	_ = own
	return moves
}

func generateLeaperMoves(b *boardgame.Board, player boardgame.Player, kind boardgame.PieceKind, geomKind geometry.Kind, out *boardgame.MoveList) {
	offsets := geometry.Offsets(geomKind, b.N)
	b.KindOccupancy(kind, player).ForEach(func(fromIdx int) {
		from := coordinate.FromIndex(fromIdx, b.N, b.Side)
		for _, off := range offsets {
			to := from.Add(off)
			if !to.InBounds(b.Side) {
				continue
			}
			toIdx := coordinate.Index(to, b.Side)
			target := b.PieceAt(toIdx)
			if !target.IsEmpty() && target.Owner() == player {
				continue
			}
			*out = append(*out, boardgame.Move{From: fromIdx, To: toIdx, MovedKind: kind, Captured: target})
		}
	})
}

func generateSliderMoves(b *boardgame.Board, player boardgame.Player, kind boardgame.PieceKind, geomKind geometry.Kind, out *boardgame.MoveList) {
	directions := geometry.Offsets(geomKind, b.N)
	b.KindOccupancy(kind, player).ForEach(func(fromIdx int) {
		from := coordinate.FromIndex(fromIdx, b.N, b.Side)
		for _, dir := range directions {
			cur := from
			for {
				cur = cur.Add(dir)
				if !cur.InBounds(b.Side) {
					break
				}
				toIdx := coordinate.Index(cur, b.Side)
				target := b.PieceAt(toIdx)
				if target.IsEmpty() {
					*out = append(*out, boardgame.Move{From: fromIdx, To: toIdx, MovedKind: kind})
					continue
				}
				if target.Owner() != player {
					*out = append(*out, boardgame.Move{From: fromIdx, To: toIdx, MovedKind: kind, Captured: target})
				}
				break
			}
		}
	})
}

// fileAxis is the lateral, pawn-forbidden, castling axis: axis 0, the
// least significant digit of a cell's mixed-radix index.
const fileAxis = 0

// generatePawnMoves generates the super-pawn's moves: a pawn may advance
// along any axis except the file axis, so every other axis is its own
// independent candidate forward axis for single pushes, double pushes,
// and diagonal captures, mirroring generateLeaperMoves's axis-parameterized
// style rather than hard-coding a single forward axis.
func generatePawnMoves(b *boardgame.Board, player boardgame.Player, out *boardgame.MoveList) {
	sign := pawnForwardSign(player)
	startRank := 1
	if player == boardgame.Black {
		startRank = b.Side - 2
	}

	b.KindOccupancy(boardgame.Pawn, player).ForEach(func(fromIdx int) {
		from := coordinate.FromIndex(fromIdx, b.N, b.Side)

		for fwdAxis := 0; fwdAxis < b.N; fwdAxis++ {
			if fwdAxis == fileAxis {
				continue
			}

			// Single forward push.
			single := coordinate.New(from.Values)
			single.Values[fwdAxis] += sign
			if single.InBounds(b.Side) {
				toIdx := coordinate.Index(single, b.Side)
				if b.PieceAt(toIdx).IsEmpty() {
					emitPawnMove(b, player, fromIdx, toIdx, boardgame.FlagNone, fwdAxis, out)

					// Double push from the starting rank on this axis.
					if from.Values[fwdAxis] == startRank {
						double := coordinate.New(single.Values)
						double.Values[fwdAxis] += sign
						if double.InBounds(b.Side) {
							dblIdx := coordinate.Index(double, b.Side)
							if b.PieceAt(dblIdx).IsEmpty() {
								*out = append(*out, boardgame.Move{From: fromIdx, To: dblIdx, MovedKind: boardgame.Pawn, Flag: boardgame.FlagDoublePush, PawnAxis: fwdAxis})
							}
						}
					}
				}
			}

			// Diagonal captures: one step forward on fwdAxis plus one step on any other axis.
			for axis := 0; axis < b.N; axis++ {
				if axis == fwdAxis {
					continue
				}
				for _, side := range []int{-1, 1} {
					to := coordinate.New(from.Values)
					to.Values[fwdAxis] += sign
					to.Values[axis] += side
					if !to.InBounds(b.Side) {
						continue
					}
					toIdx := coordinate.Index(to, b.Side)
					target := b.PieceAt(toIdx)
					if !target.IsEmpty() && target.Owner() != player {
						emitPawnMove(b, player, fromIdx, toIdx, boardgame.FlagNone, fwdAxis, out)
					} else if target.IsEmpty() && toIdx == b.EnPassantCell {
						*out = append(*out, boardgame.Move{From: fromIdx, To: toIdx, MovedKind: boardgame.Pawn, Flag: boardgame.FlagEnPassant, PawnAxis: fwdAxis})
					}
				}
			}
		}
	})
}

// emitPawnMove appends a plain pawn move, expanding it into one move per
// promotion kind when the destination satisfies the promotion rule.
func emitPawnMove(b *boardgame.Board, player boardgame.Player, fromIdx, toIdx int, flag boardgame.MoveFlag, fwdAxis int, out *boardgame.MoveList) {
	target := b.PieceAt(toIdx)
	base := boardgame.Move{From: fromIdx, To: toIdx, MovedKind: boardgame.Pawn, Flag: flag, Captured: target, PawnAxis: fwdAxis}
	if isPromotionCell(b, player, toIdx) {
		for _, kind := range []boardgame.PieceKind{boardgame.Queen, boardgame.Rook, boardgame.Bishop, boardgame.Knight} {
			m := base
			m.Promotion = kind
			*out = append(*out, m)
		}
		return
	}
	*out = append(*out, base)
}

// isPromotionCell implements the rule exactly as written: every axis
// except axis 0 (the file axis) must equal the far-edge value for the
// mover. This is a direct, deliberately unmodified translation of the
// defined promotion rule; on boards of three or more dimensions a pawn
// move promotes only if, after it, every non-file axis sits at the far
// edge, so a push along one axis promotes only when every other non-file
// axis is already there.
func isPromotionCell(b *boardgame.Board, player boardgame.Player, idx int) bool {
	far := b.Side - 1
	if player == boardgame.Black {
		far = 0
	}
	coord := coordinate.FromIndex(idx, b.N, b.Side)
	for axis := 1; axis < b.N; axis++ {
		if coord.Values[axis] != far {
			return false
		}
	}
	return b.N > 1
}
