package rules

import (
	"hyperchess/boardgame"
	"hyperchess/coordinate"
)

// generateCastlingMoves appends castling moves for player, if any are
// available. Castling is only defined when the board's side length is 8
// (spec's precondition), and only ever moves along axis 0, the file
// axis, matching the classical game regardless of how many higher axes
// the board has.
func generateCastlingMoves(b *boardgame.Board, player boardgame.Player, out *boardgame.MoveList) {
	if b.Side != 8 {
		return
	}

	homeRank := make([]int, b.N)
	if player == boardgame.Black {
		homeRank[axisFor(b.N)] = b.Side - 1
	}
	kingCoord, ok := b.GetKingCoordinate(player)
	if !ok {
		return
	}
	kingFrom := coordinate.Index(kingCoord, b.Side)

	tryCastle(b, player, kingFrom, true, out)
	tryCastle(b, player, kingFrom, false, out)
}

func axisFor(n int) int {
	if n > 1 {
		return 1
	}
	return 0
}

// tryCastle attempts to generate the kingside (kingSide=true) or
// queenside castling move for player, checking rights, empty intermediate
// cells, and that the king's path is never attacked.
func tryCastle(b *boardgame.Board, player boardgame.Player, kingFrom int, kingSide bool, out *boardgame.MoveList) {
	right, rookFromFile, kingToFile, rookToFile := castlingParams(player, kingSide)
	if b.Castling&right == 0 {
		return
	}

	kingCoord := coordinate.FromIndex(kingFrom, b.N, b.Side)
	rank := kingCoord.Values[1]

	rookFromCoord := coordinate.New(kingCoord.Values)
	rookFromCoord.Values[0] = rookFromFile
	rookFrom := coordinate.Index(rookFromCoord, b.Side)
	if b.PieceAt(rookFrom).Kind() != boardgame.Rook || b.PieceAt(rookFrom).Owner() != player {
		return
	}

	lo, hi := kingCoord.Values[0], rookFromFile
	if lo > hi {
		lo, hi = hi, lo
	}
	for file := lo + 1; file < hi; file++ {
		c := coordinate.New(kingCoord.Values)
		c.Values[0] = file
		if !b.PieceAt(coordinate.Index(c, b.Side)).IsEmpty() {
			return
		}
	}

	attacker := player.Opponent()
	step := 1
	if kingToFile < kingCoord.Values[0] {
		step = -1
	}
	for file := kingCoord.Values[0]; ; file += step {
		c := coordinate.New(kingCoord.Values)
		c.Values[0] = file
		if IsSquareAttacked(b, c, attacker) {
			return
		}
		if file == kingToFile {
			break
		}
	}

	kingTo := coordinate.New(kingCoord.Values)
	kingTo.Values[0] = kingToFile
	rookTo := coordinate.New(kingCoord.Values)
	rookTo.Values[0] = rookToFile

	_ = rank
	*out = append(*out, boardgame.Move{
		From:     kingFrom,
		To:       coordinate.Index(kingTo, b.Side),
		MovedKind: boardgame.King,
		Flag:     boardgame.FlagCastle,
		RookFrom: rookFrom,
		RookTo:   coordinate.Index(rookTo, b.Side),
	})
}

func castlingParams(player boardgame.Player, kingSide bool) (right boardgame.CastlingRights, rookFromFile, kingToFile, rookToFile int) {
	if kingSide {
		kingToFile, rookToFile = 6, 5
		rookFromFile = 7
		if player == boardgame.White {
			return boardgame.CastleWhiteKingside, rookFromFile, kingToFile, rookToFile
		}
		return boardgame.CastleBlackKingside, rookFromFile, kingToFile, rookToFile
	}
	kingToFile, rookToFile = 2, 3
	rookFromFile = 0
	if player == boardgame.White {
		return boardgame.CastleWhiteQueenside, rookFromFile, kingToFile, rookToFile
	}
	return boardgame.CastleBlackQueenside, rookFromFile, kingToFile, rookToFile
}
