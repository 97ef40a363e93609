package search

import (
	"hyperchess/boardgame"
	"hyperchess/config"
)

// Evaluator scores a leaf position from White's perspective, in
// centipawns, matching the teacher's White-centric evaluation convention
// (the caller negates for Black to move, as negamax requires).
type Evaluator func(b *boardgame.Board) int

// MaterialEvaluator sums each side's piece values using the fixed
// weights spec's leaf evaluation defines, White minus Black.
func MaterialEvaluator(b *boardgame.Board) int {
	score := 0
	for idx := 0; idx < b.TotalCells(); idx++ {
		piece := b.PieceAt(idx)
		if piece.IsEmpty() {
			continue
		}
		v := boardgame.PieceValue(piece.Kind())
		if piece.Owner() == boardgame.Black {
			score -= v
		} else {
			score += v
		}
	}
	return score
}

// winRateToCentipawns maps an MCTS win rate in [0,1] back to a
// White-centric centipawn score via the round-trip the spec's leaf
// evaluation defines: (w-0.5)*2*20000, where 20000 is the King's value.
func winRateToCentipawns(winRate float64) int {
	return int((winRate - 0.5) * 2 * float64(boardgame.PieceValue(boardgame.King)))
}

// NewEvaluatorFor returns the Evaluator matching mode. The MCTS-leaf
// evaluator takes an mctsRunner callback rather than importing the mcts
// package, so the caller supplies the closure; with a nil mctsRunner, or
// for any other mode, MaterialEvaluator is returned.
func NewEvaluatorFor(mode config.EvalMode, mctsRunner func(b *boardgame.Board, rootPlayer boardgame.Player) float64) Evaluator {
	if mode == config.EvalMCTSLeaf && mctsRunner != nil {
		return func(b *boardgame.Board) int {
			winRate := mctsRunner(b, boardgame.White)
			return winRateToCentipawns(winRate)
		}
	}
	return MaterialEvaluator
}
