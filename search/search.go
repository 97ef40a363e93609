// Package search implements the iterative-deepening negamax search with
// alpha-beta pruning, transposition-table-assisted move ordering, and a
// Lazy SMP worker pool, grounded on the teacher's engine/search.go
// negamax skeleton and original_source/src/infrastructure/ai/minimax.rs
// for the TT/killer/history heuristics this module restores.
package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"lukechampine.com/frand"
	"slices"

	"hyperchess/boardgame"
	"hyperchess/rules"
	"hyperchess/ttable"
)

// shuffleMoves performs a seeded Fisher-Yates shuffle of moves using
// frand seeded with seed, so each Lazy SMP worker's root order is
// reproducible within a single search call but differs across workers.
func shuffleMoves(moves boardgame.MoveList, seed uint64) {
	seedBytes := make([]byte, 32)
	for i := 0; i < 8; i++ {
		seedBytes[i] = byte(seed >> (8 * i))
	}
	rng := frand.NewCustom(seedBytes, 32, 20)
	for i := len(moves) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		moves[i], moves[j] = moves[j], moves[i]
	}
}

// checkmateScore is the centipawn magnitude assigned to a checkmate leaf,
// matching the teacher's Checkmate constant convention.
const checkmateScore = 30000

// maxPly bounds the killer-move table; searches deeper than this
// fall back to unordered move generation rather than indexing out of
// range.
const maxPly = 128

// Searcher runs iterative-deepening negamax against a single Board. It
// is not safe for concurrent use by itself — Lazy SMP parallelism is
// achieved by giving each worker its own Searcher over its own Board
// clone, sharing only the *ttable.Table (see RunLazySMP).
type Searcher struct {
	TT        *ttable.Table
	Evaluate  Evaluator
	Log       zerolog.Logger
	StopFlag  *atomic.Bool
	nodeCount uint64

	killers [maxPly][2]boardgame.Move
	history map[killKey]int

	// RootShuffleSeed, when nonzero, perturbs root move ordering before
	// the capture/killer/history sort is applied, so that Lazy SMP
	// workers sharing one transposition table explore the tree in a
	// different order rather than duplicating each other's work.
	RootShuffleSeed uint64
}

type killKey struct {
	from, to int
}

// NewSearcher constructs a Searcher. tt may be nil, in which case the
// search runs without transposition-table assistance.
func NewSearcher(tt *ttable.Table, eval Evaluator, log zerolog.Logger) *Searcher {
	return &Searcher{
		TT:       tt,
		Evaluate: eval,
		Log:      log,
		StopFlag: &atomic.Bool{},
		history:  make(map[killKey]int),
	}
}

// Result is the outcome of an iterative-deepening search.
type Result struct {
	BestMove     boardgame.Move
	HasBestMove  bool
	Score        int
	DepthReached int
	Nodes        uint64
	PV           PVLine
}

// Search performs iterative deepening from depth 1 up to maxDepth
// (or forever, bounded only by the deadline, when MaxDepth is zero). It
// polls the deadline and the shared stop flag roughly every 1024 node
// expansions, matching spec's "periodic deadline polling" requirement,
// and falls back to the last fully-completed depth's result if aborted
// mid-iteration rather than returning a partial, unreliable result.
func (s *Searcher) Search(ctx context.Context, b *boardgame.Board, player boardgame.Player, maxDepth int, deadline time.Time) Result {
	var best Result
	for depth := 1; maxDepth == 0 || depth <= maxDepth; depth++ {
		if s.deadlinePassed(deadline) || s.StopFlag.Load() {
			break
		}

		score, move, ok, pv := s.searchRoot(b, player, depth, deadline)
		if !ok {
			// The iteration was aborted before completing; keep the
			// previous depth's result.
			break
		}

		best = Result{BestMove: move, HasBestMove: true, Score: score, DepthReached: depth, Nodes: s.nodeCount, PV: pv}
		s.Log.Info().Int("depth", depth).Int("score", score).Uint64("nodes", s.nodeCount).Msg("iterative deepening")

		if score >= checkmateScore-maxPly || score <= -(checkmateScore-maxPly) {
			break
		}
	}
	return best
}

func (s *Searcher) deadlinePassed(deadline time.Time) bool {
	return !deadline.IsZero() && time.Now().After(deadline)
}

func (s *Searcher) searchRoot(b *boardgame.Board, player boardgame.Player, depth int, deadline time.Time) (score int, best boardgame.Move, ok bool, pv PVLine) {
	moves := rules.GenerateLegalMoves(b, player)
	if len(moves) == 0 {
		return 0, boardgame.Move{}, false, PVLine{}
	}
	if s.RootShuffleSeed != 0 {
		shuffleMoves(moves, s.RootShuffleSeed)
	}
	s.orderMoves(b, moves, 0)

	alpha, beta := -checkmateScore-1, checkmateScore+1
	bestScore := alpha
	var bestMove boardgame.Move
	var bestPV PVLine
	found := false

	for _, m := range moves {
		info, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		childScore, childPV, aborted := s.negamax(b, player.Opponent(), depth-1, -beta, -alpha, 1, deadline)
		b.UnmakeMove(m, info)
		if aborted {
			return 0, boardgame.Move{}, false, PVLine{}
		}
		childScore = -childScore

		if childScore > bestScore || !found {
			bestScore = childScore
			bestMove = m
			bestPV = PVLine{}
			bestPV.set(m, childPV)
			found = true
		}
		if childScore > alpha {
			alpha = childScore
		}
	}

	if !found {
		return 0, boardgame.Move{}, false, PVLine{}
	}
	return bestScore, bestMove, true, bestPV
}

// negamax returns the score of the current position from the perspective
// of player, searching to remaining plies, plus whether the search was
// aborted by the deadline/stop flag before completing (in which case the
// score is meaningless and must be discarded by the caller).
func (s *Searcher) negamax(b *boardgame.Board, player boardgame.Player, remaining int, alpha, beta, ply int, deadline time.Time) (int, PVLine, bool) {
	s.nodeCount++
	if s.nodeCount%1024 == 0 {
		if s.deadlinePassed(deadline) || s.StopFlag.Load() {
			return 0, PVLine{}, true
		}
	}

	hash := b.Hash
	if s.TT != nil {
		if entry, hit := s.TT.Probe(hash); hit && int(entry.Depth) >= remaining {
			switch entry.Flag {
			case ttable.FlagExact:
				return int(entry.Score), PVLine{}, false
			case ttable.FlagLowerBound:
				if int(entry.Score) > alpha {
					alpha = int(entry.Score)
				}
			case ttable.FlagUpperBound:
				if int(entry.Score) < beta {
					beta = int(entry.Score)
				}
			}
			if alpha >= beta {
				return int(entry.Score), PVLine{}, false
			}
		}
	}

	if remaining <= 0 {
		return s.leafScore(b, player), PVLine{}, false
	}

	if b.IsRepetition() {
		return 0, PVLine{}, false
	}

	moves := rules.GenerateLegalMoves(b, player)
	if len(moves) == 0 {
		if rules.InCheck(b, player) {
			return -(checkmateScore - ply), PVLine{}, false
		}
		return 0, PVLine{}, false
	}
	if ply < maxPly {
		s.orderMoves(b, moves, ply)
	}

	origAlpha := alpha
	bestScore := -checkmateScore - 1
	var bestMove boardgame.Move
	var bestPV PVLine

	for _, m := range moves {
		info, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		childScore, childPV, aborted := s.negamax(b, player.Opponent(), remaining-1, -beta, -alpha, ply+1, deadline)
		b.UnmakeMove(m, info)
		if aborted {
			return 0, PVLine{}, true
		}
		childScore = -childScore

		if childScore > bestScore {
			bestScore = childScore
			bestMove = m
			bestPV = PVLine{}
			bestPV.set(m, childPV)
		}
		if childScore > alpha {
			alpha = childScore
		}
		if alpha >= beta {
			s.recordKiller(m, ply)
			s.history[killKey{m.From, m.To}]++
			break
		}
	}

	if s.TT != nil {
		flag := ttable.FlagExact
		switch {
		case bestScore <= origAlpha:
			flag = ttable.FlagUpperBound
		case bestScore >= beta:
			flag = ttable.FlagLowerBound
		}
		s.TT.Store(hash, int16(clampScore(bestScore)), uint8(remaining), flag, bestMove)
	}

	return bestScore, bestPV, false
}

func (s *Searcher) leafScore(b *boardgame.Board, player boardgame.Player) int {
	score := s.Evaluate(b)
	if player == boardgame.Black {
		score = -score
	}
	return score
}

func (s *Searcher) recordKiller(m boardgame.Move, ply int) {
	if ply >= maxPly {
		return
	}
	if s.killers[ply][0] != m {
		s.killers[ply][1] = s.killers[ply][0]
		s.killers[ply][0] = m
	}
}

// orderMoves sorts moves in place: the transposition table's best move
// for the current position first (spec's move-ordering contract requires
// this at minimum), then captures (ordered by captured piece value,
// matching original_source's MVV-style sort), then killer moves recorded
// at this ply, then by history heuristic score. The TT-move step mirrors
// the teacher's own engine/search.go, which probes the table before
// generating move-ordering scores; killers and history are explicitly
// recommended-but-optional by the search contract and are restored here
// from the original's minimax.rs.
func (s *Searcher) orderMoves(b *boardgame.Board, moves boardgame.MoveList, ply int) {
	var ttMove boardgame.Move
	if s.TT != nil {
		if entry, hit := s.TT.Probe(b.Hash); hit {
			ttMove = entry.Move
		}
	}

	var killer0, killer1 boardgame.Move
	if ply < maxPly {
		killer0, killer1 = s.killers[ply][0], s.killers[ply][1]
	}

	score := func(m boardgame.Move) int {
		if m.MovedKind != boardgame.NoKind && m == ttMove {
			return 2_000_000
		}
		if !m.Captured.IsEmpty() {
			return 1_000_000 + boardgame.PieceValue(m.Captured.Kind())
		}
		if m == killer0 {
			return 900_000
		}
		if m == killer1 {
			return 800_000
		}
		return s.history[killKey{m.From, m.To}]
	}

	slices.SortFunc(moves, func(a, bMove boardgame.Move) int {
		return score(bMove) - score(a)
	})
}

func clampScore(score int) int {
	if score > 32767 {
		return 32767
	}
	if score < -32768 {
		return -32768
	}
	return score
}
