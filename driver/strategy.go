package driver

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hyperchess/boardgame"
	"hyperchess/mcts"
	"hyperchess/rules"
	"hyperchess/search"
	"hyperchess/ttable"
)

// HumanStrategy returns whatever move was supplied externally (e.g. from
// a console prompt or a test fixture), via a channel-like single-shot
// supplier function. Console I/O itself is explicitly out of scope per
// the Non-goals this module carries forward; HumanStrategy only wires an
// externally obtained move into the Strategy interface.
type HumanStrategy struct {
	Supply func(ctx context.Context, b *boardgame.Board, player boardgame.Player) (boardgame.Move, error)
}

// ChooseMove delegates to Supply.
func (h HumanStrategy) ChooseMove(ctx context.Context, b *boardgame.Board, player boardgame.Player) (boardgame.Move, error) {
	return h.Supply(ctx, b, player)
}

// SearchStrategy chooses a move via iterative-deepening negamax, with
// Lazy SMP fan-out when Threads > 1.
type SearchStrategy struct {
	TT        *ttable.Table
	Evaluate  search.Evaluator
	MaxDepth  int
	TimeLimit time.Duration
	Threads   int
	Log       zerolog.Logger
}

// ChooseMove runs the search and returns its best move. If no search depth
// completed in time, it returns the first legal move instead; it returns
// ErrNoMoveAvailable only when player has no legal move (a terminal
// position).
func (s SearchStrategy) ChooseMove(ctx context.Context, b *boardgame.Board, player boardgame.Player) (boardgame.Move, error) {
	var deadline time.Time
	if s.TimeLimit > 0 {
		deadline = time.Now().Add(s.TimeLimit)
	}

	var result search.Result
	if s.Threads > 1 {
		result = search.RunLazySMP(ctx, b, player, s.Threads, s.MaxDepth, deadline, s.TT, s.Evaluate, s.Log)
	} else {
		searcher := search.NewSearcher(s.TT, s.Evaluate, s.Log)
		result = searcher.Search(ctx, b, player, s.MaxDepth, deadline)
	}

	if !result.HasBestMove {
		legal := rules.GenerateLegalMoves(b, player)
		if len(legal) == 0 {
			return boardgame.Move{}, ErrNoMoveAvailable
		}
		return legal[0], nil
	}
	return result.BestMove, nil
}

// MCTSStrategy chooses a move by running MCTS rollouts and picking the
// most-visited root child, with root parallelization when Threads > 1.
type MCTSStrategy struct {
	TT           *ttable.Table
	Iterations   int
	RolloutDepth int
	Threads      int
}

// ChooseMove runs MCTS and returns its most-visited root move, or
// ErrNoMoveAvailable if the root had none.
func (s MCTSStrategy) ChooseMove(ctx context.Context, b *boardgame.Board, player boardgame.Player) (boardgame.Move, error) {
	_, move, found := mcts.RunRootParallel(ctx, b, player, s.TT, s.RolloutDepth, s.Iterations, s.Threads)
	if !found {
		return boardgame.Move{}, ErrNoMoveAvailable
	}
	return move, nil
}
