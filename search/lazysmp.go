package search

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"hyperchess/boardgame"
	"hyperchess/ttable"
)

// RunLazySMP fans out numThreads independent Searcher workers, each over
// its own Board clone, sharing one transposition table. Workers differ
// only in their thread-local PRNG-seeded root-move shuffle (spec's
// diversification mechanism for Lazy SMP, grounded on the errgroup-based
// worker pool in domino14-macondo's solver), not in any search parameter.
// All workers share one stop flag and one deadline, and each polls both
// during its search, so every worker stops once the deadline passes; the
// flag itself is set only after every worker has returned. The worker
// reporting the highest score wins.
func RunLazySMP(ctx context.Context, b *boardgame.Board, player boardgame.Player, numThreads, maxDepth int, deadline time.Time, tt *ttable.Table, eval Evaluator, log zerolog.Logger) Result {
	if numThreads < 1 {
		numThreads = 1
	}

	stopFlag := &atomic.Bool{}
	results := make([]Result, numThreads)

	g, gctx := errgroup.WithContext(ctx)
	for worker := 0; worker < numThreads; worker++ {
		worker := worker
		g.Go(func() error {
			localBoard := b.Clone()
			searcher := NewSearcher(tt, eval, log.With().Int("worker", worker).Logger())
			searcher.StopFlag = stopFlag
			if worker > 0 {
				searcher.RootShuffleSeed = uint64(worker)*0x9E3779B97F4A7C15 + 1
			}

			results[worker] = searcher.Search(gctx, localBoard, player, maxDepth, deadline)
			return nil
		})
	}
	_ = g.Wait()
	stopFlag.Store(true)

	best := results[0]
	for _, r := range results[1:] {
		if r.HasBestMove && (!best.HasBestMove || r.Score > best.Score) {
			best = r
		}
	}
	return best
}
