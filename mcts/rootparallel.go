package mcts

import (
	"context"

	"golang.org/x/sync/errgroup"

	"hyperchess/boardgame"
	"hyperchess/ttable"
)

// minIterationsPerTask mirrors the original's iter_per_thread default of
// 5: a task doing fewer than this many rollouts is not worth the
// goroutine overhead of spinning up its own tree.
const minIterationsPerTask = 5

// RunRootParallel partitions iterations across numTasks independent
// trees (each built over its own Board clone, sharing one optional
// transposition table), runs them concurrently via an errgroup, and
// combines their root statistics by summing visits and scores — the
// same aggregation original_source's rayon-based root parallelization
// performs, translated to Go's errgroup idiom.
func RunRootParallel(ctx context.Context, root *boardgame.Board, rootPlayer boardgame.Player, tt *ttable.Table, rolloutDepth, iterations, numTasks int) (float64, boardgame.Move, bool) {
	if iterations == 0 {
		return 0.5, boardgame.Move{}, false
	}

	numTasks = clampTaskCount(iterations, numTasks)
	if numTasks <= 1 {
		tree := NewTree(root, rootPlayer, tt, rolloutDepth)
		winRate, move, found := tree.Run(root, iterations)
		return winRate, move, found
	}

	chunk := iterations / numTasks
	remainder := iterations % numTasks

	type childStat struct {
		move   boardgame.Move
		visits uint32
		score  float64
	}
	type taskResult struct {
		visits   uint32
		score    float64
		children []childStat
	}

	results := make([]taskResult, numTasks)
	g, _ := errgroup.WithContext(ctx)

	for task := 0; task < numTasks; task++ {
		task := task
		count := chunk
		if task < remainder {
			count++
		}
		if count == 0 {
			continue
		}
		g.Go(func() error {
			localBoard := root.Clone()
			tree := NewTree(localBoard, rootPlayer, tt, rolloutDepth)
			for i := 0; i < count; i++ {
				tree.iterate(localBoard)
			}

			r := &tree.nodes[0]
			out := taskResult{visits: r.visits, score: r.score}
			for _, childIdx := range r.children {
				c := tree.nodes[childIdx]
				out.children = append(out.children, childStat{move: c.moveToNode, visits: c.visits, score: c.score})
			}
			results[task] = out
			return nil
		})
	}
	_ = g.Wait()

	var totalVisits uint32
	var totalScore float64
	aggregated := map[boardgame.Move]*childStat{}
	var order []boardgame.Move

	for _, r := range results {
		totalVisits += r.visits
		totalScore += r.score
		for _, c := range r.children {
			if existing, ok := aggregated[c.move]; ok {
				existing.visits += c.visits
				existing.score += c.score
			} else {
				cp := c
				aggregated[c.move] = &cp
				order = append(order, c.move)
			}
		}
	}

	winRate := 0.5
	if totalVisits > 0 {
		winRate = totalScore / float64(totalVisits)
	}

	var bestMove boardgame.Move
	bestVisits := uint32(0)
	found := false
	for _, m := range order {
		c := aggregated[m]
		if c.visits > bestVisits {
			bestVisits = c.visits
			bestMove = m
			found = true
		}
	}

	return winRate, bestMove, found
}

func clampTaskCount(iterations, numTasks int) int {
	if numTasks < 1 {
		numTasks = 1
	}
	max := iterations / minIterationsPerTask
	if max < 1 {
		max = 1
	}
	if numTasks > max {
		numTasks = max
	}
	return numTasks
}
