// Command perft counts legal move-tree leaves to a given depth, the
// classical move-generator correctness/performance diagnostic, adapted
// from the teacher's cmd/perft to HyperChess's N-dimensional board
// instead of a fixed FEN-parsed 8x8 position.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"hyperchess/boardgame"
	"hyperchess/rules"
)

func main() {
	dimension := flag.Int("dimension", 2, "board dimension N")
	side := flag.Int("side", 8, "board side length S")
	depth := flag.Int("depth", 1, "perft depth (> 0)")
	repeat := flag.Int("repeat", 1, "repeat perft N times and report aggregate timing")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}
	if *dimension != 2 || *side != 8 {
		fmt.Fprintln(os.Stderr, "perft: standard starting position is only defined for -dimension 2 -side 8; other shapes require a custom setup not exposed by this command")
		os.Exit(2)
	}

	board := boardgame.New(*dimension, *side)
	board.SetupStandard2D()

	var total uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		total += perft(board, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(total) / elapsed.Seconds()

	fmt.Printf("depth %d\tnodes %d\ttime %s\tnps %.0f\n", *depth, total, elapsed, nps)
}

// perft counts leaves of the legal move tree rooted at b's current
// position, to the given depth, via the same apply/unmake protocol the
// search and MCTS packages use (no board cloning).
func perft(b *boardgame.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := rules.GenerateLegalMoves(b, b.SideToMove)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		info, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		nodes += perft(b, depth-1)
		b.UnmakeMove(m, info)
	}
	return nodes
}
