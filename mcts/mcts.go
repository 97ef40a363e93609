// Package mcts implements Monte Carlo Tree Search over an arena-indexed
// node table, grounded directly on
// original_source/src/infrastructure/ai/mcts.rs: nodes are addressed by
// integer index into a slice rather than by pointer, parent/child links
// are indices, and root parallelization runs several independent trees
// and aggregates their root statistics rather than sharing one tree
// across goroutines (which the original avoids for the same reason this
// module does: a shared mutable tree under concurrent UCT selection needs
// either locks or atomics, whereas separate trees need none).
package mcts

import (
	"math"

	"lukechampine.com/frand"

	"hyperchess/boardgame"
	"hyperchess/rules"
	"hyperchess/ttable"
)

// uctC is the exploration constant, matching spec's sqrt(2).
const uctC = math.Sqrt2

// checkmateScore mirrors search's constant so rollout scores stay on a
// consistent scale when TT entries are shared between the two packages.
const checkmateScore = 30000

// node is one arena slot. unexpandedMoves shrinks as children are
// created; children is empty until node is first expanded.
type node struct {
	parent          int
	hasParent       bool
	children        []int
	visits          uint32
	score           float64
	unexpandedMoves boardgame.MoveList
	isTerminal      bool
	moveToNode      boardgame.Move
	hasMoveToNode   bool
	playerToMove    boardgame.Player
}

// Tree is one MCTS search tree rooted at a specific board position.
type Tree struct {
	nodes        []node
	rootPlayer   boardgame.Player
	tt           *ttable.Table
	rolloutDepth int
}

// NewTree builds a tree rooted at root (which is mutated during search
// and must be restored by the caller afterward via repeated
// apply/unmake — Run always leaves root in the state it found it).
func NewTree(root *boardgame.Board, rootPlayer boardgame.Player, tt *ttable.Table, rolloutDepth int) *Tree {
	moves := rules.GenerateLegalMoves(root, rootPlayer)
	isTerminal := len(moves) == 0 || root.IsRepetition()

	t := &Tree{rootPlayer: rootPlayer, tt: tt, rolloutDepth: rolloutDepth}
	t.nodes = append(t.nodes, node{
		unexpandedMoves: moves,
		isTerminal:      isTerminal,
		playerToMove:    rootPlayer,
	})
	return t
}

// Run executes iterations playouts starting from root, returning the
// root's aggregate win rate and the most-visited root child's move.
func (t *Tree) Run(root *boardgame.Board, iterations int) (float64, boardgame.Move, bool) {
	for i := 0; i < iterations; i++ {
		t.iterate(root)
	}
	move, ok := t.bestMove()
	return t.winRate(), move, ok
}

func (t *Tree) winRate() float64 {
	r := t.nodes[0]
	if r.visits == 0 {
		return 0.5
	}
	return r.score / float64(r.visits)
}

func (t *Tree) bestMove() (boardgame.Move, bool) {
	r := t.nodes[0]
	bestVisits := uint32(0)
	var best boardgame.Move
	found := false
	for _, childIdx := range r.children {
		c := t.nodes[childIdx]
		if c.visits > bestVisits {
			bestVisits = c.visits
			best = c.moveToNode
			found = true
		}
	}
	return best, found
}

func (t *Tree) iterate(root *boardgame.Board) {
	nodeIdx := 0
	player := t.rootPlayer

	type undo struct {
		move boardgame.Move
		info boardgame.UnmakeInfo
	}
	var stack []undo

	for len(t.nodes[nodeIdx].unexpandedMoves) == 0 && len(t.nodes[nodeIdx].children) > 0 && !t.nodes[nodeIdx].isTerminal {
		nodeIdx = t.selectChild(nodeIdx)
		mv := t.nodes[nodeIdx].moveToNode
		info, err := root.ApplyMove(mv)
		if err != nil {
			break
		}
		stack = append(stack, undo{mv, info})
		player = player.Opponent()
	}

	if !t.nodes[nodeIdx].isTerminal && len(t.nodes[nodeIdx].unexpandedMoves) > 0 {
		moves := t.nodes[nodeIdx].unexpandedMoves
		mv := moves[len(moves)-1]
		t.nodes[nodeIdx].unexpandedMoves = moves[:len(moves)-1]

		info, err := root.ApplyMove(mv)
		if err == nil {
			stack = append(stack, undo{mv, info})
			nextPlayer := player.Opponent()

			isRepetition := root.IsRepetition()
			var legal boardgame.MoveList
			if !isRepetition {
				legal = rules.GenerateLegalMoves(root, nextPlayer)
			}
			isTerminal := isRepetition || len(legal) == 0

			newIdx := len(t.nodes)
			t.nodes = append(t.nodes, node{
				parent:          nodeIdx,
				hasParent:       true,
				unexpandedMoves: legal,
				isTerminal:      isTerminal,
				moveToNode:      mv,
				hasMoveToNode:   true,
				playerToMove:    nextPlayer,
			})
			t.nodes[nodeIdx].children = append(t.nodes[nodeIdx].children, newIdx)
			nodeIdx = newIdx
			player = nextPlayer
		}
	}

	var result float64
	if t.nodes[nodeIdx].isTerminal {
		result = t.evaluateTerminal(root, player)
	} else {
		result = t.rollout(root, player)
	}

	t.backpropagate(nodeIdx, result)

	for i := len(stack) - 1; i >= 0; i-- {
		root.UnmakeMove(stack[i].move, stack[i].info)
	}
}

func (t *Tree) selectChild(parentIdx int) int {
	parent := t.nodes[parentIdx]
	sqrtN := math.Sqrt(float64(parent.visits))

	maximize := t.rootPlayer == parent.playerToMove
	best := math.Inf(-1)
	bestIdx := parent.children[0]

	for _, childIdx := range parent.children {
		c := t.nodes[childIdx]
		mean := 0.5
		if c.visits > 0 {
			mean = c.score / float64(c.visits)
		}
		exploit := mean
		if !maximize {
			exploit = 1.0 - mean
		}
		explore := uctC * (sqrtN / (1.0 + float64(c.visits)))
		value := exploit + explore
		if value > best {
			best = value
			bestIdx = childIdx
		}
	}
	return bestIdx
}

// rollout plays a uniformly-random legal move at each ply (via frand,
// restored from the original's rollout loop) from b, stopping early the
// moment the shared TT already has an entry for the position reached —
// that entry's score is taken as the rollout's outcome instead of
// continuing to simulate — or otherwise running until rolloutDepth plies
// have been played or a terminal position is reached. Every move it
// plays on b is unwound before returning, so b is left exactly as found.
func (t *Tree) rollout(b *boardgame.Board, player boardgame.Player) float64 {
	type undo struct {
		move boardgame.Move
		info boardgame.UnmakeInfo
	}
	var stack []undo
	cur := player
	var outcome float64

	toWinProb := func(scoreCP int, perspective boardgame.Player) float64 {
		const k = 0.003
		sigmoid := 1.0 / (1.0 + math.Exp(-k*float64(scoreCP)))
		if perspective == t.rootPlayer {
			return sigmoid
		}
		return 1.0 - sigmoid
	}

rollout:
	for depth := 0; ; depth++ {
		if t.tt != nil {
			if entry, hit := t.tt.Probe(b.Hash); hit {
				outcome = toWinProb(int(entry.Score), cur)
				break rollout
			}
		}
		if b.IsRepetition() {
			outcome = 0.5
			break rollout
		}
		if depth >= t.rolloutDepth {
			outcome = toWinProb(materialScore(b, cur), cur)
			break rollout
		}

		moves := rules.GenerateLegalMoves(b, cur)
		if len(moves) == 0 {
			if rules.InCheck(b, cur) {
				outcome = toWinProb(-checkmateScore, cur)
			} else {
				outcome = 0.5
			}
			break rollout
		}

		mv := moves[frand.Intn(len(moves))]
		info, err := b.ApplyMove(mv)
		if err != nil {
			outcome = toWinProb(materialScore(b, cur), cur)
			break rollout
		}
		stack = append(stack, undo{mv, info})
		cur = cur.Opponent()
	}

	for i := len(stack) - 1; i >= 0; i-- {
		b.UnmakeMove(stack[i].move, stack[i].info)
	}
	return outcome
}

func (t *Tree) evaluateTerminal(b *boardgame.Board, playerAtLeaf boardgame.Player) float64 {
	if b.IsRepetition() {
		return 0.5
	}
	kingCoord, ok := b.GetKingCoordinate(playerAtLeaf)
	if ok && rules.IsSquareAttacked(b, kingCoord, playerAtLeaf.Opponent()) {
		if t.tt != nil {
			t.tt.Store(b.Hash, int16(-checkmateScore), 255, ttable.FlagExact, boardgame.Move{})
		}
		if playerAtLeaf == t.rootPlayer {
			return 0.0
		}
		return 1.0
	}
	if t.tt != nil {
		t.tt.Store(b.Hash, 0, 255, ttable.FlagExact, boardgame.Move{})
	}
	return 0.5
}

func (t *Tree) backpropagate(nodeIdx int, score float64) {
	for {
		n := &t.nodes[nodeIdx]
		n.visits++
		n.score += score
		if !n.hasParent {
			return
		}
		nodeIdx = n.parent
	}
}

func materialScore(b *boardgame.Board, player boardgame.Player) int {
	score := 0
	for idx := 0; idx < b.TotalCells(); idx++ {
		piece := b.PieceAt(idx)
		if piece.IsEmpty() {
			continue
		}
		v := boardgame.PieceValue(piece.Kind())
		if piece.Owner() == player {
			score += v
		} else {
			score -= v
		}
	}
	return score
}
