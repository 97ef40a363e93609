// Package config holds engine-wide configuration, validated once at
// construction rather than scattered across package-level globals the
// way the teacher's engine package does it — this engine must support
// many simultaneous (dimension, side) shapes in the same process, so a
// value type is used instead.
package config

import "github.com/pkg/errors"

// EvalMode selects the leaf evaluator the search uses at depth 0.
type EvalMode int

const (
	// EvalMaterial uses the fixed per-kind material weights.
	EvalMaterial EvalMode = iota
	// EvalMCTSLeaf runs a serial MCTS rollout and maps its win rate to
	// a centipawn score.
	EvalMCTSLeaf
)

// Config collects every tunable parameter of a single game/search
// session.
type Config struct {
	Dimension int
	Side      int

	// MaxDepth bounds iterative deepening; zero means unlimited (time
	// budget governs termination instead).
	MaxDepth int
	// TimeBudgetMillis is the search deadline in milliseconds; zero
	// means unlimited (MaxDepth governs termination instead).
	TimeBudgetMillis int64

	// Threads is the number of Lazy SMP search workers, or MCTS root
	// parallel tasks. Validate rejects values below 1.
	Threads int

	EvalMode EvalMode

	// MCTSIterations bounds the number of MCTS rollouts per search when
	// MCTS is used as the top-level strategy rather than as a leaf
	// evaluator.
	MCTSIterations int
	// MCTSRolloutDepth bounds each MCTS rollout's length in random plies.
	MCTSRolloutDepth int

	// TTSizeMB sizes the shared transposition table.
	TTSizeMB int
}

// Default returns a Config for the classical 2-dimensional, 8-side board
// with conservative defaults.
func Default() Config {
	return Config{
		Dimension:        2,
		Side:             8,
		MaxDepth:         6,
		TimeBudgetMillis: 5000,
		Threads:          4,
		EvalMode:         EvalMaterial,
		MCTSIterations:   10000,
		MCTSRolloutDepth: 4,
		TTSizeMB:         64,
	}
}

// Validate checks the configuration's internal consistency.
func (c Config) Validate() error {
	if c.Dimension < 2 {
		return errors.Errorf("config: dimension must be >= 2, got %d", c.Dimension)
	}
	if c.Side < 4 {
		return errors.Errorf("config: side must be >= 4, got %d", c.Side)
	}
	if c.Threads < 1 {
		return errors.New("config: threads must be >= 1")
	}
	if c.MaxDepth == 0 && c.TimeBudgetMillis == 0 {
		return errors.New("config: at least one of MaxDepth or TimeBudgetMillis must be set")
	}
	return nil
}
