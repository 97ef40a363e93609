// Package driver implements the game loop: turn management delegating to
// a per-side Strategy, and outcome classification once a side has no
// legal move. Grounded on the teacher's top-level UCI loop's turn
// handling, generalized from "engine plays one side against a UCI GUI"
// to "either side may be a human, a search strategy, or an MCTS
// strategy."
package driver

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"hyperchess/boardgame"
	"hyperchess/rules"
)

// ErrNoMoveAvailable is returned by Strategy.ChooseMove when the side to
// move has no legal move, surfaced by Game.Play as a terminal Outcome
// rather than propagated as a caller-visible error.
var ErrNoMoveAvailable = errors.New("driver: no move available")

// Strategy chooses a move for player on the given board. Implementations
// must not mutate b permanently (Human reads a pre-supplied move; Search
// and MCTS strategies use apply/unmake internally and must restore the
// board before returning).
type Strategy interface {
	ChooseMove(ctx context.Context, b *boardgame.Board, player boardgame.Player) (boardgame.Move, error)
}

// Outcome classifies how a game ended.
type Outcome int

const (
	Ongoing Outcome = iota
	Checkmate
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Game pairs a Board with one Strategy per side and drives play one ply
// at a time.
type Game struct {
	Board      *boardgame.Board
	Strategies [2]Strategy
	Log        zerolog.Logger
}

// NewGame constructs a Game over board with the given per-side
// strategies.
func NewGame(board *boardgame.Board, white, black Strategy, log zerolog.Logger) *Game {
	return &Game{
		Board:      board,
		Strategies: [2]Strategy{white, black},
		Log:        log,
	}
}

// Step advances the game by one ply: it classifies the current position
// first (so Checkmate/Stalemate are reported before the strategy would
// be asked to move into an already-decided position), asks the side to
// move's Strategy for a move, and applies it.
func (g *Game) Step(ctx context.Context) (Outcome, error) {
	player := g.Board.SideToMove

	if !rules.HasLegalMoves(g.Board, player) {
		if rules.InCheck(g.Board, player) {
			return Checkmate, nil
		}
		return Stalemate, nil
	}

	strategy := g.Strategies[player]
	move, err := strategy.ChooseMove(ctx, g.Board, player)
	if err != nil {
		return Ongoing, errors.Wrap(err, "driver: strategy failed to choose a move")
	}

	if _, err := g.Board.ApplyMove(move); err != nil {
		return Ongoing, errors.Wrap(err, "driver: chosen move could not be applied")
	}

	g.Log.Debug().Str("move", move.CoordString(g.Board.N, g.Board.Side)).Str("player", player.String()).Msg("move applied")
	return Ongoing, nil
}

// Play runs Step repeatedly until a terminal Outcome is reached or ctx
// is cancelled.
func (g *Game) Play(ctx context.Context) (Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Ongoing, err
		}
		outcome, err := g.Step(ctx)
		if err != nil {
			return outcome, err
		}
		if outcome != Ongoing {
			return outcome, nil
		}
	}
}
