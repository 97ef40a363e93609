// Command hyperchess drives a single game from the command line:
//
//	hyperchess <dimension> <side> <white-mode> <black-mode> <depth>
//
// where each mode is "h" (human, moves read from stdin as
// "from_idx to_idx[=promo_kind]") or "c" (computer, negamax search to
// the given depth). This is the external interface spec calls out:
// positional arguments only, no configuration files or environment
// variables.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"hyperchess/boardgame"
	"hyperchess/config"
	"hyperchess/driver"
	"hyperchess/rules"
	"hyperchess/search"
	"hyperchess/ttable"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hyperchess:", err)
		os.Exit(1)
	}
}

func run() error {
	args := os.Args[1:]
	if len(args) != 5 {
		return errors.New("usage: hyperchess <dimension> <side> <white-mode:h|c> <black-mode:h|c> <depth>")
	}

	dimension, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Wrap(err, "parsing dimension")
	}
	side, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.Wrap(err, "parsing side")
	}
	depth, err := strconv.Atoi(args[4])
	if err != nil {
		return errors.Wrap(err, "parsing depth")
	}

	cfg := config.Default()
	cfg.Dimension = dimension
	cfg.Side = side
	cfg.MaxDepth = depth
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	board := boardgame.New(dimension, side)
	if dimension == 2 && side == 8 {
		board.SetupStandard2D()
	}

	tt := ttable.New(cfg.TTSizeMB)
	reader := bufio.NewReader(os.Stdin)

	white, err := buildStrategy(args[2], cfg, tt, log, reader)
	if err != nil {
		return err
	}
	black, err := buildStrategy(args[3], cfg, tt, log, reader)
	if err != nil {
		return err
	}

	game := driver.NewGame(board, white, black, log)
	outcome, err := game.Play(context.Background())
	if err != nil {
		return err
	}
	fmt.Println("result:", outcome)
	return nil
}

func buildStrategy(mode string, cfg config.Config, tt *ttable.Table, log zerolog.Logger, reader *bufio.Reader) (driver.Strategy, error) {
	switch mode {
	case "h":
		return driver.HumanStrategy{Supply: humanSupply(reader)}, nil
	case "c":
		return driver.SearchStrategy{
			TT:        tt,
			Evaluate:  search.MaterialEvaluator,
			MaxDepth:  cfg.MaxDepth,
			TimeLimit: time.Duration(cfg.TimeBudgetMillis) * time.Millisecond,
			Threads:   cfg.Threads,
			Log:       log,
		}, nil
	default:
		return nil, errors.Errorf("unknown player mode %q, want h or c", mode)
	}
}

func humanSupply(reader *bufio.Reader) func(ctx context.Context, b *boardgame.Board, player boardgame.Player) (boardgame.Move, error) {
	return func(ctx context.Context, b *boardgame.Board, player boardgame.Player) (boardgame.Move, error) {
		legal := rules.GenerateLegalMoves(b, player)
		for {
			fmt.Printf("%s to move, enter \"from to[=kind]\": ", player)
			line, err := reader.ReadString('\n')
			if err != nil {
				return boardgame.Move{}, errors.Wrap(err, "reading move")
			}
			m, ok := parseMove(strings.TrimSpace(line), legal)
			if ok {
				return m, nil
			}
			fmt.Println("not a legal move, try again")
		}
	}
}

func parseMove(line string, legal boardgame.MoveList) (boardgame.Move, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return boardgame.Move{}, false
	}
	toField, promoField, hasPromo := strings.Cut(fields[1], "=")
	from, err1 := strconv.Atoi(fields[0])
	to, err2 := strconv.Atoi(toField)
	if err1 != nil || err2 != nil {
		return boardgame.Move{}, false
	}
	promo := boardgame.NoKind
	if hasPromo {
		k, err := strconv.Atoi(promoField)
		if err != nil {
			return boardgame.Move{}, false
		}
		promo = boardgame.PieceKind(k)
	}
	for _, m := range legal {
		if m.From == from && m.To == to && (!hasPromo || m.Promotion == promo) {
			return m, true
		}
	}
	return boardgame.Move{}, false
}
