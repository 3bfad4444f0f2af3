package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"boardgame/experiments"
	"boardgame/game"
	"boardgame/games/connectfour"
	"boardgame/games/tictactoe"
	"boardgame/meta"
	"boardgame/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	gameName := flag.String("game", "tictactoe", "Game to play: tictactoe or connectfour")
	name := flag.String("experiment", "algorithms", "Experiment to run: parallelization, cutoff or algorithms")
	games := flag.Int("games", meta.GAMES, "Number of games per match up")
	goroutines := flag.Int("goroutines", meta.GO_ROUTINES, "Number of goroutines for MCTS agents")
	depth := flag.Int("depth", meta.DEPTH, "Search depth for alpha-beta agents")
	parallel := flag.Int("parallel", meta.PARALLEL_GAMES, "Games of a match up played at once")
	maxMoves := flag.Int("max-moves", meta.MAX_MOVES, "Stop games after this many moves")
	out := flag.String("out", meta.OUTPUT_DIR, "Directory for experiment records")
	perft := flag.Int("perft", 0, "Count leaf nodes to this depth instead of running an experiment")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var e experiments.Experiment
	switch *name {
	case "parallelization":
		e = experiments.Parallelization(*games)
	case "cutoff":
		e = experiments.Cutoff(*games, *goroutines)
	case "algorithms":
		e = experiments.Algorithms(*games, *goroutines, *depth)
	default:
		log.Fatal().Msgf("unknown experiment %q", *name)
	}
	e.Parallel = *parallel
	e.MaxMoves = *maxMoves

	var err error
	switch *gameName {
	case "tictactoe":
		err = run[*tictactoe.Position, tictactoe.Move, tictactoe.ReverseMove, tictactoe.HashPosition, tictactoe.ReverseNullMove](ctx, tictactoe.NewPosition, e, *out, *perft)
	case "connectfour":
		err = run[*connectfour.Position, connectfour.Move, connectfour.ReverseMove, connectfour.HashPosition, connectfour.ReverseNullMove](ctx, connectfour.NewPosition, e, *out, *perft)
	default:
		err = fmt.Errorf("unknown game %q", *gameName)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
}

func run[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any](ctx context.Context, start func() P, e experiments.Experiment, out string, perft int) error {
	if perft > 0 {
		begin := time.Now()
		nodes, err := searcher.ParallelPerft[P, M, R](ctx, start(), perft, runtime.NumCPU())
		if err != nil {
			return err
		}
		log.Info().Uint64("nodes", nodes).Dur("duration", time.Since(begin)).Msgf("perft %d", perft)
		return nil
	}

	results, err := experiments.Run[P, M, R, H, N](ctx, start, e)
	if err != nil {
		return err
	}
	dir, err := experiments.Save(out, e, results)
	if err != nil {
		return err
	}
	log.Info().Str("dir", dir).Msg("experiment saved")
	return nil
}
