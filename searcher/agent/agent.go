package agent

import (
	"context"

	"boardgame/experiments/metrics"
	"boardgame/game"
	"boardgame/searcher"

	"golang.org/x/exp/rand"
)

type Agent[P any, M comparable] interface {
	// FindMove returns a move for the side to move in state, and performance
	// metrics (if collected) from the search. updates lists the moves played
	// since this agent's previous call. The agent owns state and may modify it.
	FindMove(ctx context.Context, state P, updates []M) (M, metrics.SearchMetric, error)
}

type randomAgent[P game.Position[M, R], M comparable, R any] struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent that plays uniformly random legal moves.
func NewRandomAgent[P game.Position[M, R], M comparable, R any](seed uint64) Agent[P, M] {
	return &randomAgent[P, M, R]{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent[P, M, R]) FindMove(ctx context.Context, state P, updates []M) (M, metrics.SearchMetric, error) {
	moves := state.GenerateMoves(nil)
	if len(moves) == 0 {
		var none M
		return none, metrics.SearchMetric{Algorithm: "random"}, searcher.ErrNoMoves
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{Algorithm: "random"}, nil
}
