package agent

import (
	"context"

	"boardgame/experiments/metrics"
	"boardgame/game"
	"boardgame/searcher"
)

type alphaBetaAgent[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any] struct {
	search *searcher.AlphaBeta[P, M, R, H, N]
}

// NewAlphaBetaAgent returns an agent that plays the best move found by an
// alpha-beta search. The search keeps its transposition table across moves.
func NewAlphaBetaAgent[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any](search *searcher.AlphaBeta[P, M, R, H, N]) Agent[P, M] {
	return alphaBetaAgent[P, M, R, H, N]{search: search}
}

func (a alphaBetaAgent[P, M, R, H, N]) FindMove(ctx context.Context, state P, updates []M) (M, metrics.SearchMetric, error) {
	result, metric, err := a.search.Search(ctx, state)
	if err != nil {
		var none M
		return none, metric, err
	}
	return result.Move, metric, nil
}
