package agent

import (
	"context"

	"boardgame/experiments/metrics"
	"boardgame/game"
	"boardgame/searcher"
)

type evaluationAgent[P game.EvalPosition[P, M, R], M comparable, R any] struct {
	mcts *searcher.MCTS[P, M, R]
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
func NewEvaluationAgent[P game.EvalPosition[P, M, R], M comparable, R any](mcts *searcher.MCTS[P, M, R]) Agent[P, M] {
	return evaluationAgent[P, M, R]{mcts: mcts}
}

func (a evaluationAgent[P, M, R]) FindMove(ctx context.Context, state P, updates []M) (M, metrics.SearchMetric, error) {
	policy, metric := a.mcts.Simulate(ctx, state, updates)
	if len(policy) == 0 {
		var none M
		return none, metric, searcher.ErrNoMoves
	}
	return findMax(policy), metric, nil
}

func findMax[M comparable](policy map[M]float64) M {
	var maxMove M
	maxVisit := -1.0
	for move, visit := range policy {
		if visit > maxVisit {
			maxVisit = visit
			maxMove = move
		}
	}
	return maxMove
}
