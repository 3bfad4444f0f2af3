package agent

import (
	"context"
	"math"

	"boardgame/experiments/metrics"
	"boardgame/game"
	"boardgame/searcher"

	"golang.org/x/exp/rand"
)

type trainingAgent[P game.EvalPosition[P, M, R], M comparable, R any] struct {
	mcts        *searcher.MCTS[P, M, R]
	temperature float64
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play. It samples moves in
// proportion to their visit counts raised to 1/temperature, so higher
// temperatures explore more.
func NewTrainingAgent[P game.EvalPosition[P, M, R], M comparable, R any](mcts *searcher.MCTS[P, M, R], temperature float64, seed uint64) Agent[P, M] {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return trainingAgent[P, M, R]{mcts: mcts, temperature: temperature, rng: rand.New(rand.NewSource(seed))}
}

func (a trainingAgent[P, M, R]) FindMove(ctx context.Context, state P, updates []M) (M, metrics.SearchMetric, error) {
	policy, metric := a.mcts.Simulate(ctx, state, updates)
	if len(policy) == 0 {
		var none M
		return none, metric, searcher.ErrNoMoves
	}
	policy = adjustTemperature(policy, a.temperature)
	return sample(policy, a.rng.Float64()), metric, nil
}

func adjustTemperature[M comparable](policy map[M]float64, temperature float64) map[M]float64 {
	// Compute temperature-adjusted move probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[M]float64, len(policy))
	for move, visit := range policy {
		prob := math.Pow(visit, exponent)
		sum += prob
		adjusted[move] = prob
	}
	// Normalize
	for move := range adjusted {
		adjusted[move] /= sum
	}
	return adjusted
}

// sample picks the move whose cumulative probability first exceeds sampled,
// a number in [0, 1).
func sample[M comparable](policy map[M]float64, sampled float64) M {
	cumulative := 0.0
	var lastMove M
	for move, prob := range policy {
		lastMove = move
		cumulative += prob
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}
