// Package searcher implements game-agnostic search algorithms over the game
// contract: perft, alpha-beta and Monte Carlo tree search.
package searcher

import "errors"

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

// Rewards estimate the chance of winning, from the perspective of the player
// who made the move into a node.
const (
	Win  = 1.0
	Draw = 0.5
	Loss = 1 - Win
)

// MaxCutoff is the default rollout length before falling back to the static
// evaluation.
const MaxCutoff = 1000

var (
	ErrNoMoves       = errors.New("no legal moves")
	ErrSearchAborted = errors.New("search aborted before completing one iteration")
)
