package engine

import (
	"boardgame/experiments/metrics"
	"boardgame/game"
)

const MaxMoves = 10000

// Undecided is recorded as the result of games stopped by the move limit.
const Undecided = "Undecided"

// Record is the full history of one game.
type Record[M comparable] struct {
	Moves       []M
	Result      game.GameResult
	Decided     bool
	GameMetric  metrics.GameMetric
	MoveMetrics []metrics.MoveMetric
}
