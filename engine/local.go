package engine

import (
	"context"
	"fmt"
	"time"

	"boardgame/experiments/metrics"
	"boardgame/game"
	"boardgame/searcher/agent"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Engine plays one game between two agents on a local position.
type Engine[P game.EvalPosition[P, M, R], M comparable, R any] struct {
	State    P
	Agents   [2]agent.Agent[P, M] // Indexed by game.Color.Disc()
	maxMoves int
}

// LocalEngine returns an engine that plays from start. A non-positive
// maxMoves means MaxMoves.
func LocalEngine[P game.EvalPosition[P, M, R], M comparable, R any](start P, white, black agent.Agent[P, M], maxMoves int) *Engine[P, M, R] {
	if maxMoves <= 0 {
		maxMoves = MaxMoves
	}
	return &Engine[P, M, R]{
		State:    start,
		Agents:   [2]agent.Agent[P, M]{white, black},
		maxMoves: maxMoves,
	}
}

// Run executes the game loop until the game is decided or the move limit is
// reached. Each agent searches its own copy of the position.
func (e *Engine[P, M, R]) Run(ctx context.Context) (Record[M], error) {
	record := Record[M]{
		GameMetric: metrics.GameMetric{
			ID:             uuid.NewString(),
			StartingPlayer: e.State.SideToMove(),
			StartTime:      time.Now(),
		},
	}
	logger := log.With().Str("game", record.GameMetric.ID).Logger()
	logger.Info().Msgf("%s is starting", e.State.SideToMove())

	// Moves played since each agent last searched
	var updates [2][]M
	for step := 1; step <= e.maxMoves; step++ {
		if _, ok := e.State.GameResult(); ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return record, fmt.Errorf("game %s interrupted: %w", record.GameMetric.ID, err)
		}

		side := e.State.SideToMove()
		move, metric, err := e.Agents[side.Disc()].FindMove(ctx, e.State.Clone(), updates[side.Disc()])
		if err != nil {
			return record, fmt.Errorf("%s failed to find a move: %w", side, err)
		}
		if !e.State.MoveIsLegal(move) {
			return record, fmt.Errorf("%s played %v: %w", side, move, game.ErrIllegalMove)
		}
		logger.Debug().Int("step", step).Str("player", side.String()).Msgf("played %v", move)

		e.State.DoMove(move)
		record.Moves = append(record.Moves, move)
		record.MoveMetrics = append(record.MoveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       side,
			SearchMetric: metric,
		})

		updates[side.Disc()] = nil
		for i := range updates {
			updates[i] = append(updates[i], move)
		}
	}

	record.Result, record.Decided = e.State.GameResult()
	record.GameMetric.Result = Undecided
	if record.Decided {
		record.GameMetric.Result = record.Result.String()
	}
	record.GameMetric.EndTime = time.Now()
	record.GameMetric.Duration = record.GameMetric.EndTime.Sub(record.GameMetric.StartTime)
	record.GameMetric.TotalMoves = len(record.Moves)

	logger.Info().Int("moves", len(record.Moves)).Msgf("game over: %s", record.GameMetric.Result)
	return record, nil
}
