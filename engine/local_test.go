package engine

import (
	"context"
	"testing"

	"boardgame/experiments/metrics"
	"boardgame/game"
	"boardgame/games/tictactoe"
	"boardgame/searcher"
	"boardgame/searcher/agent"

	"github.com/stretchr/testify/require"
)

type (
	tttPosition = *tictactoe.Position
	tttMove     = tictactoe.Move
	tttReverse  = tictactoe.ReverseMove
)

func randomAgent(seed uint64) agent.Agent[tttPosition, tttMove] {
	return agent.NewRandomAgent[tttPosition, tttMove, tttReverse](seed)
}

func alphaBetaAgent() agent.Agent[tttPosition, tttMove] {
	return agent.NewAlphaBetaAgent(searcher.NewAlphaBeta[tttPosition, tttMove, tttReverse, tictactoe.HashPosition, tictactoe.ReverseNullMove](
		searcher.WithNullMove(false)))
}

// scriptedAgent plays its moves in order and records the updates it receives.
type scriptedAgent struct {
	moves   []tttMove
	updates [][]tttMove
}

func (a *scriptedAgent) FindMove(ctx context.Context, state tttPosition, updates []tttMove) (tttMove, metrics.SearchMetric, error) {
	a.updates = append(a.updates, append([]tttMove(nil), updates...))
	mv := a.moves[0]
	a.moves = a.moves[1:]
	return mv, metrics.SearchMetric{}, nil
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("random game ends decided", func(t *testing.T) {
		e := LocalEngine[tttPosition, tttMove, tttReverse](tictactoe.NewPosition(), randomAgent(1), randomAgent(2), 0)

		record, err := e.Run(context.Background())
		require.NoError(t, err)
		require.True(t, record.Decided)
		require.Len(t, record.MoveMetrics, len(record.Moves))
		require.Equal(t, record.Result.String(), record.GameMetric.Result)
		require.Equal(t, game.White, record.GameMetric.StartingPlayer)
		require.NotEmpty(t, record.GameMetric.ID)

		replay, err := tictactoe.ParseMoves(record.Moves...)
		require.NoError(t, err)
		require.True(t, replay.Equal(e.State), "Recorded moves should reproduce the final position")
	})

	t.Run("perfect play draws", func(t *testing.T) {
		e := LocalEngine[tttPosition, tttMove, tttReverse](tictactoe.NewPosition(), alphaBetaAgent(), alphaBetaAgent(), 0)

		record, err := e.Run(context.Background())
		require.NoError(t, err)
		require.True(t, record.Decided)
		require.Equal(t, game.Draw, record.Result)
		require.Len(t, record.Moves, 9)
	})

	t.Run("move limit leaves the game undecided", func(t *testing.T) {
		e := LocalEngine[tttPosition, tttMove, tttReverse](tictactoe.NewPosition(), randomAgent(1), randomAgent(2), 3)

		record, err := e.Run(context.Background())
		require.NoError(t, err)
		require.False(t, record.Decided)
		require.Equal(t, Undecided, record.GameMetric.Result)
		require.Len(t, record.Moves, 3)
	})

	t.Run("agents receive the moves played since their last turn", func(t *testing.T) {
		white := &scriptedAgent{moves: []tttMove{0, 1, 2}}
		black := &scriptedAgent{moves: []tttMove{3, 4}}
		e := LocalEngine[tttPosition, tttMove, tttReverse](tictactoe.NewPosition(), white, black, 0)

		record, err := e.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, game.WhiteWin, record.Result)
		require.Equal(t, [][]tttMove{nil, {0, 3}, {1, 4}}, white.updates)
		require.Equal(t, [][]tttMove{{0}, {3, 1}}, black.updates)
	})

	t.Run("illegal move stops the game", func(t *testing.T) {
		white := &scriptedAgent{moves: []tttMove{4, 4}}
		black := &scriptedAgent{moves: []tttMove{4}}
		e := LocalEngine[tttPosition, tttMove, tttReverse](tictactoe.NewPosition(), white, black, 0)

		_, err := e.Run(context.Background())
		require.ErrorIs(t, err, game.ErrIllegalMove)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := LocalEngine[tttPosition, tttMove, tttReverse](tictactoe.NewPosition(), randomAgent(1), randomAgent(2), 0)

		_, err := e.Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}
