package searcher

import (
	"context"
	"testing"
	"time"

	"boardgame/games/connectfour"
	"boardgame/games/tictactoe"

	"github.com/stretchr/testify/require"
)

func newTTTMCTS(goroutines int, options ...Option) *MCTS[*tictactoe.Position, tictactoe.Move, tictactoe.ReverseMove] {
	return NewMCTS[*tictactoe.Position, tictactoe.Move, tictactoe.ReverseMove](goroutines, options...)
}

func mostVisited[M comparable](policy map[M]float64) M {
	var best M
	maxVisits := -1.0
	for move, visits := range policy {
		if visits > maxVisits {
			maxVisits = visits
			best = move
		}
	}
	return best
}

func TestNewMCTS(t *testing.T) {
	require.Panics(t, func() {
		newTTTMCTS(1)
	}, "Should panic without episodes or duration")
}

func TestMCTSSimulate(t *testing.T) {
	t.Run("finds the winning move", func(t *testing.T) {
		// X: 0 1, O: 3 4
		p, err := tictactoe.ParseMoves(0, 3, 1, 4)
		require.NoError(t, err)
		before := p.Clone()

		m := newTTTMCTS(1, WithEpisodes(2000), WithSeed(1), WithMetrics())
		policy, metric := m.Simulate(context.Background(), p, nil)

		require.Equal(t, tictactoe.Move(2), mostVisited(policy))
		require.Len(t, policy, 5, "Every root move should be explored")
		require.Equal(t, 2000, metric.Episodes)
		require.True(t, metric.IsTreeReset)
		require.True(t, before.Equal(p), "Simulate should not touch the caller's position")
	})

	t.Run("parallel search agrees", func(t *testing.T) {
		p, err := tictactoe.ParseMoves(0, 3, 1, 4)
		require.NoError(t, err)

		m := newTTTMCTS(4, WithEpisodes(4000), WithSeed(2))
		policy, _ := m.Simulate(context.Background(), p, nil)

		require.Equal(t, tictactoe.Move(2), mostVisited(policy))
	})

	t.Run("cutoff rollouts use the static evaluation", func(t *testing.T) {
		m := NewMCTS[*connectfour.Position, connectfour.Move, connectfour.ReverseMove](2,
			WithEpisodes(100), WithCutoff(1), WithMetrics())
		policy, metric := m.Simulate(context.Background(), connectfour.NewPosition(), nil)

		require.Len(t, policy, 7)
		require.Equal(t, 0, metric.FullPlayouts, "Shallow tree plus one rollout move cannot finish a game")
	})

	t.Run("searches for a duration", func(t *testing.T) {
		m := newTTTMCTS(2, WithDuration(20*time.Millisecond), WithMetrics())
		_, metric := m.Simulate(context.Background(), tictactoe.NewPosition(), nil)

		require.Positive(t, metric.Episodes)
		require.GreaterOrEqual(t, metric.Duration, 20*time.Millisecond)
	})

	t.Run("decided position has no policy", func(t *testing.T) {
		p, err := tictactoe.ParseMoves(0, 3, 1, 4, 2)
		require.NoError(t, err)

		policy, _ := newTTTMCTS(1, WithEpisodes(10)).Simulate(context.Background(), p, nil)
		require.Empty(t, policy)
	})
}

func TestMCTSTreeReuse(t *testing.T) {
	t.Run("reuses the subtree of played moves", func(t *testing.T) {
		p := tictactoe.NewPosition()
		m := newTTTMCTS(1, WithEpisodes(500), WithSeed(3), WithMetrics())
		m.Simulate(context.Background(), p, nil)

		path := []tictactoe.Move{4, 0}
		for _, mv := range path {
			p.DoMove(mv)
		}
		_, metric := m.Simulate(context.Background(), p, path)

		require.False(t, metric.IsTreeReset, "Tree should be reused along explored moves")
	})

	t.Run("resets when the path does not lead to the position", func(t *testing.T) {
		p := tictactoe.NewPosition()
		m := newTTTMCTS(1, WithEpisodes(500), WithSeed(3), WithMetrics())
		m.Simulate(context.Background(), p, nil)

		p.DoMove(4)
		_, metric := m.Simulate(context.Background(), p, []tictactoe.Move{0})

		require.True(t, metric.IsTreeReset)
	})
}
