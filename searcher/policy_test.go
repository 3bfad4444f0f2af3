package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(2.0, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTEvaluate(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(2.0, 100)
		got := policy.evaluate(5.0, 10)

		expected := 5.0/10 + math.Sqrt(2.0*math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute q/n + sqrt(c^2*ln(N)/n)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		require.Panics(t, func() {
			policy.evaluate(5.0, 0)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		score1 := newUCT(2.0, 100).evaluate(5.0, 10)
		score2 := newUCT(2.0, 1000).evaluate(5.0, 10)

		require.Greater(t, score2, score1,
			"More parent visits should increase exploration term")
	})

	t.Run("exploitation term increases with rewards", func(t *testing.T) {
		policy := newUCT(2.0, 100)

		require.Greater(t, policy.evaluate(10.0, 10), policy.evaluate(5.0, 10),
			"More rewards should increase exploitation term")
	})
}

func TestSelectChild(t *testing.T) {
	t.Run("prefers higher win rate at equal visits", func(t *testing.T) {
		children := []*decision[int]{
			{rewards: 1, visits: 4},
			{rewards: 3, visits: 4},
			{rewards: 2, visits: 4},
		}
		require.Equal(t, 1, selectChild(children, CSquared))
	})

	t.Run("explores rarely visited children", func(t *testing.T) {
		children := []*decision[int]{
			{rewards: 60, visits: 100},
			{rewards: 0.5, visits: 1},
		}
		require.Equal(t, 1, selectChild(children, CSquared),
			"Exploration term should outweigh a slightly better win rate")
	})
}
