package searcher

import (
	"context"
	"testing"

	"boardgame/games/connectfour"
	"boardgame/games/tictactoe"

	"github.com/stretchr/testify/require"
)

type tttSearch = AlphaBeta[*tictactoe.Position, tictactoe.Move, tictactoe.ReverseMove, tictactoe.HashPosition, tictactoe.ReverseNullMove]

func newTTTSearch(options ...AlphaBetaOption) *tttSearch {
	return NewAlphaBeta[*tictactoe.Position, tictactoe.Move, tictactoe.ReverseMove, tictactoe.HashPosition, tictactoe.ReverseNullMove](options...)
}

func newC4Search(options ...AlphaBetaOption) *AlphaBeta[*connectfour.Position, connectfour.Move, connectfour.ReverseMove, connectfour.HashPosition, connectfour.ReverseNullMove] {
	return NewAlphaBeta[*connectfour.Position, connectfour.Move, connectfour.ReverseMove, connectfour.HashPosition, connectfour.ReverseNullMove](options...)
}

func TestAlphaBetaSearch(t *testing.T) {
	t.Run("takes an immediate win", func(t *testing.T) {
		// X: 0 1, O: 3 4
		p, err := tictactoe.ParseMoves(0, 3, 1, 4)
		require.NoError(t, err)
		before := p.Clone()

		result, _, err := newTTTSearch().Search(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, tictactoe.Move(2), result.Move)
		require.True(t, result.IsWin())
		require.Equal(t, WinScore-1, result.Score, "Win on the next ply")
		require.True(t, before.Equal(p), "Search should restore the position")
	})

	t.Run("blocks the only threat", func(t *testing.T) {
		// X: 0 1, O: 4; O must take 2
		p, err := tictactoe.ParseMoves(0, 4, 1)
		require.NoError(t, err)

		result, _, err := newTTTSearch(WithNullMove(false)).Search(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, tictactoe.Move(2), result.Move)
		require.False(t, result.IsLoss())
	})

	t.Run("tic-tac-toe is a draw", func(t *testing.T) {
		result, metric, err := newTTTSearch(WithNullMove(false), WithDepth(9), WithSearchMetrics()).
			Search(context.Background(), tictactoe.NewPosition())
		require.NoError(t, err)
		require.Equal(t, 0, result.Score)
		require.Equal(t, 9, result.Depth)
		require.Equal(t, 9, metric.Depth)
		require.Positive(t, metric.Nodes)
		require.Positive(t, metric.TableHits, "Transpositions should be found")
	})

	t.Run("stops deepening once every line is played out", func(t *testing.T) {
		result, _, err := newTTTSearch(WithNullMove(false)).Search(context.Background(), tictactoe.NewPosition())
		require.NoError(t, err)
		require.Equal(t, 0, result.Score)
		require.Equal(t, 9, result.Depth, "No line lasts longer than nine plies")

		// One empty cell left
		p, err := tictactoe.ParseMoves(0, 1, 2, 4, 3, 5, 7, 6)
		require.NoError(t, err)
		result, _, err = newTTTSearch().Search(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, tictactoe.Move(8), result.Move)
		require.Equal(t, 1, result.Depth)
	})

	t.Run("horizon nodes are counted once", func(t *testing.T) {
		_, metric, err := newTTTSearch(WithNullMove(false), WithDepth(1), WithSearchMetrics()).
			Search(context.Background(), tictactoe.NewPosition())
		require.NoError(t, err)
		require.Equal(t, 9, metric.Nodes, "One node per reply, quiescence adds none on a quiet board")
	})

	t.Run("sees a forced loss", func(t *testing.T) {
		// X: 0 4, O: 1; X threatens 8, and after O blocks X forks on 3 or 6
		p, err := tictactoe.ParseMoves(0, 1, 4)
		require.NoError(t, err)

		result, _, err := newTTTSearch(WithNullMove(false)).Search(context.Background(), p)
		require.NoError(t, err)
		require.True(t, result.IsLoss(), "O cannot hold after X's fork")
	})

	t.Run("connect four vertical win", func(t *testing.T) {
		p, err := connectfour.ParseMoves(connectfour.Factory{}.DefaultSettings(), 0, 1, 0, 1, 0, 2)
		require.NoError(t, err)

		result, _, err := newC4Search(WithDepth(4)).Search(context.Background(), p)
		require.NoError(t, err)
		require.Equal(t, connectfour.Move(0), result.Move)
		require.True(t, result.IsWin())
	})

	t.Run("node budget stops deepening", func(t *testing.T) {
		result, _, err := newC4Search(WithNodes(1)).Search(context.Background(), connectfour.NewPosition())
		require.NoError(t, err)
		require.Equal(t, 1, result.Depth, "Second iteration should be predicted to overrun the budget")
	})

	t.Run("cancelled context keeps the last iteration", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := connectfour.NewPosition()

		result, _, err := newC4Search().Search(ctx, p)
		require.NoError(t, err)
		require.GreaterOrEqual(t, result.Depth, 1)
		require.Less(t, result.Depth, defaultDepth)
		require.True(t, connectfour.NewPosition().Equal(p), "Aborted search should restore the position")
	})

	t.Run("decided position has no moves", func(t *testing.T) {
		p, err := tictactoe.ParseMoves(0, 3, 1, 4, 2)
		require.NoError(t, err)

		_, _, err = newTTTSearch().Search(context.Background(), p)
		require.ErrorIs(t, err, ErrNoMoves)
	})
}

func TestTableScores(t *testing.T) {
	require.Equal(t, 42, fromTable(toTable(42, 5), 9), "Heuristic scores are not ply relative")

	win := WinScore - 7
	stored := toTable(win, 3)
	require.Equal(t, WinScore-4, stored, "Stored win counts plies from the node")
	require.Equal(t, WinScore-9, fromTable(stored, 5))
	require.Equal(t, -(WinScore - 9), fromTable(toTable(-win, 3), 5))
}

func TestTableStore(t *testing.T) {
	tt := newTable[int, int](8)

	tt.store(1, ttEntry[int]{depth: 5, score: 10})
	tt.store(1, ttEntry[int]{depth: 3, score: 20})
	e, _ := tt.probe(1)
	require.Equal(t, 10, e.score, "Shallower entry should not replace a deeper one")

	tt.store(1, ttEntry[int]{depth: 2, score: 30, complete: true})
	e, _ = tt.probe(1)
	require.Equal(t, 30, e.score, "Complete entry should replace a deeper cut-off one")

	tt.store(1, ttEntry[int]{depth: 9, score: 40})
	e, _ = tt.probe(1)
	require.Equal(t, 30, e.score, "Cut-off entry should not replace a complete one")
}

func TestOrderFirst(t *testing.T) {
	moves := []int{4, 5, 6}
	orderFirst(moves, 6)
	require.Equal(t, []int{6, 5, 4}, moves)

	orderFirst(moves, 9)
	require.Equal(t, []int{6, 5, 4}, moves, "Missing move should leave the order alone")
}
