package connectfour

import (
	"testing"

	"boardgame/game"
	"boardgame/gametest"

	"github.com/stretchr/testify/require"
)

func TestConformance(t *testing.T) {
	universe := []Move{0, 1, 2, 3, 4, 5, 6, 7, 8}
	gametest.CheckExtended[*Position, Move, ReverseMove, HashPosition, ReverseNullMove, Settings](
		t, Factory{}, gametest.Config{Games: 20}, universe,
		newSettings(t, 5, 4, 3), Settings{})
}

func TestConformanceSmallBoard(t *testing.T) {
	small := newSettings(t, 4, 4, 3)
	start := func() *Position { return Factory{}.StartPositionWithSettings(small) }
	cfg := gametest.Config{Games: 30, Seed: 7}

	gametest.CheckRoundTrip[*Position, Move, ReverseMove](t, start, cfg)
	gametest.CheckHash[*Position, Move, ReverseMove, HashPosition, ReverseNullMove](t, start, cfg)
	gametest.CheckQuiescence[*Position, Move, ReverseMove, HashPosition, ReverseNullMove](t, start, cfg)
}

func newSettings(t *testing.T, columns, rows, connect int) Settings {
	t.Helper()
	s, err := NewSettings(columns, rows, connect)
	require.NoError(t, err)
	return s
}

func TestSettings(t *testing.T) {
	t.Run("default is the standard board", func(t *testing.T) {
		p := NewPosition()
		require.Equal(t, newSettings(t, 7, 6, 4), p.Settings())
		require.Len(t, p.GenerateMoves(nil), 7)
		require.Equal(t, uint64(7), p.BranchFactor())
	})

	t.Run("zero value is the standard board", func(t *testing.T) {
		var s Settings
		require.Equal(t, 7, s.Columns())
		require.Equal(t, 6, s.Rows())
		require.Equal(t, 4, s.Connect())

		p := Factory{}.StartPositionWithSettings(s)
		require.True(t, NewPosition().Equal(p))
		require.Equal(t, newSettings(t, 7, 6, 4), p.Settings())
		require.Len(t, p.GenerateMoves(nil), 7)
	})

	t.Run("invalid settings are rejected", func(t *testing.T) {
		for _, dims := range [][3]int{{0, 6, 4}, {7, 6, 1}, {17, 6, 4}, {7, 0, 4}} {
			_, err := NewSettings(dims[0], dims[1], dims[2])
			require.Error(t, err, "Settings %v should be rejected", dims)
		}
		s := newSettings(t, 3, 3, 3)
		require.Equal(t, "3x3 connect 3", s.String())
	})
}

func TestNullMove(t *testing.T) {
	p := NewPosition()
	require.False(t, p.NullMoveIsAvailable())
	require.Panics(t, func() { p.DoNullMove() })
}

func TestDoMove(t *testing.T) {
	t.Run("discs stack in a column", func(t *testing.T) {
		p, err := ParseMoves(newSettings(t, 3, 2, 3), 1, 1)
		require.NoError(t, err)

		require.False(t, p.MoveIsLegal(1), "Full column should be illegal")
		require.ElementsMatch(t, []Move{0, 2}, p.GenerateMoves(nil))
		require.Equal(t, ".O.\n.X.\n", p.String())
	})

	t.Run("vertical line wins", func(t *testing.T) {
		p, err := ParseMoves(NewPosition().Settings(), 0, 1, 0, 1, 0, 1, 0)
		require.NoError(t, err)

		result, decided := p.GameResult()
		require.True(t, decided)
		require.Equal(t, game.WhiteWin, result)
		require.Empty(t, p.GenerateMoves(nil))
	})

	t.Run("diagonal line wins", func(t *testing.T) {
		// White completes the rising diagonal from column 0 to column 3
		p, err := ParseMoves(NewPosition().Settings(),
			0, 1, 1, 2, 2, 3, 2, 3, 3, 6, 3)
		require.NoError(t, err)

		result, decided := p.GameResult()
		require.True(t, decided)
		require.Equal(t, game.WhiteWin, result)
	})

	t.Run("full board without a line is a draw", func(t *testing.T) {
		p, err := ParseMoves(newSettings(t, 2, 2, 3), 0, 0, 1, 1)
		require.NoError(t, err)

		result, decided := p.GameResult()
		require.True(t, decided)
		require.Equal(t, game.Draw, result)
	})

	t.Run("round trip restores the board", func(t *testing.T) {
		p := NewPosition()
		start := p.Clone()

		reverse := p.DoMove(3)
		require.False(t, start.Equal(p))
		p.ReverseMove(reverse)
		require.True(t, start.Equal(p))
		require.Equal(t, start.HashPosition(), p.HashPosition())
	})

	t.Run("clone is independent", func(t *testing.T) {
		p := NewPosition()
		c := p.Clone()
		c.DoMove(0)
		require.True(t, p.MoveIsLegal(0))
		require.Equal(t, ".......\n.......\n.......\n.......\n.......\n.......\n", p.String())
	})

	t.Run("mismatched reverse panics", func(t *testing.T) {
		p := NewPosition()
		p.DoMove(0)
		require.Panics(t, func() {
			p.ReverseMove(ReverseMove{Column: 4})
		})
	})
}

func TestActiveMoves(t *testing.T) {
	// White has three in column 0 and three along the bottom row in columns 0..2
	p, err := ParseMoves(NewPosition().Settings(), 0, 6, 0, 6, 0, 5, 1, 5, 2, 4)
	require.NoError(t, err)
	require.Equal(t, game.White, p.SideToMove())

	require.ElementsMatch(t, []Move{0, 3}, p.ActiveMoves(nil))
}
