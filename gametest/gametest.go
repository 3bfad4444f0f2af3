// Package gametest checks that a game implementation honours the game
// contract. Properties are verified at every position of seeded random games.
// The checks take a require.TestingT so they also run outside "go test".
package gametest

import (
	"testing"

	"boardgame/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// Config controls the random games the checks walk through.
type Config struct {
	Games    int    // Number of random games
	MaxPlies int    // Stop each game after this many moves
	Seed     uint64 // Seed for move selection
	// Bound on the depth of active-move sequences
	QuiescenceBound int
}

func (c Config) withDefaults() Config {
	if c.Games <= 0 {
		c.Games = 20
	}
	if c.MaxPlies <= 0 {
		c.MaxPlies = 200
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
	if c.QuiescenceBound <= 0 {
		c.QuiescenceBound = 64
	}
	return c
}

type tHelper interface {
	Helper()
}

func helper(t require.TestingT) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
}

// walk plays random games from start and calls visit at every position,
// including the final one. visit must leave the position as it found it.
func walk[P game.EvalPosition[P, M, R], M comparable, R any](cfg Config, start func() P, visit func(p P)) {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))
	var moves []M
	for i := 0; i < cfg.Games; i++ {
		p := start()
		for ply := 0; ; ply++ {
			visit(p)
			moves = p.GenerateMoves(moves[:0])
			if len(moves) == 0 || ply >= cfg.MaxPlies {
				break
			}
			p.DoMove(moves[rng.Intn(len(moves))])
		}
	}
}

// requireSame fails unless got is observationally identical to want.
func requireSame[P game.EvalPosition[P, M, R], M comparable, R any](t require.TestingT, want, got P, msgAndArgs ...any) {
	helper(t)

	require.True(t, want.Equal(got), msgAndArgs...)
	require.Equal(t, want.SideToMove(), got.SideToMove(), msgAndArgs...)
	require.ElementsMatch(t, want.GenerateMoves(nil), got.GenerateMoves(nil), msgAndArgs...)

	wantResult, wantDecided := want.GameResult()
	gotResult, gotDecided := got.GameResult()
	require.Equal(t, wantDecided, gotDecided, msgAndArgs...)
	if wantDecided {
		require.Equal(t, wantResult, gotResult, msgAndArgs...)
	}
	require.Equal(t, want.StaticEval(), got.StaticEval(), msgAndArgs...)
}

// CheckRoundTrip verifies that doing then reversing any legal move restores
// the position, and that the side to move changes.
func CheckRoundTrip[P game.EvalPosition[P, M, R], M comparable, R any](t require.TestingT, start func() P, cfg Config) {
	helper(t)

	walk[P, M, R](cfg, start, func(p P) {
		before := p.Clone()
		for _, mv := range p.GenerateMoves(nil) {
			reverse := p.DoMove(mv)
			require.Equal(t, before.SideToMove().Not(), p.SideToMove(),
				"Side to move should flip after move %v", mv)
			p.ReverseMove(reverse)
			requireSame[P, M, R](t, before, p, "Reversing move %v should restore the position", mv)
		}
	})
}

// CheckDeterminism verifies that equal settings give equal start positions,
// that StartPosition uses the default settings, and that move generation is
// repeatable.
func CheckDeterminism[P game.EvalPosition[P, M, R], M comparable, R any, S any](t require.TestingT, f game.Factory[P, S], settings ...S) {
	helper(t)

	requireSame[P, M, R](t, f.StartPositionWithSettings(f.DefaultSettings()), game.StartPosition(f),
		"StartPosition should use default settings")

	for _, s := range append([]S{f.DefaultSettings()}, settings...) {
		a := f.StartPositionWithSettings(s)
		b := f.StartPositionWithSettings(s)
		requireSame[P, M, R](t, a, b, "Settings %+v should give identical start positions", s)
		require.ElementsMatch(t, a.GenerateMoves(nil), a.GenerateMoves(nil),
			"Move generation should be repeatable")
	}
}

// CheckLegality verifies that MoveIsLegal agrees with GenerateMoves for every
// generated move and for every move in universe.
func CheckLegality[P game.EvalPosition[P, M, R], M comparable, R any](t require.TestingT, start func() P, cfg Config, universe []M) {
	helper(t)

	walk[P, M, R](cfg, start, func(p P) {
		legal := make(map[M]bool)
		for _, mv := range p.GenerateMoves(nil) {
			legal[mv] = true
			require.True(t, p.MoveIsLegal(mv), "Generated move %v should be legal", mv)
		}
		for _, mv := range universe {
			require.Equal(t, legal[mv], p.MoveIsLegal(mv),
				"MoveIsLegal(%v) should match move generation", mv)
		}
	})
}

// CheckEvalRange verifies that StaticEval stays within bounds.
func CheckEvalRange[P game.EvalPosition[P, M, R], M comparable, R any](t require.TestingT, start func() P, cfg Config) {
	helper(t)

	walk[P, M, R](cfg, start, func(p P) {
		eval := p.StaticEval()
		require.GreaterOrEqual(t, eval, game.MinEval)
		require.LessOrEqual(t, eval, game.MaxEval)
	})
}

// CheckNullMove verifies the null move round trip wherever a null move is
// available, and that passing changes the hash view.
func CheckNullMove[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any](t require.TestingT, start func() P, cfg Config) {
	helper(t)

	walk[P, M, R](cfg, start, func(p P) {
		if !p.NullMoveIsAvailable() {
			return
		}
		before := p.Clone()
		hash := p.HashPosition()

		reverse := p.DoNullMove()
		require.Equal(t, before.SideToMove().Not(), p.SideToMove(), "Null move should pass the turn")
		require.NotEqual(t, hash, p.HashPosition(),
			"Positions with a different side to move should hash differently")

		p.ReverseNullMove(reverse)
		requireSame[P, M, R](t, before, p, "Reversing a null move should restore the position")
		require.Equal(t, hash, p.HashPosition())
	})
}

// CheckHash verifies that round trips preserve the hash view and that equal
// positions share one.
func CheckHash[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any](t require.TestingT, start func() P, cfg Config) {
	helper(t)

	walk[P, M, R](cfg, start, func(p P) {
		hash := p.HashPosition()
		require.Equal(t, hash, p.Clone().HashPosition(), "Copies should hash the same")
		for _, mv := range p.GenerateMoves(nil) {
			reverse := p.DoMove(mv)
			require.NotEqual(t, hash, p.HashPosition(), "Move %v should change the hash view", mv)
			p.ReverseMove(reverse)
			require.Equal(t, hash, p.HashPosition(), "Reversing move %v should restore the hash view", mv)
		}
	})
}

// CheckQuiescence verifies that active moves are legal and that every
// sequence of active moves ends within cfg.QuiescenceBound plies.
func CheckQuiescence[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any](t require.TestingT, start func() P, cfg Config) {
	helper(t)
	bound := cfg.withDefaults().QuiescenceBound

	var quiesce func(p P, depth int)
	quiesce = func(p P, depth int) {
		active := p.ActiveMoves(nil)
		if len(active) == 0 {
			return
		}
		require.Less(t, depth, bound, "Active moves should run out within %d plies", bound)
		for _, mv := range active {
			require.True(t, p.MoveIsLegal(mv), "Active move %v should be legal", mv)
			reverse := p.DoMove(mv)
			quiesce(p, depth+1)
			p.ReverseMove(reverse)
		}
	}

	walk[P, M, R](cfg, start, func(p P) {
		quiesce(p, 0)
	})
}

// CheckExtended runs every check against an ExtendedPosition.
func CheckExtended[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any, S any](t *testing.T, f game.Factory[P, S], cfg Config, universe []M, settings ...S) {
	start := func() P { return game.StartPosition(f) }

	t.Run("round trip", func(t *testing.T) {
		CheckRoundTrip[P, M, R](t, start, cfg)
	})
	t.Run("determinism", func(t *testing.T) {
		CheckDeterminism[P, M, R, S](t, f, settings...)
	})
	t.Run("legality", func(t *testing.T) {
		CheckLegality[P, M, R](t, start, cfg, universe)
	})
	t.Run("evaluation range", func(t *testing.T) {
		CheckEvalRange[P, M, R](t, start, cfg)
	})
	t.Run("null move", func(t *testing.T) {
		CheckNullMove[P, M, R, H, N](t, start, cfg)
	})
	t.Run("hash view", func(t *testing.T) {
		CheckHash[P, M, R, H, N](t, start, cfg)
	})
	t.Run("quiescence terminates", func(t *testing.T) {
		CheckQuiescence[P, M, R, H, N](t, start, cfg)
	})
}
