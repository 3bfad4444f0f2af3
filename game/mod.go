// Package game defines the contract shared by two-player, sequential,
// deterministic, perfect-information games (chess, go, othello, connect four,
// tic-tac-toe, ...). Search algorithms written against these interfaces work
// for every conforming game without per-game code.
package game

import (
	"errors"
	"slices"
)

// DefaultBranchFactor is a reasonable BranchFactor for games that have no
// better estimate.
const DefaultBranchFactor uint64 = 20

// MinEval and MaxEval bound EvalPosition.StaticEval.
const (
	MinEval float32 = -100
	MaxEval float32 = 100
)

// Contract violations. Positions in this module panic with an error wrapping
// one of these. The interfaces themselves leave such behaviour unspecified.
var (
	ErrIllegalMove         = errors.New("illegal move")
	ErrBadReverse          = errors.New("reverse move does not match the last move")
	ErrNullMoveUnavailable = errors.New("null move unavailable")
)

// Position is the minimal representation of a game position. Together its
// methods encode all the rules of the game.
//
// M is the move type. R is the token returned by DoMove that undoes exactly
// that move.
type Position[M comparable, R any] interface {
	// SideToMove returns the player to move.
	SideToMove() Color

	// GenerateMoves appends every legal move for the side to move, and nothing
	// else, in no particular order. Calling it twice on the same position
	// yields the same set.
	GenerateMoves(moves []M) []M

	// MoveIsLegal reports whether mv is among the moves GenerateMoves returns.
	// Implementations without a cheaper check can return MoveIsLegal(p, mv).
	MoveIsLegal(mv M) bool

	// DoMove plays a legal move and returns the token that takes it back.
	// Playing an illegal move is a caller error.
	DoMove(mv M) R

	// ReverseMove takes back the last move not yet reversed. Doing and then
	// reversing a move restores exactly the same position.
	ReverseMove(reverse R)

	// GameResult returns the result if the game is decided. If the winner
	// always plays the last move (as in chess), implementations may report the
	// win only once the losing side is to move.
	GameResult() (GameResult, bool)
}

// Factory creates starting positions. S carries optional settings such as
// board size or variant; DefaultSettings returns the standard game.
type Factory[P any, S any] interface {
	// StartPositionWithSettings returns the starting position for settings.
	// Equal settings always give equal positions.
	StartPositionWithSettings(settings S) P
	DefaultSettings() S
}

// StartPosition returns the starting position with default settings.
func StartPosition[P, S any](f Factory[P, S]) P {
	return f.StartPositionWithSettings(f.DefaultSettings())
}

// EvalPosition is a position with a heuristic static evaluation. P is the
// concrete position type, which must support copies and comparison so that
// algorithms can cache positions and hand copies to other goroutines.
type EvalPosition[P any, M comparable, R any] interface {
	Position[M, R]

	// Clone returns an independent copy.
	Clone() P

	// Equal reports whether two positions are observationally identical.
	Equal(other P) bool

	// StaticEval is a fast evaluation in [MinEval, MaxEval]. Zero is balanced,
	// positive favours White and negative favours Black. It does not consult
	// GameResult; callers needing the true outcome check that first.
	StaticEval() float32
}

// ExtendedPosition adds what search algorithms need to search efficiently.
//
// H is a hashable view of the position used as a transposition table key. It
// may drop fields that do not affect identity (move counters, say), but two
// positions with a different side to move or different legal moves never
// share a view. N undoes a null move.
type ExtendedPosition[P any, M comparable, R any, H comparable, N any] interface {
	EvalPosition[P, M, R]

	HashPosition() H

	// ActiveMoves appends the legal moves that radically change the static
	// evaluation (captures or promotions in chess). Recursively playing only
	// active moves always reaches a position with none.
	ActiveMoves(moves []M) []M

	// NullMoveIsAvailable is false whenever passing would be illegal or
	// meaningless, e.g. when the side to move is in check.
	NullMoveIsAvailable() bool

	// DoNullMove passes the turn without changing the board.
	DoNullMove() N

	// ReverseNullMove takes back the last null move.
	ReverseNullMove(reverse N)

	// BranchFactor estimates the average number of legal moves. It is a hint
	// for pruning and time management only.
	BranchFactor() uint64
}

// MoveIsLegal reports whether mv is among the moves p generates.
func MoveIsLegal[M comparable, R any](p Position[M, R], mv M) bool {
	return slices.Contains(p.GenerateMoves(nil), mv)
}

// IsTerminal reports whether the game is decided or the side to move has no
// moves left.
func IsTerminal[M comparable, R any](p Position[M, R]) bool {
	if _, ok := p.GameResult(); ok {
		return true
	}
	return len(p.GenerateMoves(nil)) == 0
}

// ClampEval limits a raw heuristic to [MinEval, MaxEval].
func ClampEval(v float32) float32 {
	return max(MinEval, min(MaxEval, v))
}
