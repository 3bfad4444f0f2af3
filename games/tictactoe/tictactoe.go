// Package tictactoe implements tic-tac-toe on the game contract.
package tictactoe

import (
	"fmt"
	"strings"

	"boardgame/game"
)

const Cells = 9

// Move is the index of the cell to mark, 0..8 row by row from the top left.
type Move uint8

// ReverseMove undoes one DoMove.
type ReverseMove struct {
	Cell   Move
	Result result
}

// ReverseNullMove undoes one DoNullMove.
type ReverseNullMove struct{}

// HashPosition identifies a position: both players' marks and the side to move.
type HashPosition struct {
	Marks [2]uint16
	Side  game.Color
}

// Settings has no options; tic-tac-toe has no variants here.
type Settings struct{}

type result struct {
	value   game.GameResult
	decided bool
}

var lines = [8]uint16{
	0b000000111, 0b000111000, 0b111000000, // rows
	0b001001001, 0b010010010, 0b100100100, // columns
	0b100010001, 0b001010100, // diagonals
}

// Position is a tic-tac-toe board.
type Position struct {
	marks  [2]uint16
	side   game.Color
	result result
}

type Factory struct{}

func (Factory) StartPositionWithSettings(Settings) *Position {
	return &Position{}
}

func (Factory) DefaultSettings() Settings {
	return Settings{}
}

// NewPosition returns the empty board.
func NewPosition() *Position {
	return game.StartPosition[*Position, Settings](Factory{})
}

func (p *Position) SideToMove() game.Color {
	return p.side
}

func (p *Position) occupied() uint16 {
	return p.marks[0] | p.marks[1]
}

func (p *Position) GenerateMoves(moves []Move) []Move {
	if p.result.decided {
		return moves
	}
	occupied := p.occupied()
	for cell := Move(0); cell < Cells; cell++ {
		if occupied&(1<<cell) == 0 {
			moves = append(moves, cell)
		}
	}
	return moves
}

func (p *Position) MoveIsLegal(mv Move) bool {
	return !p.result.decided && mv < Cells && p.occupied()&(1<<mv) == 0
}

func (p *Position) DoMove(mv Move) ReverseMove {
	if !p.MoveIsLegal(mv) {
		panic(fmt.Errorf("%w: cell %d", game.ErrIllegalMove, mv))
	}
	reverse := ReverseMove{Cell: mv, Result: p.result}

	p.marks[p.side.Disc()] |= 1 << mv
	p.result = p.computeResult(p.side)
	p.side = p.side.Not()
	return reverse
}

func (p *Position) ReverseMove(reverse ReverseMove) {
	mover := p.side.Not()
	if p.marks[mover.Disc()]&(1<<reverse.Cell) == 0 {
		panic(fmt.Errorf("%w: cell %d is not %s's", game.ErrBadReverse, reverse.Cell, mover))
	}
	p.marks[mover.Disc()] &^= 1 << reverse.Cell
	p.result = reverse.Result
	p.side = mover
}

// computeResult checks the position right after mover played.
func (p *Position) computeResult(mover game.Color) result {
	if completesLine(p.marks[mover.Disc()]) {
		return result{value: game.WinBy(mover), decided: true}
	}
	if p.occupied() == 1<<Cells-1 {
		return result{value: game.Draw, decided: true}
	}
	return result{}
}

func completesLine(marks uint16) bool {
	for _, line := range lines {
		if marks&line == line {
			return true
		}
	}
	return false
}

func (p *Position) GameResult() (game.GameResult, bool) {
	return p.result.value, p.result.decided
}

func (p *Position) Clone() *Position {
	c := *p
	return &c
}

func (p *Position) Equal(other *Position) bool {
	return *p == *other
}

// StaticEval counts lines still open to each player, weighting lines with more
// of the player's marks higher.
func (p *Position) StaticEval() float32 {
	var score float32
	for _, line := range lines {
		white := bitCount(p.marks[0] & line)
		black := bitCount(p.marks[1] & line)
		switch {
		case white > 0 && black == 0:
			score += float32(white * white * 4)
		case black > 0 && white == 0:
			score -= float32(black * black * 4)
		}
	}
	return game.ClampEval(score)
}

func bitCount(v uint16) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}

func (p *Position) HashPosition() HashPosition {
	return HashPosition{Marks: p.marks, Side: p.side}
}

// ActiveMoves appends the moves that win on the spot.
func (p *Position) ActiveMoves(moves []Move) []Move {
	if p.result.decided {
		return moves
	}
	own := p.marks[p.side.Disc()]
	occupied := p.occupied()
	for cell := Move(0); cell < Cells; cell++ {
		if occupied&(1<<cell) == 0 && completesLine(own|1<<cell) {
			moves = append(moves, cell)
		}
	}
	return moves
}

func (p *Position) NullMoveIsAvailable() bool {
	return !p.result.decided
}

func (p *Position) DoNullMove() ReverseNullMove {
	if !p.NullMoveIsAvailable() {
		panic(game.ErrNullMoveUnavailable)
	}
	p.side = p.side.Not()
	return ReverseNullMove{}
}

func (p *Position) ReverseNullMove(ReverseNullMove) {
	p.side = p.side.Not()
}

func (p *Position) BranchFactor() uint64 {
	return 5
}

// String draws the board with X for White and O for Black.
func (p *Position) String() string {
	var sb strings.Builder
	for cell := 0; cell < Cells; cell++ {
		switch {
		case p.marks[0]&(1<<cell) != 0:
			sb.WriteByte('X')
		case p.marks[1]&(1<<cell) != 0:
			sb.WriteByte('O')
		default:
			sb.WriteByte('.')
		}
		if cell%3 == 2 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ParseMoves plays a sequence of cells from the start position. It is meant
// for setting up positions in tests and tools.
func ParseMoves(cells ...Move) (*Position, error) {
	p := NewPosition()
	for i, mv := range cells {
		if !p.MoveIsLegal(mv) {
			return nil, fmt.Errorf("move %d (cell %d): %w", i+1, mv, game.ErrIllegalMove)
		}
		p.DoMove(mv)
	}
	return p, nil
}
