// Package connectfour implements connect four, on boards of any size, on the
// game contract.
package connectfour

import (
	"fmt"
	"slices"
	"strings"

	"boardgame/game"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Settings selects the board size and the line length needed to win. Values
// other than the zero value come from NewSettings, so every Settings makes a
// board. The zero value is the standard game.
type Settings struct {
	columns int
	rows    int
	connect int
}

type settingsInput struct {
	Columns int `validate:"min=1,max=16"`
	Rows    int `validate:"min=1,max=16"`
	Connect int `validate:"min=2,max=16"`
}

// NewSettings returns the settings for a board of the given size, or an error
// if no board can be made from them.
func NewSettings(columns, rows, connect int) (Settings, error) {
	if err := validate.Struct(settingsInput{Columns: columns, Rows: rows, Connect: connect}); err != nil {
		return Settings{}, fmt.Errorf("invalid connect four settings: %w", err)
	}
	return Settings{columns: columns, rows: rows, connect: connect}, nil
}

func (s Settings) orDefault() Settings {
	if s == (Settings{}) {
		return Factory{}.DefaultSettings()
	}
	return s
}

func (s Settings) Columns() int { return s.orDefault().columns }
func (s Settings) Rows() int    { return s.orDefault().rows }
func (s Settings) Connect() int { return s.orDefault().connect }

func (s Settings) String() string {
	return fmt.Sprintf("%dx%d connect %d", s.Columns(), s.Rows(), s.Connect())
}

// Move is the column to drop a disc into, counted from the left.
type Move uint8

// ReverseMove undoes one DoMove.
type ReverseMove struct {
	Column Move
	Result result
}

// ReverseNullMove undoes one DoNullMove.
type ReverseNullMove struct{}

// HashPosition identifies a position: the settings, the board and the side to
// move.
type HashPosition struct {
	Settings Settings
	Cells    string
	Side     game.Color
}

type result struct {
	value   game.GameResult
	decided bool
}

const (
	empty int8 = iota
	whiteDisc
	blackDisc
)

var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// Position is a connect four board. Cells are stored column by column from
// the bottom.
type Position struct {
	settings Settings
	cells    []int8
	heights  []int
	side     game.Color
	filled   int
	result   result
}

type Factory struct{}

// StartPositionWithSettings returns the empty board.
func (Factory) StartPositionWithSettings(s Settings) *Position {
	s = s.orDefault()
	return &Position{
		settings: s,
		cells:    make([]int8, s.columns*s.rows),
		heights:  make([]int, s.columns),
	}
}

// DefaultSettings is the standard 7x6 board with four in a row.
func (Factory) DefaultSettings() Settings {
	return Settings{columns: 7, rows: 6, connect: 4}
}

// NewPosition returns the empty standard board.
func NewPosition() *Position {
	return game.StartPosition[*Position, Settings](Factory{})
}

func (p *Position) Settings() Settings {
	return p.settings
}

func (p *Position) at(col, row int) int8 {
	return p.cells[col*p.settings.rows+row]
}

func (p *Position) set(col, row int, v int8) {
	p.cells[col*p.settings.rows+row] = v
}

func disc(c game.Color) int8 {
	return int8(c.Disc()) + whiteDisc
}

func (p *Position) SideToMove() game.Color {
	return p.side
}

func (p *Position) GenerateMoves(moves []Move) []Move {
	if p.result.decided {
		return moves
	}
	for col, h := range p.heights {
		if h < p.settings.rows {
			moves = append(moves, Move(col))
		}
	}
	return moves
}

func (p *Position) MoveIsLegal(mv Move) bool {
	return !p.result.decided && int(mv) < p.settings.columns && p.heights[mv] < p.settings.rows
}

func (p *Position) DoMove(mv Move) ReverseMove {
	if !p.MoveIsLegal(mv) {
		panic(fmt.Errorf("%w: column %d", game.ErrIllegalMove, mv))
	}
	reverse := ReverseMove{Column: mv, Result: p.result}

	col, row := int(mv), p.heights[mv]
	p.set(col, row, disc(p.side))
	p.heights[col]++
	p.filled++

	switch {
	case p.lineLength(col, row, p.side) >= p.settings.connect:
		p.result = result{value: game.WinBy(p.side), decided: true}
	case p.filled == len(p.cells):
		p.result = result{value: game.Draw, decided: true}
	}
	p.side = p.side.Not()
	return reverse
}

func (p *Position) ReverseMove(reverse ReverseMove) {
	col := int(reverse.Column)
	mover := p.side.Not()
	if col >= p.settings.columns || p.heights[col] == 0 || p.at(col, p.heights[col]-1) != disc(mover) {
		panic(fmt.Errorf("%w: column %d has no %s disc on top", game.ErrBadReverse, col, mover))
	}
	p.heights[col]--
	p.set(col, p.heights[col], empty)
	p.filled--
	p.result = reverse.Result
	p.side = mover
}

// lineLength returns the longest line through (col, row) that c would have
// with a disc there. The cell itself is not read.
func (p *Position) lineLength(col, row int, c game.Color) int {
	d := disc(c)
	longest := 0
	for _, dir := range directions {
		n := 1
		for _, sign := range [2]int{1, -1} {
			x, y := col+sign*dir[0], row+sign*dir[1]
			for p.inside(x, y) && p.at(x, y) == d {
				n++
				x, y = x+sign*dir[0], y+sign*dir[1]
			}
		}
		longest = max(longest, n)
	}
	return longest
}

func (p *Position) inside(col, row int) bool {
	return col >= 0 && col < p.settings.columns && row >= 0 && row < p.settings.rows
}

func (p *Position) GameResult() (game.GameResult, bool) {
	return p.result.value, p.result.decided
}

func (p *Position) Clone() *Position {
	c := *p
	c.cells = append([]int8(nil), p.cells...)
	c.heights = append([]int(nil), p.heights...)
	return &c
}

func (p *Position) Equal(other *Position) bool {
	if p.settings != other.settings || p.side != other.side || p.result != other.result {
		return false
	}
	return slices.Equal(p.cells, other.cells)
}

func (p *Position) encode() []byte {
	b := make([]byte, len(p.cells))
	for i, v := range p.cells {
		b[i] = byte(v)
	}
	return b
}

// StaticEval scores every window of Connect cells still open to one player by
// the square of the discs already in it.
func (p *Position) StaticEval() float32 {
	s := p.settings
	var score float32
	for col := 0; col < s.columns; col++ {
		for row := 0; row < s.rows; row++ {
			for _, dir := range directions {
				endCol, endRow := col+dir[0]*(s.connect-1), row+dir[1]*(s.connect-1)
				if !p.inside(endCol, endRow) {
					continue
				}
				var count [3]int
				for i := 0; i < s.connect; i++ {
					count[p.at(col+dir[0]*i, row+dir[1]*i)]++
				}
				white, black := count[whiteDisc], count[blackDisc]
				switch {
				case white > 0 && black == 0:
					score += float32(white * white)
				case black > 0 && white == 0:
					score -= float32(black * black)
				}
			}
		}
	}
	return game.ClampEval(score / 2)
}

func (p *Position) HashPosition() HashPosition {
	return HashPosition{Settings: p.settings, Cells: string(p.encode()), Side: p.side}
}

// ActiveMoves appends the moves that win on the spot.
func (p *Position) ActiveMoves(moves []Move) []Move {
	if p.result.decided {
		return moves
	}
	for col, h := range p.heights {
		if h < p.settings.rows && p.lineLength(col, h, p.side) >= p.settings.connect {
			moves = append(moves, Move(col))
		}
	}
	return moves
}

// NullMoveIsAvailable is always false: connect four is full of zugzwang, so
// passing is often the best move and would mislead null-move pruning.
func (p *Position) NullMoveIsAvailable() bool {
	return false
}

func (p *Position) DoNullMove() ReverseNullMove {
	panic(game.ErrNullMoveUnavailable)
}

func (p *Position) ReverseNullMove(ReverseNullMove) {
	panic(fmt.Errorf("%w: connect four has no null moves", game.ErrBadReverse))
}

func (p *Position) BranchFactor() uint64 {
	return uint64(p.settings.columns)
}

// String draws the board top row first, X for White and O for Black.
func (p *Position) String() string {
	var sb strings.Builder
	for row := p.settings.rows - 1; row >= 0; row-- {
		for col := 0; col < p.settings.columns; col++ {
			sb.WriteByte(".XO"[p.at(col, row)])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseMoves plays a sequence of columns on a board with the given settings.
func ParseMoves(s Settings, columns ...Move) (*Position, error) {
	p := Factory{}.StartPositionWithSettings(s)
	for i, mv := range columns {
		if !p.MoveIsLegal(mv) {
			return nil, fmt.Errorf("move %d (column %d): %w", i+1, mv, game.ErrIllegalMove)
		}
		p.DoMove(mv)
	}
	return p, nil
}
