package game

// GameResult is the outcome of a finished game.
type GameResult uint8

const (
	WhiteWin GameResult = iota
	BlackWin
	Draw
)

// WinBy returns WhiteWin for White and BlackWin for Black.
func WinBy(c Color) GameResult {
	if c == White {
		return WhiteWin
	}
	return BlackWin
}

// Not returns the result as seen by the other player. Draw stays Draw.
func (r GameResult) Not() GameResult {
	switch r {
	case WhiteWin:
		return BlackWin
	case BlackWin:
		return WhiteWin
	default:
		return Draw
	}
}

// Winner returns the winning color, or false for a draw.
func (r GameResult) Winner() (Color, bool) {
	switch r {
	case WhiteWin:
		return White, true
	case BlackWin:
		return Black, true
	default:
		return White, false
	}
}

// Score returns the result from c's point of view: 1 for a win, 0.5 for a draw
// and 0 for a loss.
func (r GameResult) Score(c Color) float64 {
	winner, ok := r.Winner()
	if !ok {
		return 0.5
	}
	if winner == c {
		return 1
	}
	return 0
}

func (r GameResult) String() string {
	switch r {
	case WhiteWin:
		return "WhiteWin"
	case BlackWin:
		return "BlackWin"
	default:
		return "Draw"
	}
}
