package game

// Color identifies one of the two players. White always moves first.
type Color uint8

const (
	White Color = iota
	Black
)

// Not returns the opponent's color.
func (c Color) Not() Color {
	return c ^ 1
}

// Disc returns 0 for White and 1 for Black, e.g. for indexing per-player arrays.
func (c Color) Disc() int {
	return int(c)
}

// Multiplier returns 1 for White and -1 for Black. Multiplying a White-relative
// score by it gives the score from c's point of view.
func (c Color) Multiplier() int {
	return 1 - 2*int(c)
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}
