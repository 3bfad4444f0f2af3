package searcher

import "math"

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// selectChild returns the index of the child with the highest UCT value.
// Children are scored from the perspective of the player choosing between
// them, and every child has at least one (possibly virtual) visit.
func selectChild[M comparable](children []*decision[M], cSquared float64) int {
	var total float64
	for _, child := range children {
		_, visits := child.stats()
		total += visits
	}
	policy := newUCT(cSquared, max(total, 1))

	maxIndex := -1
	maxScore := math.Inf(-1)
	for i, child := range children {
		rewards, visits := child.stats()
		if score := policy.evaluate(rewards, visits); score > maxScore {
			maxScore = score
			maxIndex = i
		}
	}
	return maxIndex
}
