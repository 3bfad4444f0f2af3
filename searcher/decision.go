package searcher

import (
	"sync"

	"boardgame/game"
)

// decision is a node of the search tree. Its statistics are from the
// perspective of mover, the player whose move led to it.
type decision[M comparable] struct {
	sync.RWMutex
	parent   *decision[M]
	mover    game.Color
	moves    []M // children[i] follows moves[i]; the rest are unexplored
	children []*decision[M]
	rewards  float64
	visits   float64
}

func newDecision[M comparable](parent *decision[M], mover game.Color, moves []M) *decision[M] {
	return &decision[M]{
		parent:   parent,
		mover:    mover,
		moves:    moves,
		children: make([]*decision[M], 0, len(moves)),
	}
}

func (d *decision[M]) isTerminal() bool {
	return len(d.moves) == 0
}

func (d *decision[M]) isExpandable() bool {
	return len(d.moves) > len(d.children)
}

// applyLoss records a temporary loss so that concurrent selections spread
// over other children until backup reverses it.
func (d *decision[M]) applyLoss() {
	d.Lock()
	defer d.Unlock()

	d.rewards += Loss
	d.visits++
}

func (d *decision[M]) reverseLoss() {
	d.rewards -= Loss
	d.visits--
}

// backup adds the reward of one episode and returns the parent.
func (d *decision[M]) backup(reward func(game.Color) float64) *decision[M] {
	d.Lock()
	defer d.Unlock()

	if d.parent != nil { // Non-root node
		d.reverseLoss()
	}

	d.rewards += reward(d.mover)
	d.visits++

	return d.parent
}

func (d *decision[M]) stats() (rewards float64, visits float64) {
	d.RLock()
	defer d.RUnlock()

	return d.rewards, d.visits
}

// child returns the explored child reached by mv.
func (d *decision[M]) child(mv M) *decision[M] {
	d.RLock()
	defer d.RUnlock()

	for i, child := range d.children {
		if d.moves[i] == mv {
			return child
		}
	}
	return nil
}

// Policy returns the visit count of each explored move.
func (d *decision[M]) Policy() map[M]float64 {
	d.RLock()
	defer d.RUnlock()

	policy := make(map[M]float64, len(d.children))
	for i, child := range d.children {
		_, visits := child.stats()
		policy[d.moves[i]] = visits
	}
	return policy
}
