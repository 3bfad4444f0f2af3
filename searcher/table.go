package searcher

type bound int8

const (
	exact bound = iota
	lowerBound
	upperBound
)

type ttEntry[M comparable] struct {
	depth   int
	score   int
	flag    bound
	move    M
	hasMove bool
	// No node below was cut off by the depth limit, so the score holds at
	// any depth.
	complete bool
}

// table is a transposition table keyed by the position's hash view. It is
// owned by one search and starts over once it holds size entries.
type table[H comparable, M comparable] struct {
	entries map[H]ttEntry[M]
	size    int
}

func newTable[H comparable, M comparable](size int) *table[H, M] {
	return &table[H, M]{
		entries: make(map[H]ttEntry[M], min(size, 1<<16)),
		size:    size,
	}
}

func (t *table[H, M]) probe(key H) (ttEntry[M], bool) {
	e, ok := t.entries[key]
	return e, ok
}

// store keeps the better of the old and new entries for a key: a complete
// entry, else the deeper one.
func (t *table[H, M]) store(key H, e ttEntry[M]) {
	if len(t.entries) >= t.size {
		clear(t.entries)
	}
	if old, ok := t.entries[key]; ok && !e.complete && (old.complete || old.depth > e.depth) {
		return
	}
	t.entries[key] = e
}

func (t *table[H, M]) len() int {
	return len(t.entries)
}

// Win scores are stored relative to the node so that they stay valid when
// the same position is reached at another ply.
func toTable(score, ply int) int {
	switch {
	case score > winThreshold:
		return score + ply
	case score < -winThreshold:
		return score - ply
	}
	return score
}

func fromTable(score, ply int) int {
	switch {
	case score > winThreshold:
		return score - ply
	case score < -winThreshold:
		return score + ply
	}
	return score
}
