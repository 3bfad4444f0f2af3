package searcher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"boardgame/experiments/metrics"
	"boardgame/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(c *config)

type config struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	seed       uint64
	metrics    metrics.Collector
}

func WithDuration(duration time.Duration) Option {
	return func(c *config) {
		if duration > 0 {
			c.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(c *config) {
		if episodes > 0 {
			c.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.cutoff = depth
		}
	}
}

// WithSeed makes rollouts reproducible for a single goroutine.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

func WithMetrics() Option {
	return func(c *config) {
		c.metrics = metrics.NewCollector()
	}
}

// MCTS is a tree-parallel Monte Carlo tree search. Goroutines share one tree
// and use virtual loss to spread out; each one owns a copy of the position.
type MCTS[P game.EvalPosition[P, M, R], M comparable, R any] struct {
	config
	root    *decision[M]
	rootPos P
	hasRoot bool
	seeds   atomic.Uint64
}

func NewMCTS[P game.EvalPosition[P, M, R], M comparable, R any](goroutines int, options ...Option) *MCTS[P, M, R] {
	m := &MCTS[P, M, R]{ // Default values
		config: config{
			goroutines: max(goroutines, 1),
			cutoff:     MaxCutoff,
			seed:       uint64(time.Now().UnixNano()),
			metrics:    metrics.NewDummyCollector(),
		},
	}
	for _, option := range options {
		option(&m.config)
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	return m
}

// Simulate searches pos and returns the visit count of each root move. path
// lists the moves played since the previous search; when they lead from the
// previous root to pos, the matching subtree is reused.
func (m *MCTS[P, M, R]) Simulate(ctx context.Context, pos P, path []M) (map[M]float64, metrics.SearchMetric) {
	m.metrics.Start("mcts", m.goroutines, m.cutoff)
	m.findRoot(pos, path)
	m.rootPos = pos.Clone()
	m.hasRoot = true

	// Run simulations to collect statistics
	if m.episodes > 0 {
		m.iterate(ctx, pos)
	} else {
		m.countdown(ctx, pos)
	}
	metric := m.metrics.Complete()

	policy := m.root.Policy()
	log.Debug().
		Int("episodes", metric.Episodes).
		Int("full_playouts", metric.FullPlayouts).
		Bool("tree_reset", metric.IsTreeReset).
		Dur("duration", metric.Duration).
		Msg("mcts search complete")
	return policy, metric
}

func (m *MCTS[P, M, R]) findRoot(pos P, path []M) {
	if root := m.traverse(pos, path); root != nil {
		root.Lock()
		root.parent = nil
		root.Unlock()
		m.root = root
		m.metrics.SetTreeReset(false)
		return
	}

	w := m.newWorker(pos)
	m.root = newDecision(nil, pos.SideToMove().Not(), w.legalMoves())
	m.metrics.SetTreeReset(true)
}

// traverse follows path from the previous root and returns the node for pos,
// or nil if the tree has no such node.
func (m *MCTS[P, M, R]) traverse(pos P, path []M) *decision[M] {
	if !m.hasRoot {
		return nil
	}

	replay := m.rootPos.Clone()
	node := m.root
	for _, mv := range path {
		if !replay.MoveIsLegal(mv) {
			return nil
		}
		replay.DoMove(mv)
		if node = node.child(mv); node == nil { // Node has not expanded this move
			return nil
		}
	}
	if !replay.Equal(pos) {
		log.Warn().Msg("moves played since the last search do not lead to the searched position")
		return nil
	}
	return node
}

func (m *MCTS[P, M, R]) iterate(ctx context.Context, pos P) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(w *worker[P, M, R]) {
			defer wg.Done()

			for range task {
				if ctx.Err() != nil {
					return
				}
				m.simulate(w)
				m.metrics.AddEpisode()
			}
		}(m.newWorker(pos))
	}

	wg.Wait()
}

func (m *MCTS[P, M, R]) countdown(ctx context.Context, pos P) {
	ctx, cancel := context.WithTimeout(ctx, m.duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(w *worker[P, M, R]) {
			defer wg.Done()

			for ctx.Err() == nil {
				m.simulate(w)
				m.metrics.AddEpisode()
			}
		}(m.newWorker(pos))
	}

	wg.Wait()
}

// worker is the per-goroutine search state. The reverse moves of one episode
// are kept on a stack and undone in order once it is backed up.
type worker[P game.EvalPosition[P, M, R], M comparable, R any] struct {
	pos   P
	rng   *rand.Rand
	stack []R
	moves []M
}

func (m *MCTS[P, M, R]) newWorker(pos P) *worker[P, M, R] {
	return &worker[P, M, R]{
		pos: pos.Clone(),
		rng: rand.New(rand.NewSource(m.seed + m.seeds.Add(1))),
	}
}

func (w *worker[P, M, R]) play(mv M) {
	w.stack = append(w.stack, w.pos.DoMove(mv))
}

func (w *worker[P, M, R]) unwind() {
	for i := len(w.stack) - 1; i >= 0; i-- {
		w.pos.ReverseMove(w.stack[i])
	}
	w.stack = w.stack[:0]
}

// legalMoves returns the moves of a new node in random order, or none once
// the game is decided.
func (w *worker[P, M, R]) legalMoves() []M {
	if _, ok := w.pos.GameResult(); ok {
		return nil
	}
	moves := w.pos.GenerateMoves(nil)
	w.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})
	return moves
}

func (m *MCTS[P, M, R]) simulate(w *worker[P, M, R]) {
	newNode := m.selectThenExpand(w)
	white, full := m.rollout(w)
	if full {
		m.metrics.AddFullPlayout()
	}
	backup(newNode, white)
	w.unwind()
}

func (m *MCTS[P, M, R]) selectThenExpand(w *worker[P, M, R]) *decision[M] {
	parent := m.root
	for {
		child, expanded := m.selectOrExpand(parent, w)
		if child == parent || expanded {
			return child
		}
		parent = child
	}
}

// selectOrExpand plays one move down the tree. It returns the node itself if
// it is terminal, a new child if it had unexplored moves, and the best child
// by UCT otherwise.
func (m *MCTS[P, M, R]) selectOrExpand(d *decision[M], w *worker[P, M, R]) (*decision[M], bool) {
	d.Lock()
	defer d.Unlock()

	if d.isTerminal() {
		return d, false
	}

	if d.isExpandable() {
		move := d.moves[len(d.children)]
		mover := w.pos.SideToMove()
		w.play(move)
		child := newDecision(d, mover, w.legalMoves())
		d.children = append(d.children, child)
		child.applyLoss()
		return child, true
	}

	// Fully expanded node
	ith := selectChild(d.children, CSquared)
	w.play(d.moves[ith])
	child := d.children[ith]
	child.applyLoss()
	return child, false
}

// rollout plays random moves until the game ends or the cutoff is reached. It
// returns White's reward and whether the game was played out.
func (m *MCTS[P, M, R]) rollout(w *worker[P, M, R]) (float64, bool) {
	for depth := 0; ; depth++ {
		if result, ok := w.pos.GameResult(); ok {
			return result.Score(game.White), true
		}
		w.moves = w.pos.GenerateMoves(w.moves[:0])
		if len(w.moves) == 0 {
			return Draw, true
		}
		if depth >= m.cutoff {
			// At cutoff, map the static evaluation to a winning chance
			return float64((w.pos.StaticEval() - game.MinEval) / (game.MaxEval - game.MinEval)), false
		}
		w.play(w.moves[w.rng.Intn(len(w.moves))]) // Random rollout policy
	}
}

func backup[M comparable](newNode *decision[M], white float64) {
	reward := func(c game.Color) float64 {
		if c == game.White {
			return white
		}
		return 1 - white
	}
	node := newNode
	for node != nil {
		node = node.backup(reward)
	}
}
