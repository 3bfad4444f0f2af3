package searcher

import (
	"context"
	"fmt"

	"boardgame/experiments/metrics"
	"boardgame/game"

	"github.com/rs/zerolog/log"
)

// Scores are in hundredths of a static evaluation point, from the side to
// move's perspective. Wins are scored above anything StaticEval can produce,
// and sooner wins score higher.
const (
	WinScore     = 1_000_000
	winThreshold = WinScore - 10_000
	infinity     = WinScore + 1

	nullReduction = 2
	maxQuiescence = 64
	checkInterval = 1024
	defaultDepth  = 64
	defaultTTSize = 1 << 20
)

type AlphaBetaOption func(c *alphaBetaConfig)

type alphaBetaConfig struct {
	depth      int
	nodes      int
	nullMove   bool
	quiescence bool
	tableSize  int
	metrics    metrics.Collector
}

// WithDepth limits iterative deepening to depth plies.
func WithDepth(depth int) AlphaBetaOption {
	return func(c *alphaBetaConfig) {
		if depth > 0 {
			c.depth = depth
		}
	}
}

// WithNodes limits the nodes searched per move. An iteration that is
// predicted to overrun the limit is not started.
func WithNodes(nodes int) AlphaBetaOption {
	return func(c *alphaBetaConfig) {
		if nodes > 0 {
			c.nodes = nodes
		}
	}
}

func WithNullMove(enabled bool) AlphaBetaOption {
	return func(c *alphaBetaConfig) {
		c.nullMove = enabled
	}
}

func WithQuiescence(enabled bool) AlphaBetaOption {
	return func(c *alphaBetaConfig) {
		c.quiescence = enabled
	}
}

func WithTableSize(entries int) AlphaBetaOption {
	return func(c *alphaBetaConfig) {
		if entries > 0 {
			c.tableSize = entries
		}
	}
}

func WithSearchMetrics() AlphaBetaOption {
	return func(c *alphaBetaConfig) {
		c.metrics = metrics.NewCollector()
	}
}

// Result is the outcome of an alpha-beta search.
type Result[M comparable] struct {
	Move  M
	Score int // From the side to move's perspective
	Depth int // Deepest completed iteration
}

// IsWin reports whether the score is a forced win for the side to move.
func (r Result[M]) IsWin() bool {
	return r.Score > winThreshold
}

// IsLoss reports whether the score is a forced loss for the side to move.
func (r Result[M]) IsLoss() bool {
	return r.Score < -winThreshold
}

// AlphaBeta is an iterative-deepening negamax search with quiescence search,
// null-move pruning and a transposition table. It is not safe for concurrent
// use; run one per goroutine.
type AlphaBeta[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any] struct {
	alphaBetaConfig
	table   *table[H, M]
	buffers [][]M
	visited int
	horizon int // Nodes cut off by the depth limit in this iteration
	aborted bool
	ctx     context.Context
}

func NewAlphaBeta[P game.ExtendedPosition[P, M, R, H, N], M comparable, R any, H comparable, N any](options ...AlphaBetaOption) *AlphaBeta[P, M, R, H, N] {
	s := &AlphaBeta[P, M, R, H, N]{
		alphaBetaConfig: alphaBetaConfig{ // Default values
			depth:      defaultDepth,
			nullMove:   true,
			quiescence: true,
			tableSize:  defaultTTSize,
			metrics:    metrics.NewDummyCollector(),
		},
	}
	for _, option := range options {
		option(&s.alphaBetaConfig)
	}
	s.table = newTable[H, M](s.tableSize)
	return s
}

// Search returns the best move in pos and its score. pos is searched in place
// and is restored before Search returns. Cancelling ctx stops the search and
// returns the result of the last completed iteration.
func (s *AlphaBeta[P, M, R, H, N]) Search(ctx context.Context, pos P) (Result[M], metrics.SearchMetric, error) {
	s.metrics.Start("alphabeta", 1, 0)
	s.ctx = ctx
	s.visited = 0
	s.aborted = false

	var best Result[M]
	if _, ok := pos.GameResult(); ok || len(pos.GenerateMoves(nil)) == 0 {
		return best, s.metrics.Complete(), ErrNoMoves
	}

	for depth := 1; depth <= s.depth; depth++ {
		before := s.visited
		s.horizon = 0
		move, score := s.searchRoot(pos, depth)
		if s.aborted {
			break
		}
		best = Result[M]{Move: move, Score: score, Depth: depth}
		s.metrics.SetDepth(depth)

		log.Debug().
			Int("depth", depth).
			Int("score", score).
			Str("move", fmt.Sprintf("%v", move)).
			Int("nodes", s.visited).
			Msg("alpha-beta iteration complete")

		if best.IsWin() || best.IsLoss() {
			break
		}
		if s.horizon == 0 { // Every line was played out
			break
		}
		// The next iteration costs about branch factor times this one
		if s.nodes > 0 && s.visited+(s.visited-before)*int(pos.BranchFactor()) > s.nodes {
			break
		}
	}

	s.metrics.AddNodes(s.visited)
	metric := s.metrics.Complete()
	if best.Depth == 0 {
		return best, metric, ErrSearchAborted
	}
	return best, metric, nil
}

func (s *AlphaBeta[P, M, R, H, N]) buffer(ply int) []M {
	for len(s.buffers) <= ply {
		s.buffers = append(s.buffers, make([]M, 0, 32))
	}
	return s.buffers[ply][:0]
}

// visit counts a node and reports whether the search must stop.
func (s *AlphaBeta[P, M, R, H, N]) visit() bool {
	s.visited++
	if s.visited%checkInterval == 0 {
		if s.ctx.Err() != nil || (s.nodes > 0 && s.visited >= s.nodes) {
			s.aborted = true
		}
	}
	return s.aborted
}

func (s *AlphaBeta[P, M, R, H, N]) searchRoot(pos P, depth int) (M, int) {
	start := s.horizon
	moves := pos.GenerateMoves(s.buffer(0))
	if e, ok := s.table.probe(pos.HashPosition()); ok && e.hasMove {
		orderFirst(moves, e.move)
	}

	alpha, beta := -infinity, infinity
	bestMove := moves[0]
	for _, mv := range moves {
		reverse := pos.DoMove(mv)
		score := -s.negamax(pos, depth-1, 1, -beta, -alpha, true)
		pos.ReverseMove(reverse)
		if s.aborted {
			return bestMove, 0
		}
		if score > alpha {
			alpha = score
			bestMove = mv
		}
	}

	s.table.store(pos.HashPosition(), ttEntry[M]{depth: depth, score: toTable(alpha, 0), flag: exact, move: bestMove, hasMove: true, complete: s.horizon == start})
	return bestMove, alpha
}

func (s *AlphaBeta[P, M, R, H, N]) negamax(pos P, depth, ply, alpha, beta int, allowNull bool) int {
	if s.visit() {
		return 0
	}
	if result, ok := pos.GameResult(); ok {
		return terminalScore(result, pos.SideToMove(), ply)
	}
	if depth <= 0 {
		s.horizon++
		if s.quiescence {
			return s.quiesce(pos, ply, 0, alpha, beta)
		}
		return evaluate(pos)
	}

	start := s.horizon
	hash := pos.HashPosition()
	originalAlpha := alpha
	var ttMove M
	hasTTMove := false
	if e, ok := s.table.probe(hash); ok {
		s.metrics.AddTableHit()
		ttMove, hasTTMove = e.move, e.hasMove
		if e.depth >= depth || e.complete {
			if !e.complete {
				s.horizon++
			}
			score := fromTable(e.score, ply)
			switch e.flag {
			case exact:
				return score
			case lowerBound:
				alpha = max(alpha, score)
			case upperBound:
				beta = min(beta, score)
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if s.nullMove && allowNull && depth > nullReduction && pos.NullMoveIsAvailable() {
		beforeNull := s.horizon
		reverse := pos.DoNullMove()
		score := -s.negamax(pos, depth-1-nullReduction, ply+1, -beta, -beta+1, false)
		pos.ReverseNullMove(reverse)
		if s.aborted {
			return 0
		}
		if score >= beta {
			return beta
		}
		s.horizon = beforeNull // The reduced search decided nothing
	}

	moves := pos.GenerateMoves(s.buffer(ply))
	if len(moves) == 0 { // Undecided but stuck
		return 0
	}
	if hasTTMove {
		orderFirst(moves, ttMove)
	}

	best := -infinity
	bestMove := moves[0]
	for _, mv := range moves {
		reverse := pos.DoMove(mv)
		score := -s.negamax(pos, depth-1, ply+1, -beta, -alpha, true)
		pos.ReverseMove(reverse)
		if s.aborted {
			return 0
		}
		if score > best {
			best = score
			bestMove = mv
		}
		alpha = max(alpha, score)
		if alpha >= beta {
			break
		}
	}

	flag := exact
	switch {
	case best <= originalAlpha:
		flag = upperBound
	case best >= beta:
		flag = lowerBound
	}
	s.table.store(hash, ttEntry[M]{depth: depth, score: toTable(best, ply), flag: flag, move: bestMove, hasMove: true, complete: s.horizon == start})
	return best
}

// quiesce searches only active moves until the position is quiet, letting the
// side to move stand pat on the static evaluation.
func (s *AlphaBeta[P, M, R, H, N]) quiesce(pos P, ply, qply, alpha, beta int) int {
	if qply > 0 && s.visit() { // negamax has visited the first node
		return 0
	}
	if result, ok := pos.GameResult(); ok {
		return terminalScore(result, pos.SideToMove(), ply)
	}

	standPat := evaluate(pos)
	if standPat >= beta || qply >= maxQuiescence {
		return standPat
	}
	alpha = max(alpha, standPat)

	for _, mv := range pos.ActiveMoves(s.buffer(ply)) {
		reverse := pos.DoMove(mv)
		score := -s.quiesce(pos, ply+1, qply+1, -beta, -alpha)
		pos.ReverseMove(reverse)
		if s.aborted {
			return 0
		}
		if score >= beta {
			return score
		}
		alpha = max(alpha, score)
	}
	return alpha
}

type evaluator interface {
	SideToMove() game.Color
	StaticEval() float32
}

func evaluate(pos evaluator) int {
	return int(pos.StaticEval()*100) * pos.SideToMove().Multiplier()
}

func terminalScore(result game.GameResult, side game.Color, ply int) int {
	winner, ok := result.Winner()
	switch {
	case !ok:
		return 0
	case winner == side:
		return WinScore - ply
	default:
		return -(WinScore - ply)
	}
}

// orderFirst moves mv to the front of moves, if present.
func orderFirst[M comparable](moves []M, mv M) {
	for i, m := range moves {
		if m == mv {
			moves[0], moves[i] = moves[i], moves[0]
			return
		}
	}
}
