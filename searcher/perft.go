package searcher

import (
	"context"
	"sync/atomic"

	"boardgame/game"

	"golang.org/x/sync/errgroup"
)

// perftCheckInterval is the number of interior nodes between context checks.
const perftCheckInterval = 4096

// Perft counts the move sequences of length depth from p. Sequences that end
// the game early are not counted.
func Perft[M comparable, R any](p game.Position[M, R], depth int) uint64 {
	c := perftCounter[M, R]{ctx: context.Background()}
	nodes, _ := c.count(p, depth)
	return nodes
}

// ParallelPerft is Perft with the root moves split across at most workers
// goroutines, each searching its own copy of p. Cancelling ctx stops every
// goroutine.
func ParallelPerft[P game.EvalPosition[P, M, R], M comparable, R any](ctx context.Context, p P, depth, workers int) (uint64, error) {
	if depth <= 1 {
		return Perft[M, R](p, depth), nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	var nodes atomic.Uint64
	for _, mv := range p.GenerateMoves(nil) {
		child := p.Clone()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			child.DoMove(mv)
			c := perftCounter[M, R]{ctx: ctx}
			n, err := c.count(child, depth-1)
			if err != nil {
				return err
			}
			nodes.Add(n)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return nodes.Load(), nil
}

type perftCounter[M comparable, R any] struct {
	ctx     context.Context
	visited int
}

// count walks the tree below p, leaving p as it found it even when ctx is
// cancelled part way.
func (c *perftCounter[M, R]) count(p game.Position[M, R], depth int) (uint64, error) {
	if depth == 0 {
		return 1, nil
	}
	moves := p.GenerateMoves(nil)
	if depth == 1 {
		return uint64(len(moves)), nil
	}

	c.visited++
	if c.visited%perftCheckInterval == 0 {
		if err := c.ctx.Err(); err != nil {
			return 0, err
		}
	}

	var nodes uint64
	for _, mv := range moves {
		reverse := p.DoMove(mv)
		n, err := c.count(p, depth-1)
		p.ReverseMove(reverse)
		if err != nil {
			return 0, err
		}
		nodes += n
	}
	return nodes, nil
}
