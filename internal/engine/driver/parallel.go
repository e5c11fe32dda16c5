package driver

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

type result struct {
	target *domain.Target
	err    error
}

// runState tracks which targets of one parallel build may start.
type runState struct {
	pending    map[*domain.Target]int
	dependents map[*domain.Target][]*domain.Target
	ready      []*domain.Target
	size       int
}

// newRunState indexes seq by identity. A target waits on each distinct,
// non-linked child that is part of the same build.
func newRunState(seq []*domain.Target) *runState {
	inSet := make(map[*domain.Target]bool, len(seq))
	var nodes []*domain.Target
	for _, t := range seq {
		if !inSet[t] {
			inSet[t] = true
			nodes = append(nodes, t)
		}
	}

	state := &runState{
		pending:    make(map[*domain.Target]int, len(nodes)),
		dependents: make(map[*domain.Target][]*domain.Target),
		size:       len(nodes),
	}
	for _, t := range nodes {
		seen := make(map[*domain.Target]bool)
		for _, c := range t.Children() {
			if !inSet[c] || c.Kind().IsLinked() || seen[c] {
				continue
			}
			seen[c] = true
			state.pending[t]++
			state.dependents[c] = append(state.dependents[c], t)
		}
	}
	for _, t := range nodes {
		if state.pending[t] == 0 {
			state.ready = append(state.ready, t)
		}
	}
	return state
}

// complete releases the dependents of t that have nothing left to wait for.
func (state *runState) complete(t *domain.Target) {
	for _, p := range state.dependents[t] {
		state.pending[p]--
		if state.pending[p] == 0 {
			state.ready = append(state.ready, p)
		}
	}
}

// runParallel builds seq with up to opts.Jobs commands in flight. Each target
// is judged for staleness once all of its children have finished.
func (d *Driver) runParallel(ctx context.Context, tc *domain.Toolchain, seq []*domain.Target, opts Options) error {
	state := newRunState(seq)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)

	// Buffered so workers never block after the scheduling loop stops reading.
	results := make(chan result, state.size)
	launched, finished := 0, 0

	for {
		for len(state.ready) > 0 && gctx.Err() == nil {
			t := state.ready[0]
			state.ready = state.ready[1:]
			launched++

			g.Go(func() error {
				err := d.step(gctx, tc, t, opts.Force)
				results <- result{target: t, err: err}
				return err
			})
		}

		if finished == launched {
			break
		}

		res := <-results
		finished++
		if res.err == nil {
			state.complete(res.target)
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
