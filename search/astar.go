// Package search implements best-first (A*) search over any state space
// described by a Problem.
package search

import (
	"container/heap"
	"context"
	"math"

	"github.com/rs/zerolog"
)

// Problem is the strategy a search runs against.
//
// TransitionCost returns the accumulated cost after moving from -> to, given
// the cost accumulated so far. +Inf marks an infeasible transition.
// Heuristic estimates the remaining cost from s to the goal.
type Problem[S comparable] interface {
	Successors(s S) ([]S, error)
	TransitionCost(accumulated float64, from, to S) (float64, error)
	Heuristic(s S) (float64, error)
	IsGoal(s S) bool
}

type Options struct {
	// MaxExpansions bounds the number of expanded states; 0 means unbounded.
	MaxExpansions int
	Logger        *zerolog.Logger
}

// Result is a path from the start state to a goal state. Costs[i] is the
// accumulated cost on reaching Path[i].
type Result[S comparable] struct {
	Path     []S
	Costs    []float64
	Cost     float64
	Expanded int
}

const progressEvery = 1000

// Search runs A* from start. Besides the successors reported by the problem,
// every state may transition to itself; a closed state is only reopened when
// reached with a strictly lower cost, so waiting in place never loops.
//
// It returns ErrNoPathFound when the frontier empties, and a
// BudgetExceededError when ctx ends or MaxExpansions is reached.
func Search[S comparable](ctx context.Context, p Problem[S], start S, opts Options) (*Result[S], error) {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	h, err := p.Heuristic(start)
	if err != nil {
		return nil, err
	}

	best := map[S]float64{start: 0}
	parent := make(map[S]S)
	closed := make(map[S]bool)

	pq := &frontier[S]{}
	heap.Init(pq)
	var seq uint64
	push := func(s S, g, f float64) {
		heap.Push(pq, &frontierItem[S]{state: s, g: g, f: f, seq: seq})
		seq++
	}
	push(start, 0, h)

	expanded := 0
	for pq.Len() > 0 {
		if err := ctx.Err(); err != nil {
			logger.Warn().Int("expanded", expanded).Err(err).Msg("search interrupted")
			return nil, BudgetExceededError{Expanded: expanded, Cause: err}
		}

		current := heap.Pop(pq).(*frontierItem[S])
		if closed[current.state] || current.g > best[current.state] {
			continue
		}
		closed[current.state] = true
		expanded++

		if p.IsGoal(current.state) {
			res := reconstruct(parent, best, start, current.state)
			res.Expanded = expanded
			logger.Debug().Int("expanded", expanded).Float64("cost", res.Cost).Msg("search reached goal")
			return res, nil
		}

		if opts.MaxExpansions > 0 && expanded >= opts.MaxExpansions {
			logger.Warn().Int("expanded", expanded).Msg("search hit expansion budget")
			return nil, BudgetExceededError{Expanded: expanded}
		}

		if expanded%progressEvery == 0 {
			logger.Debug().Int("expanded", expanded).Int("frontier", pq.Len()).Float64("f", current.f).Msg("search progress")
		}

		succ, err := p.Successors(current.state)
		if err != nil {
			return nil, err
		}
		next := make([]S, 0, len(succ)+1)
		next = append(next, succ...)
		next = append(next, current.state)

		for _, v := range next {
			g, err := p.TransitionCost(current.g, current.state, v)
			if err != nil {
				return nil, err
			}
			if math.IsInf(g, 1) || math.IsNaN(g) {
				continue
			}
			if g < current.g {
				return nil, NegativeCostError{From: current.state, To: v, Accumulated: current.g, Result: g}
			}
			if old, seen := best[v]; seen && g >= old {
				continue
			}

			hv, err := p.Heuristic(v)
			if err != nil {
				return nil, err
			}
			delete(closed, v)
			best[v] = g
			parent[v] = current.state
			push(v, g, g+hv)
		}
	}

	return nil, ErrNoPathFound
}

func reconstruct[S comparable](parent map[S]S, best map[S]float64, start, goal S) *Result[S] {
	var path []S
	for s := goal; ; s = parent[s] {
		path = append(path, s)
		if s == start {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	costs := make([]float64, len(path))
	for i, s := range path {
		costs[i] = best[s]
	}
	return &Result[S]{Path: path, Costs: costs, Cost: best[goal]}
}
