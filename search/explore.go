package search

import (
	"container/heap"
	"context"
	"math"

	"github.com/rs/zerolog"
)

// Explore runs a uniform-cost search from start and returns the cheapest
// accumulated cost of every state reachable within limit. The problem's
// Heuristic and IsGoal are not consulted, and self transitions are skipped
// since waiting can only add cost. MaxExpansions and ctx bound the run as in
// Search; on a BudgetExceededError the costs settled so far are returned with
// it.
func Explore[S comparable](ctx context.Context, p Problem[S], start S, limit float64, opts Options) (map[S]float64, error) {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	best := map[S]float64{start: 0}
	settled := make(map[S]float64)

	pq := &frontier[S]{}
	heap.Init(pq)
	var seq uint64
	heap.Push(pq, &frontierItem[S]{state: start})

	for pq.Len() > 0 {
		if err := ctx.Err(); err != nil {
			logger.Warn().Int("settled", len(settled)).Err(err).Msg("exploration interrupted")
			return settled, BudgetExceededError{Expanded: len(settled), Cause: err}
		}

		current := heap.Pop(pq).(*frontierItem[S])
		if _, done := settled[current.state]; done || current.g > best[current.state] {
			continue
		}
		settled[current.state] = current.g

		if opts.MaxExpansions > 0 && len(settled) >= opts.MaxExpansions {
			logger.Warn().Int("settled", len(settled)).Msg("exploration hit expansion budget")
			return settled, BudgetExceededError{Expanded: len(settled)}
		}

		succ, err := p.Successors(current.state)
		if err != nil {
			return settled, err
		}
		for _, v := range succ {
			if v == current.state {
				continue
			}
			g, err := p.TransitionCost(current.g, current.state, v)
			if err != nil {
				return settled, err
			}
			if math.IsInf(g, 1) || math.IsNaN(g) || g > limit {
				continue
			}
			if g < current.g {
				return settled, NegativeCostError{From: current.state, To: v, Accumulated: current.g, Result: g}
			}
			if old, seen := best[v]; seen && g >= old {
				continue
			}
			best[v] = g
			seq++
			heap.Push(pq, &frontierItem[S]{state: v, g: g, f: g, seq: seq})
		}
	}
	logger.Debug().Int("settled", len(settled)).Float64("limit", limit).Msg("exploration finished")
	return settled, nil
}
