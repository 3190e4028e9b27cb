package search

import (
	"errors"
	"fmt"
)

// ErrNoPathFound reports an exhausted search. It is an ordinary outcome.
var ErrNoPathFound = errors.New("no path found")

// BudgetExceededError is returned when the expansion budget or the context
// ends a search early. It matches ErrNoPathFound under errors.Is.
type BudgetExceededError struct {
	Expanded int
	Cause    error
}

func (e BudgetExceededError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("search stopped after %d expansions: %v", e.Expanded, e.Cause)
	}
	return fmt.Sprintf("search budget of %d expansions exhausted", e.Expanded)
}

func (e BudgetExceededError) Is(target error) bool { return target == ErrNoPathFound }

func (e BudgetExceededError) Unwrap() error { return e.Cause }

// NegativeCostError is returned when a transition would lower the accumulated cost.
type NegativeCostError struct {
	From, To    any
	Accumulated float64
	Result      float64
}

func (e NegativeCostError) Error() string {
	return fmt.Sprintf("transition %v->%v lowers cost from %.6f to %.6f", e.From, e.To, e.Accumulated, e.Result)
}
