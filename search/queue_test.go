package search

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrontierOrder(t *testing.T) {
	pq := &frontier[string]{}
	heap.Init(pq)
	for _, item := range []*frontierItem[string]{
		{state: "late tie", g: 1, f: 3, seq: 4},
		{state: "high f", g: 0, f: 5, seq: 0},
		{state: "deeper", g: 2, f: 3, seq: 1},
		{state: "early tie", g: 1, f: 3, seq: 2},
		{state: "low f", g: 9, f: 1, seq: 3},
	} {
		heap.Push(pq, item)
	}

	var order []string
	for pq.Len() > 0 {
		order = append(order, heap.Pop(pq).(*frontierItem[string]).state)
	}
	assert.Equal(t, []string{"low f", "early tie", "late tie", "deeper", "high f"}, order)
}
