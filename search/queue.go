package search

type frontierItem[S comparable] struct {
	state S
	g     float64
	f     float64
	seq   uint64
}

// frontier orders by f, then lower g, then insertion order.
type frontier[S comparable] []*frontierItem[S]

func (pq frontier[S]) Len() int { return len(pq) }

func (pq frontier[S]) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.g != b.g {
		return a.g < b.g
	}
	return a.seq < b.seq
}

// Stale entries stay queued and are skipped on pop, so items are never
// fixed in place.
func (pq frontier[S]) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *frontier[S]) Push(x interface{}) {
	*pq = append(*pq, x.(*frontierItem[S]))
}

func (pq *frontier[S]) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[0 : n-1]
	return item
}
