package roadgraph

type edgeKey struct {
	from, to NodeID
}

// Graph is an arena of nodes and directed edges with adjacency built once at
// construction. Structure never changes afterwards; only signal state is
// mutated, through SetSignal.
//
// Graph does no locking. Callers must not call SetSignal while a search over
// the same instance is running; use Clone for independent snapshots.
type Graph struct {
	nodes   []Node
	index   map[NodeID]int
	edges   []Edge
	out     [][]int // node index -> edge indices
	pairs   map[edgeKey]int
	signals []int // node indices of traffic signals
}

// New builds a graph from a node and edge dataset. Parallel edges between the
// same ordered pair collapse to the shortest one.
func New(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes: make([]Node, 0, len(nodes)),
		index: make(map[NodeID]int, len(nodes)),
		edges: make([]Edge, 0, len(edges)),
		out:   make([][]int, len(nodes)),
		pairs: make(map[edgeKey]int, len(edges)),
	}

	for _, n := range nodes {
		if _, exists := g.index[n.ID]; exists {
			return nil, DuplicateNodeError{ID: n.ID}
		}
		if n.Kind == KindTrafficSignal && !n.Signal.Valid() {
			return nil, InvalidSignalError{ID: n.ID, Signal: n.Signal}
		}
		if n.Kind != KindTrafficSignal {
			n.Signal = Signal{}
		}
		g.index[n.ID] = len(g.nodes)
		if n.Kind == KindTrafficSignal {
			g.signals = append(g.signals, len(g.nodes))
		}
		g.nodes = append(g.nodes, n)
	}

	for _, e := range edges {
		from, ok := g.index[e.From]
		if !ok {
			return nil, DanglingEdgeError{From: e.From, To: e.To, Missing: e.From}
		}
		if _, ok := g.index[e.To]; !ok {
			return nil, DanglingEdgeError{From: e.From, To: e.To, Missing: e.To}
		}
		if !(e.LengthMeters > 0) {
			return nil, InvalidEdgeError{From: e.From, To: e.To, Length: e.LengthMeters}
		}

		key := edgeKey{e.From, e.To}
		if existing, dup := g.pairs[key]; dup {
			if e.LengthMeters < g.edges[existing].LengthMeters {
				g.edges[existing] = e
			}
			continue
		}
		g.pairs[key] = len(g.edges)
		g.out[from] = append(g.out[from], len(g.edges))
		g.edges = append(g.edges, e)
	}

	return g, nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of distinct directed edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// Nodes returns node ids in construction order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i, n := range g.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id NodeID) (Node, error) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, UnknownNodeError{ID: id}
	}
	return g.nodes[i], nil
}

// Successors returns the heads of all edges leaving id, in edge insertion order.
func (g *Graph) Successors(id NodeID) ([]NodeID, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, UnknownNodeError{ID: id}
	}
	succ := make([]NodeID, len(g.out[i]))
	for k, ei := range g.out[i] {
		succ[k] = g.edges[ei].To
	}
	return succ, nil
}

// OutEdges returns copies of the edges leaving id.
func (g *Graph) OutEdges(id NodeID) ([]Edge, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, UnknownNodeError{ID: id}
	}
	out := make([]Edge, len(g.out[i]))
	for k, ei := range g.out[i] {
		out[k] = g.edges[ei]
	}
	return out, nil
}

// EdgeBetween looks up the directed edge u->v.
func (g *Graph) EdgeBetween(u, v NodeID) (Edge, bool) {
	i, ok := g.pairs[edgeKey{u, v}]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// Edges returns a copy of every edge in insertion order.
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// SignalNodes returns the ids of all traffic-signal nodes.
func (g *Graph) SignalNodes() []NodeID {
	ids := make([]NodeID, len(g.signals))
	for k, i := range g.signals {
		ids[k] = g.nodes[i].ID
	}
	return ids
}

// Signal returns the signal state of id. Non-signal nodes report a zero Signal.
func (g *Graph) Signal(id NodeID) (Signal, error) {
	i, ok := g.index[id]
	if !ok {
		return Signal{}, UnknownNodeError{ID: id}
	}
	return g.nodes[i].Signal, nil
}

// SetSignal replaces the signal state of a traffic-signal node. It is a no-op
// for other node kinds.
func (g *Graph) SetSignal(id NodeID, s Signal) error {
	i, ok := g.index[id]
	if !ok {
		return UnknownNodeError{ID: id}
	}
	if g.nodes[i].Kind != KindTrafficSignal {
		return nil
	}
	if !s.Valid() {
		return InvalidSignalError{ID: id, Signal: s}
	}
	g.nodes[i].Signal = s
	return nil
}

// Clone returns a graph whose signal state evolves independently of g.
// Structure and edge data are shared since they are never mutated.
func (g *Graph) Clone() *Graph {
	return &Graph{
		nodes:   append([]Node(nil), g.nodes...),
		index:   g.index,
		edges:   g.edges,
		out:     g.out,
		pairs:   g.pairs,
		signals: g.signals,
	}
}

// Dataset returns copies of the node and edge lists, suitable for New.
func (g *Graph) Dataset() ([]Node, []Edge) {
	return append([]Node(nil), g.nodes...), g.Edges()
}
