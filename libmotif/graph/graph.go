package graph

import (
	"sort"
	"sync"

	"github.com/2x3systems/go2x3motif/motif"
	"github.com/pkg/errors"
	sg "github.com/soniakeys/graph"
)

var _ motif.GraphView = (*Graph)(nil)

var graphPool = sync.Pool{
	New: func() interface{} {
		return new(Graph)
	},
}

// Graph is a simple labeled graph stored as an arena of nodes addressed by index.
//
// For an undirected graph, the in arena is nil and Backward() coincides with Forward().
type Graph struct {
	directed bool
	labels   []motif.Label
	out      sg.LabeledAdjacencyList
	in       sg.LabeledAdjacencyList
	numEdges int
}

// NewGraph returns an empty Graph from the pool.
func NewGraph(directed bool) *Graph {
	X := graphPool.Get().(*Graph)
	X.Init(directed)
	return X
}

// Reclaim recycles this Graph into a pool for reuse.
// Caller asserts that no more references to this instance will persist.
func (X *Graph) Reclaim() {
	if X != nil {
		X.Init(false)
		graphPool.Put(X)
	}
}

// Init resets this Graph to have no nodes.
func (X *Graph) Init(directed bool) {
	X.directed = directed
	X.labels = X.labels[:0]
	X.out = X.out[:0]
	X.in = nil
	X.numEdges = 0
}

// AddNode appends a node with the given label and returns its index.
func (X *Graph) AddNode(label motif.Label) int {
	n := len(X.labels)
	X.labels = append(X.labels, label)
	X.out = append(X.out, nil)
	if X.directed {
		X.in = append(X.in, nil)
	}
	return n
}

// SetLabel assigns the label of node n.
func (X *Graph) SetLabel(n int, label motif.Label) error {
	if n < 0 || n >= len(X.labels) {
		return errors.Wrapf(motif.ErrBadNodeID, "node %d", n)
	}
	X.labels[n] = label
	return nil
}

// AddEdge adds an edge (or for a directed graph, the arc a->b) with the given edge label.
func (X *Graph) AddEdge(a, b int, label motif.Label) error {
	Nv := len(X.labels)
	if a < 0 || a >= Nv || b < 0 || b >= Nv {
		return errors.Wrapf(motif.ErrBadNodeID, "edge %d-%d in graph with %d nodes", a, b, Nv)
	}
	if a == b {
		return errors.Wrapf(motif.ErrSelfLoop, "node %d", a)
	}
	if X.HasEdge(a, b) {
		return errors.Wrapf(motif.ErrDupEdge, "edge %d-%d", a, b)
	}

	if X.directed {
		X.out[a] = append(X.out[a], Half{To: sg.NI(b), Label: sg.LI(label)})
		X.in[b] = append(X.in[b], Half{To: sg.NI(a), Label: sg.LI(label)})
	} else {
		u := sg.LabeledUndirected{LabeledAdjacencyList: X.out}
		u.AddEdge(sg.Edge{N1: sg.NI(a), N2: sg.NI(b)}, sg.LI(label))
		X.out = u.LabeledAdjacencyList
	}
	X.numEdges++
	return nil
}

func (X *Graph) NodeCount() int {
	return len(X.labels)
}

// EdgeCount returns the number of edges (arcs for a directed graph).
func (X *Graph) EdgeCount() int {
	return X.numEdges
}

func (X *Graph) IsDirected() bool {
	return X.directed
}

func (X *Graph) NodeLabel(n int) motif.Label {
	return X.labels[n]
}

// Labels returns the node label vector (read only).
func (X *Graph) Labels() []motif.Label {
	return X.labels
}

// Forward returns the arcs leaving n (read only).
func (X *Graph) Forward(n int) []Half {
	return X.out[n]
}

// Backward returns the arcs entering n (read only).
func (X *Graph) Backward(n int) []Half {
	if X.directed {
		return X.in[n]
	}
	return X.out[n]
}

func (X *Graph) Successors(n int) []int {
	return appendSorted(nil, X.Forward(n))
}

func (X *Graph) Predecessors(n int) []int {
	return appendSorted(nil, X.Backward(n))
}

func (X *Graph) Neighbors(n int) []int {
	nbs := appendSorted(nil, X.out[n])
	if !X.directed {
		return nbs
	}
	nbs = appendSorted(nbs, X.in[n])

	// drop duplicates from the merged run
	uniq := nbs[:0]
	for i, m := range nbs {
		if i == 0 || m != nbs[i-1] {
			uniq = append(uniq, m)
		}
	}
	return uniq
}

func appendSorted(dst []int, arcs []Half) []int {
	for _, h := range arcs {
		dst = append(dst, int(h.To))
	}
	sort.Ints(dst)
	return dst
}

func (X *Graph) HasEdge(a, b int) bool {
	has, _ := X.out.HasArc(sg.NI(a), sg.NI(b))
	return has
}

func (X *Graph) EdgeLabel(a, b int) (motif.Label, bool) {
	for _, h := range X.out[a] {
		if int(h.To) == b {
			return motif.Label(h.Label), true
		}
	}
	return 0, false
}

func (X *Graph) OutDegree(n int) int {
	return len(X.out[n])
}

func (X *Graph) InDegree(n int) int {
	return len(X.Backward(n))
}

// Degree returns the number of arcs incident to n (for undirected graphs, its neighbor count).
func (X *Graph) Degree(n int) int {
	if X.directed {
		return len(X.out[n]) + len(X.in[n])
	}
	return len(X.out[n])
}

// Matrix returns a dense snapshot of this graph.
func (X *Graph) Matrix() Matrix {
	Nv := len(X.labels)
	M := Matrix{
		N:        Nv,
		Directed: X.directed,
		Labels:   append([]motif.Label(nil), X.labels...),
		OutDeg:   make([]int, Nv),
		InDeg:    make([]int, Nv),
		cells:    make([]int64, Nv*Nv),
	}
	for a, arcs := range X.out {
		for _, h := range arcs {
			M.cells[a*Nv+int(h.To)] = arcCode(h.Label)
			M.OutDeg[a]++
			M.InDeg[h.To]++
		}
	}
	return M
}

// IsConnected returns true if this graph is (weakly) connected.  The empty graph is connected.
func (X *Graph) IsConnected() bool {
	Nv := len(X.labels)
	if Nv == 0 {
		return true
	}

	adj := X.out
	if X.directed {
		adj = sg.LabeledDirected{LabeledAdjacencyList: X.out}.Undirected().LabeledAdjacencyList
	}

	visited := 0
	adj.BreadthFirst(0, func(sg.NI) {
		visited++
	})
	return visited == Nv
}

// Copy returns a deep copy of this Graph.
func (X *Graph) Copy() *Graph {
	Y := NewGraph(X.directed)
	Y.labels = append(Y.labels, X.labels...)
	Y.out, _ = X.out.Copy()
	if X.directed {
		Y.in, _ = X.in.Copy()
	}
	Y.numEdges = X.numEdges
	return Y
}
