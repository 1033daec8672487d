package graph

import (
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/pkg/errors"
	"github.com/soniakeys/bits"
	sg "github.com/soniakeys/graph"
)

// Extract returns the subgraph induced by the given nodes.
//
// Node i of the returned graph is nodes[i] of X, and every edge of X between two of the given nodes is carried over with its label.
func (X *Graph) Extract(nodes []int) (*Graph, error) {
	Nv := len(X.labels)
	seen := bits.New(Nv)
	list := make([]sg.NI, len(nodes))
	for i, n := range nodes {
		if n < 0 || n >= Nv {
			return nil, errors.Wrapf(motif.ErrBadNodeID, "node %d not in graph with %d nodes", n, Nv)
		}
		if seen.Bit(n) != 0 {
			return nil, errors.Wrapf(motif.ErrBadNodeID, "node %d listed twice", n)
		}
		seen.SetBit(n, 1)
		list[i] = sg.NI(n)
	}

	Y := NewGraph(X.directed)
	for _, n := range nodes {
		Y.labels = append(Y.labels, X.labels[n])
	}

	sub := X.out.InduceList(list)
	Y.out = sub.LabeledAdjacencyList
	Y.numEdges = Y.out.ArcSize()
	if X.directed {
		Y.in = X.in.InduceList(list).LabeledAdjacencyList
	} else {
		Y.numEdges /= 2
	}
	return Y, nil
}

// Permuted returns a copy of X relabeled so that node i of the copy is node order[i] of X.
func (X *Graph) Permuted(order []int) (*Graph, error) {
	Nv := len(X.labels)
	if len(order) != Nv {
		return nil, errors.Wrapf(motif.ErrBadNodeID, "order has %d nodes, graph has %d", len(order), Nv)
	}
	return X.Extract(order)
}

// LabelFree returns a copy of X with every node and edge label set to 0.
func (X *Graph) LabelFree() *Graph {
	Y := X.Copy()
	for i := range Y.labels {
		Y.labels[i] = 0
	}
	clearArcLabels(Y.out)
	if Y.directed {
		clearArcLabels(Y.in)
	}
	return Y
}

func clearArcLabels(adj sg.LabeledAdjacencyList) {
	for _, arcs := range adj {
		for i := range arcs {
			arcs[i].Label = 0
		}
	}
}

// FromView returns V as a Graph.  If V is not already a *Graph, it is copied into a new pooled Graph,
// reported by isCopy, which the caller should Reclaim when done.
func FromView(V motif.GraphView) (X *Graph, isCopy bool, err error) {
	switch V := V.(type) {
	case nil:
		return nil, false, nil
	case *Graph:
		return V, false, nil
	}

	Nv := V.NodeCount()
	X = NewGraph(V.IsDirected())
	for n := 0; n < Nv; n++ {
		X.AddNode(V.NodeLabel(n))
	}
	for a := 0; a < Nv; a++ {
		for _, b := range V.Successors(a) {
			if !X.directed && b < a {
				continue
			}
			label, _ := V.EdgeLabel(a, b)
			if err = X.AddEdge(a, b, label); err != nil {
				X.Reclaim()
				return nil, false, err
			}
		}
	}
	return X, true, nil
}
