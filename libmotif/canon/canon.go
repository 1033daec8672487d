package canon

import (
	"bytes"

	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/2x3systems/go2x3motif/libmotif/partition"
	"github.com/plan-systems/klog"
)

// Stats reports the size of a canonical labeling search.
type Stats struct {
	Nodes  int // search tree nodes visited (refinements performed)
	Leaves int // discrete partitions reached
}

// Result is the outcome of canonically labeling a graph.
//
// Results may be shared through a Cache, so callers must not modify Order or Form.
type Result struct {
	Order []int  // Order[i] is the node of the source graph placed at canonical position i
	Form  []byte // the graph's encoding under Order
	Stats Stats
}

// Order returns the canonical node order of X.
func Order(X *graph.Graph) []int {
	return Label(X).Order
}

// Form returns the canonical form of X: its encoding under its canonical order.
// Two graphs are isomorphic iff their canonical forms are equal.
func Form(X *graph.Graph) []byte {
	return Label(X).Form
}

// Label computes the canonical order and form of X.
//
// The search starts from the unit partition and refines it.  While the refined partition is
// not discrete, each node of its first non-singleton cell is individualized in turn (ascending
// node index) and the search recurses depth first.  Every discrete leaf is scored by the graph's
// encoding under the leaf order and the lexicographically smallest encoding wins (the first one
// found on ties).  The whole tree is searched: cost is exponential for graphs with large
// automorphism groups.
func Label(X *graph.Graph) *Result {
	M := X.Matrix()
	L := labeler{
		refiner: partition.NewRefiner(&M),
	}
	L.search(partition.Unit(M.N))

	if L.stats.Leaves > 1 {
		klog.V(3).Infof("canon: %d nodes, %d search nodes, %d leaves", M.N, L.stats.Nodes, L.stats.Leaves)
	}

	return &Result{
		Order: L.bestOrder,
		Form:  L.best,
		Stats: L.stats,
	}
}

type labeler struct {
	refiner   *partition.Refiner
	best      []byte
	bestOrder []int
	scratch   []byte
	stats     Stats
}

func (L *labeler) search(p *partition.Partition) {
	L.stats.Nodes++
	p = L.refiner.Refine(p)

	ci := p.FirstNonSingleton()
	if ci < 0 {
		L.leaf(p.Order())
		return
	}

	for _, v := range p.Cell(ci) {
		L.search(p.Individualize(ci, v))
	}
}

func (L *labeler) leaf(order []int) {
	L.stats.Leaves++
	L.scratch = L.refiner.M.AppendEncoding(L.scratch[:0], order)
	if L.best == nil || bytes.Compare(L.scratch, L.best) < 0 {
		L.best = append(L.best[:0], L.scratch...)
		L.bestOrder = order
	}
}

// Relabeled returns a copy of X in canonical order.
func Relabeled(X *graph.Graph) *graph.Graph {
	Y, err := X.Permuted(Order(X))
	if err != nil {
		panic(err)
	}
	return Y
}
