package partition

import (
	"slices"
	"sort"

	"github.com/2x3systems/go2x3motif/libmotif/graph"
)

// Degree returns the number of out-neighbors of v (for undirected graphs, neighbors) that lie in cell.
func Degree(M *graph.Matrix, v int, cell []int) int {
	d := 0
	for _, u := range cell {
		if M.Has(v, u) {
			d++
		}
	}
	return d
}

// InDegree returns the number of in-neighbors of v that lie in cell.
func InDegree(M *graph.Matrix, v int, cell []int) int {
	d := 0
	for _, u := range cell {
		if M.Has(u, v) {
			d++
		}
	}
	return d
}

// Refine returns the label-aware equitable refinement of p.
//
// Each pass computes every node's signature -- its label, its incident edge labels, and its
// out (and for directed graphs, in) degree into every current cell -- and splits each cell into
// sub-cells of equal signature, ordered by ascending signature.  Passes repeat until one splits nothing.
// The result depends only on signatures and the incoming cell order, never on node creation order.
func Refine(M *graph.Matrix, p *Partition) *Partition {
	return NewRefiner(M).Refine(p)
}

// Refiner refines partitions of one graph, computing the label part of each node signature once.
type Refiner struct {
	M    *graph.Matrix
	base [][]int64
}

// NewRefiner returns a Refiner over M, computing its base signatures once.
func NewRefiner(M *graph.Matrix) *Refiner {
	return &Refiner{
		M:    M,
		base: baseSignatures(M),
	}
}

// Refine returns the label-aware equitable refinement of p (see Refine).
func (R *Refiner) Refine(p *Partition) *Partition {
	for {
		next := refinePass(R.M, R.base, p)
		if next == nil {
			return p
		}
		p = next
	}
}

type nodeSig struct {
	node int
	key  []int64
}

// baseSignatures returns, per node: label, out arc count, sorted out edge labels, in arc count, sorted in edge labels.
func baseSignatures(M *graph.Matrix) [][]int64 {
	Nv := M.N
	base := make([][]int64, Nv)
	for v := 0; v < Nv; v++ {
		var outLabels, inLabels []int64
		for u := 0; u < Nv; u++ {
			if label, has := M.At(v, u); has {
				outLabels = append(outLabels, int64(label))
			}
			if M.Directed {
				if label, has := M.At(u, v); has {
					inLabels = append(inLabels, int64(label))
				}
			}
		}
		slices.Sort(outLabels)
		slices.Sort(inLabels)

		key := make([]int64, 0, 3+len(outLabels)+len(inLabels))
		key = append(key, int64(M.Labels[v]), int64(len(outLabels)))
		key = append(key, outLabels...)
		key = append(key, int64(len(inLabels)))
		key = append(key, inLabels...)
		base[v] = key
	}
	return base
}

// refinePass splits every cell of p once against the cells of p, returning nil if nothing split.
func refinePass(M *graph.Matrix, base [][]int64, p *Partition) *Partition {
	k := p.Len()
	split := false
	cells := make([][]int, 0, k)

	for _, cell := range p.cells {
		if len(cell) == 1 {
			cells = append(cells, cell)
			continue
		}

		sigs := make([]nodeSig, len(cell))
		for i, v := range cell {
			key := make([]int64, 0, len(base[v])+2*k)
			key = append(key, base[v]...)
			key = append(key, make([]int64, k)...)
			outCounts := key[len(base[v]):]
			var inCounts []int64
			if M.Directed {
				key = append(key, make([]int64, k)...)
				outCounts = key[len(base[v]) : len(base[v])+k]
				inCounts = key[len(base[v])+k:]
			}
			for u := 0; u < M.N; u++ {
				if M.Has(v, u) {
					outCounts[p.cellOf[u]]++
				}
				if inCounts != nil && M.Has(u, v) {
					inCounts[p.cellOf[u]]++
				}
			}
			sigs[i] = nodeSig{node: v, key: key}
		}

		// cell is ascending so a stable sort keeps each sub-cell ascending
		sort.SliceStable(sigs, func(i, j int) bool {
			return slices.Compare(sigs[i].key, sigs[j].key) < 0
		})

		start := 0
		for i := 1; i <= len(sigs); i++ {
			if i == len(sigs) || slices.Compare(sigs[i].key, sigs[start].key) != 0 {
				sub := make([]int, 0, i-start)
				for _, s := range sigs[start:i] {
					sub = append(sub, s.node)
				}
				cells = append(cells, sub)
				start = i
			}
		}
		if len(cells) > 0 && len(cells[len(cells)-1]) != len(cell) {
			split = true
		}
	}

	if !split {
		return nil
	}

	next := &Partition{
		cells:  cells,
		cellOf: make([]int, len(p.cellOf)),
	}
	next.mustIndex()
	return next
}
