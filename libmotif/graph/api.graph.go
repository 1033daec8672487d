package graph

import (
	"github.com/2x3systems/go2x3motif/motif"
	sg "github.com/soniakeys/graph"
)

const (
	// MaxNodeID is the largest one-based node ID accepted by a graph expression.
	MaxNodeID = 4096
)

// Half is a labeled half arc: the node an arc leads to (or comes from) and the arc's edge label.
type Half = sg.Half

// Matrix is a dense, immutable snapshot of a Graph used by the search algorithms.
//
// Cell (i, j) holds 0 if there is no arc i->j, otherwise (label << 1) | 1.
// For undirected graphs the matrix is symmetric.
type Matrix struct {
	N        int
	Directed bool
	Labels   []motif.Label
	OutDeg   []int
	InDeg    []int
	cells    []int64
}

// Code returns the raw cell code for i->j (0 denotes no arc).
func (M *Matrix) Code(i, j int) int64 {
	return M.cells[i*M.N+j]
}

// Has returns true if the arc i->j exists.
func (M *Matrix) Has(i, j int) bool {
	return M.cells[i*M.N+j] != 0
}

// At returns the edge label of i->j and if the arc exists.
func (M *Matrix) At(i, j int) (motif.Label, bool) {
	c := M.cells[i*M.N+j]
	if c == 0 {
		return 0, false
	}
	return motif.Label(c >> 1), true
}

// Degree returns the total number of arcs incident to n (for undirected graphs, its neighbor count).
func (M *Matrix) Degree(n int) int {
	if M.Directed {
		return M.OutDeg[n] + M.InDeg[n]
	}
	return M.OutDeg[n]
}

func arcCode(label sg.LI) int64 {
	return int64(label)<<1 | 1
}
