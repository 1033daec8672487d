package partition

import (
	"sort"
	"strconv"
	"strings"

	"github.com/2x3systems/go2x3motif/motif"
	"github.com/pkg/errors"
)

// Partition is an ordered sequence of disjoint, non-empty cells covering nodes 0..n-1.
//
// Each cell is kept in ascending node order.  A Partition is never modified once returned;
// Refine and Individualize return new instances.
type Partition struct {
	cells  [][]int
	cellOf []int // node -> index of its cell
}

// Unit returns the partition with a single cell holding nodes 0..n-1 (or no cells if n == 0).
func Unit(n int) *Partition {
	p := &Partition{
		cellOf: make([]int, n),
	}
	if n > 0 {
		cell := make([]int, n)
		for i := range cell {
			cell[i] = i
		}
		p.cells = [][]int{cell}
	}
	return p
}

// FromCells returns a partition with the given cells (copied), or an error if they do not partition 0..n-1.
func FromCells(cells [][]int) (*Partition, error) {
	n := 0
	for _, cell := range cells {
		n += len(cell)
	}
	p := &Partition{
		cells:  make([][]int, len(cells)),
		cellOf: make([]int, n),
	}
	for ci, cell := range cells {
		c := append([]int(nil), cell...)
		sort.Ints(c)
		p.cells[ci] = c
	}
	if err := p.index(); err != nil {
		return nil, err
	}
	return p, nil
}

// index rebuilds cellOf and checks every node appears in exactly one non-empty cell.
func (p *Partition) index() error {
	n := len(p.cellOf)
	for i := range p.cellOf {
		p.cellOf[i] = -1
	}
	for ci, cell := range p.cells {
		if len(cell) == 0 {
			return errors.Wrapf(motif.ErrBrokenPartition, "cell %d is empty", ci)
		}
		for _, v := range cell {
			if v < 0 || v >= n {
				return errors.Wrapf(motif.ErrBrokenPartition, "node %d out of range", v)
			}
			if p.cellOf[v] >= 0 {
				return errors.Wrapf(motif.ErrBrokenPartition, "node %d in cells %d and %d", v, p.cellOf[v], ci)
			}
			p.cellOf[v] = ci
		}
	}
	for v, ci := range p.cellOf {
		if ci < 0 {
			return errors.Wrapf(motif.ErrBrokenPartition, "node %d in no cell", v)
		}
	}
	return nil
}

func (p *Partition) mustIndex() {
	if err := p.index(); err != nil {
		panic(err)
	}
}

// Validate checks that p partitions nodes 0..n-1.
func (p *Partition) Validate(n int) error {
	if len(p.cellOf) != n {
		return errors.Wrapf(motif.ErrBrokenPartition, "partition covers %d nodes, want %d", len(p.cellOf), n)
	}
	q := &Partition{
		cells:  p.cells,
		cellOf: make([]int, n),
	}
	return q.index()
}

// Len returns the number of cells.
func (p *Partition) Len() int {
	return len(p.cells)
}

// NumNodes returns the number of nodes partitioned.
func (p *Partition) NumNodes() int {
	return len(p.cellOf)
}

// Cell returns the nodes of cell ci in ascending order (read only).
func (p *Partition) Cell(ci int) []int {
	return p.cells[ci]
}

// CellOf returns the index of the cell holding node v.
func (p *Partition) CellOf(v int) int {
	return p.cellOf[v]
}

// IsDiscrete returns true if every cell is a singleton.
func (p *Partition) IsDiscrete() bool {
	return len(p.cells) == len(p.cellOf)
}

// IsUnit returns true if p has exactly one cell.
func (p *Partition) IsUnit() bool {
	return len(p.cells) == 1
}

// FirstNonSingleton returns the index of the first cell with more than one node, or -1 if p is discrete.
func (p *Partition) FirstNonSingleton() int {
	for ci, cell := range p.cells {
		if len(cell) > 1 {
			return ci
		}
	}
	return -1
}

// Individualize returns a child of p where node v is split from cell ci into its own singleton cell, placed just ahead of the rest of ci.
func (p *Partition) Individualize(ci, v int) *Partition {
	cell := p.cells[ci]
	if len(cell) < 2 || p.cellOf[v] != ci {
		panic(errors.Wrapf(motif.ErrBrokenPartition, "cannot individualize node %d from cell %d", v, ci))
	}

	rest := make([]int, 0, len(cell)-1)
	for _, u := range cell {
		if u != v {
			rest = append(rest, u)
		}
	}

	child := &Partition{
		cells:  make([][]int, 0, len(p.cells)+1),
		cellOf: make([]int, len(p.cellOf)),
	}
	child.cells = append(child.cells, p.cells[:ci]...)
	child.cells = append(child.cells, []int{v}, rest)
	child.cells = append(child.cells, p.cells[ci+1:]...)
	child.mustIndex()
	return child
}

// Order returns the node order defined by a discrete partition: Order()[i] is the node in cell i.
func (p *Partition) Order() []int {
	if !p.IsDiscrete() {
		panic(errors.Wrap(motif.ErrBrokenPartition, "order of a non-discrete partition"))
	}
	order := make([]int, len(p.cells))
	for i, cell := range p.cells {
		order[i] = cell[0]
	}
	return order
}

// Equal returns true if p and q have identical cells in identical order.
func (p *Partition) Equal(q *Partition) bool {
	if len(p.cells) != len(q.cells) || len(p.cellOf) != len(q.cellOf) {
		return false
	}
	for ci, cell := range p.cells {
		other := q.cells[ci]
		if len(cell) != len(other) {
			return false
		}
		for i, v := range cell {
			if other[i] != v {
				return false
			}
		}
	}
	return true
}

// IsFinerThan returns true if every cell of p lies within a single cell of q.
func (p *Partition) IsFinerThan(q *Partition) bool {
	if len(p.cellOf) != len(q.cellOf) {
		return false
	}
	for _, cell := range p.cells {
		qc := q.cellOf[cell[0]]
		for _, v := range cell[1:] {
			if q.cellOf[v] != qc {
				return false
			}
		}
	}
	return true
}

// String returns the cells of p, e.g. "[0 2|1|3]".
func (p *Partition) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	for ci, cell := range p.cells {
		if ci > 0 {
			b.WriteByte('|')
		}
		for i, v := range cell {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(v))
		}
	}
	b.WriteByte(']')
	return b.String()
}
