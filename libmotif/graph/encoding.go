package graph

import (
	"encoding/binary"
	"io"
	"sort"
	"strconv"

	"github.com/2x3systems/go2x3motif/motif"
)

// AppendEncoding appends the linear encoding of this graph relabeled by order (nil denotes the identity order).
//
// Layout: direction byte, node count (uvarint), node labels (varint), then the cell code of each
// ordered pair (i, j) as a varint -- every i != j for directed graphs, the upper triangle otherwise.
// The layout is prefix-free, so two encodings are equal iff the relabeled graphs are identical.
func (M *Matrix) AppendEncoding(buf []byte, order []int) []byte {
	Nv := M.N
	at := func(i int) int {
		if order == nil {
			return i
		}
		return order[i]
	}

	dir := byte(0)
	if M.Directed {
		dir = 1
	}
	buf = append(buf, dir)
	buf = binary.AppendUvarint(buf, uint64(Nv))
	for i := 0; i < Nv; i++ {
		buf = binary.AppendVarint(buf, int64(M.Labels[at(i)]))
	}
	for i := 0; i < Nv; i++ {
		ai := at(i)
		j := 0
		if !M.Directed {
			j = i + 1
		}
		for ; j < Nv; j++ {
			if i == j {
				continue
			}
			buf = binary.AppendVarint(buf, M.Code(ai, at(j)))
		}
	}
	return buf
}

// AppendEncoding appends the linear encoding of X relabeled by order (nil denotes the identity order).
func (X *Graph) AppendEncoding(buf []byte, order []int) []byte {
	M := X.Matrix()
	return M.AppendEncoding(buf, order)
}

type exprEdge struct {
	a, b  int
	arrow byte
	label motif.Label
}

// AppendExpr appends a graph expression that InitFromString reconstructs this graph from.
func (X *Graph) AppendExpr(buf []byte) []byte {
	Nv := len(X.labels)
	var edges []exprEdge

	for a := 0; a < Nv; a++ {
		for _, h := range X.out[a] {
			b := int(h.To)
			e := exprEdge{a: a, b: b, arrow: '-', label: motif.Label(h.Label)}
			if X.directed {
				back, hasBack := X.EdgeLabel(b, a)
				if hasBack && back == e.label {
					if b < a {
						continue // emitted from the other end
					}
				} else {
					e.arrow = '>'
				}
			} else if b < a {
				continue
			}
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].a != edges[j].a {
			return edges[i].a < edges[j].a
		}
		return edges[i].b < edges[j].b
	})

	// A directed graph with no one-way arcs is marked explicitly
	if X.directed {
		oneWay := false
		for _, e := range edges {
			oneWay = oneWay || e.arrow == '>'
		}
		if !oneWay {
			buf = append(buf, '>')
		}
	}

	named := make([]bool, Nv)
	appendNode := func(n int) {
		buf = strconv.AppendInt(buf, int64(n+1), 10)
		if !named[n] {
			named[n] = true
			if X.labels[n] != 0 {
				buf = append(buf, ':')
				buf = strconv.AppendInt(buf, int64(X.labels[n]), 10)
			}
		}
	}

	runEnd := -1
	for _, e := range edges {
		if e.a != runEnd {
			if runEnd >= 0 {
				buf = append(buf, ',')
			}
			appendNode(e.a)
		}
		buf = append(buf, e.arrow)
		if e.label != 0 {
			buf = append(buf, '[')
			buf = strconv.AppendInt(buf, int64(e.label), 10)
			buf = append(buf, ']')
		}
		appendNode(e.b)
		runEnd = e.b
	}

	// Isolated nodes each form their own run
	for n := 0; n < Nv; n++ {
		if !named[n] {
			if runEnd >= 0 || n > 0 {
				buf = append(buf, ',')
			}
			appendNode(n)
			runEnd = n
		}
	}
	return buf
}

// String returns the graph expression of X.
func (X *Graph) String() string {
	return string(X.AppendExpr(nil))
}

// WriteAsString writes X according to opts.
func (X *Graph) WriteAsString(out io.Writer, opts motif.PrintOpts) {
	var buf [128]byte

	line := buf[:0]
	if len(opts.Label) > 0 {
		line = append(line, opts.Label...)
		line = append(line, ' ')
	}
	if opts.Graph {
		line = append(line, '"')
		line = X.AppendExpr(line)
		line = append(line, '"')
	}
	if opts.Labels {
		line = append(line, "  labels=["...)
		for i, label := range X.labels {
			if i > 0 {
				line = append(line, ' ')
			}
			line = strconv.AppendInt(line, int64(label), 10)
		}
		line = append(line, ']')
	}
	line = append(line, '\n')
	out.Write(line)

	if opts.Matrix {
		M := X.Matrix()
		for i := 0; i < M.N; i++ {
			line = append(line[:0], "    "...)
			for j := 0; j < M.N; j++ {
				label, has := M.At(i, j)
				switch {
				case !has:
					line = append(line, " ."...)
				case label == 0:
					line = append(line, " 1"...)
				default:
					line = append(line, ' ')
					line = strconv.AppendInt(line, int64(label), 10)
				}
			}
			line = append(line, '\n')
			out.Write(line)
		}
	}
}
