package graph

import (
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

// GraphExpr is a comma separated list of edge runs, such as "1-2-3,3-4" (undirected) or "1:7>2:8<[3]3" (directed, labeled).
type GraphExpr struct {
	Directed bool       `parser:"@\">\"?"`
	Runs     []*EdgeRun `parser:"(@@ (\",\" @@)*)?"`
}

type EdgeRun struct {
	StartVtx *Vtx       `parser:"@@"`
	Edges    []*EdgeDst `parser:"@@*"`
}

type EdgeDst struct {
	Kind   string  `parser:"@( \"-\" | \">\" | \"<\" )"`
	Label  *Number `parser:"( \"[\" @@ \"]\" )?"`
	EndVtx *Vtx    `parser:"@@"`
}

type Vtx struct {
	ID    int64   `parser:"@Int"`
	Label *Number `parser:"( \":\" @@ )?"`
}

type Number struct {
	Neg   bool  `parser:"@\"-\"?"`
	Value int64 `parser:"@Int"`
}

func (num *Number) label() motif.Label {
	if num == nil {
		return 0
	}
	if num.Neg {
		return motif.Label(-num.Value)
	}
	return motif.Label(num.Value)
}

var parseGraphExpr = participle.MustBuild[GraphExpr]()

type graphBuilder struct {
	directed bool
	maxID    int
	labels   map[int]motif.Label
}

func (Xb *graphBuilder) tallyVtx(vtx *Vtx) error {
	if vtx.ID < 1 || vtx.ID > MaxNodeID {
		return errors.Wrapf(motif.ErrBadNodeID, "node ID %d not in 1..%d", vtx.ID, MaxNodeID)
	}
	id := int(vtx.ID)
	if Xb.maxID < id {
		Xb.maxID = id
	}
	if vtx.Label != nil {
		label := vtx.Label.label()
		if prev, exists := Xb.labels[id]; exists && prev != label {
			return errors.Wrapf(motif.ErrLabelConflict, "node %d labeled %d and %d", id, prev, label)
		}
		Xb.labels[id] = label
	}
	return nil
}

// NewGraphFromString returns a new Graph built from the given graph expression.
func NewGraphFromString(graphExpr string) (*Graph, error) {
	X := NewGraph(false)
	if err := X.InitFromString(graphExpr); err != nil {
		X.Reclaim()
		return nil, err
	}
	return X, nil
}

// InitFromString resets X to the graph described by graphExpr.
//
// Node IDs are one-based.  Any ">" or "<" arc (or a leading ">") makes the graph directed, in which case "-" adds both arcs.
func (X *Graph) InitFromString(graphExpr string) error {
	Xexpr, err := parseGraphExpr.ParseString("", graphExpr)
	if err != nil {
		return errors.Wrap(motif.ErrBadGraphExpr, err.Error())
	}

	Xb := graphBuilder{
		directed: Xexpr.Directed,
		labels:   make(map[int]motif.Label),
	}
	for _, run := range Xexpr.Runs {
		if err = Xb.tallyVtx(run.StartVtx); err != nil {
			return err
		}
		for _, edge := range run.Edges {
			if err = Xb.tallyVtx(edge.EndVtx); err != nil {
				return err
			}
			if edge.Kind != "-" {
				Xb.directed = true
			}
		}
	}

	X.Init(Xb.directed)
	for id := 1; id <= Xb.maxID; id++ {
		X.AddNode(Xb.labels[id])
	}

	for _, run := range Xexpr.Runs {
		onVtx := run.StartVtx
		for _, edge := range run.Edges {
			a := int(onVtx.ID) - 1
			b := int(edge.EndVtx.ID) - 1
			label := edge.Label.label()

			switch {
			case edge.Kind == ">":
				err = X.AddEdge(a, b, label)
			case edge.Kind == "<":
				err = X.AddEdge(b, a, label)
			case Xb.directed:
				err = X.AddEdge(a, b, label)
				if err == nil {
					err = X.AddEdge(b, a, label)
				}
			default:
				err = X.AddEdge(a, b, label)
			}
			if err != nil {
				return err
			}
			onVtx = edge.EndVtx
		}
	}

	return nil
}
