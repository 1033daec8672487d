package census

import (
	"strconv"
	"strings"

	"github.com/2x3systems/go2x3motif/libmotif/canon"
	"github.com/2x3systems/go2x3motif/libmotif/compact"
	"github.com/2x3systems/go2x3motif/libmotif/freq"
	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/plan-systems/klog"
	"github.com/soniakeys/bits"
)

// Enumerate returns the raw census of connected induced subgraphs of V with the given number of nodes (see Censor.Enumerate).
// V may be any GraphView; one that is not a *graph.Graph is copied first.
func Enumerate(V motif.GraphView, size int, opts motif.CensusOpts) (*freq.Table, error) {
	X, isCopy, err := graph.FromView(V)
	if err != nil {
		return nil, err
	}
	if isCopy {
		defer X.Reclaim()
	}
	opts.Size = size
	return NewCensor(opts).Enumerate(X)
}

// Census returns the compacted census of V: one entry per isomorphism class of connected induced subgraphs with size nodes.
func Census(V motif.GraphView, size int, opts motif.CensusOpts) (*freq.Table, error) {
	X, isCopy, err := graph.FromView(V)
	if err != nil {
		return nil, err
	}
	if isCopy {
		defer X.Reclaim()
	}
	opts.Size = size
	return NewCensor(opts).Census(X)
}

// Censor runs censuses with fixed options, sharing one canonical form cache across runs.
type Censor struct {
	Opts  motif.CensusOpts
	cache *canon.Cache
}

func NewCensor(opts motif.CensusOpts) *Censor {
	return &Censor{
		Opts:  opts,
		cache: canon.NewCache(opts.CacheLen()),
	}
}

// Cache returns the canonical form cache used by this Censor.
func (c *Censor) Cache() *canon.Cache {
	return c.cache
}

// Enumerate grows every connected node selection of size c.Opts.Size by neighbor closure and tallies the
// subgraph each selection induces in X.
//
// Growth starts from every node in turn.  Each step appends one frontier node, where the frontier is every
// node adjacent (in either direction) to a selected node and not itself selected, taken in ascending order.
// A node set is therefore counted once per growth order that reaches it.  With KeyBySubset, all growth orders
// of a node set tally into one entry keyed by that set; with KeyByGrowth, every growth order is its own entry.
func (c *Censor) Enumerate(X *graph.Graph) (*freq.Table, error) {
	if X == nil {
		return nil, motif.ErrNilGraph
	}
	Nv := X.NodeCount()
	if err := motif.CheckSize(c.Opts.Size, Nv); err != nil {
		return nil, err
	}

	raw := freq.NewTable()
	if Nv == 0 {
		return raw, nil
	}

	g := grower{
		X:     X,
		key:   c.Opts.Key,
		raw:   raw,
		inSel: bits.New(Nv),
		adj:   make([][]int, Nv),
		marks: make([]bits.Bits, c.Opts.Size),
	}
	for n := 0; n < Nv; n++ {
		g.adj[n] = X.Neighbors(n)
	}
	for i := range g.marks {
		g.marks[i] = bits.New(Nv)
	}

	if err := g.grow(c.Opts.Size); err != nil {
		raw.Reclaim()
		return nil, err
	}

	klog.V(2).Infof("census: %d nodes, size %d: %d growth orders, %d raw entries", Nv, c.Opts.Size, g.growths, raw.Len())
	return raw, nil
}

// Census enumerates X and compacts the raw table by isomorphism.
func (c *Censor) Census(X *graph.Graph) (*freq.Table, error) {
	raw, err := c.Enumerate(X)
	if err != nil {
		return nil, err
	}
	defer raw.Reclaim()

	classes := compact.Compact(raw, compact.Opts{
		Rep:          c.Opts.Rep,
		IgnoreLabels: c.Opts.IgnoreLabels,
		Exhaustive:   c.Opts.Exhaustive,
		Cache:        c.cache,
	})

	klog.V(2).Infof("census: %d raw entries (total %d) -> %d classes, cache hit rate %.2f",
		raw.Len(), raw.Total(), classes.Len(), c.cache.HitRate())
	return classes, nil
}

type grower struct {
	X        *graph.Graph
	key      motif.KeyMode
	raw      *freq.Table
	selected []int       // selection in growth order
	inSel    bits.Bits   // selection as a set
	adj      [][]int     // ascending neighbors, either direction
	marks    []bits.Bits // frontier scratch per depth
	growths  int64
	keyBuf   []byte
}

func (g *grower) grow(remaining int) error {
	if remaining == 0 {
		return g.tally()
	}

	for _, v := range g.frontier(remaining - 1) {
		g.selected = append(g.selected, v)
		g.inSel.SetBit(v, 1)
		if err := g.grow(remaining - 1); err != nil {
			return err
		}
		g.inSel.SetBit(v, 0)
		g.selected = g.selected[:len(g.selected)-1]
	}
	return nil
}

// frontier returns the unselected neighbors of the selection in ascending order, or every node if nothing is selected.
func (g *grower) frontier(depth int) []int {
	mark := g.marks[depth]
	if len(g.selected) == 0 {
		mark.SetAll()
		return mark.Slice()
	}

	mark.ClearAll()
	for _, s := range g.selected {
		for _, u := range g.adj[s] {
			mark.SetBit(u, 1)
		}
	}
	mark.AndNot(mark, g.inSel)
	return mark.Slice()
}

func (g *grower) tally() error {
	g.growths++

	sep := byte('>')
	nodes := g.selected
	if g.key == motif.KeyBySubset {
		sep = ','
		nodes = g.inSel.Slice()
	}

	g.keyBuf = g.keyBuf[:0]
	for i, n := range nodes {
		if i > 0 {
			g.keyBuf = append(g.keyBuf, sep)
		}
		g.keyBuf = strconv.AppendInt(g.keyBuf, int64(n+1), 10)
	}

	_, err := g.raw.Tally(string(g.keyBuf), 1, func() (*graph.Graph, []int, error) {
		nodes := append([]int(nil), nodes...)
		Y, err := g.X.Extract(nodes)
		return Y, nodes, err
	})
	return err
}

// FormatNodes returns the one-based node IDs of nodes, e.g. "{1 3 4}".
func FormatNodes(nodes []int) string {
	b := strings.Builder{}
	b.WriteByte('{')
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(n + 1))
	}
	b.WriteByte('}')
	return b.String()
}
