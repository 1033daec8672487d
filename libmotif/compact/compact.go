package compact

import (
	"encoding/hex"
	"strconv"

	"github.com/2x3systems/go2x3motif/libmotif/canon"
	"github.com/2x3systems/go2x3motif/libmotif/freq"
	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/2x3systems/go2x3motif/libmotif/match"
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/emirpasic/gods/trees/redblacktree"
)

// Opts specifies how a raw table is compacted.
type Opts struct {
	Rep          motif.RepPolicy
	IgnoreLabels bool         // if set, classes are formed ignoring node and edge labels
	Exhaustive   bool         // if set, every entry is matched against every class
	Cache        *canon.Cache // optional canonical form cache
}

type class struct {
	member *graph.Graph // copy of the first raw graph seen in this class
	nodes  []int        // host nodes of member
	form   string       // canonical form of member (label-free if IgnoreLabels)
	count  int64
}

type compactor struct {
	opts    Opts
	classes []*class           // first-seen order
	index   *redblacktree.Tree // canonical form => []*class
}

// Compact merges the entries of raw into one entry per isomorphism class, summing their counts.
//
// Raw entries are visited in stored order and each is matched (as an induced subgraph of equal size) against
// the classes formed so far.  Unless opts.Exhaustive is set, only classes with an equal canonical form are tried.
// Every raw count lands in exactly one class, so the totals of raw and the returned table are equal.
//
// With RepCanonical, each class is represented by its member relabeled into canonical order and classes are
// returned in ascending canonical form, so the result does not depend on how the host graph was numbered.
// With RepFirstSeen, each class is represented by the first raw graph seen and classes are returned in the order
// they were first seen.  Either way, entry keys are the hex canonical form of the class.
//
// raw is not modified and the returned table owns its own graphs.
func Compact(raw *freq.Table, opts Opts) *freq.Table {
	c := compactor{
		opts:  opts,
		index: redblacktree.NewWithStringComparator(),
	}
	for _, entry := range raw.Entries() {
		c.add(entry)
	}
	defer c.reclaim()

	out := freq.NewTable()
	switch opts.Rep {
	case motif.RepFirstSeen:
		for _, cl := range c.classes {
			c.emit(out, cl)
		}
	default:
		it := c.index.Iterator()
		for it.Next() {
			for _, cl := range it.Value().([]*class) {
				c.emit(out, cl)
			}
		}
	}
	return out
}

func (c *compactor) formOf(X *graph.Graph) string {
	if c.opts.IgnoreLabels {
		Y := X.LabelFree()
		defer Y.Reclaim()
		X = Y
	}
	return string(c.opts.Cache.Form(X))
}

func (c *compactor) add(entry *freq.Entry) {
	form := c.formOf(entry.Graph)

	candidates := c.classes
	matchOpts := match.Opts{
		IgnoreLabels: c.opts.IgnoreLabels,
	}
	if !c.opts.Exhaustive {
		candidates = nil
		if val, found := c.index.Get(form); found {
			candidates = val.([]*class)
		}
		matchOpts.Cache = c.opts.Cache
	}

	for _, cl := range candidates {
		if match.Isomorphic(cl.member, entry.Graph, matchOpts) {
			cl.count += entry.Count
			return
		}
	}

	cl := &class{
		member: entry.Graph.Copy(),
		nodes:  entry.Nodes,
		form:   form,
		count:  entry.Count,
	}
	c.classes = append(c.classes, cl)

	var same []*class
	if val, found := c.index.Get(form); found {
		same = val.([]*class)
	}
	c.index.Put(form, append(same, cl))
}

func (c *compactor) emit(out *freq.Table, cl *class) {
	key := hex.EncodeToString([]byte(cl.form))
	for i := 1; out.Get(key) != nil; i++ {
		key = hex.EncodeToString([]byte(cl.form)) + "#" + strconv.Itoa(i)
	}

	_, err := out.Tally(key, cl.count, func() (*graph.Graph, []int, error) {
		if c.opts.Rep == motif.RepFirstSeen {
			return cl.member.Copy(), cl.nodes, nil
		}
		return c.canonicRep(cl)
	})
	if err != nil {
		panic(err)
	}
}

// canonicRep returns the class member relabeled into canonical order along with its host nodes in that order.
func (c *compactor) canonicRep(cl *class) (*graph.Graph, []int, error) {
	X := cl.member
	if c.opts.IgnoreLabels {
		X = X.LabelFree()
		defer X.Reclaim()
	}
	order := c.opts.Cache.Label(X).Order

	rep, err := X.Permuted(order)
	if err != nil {
		return nil, nil, err
	}

	var nodes []int
	if cl.nodes != nil {
		nodes = make([]int, len(order))
		for i, n := range order {
			nodes[i] = cl.nodes[n]
		}
	}
	return rep, nodes, nil
}

func (c *compactor) reclaim() {
	for _, cl := range c.classes {
		cl.member.Reclaim()
		cl.member = nil
	}
	c.classes = nil
}
