package match

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/2x3systems/go2x3motif/libmotif/canon"
	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/pkg/errors"
)

// Opts specifies how a pattern is matched against a target.
type Opts struct {
	Induced      bool         // if set, non-edges of the pattern must also be non-edges in the target
	IgnoreLabels bool         // if set, node and edge labels are not compared
	Cache        *canon.Cache // optional canonical form cache used to reject non-isomorphic pairs early
}

// Mapping is a partial injective mapping from pattern nodes to target nodes.
type Mapping struct {
	Fwd []int // Fwd[p] is the target node p maps to, or -1
	Rev []int // Rev[t] is the pattern node mapped to t, or -1
}

func newMapping(Np, Nt int) Mapping {
	m := Mapping{
		Fwd: make([]int, Np),
		Rev: make([]int, Nt),
	}
	for i := range m.Fwd {
		m.Fwd[i] = -1
	}
	for i := range m.Rev {
		m.Rev[i] = -1
	}
	return m
}

func (m *Mapping) assign(p, t int) {
	if m.Fwd[p] >= 0 || m.Rev[t] >= 0 {
		panic(errors.Wrapf(motif.ErrBrokenMapping, "assign %d->%d over %d->%d", p, t, p, m.Fwd[p]))
	}
	m.Fwd[p] = t
	m.Rev[t] = p
}

func (m *Mapping) unassign(p, t int) {
	if m.Fwd[p] != t || m.Rev[t] != p {
		panic(errors.Wrapf(motif.ErrBrokenMapping, "unassign %d->%d", p, t))
	}
	m.Fwd[p] = -1
	m.Rev[t] = -1
}

// String returns the mapping using one-based node IDs, e.g. "1->3 2->1".
func (m *Mapping) String() string {
	b := strings.Builder{}
	for p, t := range m.Fwd {
		if t < 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(p + 1))
		b.WriteString("->")
		b.WriteString(strconv.Itoa(t + 1))
	}
	return b.String()
}

// IsIsomorphic returns true if G and H are isomorphic, respecting node and edge labels.
func IsIsomorphic(G, H *graph.Graph) bool {
	return Isomorphic(G, H, Opts{})
}

// Isomorphic returns true if G and H have the same node count and G matches H as an induced subgraph.
func Isomorphic(G, H *graph.Graph, opts Opts) bool {
	if G.NodeCount() != H.NodeCount() {
		return false
	}
	opts.Induced = true
	return Matches(G, H, opts)
}

// Matches returns true if there is a mapping of pattern P into target T (see FirstMapping).
func Matches(P, T *graph.Graph, opts Opts) bool {
	_, found := FirstMapping(P, T, opts)
	return found
}

// FirstMapping searches for an injective mapping of the nodes of P into the nodes of T under which
// every edge of P is an edge of T with the same label (and, if opts.Induced, every non-edge of P is a non-edge of T).
//
// Pattern nodes are mapped in a fixed order (most links to already ordered nodes, then highest degree,
// then lowest index) and candidates are tried in ascending target index, so the mapping returned is deterministic.
func FirstMapping(P, T *graph.Graph, opts Opts) (*Mapping, bool) {
	if P == nil || T == nil {
		return nil, false
	}
	PM := P.Matrix()
	TM := T.Matrix()

	mt := matcher{
		P:     &PM,
		T:     &TM,
		opts:  opts,
		exact: opts.Induced && PM.N == TM.N,
	}
	if !mt.precheck() {
		return nil, false
	}
	if mt.exact && !mt.sameCanonicForm(P, T) {
		return nil, false
	}

	mt.order = searchOrder(mt.P)
	mt.m = newMapping(PM.N, TM.N)
	if !mt.extend(0) {
		return nil, false
	}
	return &mt.m, true
}

type matcher struct {
	P, T  *graph.Matrix
	opts  Opts
	exact bool // isomorphism: induced and equal node counts
	order []int
	m     Mapping
}

// precheck rejects pairs whose sizes, degree sequences, or label multisets rule out any mapping.
func (mt *matcher) precheck() bool {
	P, T := mt.P, mt.T
	if P.Directed != T.Directed || P.N > T.N {
		return false
	}

	Pe, Te := arcCount(P), arcCount(T)
	if Pe > Te || (mt.exact && Pe != Te) {
		return false
	}

	if !mt.degreesFit(P.OutDeg, T.OutDeg) {
		return false
	}
	if P.Directed && !mt.degreesFit(P.InDeg, T.InDeg) {
		return false
	}

	if !mt.opts.IgnoreLabels {
		counts := make(map[motif.Label]int, T.N)
		for _, label := range T.Labels {
			counts[label]++
		}
		for _, label := range P.Labels {
			counts[label]--
			if counts[label] < 0 {
				return false
			}
		}
		if mt.exact {
			for _, c := range counts {
				if c != 0 {
					return false
				}
			}
		}
	}
	return true
}

func arcCount(M *graph.Matrix) int {
	n := 0
	for _, d := range M.OutDeg {
		n += d
	}
	return n
}

// degreesFit checks the i-th largest pattern degree against the i-th largest target degree.
func (mt *matcher) degreesFit(Pdeg, Tdeg []int) bool {
	pd := append([]int(nil), Pdeg...)
	td := append([]int(nil), Tdeg...)
	sort.Sort(sort.Reverse(sort.IntSlice(pd)))
	sort.Sort(sort.Reverse(sort.IntSlice(td)))
	for i, d := range pd {
		if d > td[i] || (mt.exact && d != td[i]) {
			return false
		}
	}
	return true
}

// sameCanonicForm compares canonical forms; equal forms still go through the search.
func (mt *matcher) sameCanonicForm(P, T *graph.Graph) bool {
	if mt.opts.IgnoreLabels {
		Pf, Tf := P.LabelFree(), T.LabelFree()
		defer Pf.Reclaim()
		defer Tf.Reclaim()
		P, T = Pf, Tf
	}
	return bytes.Equal(mt.opts.Cache.Form(P), mt.opts.Cache.Form(T))
}

// searchOrder returns the order in which pattern nodes are mapped.
func searchOrder(P *graph.Matrix) []int {
	Nv := P.N
	placed := make([]bool, Nv)
	links := make([]int, Nv)
	order := make([]int, 0, Nv)

	for len(order) < Nv {
		best := -1
		for v := 0; v < Nv; v++ {
			if placed[v] {
				continue
			}
			if best < 0 || links[v] > links[best] || (links[v] == links[best] && P.Degree(v) > P.Degree(best)) {
				best = v
			}
		}
		placed[best] = true
		order = append(order, best)
		for u := 0; u < Nv; u++ {
			if P.Has(best, u) || P.Has(u, best) {
				links[u]++
			}
		}
	}
	return order
}

func (mt *matcher) extend(depth int) bool {
	if depth == len(mt.order) {
		return true
	}

	p := mt.order[depth]
	for t := 0; t < mt.T.N; t++ {
		if mt.m.Rev[t] >= 0 || !mt.feasible(p, t, depth) {
			continue
		}
		mt.m.assign(p, t)
		if mt.extend(depth + 1) {
			return true
		}
		mt.m.unassign(p, t)
	}
	return false
}

// feasible returns true if p->t is consistent with every pair already mapped.
func (mt *matcher) feasible(p, t, depth int) bool {
	P, T := mt.P, mt.T

	if !mt.opts.IgnoreLabels && P.Labels[p] != T.Labels[t] {
		return false
	}
	if mt.exact {
		if P.OutDeg[p] != T.OutDeg[t] || P.InDeg[p] != T.InDeg[t] {
			return false
		}
	} else if P.OutDeg[p] > T.OutDeg[t] || P.InDeg[p] > T.InDeg[t] {
		return false
	}

	for _, q := range mt.order[:depth] {
		tq := mt.m.Fwd[q]
		if !mt.arcFits(P.Code(p, q), T.Code(t, tq)) || !mt.arcFits(P.Code(q, p), T.Code(tq, t)) {
			return false
		}
	}
	return true
}

func (mt *matcher) arcFits(pc, tc int64) bool {
	if mt.opts.IgnoreLabels {
		pc &= 1
		tc &= 1
	}
	if mt.opts.Induced {
		return pc == tc
	}
	return pc == 0 || pc == tc
}
