package canon_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/2x3systems/go2x3motif/libmotif/canon"
	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/stretchr/testify/require"
)

var gT *testing.T

func newGraph(Xstr string) *graph.Graph {
	X, err := graph.NewGraphFromString(Xstr)
	if err != nil {
		gT.Fatalf("%q: %v", Xstr, err)
	}
	return X
}

func permuted(X *graph.Graph, order []int) *graph.Graph {
	Y, err := X.Permuted(order)
	if err != nil {
		gT.Fatal(err)
	}
	return Y
}

// canonicAdjacency returns the identity encoding of X after applying its canonical order.
func canonicAdjacency(X *graph.Graph) []byte {
	Y := canon.Relabeled(X)
	defer Y.Reclaim()
	return Y.AppendEncoding(nil, nil)
}

// dihedral returns the 8 relabelings of a 4-cycle: 4 rotations x 2 reflections.
func dihedral() [][]int {
	var perms [][]int
	for k := 0; k < 4; k++ {
		rot := make([]int, 4)
		ref := make([]int, 4)
		for i := 0; i < 4; i++ {
			rot[i] = (i + k) % 4
			ref[i] = (k - i + 4) % 4
		}
		perms = append(perms, rot, ref)
	}
	return perms
}

func TestFourCycle(t *testing.T) {
	gT = t

	for _, Xstr := range []string{
		"1-2-3-4-1",
		"1:1-2:2-3:3-4:4-1",
		"1:1-2:1-[7]3:2-4:2-1",
		"1>2>3>4>1",
	} {
		X := newGraph(Xstr)
		want := canonicAdjacency(X)
		require.Equal(t, canon.Form(X), want, Xstr)

		for _, perm := range dihedral() {
			Y := permuted(X, perm)
			got := canonicAdjacency(Y)
			require.True(t, bytes.Equal(want, got), "%s relabeled by %v", Xstr, perm)
			Y.Reclaim()
		}
		X.Reclaim()
	}
}

func TestInvariance(t *testing.T) {
	gT = t
	rnd := rand.New(rand.NewSource(2026))

	for _, Xstr := range []string{
		"1-2-3-1,3-4",
		"1-2-3-4-5-1,1-6,2-7,3-8,4-9,5-10,6-8-10-7-9-6", // Petersen
		"1-2-3-4-5-6-1,1-4",
		"1:3>2:1>3:3>1,3>4:2,4-5:2,5>[2]1",
		"1-2,3-4,5-6",
		"1,2,3",
	} {
		X := newGraph(Xstr)
		want := canon.Form(X)
		for trial := 0; trial < 12; trial++ {
			Y := permuted(X, rnd.Perm(X.NodeCount()))
			require.Equal(t, want, canon.Form(Y), "%s trial %d", Xstr, trial)
			require.Equal(t, want, canonicAdjacency(Y))
			Y.Reclaim()
		}
		X.Reclaim()
	}
}

func TestDistinguishes(t *testing.T) {
	gT = t

	pairs := [][2]string{
		{"1-2-3-4", "1-2,1-3,1-4"},                 // path vs star
		{"1-2-3-4-5-6-1", "1-2-3-1,4-5-6-4"},       // hexagon vs two triangles
		{"1-2-3", "1:1-2-3"},                       // labels matter
		{"1-[1]2-3", "1-2-[1]3-4,4"},               // edge labels, node count
		{"1>2>3", "1>2<3"},                         // direction matters
		{"1-2-3-4-5-6-1,1-4", "1-2-3-4-5-6-1,1-3"}, // chord placement
	}
	for _, pair := range pairs {
		A := newGraph(pair[0])
		B := newGraph(pair[1])
		require.NotEqual(t, canon.Form(A), canon.Form(B), "%s vs %s", pair[0], pair[1])
		A.Reclaim()
		B.Reclaim()
	}
}

func TestOrder(t *testing.T) {
	gT = t

	empty := newGraph("")
	res := canon.Label(empty)
	require.Empty(t, res.Order)
	require.NotEmpty(t, res.Form)
	empty.Reclaim()

	// refinement alone is enough for a path with distinct ends
	X := newGraph("1:2-2-3-4:1")
	res = canon.Label(X)
	require.Equal(t, 1, res.Stats.Leaves)
	require.Equal(t, []int{1, 2, 3, 0}, res.Order)
	X.Reclaim()

	// a 4-cycle needs individualization
	C4 := newGraph("1-2-3-4-1")
	res = canon.Label(C4)
	require.Greater(t, res.Stats.Leaves, 1)
	seen := make(map[int]bool)
	for _, v := range res.Order {
		seen[v] = true
	}
	require.Len(t, seen, 4)
	C4.Reclaim()
}

func TestCache(t *testing.T) {
	gT = t

	c := canon.NewCache(8)
	X := newGraph("1-2-3-4-1,1-3")
	defer X.Reclaim()

	first := c.Label(X)
	second := c.Label(X)
	require.Same(t, first, second)
	require.Equal(t, 1, c.Len())
	require.InDelta(t, 0.5, c.HitRate(), 1e-9)
	require.Equal(t, canon.Form(X), c.Form(X))

	var none *canon.Cache
	require.Equal(t, canon.Form(X), none.Form(X))
	require.Equal(t, 0, none.Len())
}
