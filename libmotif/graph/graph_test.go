package graph_test

import (
	"strings"
	"testing"

	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var exprs = []string{
	"",
	"1",
	"1,2,3",
	"1-2",
	"1-2-3-1,3-4",
	"1:5-2:6-[2]3:5",
	"1>2>3>1",
	"1>2,2>1",
	"1-2>3",
	"1:-2>[-1]2:3",
	">1,2",
	"1-2-3-4-5-6-7-8-1,1-5,2-6",
}

func TestRoundTrip(t *testing.T) {
	for _, Xstr := range exprs {
		X, err := graph.NewGraphFromString(Xstr)
		require.NoError(t, err, Xstr)

		Y, err := graph.NewGraphFromString(X.String())
		require.NoError(t, err, "%q -> %q", Xstr, X.String())

		require.Equal(t, X.IsDirected(), Y.IsDirected(), Xstr)
		require.Equal(t, X.NodeCount(), Y.NodeCount(), Xstr)
		require.Equal(t, X.EdgeCount(), Y.EdgeCount(), Xstr)
		require.Equal(t, X.AppendEncoding(nil, nil), Y.AppendEncoding(nil, nil), Xstr)

		X.Reclaim()
		Y.Reclaim()
	}
}

func TestBasics(t *testing.T) {
	X, err := graph.NewGraphFromString("1-2-3-1,3-4")
	require.NoError(t, err)
	defer X.Reclaim()

	require.False(t, X.IsDirected())
	require.Equal(t, 4, X.NodeCount())
	require.Equal(t, 4, X.EdgeCount())
	require.Equal(t, []int{0, 1, 3}, X.Neighbors(2))
	require.Equal(t, X.Successors(2), X.Predecessors(2))
	require.Equal(t, 3, X.Degree(2))
	require.True(t, X.HasEdge(3, 2))
	require.False(t, X.HasEdge(0, 3))
	require.True(t, X.IsConnected())

	M := X.Matrix()
	require.True(t, M.Has(0, 1))
	require.True(t, M.Has(1, 0))
	require.False(t, M.Has(0, 3))
	require.Equal(t, 3, M.Degree(2))
}

func TestDirected(t *testing.T) {
	X, err := graph.NewGraphFromString("1:7>[4]2:8<3,3-1")
	require.NoError(t, err)
	defer X.Reclaim()

	require.True(t, X.IsDirected())
	require.Equal(t, 3, X.NodeCount())
	require.Equal(t, 4, X.EdgeCount()) // 1>2, 3>2, 3>1, 1>3
	require.Equal(t, motif.Label(7), X.NodeLabel(0))
	require.Equal(t, motif.Label(8), X.NodeLabel(1))

	label, has := X.EdgeLabel(0, 1)
	require.True(t, has)
	require.Equal(t, motif.Label(4), label)
	_, has = X.EdgeLabel(1, 0)
	require.False(t, has)

	require.Equal(t, []int{1, 2}, X.Successors(0))
	require.Equal(t, []int{2}, X.Predecessors(0))
	require.Equal(t, []int{0, 2}, X.Predecessors(1))
	require.Empty(t, X.Successors(1))
	require.Equal(t, []int{0, 2}, X.Neighbors(1))
	require.Equal(t, 2, X.InDegree(1))
	require.True(t, X.IsConnected())
}

func TestBadExprs(t *testing.T) {
	bad := map[string]error{
		"1-1":       motif.ErrSelfLoop,
		"1-2,2-1":   motif.ErrDupEdge,
		"1:3-2,1:4": motif.ErrLabelConflict,
		"0-1":       motif.ErrBadNodeID,
		"1-4097":    motif.ErrBadNodeID,
		"1--2":      motif.ErrBadGraphExpr,
		"a-b":       motif.ErrBadGraphExpr,
	}
	for Xstr, want := range bad {
		_, err := graph.NewGraphFromString(Xstr)
		require.Error(t, err, Xstr)
		require.True(t, errors.Is(err, want), "%q: got %v, want %v", Xstr, err, want)
	}
}

func TestExtract(t *testing.T) {
	X, err := graph.NewGraphFromString("1:1-[9]2:2-3:3-1,3-4:4")
	require.NoError(t, err)
	defer X.Reclaim()

	sub, err := X.Extract([]int{3, 2, 0})
	require.NoError(t, err)
	defer sub.Reclaim()

	require.Equal(t, 3, sub.NodeCount())
	require.Equal(t, 2, sub.EdgeCount()) // 4-3 and 3-1
	require.Equal(t, []motif.Label{4, 3, 1}, sub.Labels())
	require.True(t, sub.HasEdge(0, 1))
	require.True(t, sub.HasEdge(1, 2))
	require.False(t, sub.HasEdge(0, 2))
	require.True(t, sub.IsConnected())

	tri, err := X.Extract([]int{0, 1, 2})
	require.NoError(t, err)
	label, has := tri.EdgeLabel(1, 0)
	require.True(t, has)
	require.Equal(t, motif.Label(9), label)
	tri.Reclaim()

	split, err := X.Extract([]int{0, 3})
	require.NoError(t, err)
	require.False(t, split.IsConnected())
	split.Reclaim()

	_, err = X.Extract([]int{0, 0})
	require.True(t, errors.Is(err, motif.ErrBadNodeID))
	_, err = X.Extract([]int{4})
	require.True(t, errors.Is(err, motif.ErrBadNodeID))
}

func TestExtractDirected(t *testing.T) {
	X, err := graph.NewGraphFromString("1>2>3>4>1,2>4")
	require.NoError(t, err)
	defer X.Reclaim()

	sub, err := X.Extract([]int{1, 3, 0})
	require.NoError(t, err)
	defer sub.Reclaim()

	// arcs 2>4, 4>1, 1>2 survive as 0>1, 1>2, 2>0
	require.Equal(t, 3, sub.EdgeCount())
	require.Equal(t, []int{1}, sub.Successors(0))
	require.Equal(t, []int{2}, sub.Predecessors(0))
	require.Equal(t, []int{0}, sub.Predecessors(1))
	require.Equal(t, []int{1}, sub.Predecessors(2))
}

func TestPermutedAndLabelFree(t *testing.T) {
	X, err := graph.NewGraphFromString("1:1-[2]2:2-3:3")
	require.NoError(t, err)
	defer X.Reclaim()

	P, err := X.Permuted([]int{2, 1, 0})
	require.NoError(t, err)
	require.Equal(t, []motif.Label{3, 2, 1}, P.Labels())
	label, _ := P.EdgeLabel(1, 2)
	require.Equal(t, motif.Label(2), label)

	_, err = X.Permuted([]int{0, 1})
	require.Error(t, err)

	F := X.LabelFree()
	if diff := cmp.Diff([]motif.Label{0, 0, 0}, F.Labels()); diff != "" {
		t.Fatalf("labels not cleared (-want +got):\n%s", diff)
	}
	label, has := F.EdgeLabel(0, 1)
	require.True(t, has)
	require.Equal(t, motif.Label(0), label)

	// the source is untouched
	label, _ = X.EdgeLabel(0, 1)
	require.Equal(t, motif.Label(2), label)
}

func TestWriteAsString(t *testing.T) {
	X, err := graph.NewGraphFromString("1-2-3")
	require.NoError(t, err)
	defer X.Reclaim()

	b := strings.Builder{}
	X.WriteAsString(&b, motif.PrintOpts{
		Label:  "path",
		Graph:  true,
		Matrix: true,
		Labels: true,
	})
	str := b.String()
	require.Contains(t, str, `path "1-2-3"`)
	require.Contains(t, str, "labels=[0 0 0]")
	require.Contains(t, str, "     . 1 .\n")
}

// viewOnly hides every method of a Graph except those of motif.GraphView.
type viewOnly struct {
	motif.GraphView
}

func TestFromView(t *testing.T) {
	for _, Xstr := range exprs {
		X, err := graph.NewGraphFromString(Xstr)
		require.NoError(t, err, Xstr)

		same, isCopy, err := graph.FromView(X)
		require.NoError(t, err)
		require.False(t, isCopy)
		require.True(t, same == X)

		Y, isCopy, err := graph.FromView(viewOnly{X})
		require.NoError(t, err, Xstr)
		require.True(t, isCopy)
		require.Equal(t, X.String(), Y.String(), Xstr)
		require.Equal(t, X.EdgeCount(), Y.EdgeCount(), Xstr)
		require.Equal(t, X.AppendEncoding(nil, nil), Y.AppendEncoding(nil, nil), Xstr)

		Y.Reclaim()
		X.Reclaim()
	}

	Z, isCopy, err := graph.FromView(nil)
	require.NoError(t, err)
	require.False(t, isCopy)
	require.Nil(t, Z)
}
