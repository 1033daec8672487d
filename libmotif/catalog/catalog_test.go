package catalog_test

import (
	"os"
	"path"
	"testing"

	"github.com/2x3systems/go2x3motif/libmotif/catalog"
	"github.com/2x3systems/go2x3motif/libmotif/census"
	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/pkg/errors"
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

func TestTryAdd(t *testing.T) {
	gT = t

	cat, err := catalog.Open(motif.CatalogOpts{})
	require.NoError(t, err)
	defer cat.Close()

	for _, Xstr := range []string{"1-2-3", "1-2-3-1", "1>2>3", "1:1-2"} {
		X := newGraph(Xstr)
		require.True(t, cat.TryAdd(X), Xstr)
		require.False(t, cat.TryAdd(X), Xstr)
		X.Reclaim()
	}

	// isomorphic to an added graph
	X := newGraph("2-1-3")
	require.False(t, cat.TryAdd(X))
	rec, found, err := cat.Get(X)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 0, rec.Count)
	require.EqualValues(t, 3, rec.NumNodes)
	require.EqualValues(t, 2, rec.NumEdges)
	X.Reclaim()

	require.EqualValues(t, 4, cat.NumMotifs())
}

func TestMerge(t *testing.T) {
	gT = t

	dir, err := os.MkdirTemp("", "motifs*")
	if err != nil {
		gT.Fatal(err)
	}
	defer os.RemoveAll(dir)

	opts := motif.CatalogOpts{
		DbPathName: path.Join(dir, "TestMerge"),
	}
	cat, err := catalog.Open(opts)
	require.NoError(t, err)

	for _, Xstr := range []string{"1-2-3-1,3-4", "1-2-3-4-1,4-5"} {
		X := newGraph(Xstr)
		classes, err := census.Census(X, 3, motif.DefaultCensusOpts)
		require.NoError(t, err)
		require.NoError(t, cat.Merge(classes))
		classes.Reclaim()
		X.Reclaim()
	}

	// "1-2-3-1,3-4": triangle 6, path 8
	// "1-2-3-4-1,4-5": path {1,2,3}, {2,3,4}, {3,4,1}, {4,1,2}, {1,4,5}, {3,4,5}, 4 growth orders each
	require.EqualValues(t, 2, cat.NumMotifs())
	require.EqualValues(t, 2, cat.NumMerges())

	path3 := newGraph("1-2-3")
	defer path3.Reclaim()
	rec, found, err := cat.Get(path3)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 8+24, rec.Count)
	require.EqualValues(t, 2, rec.Sources)

	var counts []int64
	err = cat.Select(func(rec *catalog.MotifRecord) bool {
		counts = append(counts, rec.Count)
		return true
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{6, 32}, counts)
	require.NoError(t, cat.Close())

	// reopen read-only: state and records persist
	opts.ReadOnly = true
	cat, err = catalog.Open(opts)
	require.NoError(t, err)
	defer cat.Close()
	require.EqualValues(t, 2, cat.NumMotifs())

	tri := newGraph("1-2-3-1")
	defer tri.Reclaim()
	rec, found, err = cat.Get(tri)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 6, rec.Count)
	require.EqualValues(t, 1, rec.Sources)
	require.Equal(t, "1-2,1-3,2-3", rec.Expr)

	// stops early
	visited := 0
	require.NoError(t, cat.Select(func(rec *catalog.MotifRecord) bool {
		visited++
		return false
	}))
	require.Equal(t, 1, visited)

	require.False(t, cat.TryAdd(tri))
	require.True(t, errors.Is(cat.Merge(nil), motif.ErrBadCatalogParam))
}

func TestMergeRaw(t *testing.T) {
	gT = t

	cat, err := catalog.Open(motif.CatalogOpts{})
	require.NoError(t, err)
	defer cat.Close()

	X := newGraph("1-2-3-1,3-4")
	defer X.Reclaim()
	raw, err := census.Enumerate(X, 3, motif.DefaultCensusOpts)
	require.NoError(t, err)
	defer raw.Reclaim()

	// two raw path entries land in one record, counted as one source
	require.NoError(t, cat.Merge(raw))
	path3 := newGraph("1-2-3")
	defer path3.Reclaim()
	rec, found, err := cat.Get(path3)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 8, rec.Count)
	require.EqualValues(t, 1, rec.Sources)
	require.EqualValues(t, 2, cat.NumMotifs())
	require.True(t, errors.Is(cat.Merge(nil), motif.ErrBadCatalogParam))

	_, found, err = cat.Get(newGraph("1-2"))
	require.NoError(t, err)
	require.False(t, found)
}

func TestBadParams(t *testing.T) {
	_, err := catalog.Open(motif.CatalogOpts{ReadOnly: true})
	require.True(t, errors.Is(err, motif.ErrBadCatalogParam))
}
