package catalog

import (
	"testing"

	"github.com/2x3systems/go2x3motif/libmotif/freq"
	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func entryFor(t *testing.T, Xstr string, count int64) *freq.Entry {
	X, err := graph.NewGraphFromString(Xstr)
	require.NoError(t, err)
	return &freq.Entry{
		Key:   Xstr,
		Graph: X,
		Count: count,
	}
}

func countRecords(t *testing.T, cat *Catalog) int64 {
	count := int64(0)
	require.NoError(t, cat.Select(func(rec *MotifRecord) bool {
		count++
		return true
	}))
	return count
}

// A merge that fails after committing part of its writes (as after ErrTxnTooBig) keeps the counters in step with the records.
func TestPartialMerge(t *testing.T) {
	cat, err := Open(motif.CatalogOpts{})
	require.NoError(t, err)
	defer cat.Close()

	tri := entryFor(t, "1-2-3-1", 6)
	path := entryFor(t, "1-2-3", 8)
	defer tri.Graph.Reclaim()
	defer path.Graph.Reclaim()

	m := cat.newMerger()
	require.NoError(t, m.mergeEntry(tri))
	require.NoError(t, m.commit())
	require.NoError(t, m.mergeEntry(path))

	writeErr := errors.New("write failed")
	require.Equal(t, writeErr, m.finish(writeErr))

	require.EqualValues(t, 1, cat.NumMotifs())
	require.EqualValues(t, 1, cat.NumMerges())
	require.Equal(t, cat.NumMotifs(), countRecords(t, cat))

	rec, found, err := cat.Get(tri.Graph)
	require.NoError(t, err)
	require.True(t, found)
	require.EqualValues(t, 6, rec.Count)

	_, found, err = cat.Get(path.Graph)
	require.NoError(t, err)
	require.False(t, found)

	// the state record was flushed with the partial counts
	cat.state = CatalogState{}
	require.NoError(t, cat.loadState())
	require.EqualValues(t, 1, cat.state.NumMotifs)
	require.EqualValues(t, 1, cat.state.NumMerges)

	// a merge that fails before committing anything leaves the counters alone
	m = cat.newMerger()
	require.NoError(t, m.mergeEntry(path))
	require.Equal(t, writeErr, m.finish(writeErr))
	require.EqualValues(t, 1, cat.NumMotifs())
	require.EqualValues(t, 1, cat.NumMerges())
	require.Equal(t, cat.NumMotifs(), countRecords(t, cat))

	// multiple commits within one merge count as one merge
	m = cat.newMerger()
	require.NoError(t, m.mergeAll([]*freq.Entry{path}))
	require.NoError(t, m.mergeEntry(tri))
	require.NoError(t, m.commit())
	require.NoError(t, m.finish(nil))
	require.EqualValues(t, 2, cat.NumMotifs())
	require.EqualValues(t, 2, cat.NumMerges())
	require.Equal(t, cat.NumMotifs(), countRecords(t, cat))
}
