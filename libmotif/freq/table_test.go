package freq_test

import (
	"testing"

	"github.com/2x3systems/go2x3motif/libmotif/freq"
	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	T := freq.NewTable()
	defer T.Reclaim()

	builds := 0
	build := func(expr string) freq.BuildFunc {
		return func() (*graph.Graph, []int, error) {
			builds++
			X, err := graph.NewGraphFromString(expr)
			return X, []int{0, 1}, err
		}
	}

	for _, key := range []string{"b", "a", "b", "c", "b"} {
		_, err := T.Tally(key, 1, build("1-2"))
		require.NoError(t, err)
	}
	require.Equal(t, 3, builds)
	require.Equal(t, 3, T.Len())
	require.EqualValues(t, 5, T.Total())
	require.EqualValues(t, 3, T.Count("b"))
	require.EqualValues(t, 0, T.Count("z"))
	require.Nil(t, T.Get("z"))

	var keys []string
	for _, entry := range T.Entries() {
		keys = append(keys, entry.Key)
		require.Equal(t, []int{0, 1}, entry.Nodes)
		require.Equal(t, 1, entry.Graph.EdgeCount())
	}
	require.Equal(t, []string{"b", "a", "c"}, keys)

	X, _ := graph.NewGraphFromString("1-2-3")
	entry := T.Add("a", X, 4)
	require.EqualValues(t, 5, entry.Count)
	require.EqualValues(t, 9, T.Total())

	boom := errors.New("boom")
	_, err := T.Tally("d", 1, func() (*graph.Graph, []int, error) {
		return nil, nil, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 3, T.Len())
	require.EqualValues(t, 9, T.Total())

	T.Reclaim()
	require.Equal(t, 0, T.Len())
	require.EqualValues(t, 0, T.Total())
}
