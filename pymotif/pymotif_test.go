package pymotif_test

import (
	"testing"

	_ "github.com/2x3systems/go2x3motif/pymotif"
	"github.com/go-python/gpython/py"
	_ "github.com/go-python/gpython/stdlib"
	"github.com/stretchr/testify/require"
)

const testSrc = `
import _motif

X = _motif.NewGraph("1-2-3-1,3-4")
num_nodes = X.NumNodes()
num_edges = X.NumEdges()
order = X.CanonicalOrder()
same_form = X.CanonicalForm() == _motif.NewGraph("4-3-1-2-3").CanonicalForm()
iso = X.IsIsomorphic("2-3-4-2,4-1")
not_iso = X.IsIsomorphic("1-2-3-4-1")
mapping = _motif.NewGraph("1-2-3").Matches(X, True)
no_mapping = _motif.NewGraph("1-2-3-1").Matches("1-2-3-4")
loose = _motif.NewGraph("1-2-3").Matches("1-2-3-1", False)
strict = _motif.NewGraph("1-2-3").Matches("1-2-3-1", True)
census = X.Census(3)
total = 0
for expr, count in census:
    total += count
census2 = _motif.Census("1-2-3-4-1", 4)

cat = _motif.OpenCatalog("")
cat.AddCensus(X, 3)
cat.AddCensus("1-2-3-4-1,4-5", 3)
num_motifs = cat.NumMotifs()
records = cat.Select()
cat.Close()
`

func TestModule(t *testing.T) {
	ctx := py.NewContext(py.DefaultContextOpts())
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	code, err := py.Compile(testSrc, "<pymotif_test>", py.ExecMode, 0, true)
	require.NoError(t, err)
	module, err := py.RunCode(ctx, code, "<pymotif_test>", nil)
	if err != nil {
		py.TracebackDump(err)
		t.Fatal(err)
	}
	globals := module.Globals

	require.Equal(t, py.Int(4), globals["num_nodes"])
	require.Equal(t, py.Int(4), globals["num_edges"])
	require.Len(t, globals["order"], 4)
	require.Equal(t, py.True, globals["same_form"])
	require.Equal(t, py.True, globals["iso"])
	require.Equal(t, py.False, globals["not_iso"])
	require.Equal(t, py.Tuple{py.Int(1), py.Int(3), py.Int(4)}, globals["mapping"])
	require.Equal(t, py.None, globals["no_mapping"])
	require.Len(t, globals["loose"], 3)
	require.Equal(t, py.None, globals["strict"])
	require.Len(t, globals["census"], 2)
	require.Equal(t, py.Int(14), globals["total"])
	require.Equal(t, py.Tuple{py.Tuple{py.String("1-3,1-4,2-3,2-4"), py.Int(16)}}, globals["census2"])
	require.Equal(t, py.Int(2), globals["num_motifs"])
	require.Equal(t, py.Tuple{
		py.Tuple{py.String("1-3,2-3"), py.Int(32), py.Int(2)},
		py.Tuple{py.String("1-2,1-3,2-3"), py.Int(6), py.Int(1)},
	}, globals["records"])
}
