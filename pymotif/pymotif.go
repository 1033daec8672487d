package pymotif

import (
	"encoding/hex"
	"strings"

	"github.com/2x3systems/go2x3motif/libmotif/canon"
	"github.com/2x3systems/go2x3motif/libmotif/catalog"
	"github.com/2x3systems/go2x3motif/libmotif/census"
	"github.com/2x3systems/go2x3motif/libmotif/freq"
	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/2x3systems/go2x3motif/libmotif/match"
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/go-python/gpython/py"
)

var (
	pyGraphType   = py.NewType("Graph", "a labeled graph (directed or undirected)")
	pyCatalogType = py.NewType("Catalog", "a motif catalog accumulating census counts")
)

const (
	READ_ONLY = 0x01
)

type pyGraph struct {
	*graph.Graph
}

func (X pyGraph) Type() *py.Type {
	return pyGraphType
}

func (X pyGraph) M__str__() (py.Object, error) {
	writer := strings.Builder{}
	X.WriteAsString(&writer, motif.DefaultPrintOpts)
	return py.String(writer.String()), nil
}

func (X pyGraph) M__repr__() (py.Object, error) {
	return X.M__str__()
}

// getGraph returns the graph given by obj, either a Graph object or a graph expr string.
func getGraph(obj py.Object) (*graph.Graph, error) {
	switch arg := obj.(type) {
	case pyGraph:
		return arg.Graph, nil
	case py.String:
		X, err := graph.NewGraphFromString(string(arg))
		if err != nil {
			return nil, py.ExceptionNewf(py.ValueError, "%v", err)
		}
		return X, nil
	}
	return nil, py.ExceptionNewf(py.TypeError, "expected Graph object or str (got %v)", obj.Type().Name)
}

func getInt(obj py.Object) (int, error) {
	val, err := py.GetInt(obj)
	if err != nil {
		return 0, err
	}
	return int(val), nil
}

// Arg 1 (str): graph expr (optional)
func py_NewGraph(module py.Object, args py.Tuple) (py.Object, error) {
	var exprObj py.Object = py.String("")
	if len(args) > 0 {
		err := py.ParseTuple(args, "s", &exprObj)
		if err != nil {
			return nil, err
		}
	}
	X, err := getGraph(exprObj)
	if err != nil {
		return nil, err
	}
	return py.Object(pyGraph{X}), nil
}

func py_Graph_NumNodes(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return py.Object(py.Int(X.NodeCount())), nil
}

func py_Graph_NumEdges(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return py.Object(py.Int(X.EdgeCount())), nil
}

func py_Graph_CanonicalOrder(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	order := canon.Order(X.Graph)
	tuple := make(py.Tuple, len(order))
	for i, n := range order {
		tuple[i] = py.Int(n + 1)
	}
	return py.Object(tuple), nil
}

func py_Graph_CanonicalForm(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return py.String(hex.EncodeToString(canon.Form(X.Graph))), nil
}

func py_Graph_Canonized(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return py.Object(pyGraph{canon.Relabeled(X.Graph)}), nil
}

// Arg 1 (Graph or str): other graph
func py_Graph_IsIsomorphic(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "IsIsomorphic() takes 1 argument (%d given)", len(args))
	}
	Y, err := getGraph(args[0])
	if err != nil {
		return nil, err
	}
	return py.NewBool(match.IsIsomorphic(X.Graph, Y)), nil
}

// Arg 1 (Graph or str): target graph
// Arg 2 (bool): induced (optional)
func py_Graph_Matches(self py.Object, args py.Tuple) (py.Object, error) {
	P := self.(pyGraph)
	if len(args) < 1 || len(args) > 2 {
		return nil, py.ExceptionNewf(py.TypeError, "Matches() takes 1 or 2 arguments (%d given)", len(args))
	}
	T, err := getGraph(args[0])
	if err != nil {
		return nil, err
	}
	opts := match.Opts{}
	if len(args) > 1 {
		induced, err := py.MakeBool(args[1])
		if err != nil {
			return nil, err
		}
		opts.Induced = induced == py.True
	}

	mapping, found := match.FirstMapping(P.Graph, T, opts)
	if !found {
		return py.None, nil
	}
	tuple := make(py.Tuple, len(mapping.Fwd))
	for i, t := range mapping.Fwd {
		tuple[i] = py.Int(t + 1)
	}
	return py.Object(tuple), nil
}

// Arg 1 (int): motif size
func py_Graph_Census(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Census() takes 1 argument (%d given)", len(args))
	}
	size, err := getInt(args[0])
	if err != nil {
		return nil, err
	}
	return runCensus(X.Graph, size)
}

// Arg 1 (Graph or str): host graph
// Arg 2 (int): motif size
func py_Census(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 2 {
		return nil, py.ExceptionNewf(py.TypeError, "Census() takes 2 arguments (%d given)", len(args))
	}
	X, err := getGraph(args[0])
	if err != nil {
		return nil, err
	}
	size, err := getInt(args[1])
	if err != nil {
		return nil, err
	}
	return runCensus(X, size)
}

func runCensus(X *graph.Graph, size int) (py.Object, error) {
	classes, err := census.Census(X, size, motif.DefaultCensusOpts)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	defer classes.Reclaim()
	return exportTable(classes), nil
}

// exportTable returns a tuple of (expr, count) tuples.
func exportTable(tbl *freq.Table) py.Tuple {
	entries := tbl.Entries()
	tuple := make(py.Tuple, len(entries))
	for i, entry := range entries {
		tuple[i] = py.Tuple{
			py.String(entry.Graph.String()),
			py.Int(entry.Count),
		}
	}
	return tuple
}

type pyCatalog struct {
	*catalog.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

// Arg 1 (str): catalog pathname ("" for in-memory)
// Arg 2 (int): flags (optional)
func py_OpenCatalog(module py.Object, args py.Tuple) (py.Object, error) {
	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := motif.CatalogOpts{
		DbPathName: pathname,
		ReadOnly:   (flags & READ_ONLY) != 0,
	}
	cat, err := catalog.Open(opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Object(pyCatalog{cat}), nil
}

// Arg 1 (Graph or str): host graph
// Arg 2 (int): motif size
func py_Catalog_AddCensus(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "catalog is in read-only mode")
	}
	if len(args) != 2 {
		return nil, py.ExceptionNewf(py.TypeError, "AddCensus() takes 2 arguments (%d given)", len(args))
	}
	X, err := getGraph(args[0])
	if err != nil {
		return nil, err
	}
	size, err := getInt(args[1])
	if err != nil {
		return nil, err
	}

	classes, err := census.Census(X, size, motif.DefaultCensusOpts)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	defer classes.Reclaim()

	if err = cat.Merge(classes); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Int(classes.Len()), nil
}

func py_Catalog_NumMotifs(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	return py.Int(cat.NumMotifs()), nil
}

// Select returns a tuple of (expr, count, sources) tuples in canonical order.
func py_Catalog_Select(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	var records py.Tuple
	err := cat.Select(func(rec *catalog.MotifRecord) bool {
		records = append(records, py.Tuple{
			py.String(rec.Expr),
			py.Int(rec.Count),
			py.Int(rec.Sources),
		})
		return true
	})
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return records, nil
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if err := cat.Close(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.None, nil
}

func init() {

	/////////////////////////////////
	// Graph
	{
		pyGraphType.Dict["NumNodes"] = py.MustNewMethod("NumNodes", py_Graph_NumNodes, 0, "")
		pyGraphType.Dict["NumEdges"] = py.MustNewMethod("NumEdges", py_Graph_NumEdges, 0, "")
		pyGraphType.Dict["CanonicalOrder"] = py.MustNewMethod("CanonicalOrder", py_Graph_CanonicalOrder, 0, "returns this Graph's node IDs in canonical order")
		pyGraphType.Dict["CanonicalForm"] = py.MustNewMethod("CanonicalForm", py_Graph_CanonicalForm, 0, "returns this Graph's canonical form as a hex str")
		pyGraphType.Dict["Canonized"] = py.MustNewMethod("Canonized", py_Graph_Canonized, 0, "returns a copy of this Graph in canonical order")
		pyGraphType.Dict["IsIsomorphic"] = py.MustNewMethod("IsIsomorphic", py_Graph_IsIsomorphic, 0, "")
		pyGraphType.Dict["Matches"] = py.MustNewMethod("Matches", py_Graph_Matches, 0, "returns the first mapping of this Graph into the given Graph or None")
		pyGraphType.Dict["Census"] = py.MustNewMethod("Census", py_Graph_Census, 0, "returns (expr, count) for each motif class of the given size")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["AddCensus"] = py.MustNewMethod("AddCensus", py_Catalog_AddCensus, 0, "")
		pyCatalogType.Dict["NumMotifs"] = py.MustNewMethod("NumMotifs", py_Catalog_NumMotifs, 0, "")
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("NewGraph", py_NewGraph, 0, ""),
			py.MustNewMethod("Census", py_Census, 0, ""),
			py.MustNewMethod("OpenCatalog", py_OpenCatalog, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(motif.LIB_VERSION),
			"MAX_NODE_ID": py.Int(graph.MaxNodeID),
			"READ_ONLY":   py.Int(READ_ONLY),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_motif",
				Doc:  "graph canonicalization and motif census gpython module",
			},
			Methods: methods,
			Globals: globals,
		})
	}
}
