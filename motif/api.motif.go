package motif

var (
	LIB_VERSION = "v1.2026.1"
)

// Label is a node or edge label.  Edges with no explicit label carry label 0.
type Label int32

// GraphView is the read-only graph capability that census.Enumerate and census.Census accept.
// *graph.Graph implements it and graph.FromView copies any other view into a Graph.
//
// Node indices are stable 0..NodeCount()-1 for the lifetime of the view and a view must not be mutated while any search over it is in progress.
type GraphView interface {
	NodeCount() int
	IsDirected() bool
	NodeLabel(n int) Label

	// Neighbors returns the union of Successors and Predecessors in ascending order.
	Neighbors(n int) []int

	// Successors returns nodes m where n->m is an arc.  For undirected graphs this is the same as Neighbors.
	Successors(n int) []int

	// Predecessors returns nodes m where m->n is an arc.  For undirected graphs this is the same as Neighbors.
	Predecessors(n int) []int

	HasEdge(a, b int) bool
	EdgeLabel(a, b int) (Label, bool)
}

// FreqTable is the read side of a multiset counter keyed by string.
// freq.Table is asserted to implement it; callers use *freq.Table directly.
type FreqTable interface {
	Len() int               // number of distinct keys
	Total() int64           // sum of all counts
	Count(key string) int64 // count for key, 0 if absent
}

// KeyMode specifies how raw census entries are keyed before compaction.
type KeyMode int32

const (
	// KeyBySubset keys raw entries by the selected node set, so every growth order reaching the same set adds to one entry.
	KeyBySubset KeyMode = iota

	// KeyByGrowth keys raw entries by growth order, so every growth order is its own entry with count 1.
	KeyByGrowth
)

// RepPolicy specifies which graph represents an isomorphism class after compaction.
type RepPolicy int32

const (
	// RepCanonical represents each class by its member relabeled into canonical order and emits classes in ascending canonical form.
	RepCanonical RepPolicy = iota

	// RepFirstSeen represents each class by the first raw entry seen and emits classes in first-seen order.
	RepFirstSeen
)

// CensusOpts specifies params for a motif census run.
type CensusOpts struct {
	Size         int       `yaml:"size"`          // number of nodes per motif
	Key          KeyMode   `yaml:"key"`           // raw entry keying
	Rep          RepPolicy `yaml:"rep"`           // representative policy
	IgnoreLabels bool      `yaml:"ignore_labels"` // if set, classes are formed ignoring node and edge labels
	Exhaustive   bool      `yaml:"exhaustive"`    // if set, compaction matches against every class rather than canonical-form candidates
	CacheSize    int       `yaml:"cache_size"`    // canonical form LRU size (0 denotes DefaultCacheSize)
}

const DefaultCacheSize = 512

// DefaultCensusOpts{}
var DefaultCensusOpts = CensusOpts{
	Size:      3,
	Key:       KeyBySubset,
	Rep:       RepCanonical,
	CacheSize: DefaultCacheSize,
}

// CatalogOpts specifies params for opening a motif Catalog
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
}

// PrintOpts specifies what is printing when printing a graph
type PrintOpts struct {
	Label  string // Prefix label
	Graph  bool   // If set, prints graph construction expr
	Matrix bool   // if set, prints matrix representation of graph
	Labels bool   // if set, prints the node label vector
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Graph: true,
}
