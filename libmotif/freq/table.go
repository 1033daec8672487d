package freq

import (
	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Entry is one keyed count of a Table.
type Entry struct {
	Key   string       // identity of this entry within its table
	Graph *graph.Graph // graph counted by this entry (owned by the table)
	Count int64        // number of times this entry was tallied
	Nodes []int        // host graph nodes Graph was extracted from, in Graph's node order
}

// BuildFunc forms the graph (and its host nodes) for a new Table entry.
type BuildFunc func() (*graph.Graph, []int, error)

// Table is a multiset counter of graphs that remembers the order in which keys were first added.
type Table struct {
	entries *linkedhashmap.Map
	total   int64
}

var _ motif.FreqTable = (*Table)(nil)

func NewTable() *Table {
	return &Table{
		entries: linkedhashmap.New(),
	}
}

// Tally adds count to the entry for key.  If key is new, build is called to form the entry's graph.
func (T *Table) Tally(key string, count int64, build BuildFunc) (*Entry, error) {
	if val, found := T.entries.Get(key); found {
		entry := val.(*Entry)
		entry.Count += count
		T.total += count
		return entry, nil
	}

	X, nodes, err := build()
	if err != nil {
		return nil, err
	}
	entry := &Entry{
		Key:   key,
		Graph: X,
		Count: count,
		Nodes: nodes,
	}
	T.entries.Put(key, entry)
	T.total += count
	return entry, nil
}

// Add adds count to the entry for key, taking ownership of X if key is new.  If key is already present, X is reclaimed.
func (T *Table) Add(key string, X *graph.Graph, count int64) *Entry {
	entry, _ := T.Tally(key, count, func() (*graph.Graph, []int, error) {
		return X, nil, nil
	})
	if entry.Graph != X {
		X.Reclaim()
	}
	return entry
}

// Get returns the entry for key, or nil if not present.
func (T *Table) Get(key string) *Entry {
	if val, found := T.entries.Get(key); found {
		return val.(*Entry)
	}
	return nil
}

// Count returns the count of the entry for key, or 0 if not present.
func (T *Table) Count(key string) int64 {
	if entry := T.Get(key); entry != nil {
		return entry.Count
	}
	return 0
}

// Entries returns every entry in the order its key was first added.
func (T *Table) Entries() []*Entry {
	entries := make([]*Entry, 0, T.entries.Size())
	it := T.entries.Iterator()
	for it.Next() {
		entries = append(entries, it.Value().(*Entry))
	}
	return entries
}

// Len returns the number of distinct keys.
func (T *Table) Len() int {
	return T.entries.Size()
}

// Total returns the sum of all counts.
func (T *Table) Total() int64 {
	return T.total
}

// Reclaim releases every entry graph and empties the table.
func (T *Table) Reclaim() {
	if T == nil {
		return
	}
	it := T.entries.Iterator()
	for it.Next() {
		entry := it.Value().(*Entry)
		if entry.Graph != nil {
			entry.Graph.Reclaim()
			entry.Graph = nil
		}
	}
	T.entries.Clear()
	T.total = 0
}
