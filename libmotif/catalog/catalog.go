package catalog

import (
	"runtime"

	"github.com/2x3systems/go2x3motif/libmotif/canon"
	"github.com/2x3systems/go2x3motif/libmotif/freq"
	"github.com/2x3systems/go2x3motif/libmotif/graph"
	"github.com/2x3systems/go2x3motif/motif"
	"github.com/dgraph-io/badger/v3"
	proto "github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gCatalogStateKey                         => CatalogState
	kMotifPrefix, CanonicalForm ([]byte)     => MotifRecord
	...

Motif keys sort by canonical form, so Select visits motifs in the same order a canonical compaction emits them.

***/

const (
	kMotifPrefix = byte(0x01)

	kMajorVers = 2026
	kMinorVers = 1
)

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

// Catalog is a db of motif classes accumulated over one or more census tables.
type Catalog struct {
	opts       motif.CatalogOpts
	db         *badger.DB
	state      CatalogState
	stateDirty bool
	cache      *canon.Cache
}

// Open opens (or creates) the catalog at opts.DbPathName, or an in-memory catalog if no path is given.
func Open(opts motif.CatalogOpts) (*Catalog, error) {
	cat := &Catalog{
		opts:  opts,
		cache: canon.NewCache(motif.DefaultCacheSize),
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(motif.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = !opts.ReadOnly
		cat.state.MajorVers = kMajorVers
		cat.state.MinorVers = kMinorVers
	}
	if err == nil && (cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers) {
		err = errors.Wrapf(motif.ErrBadCatalogParam, "catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
	}
	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *Catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return proto.Unmarshal(val, &cat.state)
		})
	})
}

func (cat *Catalog) flushState() error {
	if !cat.stateDirty {
		return nil
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		stateBuf, err := proto.Marshal(&cat.state)
		if err != nil {
			return err
		}
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

// Close flushes the catalog state and closes the db.
func (cat *Catalog) Close() error {
	var err error
	if cat.db != nil {
		err = cat.flushState()
		if closeErr := cat.db.Close(); err == nil {
			err = closeErr
		}
		cat.db = nil
	}
	return err
}

func (cat *Catalog) IsReadOnly() bool {
	return cat.opts.ReadOnly
}

// NumMotifs returns the number of motif classes in this catalog.
func (cat *Catalog) NumMotifs() int64 {
	return cat.state.NumMotifs
}

// NumMerges returns the number of tables merged into this catalog.
func (cat *Catalog) NumMerges() int64 {
	return cat.state.NumMerges
}

func formKey(form []byte) []byte {
	key := make([]byte, 0, 1+len(form))
	key = append(key, kMotifPrefix)
	return append(key, form...)
}

func readRecord(item *badger.Item, rec *MotifRecord) error {
	return item.Value(func(val []byte) error {
		return proto.Unmarshal(val, rec)
	})
}

// newRecord returns a record for the class of X with a zero count.
func (cat *Catalog) newRecord(X *graph.Graph) *MotifRecord {
	res := cat.cache.Label(X)
	rep, err := X.Permuted(res.Order)
	if err != nil {
		panic(err)
	}
	defer rep.Reclaim()

	return &MotifRecord{
		Form:     append([]byte(nil), res.Form...),
		Expr:     rep.String(),
		NumNodes: int32(X.NodeCount()),
		NumEdges: int32(X.EdgeCount()),
	}
}

// Get returns the record for the class of X, if present.
func (cat *Catalog) Get(X *graph.Graph) (*MotifRecord, bool, error) {
	rec := &MotifRecord{}
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(formKey(cat.cache.Form(X)))
		if err != nil {
			return err
		}
		return readRecord(item, rec)
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// TryAdd adds the class of X with a zero count if it is not already present.
//
// If true is returned, the class of X was not present and was added.
func (cat *Catalog) TryAdd(X *graph.Graph) bool {
	if cat.opts.ReadOnly {
		return false
	}

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	key := formKey(cat.cache.Form(X))
	_, err := txn.Get(key)
	if err == nil {
		return false
	}
	if err != badger.ErrKeyNotFound {
		panic(err)
	}

	val, err := proto.Marshal(cat.newRecord(X))
	if err == nil {
		err = txn.Set(key, val)
	}
	if err == nil {
		err = txn.Commit()
	}
	if err != nil {
		panic(err)
	}

	cat.state.NumMotifs++
	cat.stateDirty = true
	return true
}

// Merge adds the counts of every entry of tbl to the class of its graph.
//
// Entries of the same class add to one record and each record touched counts tbl as one more source.
// tbl need not be compacted.
func (cat *Catalog) Merge(tbl *freq.Table) error {
	if cat.opts.ReadOnly {
		return errors.Wrap(motif.ErrBadCatalogParam, "catalog is read-only")
	}
	if tbl == nil {
		return errors.Wrap(motif.ErrBadCatalogParam, "nil table")
	}

	m := cat.newMerger()
	err := m.mergeAll(tbl.Entries())
	if m.commits > 0 {
		klog.V(2).Infof("catalog: merged %d entries (total %d): %d classes touched, %d new", tbl.Len(), tbl.Total(), len(m.touched), m.newTotal)
	}
	return m.finish(err)
}

func (cat *Catalog) newMerger() *merger {
	return &merger{
		cat:     cat,
		touched: make(map[string]struct{}),
		txn:     cat.db.NewTransaction(true),
	}
}

func (m *merger) mergeAll(entries []*freq.Entry) error {
	for _, entry := range entries {
		err := m.mergeEntry(entry)
		if err == badger.ErrTxnTooBig {
			if err = m.commit(); err != nil {
				return err
			}
			err = m.mergeEntry(entry)
		}
		if err != nil {
			return err
		}
	}
	return m.commit()
}

// commit commits the pending writes, counts the records they added into the catalog state, and starts a new txn.
func (m *merger) commit() error {
	err := m.txn.Commit()
	m.txn = m.cat.db.NewTransaction(true)
	if err != nil {
		return err
	}
	m.cat.state.NumMotifs += m.added
	m.newTotal += m.added
	m.added = 0
	m.commits++
	m.cat.stateDirty = true
	return nil
}

// finish drops any uncommitted writes and flushes the catalog state.
// A merge that committed anything counts as a merge, even if it then failed.
func (m *merger) finish(err error) error {
	m.txn.Discard()
	if m.commits > 0 {
		m.cat.state.NumMerges++
		m.cat.stateDirty = true
	}
	if flushErr := m.cat.flushState(); err == nil {
		err = flushErr
	}
	return err
}

type merger struct {
	cat      *Catalog
	txn      *badger.Txn
	touched  map[string]struct{}
	added    int64 // new records in the pending txn
	newTotal int64 // new records committed
	commits  int
}

func (m *merger) mergeEntry(entry *freq.Entry) error {
	form := m.cat.cache.Form(entry.Graph)
	key := formKey(form)

	var rec *MotifRecord
	isNew := false
	item, err := m.txn.Get(key)
	switch err {
	case nil:
		rec = &MotifRecord{}
		if err = readRecord(item, rec); err != nil {
			return err
		}
	case badger.ErrKeyNotFound:
		rec = m.cat.newRecord(entry.Graph)
		isNew = true
	default:
		return err
	}

	_, seen := m.touched[string(form)]
	rec.Count += entry.Count
	if !seen {
		rec.Sources++
	}

	val, err := proto.Marshal(rec)
	if err != nil {
		return err
	}
	if err = m.txn.Set(key, val); err != nil {
		return err
	}

	// marked only once the write is staged (see the ErrTxnTooBig retry in Merge)
	if !seen {
		m.touched[string(form)] = struct{}{}
	}
	if isNew {
		m.added++
	}
	return nil
}

// Select calls onHit with every motif record in ascending canonical form order.
//
// Enumeration stops when there are no more records or if onHit() returns false.
func (cat *Catalog) Select(onHit func(rec *MotifRecord) bool) error {
	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   100,
		Prefix:         []byte{kMotifPrefix},
	})
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		rec := &MotifRecord{}
		if err := readRecord(it.Item(), rec); err != nil {
			return err
		}
		if !onHit(rec) {
			break
		}
	}
	return nil
}
