package hexvec

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hupe1980/hexvec/group"
	"github.com/hupe1980/hexvec/interval"
	"github.com/hupe1980/hexvec/model"
	"github.com/hupe1980/hexvec/persistence"
)

type (
	// Range is a half-open index interval [Start, End).
	Range = model.Range
	// Ranged is implemented by payloads that know their own range.
	Ranged = model.Ranged
	// Entry is a payload together with the range it occupies.
	Entry[T any] = model.Entry[T]
	// Link identifies a group member by vector name and head index.
	Link[N cmp.Ordered] = group.Link[N]
	// Member is one (vector, value) pair passed to InsertGroup.
	Member[N cmp.Ordered, T any] = group.Member[N, T]
	// GroupEntry is what a vector stores per member: owner, payload and links.
	GroupEntry[N cmp.Ordered, T any] = group.Entry[N, T]
)

// DB is a registry of named interval vectors whose entries form linked
// groups. It is safe for concurrent use: writers are serialized and readers
// share a read lock. Read results are copies and stay valid after the call.
type DB[N cmp.Ordered, T model.Ranged] struct {
	mu    sync.RWMutex
	store *group.Store[N, T]
	opts  options

	logger  *Logger
	metrics MetricsCollector
}

// New creates an empty DB.
func New[N cmp.Ordered, T model.Ranged](optFns ...Option) *DB[N, T] {
	return newDB(group.New[N, T](), applyOptions(optFns))
}

func newDB[N cmp.Ordered, T model.Ranged](store *group.Store[N, T], opts options) *DB[N, T] {
	return &DB[N, T]{
		store:   store,
		opts:    opts,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
	}
}

// CreateVector adds an empty vector with the given capacity.
func (db *DB[N, T]) CreateVector(ctx context.Context, name N, capacity uint64) error {
	db.mu.Lock()
	err := db.store.CreateVector(name, capacity)
	db.mu.Unlock()

	db.logger.WithVector(name).LogVector(ctx, "create", capacity, err)
	return err
}

// DestroyVector removes an empty vector and returns its capacity.
func (db *DB[N, T]) DestroyVector(ctx context.Context, name N) (uint64, error) {
	db.mu.Lock()
	capacity, err := db.store.DestroyVector(name)
	db.mu.Unlock()

	db.logger.WithVector(name).LogVector(ctx, "destroy", capacity, err)
	return capacity, err
}

// ForceDestroyVector removes a vector regardless of its content and returns
// the detached store. Links from other vectors into it are left dangling.
func (db *DB[N, T]) ForceDestroyVector(ctx context.Context, name N) (*interval.Store[GroupEntry[N, T]], error) {
	db.mu.Lock()
	s, err := db.store.ForceDestroyVector(name)
	db.mu.Unlock()

	var capacity uint64
	if s != nil {
		capacity = s.MaxSize()
	}
	db.logger.WithVector(name).LogVector(ctx, "force_destroy", capacity, err)
	return s, err
}

// InsertGroup inserts all members as one linked group, or none of them.
func (db *DB[N, T]) InsertGroup(ctx context.Context, members []Member[N, T]) error {
	start := time.Now()

	db.mu.Lock()
	err := db.store.InsertGroup(members)
	db.mu.Unlock()

	db.metrics.RecordInsertGroup(len(members), time.Since(start), err)
	db.logger.LogInsertGroup(ctx, len(members), err)
	return err
}

// InsertEntry inserts a single unlinked value.
func (db *DB[N, T]) InsertEntry(ctx context.Context, name N, value T) error {
	return db.InsertGroup(ctx, []Member[N, T]{{Vector: name, Value: value}})
}

// UnlinkEntry detaches the entry covering point from its group.
func (db *DB[N, T]) UnlinkEntry(ctx context.Context, name N, point uint64) error {
	start := time.Now()

	db.mu.Lock()
	err := db.store.UnlinkEntry(name, point)
	db.mu.Unlock()

	db.metrics.RecordUnlink(time.Since(start), err)
	db.logger.WithVector(name).LogUnlink(ctx, point, err)
	return err
}

// RemoveGroup removes the whole group of the entry covering point and returns
// its members in link order. Members that no longer exist are nil.
func (db *DB[N, T]) RemoveGroup(ctx context.Context, name N, point uint64) ([]*Entry[GroupEntry[N, T]], error) {
	start := time.Now()

	db.mu.Lock()
	removed, err := db.store.RemoveGroup(name, point)
	db.mu.Unlock()

	n := countPresent(removed)
	db.metrics.RecordRemoveGroup(n, time.Since(start), err)
	db.logger.WithVector(name).LogRemoveGroup(ctx, point, n, err)
	return removed, err
}

func countPresent[E any](entries []*E) int {
	n := 0
	for _, e := range entries {
		if e != nil {
			n++
		}
	}
	return n
}

// GetEntry returns the entry covering point in the named vector.
func (db *DB[N, T]) GetEntry(name N, point uint64) (Entry[GroupEntry[N, T]], bool) {
	start := time.Now()

	db.mu.RLock()
	e, ok := db.store.GetEntry(name, point)
	db.mu.RUnlock()

	db.metrics.RecordLookup(time.Since(start), ok)
	return e, ok
}

// UpdateEntry calls fn with a copy of the payload of the entry covering
// point and stores the result, all under the write lock. The update is
// rejected with ErrRangeChanged if fn changes the payload's range.
func (db *DB[N, T]) UpdateEntry(name N, point uint64, fn func(*T)) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.store.GetEntryMut(name, point)
	if !ok {
		return fmt.Errorf("%w: %v at %d", ErrNoSuchEntry, name, point)
	}
	v := *p
	fn(&v)
	if v.Range() != (*p).Range() {
		return fmt.Errorf("%w: %s became %s", ErrRangeChanged, (*p).Range(), v.Range())
	}
	*p = v
	return nil
}

// GetGroup returns every member of the group of the entry covering point.
func (db *DB[N, T]) GetGroup(name N, point uint64) ([]*Entry[GroupEntry[N, T]], error) {
	start := time.Now()

	db.mu.RLock()
	members, err := db.store.GetGroup(name, point)
	db.mu.RUnlock()

	db.metrics.RecordLookup(time.Since(start), err == nil)
	return members, err
}

// IsLinked reports whether the entry covering point has other group members.
func (db *DB[N, T]) IsLinked(name N, point uint64) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.store.IsLinked(name, point)
}

// VectorCount returns the number of vectors.
func (db *DB[N, T]) VectorCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.store.VectorCount()
}

// VectorExists reports whether a vector with this name exists.
func (db *DB[N, T]) VectorExists(name N) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.store.VectorExists(name)
}

// Vectors returns the vector names in ascending order.
func (db *DB[N, T]) Vectors() []N {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.store.Vectors()
}

// LenVector returns the number of entries in the named vector, 0 if missing.
func (db *DB[N, T]) LenVector(name N) int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.store.LenVector(name)
}

// MaxSizeVector returns the capacity of the named vector.
func (db *DB[N, T]) MaxSizeVector(name N) (uint64, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.store.MaxSizeVector(name)
}

// Len returns the number of entries across all vectors.
func (db *DB[N, T]) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.store.Len()
}

// IsEmpty reports whether no vector holds an entry.
func (db *DB[N, T]) IsEmpty() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.store.IsEmpty()
}

// Snapshot copies the whole registry into its plain-data form.
func (db *DB[N, T]) Snapshot() group.Snapshot[N, T] {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.store.Snapshot()
}

// SaveToWriter writes the whole registry to w as a single frame.
func (db *DB[N, T]) SaveToWriter(w io.Writer) error {
	_, err := persistence.Encode(w, db.Snapshot(), db.opts.frameOptions())
	return err
}

// LoadFromReader rebuilds a DB from a frame written by SaveToWriter.
func LoadFromReader[N cmp.Ordered, T model.Ranged](r io.Reader, optFns ...Option) (*DB[N, T], error) {
	snap, err := persistence.Decode[group.Snapshot[N, T]](r)
	if err != nil {
		return nil, err
	}
	store, err := group.Restore(snap)
	if err != nil {
		return nil, err
	}
	return newDB(store, applyOptions(optFns)), nil
}
