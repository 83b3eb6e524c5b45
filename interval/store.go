package interval

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/hexvec/model"
)

// node is the state of one occupied index.
// A head node carries the entry; a body node carries the index of its head.
type node[T any] struct {
	entry *model.Entry[T]
	head  uint64
}

func (n node[T]) isHead() bool { return n.entry != nil }

// Store is an interval index over [0, capacity).
type Store[T any] struct {
	capacity uint64
	slots    map[uint64]node[T]
	heads    *roaring64.Bitmap
}

// New creates an empty store. The capacity never changes.
func New[T any](capacity uint64) *Store[T] {
	return &Store[T]{
		capacity: capacity,
		slots:    make(map[uint64]node[T]),
		heads:    roaring64.New(),
	}
}

// MaxSize returns the capacity of the store.
func (s *Store[T]) MaxSize() uint64 {
	return s.capacity
}

// Len returns the number of entries (not the number of occupied indices).
func (s *Store[T]) Len() int {
	return int(s.heads.GetCardinality())
}

// IsEmpty reports whether the store holds no entry.
func (s *Store[T]) IsEmpty() bool {
	return s.heads.IsEmpty()
}

// Insert stores e. It fails without mutating anything if the range is empty,
// ends past the capacity, or collides with an existing entry.
func (s *Store[T]) Insert(e model.Entry[T]) error {
	if err := s.check(e.Range); err != nil {
		return err
	}
	s.place(e)
	return nil
}

// InsertAuto stores a payload at the range it reports for itself.
func InsertAuto[T model.Ranged](s *Store[T], v T) error {
	return s.Insert(model.EntryOf(v))
}

func (s *Store[T]) check(r model.Range) error {
	if r.IsEmpty() {
		return model.NewRangeError(model.ErrEmptyRange, r, s.capacity)
	}
	if r.End > s.capacity {
		return model.NewRangeError(model.ErrOutOfBounds, r, s.capacity)
	}
	if h, ok := s.resolve(r.Start); ok {
		return s.overlapError(r, h)
	}
	if h, ok := s.nextHead(r.Start); ok && h < r.End {
		return s.overlapError(r, h)
	}
	return nil
}

func (s *Store[T]) overlapError(r model.Range, head uint64) error {
	err := model.NewRangeError(model.ErrOverlap, r, s.capacity)
	err.Conflict = s.slots[head].entry.Range
	return err
}

func (s *Store[T]) place(e model.Entry[T]) {
	start := e.Range.Start
	s.slots[start] = node[T]{entry: &e, head: start}
	for i := start + 1; i < e.Range.End; i++ {
		s.slots[i] = node[T]{head: start}
	}
	s.heads.Add(start)
}

// resolve maps an occupied index to the index of its head.
func (s *Store[T]) resolve(point uint64) (uint64, bool) {
	n, ok := s.slots[point]
	if !ok {
		return 0, false
	}
	if n.isHead() {
		if n.entry.Range.Start != point {
			model.Corrupt("head at %d holds entry %s", point, n.entry.Range)
		}
		return point, true
	}
	h, ok := s.slots[n.head]
	if !ok || !h.isHead() {
		model.Corrupt("body at %d points at %d which is not a head", point, n.head)
	}
	if !h.entry.Range.Contains(point) {
		model.Corrupt("body at %d outside of its head entry %s", point, h.entry.Range)
	}
	return n.head, true
}

// nextHead returns the first head at or after from.
func (s *Store[T]) nextHead(from uint64) (uint64, bool) {
	it := s.heads.Iterator()
	it.AdvanceIfNeeded(from)
	if !it.HasNext() {
		return 0, false
	}
	return it.Next(), true
}

// Remove deletes the entry covering point and returns it.
func (s *Store[T]) Remove(point uint64) (model.Entry[T], bool) {
	h, ok := s.resolve(point)
	if !ok {
		return model.Entry[T]{}, false
	}
	return s.removeHead(h), true
}

// RemoveExact deletes the entry only if it starts at point.
func (s *Store[T]) RemoveExact(point uint64) (model.Entry[T], bool) {
	n, ok := s.slots[point]
	if !ok || !n.isHead() {
		return model.Entry[T]{}, false
	}
	return s.removeHead(point), true
}

func (s *Store[T]) removeHead(head uint64) model.Entry[T] {
	e := *s.slots[head].entry
	for i := e.Range.Start + 1; i < e.Range.End; i++ {
		n, ok := s.slots[i]
		if !ok || n.isHead() || n.head != head {
			model.Corrupt("index %d inside %s is not a body of %d", i, e.Range, head)
		}
		delete(s.slots, i)
	}
	delete(s.slots, head)
	s.heads.Remove(head)
	return e
}

// RemoveRange deletes every entry that intersects r, including entries that
// only partially overlap it. Entries are returned in ascending start order.
func (s *Store[T]) RemoveRange(r model.Range) []model.Entry[T] {
	if r.IsEmpty() {
		return nil
	}
	var heads []uint64
	if h, ok := s.resolve(r.Start); ok {
		heads = append(heads, h)
	}
	it := s.heads.Iterator()
	it.AdvanceIfNeeded(r.Start + 1)
	for it.HasNext() {
		h := it.Next()
		if h >= r.End {
			break
		}
		heads = append(heads, h)
	}

	removed := make([]model.Entry[T], 0, len(heads))
	for _, h := range heads {
		removed = append(removed, s.removeHead(h))
	}
	return removed
}

// Get returns the entry covering point.
func (s *Store[T]) Get(point uint64) (model.Entry[T], bool) {
	h, ok := s.resolve(point)
	if !ok {
		return model.Entry[T]{}, false
	}
	return *s.slots[h].entry, true
}

// GetMut returns a pointer to the payload of the entry covering point.
// The range of a stored entry cannot be changed in place.
func (s *Store[T]) GetMut(point uint64) (*T, bool) {
	h, ok := s.resolve(point)
	if !ok {
		return nil, false
	}
	return &s.slots[h].entry.Payload, true
}

// GetExact returns the entry only if it starts at point.
func (s *Store[T]) GetExact(point uint64) (model.Entry[T], bool) {
	n, ok := s.slots[point]
	if !ok || !n.isHead() {
		return model.Entry[T]{}, false
	}
	return *n.entry, true
}

// GetExactMut is GetMut restricted to entries starting at point.
func (s *Store[T]) GetExactMut(point uint64) (*T, bool) {
	n, ok := s.slots[point]
	if !ok || !n.isHead() {
		return nil, false
	}
	return &n.entry.Payload, true
}

// GetRange returns the entries found by scanning r in ascending start order.
//
// The scan starts at the entry covering r.Start, even if it begins earlier,
// and then walks from head to head. A later entry is part of the result if
// it starts before the last index of r, or if it ends inside r; an entry that
// only touches the last index of r and extends past it ends the scan.
//
// The result is therefore not monotonic in r: with a single entry at [6, 9),
// GetRange([6, 7)) returns it because it covers r.Start, while
// GetRange([5, 7)) and GetRange([0, 7)) return nothing.
func (s *Store[T]) GetRange(r model.Range) []model.Entry[T] {
	if r.IsEmpty() || r.Start >= s.capacity {
		return nil
	}
	end := min(r.End, s.capacity)

	var out []model.Entry[T]
	cursor := r.Start
	if h, ok := s.resolve(r.Start); ok {
		e := s.slots[h].entry
		out = append(out, *e)
		cursor = e.Range.End
	}

	it := s.heads.Iterator()
	it.AdvanceIfNeeded(cursor)
	for it.HasNext() {
		h := it.Next()
		if h >= end {
			break
		}
		e := s.slots[h].entry
		if h+1 >= end && e.Range.End > end {
			break
		}
		out = append(out, *e)
	}
	return out
}

// All iterates over every entry in ascending start order.
// The store must not be mutated during iteration.
func (s *Store[T]) All() iter.Seq[model.Entry[T]] {
	return func(yield func(model.Entry[T]) bool) {
		it := s.heads.Iterator()
		for it.HasNext() {
			if !yield(*s.slots[it.Next()].entry) {
				return
			}
		}
	}
}
