package interval

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/hexvec/model"
)

// Node is the serializable state of one occupied index.
//
// A head node has Entry set and Head equal to its own index. A body node has
// no Entry; Head is the index of the entry it belongs to.
type Node[T any] struct {
	Entry *model.Entry[T] `json:"entry,omitempty"`
	Head  uint64          `json:"head"`
}

// Snapshot is the plain-data form of a Store: the capacity plus a map from
// occupied index to node state. It holds no pointers into the live store.
type Snapshot[T any] struct {
	Capacity uint64             `json:"capacity"`
	Nodes    map[uint64]Node[T] `json:"nodes"`
}

// Snapshot copies the store into its plain-data form.
// Payloads are copied by value.
func (s *Store[T]) Snapshot() Snapshot[T] {
	nodes := make(map[uint64]Node[T], len(s.slots))
	for i, n := range s.slots {
		if n.isHead() {
			e := *n.entry
			nodes[i] = Node[T]{Entry: &e, Head: i}
			continue
		}
		nodes[i] = Node[T]{Head: n.head}
	}
	return Snapshot[T]{Capacity: s.capacity, Nodes: nodes}
}

// Restore rebuilds a Store from a snapshot.
// It returns model.ErrCorruptSnapshot if the snapshot violates any invariant.
func Restore[T any](snap Snapshot[T]) (*Store[T], error) {
	s := &Store[T]{
		capacity: snap.Capacity,
		slots:    make(map[uint64]node[T], len(snap.Nodes)),
		heads:    roaring64.New(),
	}
	for i, n := range snap.Nodes {
		if i >= snap.Capacity {
			return nil, fmt.Errorf("%w: index %d beyond capacity %d", model.ErrCorruptSnapshot, i, snap.Capacity)
		}
		if n.Entry != nil {
			e := *n.Entry
			s.slots[i] = node[T]{entry: &e, head: i}
			s.heads.Add(i)
			continue
		}
		s.slots[i] = node[T]{head: n.Head}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the head/body invariants of the whole store.
//
// Every head must anchor a non-empty in-bounds range whose other indices are
// all bodies pointing back at it, and every body must be covered by its head.
// Violations are reported as model.ErrCorruptSnapshot.
func (s *Store[T]) Validate() error {
	var covered uint64
	for i, n := range s.slots {
		if !n.isHead() {
			h, ok := s.slots[n.head]
			if !ok || !h.isHead() {
				return fmt.Errorf("%w: body %d points at %d which is not a head", model.ErrCorruptSnapshot, i, n.head)
			}
			if !h.entry.Range.Contains(i) {
				return fmt.Errorf("%w: body %d outside of %s", model.ErrCorruptSnapshot, i, h.entry.Range)
			}
			continue
		}
		r := n.entry.Range
		if r.Start != i {
			return fmt.Errorf("%w: head %d holds entry %s", model.ErrCorruptSnapshot, i, r)
		}
		if r.IsEmpty() || r.End > s.capacity {
			return fmt.Errorf("%w: head %d has invalid range %s", model.ErrCorruptSnapshot, i, r)
		}
		if n.head != i || !s.heads.Contains(i) {
			return fmt.Errorf("%w: head %d not indexed", model.ErrCorruptSnapshot, i)
		}
		covered += r.Len()
	}
	// Each index is one map key, so every head range being fully backed by
	// bodies is equivalent to the covered total matching the occupied count.
	if covered != uint64(len(s.slots)) {
		return fmt.Errorf("%w: %d indices occupied, entries cover %d", model.ErrCorruptSnapshot, len(s.slots), covered)
	}
	if s.heads.GetCardinality() != s.countHeads() {
		return fmt.Errorf("%w: head index out of sync", model.ErrCorruptSnapshot)
	}
	return nil
}

func (s *Store[T]) countHeads() uint64 {
	var n uint64
	for _, sl := range s.slots {
		if sl.isHead() {
			n++
		}
	}
	return n
}
