package group

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hupe1980/hexvec/interval"
	"github.com/hupe1980/hexvec/model"
)

// Store is a registry of named vectors with group links between their entries.
type Store[N cmp.Ordered, T model.Ranged] struct {
	vectors map[N]*interval.Store[Entry[N, T]]
}

// New creates an empty registry.
func New[N cmp.Ordered, T model.Ranged]() *Store[N, T] {
	return &Store[N, T]{
		vectors: make(map[N]*interval.Store[Entry[N, T]]),
	}
}

func noSuchVector[N cmp.Ordered](name N) error {
	return fmt.Errorf("%w: %v", model.ErrNoSuchVector, name)
}

func (s *Store[N, T]) vector(name N) (*interval.Store[Entry[N, T]], error) {
	v, ok := s.vectors[name]
	if !ok {
		return nil, noSuchVector(name)
	}
	return v, nil
}

// CreateVector adds an empty vector with the given capacity.
func (s *Store[N, T]) CreateVector(name N, capacity uint64) error {
	if _, ok := s.vectors[name]; ok {
		return fmt.Errorf("%w: %v", model.ErrDuplicateVector, name)
	}
	s.vectors[name] = interval.New[Entry[N, T]](capacity)
	return nil
}

// DestroyVector removes an empty vector and returns its capacity, so it can
// be recreated identically.
func (s *Store[N, T]) DestroyVector(name N) (uint64, error) {
	v, err := s.vector(name)
	if err != nil {
		return 0, err
	}
	if !v.IsEmpty() {
		return 0, fmt.Errorf("%w: %v holds %d entries", model.ErrVectorNotEmpty, name, v.Len())
	}
	delete(s.vectors, name)
	return v.MaxSize(), nil
}

// ForceDestroyVector removes a vector regardless of its content and returns it.
//
// Links held by members in other vectors are left untouched and keep pointing
// at the removed entries. GetGroup and RemoveGroup report such members as nil.
func (s *Store[N, T]) ForceDestroyVector(name N) (*interval.Store[Entry[N, T]], error) {
	v, err := s.vector(name)
	if err != nil {
		return nil, err
	}
	delete(s.vectors, name)
	return v, nil
}

// InsertGroup inserts every member and links them all to each other.
//
// The link set is computed from the members' own ranges before anything is
// inserted. If a vector is missing or any insert fails, the members already
// inserted by this call are removed again and the error is returned: either
// all members become one group or none is stored.
func (s *Store[N, T]) InsertGroup(members []Member[N, T]) error {
	links := make([]Link[N], len(members))
	for i, m := range members {
		links[i] = Link[N]{Vector: m.Vector, Index: m.Value.Range().Start}
	}

	for i, m := range members {
		v, err := s.vector(m.Vector)
		if err != nil {
			s.rollback(links[:i])
			return err
		}
		e := Entry[N, T]{Owner: m.Vector, Payload: m.Value, Links: slices.Clone(links)}
		if err := v.Insert(model.NewEntry(e, m.Value.Range())); err != nil {
			s.rollback(links[:i])
			return fmt.Errorf("vector %v: %w", m.Vector, err)
		}
	}
	return nil
}

// rollback removes members inserted earlier by the same InsertGroup call.
// They are known to exist, so a miss is corruption.
func (s *Store[N, T]) rollback(inserted []Link[N]) {
	for i := len(inserted) - 1; i >= 0; i-- {
		l := inserted[i]
		v, ok := s.vectors[l.Vector]
		if !ok {
			model.Corrupt("rollback: vector %v vanished", l.Vector)
		}
		if _, ok := v.RemoveExact(l.Index); !ok {
			model.Corrupt("rollback: member %s missing", l)
		}
	}
}

// InsertEntry inserts a single unlinked value.
func (s *Store[N, T]) InsertEntry(name N, value T) error {
	return s.InsertGroup([]Member[N, T]{{Vector: name, Value: value}})
}

// UnlinkEntry detaches the entry covering point from its group.
//
// The entry becomes a group of one, and every other former member has its
// link set rewritten to the remaining members. Members that no longer exist
// are skipped.
func (s *Store[N, T]) UnlinkEntry(name N, point uint64) error {
	v, err := s.vector(name)
	if err != nil {
		return err
	}
	e, ok := v.Get(point)
	if !ok {
		return fmt.Errorf("%w: %v at %d", model.ErrNoSuchEntry, name, point)
	}
	self := Link[N]{Vector: name, Index: e.Range.Start}
	rest := without(e.Payload.Links, self)

	p, _ := v.GetExactMut(self.Index)
	p.Links = []Link[N]{self}

	for _, l := range rest {
		ov, ok := s.vectors[l.Vector]
		if !ok {
			continue
		}
		if op, ok := ov.GetExactMut(l.Index); ok {
			op.Links = slices.Clone(rest)
		}
	}
	return nil
}

// GetEntry returns the entry covering point in the named vector.
func (s *Store[N, T]) GetEntry(name N, point uint64) (model.Entry[Entry[N, T]], bool) {
	v, ok := s.vectors[name]
	if !ok {
		return model.Entry[Entry[N, T]]{}, false
	}
	e, ok := v.Get(point)
	if !ok {
		return e, false
	}
	return detach(e), true
}

// GetEntryMut returns a pointer to the payload of the entry covering point.
// The link set must not be modified through it.
func (s *Store[N, T]) GetEntryMut(name N, point uint64) (*T, bool) {
	v, ok := s.vectors[name]
	if !ok {
		return nil, false
	}
	p, ok := v.GetMut(point)
	if !ok {
		return nil, false
	}
	return &p.Payload, true
}

// GetGroup returns every member of the group of the entry covering point,
// in link order. Members that no longer exist are nil.
func (s *Store[N, T]) GetGroup(name N, point uint64) ([]*model.Entry[Entry[N, T]], error) {
	links, err := s.links(name, point)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Entry[Entry[N, T]], len(links))
	for i, l := range links {
		v, ok := s.vectors[l.Vector]
		if !ok {
			continue
		}
		if e, ok := v.GetExact(l.Index); ok {
			e = detach(e)
			out[i] = &e
		}
	}
	return out, nil
}

// RemoveGroup removes every member of the group of the entry covering point
// and returns them in link order. Members that no longer exist are nil.
//
// Removing one member of a group always removes the whole group unless the
// member was unlinked first.
func (s *Store[N, T]) RemoveGroup(name N, point uint64) ([]*model.Entry[Entry[N, T]], error) {
	links, err := s.links(name, point)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Entry[Entry[N, T]], len(links))
	for i, l := range links {
		v, ok := s.vectors[l.Vector]
		if !ok {
			continue
		}
		if e, ok := v.RemoveExact(l.Index); ok {
			out[i] = &e
		}
	}
	return out, nil
}

// detach gives a read result its own copy of the link set.
func detach[N cmp.Ordered, T any](e model.Entry[Entry[N, T]]) model.Entry[Entry[N, T]] {
	e.Payload.Links = slices.Clone(e.Payload.Links)
	return e
}

func (s *Store[N, T]) links(name N, point uint64) ([]Link[N], error) {
	v, err := s.vector(name)
	if err != nil {
		return nil, err
	}
	e, ok := v.Get(point)
	if !ok {
		return nil, fmt.Errorf("%w: %v at %d", model.ErrNoSuchEntry, name, point)
	}
	return e.Payload.Links, nil
}

// IsLinked reports whether the entry covering point has other group members.
func (s *Store[N, T]) IsLinked(name N, point uint64) bool {
	e, ok := s.GetEntry(name, point)
	return ok && e.Payload.IsLinked()
}

// VectorCount returns the number of vectors.
func (s *Store[N, T]) VectorCount() int {
	return len(s.vectors)
}

// VectorExists reports whether a vector with the given name exists.
func (s *Store[N, T]) VectorExists(name N) bool {
	_, ok := s.vectors[name]
	return ok
}

// Vectors returns the vector names in ascending order.
func (s *Store[N, T]) Vectors() []N {
	names := make([]N, 0, len(s.vectors))
	for name := range s.vectors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LenVector returns the number of entries in the named vector, 0 if missing.
func (s *Store[N, T]) LenVector(name N) int {
	v, ok := s.vectors[name]
	if !ok {
		return 0
	}
	return v.Len()
}

// MaxSizeVector returns the capacity of the named vector.
func (s *Store[N, T]) MaxSizeVector(name N) (uint64, bool) {
	v, ok := s.vectors[name]
	if !ok {
		return 0, false
	}
	return v.MaxSize(), true
}

// Len returns the number of entries over all vectors.
func (s *Store[N, T]) Len() int {
	n := 0
	for _, v := range s.vectors {
		n += v.Len()
	}
	return n
}

// IsEmpty reports whether no vector holds any entry.
func (s *Store[N, T]) IsEmpty() bool {
	return s.Len() == 0
}
