package group

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hupe1980/hexvec/interval"
	"github.com/hupe1980/hexvec/model"
)

// VectorSnapshot is the plain-data form of one named vector.
type VectorSnapshot[N cmp.Ordered, T any] struct {
	Name  N                              `json:"name"`
	Store interval.Snapshot[Entry[N, T]] `json:"store"`
}

// Snapshot is the plain-data form of a Store, vectors sorted by name.
type Snapshot[N cmp.Ordered, T any] struct {
	Vectors []VectorSnapshot[N, T] `json:"vectors"`
}

// Snapshot copies the registry into its plain-data form.
func (s *Store[N, T]) Snapshot() Snapshot[N, T] {
	names := s.Vectors()
	out := Snapshot[N, T]{Vectors: make([]VectorSnapshot[N, T], 0, len(names))}
	for _, name := range names {
		out.Vectors = append(out.Vectors, VectorSnapshot[N, T]{
			Name:  name,
			Store: s.vectors[name].Snapshot(),
		})
	}
	return out
}

// Restore rebuilds a Store from a snapshot.
//
// Each vector is validated on its own, and every member must name its own
// vector as owner, list itself in its link set and sit at the range its
// payload reports. Links to members that do
// not exist are accepted: they are the documented residue of ForceDestroyVector.
func Restore[N cmp.Ordered, T model.Ranged](snap Snapshot[N, T]) (*Store[N, T], error) {
	s := New[N, T]()
	for _, vs := range snap.Vectors {
		if _, ok := s.vectors[vs.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate vector %v", model.ErrCorruptSnapshot, vs.Name)
		}
		v, err := interval.Restore(vs.Store)
		if err != nil {
			return nil, fmt.Errorf("vector %v: %w", vs.Name, err)
		}
		for e := range v.All() {
			self := e.Payload.Self(e.Range.Start)
			if e.Payload.Owner != vs.Name || !slices.Contains(e.Payload.Links, self) {
				return nil, fmt.Errorf("%w: member %s has inconsistent links", model.ErrCorruptSnapshot, self)
			}
			if got := e.Payload.Payload.Range(); got != e.Range {
				return nil, fmt.Errorf("%w: member %s stored at %s reports range %s", model.ErrCorruptSnapshot, self, e.Range, got)
			}
		}
		s.vectors[vs.Name] = v
	}
	return s, nil
}
