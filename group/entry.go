package group

import (
	"cmp"
	"fmt"
	"slices"
)

// Link identifies a group member by vector name and head index.
type Link[N cmp.Ordered] struct {
	Vector N      `json:"vector"`
	Index  uint64 `json:"index"`
}

// String returns a string representation of the Link.
func (l Link[N]) String() string {
	return fmt.Sprintf("%v@%d", l.Vector, l.Index)
}

// Entry is the payload stored for every group member.
type Entry[N cmp.Ordered, T any] struct {
	Owner   N         `json:"owner"`
	Payload T         `json:"payload"`
	Links   []Link[N] `json:"links"`
}

// Self returns the link of this member given its head index.
func (e Entry[N, T]) Self(index uint64) Link[N] {
	return Link[N]{Vector: e.Owner, Index: index}
}

// IsLinked reports whether the member belongs to a group of more than one.
func (e Entry[N, T]) IsLinked() bool {
	return len(e.Links) > 1
}

// Member is one (vector, value) pair passed to InsertGroup.
type Member[N cmp.Ordered, T any] struct {
	Vector N
	Value  T
}

func without[N cmp.Ordered](links []Link[N], l Link[N]) []Link[N] {
	return slices.DeleteFunc(slices.Clone(links), func(x Link[N]) bool { return x == l })
}
