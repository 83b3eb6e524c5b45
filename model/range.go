package model

import "fmt"

// Range is a half-open interval [Start, End) of indices.
// A valid Range is never empty: Start < End.
type Range struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// NewRange returns the range [start, end).
func NewRange(start, end uint64) Range {
	return Range{Start: start, End: end}
}

// Span returns the range [start, start+length).
func Span(start, length uint64) Range {
	return Range{Start: start, End: start + length}
}

// Len returns the number of indices covered by r.
func (r Range) Len() uint64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// IsEmpty reports whether r covers no index.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Contains reports whether i lies inside r.
func (r Range) Contains(i uint64) bool {
	return i >= r.Start && i < r.End
}

// Overlaps reports whether r and other share at least one index.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// String returns a string representation of the Range.
func (r Range) String() string {
	return fmt.Sprintf("[%d..%d)", r.Start, r.End)
}

// Ranged is implemented by payloads that know which range they occupy.
// It is the only requirement the auto-insert paths place on a payload.
type Ranged interface {
	Range() Range
}
