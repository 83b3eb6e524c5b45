package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRange is returned when a range covers no index (Start >= End).
	ErrEmptyRange = errors.New("empty range")

	// ErrOutOfBounds is returned when a range ends past the capacity of a store.
	ErrOutOfBounds = errors.New("range out of bounds")

	// ErrOverlap is returned when a range collides with an existing entry.
	ErrOverlap = errors.New("range overlaps existing entry")

	// ErrNoSuchVector is returned when a named vector does not exist.
	ErrNoSuchVector = errors.New("no such vector")

	// ErrDuplicateVector is returned when creating a vector whose name is taken.
	ErrDuplicateVector = errors.New("duplicate vector")

	// ErrVectorNotEmpty is returned when destroying a vector that still holds entries.
	ErrVectorNotEmpty = errors.New("vector not empty")

	// ErrNoSuchEntry is returned when no entry covers the requested index.
	ErrNoSuchEntry = errors.New("no such entry")

	// ErrCorruptSnapshot is returned when a decoded snapshot violates a structural invariant.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrCorruptState signals a violated in-memory invariant.
	//
	// It is never returned. It is raised with panic, because it can only be
	// caused by a bug in this module.
	ErrCorruptState = errors.New("corrupt state")
)

// RangeError describes a rejected range.
//
// The sentinel (ErrEmptyRange, ErrOutOfBounds or ErrOverlap) can be matched with errors.Is.
type RangeError struct {
	Range    Range
	Capacity uint64
	// Conflict is the range of the colliding entry (Overlap only).
	Conflict Range
	cause    error
}

// NewRangeError creates a RangeError for the given sentinel.
func NewRangeError(cause error, r Range, capacity uint64) *RangeError {
	return &RangeError{Range: r, Capacity: capacity, cause: cause}
}

func (e *RangeError) Error() string {
	switch {
	case errors.Is(e.cause, ErrOverlap):
		return fmt.Sprintf("%v: %s collides with %s", e.cause, e.Range, e.Conflict)
	case errors.Is(e.cause, ErrOutOfBounds):
		return fmt.Sprintf("%v: %s exceeds capacity %d", e.cause, e.Range, e.Capacity)
	default:
		return fmt.Sprintf("%v: %s", e.cause, e.Range)
	}
}

func (e *RangeError) Unwrap() error { return e.cause }

// Corrupt panics with ErrCorruptState and a description of the violation.
func Corrupt(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrCorruptState, fmt.Sprintf(format, args...)))
}
