// Package model defines core types used throughout hexvec.
//
// # Ranges
//
//   - Range: half-open interval [Start, End) over byte offsets (uint64)
//   - Ranged: capability of a payload to report its own Range
//
// # Entries
//
//   - Entry: a payload plus the Range it occupies
//
// # Errors
//
// The caller-facing error kinds shared by the interval and group packages
// (ErrEmptyRange, ErrOutOfBounds, ErrOverlap, ErrNoSuchVector, ...) live here
// so both layers report the same sentinels.
package model
