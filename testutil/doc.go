// Package testutil provides testing utilities for hexvec.
//
// This package is intended for use in tests and benchmarks only.
// It provides a deterministic RNG, a ranged payload type and helpers for
// generating random, non-overlapping layouts of entries.
//
// # Random Layouts
//
//	rng := testutil.NewRNG(seed)
//	fields := rng.Fields(1024, 50, 16) // non-overlapping, sorted by start
//
// # Ranged Payloads
//
//	f := testutil.NewField("u32", 8, 4) // occupies [8..12)
package testutil
