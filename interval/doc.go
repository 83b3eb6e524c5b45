// Package interval implements a fixed-capacity index of non-overlapping,
// variable-length entries.
//
// Every occupied index holds a node. The first index of an entry holds the
// entry itself (its head); every other index it covers holds the head index
// (a body node). Resolving any index to its entry is therefore a constant-time
// map hop, and any byte inside a multi-byte entry resolves to the same entry.
//
// Head indices are mirrored in a 64-bit Roaring bitmap. The bitmap answers
// "next entry at or after i" for range scans and overlap checks, and its
// cardinality is the entry count.
//
//	idx := interval.New[string](10)
//	_ = idx.Insert(model.NewEntry("a", model.NewRange(1, 3)))
//	e, ok := idx.Get(2) // e.Payload == "a", e.Range == [1..3)
//
// A Store is not safe for concurrent use. Callers that share one across
// goroutines must serialize access (see the hexvec.DB facade).
package interval
