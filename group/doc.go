// Package group implements a registry of named interval stores ("vectors")
// whose entries can be inserted, queried and removed as linked groups.
//
// Every member of a group carries the full link set of the group: the
// (vector, head index) pair of each member, in insertion order. The set is
// duplicated into every member, so fanning out from any one member needs no
// further lookups, and every operation that changes a link set rewrites all
// members before returning.
//
// Links are plain identifiers, never pointers, so a Store can be snapshotted
// and restored without fix-ups.
//
//	gs := group.New[string, testutil.Field]()
//	_ = gs.CreateVector("types", 4096)
//	_ = gs.CreateVector("names", 4096)
//	_ = gs.InsertGroup([]group.Member[string, testutil.Field]{
//	    {Vector: "types", Value: testutil.NewField("u32", 0, 4)},
//	    {Vector: "names", Value: testutil.NewField("magic", 0, 4)},
//	})
//	members, _ := gs.GetGroup("types", 2) // both members, in insertion order
//
// A Store is not safe for concurrent use; group operations touch several
// vectors and must be serialized as a unit.
package group
