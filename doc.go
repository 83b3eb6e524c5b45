// Package hexvec provides an embedded, in-memory store of interval-indexed
// entries, organized as named vectors whose entries can be linked into groups.
//
// Every vector has a fixed capacity and holds non-overlapping entries, each
// occupying a half-open index range [start, end). Any index inside an entry
// resolves to that entry. Entries inserted together form a group: removing
// one member removes all of them, until a member is explicitly unlinked.
//
// A typical use is annotating decoded fields of a binary buffer: one vector
// per view of the buffer, one group per field shown in several views.
//
// # Quick Start
//
//	type Field struct {
//	    Name string
//	    At   hexvec.Range
//	}
//
//	func (f Field) Range() hexvec.Range { return f.At }
//
//	ctx := context.Background()
//	db := hexvec.New[string, Field]()
//	_ = db.CreateVector(ctx, "hex", 1024)
//	_ = db.CreateVector(ctx, "ascii", 1024)
//
//	// Insert one field into both views as a linked group.
//	err := db.InsertGroup(ctx, []hexvec.Member[string, Field]{
//	    {Vector: "hex", Value: Field{Name: "magic", At: hexvec.Range{Start: 0, End: 4}}},
//	    {Vector: "ascii", Value: Field{Name: "magic", At: hexvec.Range{Start: 0, End: 4}}},
//	})
//
//	e, ok := db.GetEntry("hex", 2)              // any index inside the entry
//	members, _ := db.GetGroup("ascii", 3)       // both members
//	removed, _ := db.RemoveGroup(ctx, "hex", 0) // removes both
//
// # Sessions
//
// A DB can be saved to and loaded from any blobstore.BlobStore (memory,
// local filesystem, S3, MinIO):
//
//	db := hexvec.New[string, Field](hexvec.WithBlobStore(blobstore.NewLocalStore("./sessions")))
//	// ...
//	err := db.Save(ctx, "capture-01")
//
//	db, err = hexvec.Load[string, Field](ctx, blobstore.NewLocalStore("./sessions"), "capture-01")
//
// Each vector is written as a checksummed, compressed frame (see package
// persistence). Loading validates every structural invariant and fails with
// ErrCorruptSnapshot rather than building an inconsistent store.
//
// WithIOLimit and WithLoadBufferLimit throttle the transfers of Save and Load
// when sessions share a link or memory with foreground work.
//
// # Concurrency
//
// DB serializes writers and lets readers share a lock. The lower-level
// group and interval packages are not synchronized.
package hexvec
