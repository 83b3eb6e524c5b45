// Package fs abstracts the file system for the local blob store so tests can
// inject I/O failures.
//
//   - [LocalFS]: the os package
//   - [FaultyFS]: wraps another FileSystem and fails writes, syncs, closes
//     or renames of matching paths
//
// Tests inject faults per path pattern:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("manifest", fs.Fault{FailAfterBytes: -1, FailOnRename: true})
//
// Operations take no context.Context; blob-level cancellation lives in
// package blobstore.
package fs
