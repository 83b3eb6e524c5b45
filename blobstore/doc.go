// Package blobstore provides the storage abstraction that hexvec sessions are
// saved to and loaded from.
//
// A session is a small set of blobs under a common name prefix: one manifest
// plus one framed snapshot per vector. Blobs are written once and read whole.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process, for tests and ephemeral sessions
//   - LocalStore: local filesystem, atomic writes via rename
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Custom Implementations
//
// Implement the BlobStore interface to support other backends:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
