// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("sessions/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	db := hexvec.New[string, Field](hexvec.WithBlobStore(store))
//	// ...
//	err = db.Save(ctx, "annotations")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large blobs, single PUT otherwise
//   - CRC32C upload checksums
//   - Automatic pagination for listing
package s3
