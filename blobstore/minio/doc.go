// Package minio stores hexvec sessions in MinIO or any other S3-compatible
// object store reachable through minio-go.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "sessions/")
//	db := hexvec.New[string, Field](hexvec.WithBlobStore(store))
//	// ...
//	err = db.Save(ctx, "annotations")
//
// Put uploads with a known length in one request; Create streams through
// an io.Pipe and commits on Close. Blobs are read with ranged GETs.
//
// NewStoreWithClient accepts any Client, the subset of *minio.Client the
// store calls, which is how the unit tests run without a server.
package minio
