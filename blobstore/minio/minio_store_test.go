package minio

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/hupe1980/hexvec/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ blobstore.BlobStore = (*Store)(nil)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := envOr("HEXVEC_MINIO_ENDPOINT", "localhost:9000")
	bucket := "test-hexvec"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(envOr("HEXVEC_MINIO_ACCESS_KEY", "minioadmin"), envOr("HEXVEC_MINIO_SECRET_KEY", "minioadmin"), ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()
	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "s/manifest", data))

	blob, err := store.Open(ctx, "s/manifest")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)

	rc, err := blob.ReadRange(ctx, 6, 5)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	got, err := blobstore.ReadAll(ctx, store, "s/manifest")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "s/")
	require.NoError(t, err)
	assert.Contains(t, names, "s/manifest")

	wb, err := store.Create(ctx, "s/stream")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	blob, err = store.Open(ctx, "s/stream")
	require.NoError(t, err)
	assert.Equal(t, int64(13), blob.Size())
	require.NoError(t, blob.Close())

	require.NoError(t, blobstore.DeletePrefix(ctx, store, "s/"))
	_, err = store.Open(ctx, "s/manifest")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
