package hexvec_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hupe1980/hexvec"
	"github.com/hupe1980/hexvec/blobstore"
	"github.com/hupe1980/hexvec/codec"
	"github.com/hupe1980/hexvec/persistence"
	"github.com/hupe1980/hexvec/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// populate links every field across both vectors, then unlinks the first one.
func populate(t *testing.T, db *hexvec.DB[string, field], seed int64) []field {
	t.Helper()
	ctx := context.Background()
	fields := testutil.NewRNG(seed).Fields(256, 32, 6)
	require.NotEmpty(t, fields)
	for _, f := range fields {
		require.NoError(t, db.InsertGroup(ctx, []member{
			{Vector: "hex", Value: f},
			{Vector: "ascii", Value: f},
		}))
	}
	require.NoError(t, db.UnlinkEntry(ctx, "hex", fields[0].At.Start))
	return fields
}

func TestSession(t *testing.T) {
	ctx := context.Background()

	stores := map[string]blobstore.BlobStore{
		"Memory": blobstore.NewMemoryStore(),
		"Local":  blobstore.NewLocalStore(filepath.Join(t.TempDir(), "sessions")),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			metrics := &hexvec.BasicMetricsCollector{}
			db := newDB(t, hexvec.WithBlobStore(store), hexvec.WithMetricsCollector(metrics))
			fields := populate(t, db, 11)

			require.NoError(t, db.Save(ctx, "capture/01"))

			names, err := store.List(ctx, "capture/01/")
			require.NoError(t, err)
			assert.Equal(t, []string{
				"capture/01/manifest",
				"capture/01/vectors/000000",
				"capture/01/vectors/000001",
			}, names)

			loaded, err := hexvec.Load[string, field](ctx, store, "capture/01")
			require.NoError(t, err)
			assert.Equal(t, db.Snapshot(), loaded.Snapshot())
			assert.Equal(t, []string{"ascii", "hex"}, loaded.Vectors())
			assert.False(t, loaded.IsLinked("hex", fields[0].At.Start))
			if len(fields) > 1 {
				assert.True(t, loaded.IsLinked("hex", fields[1].At.Start))
			}

			sessions, err := hexvec.Sessions(ctx, store)
			require.NoError(t, err)
			assert.Equal(t, []string{"capture/01"}, sessions)

			stats := metrics.GetStats()
			assert.Equal(t, int64(1), stats.SaveCount)
			assert.Positive(t, stats.SavedBytes)

			require.NoError(t, hexvec.DeleteSession(ctx, store, "capture/01"))
			_, err = hexvec.Load[string, field](ctx, store, "capture/01")
			assert.ErrorIs(t, err, hexvec.ErrSessionNotFound)

			names, err = store.List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, names)
		})
	}
}

func TestSessionFormats(t *testing.T) {
	ctx := context.Background()

	for _, comp := range []persistence.Compression{persistence.CompressionNone, persistence.CompressionZstd, persistence.CompressionLZ4} {
		for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
			t.Run(comp.String()+"/"+c.Name(), func(t *testing.T) {
				store := blobstore.NewMemoryStore()
				db := newDB(t,
					hexvec.WithBlobStore(store),
					hexvec.WithCodec(c),
					hexvec.WithCompression(comp),
					hexvec.WithUploadConcurrency(1),
				)
				populate(t, db, 5)
				require.NoError(t, db.Save(ctx, "s"))

				data, err := blobstore.ReadAll(ctx, store, "s/vectors/000000")
				require.NoError(t, err)
				h, err := persistence.ReadHeader(bytesReader(data))
				require.NoError(t, err)
				assert.Equal(t, c.Name(), h.Codec)

				// Loading does not need to be told the codec.
				loaded, err := hexvec.Load[string, field](ctx, store, "s")
				require.NoError(t, err)
				assert.Equal(t, db.Snapshot(), loaded.Snapshot())
			})
		}
	}
}

func TestSessionResave(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	db := newDB(t, hexvec.WithBlobStore(store))
	require.NoError(t, db.CreateVector(ctx, "bits", 64))
	require.NoError(t, db.Save(ctx, "s"))
	assert.Equal(t, 4, store.Len())

	_, err := db.DestroyVector(ctx, "bits")
	require.NoError(t, err)
	require.NoError(t, db.Save(ctx, "s"))

	names, err := store.List(ctx, "s/")
	require.NoError(t, err)
	assert.Equal(t, []string{"s/manifest", "s/vectors/000000", "s/vectors/000001"}, names)

	loaded, err := hexvec.Load[string, field](ctx, store, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"ascii", "hex"}, loaded.Vectors())

	// A loaded DB saves back to the store it came from.
	require.NoError(t, loaded.InsertEntry(ctx, "hex", testutil.NewField("late", 0, 1)))
	require.NoError(t, loaded.Save(ctx, "s2"))
	sessions, err := hexvec.Sessions(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"s", "s2"}, sessions)
}

func TestSessionErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("NoBlobStore", func(t *testing.T) {
		db := newDB(t)
		assert.ErrorIs(t, db.Save(ctx, "s"), hexvec.ErrNoBlobStore)
	})

	t.Run("InvalidName", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		db := newDB(t, hexvec.WithBlobStore(store))
		for _, name := range []string{"", "/abs", "trailing/", "a//b", "../up", "x/vectors", "manifest", "s/manifest/y"} {
			assert.ErrorIs(t, db.Save(ctx, name), hexvec.ErrInvalidSessionName)
			_, err := hexvec.Load[string, field](ctx, store, name)
			assert.ErrorIs(t, err, hexvec.ErrInvalidSessionName)
			assert.ErrorIs(t, hexvec.DeleteSession(ctx, store, name), hexvec.ErrInvalidSessionName)
		}
	})

	t.Run("Checksum", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		db := newDB(t, hexvec.WithBlobStore(store), hexvec.WithCompression(persistence.CompressionNone))
		populate(t, db, 9)
		require.NoError(t, db.Save(ctx, "s"))

		data, err := blobstore.ReadAll(ctx, store, "s/vectors/000001")
		require.NoError(t, err)
		data[len(data)-2] ^= 0x01
		require.NoError(t, store.Put(ctx, "s/vectors/000001", data))

		_, err = hexvec.Load[string, field](ctx, store, "s")
		require.Error(t, err)
		assert.True(t, persistence.IsChecksumMismatch(err))
	})

	t.Run("SwappedBlobs", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		db := newDB(t, hexvec.WithBlobStore(store))
		require.NoError(t, db.Save(ctx, "s"))

		a, err := blobstore.ReadAll(ctx, store, "s/vectors/000000")
		require.NoError(t, err)
		b, err := blobstore.ReadAll(ctx, store, "s/vectors/000001")
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, "s/vectors/000000", b))
		require.NoError(t, store.Put(ctx, "s/vectors/000001", a))

		_, err = hexvec.Load[string, field](ctx, store, "s")
		assert.ErrorIs(t, err, hexvec.ErrCorruptSnapshot)
	})

	t.Run("MissingVectorBlob", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		db := newDB(t, hexvec.WithBlobStore(store))
		require.NoError(t, db.Save(ctx, "s"))
		require.NoError(t, store.Delete(ctx, "s/vectors/000001"))

		_, err := hexvec.Load[string, field](ctx, store, "s")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})

	t.Run("Canceled", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		db := newDB(t, hexvec.WithBlobStore(store))
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, db.Save(cctx, "s"), context.Canceled)
		assert.Equal(t, 0, store.Len())
	})
}

func TestSessionLimits(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	limits := []hexvec.Option{
		hexvec.WithBlobStore(store),
		hexvec.WithIOLimit(1 << 20),
		hexvec.WithLoadBufferLimit(64),
		hexvec.WithUploadConcurrency(2),
	}
	db := newDB(t, limits...)
	populate(t, db, 29)
	require.NoError(t, db.Save(ctx, "limited"))

	loaded, err := hexvec.Load[string, field](ctx, store, "limited", limits...)
	require.NoError(t, err)
	assert.Equal(t, db.Snapshot(), loaded.Snapshot())

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = hexvec.Load[string, field](canceled, store, "limited", limits...)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSessionNested(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	parent := newDB(t, hexvec.WithBlobStore(store))
	populate(t, parent, 41)
	child := newDB(t, hexvec.WithBlobStore(store))
	require.NoError(t, child.CreateVector(ctx, "bits", 64))
	populate(t, child, 43)

	require.NoError(t, child.Save(ctx, "proj/v1"))
	require.NoError(t, parent.Save(ctx, "proj"))

	sessions, err := hexvec.Sessions(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"proj", "proj/v1"}, sessions)

	t.Run("ResaveKeepsNested", func(t *testing.T) {
		require.NoError(t, parent.Save(ctx, "proj"))

		loaded, err := hexvec.Load[string, field](ctx, store, "proj/v1")
		require.NoError(t, err)
		assert.Equal(t, child.Snapshot(), loaded.Snapshot())
	})

	t.Run("StaleCleanupIgnoresForeignKeys", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "proj/vectors/notes.txt", []byte("keep")))
		require.NoError(t, store.Put(ctx, "proj/vectors/000009", []byte("stale")))
		require.NoError(t, parent.Save(ctx, "proj"))

		names, err := store.List(ctx, "proj/vectors/")
		require.NoError(t, err)
		assert.Equal(t, []string{"proj/vectors/000000", "proj/vectors/000001", "proj/vectors/notes.txt"}, names)
	})

	t.Run("DeleteKeepsNested", func(t *testing.T) {
		require.NoError(t, hexvec.DeleteSession(ctx, store, "proj"))

		sessions, err := hexvec.Sessions(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, []string{"proj/v1"}, sessions)

		_, err = hexvec.Load[string, field](ctx, store, "proj")
		assert.ErrorIs(t, err, hexvec.ErrSessionNotFound)

		loaded, err := hexvec.Load[string, field](ctx, store, "proj/v1")
		require.NoError(t, err)
		assert.Equal(t, child.Snapshot(), loaded.Snapshot())

		names, err := store.List(ctx, "proj/")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"proj/v1/manifest",
			"proj/v1/vectors/000000",
			"proj/v1/vectors/000001",
			"proj/v1/vectors/000002",
			"proj/vectors/notes.txt",
		}, names)
	})
}
