package hexvec

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hupe1980/hexvec/blobstore"
	"github.com/hupe1980/hexvec/group"
	"github.com/hupe1980/hexvec/internal/resource"
	"github.com/hupe1980/hexvec/model"
	"github.com/hupe1980/hexvec/persistence"
	"golang.org/x/sync/errgroup"
)

// A session is stored as
//
//	<name>/manifest          vector names, capacities and blob keys
//	<name>/vectors/000000    one frame per vector, in name order
//	<name>/vectors/000001
//
// Save writes the vector blobs first and the manifest last, so a session is
// only visible once it is complete.

const (
	manifestBlob   = "manifest"
	vectorsDir     = "vectors"
	sessionVersion = 1
)

type manifest[N cmp.Ordered] struct {
	Version int                 `json:"version"`
	SavedAt time.Time           `json:"saved_at"`
	Vectors []manifestVector[N] `json:"vectors"`
}

type manifestVector[N cmp.Ordered] struct {
	Name     N      `json:"name"`
	Capacity uint64 `json:"capacity"`
	Entries  int    `json:"entries"`
	Blob     string `json:"blob"`
}

// validSessionName accepts slash-separated names whose segments are not
// empty, "." or "..", and do not collide with the blob layout of a session.
func validSessionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSessionName)
	}
	for _, seg := range strings.Split(name, "/") {
		switch seg {
		case "", ".", "..", manifestBlob, vectorsDir:
			return fmt.Errorf("%w: %q", ErrInvalidSessionName, name)
		}
	}
	return nil
}

func vectorBlob(session string, i int) string {
	return path.Join(session, vectorsDir, fmt.Sprintf("%06d", i))
}

// vectorIndex reports whether key is a vector blob of session, and which.
// Keys of nested sessions or foreign files never match.
func vectorIndex(session, key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, path.Join(session, vectorsDir)+"/")
	if !ok || len(rest) != 6 || strings.Trim(rest, "0123456789") != "" {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	return i, err == nil
}

// vectorBlobs lists the vector blobs of session.
func vectorBlobs(ctx context.Context, store blobstore.BlobStore, session string) ([]string, error) {
	names, err := store.List(ctx, path.Join(session, vectorsDir)+"/")
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(names, func(n string) bool {
		_, ok := vectorIndex(session, n)
		return !ok
	}), nil
}

// Save writes the current state as session name to the configured BlobStore,
// replacing any previous session of that name.
func (db *DB[N, T]) Save(ctx context.Context, name string) error {
	start := time.Now()
	snap := db.Snapshot()

	written, err := db.save(ctx, name, snap)

	db.metrics.RecordSave(len(snap.Vectors), written, time.Since(start), err)
	db.logger.WithSession(name).LogSave(ctx, len(snap.Vectors), written, err)
	return err
}

func (db *DB[N, T]) save(ctx context.Context, name string, snap group.Snapshot[N, T]) (int64, error) {
	if err := validSessionName(name); err != nil {
		return 0, err
	}
	store := db.opts.store
	if store == nil {
		return 0, ErrNoBlobStore
	}
	frame := db.opts.frameOptions()
	rc := db.opts.resources

	m := manifest[N]{
		Version: sessionVersion,
		SavedAt: time.Now().UTC(),
		Vectors: make([]manifestVector[N], len(snap.Vectors)),
	}

	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(db.opts.uploadConcurrency)
	for i, vs := range snap.Vectors {
		m.Vectors[i] = manifestVector[N]{
			Name:     vs.Name,
			Capacity: vs.Store.Capacity,
			Entries:  countHeads(vs),
			Blob:     vectorBlob(name, i),
		}
		key := m.Vectors[i].Blob
		g.Go(func() error {
			data, err := persistence.EncodeBytes(vs, frame)
			if err != nil {
				return fmt.Errorf("encode vector %v: %w", vs.Name, err)
			}
			if err := rc.WaitIO(gctx, len(data)); err != nil {
				return err
			}
			if err := store.Put(gctx, key, data); err != nil {
				return fmt.Errorf("put %s: %w", key, err)
			}
			written.Add(int64(len(data)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return written.Load(), err
	}

	data, err := persistence.EncodeBytes(m, frame)
	if err != nil {
		return written.Load(), fmt.Errorf("encode manifest: %w", err)
	}
	if err := rc.WaitIO(ctx, len(data)); err != nil {
		return written.Load(), err
	}
	if err := store.Put(ctx, path.Join(name, manifestBlob), data); err != nil {
		return written.Load(), fmt.Errorf("put manifest: %w", err)
	}
	written.Add(int64(len(data)))

	return written.Load(), removeStale(ctx, store, name, len(snap.Vectors))
}

// removeStale deletes vector blobs left over from a larger earlier save.
func removeStale(ctx context.Context, store blobstore.BlobStore, session string, keep int) error {
	names, err := vectorBlobs(ctx, store, session)
	if err != nil {
		return err
	}
	for _, n := range names {
		if i, _ := vectorIndex(session, n); i < keep {
			continue
		}
		if err := store.Delete(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func countHeads[N cmp.Ordered, T any](vs group.VectorSnapshot[N, T]) int {
	n := 0
	for _, node := range vs.Store.Nodes {
		if node.Entry != nil {
			n++
		}
	}
	return n
}

// Load reads session name from store and rebuilds the DB it was saved from.
// The returned DB is configured by optFns; Save on it writes to store unless
// WithBlobStore says otherwise.
func Load[N cmp.Ordered, T model.Ranged](ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*DB[N, T], error) {
	start := time.Now()
	opts := applyOptions(append([]Option{WithBlobStore(store)}, optFns...))

	gs, read, err := load[N, T](ctx, store, name, opts.uploadConcurrency, opts.resources)

	var db *DB[N, T]
	if err == nil {
		db = newDB(gs, opts)
	}
	vectors := 0
	if gs != nil {
		vectors = gs.VectorCount()
	}
	opts.metricsCollector.RecordLoad(vectors, read, time.Since(start), err)
	opts.logger.WithSession(name).LogLoad(ctx, vectors, read, err)
	return db, err
}

func load[N cmp.Ordered, T model.Ranged](ctx context.Context, store blobstore.BlobStore, name string, limit int, rc *resource.Controller) (*group.Store[N, T], int64, error) {
	if err := validSessionName(name); err != nil {
		return nil, 0, err
	}

	data, release, err := readBlob(ctx, store, path.Join(name, manifestBlob), rc)
	if err != nil {
		return nil, 0, fmt.Errorf("session %s: %w", name, err)
	}
	read := int64(len(data))

	m, err := persistence.DecodeBytes[manifest[N]](data)
	release()
	if err != nil {
		return nil, read, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != sessionVersion {
		return nil, read, fmt.Errorf("%w: session version %d", ErrCorruptSnapshot, m.Version)
	}

	vectors := make([]group.VectorSnapshot[N, T], len(m.Vectors))
	var total atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, mv := range m.Vectors {
		g.Go(func() error {
			data, release, err := readBlob(gctx, store, mv.Blob, rc)
			if err != nil {
				return fmt.Errorf("read %s: %w", mv.Blob, err)
			}
			total.Add(int64(len(data)))

			vs, err := persistence.DecodeBytes[group.VectorSnapshot[N, T]](data)
			release()
			if err != nil {
				return fmt.Errorf("decode %s: %w", mv.Blob, err)
			}
			if cmp.Compare(vs.Name, mv.Name) != 0 || vs.Store.Capacity != mv.Capacity {
				return fmt.Errorf("%w: blob %s holds vector %v, manifest says %v", ErrCorruptSnapshot, mv.Blob, vs.Name, mv.Name)
			}
			vectors[i] = vs
			return nil
		})
	}
	err = g.Wait()
	read += total.Load()
	if err != nil {
		return nil, read, err
	}

	gs, err := group.Restore(group.Snapshot[N, T]{Vectors: vectors})
	return gs, read, err
}

// readBlob reads a whole blob within the buffer and IO limits of rc.
// The caller releases the buffer reservation once it is done with data.
func readBlob(ctx context.Context, store blobstore.BlobStore, key string, rc *resource.Controller) ([]byte, func(), error) {
	b, err := store.Open(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = b.Close() }()

	size := b.Size()
	release, err := rc.AcquireBuffer(ctx, size)
	if err != nil {
		return nil, nil, err
	}
	if size == 0 {
		return []byte{}, release, nil
	}
	r, err := b.ReadRange(ctx, 0, size)
	if err != nil {
		release()
		return nil, nil, err
	}
	defer func() { _ = r.Close() }()

	data := make([]byte, size)
	if _, err := io.ReadFull(rc.Reader(ctx, r), data); err != nil {
		release()
		return nil, nil, fmt.Errorf("blob %s: %w", key, err)
	}
	return data, release, nil
}

// Sessions lists the names of all complete sessions in store.
func Sessions(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	names, err := store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	var sessions []string
	for _, n := range names {
		if s, ok := strings.CutSuffix(n, "/"+manifestBlob); ok && validSessionName(s) == nil {
			sessions = append(sessions, s)
		}
	}
	slices.Sort(sessions)
	return sessions, nil
}

// DeleteSession removes the manifest and vector blobs of session name from
// store. Sessions nested below name are left alone. The manifest goes first,
// so a partial delete never leaves a loadable session.
func DeleteSession(ctx context.Context, store blobstore.BlobStore, name string) error {
	if err := validSessionName(name); err != nil {
		return err
	}
	if err := store.Delete(ctx, path.Join(name, manifestBlob)); err != nil {
		return err
	}
	names, err := vectorBlobs(ctx, store, name)
	if err != nil {
		return err
	}
	for _, n := range names {
		if err := store.Delete(ctx, n); err != nil {
			return err
		}
	}
	return nil
}
