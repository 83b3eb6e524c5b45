package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/hupe1980/hexvec/blobstore"
	"github.com/minio/minio-go/v7"
)

// Client is the subset of *minio.Client used by Store. GetObject returns a
// plain io.ReadCloser so tests can substitute the object body.
type Client interface {
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// sdkClient adapts *minio.Client to Client.
type sdkClient struct {
	*minio.Client
}

func (c sdkClient) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucket, key, opts)
}

// Store implements blobstore.BlobStore for MinIO and S3-compatible storage.
type Store struct {
	client Client
	bucket string
	prefix string
}

// NewStore creates a MinIO blob store.
// rootPrefix is prepended to all keys (e.g. "sessions/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return NewStoreWithClient(sdkClient{client}, bucket, rootPrefix)
}

// NewStoreWithClient creates a blob store on top of any Client.
func NewStoreWithClient(client Client, bucket, rootPrefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: rootPrefix}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

// Open stats the object and returns a blob that reads it with ranged GETs.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	k := s.key(name)
	info, err := s.client.StatObject(ctx, s.bucket, k, minio.StatObjectOptions{})
	switch {
	case isNotFound(err):
		return nil, blobstore.ErrNotFound
	case err != nil:
		return nil, err
	}
	return &object{store: s, key: k, size: info.Size}, nil
}

// Put uploads data with a known length in one request.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// Create starts a streaming upload of unknown length. The blob becomes
// visible once Close returns nil.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	pr, pw := io.Pipe()
	w := &upload{pw: pw, result: make(chan error, 1)}
	k := s.key(name)
	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, k, pr, -1, minio.PutObjectOptions{})
		_ = pr.CloseWithError(err)
		w.result <- err
	}()
	return w, nil
}

// Delete removes a blob. Missing blobs are not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{}); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// List returns the sorted names of all blobs with the given prefix,
// relative to the store's root prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	full := s.key(prefix)
	// path.Join drops the trailing slash that scopes a listing to a directory.
	if strings.HasSuffix(prefix, "/") && !strings.HasSuffix(full, "/") {
		full += "/"
	}

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: full, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(obj.Key, s.prefix), "/")
		if rel != "" {
			names = append(names, rel)
		}
	}
	sort.Strings(names)
	return names, nil
}

type object struct {
	store *Store
	key   string
	size  int64
}

func (o *object) Size() int64 { return o.size }

func (o *object) Close() error { return nil }

// fetch issues a GET for the inclusive byte range [first, last].
func (o *object) fetch(ctx context.Context, first, last int64) (io.ReadCloser, error) {
	var opts minio.GetObjectOptions
	if err := opts.SetRange(first, last); err != nil {
		return nil, err
	}
	return o.store.client.GetObject(ctx, o.store.bucket, o.key, opts)
}

// ReadAt follows io.ReaderAt: a read that stops at the end of the object
// returns io.EOF together with the bytes it got.
func (o *object) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= o.size {
		return 0, io.EOF
	}
	last := min(off+int64(len(p)), o.size) - 1
	body, err := o.fetch(ctx, off, last)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	want := int(last - off + 1)
	n, err := io.ReadFull(body, p[:want])
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return n, io.EOF
	case err != nil:
		return n, err
	case want < len(p):
		return n, io.EOF
	}
	return n, nil
}

func (o *object) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if off < 0 || off >= o.size {
		return nil, io.EOF
	}
	return o.fetch(ctx, off, min(off+length, o.size)-1)
}

type upload struct {
	pw     *io.PipeWriter
	result chan error
	closed atomic.Bool
}

func (u *upload) Write(p []byte) (int, error) {
	return u.pw.Write(p)
}

// Close finishes the upload and waits for the object to be committed.
func (u *upload) Close() error {
	if !u.closed.CompareAndSwap(false, true) {
		return io.ErrClosedPipe
	}
	if err := u.pw.Close(); err != nil {
		return err
	}
	return <-u.result
}

func (u *upload) Sync() error { return nil }
