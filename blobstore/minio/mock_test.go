package minio

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

var _ Client = sdkClient{}

type MockClient struct {
	mock.Mock
}

func (m *MockClient) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, key)
	info, _ := args.Get(0).(minio.ObjectInfo)
	return info, args.Error(1)
}

// GetObject passes the Range header instead of the options value.
func (m *MockClient) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key, opts.Header().Get("Range"))
	body, _ := args.Get(0).(io.ReadCloser)
	return body, args.Error(1)
}

func (m *MockClient) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, _ minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucket, key, r, size)
	info, _ := args.Get(0).(minio.UploadInfo)
	return info, args.Error(1)
}

func (m *MockClient) RemoveObject(ctx context.Context, bucket, key string, _ minio.RemoveObjectOptions) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

// ListObjects passes the listing prefix instead of the options value.
func (m *MockClient) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	args := m.Called(ctx, bucket, opts.Prefix)
	ch, _ := args.Get(0).(<-chan minio.ObjectInfo)
	return ch
}

// objects returns a closed channel holding infos.
func objects(infos ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(infos))
	for _, info := range infos {
		ch <- info
	}
	close(ch)
	return ch
}
