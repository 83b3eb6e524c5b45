package hexvec

import (
	"log/slog"

	"github.com/hupe1980/hexvec/blobstore"
	"github.com/hupe1980/hexvec/codec"
	"github.com/hupe1980/hexvec/internal/resource"
	"github.com/hupe1980/hexvec/persistence"
)

type options struct {
	codec             codec.Codec
	compression       persistence.Compression
	metricsCollector  MetricsCollector
	logger            *Logger
	store             blobstore.BlobStore
	uploadConcurrency int
	ioBytesPerSec     int64
	loadBufferBytes   int64
	resources         *resource.Controller
}

// Option configures a DB.
type Option func(*options)

// WithCodec configures the codec used to encode saved sessions.
// Loading always uses the codec recorded in each blob.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the compression of saved session blobs.
// Default: persistence.CompressionZstd.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithBlobStore configures the store that Save writes sessions to.
//
// Example:
//
//	store := blobstore.NewLocalStore("./sessions")
//	db := hexvec.New[string, Field](hexvec.WithBlobStore(store))
//	// ...
//	err := db.Save(ctx, "annotations")
func WithBlobStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithUploadConcurrency limits how many vector blobs Save and Load transfer
// at once. Values <= 0 select the default of 4.
func WithUploadConcurrency(n int) Option {
	return func(o *options) {
		o.uploadConcurrency = n
	}
}

// WithIOLimit caps the bytes per second that Save and Load move to and from
// the blob store. Zero disables the limit.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioBytesPerSec = bytesPerSec
	}
}

// WithLoadBufferLimit caps the blob bytes that concurrent vector reads hold
// in memory during Load. A single blob larger than the limit is still read,
// but alone. Zero disables the limit.
func WithLoadBufferLimit(bytes int64) Option {
	return func(o *options) {
		o.loadBufferBytes = bytes
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &hexvec.BasicMetricsCollector{}
//	db := hexvec.New[string, Field](hexvec.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
//	fmt.Printf("Groups: %d, Avg latency: %dns\n", stats.InsertGroupCount, stats.InsertAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := hexvec.NewJSONLogger(slog.LevelInfo)
//	db := hexvec.New[string, Field](hexvec.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

const defaultUploadConcurrency = 4

func applyOptions(optFns []Option) options {
	o := options{
		codec:             codec.Default,
		compression:       persistence.CompressionZstd,
		metricsCollector:  NoopMetricsCollector{},
		logger:            NoopLogger(),
		uploadConcurrency: defaultUploadConcurrency,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.uploadConcurrency <= 0 {
		o.uploadConcurrency = defaultUploadConcurrency
	}
	o.resources = resource.NewController(resource.Config{
		IOBytesPerSec: o.ioBytesPerSec,
		BufferBytes:   o.loadBufferBytes,
	})
	return o
}

func (o options) frameOptions() persistence.Options {
	return persistence.Options{Codec: o.codec, Compression: o.compression}
}
