package persistence

import (
	"fmt"
	"sync"

	"github.com/hupe1980/hexvec/internal/conv"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compress returns the stored form of raw and the compression actually used.
// LZ4 falls back to CompressionNone for incompressible input.
func compress(c Compression, raw []byte) ([]byte, Compression, error) {
	switch c {
	case CompressionNone:
		return raw, CompressionNone, nil
	case CompressionZstd:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(raw, make([]byte, 0, len(raw)/2)), CompressionZstd, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, dst, nil)
		if err != nil {
			return nil, c, err
		}
		if n == 0 || n >= len(raw) {
			return raw, CompressionNone, nil
		}
		return dst[:n], CompressionLZ4, nil
	default:
		return nil, c, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}

func decompress(c Compression, data []byte, rawSize uint64) ([]byte, error) {
	size, err := conv.Uint64ToInt(rawSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPayloadTooLarge, err)
	}
	var raw []byte
	switch c {
	case CompressionNone:
		raw = data
	case CompressionZstd:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(data, make([]byte, 0, size))
		if err != nil {
			return nil, err
		}
		raw = out
	case CompressionLZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(data, out)
		if err != nil {
			return nil, err
		}
		raw = out[:n]
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
	if len(raw) != size {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrSizeMismatch, rawSize, len(raw))
	}
	return raw, nil
}
