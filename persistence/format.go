package persistence

import (
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies hexvec frames (ASCII: "HXV1").
	MagicNumber = 0x48585631
	// Version is the current frame format version.
	Version = 1

	// MaxPayloadSize bounds the payload size accepted on decode.
	MaxPayloadSize = 1 << 32
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrInvalidVersion     = errors.New("unsupported version")
	ErrUnknownCodec       = errors.New("unknown codec")
	ErrUnknownCompression = errors.New("unknown compression")
	ErrPayloadTooLarge    = errors.New("payload too large")
	ErrSizeMismatch       = errors.New("decompressed size mismatch")
)

// Compression selects how the payload of a frame is compressed.
type Compression uint8

const (
	// CompressionNone stores the codec output as is.
	CompressionNone Compression = iota
	// CompressionZstd compresses with Zstandard (klauspost/compress).
	CompressionZstd
	// CompressionLZ4 compresses with LZ4 block format (pierrec/lz4).
	CompressionLZ4
)

// String returns the name of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// Header describes one frame.
type Header struct {
	Version     uint16
	Compression Compression
	Codec       string
	RawSize     uint64 // codec output size
	DataSize    uint64 // stored payload size
	Checksum    uint32 // CRC32C of the stored payload
}
