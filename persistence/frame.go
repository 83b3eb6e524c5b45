package persistence

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/hexvec/codec"
	"github.com/hupe1980/hexvec/internal/conv"
)

// Options configures how frames are written.
type Options struct {
	// Codec encodes the value. Nil selects codec.Default.
	Codec codec.Codec
	// Compression selects the payload compression.
	Compression Compression
}

// DefaultOptions returns the default frame options: default codec, zstd.
func DefaultOptions() Options {
	return Options{
		Codec:       codec.Default,
		Compression: CompressionZstd,
	}
}

// Encode writes v as one frame to w.
func Encode(w io.Writer, v any, opts Options) (Header, error) {
	c := opts.Codec
	if c == nil {
		c = codec.Default
	}
	if _, err := conv.IntToUint8(len(c.Name())); err != nil {
		return Header{}, fmt.Errorf("%w: name too long: %w", ErrUnknownCodec, err)
	}

	raw, err := codec.Encode(c, v)
	if err != nil {
		return Header{}, err
	}
	data, used, err := compress(opts.Compression, raw)
	if err != nil {
		return Header{}, err
	}

	cw := NewChecksumWriter(io.Discard)
	_, _ = cw.Write(data)

	h := Header{
		Version:     Version,
		Compression: used,
		Codec:       c.Name(),
		RawSize:     uint64(len(raw)),
		DataSize:    uint64(len(data)),
		Checksum:    cw.Sum(),
	}

	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, h); err != nil {
		return Header{}, err
	}
	if _, err := bw.Write(data); err != nil {
		return Header{}, err
	}
	return h, bw.Flush()
}

// EncodeBytes is Encode into a new byte slice.
func EncodeBytes(v any, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Encode(&buf, v, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(w io.Writer, h Header) error {
	fixed := make([]byte, 8)
	binary.LittleEndian.PutUint32(fixed[0:], MagicNumber)
	binary.LittleEndian.PutUint16(fixed[4:], h.Version)
	fixed[6] = byte(h.Compression)
	fixed[7] = byte(len(h.Codec))
	if _, err := w.Write(fixed); err != nil {
		return err
	}
	if _, err := io.WriteString(w, h.Codec); err != nil {
		return err
	}
	tail := make([]byte, 20)
	binary.LittleEndian.PutUint64(tail[0:], h.RawSize)
	binary.LittleEndian.PutUint64(tail[8:], h.DataSize)
	binary.LittleEndian.PutUint32(tail[16:], h.Checksum)
	_, err := w.Write(tail)
	return err
}

// ReadHeader reads and validates a frame header.
func ReadHeader(r io.Reader) (Header, error) {
	fixed := make([]byte, 8)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return Header{}, err
	}
	if magic := binary.LittleEndian.Uint32(fixed[0:]); magic != MagicNumber {
		return Header{}, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, magic)
	}
	h := Header{
		Version:     binary.LittleEndian.Uint16(fixed[4:]),
		Compression: Compression(fixed[6]),
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: got %d", ErrInvalidVersion, h.Version)
	}

	name := make([]byte, fixed[7])
	if _, err := io.ReadFull(r, name); err != nil {
		return Header{}, err
	}
	h.Codec = string(name)

	tail := make([]byte, 20)
	if _, err := io.ReadFull(r, tail); err != nil {
		return Header{}, err
	}
	h.RawSize = binary.LittleEndian.Uint64(tail[0:])
	h.DataSize = binary.LittleEndian.Uint64(tail[8:])
	h.Checksum = binary.LittleEndian.Uint32(tail[16:])
	if h.RawSize > MaxPayloadSize || h.DataSize > MaxPayloadSize {
		return Header{}, fmt.Errorf("%w: raw %d, stored %d", ErrPayloadTooLarge, h.RawSize, h.DataSize)
	}
	return h, nil
}

// Decode reads one frame from r and decodes it into a new T.
func Decode[T any](r io.Reader) (T, error) {
	var zero T

	br := bufio.NewReader(r)
	h, err := ReadHeader(br)
	if err != nil {
		return zero, err
	}
	c, ok := codec.ByName(h.Codec)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrUnknownCodec, h.Codec)
	}

	cr := NewChecksumReader(br)
	// The header is not trusted yet, so the buffer grows with the bytes
	// actually present instead of being sized from DataSize.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(cr, int64(h.DataSize)))
	if err != nil {
		return zero, err
	}
	if uint64(n) != h.DataSize {
		return zero, fmt.Errorf("%w: payload has %d of %d bytes", io.ErrUnexpectedEOF, n, h.DataSize)
	}
	data := buf.Bytes()
	if err := cr.Verify(h.Checksum); err != nil {
		return zero, err
	}

	raw, err := decompress(h.Compression, data, h.RawSize)
	if err != nil {
		return zero, err
	}
	return codec.Decode[T](c, raw)
}

// DecodeBytes is Decode from a byte slice.
func DecodeBytes[T any](data []byte) (T, error) {
	return Decode[T](bytes.NewReader(data))
}
