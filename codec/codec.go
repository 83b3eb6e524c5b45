// Package codec centralizes snapshot encoding.
//
// Encoded sessions record the codec name in their header, so changing the
// default codec never breaks previously written sessions: they are decoded
// with the codec they were written with, selected via ByName.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Names lists the names of the built-in codecs.
func Names() []string {
	return []string{JSON{}.Name(), GoJSON{}.Name()}
}

// Encode marshals v with c, falling back to Default when c is nil.
func Encode[T any](c Codec, v T) ([]byte, error) {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec %s: marshal %T: %w", c.Name(), v, err)
	}
	return b, nil
}

// Decode unmarshals data into a new T with c, falling back to Default when c is nil.
func Decode[T any](c Codec, data []byte) (T, error) {
	var v T
	if c == nil {
		c = Default
	}
	if err := c.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("codec %s: unmarshal %T: %w", c.Name(), v, err)
	}
	return v, nil
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	b, err := Encode(c, v)
	if err != nil {
		panic(err)
	}
	return b
}
