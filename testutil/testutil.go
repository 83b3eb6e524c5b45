package testutil

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/hexvec/model"
)

// Field is a ranged test payload, standing in for a decoded annotation
// (number, string, struct) over a byte buffer.
type Field struct {
	Name string      `json:"name"`
	At   model.Range `json:"at"`
}

// NewField creates a field of length bytes at offset.
func NewField(name string, offset, length uint64) Field {
	return Field{Name: name, At: model.Span(offset, length)}
}

// Range implements model.Ranged.
func (f Field) Range() model.Range { return f.At }

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64n returns a pseudo-random number in [0,n).
func (r *RNG) Uint64n(n uint64) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return uint64(r.rand.Int63n(int64(n)))
}

// Range returns a non-empty range of at most maxLen indices inside [0, capacity).
func (r *RNG) Range(capacity, maxLen uint64) model.Range {
	start := r.Uint64n(capacity)
	length := 1 + r.Uint64n(min(maxLen, capacity-start))
	return model.Span(start, length)
}

// Fields returns up to n non-overlapping fields inside [0, capacity), each at
// most maxLen bytes long, sorted by start. Fewer than n are returned when the
// random placement keeps colliding.
func (r *RNG) Fields(capacity uint64, n int, maxLen uint64) []Field {
	var out []Field
	for attempt := 0; len(out) < n && attempt < n*8; attempt++ {
		at := r.Range(capacity, maxLen)
		if overlapsAny(out, at) {
			continue
		}
		out = append(out, Field{Name: fmt.Sprintf("f%d", len(out)), At: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Start < out[j].At.Start })
	return out
}

func overlapsAny(fields []Field, r model.Range) bool {
	for _, f := range fields {
		if f.At.Overlaps(r) {
			return true
		}
	}
	return false
}
