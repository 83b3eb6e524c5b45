package model

// Entry is a payload anchored at a range.
type Entry[T any] struct {
	Payload T     `json:"payload"`
	Range   Range `json:"range"`
}

// NewEntry creates an entry for payload at r.
func NewEntry[T any](payload T, r Range) Entry[T] {
	return Entry[T]{Payload: payload, Range: r}
}

// EntryOf creates an entry for a payload that reports its own range.
func EntryOf[T Ranged](payload T) Entry[T] {
	return Entry[T]{Payload: payload, Range: payload.Range()}
}
