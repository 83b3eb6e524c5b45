package hexvec

import (
	"errors"

	"github.com/hupe1980/hexvec/blobstore"
	"github.com/hupe1980/hexvec/model"
)

// Errors returned by DB operations. They alias the model sentinels, so
// errors.Is works no matter which package a caller imports.
var (
	ErrEmptyRange      = model.ErrEmptyRange
	ErrOutOfBounds     = model.ErrOutOfBounds
	ErrOverlap         = model.ErrOverlap
	ErrNoSuchVector    = model.ErrNoSuchVector
	ErrDuplicateVector = model.ErrDuplicateVector
	ErrVectorNotEmpty  = model.ErrVectorNotEmpty
	ErrNoSuchEntry     = model.ErrNoSuchEntry
	ErrCorruptSnapshot = model.ErrCorruptSnapshot
	ErrCorruptState    = model.ErrCorruptState
	ErrSessionNotFound = blobstore.ErrNotFound
)

var (
	// ErrNoBlobStore is returned by Save when no BlobStore is configured.
	ErrNoBlobStore = errors.New("no blob store configured")

	// ErrInvalidSessionName is returned for session names that are empty,
	// contain an empty, "." or ".." segment, or a segment named "manifest"
	// or "vectors".
	ErrInvalidSessionName = errors.New("invalid session name")

	// ErrRangeChanged is returned by UpdateEntry when the update would move
	// the entry.
	ErrRangeChanged = errors.New("update changed entry range")
)

// RangeError is returned for rejected ranges; see model.RangeError.
type RangeError = model.RangeError
