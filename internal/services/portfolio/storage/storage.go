// Package storage defines the persistence contract for the portfolio
// document.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/portfolio/internal/services/portfolio/content"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness constraint would be violated.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrConflict indicates the change would break a reference between records.
	ErrConflict = errors.New("record is referenced")
	// ErrClosed indicates the store was used after Close.
	ErrClosed = errors.New("store is closed")
	// ErrCorrupt indicates the persisted document cannot be decoded. Writes
	// refuse to replace it so operator data is never clobbered.
	ErrCorrupt = errors.New("stored document is corrupt")
)

// MutateFunc edits the document in place. Returning an error aborts the
// update and nothing is persisted. Backends that retry on write conflicts may
// call it more than once, each time with a fresh copy of the document.
type MutateFunc func(doc *content.Document) error

// Store owns the single portfolio document.
//
// Update is the only read-modify-write path and is serialized by every
// implementation, so concurrent mutations never lose each other's writes.
type Store interface {
	// Load returns the current document. Missing or undecodable data degrades
	// to content.Empty(); only cancellation or a closed store is an error.
	Load(ctx context.Context) (content.Document, error)
	// Update applies fn to the current document and persists the result.
	Update(ctx context.Context, fn MutateFunc) (content.Document, error)
	// Replace overwrites the whole document.
	Replace(ctx context.Context, doc content.Document) error
	// Close releases the backend.
	Close() error
}
