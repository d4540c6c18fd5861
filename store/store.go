/*
Package store defines the remote document store boundary.

PURPOSE:
  The whole application state lives in ONE remote document with a fixed
  identifier. This package defines the minimal contract the rest of the
  system needs from whatever service holds that document: read it once,
  watch it for changes, and overwrite it wholesale.

SEMANTICS:
  - Documents are replaced atomically as a unit. There are no partial or
    field-level updates; last writer wins at whole-document granularity.
  - A missing document is NOT an error. It maps to Snapshot.Exists=false
    and callers treat it as the zero-value state.
  - Transport problems (cannot connect, watch torn down) are errors and
    wrap ErrConnection so callers can distinguish them from not-found.

IMPLEMENTATIONS:
  - store/memory: in-process map with change fan-out (tests, dev)
  - store/sqlite: SQLite-backed documents table (production)
*/
package store

import (
	"context"
	"errors"

	"github.com/warp/circle-engine/circle"
)

// DefaultDocumentID identifies the single shared circle document.
const DefaultDocumentID = "default_group"

// ErrConnection marks transport failures: the store could not be reached
// or an established watch reported an error. Distinct from a document that
// simply does not exist yet.
var ErrConnection = errors.New("document store connection failed")

// Snapshot is one observed value of a document.
type Snapshot struct {
	// State is the document contents. Zero value when Exists is false.
	State circle.AppState

	// Exists reports whether the document was present in the store.
	Exists bool
}

// Unsubscribe tears down a watch. Safe to call more than once.
type Unsubscribe func()

// DocumentStore is the contract for the remote document service.
type DocumentStore interface {
	// GetOnce reads the current document value.
	GetOnce(ctx context.Context, id string) (Snapshot, error)

	// Subscribe watches a document. The current value is delivered to
	// onNext immediately, then every subsequent change in the order the
	// store applies them. Transport errors after establishment go to
	// onError. Exactly one live subscription is expected per running
	// instance.
	Subscribe(ctx context.Context, id string, onNext func(Snapshot), onError func(error)) (Unsubscribe, error)

	// Set overwrites the full document. Not a merge: the caller must
	// supply the complete next state.
	Set(ctx context.Context, id string, state circle.AppState) error

	// Close releases any resources held by the store.
	Close() error
}
