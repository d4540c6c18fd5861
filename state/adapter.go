/*
Package state maintains the live mirror of the shared circle document.

PURPOSE:
  One remote document holds the whole AppState. This package subscribes to
  it, keeps an in-memory mirror, and funnels every mutation through a
  read-modify-write of the complete document.

EVENT MODEL:
  Two ordered event sources feed the mirror: remote change notifications
  and local user intents (toggle, setup save, reset). Both reduce into the
  same mirror under one lock; whichever applies last wins. There is no
  field-level merge and no version check - last-writer-wins at
  whole-document granularity is the accepted policy for this small,
  low-contention group.

CONSISTENCY GAP (deliberate):
  Toggles apply to the mirror BEFORE the remote write is issued, so the
  caller sees intent immediately regardless of network latency. A failed
  write is reported but NOT rolled back; the mirror can diverge from the
  persisted document until the next successful write or remote push.

SEE ALSO:
  - circle: the pure calculations the mirror feeds
  - store: the document store boundary
*/
package state

import (
	"context"
	"fmt"

	"github.com/warp/circle-engine/circle"
	"github.com/warp/circle-engine/store"
)

// Adapter mirrors one remote document identified by docID. It translates
// store snapshots into AppState values: an absent document becomes the
// zero-value state, and transport failures stay distinguishable from
// not-found via store.ErrConnection.
type Adapter struct {
	docs  store.DocumentStore
	docID string
}

// NewAdapter wraps a document store for the given document ID.
func NewAdapter(docs store.DocumentStore, docID string) *Adapter {
	if docID == "" {
		docID = store.DefaultDocumentID
	}
	return &Adapter{docs: docs, docID: docID}
}

// Subscribe starts watching the document. onChange receives the current
// value immediately and every later remote change in delivery order.
// onError receives transport failures after establishment. The returned
// cancel function stops the watch.
func (a *Adapter) Subscribe(ctx context.Context, onChange func(circle.AppState), onError func(error)) (store.Unsubscribe, error) {
	unsub, err := a.docs.Subscribe(ctx, a.docID,
		func(snap store.Snapshot) {
			if !snap.Exists {
				onChange(circle.NewAppState())
				return
			}
			onChange(snap.State)
		},
		onError,
	)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", a.docID, err)
	}
	return unsub, nil
}

// Replace overwrites the full remote document.
func (a *Adapter) Replace(ctx context.Context, next circle.AppState) error {
	if err := a.docs.Set(ctx, a.docID, next); err != nil {
		return fmt.Errorf("replace %s: %w", a.docID, err)
	}
	return nil
}
