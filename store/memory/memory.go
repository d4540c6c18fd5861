// Package memory provides an in-process DocumentStore for tests and dev.
package memory

import (
	"context"
	"sync"

	"github.com/warp/circle-engine/circle"
	"github.com/warp/circle-engine/store"
)

// Store keeps documents in a map and fans every Set out to live watchers,
// in the order the writes are applied.
type Store struct {
	mu     sync.Mutex
	docs   map[string]circle.AppState
	subs   map[string]map[int]subscriber
	nextID int
	closed bool
}

type subscriber struct {
	onNext  func(store.Snapshot)
	onError func(error)
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		docs: make(map[string]circle.AppState),
		subs: make(map[string]map[int]subscriber),
	}
}

func (m *Store) GetOnce(_ context.Context, id string) (store.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(id), nil
}

// Subscribe delivers the current snapshot synchronously before returning,
// then every later Set until unsubscribed.
func (m *Store) Subscribe(_ context.Context, id string, onNext func(store.Snapshot), onError func(error)) (store.Unsubscribe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, store.ErrConnection
	}

	m.nextID++
	subID := m.nextID
	if m.subs[id] == nil {
		m.subs[id] = make(map[int]subscriber)
	}
	m.subs[id][subID] = subscriber{onNext: onNext, onError: onError}

	onNext(m.snapshotLocked(id))

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[id], subID)
	}, nil
}

func (m *Store) Set(_ context.Context, id string, state circle.AppState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return store.ErrConnection
	}

	m.docs[id] = state.Clone()

	snap := m.snapshotLocked(id)
	for _, sub := range m.subs[id] {
		sub.onNext(snap)
	}
	return nil
}

// Close drops all watchers. Later Sets and Subscribes fail with
// ErrConnection, and live watchers are told the transport is gone.
func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for _, subs := range m.subs {
		for _, sub := range subs {
			if sub.onError != nil {
				sub.onError(store.ErrConnection)
			}
		}
	}
	m.subs = make(map[string]map[int]subscriber)
	return nil
}

func (m *Store) snapshotLocked(id string) store.Snapshot {
	doc, ok := m.docs[id]
	if !ok {
		return store.Snapshot{State: circle.NewAppState(), Exists: false}
	}
	return store.Snapshot{State: doc.Clone(), Exists: true}
}
