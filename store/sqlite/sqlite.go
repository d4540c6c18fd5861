/*
Package sqlite provides a SQLite-backed DocumentStore.

PURPOSE:
  Persists each document as one row holding the full JSON body. A write
  replaces the body wholesale, matching the whole-document-replace
  contract, and change notifications fan out in-process to live watchers.

SCHEMA:
  documents(id TEXT PRIMARY KEY, body TEXT NOT NULL, updated_at TEXT NOT NULL)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block the
  single writer, and crash recovery is better than the default journal.

CONCURRENCY:
  A mutex serializes writes with notification fan-out so watchers observe
  document versions in write order. Notifications are in-process only;
  this store assumes the single-writer-per-client model the system is
  built around.

USAGE:
  st, err := sqlite.New("./data/circle.db")  // ":memory:" for tests
  if err != nil { ... }
  defer st.Close()

SEE ALSO:
  - store/store.go: interface and error taxonomy
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/circle-engine/circle"
	"github.com/warp/circle-engine/store"
)

// Store implements store.DocumentStore on SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	subs   map[string]map[int]subscriber
	nextID int
	closed bool
}

type subscriber struct {
	onNext  func(store.Snapshot)
	onError func(error)
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database. Open or migration failures
// wrap store.ErrConnection.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", store.ErrConnection, path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", store.ErrConnection, path, err)
	}

	s := &Store{db: db, subs: make(map[string]map[int]subscriber)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", store.ErrConnection, err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id         TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database and tears down all watchers.
func (s *Store) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		for _, subs := range s.subs {
			for _, sub := range subs {
				if sub.onError != nil {
					sub.onError(store.ErrConnection)
				}
			}
		}
		s.subs = make(map[string]map[int]subscriber)
	}
	s.mu.Unlock()
	return s.db.Close()
}

func (s *Store) GetOnce(ctx context.Context, id string) (store.Snapshot, error) {
	return s.read(ctx, id)
}

// read loads the current document row. Safe with or without s.mu held;
// database/sql handles its own synchronization.
func (s *Store) read(ctx context.Context, id string) (store.Snapshot, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		// Absent document: valid empty state, not an error.
		return store.Snapshot{State: circle.NewAppState(), Exists: false}, nil
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("%w: read %s: %v", store.ErrConnection, id, err)
	}

	var state circle.AppState
	if err := json.Unmarshal([]byte(body), &state); err != nil {
		return store.Snapshot{}, fmt.Errorf("decode document %s: %w", id, err)
	}
	if state.Records == nil {
		state.Records = map[string]circle.DailyRecord{}
	}
	if state.Members == nil {
		state.Members = []circle.Member{}
	}
	return store.Snapshot{State: state, Exists: true}, nil
}

// Subscribe delivers the current snapshot synchronously, then every later
// Set made through this store instance.
//
// The snapshot read and the registration happen under the same lock that
// serializes Set's write + fan-out, so a concurrent write can never land
// between them: the subscriber either sees the write in its initial
// snapshot or receives it as a change notification.
func (s *Store) Subscribe(ctx context.Context, id string, onNext func(store.Snapshot), onError func(error)) (store.Unsubscribe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: store closed", store.ErrConnection)
	}

	snap, err := s.read(ctx, id)
	if err != nil {
		return nil, err
	}

	s.nextID++
	subID := s.nextID
	if s.subs[id] == nil {
		s.subs[id] = make(map[int]subscriber)
	}
	s.subs[id][subID] = subscriber{onNext: onNext, onError: onError}

	onNext(snap)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[id], subID)
	}, nil
}

// Set replaces the full document body and notifies watchers in write order.
func (s *Store) Set(ctx context.Context, id string, state circle.AppState) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", id, err)
	}

	// Hold the lock across write + fan-out so watchers see versions in
	// the order they were applied.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: store closed", store.ErrConnection)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		id, string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", store.ErrConnection, id, err)
	}

	snap := store.Snapshot{State: state.Clone(), Exists: true}
	for _, sub := range s.subs[id] {
		sub.onNext(snap)
	}
	return nil
}
