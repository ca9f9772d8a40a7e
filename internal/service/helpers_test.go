package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/waitlist/internal/notify"
	"github.com/mmynk/waitlist/internal/storage"
	"github.com/mmynk/waitlist/internal/storage/memory"
	"github.com/mmynk/waitlist/internal/storage/sqlite"
)

// newSQLiteStore creates a store in a temp directory that is removed after the test.
func newSQLiteStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "waitlist.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func backends() map[string]func(t *testing.T) storage.Store {
	return map[string]func(t *testing.T) storage.Store{
		"sqlite": newSQLiteStore,
		"memory": func(t *testing.T) storage.Store { return memory.New() },
	}
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *clock { return &clock{now: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// failingStore wraps a store and fails writes to keys with a given prefix.
type failingStore struct {
	storage.Store
	failSetPrefix string
	failGet       bool
	failIncr      bool
}

var errInjected = errors.New("injected failure")

func (s *failingStore) Set(ctx context.Context, key, value string) error {
	if s.failSetPrefix != "" && strings.HasPrefix(key, s.failSetPrefix) {
		return errInjected
	}
	return s.Store.Set(ctx, key, value)
}

func (s *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.failGet {
		return "", false, errInjected
	}
	return s.Store.Get(ctx, key)
}

func (s *failingStore) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	if s.failIncr {
		return 0, errInjected
	}
	return s.Store.Incr(ctx, key, delta)
}

// recordingNotifier keeps every enqueued row.
type recordingNotifier struct {
	mu   sync.Mutex
	rows []notify.Row
}

func (n *recordingNotifier) Enqueue(row notify.Row) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rows = append(n.rows, row)
	return true
}

// stubExporter records exports and optionally fails.
type stubExporter struct {
	err  error
	rows []notify.Row
}

func (e *stubExporter) Name() string { return "stub" }

func (e *stubExporter) Export(ctx context.Context, rows []notify.Row) error {
	e.rows = rows
	return e.err
}
