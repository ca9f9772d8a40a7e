// Package memory provides an in-process implementation of the storage.Store interface.
// Data does not survive a restart; it backs local development and tests.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mmynk/waitlist/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore keeps pairs in a map and remembers insertion order for prefix scans.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	order  []string
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(key, value)
	return nil
}

func (s *MemoryStore) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.put(key, value)
	return true, nil
}

func (s *MemoryStore) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var current int64
	if raw, ok := s.values[key]; ok {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value at %s is not an integer: %w", key, err)
		}
		current = n
	}
	current += delta
	s.put(key, strconv.FormatInt(current, 10))
	return current, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) GetByPrefix(ctx context.Context, prefix string) ([]storage.KV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var pairs []storage.KV
	for _, k := range s.order {
		if strings.HasPrefix(k, prefix) {
			pairs = append(pairs, storage.KV{Key: k, Value: s.values[k]})
		}
	}
	return pairs, nil
}

// put writes under the held lock, appending new keys to the order list.
func (s *MemoryStore) put(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = value
}
