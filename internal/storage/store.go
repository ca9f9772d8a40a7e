// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
)

// KV is a single key/value pair returned by prefix scans.
type KV struct {
	Key   string
	Value string
}

// Store defines the key-value operations the waitlist is built on.
// This abstraction allows swapping storage backends (SQLite, Redis, in-memory)
// without changing the service layer.
type Store interface {
	// Get returns the value stored under key.
	// found is false when the key does not exist; that is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// SetIfAbsent writes value only when key does not exist yet.
	// created reports whether this call wrote the key. The check and the write are atomic.
	SetIfAbsent(ctx context.Context, key, value string) (created bool, err error)

	// Incr atomically adds delta to the integer stored under key and returns the new value.
	// A missing key counts as zero.
	Incr(ctx context.Context, key string, delta int64) (int64, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// GetByPrefix returns every pair whose key starts with prefix.
	// Ordering is backend dependent (insertion order for SQLite and memory).
	GetByPrefix(ctx context.Context, prefix string) ([]KV, error)

	// Close releases any resources held by the store.
	Close() error
}
