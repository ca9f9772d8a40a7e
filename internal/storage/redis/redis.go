// Package redis provides a Redis-backed implementation of the storage.Store interface.
//
// Uniqueness and counting map onto native commands: SetIfAbsent is SETNX and Incr is
// INCRBY, both atomic on the server. Prefix scans use SCAN and therefore carry no
// insertion order; keys come back sorted.
package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mediocregopher/radix/v3"

	"github.com/mmynk/waitlist/internal/storage"
)

// Ensure RedisStore implements storage.Store
var _ storage.Store = (*RedisStore)(nil)

// RedisStore implements storage.Store on top of a radix client.
type RedisStore struct {
	client    radix.Client
	namespace string
}

// New dials a connection pool to addr. Every key is stored under namespace,
// which lets several deployments (or tests) share one Redis.
func New(addr string, poolSize int, namespace string) (*RedisStore, error) {
	pool, err := radix.NewPool("tcp", addr, poolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewWithClient(pool, namespace), nil
}

// NewWithClient wraps an existing radix client.
func NewWithClient(client radix.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

// Close closes the underlying pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks that Redis answers.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Do(radix.Cmd(nil, "PING"))
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	mn := radix.MaybeNil{Rcv: &value}
	if err := s.client.Do(radix.Cmd(&mn, "GET", s.key(key))); err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if mn.Nil {
		return "", false, nil
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Do(radix.Cmd(nil, "SET", s.key(key), value)); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	var created int
	if err := s.client.Do(radix.Cmd(&created, "SETNX", s.key(key), value)); err != nil {
		return false, fmt.Errorf("failed to insert key %s: %w", key, err)
	}
	return created == 1, nil
}

func (s *RedisStore) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	var value int64
	if err := s.client.Do(radix.Cmd(&value, "INCRBY", s.key(key), strconv.FormatInt(delta, 10))); err != nil {
		return 0, fmt.Errorf("failed to increment key %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Do(radix.Cmd(nil, "DEL", s.key(key))); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) GetByPrefix(ctx context.Context, prefix string) ([]storage.KV, error) {
	scanner := radix.NewScanner(s.client, radix.ScanOpts{
		Command: "SCAN",
		Pattern: globEscape(s.key(prefix)) + "*",
		Count:   500,
	})

	var keys []string
	var key string
	for scanner.Next(&key) {
		keys = append(keys, key)
	}
	if err := scanner.Close(); err != nil {
		return nil, fmt.Errorf("failed to scan prefix %s: %w", prefix, err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	values := make([]string, len(keys))
	misses := make([]radix.MaybeNil, len(keys))
	cmds := make([]radix.CmdAction, len(keys))
	for i, k := range keys {
		misses[i] = radix.MaybeNil{Rcv: &values[i]}
		cmds[i] = radix.Cmd(&misses[i], "GET", k)
	}
	if err := s.client.Do(radix.Pipeline(cmds...)); err != nil {
		return nil, fmt.Errorf("failed to read prefix %s: %w", prefix, err)
	}

	pairs := make([]storage.KV, 0, len(keys))
	for i, k := range keys {
		// Deleted between SCAN and GET.
		if misses[i].Nil {
			continue
		}
		pairs = append(pairs, storage.KV{
			Key:   strings.TrimPrefix(k, s.namespace),
			Value: values[i],
		})
	}
	return pairs, nil
}

func (s *RedisStore) key(k string) string {
	return s.namespace + k
}

// globEscape escapes the SCAN MATCH metacharacters in s.
func globEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
