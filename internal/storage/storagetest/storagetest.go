// Package storagetest holds behavior tests every storage.Store backend must pass.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/mmynk/waitlist/internal/storage"
)

// Run exercises store semantics against a fresh store from newStore for each subtest.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get missing key", func(t *testing.T) {
		s := newStore(t)
		_, found, err := s.Get(ctx, "nope")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if found {
			t.Error("expected missing key to be reported as not found")
		}
	})

	t.Run("Set then Get", func(t *testing.T) {
		s := newStore(t)
		if err := s.Set(ctx, "a", "1"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := s.Set(ctx, "a", "2"); err != nil {
			t.Fatalf("Set overwrite failed: %v", err)
		}
		v, found, err := s.Get(ctx, "a")
		if err != nil || !found {
			t.Fatalf("Get: found=%v err=%v", found, err)
		}
		if v != "2" {
			t.Errorf("value: got %q, want %q", v, "2")
		}
	})

	t.Run("SetIfAbsent only writes once", func(t *testing.T) {
		s := newStore(t)
		created, err := s.SetIfAbsent(ctx, "email:a@b.com", "id-1")
		if err != nil || !created {
			t.Fatalf("first SetIfAbsent: created=%v err=%v", created, err)
		}
		created, err = s.SetIfAbsent(ctx, "email:a@b.com", "id-2")
		if err != nil {
			t.Fatalf("second SetIfAbsent failed: %v", err)
		}
		if created {
			t.Error("second SetIfAbsent should not create")
		}
		v, _, _ := s.Get(ctx, "email:a@b.com")
		if v != "id-1" {
			t.Errorf("value: got %q, want %q", v, "id-1")
		}
	})

	t.Run("SetIfAbsent concurrent", func(t *testing.T) {
		s := newStore(t)
		const workers = 16
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			winners int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				created, err := s.SetIfAbsent(ctx, "race", fmt.Sprint(i))
				if err != nil {
					t.Errorf("SetIfAbsent failed: %v", err)
					return
				}
				if created {
					mu.Lock()
					winners++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		if winners != 1 {
			t.Errorf("winners: got %d, want 1", winners)
		}
	})

	t.Run("Incr from missing and existing", func(t *testing.T) {
		s := newStore(t)
		n, err := s.Incr(ctx, "count", 1)
		if err != nil {
			t.Fatalf("Incr failed: %v", err)
		}
		if n != 1 {
			t.Errorf("first Incr: got %d, want 1", n)
		}
		n, err = s.Incr(ctx, "count", 5)
		if err != nil {
			t.Fatalf("Incr failed: %v", err)
		}
		if n != 6 {
			t.Errorf("second Incr: got %d, want 6", n)
		}
		v, _, _ := s.Get(ctx, "count")
		if v != "6" {
			t.Errorf("stored value: got %q, want %q", v, "6")
		}
	})

	t.Run("Incr concurrent has no lost updates", func(t *testing.T) {
		s := newStore(t)
		const workers = 25
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.Incr(ctx, "count", 1); err != nil {
					t.Errorf("Incr failed: %v", err)
				}
			}()
		}
		wg.Wait()
		v, _, _ := s.Get(ctx, "count")
		if v != fmt.Sprint(workers) {
			t.Errorf("count: got %q, want %d", v, workers)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		_ = s.Set(ctx, "gone", "x")
		if err := s.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := s.Delete(ctx, "never-existed"); err != nil {
			t.Fatalf("Delete of missing key failed: %v", err)
		}
		if _, found, _ := s.Get(ctx, "gone"); found {
			t.Error("expected key to be deleted")
		}
	})

	t.Run("GetByPrefix filters by prefix", func(t *testing.T) {
		s := newStore(t)
		for _, kv := range []storage.KV{
			{Key: "waitlist:signup:1", Value: "one"},
			{Key: "waitlist:email:x@y.z", Value: "1"},
			{Key: "waitlist:signup:2", Value: "two"},
			{Key: "waitlist:signups", Value: "not a match"},
			{Key: "waitlist:signup:3", Value: "three"},
		} {
			if err := s.Set(ctx, kv.Key, kv.Value); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
		}

		pairs, err := s.GetByPrefix(ctx, "waitlist:signup:")
		if err != nil {
			t.Fatalf("GetByPrefix failed: %v", err)
		}
		if len(pairs) != 3 {
			t.Fatalf("pairs: got %d, want 3 (%v)", len(pairs), pairs)
		}
		seen := map[string]string{}
		for _, kv := range pairs {
			seen[kv.Key] = kv.Value
		}
		if seen["waitlist:signup:2"] != "two" {
			t.Errorf("missing or wrong value for signup:2: %v", seen)
		}

		none, err := s.GetByPrefix(ctx, "waitlist:by_date:")
		if err != nil {
			t.Fatalf("GetByPrefix failed: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("expected no pairs, got %d", len(none))
		}
	})
}
