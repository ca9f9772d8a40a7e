package memory

import (
	"context"
	"testing"

	"github.com/mmynk/waitlist/internal/storage"
	"github.com/mmynk/waitlist/internal/storage/storagetest"
)

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return New()
	})
}

func TestIncrRejectsNonInteger(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Set(ctx, "count", "abc")

	if _, err := s.Incr(ctx, "count", 1); err == nil {
		t.Error("expected error incrementing a non-integer value")
	}
}

func TestDeleteKeepsOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, k := range []string{"k:1", "k:2", "k:3"} {
		_ = s.Set(ctx, k, k)
	}
	_ = s.Delete(ctx, "k:2")
	_ = s.Set(ctx, "k:2", "again")

	pairs, _ := s.GetByPrefix(ctx, "k:")
	want := []string{"k:1", "k:3", "k:2"}
	if len(pairs) != len(want) {
		t.Fatalf("pairs: got %d, want %d", len(pairs), len(want))
	}
	for i, k := range want {
		if pairs[i].Key != k {
			t.Errorf("pairs[%d]: got %s, want %s", i, pairs[i].Key, k)
		}
	}
}
