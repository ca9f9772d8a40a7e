package redis

import (
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/mmynk/waitlist/internal/storage"
	"github.com/mmynk/waitlist/internal/storage/storagetest"
)

func TestGlobEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"waitlist:signup:", "waitlist:signup:"},
		{"waitlist:email:a*b@x.io", `waitlist:email:a\*b@x.io`},
		{"q?[x]", `q\?\[x\]`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := globEscape(tt.input); got != tt.want {
				t.Errorf("globEscape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestRedisStore runs against a live server when REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	storagetest.Run(t, func(t *testing.T) storage.Store {
		s, err := New(addr, 4, "waitlist-test:"+uuid.NewString()+":")
		if err != nil {
			t.Fatalf("Failed to connect: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	})
}
