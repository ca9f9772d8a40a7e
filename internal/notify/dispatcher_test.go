package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/waitlist/internal/metrics"
)

type recordingSink struct {
	name  string
	err   error
	block chan struct{}

	mu   sync.Mutex
	rows []Row
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Append(ctx context.Context, row Row) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func TestDispatcherDelivers(t *testing.T) {
	sink := &recordingSink{name: "test-deliver"}
	d := NewDispatcher(sink, 8)
	d.Start()

	for _, email := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		if !d.Enqueue(Row{Email: email}) {
			t.Fatalf("Enqueue(%s) rejected", email)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if sink.count() != 3 {
		t.Errorf("delivered: got %d, want 3", sink.count())
	}
	if sink.rows[0].Email != "a@x.io" {
		t.Errorf("order: first row %s", sink.rows[0].Email)
	}
	if got := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("test-deliver", metrics.ResultOK)); got != 3 {
		t.Errorf("ok metric: got %v, want 3", got)
	}
}

func TestDispatcherSwallowsSinkErrors(t *testing.T) {
	sink := &recordingSink{name: "test-failing", err: errors.New("sheets down")}
	d := NewDispatcher(sink, 2)
	d.Start()

	d.Enqueue(Row{Email: "a@x.io"})
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if got := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("test-failing", metrics.ResultFailed)); got != 1 {
		t.Errorf("failed metric: got %v, want 1", got)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &recordingSink{name: "test-full"}
	d := NewDispatcher(sink, 1)

	// Worker not started: the single slot fills up.
	if !d.Enqueue(Row{Email: "first@x.io"}) {
		t.Fatal("first Enqueue should be accepted")
	}
	if d.Enqueue(Row{Email: "second@x.io"}) {
		t.Error("second Enqueue should be dropped")
	}

	d.Start()
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if sink.count() != 1 {
		t.Errorf("delivered: got %d, want 1", sink.count())
	}
	if got := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("test-full", metrics.ResultDropped)); got != 1 {
		t.Errorf("dropped metric: got %v, want 1", got)
	}
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(&recordingSink{name: "test-closed"}, 1)
	d.Start()
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d.Enqueue(Row{Email: "late@x.io"}) {
		t.Error("Enqueue after Close should be rejected")
	}
	// Second Close is harmless.
	if err := d.Close(context.Background()); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestDispatcherCloseHonorsDeadline(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	d := NewDispatcher(&recordingSink{name: "test-slow", block: block}, 1)
	d.Start()
	d.Enqueue(Row{Email: "slow@x.io"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := d.Close(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
