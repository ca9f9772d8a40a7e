package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/waitlist/internal/metrics"
)

// DefaultDeliveryTimeout bounds a single Append call made by the worker.
const DefaultDeliveryTimeout = 15 * time.Second

// Dispatcher queues rows and hands them to a Sink from one background worker.
// Enqueue never blocks: when the queue is full the row is dropped and counted.
type Dispatcher struct {
	sink    Sink
	queue   chan Row
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher creates a dispatcher with room for size pending rows.
// Call Start before enqueueing and Close on shutdown.
func NewDispatcher(sink Sink, size int) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	return &Dispatcher{
		sink:    sink,
		queue:   make(chan Row, size),
		timeout: DefaultDeliveryTimeout,
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start() {
	go d.run()
}

// Enqueue schedules row for delivery and reports whether it was accepted.
func (d *Dispatcher) Enqueue(row Row) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	select {
	case d.queue <- row:
		return true
	default:
		slog.Warn("Notification queue full, dropping row", "sink", d.sink.Name(), "email", row.Email)
		metrics.NotificationsTotal.WithLabelValues(d.sink.Name(), metrics.ResultDropped).Inc()
		return false
	}
}

// Close stops intake and waits for queued rows to drain or ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for row := range d.queue {
		d.deliver(row)
	}
}

func (d *Dispatcher) deliver(row Row) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sink.Append(ctx, row); err != nil {
		slog.Warn("Signup notification failed", "sink", d.sink.Name(), "email", row.Email, "error", err)
		metrics.NotificationsTotal.WithLabelValues(d.sink.Name(), metrics.ResultFailed).Inc()
		return
	}
	metrics.NotificationsTotal.WithLabelValues(d.sink.Name(), metrics.ResultOK).Inc()
}
