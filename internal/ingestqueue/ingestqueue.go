// Package ingestqueue holds the bounded, in-memory buffers that sit
// between the collector's HTTP handlers and the batch flusher, per
// spec.md §4.F. It mirrors metrics_collector/database.py's two
// queue.Queue instances, but with a fixed capacity: a full queue
// rejects a Put rather than growing without bound.
package ingestqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/moniflow/backend/internal/models"
)

const defaultCapacity = 10000

// Queue is a bounded channel-backed FIFO of T.
type Queue[T any] struct {
	items chan T
}

// New creates a queue with the given capacity. A non-positive capacity
// falls back to defaultCapacity.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Queue[T]{items: make(chan T, capacity)}
}

// Put enqueues item without blocking. A full queue returns
// models.ErrServiceUnavailable, which handlers translate to a 503.
func (q *Queue[T]) Put(item T) error {
	select {
	case q.items <- item:
		return nil
	default:
		return fmt.Errorf("%w: ingest queue is full", models.ErrServiceUnavailable)
	}
}

// Get blocks for up to timeout waiting for one item. The bool is false
// on timeout, matching queue.Queue.get(timeout=1)'s queue.Empty path.
func (q *Queue[T]) Get(timeout time.Duration) (T, bool) {
	select {
	case item := <-q.items:
		return item, true
	case <-time.After(timeout):
		var zero T
		return zero, false
	}
}

// GetContext behaves like Get but also returns early, with ok false,
// if ctx is canceled first. Flushers use this so a process shutdown
// doesn't have to wait out a full timeout on an empty queue.
func (q *Queue[T]) GetContext(ctx context.Context, timeout time.Duration) (T, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case item := <-q.items:
		return item, true
	case <-timer.C:
		var zero T
		return zero, false
	case <-ctx.Done():
		var zero T
		return zero, false
	}
}

// Len reports the number of items currently buffered.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Queues bundles the metric and log ingest queues the collector uses.
type Queues struct {
	Metrics *Queue[models.MetricSample]
	Logs    *Queue[models.LogEvent]
}

// NewQueues builds both queues with the given per-queue capacity.
func NewQueues(capacity int) *Queues {
	return &Queues{
		Metrics: New[models.MetricSample](capacity),
		Logs:    New[models.LogEvent](capacity),
	}
}
