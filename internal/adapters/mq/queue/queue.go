// Package queue defines the contract for enqueuing and consuming score
// pairs during batch refreshes.
//
// The in-memory bounded queue protects the backing store from request
// storms: a full queue rejects work instead of growing without bound.
package queue

import (
	"context"
	"sync"

	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	"github.com/BrainTwoPoint0/nexus-sub002/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 10_000
)

// Pair represents the payload type flowing through the queue.
type Pair = model.ScorePair

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a pair to the queue.
	// Returns false if the queue is full or closed and the pair was not enqueued.
	Enqueue(ctx context.Context, p Pair) bool

	// Dequeue returns a channel that will receive pairs as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Pair

	// Len returns the current number of queued pairs.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue. After closing, no new pairs can
	// be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	pairs    chan Pair
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(q)
	}

	q.pairs = make(chan Pair, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a pair to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, p Pair) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.pairs <- p:
		metrics.RecordQueueEnqueue()
		q.updateGauges()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive pairs as they become available.
// If ctx is canceled while a pair is in flight, the pair is put back for
// another consumer; a pair in flight when the queue is already closed is
// dropped.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Pair {
	// Wrap the channel to track dequeue metrics.
	out := make(chan Pair)
	go func() {
		defer close(out)
		for p := range q.pairs {
			select {
			case out <- p:
				metrics.RecordQueueDequeue()
				q.updateGauges()
			case <-ctx.Done():
				q.requeue(p)
				return
			}
		}
	}()
	return out
}

// requeue returns an in-flight pair to the queue after its consumer went
// away. Best-effort: a closed or full queue drops the pair.
func (q *InMemoryQueue) requeue(p Pair) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return
	}
	select {
	case q.pairs <- p:
		q.updateGauges()
	default:
	}
}

// Len returns the current number of queued pairs.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	q.updateGauges()
	return len(q.pairs)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.pairs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) updateGauges() {
	size := len(q.pairs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
