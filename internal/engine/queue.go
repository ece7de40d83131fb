package engine

import (
	"context"
	"sync"
)

// queue is a thread-safe unbounded FIFO.
//
// The engine uses one queue for intents (many producers, one consumer) and
// one for revision notifications (one producer, any number of consumers).
// Push never blocks. There is no capacity limit, so a producer that outpaces
// the run loop grows memory without bound.
//
// A buffered signal channel of size 1 lets consumers wait in a select
// alongside ctx.Done(). Multiple pushes coalesce into one signal; TryPop
// re-arms the signal while items remain so concurrent consumers never sleep
// on a non-empty queue.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	signal chan struct{}
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{
		items:  make([]T, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Push appends v. Returns false if the queue is closed.
func (q *queue[T]) Push(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, v)
	q.notify()
	return true
}

// TryPop removes the front item without blocking.
func (q *queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	v := q.items[0]
	// Clear the slot so the backing array does not pin popped values.
	q.items[0] = zero
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
		q.notify()
	}
	return v, true
}

// Pop removes the front item, blocking until one is available.
// Returns ErrClosed once the queue is closed and drained, or ctx.Err().
func (q *queue[T]) Pop(ctx context.Context) (T, error) {
	for {
		if v, ok := q.TryPop(); ok {
			return v, nil
		}
		if q.drained() {
			var zero T
			return zero, ErrClosed
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-q.signal:
		}
	}
}

// Wait returns a channel that fires when items may be available. It is
// closed, and so fires forever, once the queue is closed.
func (q *queue[T]) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued items.
func (q *queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting items and wakes all waiters.
// Items already queued can still be popped.
func (q *queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}

// drained reports whether the queue is closed and empty.
func (q *queue[T]) drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.items) == 0
}

// notify performs a non-blocking send on the signal channel.
// Caller must hold q.mu and the queue must be open.
func (q *queue[T]) notify() {
	if q.closed {
		return
	}
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
