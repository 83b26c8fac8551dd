package reduction

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// BoundedQueue is a fixed-capacity circular buffer used by the queue merge.
//
// Producers may enqueue concurrently; they are serialised by mu and only touch
// rear. Dequeue belongs to a single consumer, which alone touches front and
// never takes the lock. size is the only field shared by both sides and is
// published atomically, which also orders the slot writes and reads.
type BoundedQueue[T any] struct {
	mu   sync.Mutex
	rear int
	_    cpu.CacheLinePad // producer side on its own line

	front int
	_     cpu.CacheLinePad // consumer side on its own line

	size     atomic.Int64
	capacity int
	buf      []T
}

// NewBoundedQueue allocates a queue holding at most capacity items.
func NewBoundedQueue[T any](capacity int) (*BoundedQueue[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: queue capacity %d is below 1", ErrInvalidArgument, capacity)
	}
	return &BoundedQueue[T]{
		rear:     capacity - 1, // enqueue advances rear before writing
		capacity: capacity,
		buf:      make([]T, capacity),
	}, nil
}

// Cap returns the fixed capacity.
func (q *BoundedQueue[T]) Cap() int {
	return q.capacity
}

// Len returns the number of queued items.
func (q *BoundedQueue[T]) Len() int {
	return int(q.size.Load())
}

// IsEmpty reports whether the queue holds no items.
func (q *BoundedQueue[T]) IsEmpty() bool {
	return q.size.Load() == 0
}

// IsFull reports whether the queue holds capacity items.
func (q *BoundedQueue[T]) IsFull() bool {
	return q.size.Load() == int64(q.capacity)
}

// Enqueue appends item. On a full queue it returns ErrQueueOverflow and leaves
// the queue untouched.
func (q *BoundedQueue[T]) Enqueue(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	// size only shrinks under us (the consumer), so this check is conservative.
	if q.IsFull() {
		return fmt.Errorf("%w: capacity %d reached", ErrQueueOverflow, q.capacity)
	}
	q.rear = (q.rear + 1) % q.capacity
	q.buf[q.rear] = item
	q.size.Add(1)
	return nil
}

// Dequeue removes the oldest item. On an empty queue it returns the zero value
// and ErrQueueUnderflow without blocking. Only one goroutine may dequeue.
func (q *BoundedQueue[T]) Dequeue() (T, error) {
	var zero T
	if q.IsEmpty() {
		return zero, ErrQueueUnderflow
	}
	item := q.buf[q.front]
	q.buf[q.front] = zero
	q.front = (q.front + 1) % q.capacity
	q.size.Add(-1)
	return item, nil
}
