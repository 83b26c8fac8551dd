package reduction

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// coordinator is the worker that owns the accumulator under QueueMerge.
const coordinator = 0

// merger owns the global accumulator for one reduction.
type merger[R Number] interface {
	// publish hands a worker's local result to the accumulator.
	publish(ctx context.Context, worker int, local R) error
	// result is only valid once every publish has returned.
	result() R
}

func newMerger[R Number](strategy Strategy, workers, capacity int, spinTimeout time.Duration) (merger[R], error) {
	switch strategy {
	case CriticalMerge:
		return &criticalMerge[R]{}, nil
	case QueueMerge:
		m, err := newQueueMerge[R](workers, capacity, spinTimeout)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: unknown merge strategy %s", ErrInvalidArgument, strategy)
	}
}

type criticalMerge[R Number] struct {
	mu    sync.Mutex
	total R
}

func (m *criticalMerge[R]) publish(_ context.Context, _ int, local R) error {
	m.mu.Lock()
	m.total += local
	m.mu.Unlock()
	return nil
}

func (m *criticalMerge[R]) result() R {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// queueMerge: producers enqueue exactly once; the coordinator is the only
// writer of total and stops after exactly producers messages.
type queueMerge[R Number] struct {
	queue       *BoundedQueue[R]
	producers   int
	spinTimeout time.Duration

	received int
	total    R
}

// newQueueMerge sizes the queue for workers-1 producers. A capacity of zero
// means exactly workers-1; anything smaller is rejected up front, since a
// dropped message would leave the coordinator waiting forever.
func newQueueMerge[R Number](workers, capacity int, spinTimeout time.Duration) (*queueMerge[R], error) {
	producers := workers - 1
	if capacity <= 0 {
		capacity = producers
	}
	if capacity < producers {
		return nil, fmt.Errorf("%w: capacity %d cannot hold %d producer messages",
			ErrQueueOverflow, capacity, producers)
	}

	queue, err := NewBoundedQueue[R](max(capacity, 1))
	if err != nil {
		return nil, err
	}
	return &queueMerge[R]{
		queue:       queue,
		producers:   producers,
		spinTimeout: spinTimeout,
	}, nil
}

func (m *queueMerge[R]) publish(ctx context.Context, worker int, local R) error {
	if worker != coordinator {
		if err := m.queue.Enqueue(local); err != nil {
			return fmt.Errorf("worker %d: %w", worker, err)
		}
		return nil
	}

	m.total += local

	var deadline time.Time
	if m.spinTimeout > 0 {
		deadline = time.Now().Add(m.spinTimeout)
	}
	ready := func() bool { return !m.queue.IsEmpty() }

	for m.received < m.producers {
		if err := spinUntil(ctx, deadline, ready); err != nil {
			return fmt.Errorf("coordinator after %d of %d messages: %w", m.received, m.producers, err)
		}
		v, err := m.queue.Dequeue()
		if err != nil {
			return err
		}
		m.total += v
		m.received++
	}
	return nil
}

func (m *queueMerge[R]) result() R {
	return m.total
}
