package reduction

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestQueueMergeProducerOverflow reports a full queue instead of dropping the message.
func TestQueueMergeProducerOverflow(t *testing.T) {
	m, err := newQueueMerge[int](3, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	_ = m.queue.Enqueue(1)
	_ = m.queue.Enqueue(2)

	if err := m.publish(context.Background(), 1, 5); !errors.Is(err, ErrQueueOverflow) {
		t.Fatalf("error = %v, want ErrQueueOverflow", err)
	}
}

// TestQueueMergeDefaultCapacity sizes the queue for exactly workers-1 producers.
func TestQueueMergeDefaultCapacity(t *testing.T) {
	m, err := newQueueMerge[int](5, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if m.queue.Cap() != 4 || m.producers != 4 {
		t.Fatalf("capacity %d producers %d, want 4 and 4", m.queue.Cap(), m.producers)
	}
}

// TestQueueMergeCoordinatorTimesOut stops spinning at the deadline.
func TestQueueMergeCoordinatorTimesOut(t *testing.T) {
	m, err := newQueueMerge[int](3, 0, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	_ = m.queue.Enqueue(7)

	err = m.publish(context.Background(), coordinator, 1)
	if !errors.Is(err, ErrTimedOut) {
		t.Fatalf("error = %v, want ErrTimedOut", err)
	}
	if m.received != 1 {
		t.Fatalf("received = %d, want 1", m.received)
	}
}

// TestQueueMergeCoordinatorCanceled returns once the context is canceled.
func TestQueueMergeCoordinatorCanceled(t *testing.T) {
	m, err := newQueueMerge[int](2, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := m.publish(ctx, coordinator, 1); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
}

// TestCriticalMergeConcurrentPublish adds from many goroutines under the mutex.
func TestCriticalMergeConcurrentPublish(t *testing.T) {
	m := &criticalMerge[float64]{}
	done := make(chan struct{})
	for i := 0; i < 16; i++ {
		go func(i int) {
			_ = m.publish(context.Background(), i, 0.5)
			done <- struct{}{}
		}(i)
	}
	for i := 0; i < 16; i++ {
		<-done
	}
	if m.result() != 8 {
		t.Fatalf("result = %v, want 8", m.result())
	}
}

// TestParseStrategy accepts configuration names and rejects unknown ones.
func TestParseStrategy(t *testing.T) {
	cases := map[string]Strategy{"critical": CriticalMerge, "Mutex": CriticalMerge, " queue ": QueueMerge}
	for name, want := range cases {
		got, err := ParseStrategy(name)
		if err != nil || got != want {
			t.Errorf("ParseStrategy(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseStrategy("atomic"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseStrategy(atomic) error = %v", err)
	}
	if QueueMerge.String() != "queue" || Strategy(9).String() != "strategy(9)" {
		t.Errorf("unexpected String(): %s %s", QueueMerge, Strategy(9))
	}
}
