package reduction

import "errors"

var (
	// ErrInvalidArgument is returned for malformed partition requests and options.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrQueueOverflow is returned when an enqueue hits a full BoundedQueue or when
	// the configured capacity cannot hold every producer message.
	ErrQueueOverflow = errors.New("queue overflow")
	// ErrQueueUnderflow is returned by Dequeue on an empty BoundedQueue.
	ErrQueueUnderflow = errors.New("queue underflow")
	// ErrTimedOut is returned when the queue coordinator spins past its deadline.
	ErrTimedOut = errors.New("timed out waiting for producers")
)
