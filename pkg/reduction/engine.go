// Package reduction implements fork-join reductions over read-only workloads:
// the workload is split into one contiguous chunk per worker, each worker sums
// an accumulator function over its chunk, and the local results are merged
// either under a mutex or through a bounded queue drained by worker 0.
package reduction

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Options configures an Engine. The zero value uses GOMAXPROCS workers, a queue
// sized for exactly workers-1 producers and no spin deadline.
type Options struct {
	workers       int
	queueCapacity int
	spinTimeout   time.Duration
}

// WithWorkers sets the worker count. Zero or negative selects runtime.GOMAXPROCS(0).
func (o Options) WithWorkers(workers int) Options {
	o.workers = workers
	return o
}

// WithQueueCapacity sets the QueueMerge capacity. Zero or negative selects
// workers-1; a positive value below workers-1 makes QueueMerge reductions fail
// with ErrQueueOverflow before any worker starts.
func (o Options) WithQueueCapacity(capacity int) Options {
	o.queueCapacity = capacity
	return o
}

// WithSpinTimeout bounds how long the QueueMerge coordinator may spin waiting
// for producers. Zero disables the deadline.
func (o Options) WithSpinTimeout(timeout time.Duration) Options {
	o.spinTimeout = timeout
	return o
}

// Engine runs reductions with a fixed number of workers.
type Engine struct {
	logger        *zap.Logger
	workers       int
	queueCapacity int
	spinTimeout   time.Duration
}

func NewEngine(logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.workers <= 0 {
		opts.workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		logger:        logger,
		workers:       opts.workers,
		queueCapacity: opts.queueCapacity,
		spinTimeout:   opts.spinTimeout,
	}
}

// Workers returns the fixed worker count P.
func (e *Engine) Workers() int {
	return e.workers
}

// Reduce sums fn over workload with exactly e.Workers() goroutines and merges
// the local results with the given strategy. It blocks until every worker has
// finished and, for QueueMerge, until the coordinator has drained the queue.
//
// Invalid partitions and queue sizing fail before any goroutine starts. A
// failure during the parallel phase cancels the remaining workers; all
// failures are combined into the returned error and the zero value is
// returned in place of a partial sum.
func Reduce[E any, R Number](ctx context.Context, e *Engine, workload []E, fn AccumulatorFunc[E, R], strategy Strategy) (R, error) {
	var zero R
	if fn == nil {
		return zero, fmt.Errorf("%w: nil accumulator function", ErrInvalidArgument)
	}

	chunks, err := Partition(len(workload), e.workers)
	if err != nil {
		return zero, err
	}
	m, err := newMerger[R](strategy, e.workers, e.queueCapacity, e.spinTimeout)
	if err != nil {
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	e.logger.Debug("Starting reduction",
		zap.Stringer("strategy", strategy),
		zap.Int("workers", e.workers),
		zap.Int("size", len(workload)))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    error
		aborted atomic.Bool
	)
	fail := func(err error) {
		// Cancellation is a consequence of another failure or of the caller.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			aborted.Store(true)
			return
		}
		mu.Lock()
		errs = multierr.Append(errs, err)
		mu.Unlock()
		cancel()
	}

	for _, c := range chunks {
		c := c
		wg.Add(1)
		go e.worker(runCtx, c, &wg, func(ctx context.Context) error {
			local, err := accumulate(ctx, workload, c, fn)
			if err != nil {
				return fmt.Errorf("worker %d: %w", c.Worker, err)
			}
			return m.publish(ctx, c.Worker, local)
		}, fail)
	}
	wg.Wait()

	if errs != nil {
		return zero, errs
	}
	if aborted.Load() {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		return zero, context.Canceled
	}
	return m.result(), nil
}

func (e *Engine) worker(ctx context.Context, c Chunk, wg *sync.WaitGroup, run func(context.Context) error, fail func(error)) {
	defer wg.Done()

	e.logger.Debug("Starting worker",
		zap.Int("id", c.Worker),
		zap.Int("start", c.Start),
		zap.Int("end", c.End))

	if err := run(ctx); err != nil {
		fail(err)
	}
}
