package app

import (
	"context"

	"parallel-reduction/internal/domain"
	"parallel-reduction/pkg/reduction"
)

// SumBytes adds the numeric values of numbers in parallel.
func SumBytes(ctx context.Context, engine *reduction.Engine, numbers []byte, strategy reduction.Strategy) (int64, error) {
	return reduction.Reduce(ctx, engine, numbers, domain.ByteValue, strategy)
}

// SumBytesSequential is the single-threaded baseline for SumBytes.
func SumBytesSequential(numbers []byte) int64 {
	var sum int64
	for _, b := range numbers {
		sum += int64(b)
	}
	return sum
}
