package reduction

import (
	"context"

	"golang.org/x/exp/constraints"
)

// Number is the set of scalar types a reduction can produce.
type Number interface {
	constraints.Integer | constraints.Float
}

// AccumulatorFunc maps one workload element to its contribution to the sum.
type AccumulatorFunc[E any, R Number] func(E) R

// cancelCheckMask sets how often a worker polls its context (every 4096 elements).
const cancelCheckMask = 1<<12 - 1

// accumulate computes the local result of a single chunk.
func accumulate[E any, R Number](ctx context.Context, workload []E, c Chunk, fn AccumulatorFunc[E, R]) (R, error) {
	var local R
	for i, e := range workload[c.Start:c.End] {
		if i&cancelCheckMask == cancelCheckMask {
			if err := ctx.Err(); err != nil {
				return local, err
			}
		}
		local += fn(e)
	}
	return local, nil
}
