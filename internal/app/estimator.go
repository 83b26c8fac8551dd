package app

import (
	"context"
	"fmt"

	"parallel-reduction/internal/domain"
	"parallel-reduction/pkg/reduction"
)

// EstimatePi counts the points inside the unit disk in parallel and returns
// 4·inside/N. Points are expected to cover the square [-1, 1)².
func EstimatePi(ctx context.Context, engine *reduction.Engine, points []domain.Point, strategy reduction.Strategy) (float64, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: no samples to estimate from", reduction.ErrInvalidArgument)
	}
	inside, err := reduction.Reduce(ctx, engine, points, domain.InUnitDisk, strategy)
	if err != nil {
		return 0, err
	}
	return 4 * float64(inside) / float64(len(points)), nil
}

// EstimatePiSequential is the single-threaded baseline for EstimatePi.
func EstimatePiSequential(points []domain.Point) (float64, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: no samples to estimate from", reduction.ErrInvalidArgument)
	}
	var inside int64
	for _, p := range points {
		inside += domain.InUnitDisk(p)
	}
	return 4 * float64(inside) / float64(len(points)), nil
}
