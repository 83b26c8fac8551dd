package infrastructure

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"parallel-reduction/internal/domain"
	"parallel-reduction/pkg/reduction"
)

// RandomWorkloadProvider generates workloads in parallel; each worker fills
// its own chunk from its own seeded source.
type RandomWorkloadProvider struct {
	logger  *zap.Logger
	workers int
	points  domain.SourceFactory
	numbers domain.SourceFactory
}

// NewRandomWorkloadProvider draws point coordinates from [-1, 1) and byte values from [0, 10).
func NewRandomWorkloadProvider(logger *zap.Logger, workers int, seed uint64) *RandomWorkloadProvider {
	return &RandomWorkloadProvider{
		logger:  logger,
		workers: workers,
		points:  NewUniformSources(-1, 1, seed),
		numbers: NewUniformSources(0, 10, seed),
	}
}

func (p *RandomWorkloadProvider) Points(ctx context.Context, n int, trial int) ([]domain.Point, error) {
	points := make([]domain.Point, n)
	err := p.fill(ctx, n, func(c reduction.Chunk) {
		src := p.points.ForWorker(c.Worker, trial)
		for i := c.Start; i < c.End; i++ {
			points[i] = domain.Point{X: src.Rand(), Y: src.Rand()}
		}
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (p *RandomWorkloadProvider) Numbers(ctx context.Context, n int) ([]byte, error) {
	numbers := make([]byte, n)
	err := p.fill(ctx, n, func(c reduction.Chunk) {
		src := p.numbers.ForWorker(c.Worker, 0)
		for i := c.Start; i < c.End; i++ {
			numbers[i] = byte(src.Rand())
		}
	})
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

func (p *RandomWorkloadProvider) fill(ctx context.Context, n int, fn func(reduction.Chunk)) error {
	chunks, err := reduction.Partition(n, p.workers)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, c := range chunks {
		wg.Add(1)
		go func(c reduction.Chunk) {
			defer wg.Done()
			fn(c)
		}(c)
	}
	wg.Wait()

	p.logger.Debug("Workload generated", zap.Int("size", n), zap.Int("workers", p.workers))
	return ctx.Err()
}

// FileWorkloadProvider reads workloads from files and falls back to another
// provider when no file is configured. File workloads ignore the requested size.
type FileWorkloadProvider struct {
	reader      domain.WorkloadReader
	pointsFile  string
	numbersFile string
	fallback    domain.WorkloadProvider
}

func NewFileWorkloadProvider(reader domain.WorkloadReader, pointsFile, numbersFile string, fallback domain.WorkloadProvider) *FileWorkloadProvider {
	return &FileWorkloadProvider{
		reader:      reader,
		pointsFile:  pointsFile,
		numbersFile: numbersFile,
		fallback:    fallback,
	}
}

func (p *FileWorkloadProvider) Points(ctx context.Context, n int, trial int) ([]domain.Point, error) {
	if p.pointsFile == "" {
		return p.fallback.Points(ctx, n, trial)
	}
	return p.reader.ReadPoints(p.pointsFile)
}

func (p *FileWorkloadProvider) Numbers(ctx context.Context, n int) ([]byte, error) {
	if p.numbersFile == "" {
		return p.fallback.Numbers(ctx, n)
	}
	return p.reader.ReadNumbers(p.numbersFile)
}
