package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"parallel-reduction/internal/domain"
	"parallel-reduction/pkg/reduction"
)

// Dependencies are the collaborators of a ReductionBenchmark. Runs and
// Histograms are optional.
type Dependencies struct {
	Provider     domain.WorkloadProvider
	Fingerprints domain.Fingerprinter
	Runs         domain.RunRepository
	Histograms   domain.HistogramWriter
}

// EstimatorSummary aggregates the estimates of all trials.
type EstimatorSummary struct {
	Trials   int
	Mean     float64
	StdDev   float64
	AbsError float64
}

// ReductionBenchmark times the sequential baselines against every selected
// merge strategy and checks that they agree.
type ReductionBenchmark struct {
	logger *zap.Logger
	config *domain.Config
	engine *reduction.Engine
	timer  *TimingReporter
	deps   Dependencies
}

func NewReductionBenchmark(logger *zap.Logger, config *domain.Config, deps Dependencies) *ReductionBenchmark {
	opts := reduction.Options{}.
		WithWorkers(config.Workers).
		WithQueueCapacity(config.QueueCapacity).
		WithSpinTimeout(config.SpinTimeout)

	return &ReductionBenchmark{
		logger: logger,
		config: config,
		engine: reduction.NewEngine(logger, opts),
		timer:  NewTimingReporter(logger),
		deps:   deps,
	}
}

// Run executes the reductions selected by the configured mode.
func (b *ReductionBenchmark) Run(ctx context.Context) ([]domain.RunRecord, *EstimatorSummary, error) {
	var (
		records []domain.RunRecord
		summary *EstimatorSummary
	)

	if b.config.RunsEstimator() {
		runs, s, err := b.RunEstimator(ctx)
		records = append(records, runs...)
		if err != nil {
			return records, nil, err
		}
		summary = &s
	}

	if b.config.RunsSummation() {
		runs, err := b.RunSummation(ctx)
		records = append(records, runs...)
		if err != nil {
			return records, summary, err
		}
	}

	return records, summary, nil
}

// RunEstimator runs the configured number of trials, each on a fresh sample.
func (b *ReductionBenchmark) RunEstimator(ctx context.Context) ([]domain.RunRecord, EstimatorSummary, error) {
	strategies, err := b.config.GetStrategies()
	if err != nil {
		return nil, EstimatorSummary{}, err
	}

	var (
		records   []domain.RunRecord
		estimates []float64
	)
	for trial := 0; trial < b.config.Trials; trial++ {
		points, err := b.deps.Provider.Points(ctx, b.config.Samples, trial)
		if err != nil {
			return records, EstimatorSummary{}, err
		}
		fingerprint := b.deps.Fingerprints.Points(points)

		var serial float64
		elapsed, err := b.timer.Time("sequential", func() (err error) {
			serial, err = EstimatePiSequential(points)
			return err
		}, zap.String("kind", domain.KindPi), zap.Int("trial", trial))
		if err != nil {
			return records, EstimatorSummary{}, err
		}
		records = append(records, b.record(ctx, domain.KindPi, domain.MethodSerial, 1, len(points), trial, serial, elapsed, fingerprint))

		for _, s := range strategies {
			var estimate float64
			elapsed, err := b.timer.Time("parallel", func() (err error) {
				estimate, err = EstimatePi(ctx, b.engine, points, s)
				return err
			}, zap.String("kind", domain.KindPi), zap.Stringer("strategy", s), zap.Int("trial", trial))
			if err != nil {
				return records, EstimatorSummary{}, err
			}
			records = append(records, b.record(ctx, domain.KindPi, s.String(), b.engine.Workers(), len(points), trial, estimate, elapsed, fingerprint))

			// Подсчёт целочисленный, поэтому результаты должны совпадать точно
			if estimate != serial {
				return records, EstimatorSummary{}, fmt.Errorf("%w: pi %s=%v serial=%v", domain.ErrResultMismatch, s, estimate, serial)
			}
		}
		estimates = append(estimates, serial)
	}

	summary := summarize(estimates)
	b.logger.Info("Estimator summary",
		zap.Int("trials", summary.Trials),
		zap.Float64("mean", summary.Mean),
		zap.Float64("stddev", summary.StdDev),
		zap.Float64("abs_error", summary.AbsError))
	return records, summary, nil
}

// RunSummation sums one byte workload sequentially and with every strategy.
func (b *ReductionBenchmark) RunSummation(ctx context.Context) ([]domain.RunRecord, error) {
	strategies, err := b.config.GetStrategies()
	if err != nil {
		return nil, err
	}

	numbers, err := b.deps.Provider.Numbers(ctx, b.config.Numbers)
	if err != nil {
		return nil, err
	}
	fingerprint := b.deps.Fingerprints.Numbers(numbers)
	b.writeHistogram(numbers)

	var (
		records []domain.RunRecord
		serial  int64
	)
	elapsed, _ := b.timer.Time("sequential", func() error {
		serial = SumBytesSequential(numbers)
		return nil
	}, zap.String("kind", domain.KindSum))
	records = append(records, b.record(ctx, domain.KindSum, domain.MethodSerial, 1, len(numbers), 0, float64(serial), elapsed, fingerprint))

	for _, s := range strategies {
		var sum int64
		elapsed, err := b.timer.Time("parallel", func() (err error) {
			sum, err = SumBytes(ctx, b.engine, numbers, s)
			return err
		}, zap.String("kind", domain.KindSum), zap.Stringer("strategy", s))
		if err != nil {
			return records, err
		}
		records = append(records, b.record(ctx, domain.KindSum, s.String(), b.engine.Workers(), len(numbers), 0, float64(sum), elapsed, fingerprint))

		if sum != serial {
			return records, fmt.Errorf("%w: sum %s=%d serial=%d", domain.ErrResultMismatch, s, sum, serial)
		}
	}

	return records, nil
}

func (b *ReductionBenchmark) record(ctx context.Context, kind, method string, workers, size, trial int, result float64, elapsed time.Duration, fingerprint string) domain.RunRecord {
	run := domain.RunRecord{
		Kind:        kind,
		Method:      method,
		Workers:     workers,
		Size:        size,
		Trial:       trial,
		Result:      result,
		Elapsed:     elapsed,
		Fingerprint: fingerprint,
		StartedAt:   time.Now().Add(-elapsed),
	}

	if b.deps.Runs != nil {
		if err := b.deps.Runs.Save(ctx, run); err != nil {
			b.logger.Error("Failed to save run", zap.String("kind", kind), zap.String("method", method), zap.Error(err))
		}
	}
	return run
}

func (b *ReductionBenchmark) writeHistogram(numbers []byte) {
	if b.deps.Histograms == nil || b.config.HistogramFile == "" {
		return
	}
	hist, err := domain.ByteHistogram(numbers, 0, 0, 10)
	if err != nil {
		b.logger.Warn("Histogram skipped", zap.Error(err))
		return
	}
	if err := b.deps.Histograms.WriteHistogram(b.config.HistogramFile, &hist); err != nil {
		b.logger.Error("Failed to write histogram", zap.String("file", b.config.HistogramFile), zap.Error(err))
	}
}

func summarize(estimates []float64) EstimatorSummary {
	summary := EstimatorSummary{Trials: len(estimates)}
	if len(estimates) == 0 {
		return summary
	}
	if len(estimates) == 1 {
		summary.Mean = estimates[0]
	} else {
		summary.Mean, summary.StdDev = stat.MeanStdDev(estimates, nil)
	}
	summary.AbsError = math.Abs(summary.Mean - math.Pi)
	return summary
}
