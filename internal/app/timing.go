package app

import (
	"time"

	"go.uber.org/zap"
)

// TimingReporter measures wall-clock time around a reduction. It only
// observes; the wrapped function's result and error pass through unchanged.
type TimingReporter struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewTimingReporter(logger *zap.Logger) *TimingReporter {
	return &TimingReporter{logger: logger, now: time.Now}
}

// Time runs fn and reports how long it took. The elapsed time is returned even
// when fn fails.
func (r *TimingReporter) Time(name string, fn func() error, fields ...zap.Field) (time.Duration, error) {
	r.logger.Debug("Timing "+name, fields...)

	start := r.now()
	err := fn()
	elapsed := r.now().Sub(start)

	fields = append(fields,
		zap.String("run", name),
		zap.Duration("elapsed", elapsed),
		zap.Float64("seconds", elapsed.Seconds()))
	if err != nil {
		r.logger.Warn("Run failed", append(fields, zap.Error(err))...)
		return elapsed, err
	}
	r.logger.Info("Took", fields...)
	return elapsed, nil
}
