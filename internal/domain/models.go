package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"parallel-reduction/pkg/reduction"
)

// Config представляет конфигурацию приложения
type Config struct {
	Workers       int           `yaml:"workers"`
	QueueCapacity int           `yaml:"queue_capacity"`
	SpinTimeout   time.Duration `yaml:"spin_timeout"`
	Samples       int           `yaml:"samples"`
	Numbers       int           `yaml:"numbers"`
	Seed          uint64        `yaml:"seed"`
	Trials        int           `yaml:"trials"`
	Strategy      string        `yaml:"strategy"`
	Mode          string        `yaml:"mode"`
	LogLevel      string        `yaml:"log_level"`
	LogFile       string        `yaml:"log_file"`
	HistoryDB     string        `yaml:"history_db"`
	ReportFile    string        `yaml:"report_file"`
	ReportFormat  string        `yaml:"report_format"`
	PointsFile    string        `yaml:"points_file"`
	NumbersFile   string        `yaml:"numbers_file"`
	HistogramFile string        `yaml:"histogram_file"`
}

// GetStrategies returns the merge strategies selected by Config.Strategy.
func (c *Config) GetStrategies() ([]reduction.Strategy, error) {
	switch strings.ToLower(c.Strategy) {
	case "", "all":
		return []reduction.Strategy{reduction.CriticalMerge, reduction.QueueMerge}, nil
	default:
		s, err := reduction.ParseStrategy(c.Strategy)
		if err != nil {
			return nil, err
		}
		return []reduction.Strategy{s}, nil
	}
}

// RunsEstimator reports whether the Monte-Carlo estimator is selected.
func (c *Config) RunsEstimator() bool {
	return c.Mode == "" || c.Mode == ModeAll || c.Mode == KindPi
}

// RunsSummation reports whether the byte summation is selected.
func (c *Config) RunsSummation() bool {
	return c.Mode == "" || c.Mode == ModeAll || c.Mode == KindSum
}

// Validate проверяет конфигурацию после применения значений по умолчанию
func (c *Config) Validate() error {
	var errs error
	if c.Workers < 1 {
		errs = multierr.Append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers))
	}
	if c.QueueCapacity != 0 && c.QueueCapacity < c.Workers-1 {
		errs = multierr.Append(errs, fmt.Errorf("%w: queue_capacity %d cannot hold %d producers",
			ErrInvalidConfig, c.QueueCapacity, c.Workers-1))
	}
	if c.SpinTimeout < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: spin_timeout is negative", ErrInvalidConfig))
	}
	if c.Samples < 1 && c.PointsFile == "" && c.RunsEstimator() {
		errs = multierr.Append(errs, fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidConfig, c.Samples))
	}
	if c.Numbers < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: numbers is negative", ErrInvalidConfig))
	}
	if c.Trials < 1 {
		errs = multierr.Append(errs, fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidConfig, c.Trials))
	}
	if _, err := c.GetStrategies(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	switch c.Mode {
	case "", ModeAll, KindPi, KindSum:
	default:
		errs = multierr.Append(errs, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode))
	}
	switch c.ReportFormat {
	case "", FormatTXT, FormatJSON:
	default:
		errs = multierr.Append(errs, fmt.Errorf("%w: unknown report format %q", ErrInvalidConfig, c.ReportFormat))
	}
	return errs
}

// Point представляет точку выборки Монте-Карло
type Point struct {
	X, Y float64
}

// InUnitDisk returns 1 when p lies inside or on the unit circle.
func InUnitDisk(p Point) int64 {
	if p.X*p.X+p.Y*p.Y <= 1 {
		return 1
	}
	return 0
}

// ByteValue returns the numeric value of a workload byte.
func ByteValue(b byte) int64 {
	return int64(b)
}

// RunRecord описывает один замер редукции
type RunRecord struct {
	Kind        string        `json:"kind"`
	Method      string        `json:"method"`
	Workers     int           `json:"workers"`
	Size        int           `json:"size"`
	Trial       int           `json:"trial"`
	Result      float64       `json:"result"`
	Elapsed     time.Duration `json:"elapsed_ns"`
	Fingerprint string        `json:"fingerprint"`
	StartedAt   time.Time     `json:"started_at"`
}

// Histogram распределение значений рабочей нагрузки
type Histogram struct {
	Bins []float64
	Vals []int
	Len  int
}

const (
	KindPi  = "pi"
	KindSum = "sum"
	ModeAll = "all"

	// MethodSerial marks the sequential baseline in run records.
	MethodSerial = "serial"

	FormatTXT  = "txt"
	FormatJSON = "json"
)

var (
	ErrInvalidFileFormat = errors.New("invalid file format")
	ErrInvalidConfig     = errors.New("invalid config")
	ErrResultMismatch    = errors.New("parallel result differs from serial result")
)
