package infrastructure

import (
	"flag"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"parallel-reduction/internal/domain"
)

const (
	defaultSamples     = 10_000_000
	defaultNumbers     = 100_000_000
	defaultSpinTimeout = time.Minute
)

// FlagOverrides holds command-line values that take precedence over the file.
// Only flags that were explicitly set are applied.
type FlagOverrides struct {
	fs  *flag.FlagSet
	set map[string]func(*domain.Config)
}

// BindFlags registers the configuration flags on fs.
func BindFlags(fs *flag.FlagSet) *FlagOverrides {
	o := &FlagOverrides{fs: fs, set: make(map[string]func(*domain.Config))}

	workers := fs.Int("workers", 0, "Number of workers (0 = GOMAXPROCS)")
	queueCapacity := fs.Int("queue-capacity", 0, "Queue merge capacity (0 = workers-1)")
	spinTimeout := fs.Duration("spin-timeout", 0, "Deadline for the queue coordinator spin")
	samples := fs.Int("samples", 0, "Number of Monte-Carlo samples")
	numbers := fs.Int("numbers", 0, "Number of bytes to sum")
	seed := fs.Uint64("seed", 0, "Random seed (0 = time based)")
	trials := fs.Int("trials", 0, "Number of estimator trials")
	strategy := fs.String("strategy", "", "Merge strategy: critical, queue or all")
	mode := fs.String("mode", "", "Reductions to run: pi, sum or all")
	logLevel := fs.String("log-level", "", "Log level")
	logFile := fs.String("log-file", "", "Log file")
	historyDB := fs.String("history-db", "", "SQLite database for run history")
	reportFile := fs.String("report-file", "", "Run report output file")
	reportFormat := fs.String("report-format", "", "Run report format: txt or json")
	pointsFile := fs.String("points-file", "", "Read estimator points from file")
	numbersFile := fs.String("numbers-file", "", "Read summation bytes from file")
	histogramFile := fs.String("histogram-file", "", "Write the byte workload histogram to file")

	o.set["workers"] = func(c *domain.Config) { c.Workers = *workers }
	o.set["queue-capacity"] = func(c *domain.Config) { c.QueueCapacity = *queueCapacity }
	o.set["spin-timeout"] = func(c *domain.Config) { c.SpinTimeout = *spinTimeout }
	o.set["samples"] = func(c *domain.Config) { c.Samples = *samples }
	o.set["numbers"] = func(c *domain.Config) { c.Numbers = *numbers }
	o.set["seed"] = func(c *domain.Config) { c.Seed = *seed }
	o.set["trials"] = func(c *domain.Config) { c.Trials = *trials }
	o.set["strategy"] = func(c *domain.Config) { c.Strategy = *strategy }
	o.set["mode"] = func(c *domain.Config) { c.Mode = *mode }
	o.set["log-level"] = func(c *domain.Config) { c.LogLevel = *logLevel }
	o.set["log-file"] = func(c *domain.Config) { c.LogFile = *logFile }
	o.set["history-db"] = func(c *domain.Config) { c.HistoryDB = *historyDB }
	o.set["report-file"] = func(c *domain.Config) { c.ReportFile = *reportFile }
	o.set["report-format"] = func(c *domain.Config) { c.ReportFormat = *reportFormat }
	o.set["points-file"] = func(c *domain.Config) { c.PointsFile = *pointsFile }
	o.set["numbers-file"] = func(c *domain.Config) { c.NumbersFile = *numbersFile }
	o.set["histogram-file"] = func(c *domain.Config) { c.HistogramFile = *histogramFile }

	return o
}

func (o *FlagOverrides) apply(config *domain.Config) {
	o.fs.Visit(func(f *flag.Flag) {
		if apply, ok := o.set[f.Name]; ok {
			apply(config)
		}
	})
}

type YAMLConfigReader struct {
	logger    *zap.Logger
	overrides *FlagOverrides
}

func NewYAMLConfigReader(logger *zap.Logger, overrides *FlagOverrides) *YAMLConfigReader {
	return &YAMLConfigReader{logger: logger, overrides: overrides}
}

// ReadConfig reads the YAML file at path (an empty path means defaults only),
// applies command-line overrides and defaults, then validates the result.
func (r *YAMLConfigReader) ReadConfig(path string) (*domain.Config, error) {
	var config domain.Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}

	// Применяем аргументы командной строки
	if r.overrides != nil {
		r.overrides.apply(&config)
	}

	// Устанавливаем значения по умолчанию
	r.setDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *YAMLConfigReader) setDefaults(config *domain.Config) {
	if config.Workers == 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.SpinTimeout == 0 {
		config.SpinTimeout = defaultSpinTimeout
	}
	if config.Samples == 0 {
		config.Samples = defaultSamples
	}
	if config.Numbers == 0 {
		config.Numbers = defaultNumbers
	}
	if config.Trials == 0 {
		config.Trials = 1
	}
	if config.Seed == 0 {
		config.Seed = uint64(time.Now().UnixNano())
		r.logger.Info("Using time based seed", zap.Uint64("seed", config.Seed))
	}
	if config.Strategy == "" {
		config.Strategy = "all"
	}
	if config.Mode == "" {
		config.Mode = domain.ModeAll
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ReportFormat == "" {
		config.ReportFormat = domain.FormatTXT
	}
}
