package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"parallel-reduction/internal/app"
	"parallel-reduction/internal/domain"
	"parallel-reduction/internal/infrastructure"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	overrides := infrastructure.BindFlags(fs)
	fs.Parse(os.Args[1:])

	// Инициализация логгера
	logger := initLogger("info")
	defer logger.Sync()

	// Чтение конфигурации
	configReader := infrastructure.NewYAMLConfigReader(logger, overrides)
	config, err := configReader.ReadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to read config", zap.Error(err))
	}

	// Обновляем уровень логирования
	logger = initLogger(config.LogLevel, config.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Инициализация компонентов
	reader := infrastructure.NewTXTWorkloadReader(logger)
	provider := infrastructure.NewFileWorkloadProvider(reader, config.PointsFile, config.NumbersFile,
		infrastructure.NewRandomWorkloadProvider(logger, config.Workers, config.Seed))

	deps := app.Dependencies{
		Provider:     provider,
		Fingerprints: infrastructure.SHA3Fingerprinter{},
		Histograms:   infrastructure.NewTXTReportWriter(logger),
	}
	if config.HistoryDB != "" {
		store, err := infrastructure.OpenSQLiteRunStore(logger, config.HistoryDB)
		if err != nil {
			logger.Fatal("Failed to open run history", zap.String("file", config.HistoryDB), zap.Error(err))
		}
		defer store.Close()
		deps.Runs = store
	}

	logger.Info("Starting reductions",
		zap.String("mode", config.Mode),
		zap.String("strategy", config.Strategy),
		zap.Int("workers", config.Workers),
		zap.Int("samples", config.Samples),
		zap.Int("numbers", config.Numbers))

	benchmark := app.NewReductionBenchmark(logger, config, deps)
	records, summary, err := benchmark.Run(ctx)

	// Записываем отчёт даже для прерванного запуска
	if config.ReportFile != "" && len(records) > 0 {
		writer := infrastructure.NewReportWriter(logger, config.ReportFormat)
		if err := writer.WriteRuns(config.ReportFile, records); err != nil {
			logger.Error("Failed to write report", zap.String("file", config.ReportFile), zap.Error(err))
		} else {
			logger.Info("Successfully written report", zap.String("file", config.ReportFile))
		}
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Interrupted", zap.Int("completed_runs", len(records)))
			return
		}
		logger.Fatal("Reduction failed", zap.Error(err))
	}

	printRecords(records)
	if summary != nil && summary.Trials > 1 {
		fmt.Printf("π ≈ %.10f ± %.10f over %d trials (|error| %.2e)\n",
			summary.Mean, summary.StdDev, summary.Trials, summary.AbsError)
	}

	logger.Info("Reductions completed successfully")
}

func printRecords(records []domain.RunRecord) {
	for _, r := range records {
		label := "parallel, " + r.Method
		if r.Method == domain.MethodSerial {
			label = "sequential"
		}
		switch r.Kind {
		case domain.KindPi:
			fmt.Printf("π = %.10f (%s, trial %d)\n", r.Result, label, r.Trial)
		case domain.KindSum:
			fmt.Printf("sum = %d (%s)\n", int64(r.Result), label)
		}
	}
}

// initLogger initializes the logger with the specified level and log file name.
// Without a log file the logger writes to stderr.
func initLogger(level string, logfileName ...string) *zap.Logger {
	config := zap.NewProductionConfig()

	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	outputPath := []string{"stderr"}
	for _, item := range logfileName {
		if item != "" {
			outputPath = append(outputPath[:0], item)
		}
	}

	config.OutputPaths = outputPath
	config.ErrorOutputPaths = outputPath
	config.EncoderConfig.TimeKey = "t"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.DisableCaller = false

	logger, err := config.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}
