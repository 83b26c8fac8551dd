package domain

import "context"

// WorkloadReader интерфейс для чтения рабочей нагрузки из файлов
type WorkloadReader interface {
	ReadPoints(filename string) ([]Point, error)
	ReadNumbers(filename string) ([]byte, error)
}

// ReportWriter интерфейс для записи результатов
type ReportWriter interface {
	WriteRuns(filename string, runs []RunRecord) error
}

// ConfigReader интерфейс для чтения конфигурации
type ConfigReader interface {
	ReadConfig(path string) (*Config, error)
}

// RunRepository хранит историю замеров
type RunRepository interface {
	Save(ctx context.Context, run RunRecord) error
	Recent(ctx context.Context, limit int) ([]RunRecord, error)
}

// HistogramWriter записывает гистограмму рабочей нагрузки
type HistogramWriter interface {
	WriteHistogram(filename string, hist *Histogram) error
}
