package domain

import "context"

// RandomSource источник равномерно распределённых значений
type RandomSource interface {
	Rand() float64
}

// SourceFactory выдаёт независимый источник для каждого воркера
type SourceFactory interface {
	ForWorker(worker int, trial int) RandomSource
}

// WorkloadProvider поставляет входные данные до начала редукции
type WorkloadProvider interface {
	Points(ctx context.Context, n int, trial int) ([]Point, error)
	Numbers(ctx context.Context, n int) ([]byte, error)
}

// Fingerprinter идентифицирует рабочую нагрузку в истории замеров
type Fingerprinter interface {
	Points(points []Point) string
	Numbers(numbers []byte) string
}
