package infrastructure

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"

	"parallel-reduction/internal/domain"
)

// NewReportWriter returns the run report writer for a configured format.
func NewReportWriter(logger *zap.Logger, format string) domain.ReportWriter {
	if format == domain.FormatJSON {
		return NewJSONReportWriter(logger)
	}
	return NewTXTReportWriter(logger)
}

type TXTReportWriter struct {
	logger *zap.Logger
}

func NewTXTReportWriter(logger *zap.Logger) *TXTReportWriter {
	return &TXTReportWriter{logger: logger}
}

func (w *TXTReportWriter) WriteRuns(filename string, runs []domain.RunRecord) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	// Заголовок
	header := strings.Join([]string{"Kind", "Method", "Workers", "Size", "Trial", "Result", "Seconds", "Fingerprint"}, "\t")
	fmt.Fprintf(writer, "%s\n", header)

	for _, run := range runs {
		row := []string{
			run.Kind,
			run.Method,
			strconv.Itoa(run.Workers),
			strconv.Itoa(run.Size),
			strconv.Itoa(run.Trial),
			strconv.FormatFloat(run.Result, 'f', 10, 64),
			strconv.FormatFloat(run.Elapsed.Seconds(), 'f', 6, 64),
			run.Fingerprint,
		}
		fmt.Fprintf(writer, "%s\n", strings.Join(row, "\t"))
	}

	w.logger.Debug("Run report written", zap.String("file", filename), zap.Int("runs", len(runs)))
	return nil
}

func (w *TXTReportWriter) WriteHistogram(filename string, hist *domain.Histogram) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	fmt.Fprintf(writer, "%s\n", strings.Join([]string{"X", "Y"}, "\t"))

	for i := 0; i < hist.Len; i++ {
		fmt.Fprintf(writer, "%.2e\t%10d\n", hist.Bins[i], hist.Vals[i])
	}

	return nil
}

// JSONReportWriter writes one JSON object per run.
type JSONReportWriter struct {
	logger *zap.Logger
}

func NewJSONReportWriter(logger *zap.Logger) *JSONReportWriter {
	return &JSONReportWriter{logger: logger}
}

type jsonRun struct {
	domain.RunRecord
	Seconds float64 `json:"seconds"`
}

func (w *JSONReportWriter) WriteRuns(filename string, runs []domain.RunRecord) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, run := range runs {
		line, err := sonnet.Marshal(jsonRun{RunRecord: run, Seconds: run.Elapsed.Seconds()})
		if err != nil {
			return err
		}
		writer.Write(line)
		writer.WriteByte('\n')
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	w.logger.Debug("Run report written", zap.String("file", filename), zap.Int("runs", len(runs)))
	return nil
}
