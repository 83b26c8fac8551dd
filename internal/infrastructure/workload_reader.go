package infrastructure

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"parallel-reduction/internal/domain"
)

type TXTWorkloadReader struct {
	logger *zap.Logger
}

func NewTXTWorkloadReader(logger *zap.Logger) *TXTWorkloadReader {
	return &TXTWorkloadReader{logger: logger}
}

// ReadPoints reads one "x y" pair per line. Blank lines and lines starting with
// '#' are skipped.
func (r *TXTWorkloadReader) ReadPoints(filename string) ([]domain.Point, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}

	var points []domain.Point
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: %s:%d: want 2 coordinates, got %d",
				domain.ErrInvalidFileFormat, filename, i+1, len(fields))
		}

		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, err
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, err
		}
		points = append(points, domain.Point{X: x, Y: y})
	}

	r.logger.Info("Points loaded", zap.String("file", filename), zap.Int("count", len(points)))
	return points, nil
}

// ReadNumbers reads whitespace separated integers in [0, 255].
func (r *TXTWorkloadReader) ReadNumbers(filename string) ([]byte, error) {
	lines, err := readLines(filename)
	if err != nil {
		return nil, err
	}

	var numbers []byte
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		for _, field := range strings.Fields(line) {
			value, err := strconv.Atoi(field)
			if err != nil {
				return nil, err
			}
			if value < 0 || value > 255 {
				r.logger.Warn("Value out of byte range", zap.Int("line", i+1), zap.Int("value", value))
				return nil, fmt.Errorf("%w: %s:%d: value %d out of byte range",
					domain.ErrInvalidFileFormat, filename, i+1, value)
			}
			numbers = append(numbers, byte(value))
		}
	}

	r.logger.Info("Numbers loaded", zap.String("file", filename), zap.Int("count", len(numbers)))
	return numbers, nil
}

func readLines(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
