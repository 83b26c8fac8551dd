package domain

import (
	"errors"
	"math"
)

var ErrInvalidHistogram = errors.New("invalid histogram")

// ByteHistogram calculates the histogram of a byte workload within a specified range.
// When min == max the range is taken from the data.
func ByteHistogram(numbers []byte, min, max float64, n int) (Histogram, error) {
	if len(numbers) == 0 || n < 2 {
		return Histogram{}, ErrInvalidHistogram
	}

	if min == max {
		min = math.Inf(1)
		max = math.Inf(-1)
		for _, b := range numbers {
			value := float64(b)
			if value < min {
				min = value
			}
			if value > max {
				max = value
			}
		}
	}
	binWidth := (max - min) / float64(n-1)
	histogram := make([]int, n)
	bins := make([]float64, n)

	for i := 0; i < n; i++ {
		bins[i] = min + float64(i)*binWidth
	}

	for _, b := range numbers {
		value := float64(b)
		if value < min {
			value = min
		} else if value > max {
			value = max
		}
		binIndex := 0
		if binWidth > 0 {
			binIndex = int((value - min) / binWidth)
		}
		histogram[binIndex]++
	}

	return Histogram{
		Bins: bins,
		Vals: histogram,
		Len:  n,
	}, nil
}
