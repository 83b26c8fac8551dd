package domain

import (
	"errors"
	"testing"
)

func TestByteHistogramDataRange(t *testing.T) {
	numbers := []byte{0, 1, 1, 2, 2, 2, 9}
	hist, err := ByteHistogram(numbers, 0, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if hist.Len != 10 || hist.Bins[0] != 0 || hist.Bins[9] != 9 {
		t.Fatalf("unexpected bins %v", hist.Bins)
	}
	want := []int{1, 2, 3, 0, 0, 0, 0, 0, 0, 1}
	for i, v := range want {
		if hist.Vals[i] != v {
			t.Fatalf("vals = %v, want %v", hist.Vals, want)
		}
	}
}

func TestByteHistogramClampsToRange(t *testing.T) {
	hist, err := ByteHistogram([]byte{0, 5, 200}, 2, 6, 5)
	if err != nil {
		t.Fatal(err)
	}
	// 0 is clamped into the first bin, 200 into the last.
	if hist.Vals[0] != 1 || hist.Vals[3] != 1 || hist.Vals[4] != 1 {
		t.Fatalf("vals = %v", hist.Vals)
	}
}

func TestByteHistogramConstantData(t *testing.T) {
	hist, err := ByteHistogram([]byte{7, 7, 7}, 0, 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if hist.Vals[0] != 3 {
		t.Fatalf("vals = %v", hist.Vals)
	}
}

func TestByteHistogramInvalid(t *testing.T) {
	if _, err := ByteHistogram(nil, 0, 0, 10); !errors.Is(err, ErrInvalidHistogram) {
		t.Fatalf("empty input error = %v", err)
	}
	if _, err := ByteHistogram([]byte{1}, 0, 0, 1); !errors.Is(err, ErrInvalidHistogram) {
		t.Fatalf("single bin error = %v", err)
	}
}
