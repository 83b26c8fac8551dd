package app

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"parallel-reduction/internal/domain"
)

type fakeProvider struct {
	points  [][]domain.Point
	numbers []byte
	err     error
}

func (p *fakeProvider) Points(_ context.Context, n int, trial int) ([]domain.Point, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.points[trial%len(p.points)], nil
}

func (p *fakeProvider) Numbers(_ context.Context, n int) ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.numbers, nil
}

type fakeFingerprints struct{}

func (fakeFingerprints) Points(points []domain.Point) string { return "points" }
func (fakeFingerprints) Numbers(numbers []byte) string       { return "numbers" }

type memoryRuns struct {
	mu   sync.Mutex
	runs []domain.RunRecord
	err  error
}

func (r *memoryRuns) Save(_ context.Context, run domain.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.runs = append(r.runs, run)
	return nil
}

func (r *memoryRuns) Recent(_ context.Context, limit int) ([]domain.RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := min(limit, len(r.runs))
	return r.runs[len(r.runs)-n:], nil
}

type memoryHistograms struct {
	files map[string]domain.Histogram
}

func (h *memoryHistograms) WriteHistogram(filename string, hist *domain.Histogram) error {
	if h.files == nil {
		h.files = make(map[string]domain.Histogram)
	}
	h.files[filename] = *hist
	return nil
}

func testConfig() *domain.Config {
	return &domain.Config{
		Workers:  4,
		Samples:  4,
		Numbers:  8,
		Trials:   2,
		Strategy: "all",
		Mode:     "all",
	}
}

func testProvider() *fakeProvider {
	return &fakeProvider{
		points: [][]domain.Point{
			{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 0.5, Y: 0.5}, {X: -0.9, Y: 0}},
			{{X: 0, Y: 0}, {X: 0.1, Y: 0.1}, {X: 0.5, Y: 0.5}, {X: -0.9, Y: 0}},
		},
		numbers: []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}
}

func TestReductionBenchmarkRun(t *testing.T) {
	runs := &memoryRuns{}
	hists := &memoryHistograms{}
	config := testConfig()
	config.HistogramFile = "hist.txt"

	b := NewReductionBenchmark(zaptest.NewLogger(t), config, Dependencies{
		Provider:     testProvider(),
		Fingerprints: fakeFingerprints{},
		Runs:         runs,
		Histograms:   hists,
	})

	records, summary, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 2 trials x (serial + 2 strategies) + (serial + 2 strategies)
	if len(records) != 9 {
		t.Fatalf("got %d records, want 9", len(records))
	}
	if len(runs.runs) != len(records) {
		t.Errorf("saved %d runs, want %d", len(runs.runs), len(records))
	}

	for _, r := range records {
		switch r.Kind {
		case domain.KindPi:
			want := 3.0
			if r.Trial == 1 {
				want = 4.0
			}
			if r.Result != want {
				t.Errorf("%s trial %d: result %v, want %v", r.Method, r.Trial, r.Result, want)
			}
			if r.Fingerprint != "points" {
				t.Errorf("fingerprint = %q", r.Fingerprint)
			}
		case domain.KindSum:
			if r.Result != 36 {
				t.Errorf("%s: sum %v, want 36", r.Method, r.Result)
			}
		default:
			t.Errorf("unexpected kind %q", r.Kind)
		}
		wantWorkers := 4
		if r.Method == domain.MethodSerial {
			wantWorkers = 1
		}
		if r.Workers != wantWorkers {
			t.Errorf("%s/%s: workers %d, want %d", r.Kind, r.Method, r.Workers, wantWorkers)
		}
	}

	if summary == nil {
		t.Fatal("missing estimator summary")
	}
	if summary.Trials != 2 || summary.Mean != 3.5 {
		t.Errorf("summary = %+v, want 2 trials with mean 3.5", *summary)
	}
	if math.Abs(summary.AbsError-math.Abs(3.5-math.Pi)) > 1e-12 {
		t.Errorf("abs error = %v", summary.AbsError)
	}

	hist, ok := hists.files["hist.txt"]
	if !ok {
		t.Fatal("histogram was not written")
	}
	if hist.Len != 8 {
		t.Errorf("histogram len = %d, want 8", hist.Len)
	}
}

func TestReductionBenchmarkModes(t *testing.T) {
	tests := []struct {
		mode  string
		count int
		pi    bool
	}{
		{mode: domain.KindPi, count: 6, pi: true},
		{mode: domain.KindSum, count: 3},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			config := testConfig()
			config.Mode = tt.mode
			b := NewReductionBenchmark(zaptest.NewLogger(t), config, Dependencies{
				Provider:     testProvider(),
				Fingerprints: fakeFingerprints{},
			})

			records, summary, err := b.Run(context.Background())
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(records) != tt.count {
				t.Errorf("got %d records, want %d", len(records), tt.count)
			}
			if (summary != nil) != tt.pi {
				t.Errorf("summary = %v, want present=%v", summary, tt.pi)
			}
		})
	}
}

func TestReductionBenchmarkSingleStrategy(t *testing.T) {
	config := testConfig()
	config.Strategy = "queue"
	config.Mode = domain.KindSum
	b := NewReductionBenchmark(zaptest.NewLogger(t), config, Dependencies{
		Provider:     testProvider(),
		Fingerprints: fakeFingerprints{},
	})

	records, err := b.RunSummation(context.Background())
	if err != nil {
		t.Fatalf("RunSummation: %v", err)
	}
	if len(records) != 2 || records[1].Method != "queue" {
		t.Errorf("records = %+v", records)
	}
}

func TestReductionBenchmarkProviderError(t *testing.T) {
	boom := errors.New("no data")
	b := NewReductionBenchmark(zaptest.NewLogger(t), testConfig(), Dependencies{
		Provider:     &fakeProvider{err: boom},
		Fingerprints: fakeFingerprints{},
	})

	if _, _, err := b.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("got %v, want provider error", err)
	}
}

func TestReductionBenchmarkQueueTooSmall(t *testing.T) {
	config := testConfig()
	config.QueueCapacity = 1
	config.Mode = domain.KindSum
	b := NewReductionBenchmark(zaptest.NewLogger(t), config, Dependencies{
		Provider:     testProvider(),
		Fingerprints: fakeFingerprints{},
	})

	records, _, err := b.Run(context.Background())
	if err == nil {
		t.Fatal("expected an error for a queue smaller than workers-1")
	}
	// serial and critical runs complete before the queue run fails
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestReductionBenchmarkSaveErrorIsLogged(t *testing.T) {
	config := testConfig()
	config.Mode = domain.KindSum
	b := NewReductionBenchmark(zaptest.NewLogger(t), config, Dependencies{
		Provider:     testProvider(),
		Fingerprints: fakeFingerprints{},
		Runs:         &memoryRuns{err: errors.New("disk full")},
	})

	if _, _, err := b.Run(context.Background()); err != nil {
		t.Errorf("history failure must not fail the run: %v", err)
	}
}

func TestReductionBenchmarkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := testConfig()
	config.Mode = domain.KindSum
	b := NewReductionBenchmark(zaptest.NewLogger(t), config, Dependencies{
		Provider:     testProvider(),
		Fingerprints: fakeFingerprints{},
	})

	if _, _, err := b.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestSummarize(t *testing.T) {
	if s := summarize(nil); s.Trials != 0 || s.Mean != 0 {
		t.Errorf("empty summary = %+v", s)
	}

	s := summarize([]float64{3.2})
	if s.Mean != 3.2 || s.StdDev != 0 {
		t.Errorf("single summary = %+v", s)
	}

	s = summarize([]float64{3, 4})
	if s.Mean != 3.5 {
		t.Errorf("mean = %v, want 3.5", s.Mean)
	}
	// sample standard deviation of {3, 4}
	if math.Abs(s.StdDev-math.Sqrt(0.5)) > 1e-12 {
		t.Errorf("stddev = %v, want %v", s.StdDev, math.Sqrt(0.5))
	}
}
