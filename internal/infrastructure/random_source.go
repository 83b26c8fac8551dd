package infrastructure

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"parallel-reduction/internal/domain"
)

// UniformSources hands every worker its own uniform source on [Min, Max).
// Sources for different workers or trials never share a seed.
type UniformSources struct {
	Min, Max float64
	Seed     uint64
}

func NewUniformSources(min, max float64, seed uint64) *UniformSources {
	return &UniformSources{Min: min, Max: max, Seed: seed}
}

func (s *UniformSources) ForWorker(worker int, trial int) domain.RandomSource {
	return &distuv.Uniform{
		Min: s.Min,
		Max: s.Max,
		Src: rand.NewSource(s.seedFor(worker, trial)),
	}
}

// seedFor offsets the base seed by worker and trial.
func (s *UniformSources) seedFor(worker int, trial int) uint64 {
	return s.Seed + uint64(trial)<<32 + uint64(worker)
}
