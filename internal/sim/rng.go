package sim

import "math/rand"

// Source is the random stream a run threads through every component that
// draws. One Source per run keeps a seed fully reproducible.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// countingSource wraps a seeded generator and counts draws so snapshots
// can tell two runs apart even when every visible value matches.
type countingSource struct {
	rng   *rand.Rand
	draws uint64
}

func newSource(seed int64) *countingSource {
	return &countingSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *countingSource) Float64() float64 {
	s.draws++
	return s.rng.Float64()
}

func (s *countingSource) Intn(n int) int {
	s.draws++
	return s.rng.Intn(n)
}

// uniform draws from [lo, hi).
func uniform(rng Source, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// sign draws -1 or +1.
func sign(rng Source) int {
	if rng.Intn(2) == 0 {
		return -1
	}
	return 1
}
