package sim

import (
	"math"

	"github.com/vovakirdan/rule-runner/internal/config"
)

// DifficultyRamp maps elapsed run time to a progress fraction in [0, 1].
type DifficultyRamp struct {
	elapsed  float64
	duration float64
	start    float64
	enabled  bool
}

// NewDifficultyRamp creates a ramp from the difficulty section.
func NewDifficultyRamp(cfg config.DifficultyConfig) *DifficultyRamp {
	return &DifficultyRamp{
		duration: math.Max(cfg.RampDuration, 1e-9),
		start:    math.Max(0, math.Min(cfg.InitialProgress, 1)),
		enabled:  cfg.Enabled,
	}
}

// Advance accumulates dt and returns the new progress.
func (d *DifficultyRamp) Advance(dt float64) float64 {
	if dt > 0 {
		d.elapsed += dt
	}
	return d.Progress()
}

// Progress interpolates from the start value to 1.0 over the ramp duration.
// A disabled ramp stays at its start value.
func (d *DifficultyRamp) Progress() float64 {
	if !d.enabled {
		return d.start
	}
	if d.elapsed >= d.duration {
		return 1.0
	}
	return d.start + (d.elapsed/d.duration)*(1.0-d.start)
}

// Elapsed returns the accumulated run time.
func (d *DifficultyRamp) Elapsed() float64 { return d.elapsed }

// SpawnIntervalRange narrows the obstacle interval bounds toward the
// difficulty minimum as progress grows. The lower bound never drops below
// that minimum and the upper bound never drops below the lower.
func SpawnIntervalRange(obs config.ObstacleConfig, diff config.DifficultyConfig, progress float64) (lo, hi float64) {
	floor := diff.MinSpawnInterval
	lo = math.Max(floor, obs.SpawnIntervalMin-(obs.SpawnIntervalMin-floor)*progress)
	hi = math.Max(lo, obs.SpawnIntervalMax-(obs.SpawnIntervalMax-floor)*progress)
	return lo, hi
}

// BirdChance grows linearly from the base chance to the cap.
func BirdChance(obs config.ObstacleConfig, diff config.DifficultyConfig, progress float64) float64 {
	return obs.BirdChance + (diff.MaxBirdChance-obs.BirdChance)*progress
}

// DifficultySpeedMult interpolates from 1 to the max speed multiplier.
func DifficultySpeedMult(diff config.DifficultyConfig, progress float64) float64 {
	return 1.0 + (diff.MaxSpeedMult-1.0)*progress
}
