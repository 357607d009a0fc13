package sim

import (
	"math"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/core"
)

// GravityPreset names one of the configured gravity values.
type GravityPreset uint8

const (
	GravityNormal GravityPreset = iota
	GravityLow
	GravityHigh
)

func (g GravityPreset) String() string {
	switch g {
	case GravityLow:
		return "low"
	case GravityHigh:
		return "high"
	default:
		return "normal"
	}
}

// SpeedPreset names one of the configured obstacle base speeds.
type SpeedPreset uint8

const (
	SpeedNormal SpeedPreset = iota
	SpeedSlow
	SpeedFast
)

func (s SpeedPreset) String() string {
	switch s {
	case SpeedSlow:
		return "slow"
	case SpeedFast:
		return "fast"
	default:
		return "normal"
	}
}

// presetTable holds the numbers rules pick from.
type presetTable struct {
	gravity    [3]float64 // indexed by GravityPreset
	speed      [3]float64 // indexed by SpeedPreset
	jumpHeight [3]float64 // indexed by GravityPreset
	multMin    float64
	multMax    float64
	apexTime   float64
}

func newPresetTable(cfg config.RunnerConfig, multMin, multMax float64) presetTable {
	return presetTable{
		gravity:    [3]float64{cfg.Physics.GravityNormal, cfg.Physics.GravityLow, cfg.Physics.GravityHigh},
		speed:      [3]float64{cfg.Speed.Normal, cfg.Speed.Slow, cfg.Speed.Fast},
		jumpHeight: [3]float64{cfg.JumpHeight.Normal, cfg.JumpHeight.Low, cfg.JumpHeight.High},
		multMin:    multMin,
		multMax:    multMax,
		apexTime:   cfg.Player.JumpTimeToApex,
	}
}

// WorldPhysicsState is the set of world parameters rules rewrite. A run owns
// exactly one and hands it to the character and the spawner every tick.
type WorldPhysicsState struct {
	Gravity        float64
	GravityPreset  GravityPreset
	ObstacleSpeed  float64
	SpeedPreset    SpeedPreset
	MaxJumpHeight  float64
	JumpMultiplier float64
	Slippery       bool
	DoubleJump     bool

	presets presetTable
}

// NewWorldPhysicsState returns the baseline world (normal gravity and speed)
// with the jump multiplier clamped to [multMin, multMax].
func NewWorldPhysicsState(cfg config.RunnerConfig, multMin, multMax float64) WorldPhysicsState {
	w := WorldPhysicsState{presets: newPresetTable(cfg, multMin, multMax)}
	w.reset()
	w.derive()
	return w
}

func (w *WorldPhysicsState) reset() {
	w.GravityPreset = GravityNormal
	w.SpeedPreset = SpeedNormal
	w.Slippery = false
	w.DoubleJump = false
}

// derive recomputes every value that follows from the presets.
func (w *WorldPhysicsState) derive() {
	p := &w.presets
	w.Gravity = p.gravity[w.GravityPreset]
	w.ObstacleSpeed = p.speed[w.SpeedPreset]
	w.MaxJumpHeight = p.jumpHeight[w.GravityPreset]
	w.JumpMultiplier = jumpMultiplier(p.gravity[GravityNormal], w.Gravity, p.multMin, p.multMax)
}

// NormalGravity is the gravity of the baseline world.
func (w WorldPhysicsState) NormalGravity() float64 {
	return w.presets.gravity[GravityNormal]
}

// JumpVelocity is the launch speed for a jump in the current world. It uses
// normal gravity so the multiplier alone compensates the arc.
func (w WorldPhysicsState) JumpVelocity() float64 {
	return w.NormalGravity() * w.presets.apexTime * w.JumpMultiplier
}

func jumpMultiplier(normal, gravity, lo, hi float64) float64 {
	if gravity <= 0 {
		return hi
	}
	return core.ClampF(math.Sqrt(normal/gravity), lo, hi)
}
