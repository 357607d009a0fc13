package sim

import (
	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/core"
)

// WindState is the visible state of the wind.
type WindState struct {
	Active   bool
	Dir      int
	TimeLeft float64
	Force    float64 // push in world units per second, signed by Dir
}

// Wind runs the gust cycle: idle until the interval elapses, then gust for a
// fixed duration in a random direction.
type Wind struct {
	cfg   config.WindConfig
	field config.WorldConfig

	timer         float64
	timeLeft      float64
	dir           int
	particleTimer float64

	rng Source
}

func newWind(cfg config.WindConfig, field config.WorldConfig, rng Source) *Wind {
	return &Wind{cfg: cfg, field: field, rng: rng}
}

// Update advances the gust cycle. While gusting it emits cosmetic streaks at
// the particle rate; nextID hands out entity ids.
func (w *Wind) Update(dt float64, nextID func() uint64) []Entity {
	if w.timeLeft > 0 {
		w.timeLeft -= dt
		w.particleTimer += dt
		if w.particleTimer >= w.cfg.ParticleRate {
			w.particleTimer = 0
			if e, ok := w.streak(nextID); ok {
				return []Entity{e}
			}
		}
		return nil
	}

	w.timer += dt
	if w.timer >= w.cfg.Interval {
		w.timer = 0
		w.Gust(sign(w.rng), w.cfg.Duration)
	}
	return nil
}

// Gust starts a gust immediately.
func (w *Wind) Gust(dir int, duration float64) {
	w.timeLeft = duration
	w.dir = dir
	w.particleTimer = 0
}

// Sustain keeps an active gust alive for at least d seconds.
func (w *Wind) Sustain(d float64) {
	if w.timeLeft < d {
		w.timeLeft = d
	}
}

// Stop ends any gust.
func (w *Wind) Stop() {
	w.timeLeft = 0
	w.dir = 0
}

// Push returns the x displacement for this tick.
func (w *Wind) Push(dt, forceMult float64) float64 {
	if w.timeLeft <= 0 {
		return 0
	}
	return float64(w.dir) * w.cfg.Force * forceMult * dt
}

// State reports the wind for rendering.
func (w *Wind) State(forceMult float64) WindState {
	active := w.timeLeft > 0
	s := WindState{Active: active, Dir: w.dir, TimeLeft: max(w.timeLeft, 0)}
	if active {
		s.Force = float64(w.dir) * w.cfg.Force * forceMult
	}
	return s
}

func (w *Wind) streak(nextID func() uint64) (Entity, bool) {
	if w.dir == 0 {
		return Entity{}, false
	}
	x := -20.0
	if w.dir < 0 {
		x = w.field.Width + 20
	}
	y := uniform(w.rng, w.field.GroundY+40, w.field.Height-80)
	width := float64(28 + w.rng.Intn(19))
	speed := uniform(w.rng, 160, 240)
	return Entity{
		ID:   nextID(),
		Kind: EntityWindStreak,
		Box:  core.BoxAt(x, y, width, 5),
		VelX: float64(w.dir) * speed,
		Life: 0.8,
	}, true
}
