// Package autopilot drives a run without a player. It reads the visible
// entities the way a player would and never touches the run's RNG, so an
// autopiloted run stays a pure function of its seed.
package autopilot

import (
	"github.com/vovakirdan/rule-runner/internal/sim"
)

// Default reaction windows in seconds before contact.
const (
	DefaultJumpLead   = 0.16
	DefaultCrouchLead = 0.35
)

// View is the part of a run the pilot looks at.
type View interface {
	Entities() []sim.Entity
	World() sim.WorldPhysicsState
}

// Pilot is a simple reflex driver: jump over ground obstacles, duck under
// low birds, ignore high birds and drift back to the start column.
type Pilot struct {
	JumpLead   float64
	CrouchLead float64
	HomeX      float64
}

// New returns a pilot that keeps the character near homeX.
func New(homeX float64) *Pilot {
	return &Pilot{JumpLead: DefaultJumpLead, CrouchLead: DefaultCrouchLead, HomeX: homeX}
}

// Decide returns the intents for the next tick given the last tick result.
func (p *Pilot) Decide(v View, last sim.TickResult) sim.Intents {
	var in sim.Intents
	ch := last.Character
	speed := v.World().ObstacleSpeed * last.SpeedMultiplier
	if speed <= 0 {
		return in
	}

	front := ch.Box.Right()
	for _, e := range v.Entities() {
		if !e.Kind.IsObstacle() || e.Box.Right() < ch.Box.X {
			continue
		}
		eta := (e.Box.X - front) / speed
		switch e.Class {
		case sim.ClassCactus:
			if eta <= p.JumpLead && ch.Grounded {
				in.JumpRequested = true
			}
		case sim.ClassBirdLow:
			if eta <= p.CrouchLead && ch.Grounded {
				in.CrouchHeld = true
			}
		}
	}

	// Release early on the way up unless something is still close.
	if !ch.Grounded && ch.VelY > 0 && !in.JumpRequested {
		in.JumpReleased = p.clear(v, front, speed)
	}

	switch {
	case ch.X < p.HomeX-8:
		in.MoveDir = 1
	case ch.X > p.HomeX+8:
		in.MoveDir = -1
	}
	return in
}

// clear reports whether nothing is within twice the jump lead.
func (p *Pilot) clear(v View, front, speed float64) bool {
	for _, e := range v.Entities() {
		if !e.Kind.IsObstacle() || e.Box.Right() < front {
			continue
		}
		if (e.Box.X-front)/speed <= 2*p.JumpLead {
			return false
		}
	}
	return true
}

// Play drives run until it ends or maxTicks pass, calling observe with the
// intents of every tick. It returns the last tick result.
func Play(run *sim.Run, p *Pilot, dt float64, maxTicks int, observe func(sim.Intents)) sim.TickResult {
	res := run.Tick(dt, sim.Intents{})
	if observe != nil {
		observe(sim.Intents{})
	}
	for i := 1; i < maxTicks && !res.GameOver; i++ {
		in := p.Decide(run, res)
		if observe != nil {
			observe(in)
		}
		res = run.Tick(dt, in)
	}
	return res
}
