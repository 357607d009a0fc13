package sim

import (
	"math"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/core"
)

// groundEpsilon is the tolerance of the ground invariant.
const groundEpsilon = 1e-9

// Character is the player body. X is the horizontal center and Y the bottom
// edge, both in world units with y up.
type Character struct {
	X, Y      float64
	VelX      float64
	VelY      float64
	Grounded  bool
	Crouching bool

	JumpCount      int
	MaxJumps       int
	JumpBufferLeft float64
	CoyoteLeft     float64
	PendingJumpVel float64

	// Buffered selects the buffered jump. Without it a request jumps at once
	// or is dropped.
	Buffered bool

	body bodyParams
}

type bodyParams struct {
	groundY      float64
	standW       float64
	standH       float64
	crouchW      float64
	crouchH      float64
	jumpBuffer   float64
	coyoteTime   float64
	cutoff       float64
	terminal     float64
	airDrag      float64
	moveSpeed    float64
	accel        float64
	accelSlip    float64
	friction     float64
	frictionSlip float64
	mass         float64
}

// CharacterState is the read-only view of the character handed to callers.
type CharacterState struct {
	X, Y       float64
	VelX, VelY float64
	Grounded   bool
	Crouching  bool
	JumpCount  int
	MaxJumps   int
	Box        core.Box
}

// NewCharacter places a standing character on the ground.
func NewCharacter(cfg config.RunnerConfig, buffered bool) Character {
	return Character{
		X:        cfg.Player.X,
		Y:        cfg.World.GroundY,
		Grounded: true,
		MaxJumps: 1,
		Buffered: buffered,
		body: bodyParams{
			groundY:      cfg.World.GroundY,
			standW:       cfg.Player.StandWidth,
			standH:       cfg.Player.StandHeight,
			crouchW:      cfg.Player.CrouchWidth,
			crouchH:      cfg.Player.CrouchHeight,
			jumpBuffer:   cfg.Player.JumpBuffer,
			coyoteTime:   cfg.Player.CoyoteTime,
			cutoff:       cfg.Player.JumpCutoff,
			terminal:     cfg.Physics.TerminalVelocity,
			airDrag:      cfg.Physics.AirDrag,
			moveSpeed:    cfg.Player.MoveSpeed,
			accel:        cfg.Player.AccelNormal,
			accelSlip:    cfg.Player.AccelSlippery,
			friction:     cfg.Player.FrictionNormal,
			frictionSlip: cfg.Player.FrictionSlippery,
			mass:         math.Max(cfg.Player.Mass, 0.01),
		},
	}
}

// Step integrates one tick of vertical motion. Non-positive dt is a no-op.
// Landing is resolved before the buffered jump, so a jump that is ready on
// the landing tick always fires.
func (c *Character) Step(dt float64, w *WorldPhysicsState) {
	if dt <= 0 {
		return
	}

	c.VelY -= w.Gravity * dt
	if c.VelY < 0 {
		c.VelY += -c.VelY * c.body.airDrag * dt
		if c.VelY < -c.body.terminal {
			c.VelY = -c.body.terminal
		}
	}
	c.Y += c.VelY * dt

	if c.Y <= c.body.groundY {
		c.Y = c.body.groundY
		c.VelY = 0
		c.Grounded = true
		c.JumpCount = 0
		c.CoyoteLeft = c.body.coyoteTime
	} else {
		c.Grounded = false
		c.CoyoteLeft = math.Max(0, c.CoyoteLeft-dt)
	}

	c.tryConsumeJump()
	c.JumpBufferLeft = math.Max(0, c.JumpBufferLeft-dt)

	if !c.Grounded {
		c.Crouching = false
	}
}

// RequestJump asks for a jump with launch speed v.
func (c *Character) RequestJump(v float64) {
	if !c.Buffered {
		if c.Grounded || c.JumpCount < c.MaxJumps {
			c.launch(v)
		}
		return
	}
	c.JumpBufferLeft = c.body.jumpBuffer
	c.PendingJumpVel = v
}

func (c *Character) tryConsumeJump() {
	if c.JumpBufferLeft <= 0 {
		return
	}
	if !(c.Grounded || c.JumpCount < c.MaxJumps || c.CoyoteLeft > 0) {
		return
	}
	c.launch(c.PendingJumpVel)
	c.JumpBufferLeft = 0
}

func (c *Character) launch(v float64) {
	c.VelY = v
	c.Grounded = false
	c.Crouching = false
	c.JumpCount++
	c.CoyoteLeft = 0
}

// SetMaxJumps changes the jump allowance. A jump already spent in the air
// keeps counting until landing, so the count never exceeds the maximum.
func (c *Character) SetMaxJumps(n int) {
	if n < c.JumpCount {
		n = c.JumpCount
	}
	c.MaxJumps = n
}

// CutJump shortens a jump released early while still rising.
func (c *Character) CutJump() {
	if c.VelY > 0 {
		c.VelY *= c.body.cutoff
	}
}

// SetCrouch applies the crouch hitbox while grounded. Airborne crouch has no
// shape effect.
func (c *Character) SetCrouch(held bool) {
	c.Crouching = held && c.Grounded
	if c.Grounded {
		c.Y = c.body.groundY
	}
}

// Move approaches dir*move_speed with acceleration while a direction is
// held and decays toward zero with friction otherwise. The caller clamps X.
func (c *Character) Move(dt float64, dir int, w *WorldPhysicsState) {
	if dt <= 0 {
		return
	}
	accel, friction := c.body.accel, c.body.friction
	if w.Slippery {
		accel, friction = c.body.accelSlip, c.body.frictionSlip
	}
	accel /= c.body.mass
	friction /= c.body.mass

	if dir != 0 {
		c.VelX = approach(c.VelX, float64(dir)*c.body.moveSpeed, accel*dt)
	} else {
		c.VelX = approach(c.VelX, 0, friction*dt)
	}
	c.X += c.VelX * dt
}

// Box returns the current hitbox.
func (c *Character) Box() core.Box {
	wdt, h := c.body.standW, c.body.standH
	if c.Crouching && c.Grounded {
		wdt, h = c.body.crouchW, c.body.crouchH
	}
	return core.Box{X: c.X - wdt/2, Y: c.Y, W: wdt, H: h}
}

// State returns a copy for callers.
func (c *Character) State() CharacterState {
	return CharacterState{
		X:         c.X,
		Y:         c.Y,
		VelX:      c.VelX,
		VelY:      c.VelY,
		Grounded:  c.Grounded,
		Crouching: c.Crouching,
		JumpCount: c.JumpCount,
		MaxJumps:  c.MaxJumps,
		Box:       c.Box(),
	}
}

func approach(current, target, delta float64) float64 {
	if current < target {
		return math.Min(current+delta, target)
	}
	if current > target {
		return math.Max(current-delta, target)
	}
	return current
}
