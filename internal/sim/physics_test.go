package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/rule-runner/internal/config"
)

func testWorld(cfg config.RunnerConfig) WorldPhysicsState {
	return NewWorldPhysicsState(cfg, cfg.Physics.JumpMultMin, cfg.Physics.JumpMultMax)
}

func TestStepZeroDtIsNoop(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := testWorld(cfg)
	c := NewCharacter(cfg, true)
	c.Y = cfg.World.GroundY + 100
	c.Grounded = false
	c.VelY = 50
	before := c

	c.Step(0, &w)
	c.Step(-1, &w)
	c.Move(0, 1, &w)

	if c != before {
		t.Errorf("non-positive dt changed the character: %+v -> %+v", before, c)
	}
}

func TestGroundInvariant(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := testWorld(cfg)
	c := NewCharacter(cfg, true)
	ground := cfg.World.GroundY

	dts := []float64{1.0 / 60, 0, 1.0 / 30, 0.001, 0.25, 1.0 / 144}
	for i := 0; i < 3000; i++ {
		if i%23 == 0 {
			c.RequestJump(w.JumpVelocity())
		}
		if i%41 == 0 {
			c.CutJump()
		}
		c.Step(dts[i%len(dts)], &w)
		c.SetCrouch(i%7 == 0)
		if c.Y < ground-groundEpsilon {
			t.Fatalf("tick %d: bottom %v below ground %v", i, c.Y, ground)
		}
		if c.JumpCount > c.MaxJumps {
			t.Fatalf("tick %d: jump count %d exceeds max %d", i, c.JumpCount, c.MaxJumps)
		}
		if c.JumpBufferLeft < 0 || c.CoyoteLeft < 0 {
			t.Fatalf("tick %d: negative timers buffer=%v coyote=%v", i, c.JumpBufferLeft, c.CoyoteLeft)
		}
	}
}

func TestBufferedJumpFiresOnLanding(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := testWorld(cfg)
	c := NewCharacter(cfg, true)

	// Falling, one tick above the ground, already used its only jump.
	c.Y = cfg.World.GroundY + 1
	c.VelY = -100
	c.Grounded = false
	c.JumpCount = 1
	c.CoyoteLeft = 0

	c.RequestJump(500)
	c.Step(1.0/60, &w)

	if c.VelY != 500 {
		t.Errorf("VelY after landing = %v, expected 500", c.VelY)
	}
	if c.Grounded {
		t.Error("character should have left the ground")
	}
	if c.JumpBufferLeft != 0 {
		t.Errorf("JumpBufferLeft = %v, expected 0", c.JumpBufferLeft)
	}
	if c.JumpCount != 1 {
		t.Errorf("JumpCount = %d, expected 1", c.JumpCount)
	}
}

func TestBufferedJumpDuringCoyoteTime(t *testing.T) {
	tests := []struct {
		name     string
		coyote   float64
		launched bool
	}{
		{"coyote left", 0.05, true},
		{"coyote spent", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultRunnerConfig()
			w := testWorld(cfg)
			c := NewCharacter(cfg, true)

			// Airborne with every jump used; only coyote time can allow a jump.
			c.Y = cfg.World.GroundY + 200
			c.VelY = -10
			c.Grounded = false
			c.JumpCount = c.MaxJumps
			c.CoyoteLeft = tt.coyote

			c.RequestJump(500)
			c.Step(1.0/60, &w)

			if launched := c.VelY == 500; launched != tt.launched {
				t.Fatalf("VelY = %v, launched = %v, expected %v", c.VelY, launched, tt.launched)
			}
			if c.CoyoteLeft != 0 {
				t.Errorf("CoyoteLeft = %v, expected 0", c.CoyoteLeft)
			}
			if tt.launched && c.JumpBufferLeft != 0 {
				t.Errorf("JumpBufferLeft = %v after launch, expected 0", c.JumpBufferLeft)
			}
			if !tt.launched && c.JumpBufferLeft <= 0 {
				t.Error("buffered request dropped before its window ended")
			}
		})
	}
}

func TestBufferedJumpWithinWindow(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := testWorld(cfg)
	c := NewCharacter(cfg, true)

	// Roughly 0.05s of falling left when the jump is requested.
	c.Y = cfg.World.GroundY + 15
	c.VelY = -250
	c.Grounded = false
	c.JumpCount = 1

	c.RequestJump(500)
	jumped := false
	for i := 0; i < 12; i++ {
		c.Step(1.0/120, &w)
		if c.VelY == 500 {
			jumped = true
			break
		}
	}
	if !jumped {
		t.Error("buffered jump did not fire on the landing tick")
	}
}

func TestBufferedJumpExpires(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := testWorld(cfg)
	c := NewCharacter(cfg, true)

	c.Y = cfg.World.GroundY + 500
	c.Grounded = false
	c.JumpCount = 1
	c.RequestJump(500)

	for i := 0; i < 600 && !c.Grounded; i++ {
		c.Step(1.0/60, &w)
	}
	if !c.Grounded {
		t.Fatal("character never landed")
	}
	if c.VelY != 0 {
		t.Errorf("expired buffer still jumped: VelY = %v", c.VelY)
	}
}

func TestUnbufferedJumpIsImmediate(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	c := NewCharacter(cfg, false)

	c.RequestJump(600)
	if c.VelY != 600 {
		t.Errorf("VelY = %v, expected 600", c.VelY)
	}
	if c.Grounded {
		t.Error("Grounded should be false after jumping")
	}
	if c.JumpCount != 1 {
		t.Errorf("JumpCount = %d, expected 1", c.JumpCount)
	}

	// No second jump with a single allowance.
	c.RequestJump(700)
	if c.VelY != 600 {
		t.Errorf("second unbuffered jump applied: VelY = %v", c.VelY)
	}
}

func TestDoubleJump(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := testWorld(cfg)
	c := NewCharacter(cfg, true)
	c.SetMaxJumps(2)

	c.RequestJump(600)
	c.Step(1.0/60, &w)
	if c.JumpCount != 1 {
		t.Fatalf("JumpCount = %d, expected 1", c.JumpCount)
	}
	c.Step(1.0/60, &w)

	c.RequestJump(600)
	c.Step(1.0/60, &w)
	if c.JumpCount != 2 {
		t.Errorf("JumpCount = %d, expected 2 after air jump", c.JumpCount)
	}

	c.RequestJump(600)
	vel := c.VelY
	c.Step(1.0/60, &w)
	if c.JumpCount != 2 || c.VelY > vel {
		t.Errorf("third jump applied: count=%d vel=%v", c.JumpCount, c.VelY)
	}
}

func TestSetMaxJumpsNeverBelowCount(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	c := NewCharacter(cfg, true)
	c.JumpCount = 2
	c.SetMaxJumps(1)
	if c.MaxJumps != 2 {
		t.Errorf("MaxJumps = %d, expected 2", c.MaxJumps)
	}
}

func TestCutJump(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	c := NewCharacter(cfg, true)

	c.VelY = 600
	c.CutJump()
	if c.VelY != 300 {
		t.Errorf("VelY after cut = %v, expected 300", c.VelY)
	}

	c.VelY = -10
	c.CutJump()
	if c.VelY != -10 {
		t.Errorf("falling VelY changed by cut: %v", c.VelY)
	}
}

func TestTerminalVelocity(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := testWorld(cfg)
	c := NewCharacter(cfg, true)
	c.Y = cfg.World.GroundY + 10000
	c.Grounded = false
	c.VelY = -5000

	c.Step(1.0/60, &w)
	if c.VelY < -cfg.Physics.TerminalVelocity {
		t.Errorf("VelY = %v, exceeds terminal %v", c.VelY, cfg.Physics.TerminalVelocity)
	}
}

func TestCrouchHitbox(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	c := NewCharacter(cfg, true)

	c.SetCrouch(true)
	box := c.Box()
	if box.H != cfg.Player.CrouchHeight || box.W != cfg.Player.CrouchWidth {
		t.Errorf("crouch box = %vx%v, expected %vx%v", box.W, box.H, cfg.Player.CrouchWidth, cfg.Player.CrouchHeight)
	}
	if box.Y != cfg.World.GroundY {
		t.Errorf("crouch box bottom = %v, expected ground %v", box.Y, cfg.World.GroundY)
	}

	c.Grounded = false
	c.Y = cfg.World.GroundY + 50
	c.SetCrouch(true)
	if c.Crouching {
		t.Error("airborne crouch should have no effect")
	}
	if c.Box().H != cfg.Player.StandHeight {
		t.Errorf("airborne box height = %v, expected %v", c.Box().H, cfg.Player.StandHeight)
	}
}

func TestMoveAccelerationAndFriction(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := testWorld(cfg)

	tests := []struct {
		name     string
		slippery bool
		start    float64
		dir      int
		expected float64
	}{
		{"accelerate", false, 0, 1, 120},
		{"accelerate capped", false, 200, 1, 260},
		{"accelerate left", false, 0, -1, -120},
		{"friction", false, 120, 0, 0},
		{"slippery accelerate", true, 0, 1, 40},
		{"slippery friction", true, 120, 0, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.Slippery = tt.slippery
			c := NewCharacter(cfg, true)
			c.VelX = tt.start
			c.Move(0.1, tt.dir, &w)
			if math.Abs(c.VelX-tt.expected) > 1e-9 {
				t.Errorf("VelX = %v, expected %v", c.VelX, tt.expected)
			}
		})
	}
}

func TestApproach(t *testing.T) {
	tests := []struct {
		current, target, delta, expected float64
	}{
		{0, 10, 3, 3},
		{9, 10, 3, 10},
		{10, 0, 3, 7},
		{1, 0, 3, 0},
		{5, 5, 3, 5},
	}
	for _, tt := range tests {
		if got := approach(tt.current, tt.target, tt.delta); got != tt.expected {
			t.Errorf("approach(%v, %v, %v) = %v, expected %v", tt.current, tt.target, tt.delta, got, tt.expected)
		}
	}
}
