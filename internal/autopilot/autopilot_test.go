package autopilot

import (
	"testing"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/core"
	"github.com/vovakirdan/rule-runner/internal/sim"
)

type fakeView struct {
	entities []sim.Entity
	world    sim.WorldPhysicsState
}

func (f fakeView) Entities() []sim.Entity { return f.entities }
func (f fakeView) World() sim.WorldPhysicsState { return f.world }

func standing() sim.TickResult {
	return sim.TickResult{
		SpeedMultiplier: 1,
		Character: sim.CharacterState{
			X: 100, Y: 80, Grounded: true,
			Box: core.Box{X: 78, Y: 80, W: 44, H: 70},
		},
	}
}

func TestDecide(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	world := sim.NewWorldPhysicsState(cfg, cfg.Physics.JumpMultMin, cfg.Physics.JumpMultMax)
	// 300 units/s: 30 units ahead is 0.1s away, 300 units is 1s away.
	tests := []struct {
		name   string
		entity sim.Entity
		jump   bool
		crouch bool
	}{
		{"cactus close", sim.Entity{Kind: sim.EntityCactus, Class: sim.ClassCactus, Box: core.Box{X: 152, Y: 80, W: 30, H: 60}}, true, false},
		{"cactus far", sim.Entity{Kind: sim.EntityCactus, Class: sim.ClassCactus, Box: core.Box{X: 422, Y: 80, W: 30, H: 60}}, false, false},
		{"low bird", sim.Entity{Kind: sim.EntityBird, Class: sim.ClassBirdLow, Box: core.BoxAt(222, 140, 50, 30)}, false, true},
		{"high bird", sim.Entity{Kind: sim.EntityBird, Class: sim.ClassBirdHigh, Box: core.BoxAt(160, 220, 50, 30)}, false, false},
		{"coin", sim.Entity{Kind: sim.EntityCoin, Box: core.BoxAt(130, 92, 20, 20)}, false, false},
		{"behind", sim.Entity{Kind: sim.EntityCactus, Class: sim.ClassCactus, Box: core.Box{X: 10, Y: 80, W: 30, H: 60}}, false, false},
	}

	p := New(100)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := fakeView{entities: []sim.Entity{tt.entity}, world: world}
			in := p.Decide(v, standing())
			if in.JumpRequested != tt.jump || in.CrouchHeld != tt.crouch {
				t.Errorf("Decide() = %+v, expected jump=%v crouch=%v", in, tt.jump, tt.crouch)
			}
			if in.MoveDir != 0 {
				t.Errorf("MoveDir = %d at home", in.MoveDir)
			}
		})
	}
}

func TestDecideReturnsHome(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	v := fakeView{world: sim.NewWorldPhysicsState(cfg, cfg.Physics.JumpMultMin, cfg.Physics.JumpMultMax)}
	p := New(100)

	res := standing()
	res.Character.X = 300
	if got := p.Decide(v, res).MoveDir; got != -1 {
		t.Errorf("MoveDir right of home = %d, expected -1", got)
	}
	res.Character.X = 40
	if got := p.Decide(v, res).MoveDir; got != 1 {
		t.Errorf("MoveDir left of home = %d, expected 1", got)
	}
}

func TestPlayIsDeterministic(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	play := func() (sim.TickResult, uint64, int) {
		run, err := sim.New(cfg, sim.Options{Mode: sim.RulesMode(), Features: cfg.Features}, 2024)
		if err != nil {
			t.Fatal(err)
		}
		ticks := 0
		res := Play(run, New(cfg.Player.X), 1.0/60, 5000, func(sim.Intents) { ticks++ })
		return res, run.Snapshot().Hash(), ticks
	}

	r1, h1, n1 := play()
	r2, h2, n2 := play()
	if h1 != h2 || n1 != n2 || r1.Score != r2.Score {
		t.Errorf("autopilot runs diverged: %x/%d/%v vs %x/%d/%v", h1, n1, r1.Score, h2, n2, r2.Score)
	}
	if n1 < 1 || n1 > 5000 {
		t.Errorf("observed %d ticks", n1)
	}
	if r1.GameOver && r1.Summary == nil {
		t.Error("Play() ended on a game over without its summary")
	}
}
