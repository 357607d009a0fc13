package sim

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/rule-runner/internal/config"
)

const dt = 1.0 / 60

func allFeatures() config.Features {
	return config.Features{Wind: true, DayNight: true, Events: true, Meteors: true, Golden: true}
}

func newTestRun(t *testing.T, cfg config.RunnerConfig, mode Mode, seed int64) *Run {
	t.Helper()
	r, err := New(cfg, Options{Mode: mode, Features: allFeatures()}, seed)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return r
}

// scripted jumps every 40 ticks and crouches now and then.
func scripted(i int) Intents {
	return Intents{
		JumpRequested: i%40 == 0,
		JumpReleased:  i%40 == 12,
		CrouchHeld:    i%97 < 10,
		MoveDir:       (i/120)%3 - 1,
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.RunnerConfig)
	}{
		{"rule interval", func(c *config.RunnerConfig) { c.Rules.Interval = 0 }},
		{"turbo duration", func(c *config.RunnerConfig) { c.Pickups.TurboDuration = -1 }},
		{"shield duration", func(c *config.RunnerConfig) { c.Pickups.ShieldDuration = 0 }},
		{"double jump duration", func(c *config.RunnerConfig) { c.Pickups.DoubleJumpDuration = -3 }},
		{"golden duration", func(c *config.RunnerConfig) { c.Golden.Duration = -5 }},
		{"wind particles", func(c *config.RunnerConfig) { c.Wind.ParticleRate = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultRunnerConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg, Options{Mode: RulesMode()}, 1); !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestRunDeterminism(t *testing.T) {
	cfg := config.DefaultRunnerConfig()

	play := func(seed int64) (uint64, TickResult) {
		r := newTestRun(t, cfg, RulesMode(), seed)
		var res TickResult
		for i := 0; i < 3000; i++ {
			res = r.Tick(dt, scripted(i))
		}
		return r.Snapshot().Hash(), res
	}

	h1, res1 := play(12345)
	h2, res2 := play(12345)
	if h1 != h2 {
		t.Errorf("same seed produced different hashes: %x vs %x", h1, h2)
	}
	if res1.Score != res2.Score || res1.Coins != res2.Coins || res1.GameOver != res2.GameOver {
		t.Errorf("same seed diverged: %+v vs %+v", res1, res2)
	}

	h3, _ := play(54321)
	if h1 == h3 {
		t.Error("different seeds produced the same hash")
	}
}

func TestRestartMatchesFreshRun(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	opts := Options{
		Mode:     RulesMode(),
		Features: allFeatures(),
		Upgrades: Upgrades{StartShield: true, ScoreBoost: true},
	}

	played, err := New(cfg, opts, 42)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2000; i++ {
		played.Tick(dt, scripted(i))
		if i == 300 {
			played.ToggleRuleFreeze()
		}
		if i == 600 {
			played.ForceNextRule()
		}
	}
	played.SetPaused(true)
	played.Restart(0)

	fresh, err := New(cfg, opts, 42)
	if err != nil {
		t.Fatal(err)
	}

	got, want := played.Snapshot(), fresh.Snapshot()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("restarted run differs from a fresh one:\n%+v\n%+v", got, want)
	}
	if got.Hash() != want.Hash() {
		t.Errorf("Hash() = %x, expected %x", got.Hash(), want.Hash())
	}
	if got.Score != 0 || got.Coins != 0 || got.RuleStack != 0 || got.RampElapsed != 0 {
		t.Errorf("restart left state behind: %+v", got)
	}
}

func TestRestartWithSeed(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r := newTestRun(t, cfg, RulesMode(), 1)
	r.Restart(99)
	if r.Seed() != 99 {
		t.Errorf("Seed() = %d, expected 99", r.Seed())
	}
	fresh := newTestRun(t, cfg, RulesMode(), 99)
	if r.Snapshot().Hash() != fresh.Snapshot().Hash() {
		t.Error("Restart(99) differs from New(99)")
	}
}

func TestPausedTickChangesNothing(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r := newTestRun(t, cfg, RulesMode(), 7)
	for i := 0; i < 100; i++ {
		r.Tick(dt, scripted(i))
	}

	r.SetPaused(true)
	before := r.Snapshot()
	res := r.Tick(dt, Intents{JumpRequested: true, MoveDir: 1})
	if !res.Paused {
		t.Error("TickResult.Paused should be true")
	}
	if !reflect.DeepEqual(before, r.Snapshot()) {
		t.Error("paused tick changed the run")
	}

	r.SetPaused(false)
	r.Tick(dt, Intents{})
	if reflect.DeepEqual(before, r.Snapshot()) {
		t.Error("resumed tick did not advance the run")
	}
}

func TestNonPositiveDtChangesNothing(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r := newTestRun(t, cfg, RulesMode(), 7)
	before := r.Snapshot().Hash()
	r.Tick(0, Intents{JumpRequested: true})
	r.Tick(-dt, Intents{MoveDir: 1})
	if r.Snapshot().Hash() != before {
		t.Error("non-positive dt changed the run")
	}
}

func TestFirstTickScore(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r := newTestRun(t, cfg, RulesMode(), 3)
	res := r.Tick(dt, Intents{})
	if math.Abs(res.Score-dt*res.ScoreMultiplier) > 1e-12 {
		t.Errorf("Score = %v, expected %v", res.Score, dt*res.ScoreMultiplier)
	}
	if res.Level != 1 {
		t.Errorf("Level = %d, expected 1", res.Level)
	}
}

func TestJumpThroughRun(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Rules.ComboChance = 0
	r := newTestRun(t, cfg, RulesMode(), 3)

	res := r.Tick(dt, Intents{JumpRequested: true})
	want := cfg.Physics.GravityNormal * cfg.Player.JumpTimeToApex
	if math.Abs(res.Character.VelY-want) > 1e-9 {
		t.Errorf("VelY = %v, expected %v", res.Character.VelY, want)
	}
	if res.Character.Grounded {
		t.Error("character still grounded after a jump")
	}
}

func TestMoveDirIsClamped(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Rules.ComboChance = 0

	a := newTestRun(t, cfg, RulesMode(), 5)
	b := newTestRun(t, cfg, RulesMode(), 5)
	ra := a.Tick(dt, Intents{MoveDir: 7})
	rb := b.Tick(dt, Intents{MoveDir: 1})
	if ra.Character.VelX != rb.Character.VelX || ra.Character.X != rb.Character.X {
		t.Errorf("MoveDir 7 gave %+v, MoveDir 1 gave %+v", ra.Character, rb.Character)
	}
}

func TestForceNextRuleRotation(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Rules.ComboChance = 0
	r := newTestRun(t, cfg, RulesMode(), 1)

	if got := r.Tick(dt, Intents{}).ActiveRule; got != "NOTHING" {
		t.Fatalf("initial rule = %q, expected NOTHING", got)
	}

	rules := DefaultRules()
	for i := 1; i <= len(rules); i++ {
		expected := rules[i%len(rules)].Name
		if got := r.ForceNextRule(); got != expected {
			t.Errorf("ForceNextRule() #%d = %q, expected %q", i, got, expected)
		}
	}
	if s := r.Snapshot().RuleStack; s != cfg.Rules.StackMax {
		t.Errorf("RuleStack = %d, expected cap %d", s, cfg.Rules.StackMax)
	}
}

func TestHighGravityScenario(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Rules.ComboChance = 0
	r := newTestRun(t, cfg, RulesMode(), 1)

	r.ForceNextRule() // LOW GRAVITY
	if got := r.ForceNextRule(); got != "HIGH GRAVITY" {
		t.Fatalf("ForceNextRule() = %q, expected HIGH GRAVITY", got)
	}
	w := r.World()
	if w.Gravity != 3200 {
		t.Errorf("Gravity = %v, expected 3200", w.Gravity)
	}
	if math.Abs(w.JumpMultiplier-0.7906) > 1e-3 {
		t.Errorf("JumpMultiplier = %v, expected about 0.79", w.JumpMultiplier)
	}
	if w.MaxJumpHeight != cfg.JumpHeight.High {
		t.Errorf("MaxJumpHeight = %v, expected %v", w.MaxJumpHeight, cfg.JumpHeight.High)
	}
}

func TestClassicModeClamp(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r := newTestRun(t, cfg, ClassicMode(), 1)

	// Classic rotation: LOW, HIGH, FAST, SLOW. LOW is applied at start.
	if got := r.Tick(dt, Intents{}).ActiveRule; got != "LOW GRAVITY" {
		t.Fatalf("initial classic rule = %q, expected LOW GRAVITY", got)
	}
	if got := r.World().JumpMultiplier; got != 1.15 {
		t.Errorf("classic LOW multiplier = %v, expected 1.15", got)
	}
	r.ForceNextRule()
	if got := r.World().JumpMultiplier; got != 0.85 {
		t.Errorf("classic HIGH multiplier = %v, expected 0.85", got)
	}
}

func TestClassicModeHasNoPickups(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r := newTestRun(t, cfg, ClassicMode(), 9)
	for i := 0; i < 3600; i++ {
		res := r.Tick(dt, Intents{})
		for _, e := range res.Spawned {
			if !e.Kind.IsObstacle() {
				t.Fatalf("classic mode spawned %v", e.Kind)
			}
		}
		if res.ActiveEvent != "" || res.Wind.Active {
			t.Fatalf("classic mode ran event %q wind %v", res.ActiveEvent, res.Wind.Active)
		}
		if res.GameOver {
			break
		}
	}
}

func TestRuleStackGrowsOnTimer(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Rules.Interval = 1
	r := newTestRun(t, cfg, RulesMode(), 2)

	var res TickResult
	for i := 0; i < 2; i++ {
		res = r.Tick(0.5, Intents{})
	}
	if res.RuleStack != 1 {
		t.Errorf("RuleStack after 1s = %d, expected 1", res.RuleStack)
	}
	for i := 0; i < 6; i++ {
		res = r.Tick(0.5, Intents{})
	}
	if res.RuleStack != cfg.Rules.StackMax {
		t.Errorf("RuleStack after 4s = %d, expected %d", res.RuleStack, cfg.Rules.StackMax)
	}
}

func TestGameOverSummaryOnce(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Obstacles.BirdChance = 0
	cfg.Difficulty.MaxBirdChance = 0
	cfg.Pickups.PowerupChance = 0
	r := newTestRun(t, cfg, RulesMode(), 4)

	summaries := 0
	var last TickResult
	for i := 0; i < 60*60; i++ {
		res := r.Tick(dt, Intents{})
		if res.Summary != nil {
			summaries++
			if res.Summary.Score != res.Score || res.Summary.Coins != res.Coins {
				t.Errorf("summary %+v does not match result score=%v coins=%d", res.Summary, res.Score, res.Coins)
			}
			if res.Summary.Mode != "rules" || res.Summary.Seed != 4 {
				t.Errorf("summary identity = %q/%d", res.Summary.Mode, res.Summary.Seed)
			}
		}
		last = res
	}
	if !last.GameOver {
		t.Fatal("standing still never hit a cactus")
	}
	if summaries != 1 {
		t.Errorf("got %d summaries, expected 1", summaries)
	}

	before := r.Snapshot()
	r.Tick(dt, Intents{JumpRequested: true})
	if !reflect.DeepEqual(before, r.Snapshot()) {
		t.Error("tick after game over changed the run")
	}
}

func TestStartShieldUpgrade(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r, err := New(cfg, Options{Mode: RulesMode(), Upgrades: Upgrades{StartShield: true}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	res := r.Tick(dt, Intents{})
	if math.Abs(res.Effects.Shield-(cfg.Pickups.StartShieldDuration-dt)) > 1e-9 {
		t.Errorf("Shield = %v, expected %v", res.Effects.Shield, cfg.Pickups.StartShieldDuration-dt)
	}
}

func TestShieldAbsorbsHit(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r := newTestRun(t, cfg, RulesMode(), 1)
	r.effects.Shield = 5
	r.coinStreak = 10
	r.entities = entityList{{ID: 999, Kind: EntityCactus, Class: ClassCactus, Box: r.char.Box()}}

	if s := r.collide(); s != nil {
		t.Fatal("shielded hit ended the run")
	}
	if r.effects.Shield != 0 || len(r.entities) != 0 || r.coinStreak != 0 {
		t.Errorf("shield=%v entities=%d streak=%d after absorbed hit", r.effects.Shield, len(r.entities), r.coinStreak)
	}

	r.entities = entityList{{ID: 1000, Kind: EntityBird, Class: ClassBirdLow, Box: r.char.Box()}}
	if s := r.collide(); s == nil || !r.gameOver {
		t.Error("unshielded hit did not end the run")
	}
}

func TestCoinCollection(t *testing.T) {
	tests := []struct {
		name      string
		boost     bool
		event     EventKind
		wantCoins int
		wantScore float64
	}{
		{"plain", false, EventNone, 1, 2},
		{"boost", true, EventNone, 2, 3},
		{"double coins", false, EventDoubleCoins, 2, 4},
		{"boost and double", true, EventDoubleCoins, 3, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultRunnerConfig()
			r, err := New(cfg, Options{Mode: RulesMode(), Features: allFeatures(), Upgrades: Upgrades{CoinBoost: tt.boost}}, 1)
			if err != nil {
				t.Fatal(err)
			}
			r.events.active = tt.event
			r.entities = entityList{{ID: 1, Kind: EntityCoin, Box: r.char.Box()}}

			r.collide()
			if r.coins != tt.wantCoins {
				t.Errorf("coins = %d, expected %d", r.coins, tt.wantCoins)
			}
			if math.Abs(r.score-tt.wantScore) > 1e-9 {
				t.Errorf("score = %v, expected %v", r.score, tt.wantScore)
			}
			if r.coinStreak != 1 || len(r.entities) != 0 {
				t.Errorf("streak=%d entities=%d", r.coinStreak, len(r.entities))
			}
		})
	}
}

func TestGoldenStreak(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r := newTestRun(t, cfg, RulesMode(), 1)
	r.coinStreak = cfg.Golden.StreakCoins - 1
	r.entities = entityList{{ID: 1, Kind: EntityCoin, Box: r.char.Box()}}
	r.collide()
	if r.effects.Golden != cfg.Golden.Duration {
		t.Errorf("Golden = %v, expected %v", r.effects.Golden, cfg.Golden.Duration)
	}
}

func TestPowerups(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r, err := New(cfg, Options{Mode: RulesMode(), Upgrades: Upgrades{TurboPlus: true}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	box := r.char.Box()
	r.entities = entityList{
		{ID: 1, Kind: EntityPowerup, Powerup: PowerupTurbo, Box: box},
		{ID: 2, Kind: EntityPowerup, Powerup: PowerupShield, Box: box},
		{ID: 3, Kind: EntityPowerup, Powerup: PowerupDoubleJump, Box: box},
		{ID: 4, Kind: EntityMeteor, Box: box},
	}
	r.collide()

	if r.effects.Turbo != cfg.Pickups.TurboDuration*cfg.Pickups.TurboPlusMult {
		t.Errorf("Turbo = %v", r.effects.Turbo)
	}
	if r.effects.Shield != cfg.Pickups.ShieldDuration || r.effects.DoubleJump != cfg.Pickups.DoubleJumpDuration {
		t.Errorf("Shield = %v, DoubleJump = %v", r.effects.Shield, r.effects.DoubleJump)
	}
	if r.score != cfg.Pickups.MeteorScore {
		t.Errorf("score = %v, expected meteor bonus %v", r.score, cfg.Pickups.MeteorScore)
	}
	if len(r.entities) != 0 {
		t.Errorf("%d pickups left", len(r.entities))
	}

	res := r.Tick(dt, Intents{})
	if res.Character.MaxJumps != 2 {
		t.Errorf("MaxJumps = %d with double jump active, expected 2", res.Character.MaxJumps)
	}
}

func TestCharacterStaysInBounds(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r := newTestRun(t, cfg, RulesMode(), 8)
	lo, hi := cfg.World.ClampMargin, cfg.World.Width-cfg.World.ClampMargin
	for i := 0; i < 2000; i++ {
		dir := -1
		if (i/300)%2 == 1 {
			dir = 1
		}
		res := r.Tick(dt, Intents{MoveDir: dir, JumpRequested: i%30 == 0})
		if res.Character.X < lo || res.Character.X > hi {
			t.Fatalf("tick %d: x=%v outside [%v, %v]", i, res.Character.X, lo, hi)
		}
		if res.Character.Y < cfg.World.GroundY-groundEpsilon {
			t.Fatalf("tick %d: bottom %v below ground", i, res.Character.Y)
		}
		if res.GameOver {
			break
		}
	}
}

func TestNightMix(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	r := newTestRun(t, cfg, RulesMode(), 1)
	if got := r.NightMix(); got != 0 {
		t.Errorf("NightMix() at start = %v, expected 0", got)
	}
	r.dayTime = cfg.DayNight.Cycle / 2
	if got := r.NightMix(); math.Abs(got-1) > 1e-12 {
		t.Errorf("NightMix() at half cycle = %v, expected 1", got)
	}
}

func TestStormBlowsWithWindDisabled(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	cfg.Events.IntervalMin = 2
	cfg.Events.IntervalMax = 2
	r, err := New(cfg, Options{Mode: RulesMode(), Features: config.Features{Events: true}}, 4)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	storm, calm := 0, 0
	seed := int64(4)
	for i := 0; i < 60*60*5; i++ {
		res := r.Tick(dt, scripted(i))
		if res.GameOver {
			seed++
			r.Restart(seed)
			continue
		}
		if res.ActiveEvent != EventStorm.String() {
			if res.Wind.Active && res.ActiveEvent == "" {
				calm++
			}
			continue
		}
		storm++
		if !res.Wind.Active {
			t.Fatalf("tick %d: STORM running without wind", i)
		}
	}
	if storm == 0 {
		t.Fatal("no STORM in five minutes of events every two seconds")
	}
	if calm != 0 {
		t.Errorf("wind blew for %d ticks outside a storm with wind disabled", calm)
	}
}
