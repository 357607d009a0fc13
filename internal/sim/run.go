// Package sim is the deterministic runner simulation: character physics,
// rule rotation, difficulty ramp, spawning, events and the modifier stack,
// advanced together one fixed step at a time by Run.
package sim

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/core"
)

// Intents are the decoded player inputs for one tick.
type Intents struct {
	JumpRequested bool
	JumpReleased  bool
	CrouchHeld    bool
	MoveDir       int // clamped to -1, 0, 1
}

// Upgrades are the owned shop items that change run constants.
type Upgrades struct {
	CoinBoost   bool `msgpack:"coin_boost"`
	ScoreBoost  bool `msgpack:"score_boost"`
	TurboPlus   bool `msgpack:"turbo_plus"`
	StartShield bool `msgpack:"start_shield"`
}

// Options are read once when a run is built and on every restart.
type Options struct {
	Mode     Mode
	Features config.Features
	Upgrades Upgrades
}

// Option configures a Run.
type Option func(*Run)

// WithLogger routes debug logging of rule changes, events and game over.
func WithLogger(l *log.Logger) Option {
	return func(r *Run) {
		if l != nil {
			r.log = l
		}
	}
}

// RunSummary is produced exactly once per run, on the tick that ends it.
type RunSummary struct {
	Mode      string
	Seed      int64
	Score     float64
	Coins     int
	Level     int
	RuleStack int
	Ticks     uint64
	Duration  float64
}

// Effects are the remaining durations of timed pickups.
type Effects struct {
	Turbo      float64
	Shield     float64
	DoubleJump float64
	Golden     float64
}

// TickResult is the state exposed after a tick.
type TickResult struct {
	Character       CharacterState
	SpeedMultiplier float64
	ScoreMultiplier float64
	ActiveRule      string
	ActiveEvent     string
	Spawned         []Entity
	Level           int
	Score           float64
	Coins           int
	GameOver        bool
	Summary         *RunSummary
	Wind            WindState
	Golden          bool
	RulesFrozen     bool
	NightMix        float64
	Progress        float64
	RuleStack       int
	Effects         Effects
	EventTimeLeft   float64
	RuleBanner      bool
	LevelBanner     bool
	Paused          bool
}

// Run owns every piece of mutable state of one play-through.
type Run struct {
	cfg  config.RunnerConfig
	opts Options
	feat config.Features
	log  *log.Logger

	seed int64
	rng  *countingSource

	world    WorldPhysicsState
	char     Character
	rules    *RuleEngine
	ramp     *DifficultyRamp
	events   *EventEngine
	spawns   *SpawnScheduler
	mods     ModifierStack
	entities entityList

	ruleStack  int
	score      float64
	coins      int
	level      int
	coinStreak int
	effects    Effects
	dayTime    float64

	ruleBanner  float64
	levelBanner float64

	ticks    uint64
	elapsed  float64
	progress float64
	last     ModifierSnapshot

	paused     bool
	gameOver   bool
	summarized bool
}

// New validates the configuration and builds a run for seed.
func New(cfg config.RunnerConfig, opts Options, seed int64, o ...Option) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if len(opts.Mode.Rules) == 0 {
		opts.Mode = RulesMode()
	}
	r := &Run{
		cfg:  cfg,
		opts: opts,
		feat: opts.Mode.effective(opts.Features),
		log:  log.New(io.Discard),
	}
	for _, fn := range o {
		fn(r)
	}
	if err := r.reset(seed); err != nil {
		return nil, err
	}
	return r, nil
}

// reset rebuilds every stateful component from scratch.
func (r *Run) reset(seed int64) error {
	rng := newSource(seed)
	lo, hi := r.opts.Mode.multRange(r.cfg)

	world := NewWorldPhysicsState(r.cfg, lo, hi)
	ramp := NewDifficultyRamp(r.cfg.Difficulty)
	// Draw order is fixed: event threshold, first obstacle time, first rule.
	events := NewEventEngine(r.cfg.Events, r.cfg.Wind.Duration, rng)
	spawns := NewSpawnScheduler(r.cfg, ramp.Progress(), rng)
	rules, err := NewRuleEngine(r.opts.Mode.Rules, r.opts.Mode.Combos, r.cfg.Rules.ComboChance, r.cfg.Rules.Interval, rng)
	if err != nil {
		return err
	}

	scoreBonus := 0.0
	if r.opts.Upgrades.ScoreBoost {
		scoreBonus = r.cfg.Pickups.ScoreBoostBonus
	}

	*r = Run{
		cfg:      r.cfg,
		opts:     r.opts,
		feat:     r.feat,
		log:      r.log,
		seed:     seed,
		rng:      rng,
		world:    world,
		char:     NewCharacter(r.cfg, r.opts.Mode.BufferedJump),
		rules:    rules,
		ramp:     ramp,
		events:   events,
		spawns:   spawns,
		mods:     NewModifierStack(r.cfg, scoreBonus),
		level:    1,
		progress: ramp.Progress(),
	}
	if r.opts.Upgrades.StartShield {
		r.effects.Shield = r.cfg.Pickups.StartShieldDuration
	}

	first := r.rules.ForceNext(&r.world)
	r.ruleBanner = r.cfg.Rules.BannerDuration
	r.last = r.mods.Compute(r.modifierInputs())
	r.log.Debug("run started", "mode", r.opts.Mode.ID, "seed", seed, "rule", first.Name)
	return nil
}

// Restart discards the run and builds a fresh one. A zero seed keeps the
// current seed.
func (r *Run) Restart(seed int64) {
	if seed == 0 {
		seed = r.seed
	}
	if err := r.reset(seed); err != nil {
		r.log.Error("restart failed", "err", err)
	}
}

// Seed returns the seed of the current run.
func (r *Run) Seed() int64 { return r.seed }

// Mode returns the mode the run was built with.
func (r *Run) Mode() Mode { return r.opts.Mode }

// SetPaused freezes or resumes the run. Ticks while paused change nothing.
func (r *Run) SetPaused(p bool) { r.paused = p }

// Paused reports whether the run is paused.
func (r *Run) Paused() bool { return r.paused }

// GameOver reports whether the run has ended.
func (r *Run) GameOver() bool { return r.gameOver }

// ForceNextRule applies the next rule immediately and returns its name.
func (r *Run) ForceNextRule() string {
	rule := r.rules.ForceNext(&r.world)
	r.onRuleApplied(rule.Name)
	return rule.Name
}

// ToggleRuleFreeze flips automatic rule rotation and returns the new state.
func (r *Run) ToggleRuleFreeze() bool {
	frozen := r.rules.ToggleFreeze()
	r.log.Debug("rule freeze", "frozen", frozen)
	return frozen
}

// World returns a copy of the current world parameters.
func (r *Run) World() WorldPhysicsState { return r.world }

// Entities returns a copy of the live entities.
func (r *Run) Entities() []Entity { return slices.Clone(r.entities) }

// Config returns the configuration the run was built with.
func (r *Run) Config() config.RunnerConfig { return r.cfg }

// Tick advances the run by dt seconds. Non-positive dt, a paused run and a
// finished run all return the current state unchanged.
func (r *Run) Tick(dt float64, in Intents) TickResult {
	if r.paused || r.gameOver || dt <= 0 {
		return r.result(nil, nil)
	}

	dir := core.Clamp(in.MoveDir, -1, 1)
	if in.JumpRequested {
		r.char.RequestJump(r.world.JumpVelocity())
	}
	if in.JumpReleased {
		r.char.CutJump()
	}

	// Physics.
	r.char.Step(dt, &r.world)
	r.char.SetCrouch(in.CrouchHeld)
	r.char.Move(dt, dir, &r.world)

	// Difficulty, rules, events.
	r.progress = r.ramp.Advance(dt)
	if r.rules.Update(dt, &r.world) {
		r.onRuleApplied(r.rules.CurrentName())
	}
	started, ended := r.events.Update(dt, r.feat.Events, r.spawns.Wind())
	if started != EventNone {
		r.log.Debug("event started", "event", started.String())
	}
	if ended != EventNone {
		r.log.Debug("event ended", "event", ended.String())
	}

	r.updateEffects(dt)

	// Modifiers, score, level.
	r.last = r.mods.Compute(r.modifierInputs())
	r.score += dt * r.last.Score
	r.updateLevel()

	// Spawning.
	event := r.events.Active()
	streaks := r.spawns.UpdateWind(dt, r.feat.Wind || event == EventStorm)
	r.char.X += r.spawns.Wind().Push(dt, r.windMult())
	r.char.X = core.ClampF(r.char.X, r.cfg.World.ClampMargin, r.cfg.World.Width-r.cfg.World.ClampMargin)

	spawned := r.spawns.Update(SpawnContext{
		Dt:       dt,
		Progress: r.progress,
		Event:    event,
		Pickups:  r.opts.Mode.Pickups,
		Meteors:  r.feat.Meteors,
	})
	spawned = append(spawned, streaks...)
	r.entities = append(r.entities, spawned...)
	r.entities = r.entities.advance(dt, r.world.ObstacleSpeed*r.last.Speed, r.meteorSpeed(), r.cfg.World.Width)

	r.ticks++
	r.elapsed += dt

	summary := r.collide()
	return r.result(spawned, summary)
}

func (r *Run) onRuleApplied(name string) {
	r.ruleStack = min(r.cfg.Rules.StackMax, r.ruleStack+1)
	r.ruleBanner = r.cfg.Rules.BannerDuration
	r.log.Debug("rule applied", "rule", name, "stack", r.ruleStack,
		"gravity", r.world.GravityPreset.String(), "speed", r.world.SpeedPreset.String())
}

func (r *Run) updateEffects(dt float64) {
	r.effects.Turbo = math.Max(0, r.effects.Turbo-dt)
	r.effects.Shield = math.Max(0, r.effects.Shield-dt)
	r.effects.DoubleJump = math.Max(0, r.effects.DoubleJump-dt)
	r.effects.Golden = math.Max(0, r.effects.Golden-dt)

	jumps := 1
	if r.effects.DoubleJump > 0 || r.world.DoubleJump {
		jumps = 2
	}
	r.char.SetMaxJumps(jumps)

	if r.feat.DayNight {
		r.dayTime += dt
	}
	r.ruleBanner = math.Max(0, r.ruleBanner-dt)
	r.levelBanner = math.Max(0, r.levelBanner-dt)
}

func (r *Run) updateLevel() {
	level := LevelForScore(r.score, r.cfg.Levels)
	if level != r.level {
		r.level = level
		r.levelBanner = r.cfg.Rules.BannerDuration
		r.log.Debug("level up", "level", level)
	}
}

func (r *Run) modifierInputs() ModifierInputs {
	return ModifierInputs{
		RuleStack:   r.ruleStack,
		TurboActive: r.effects.Turbo > 0,
		Progress:    r.progress,
		Event:       r.events.Active(),
		Level:       r.level,
	}
}

func (r *Run) windMult() float64 {
	if r.events.Active() == EventStorm {
		return r.cfg.Events.StormWindMult
	}
	return 1
}

// meteorSpeed is independent of the world multipliers.
func (r *Run) meteorSpeed() float64 {
	return r.cfg.Speed.Normal * r.cfg.Pickups.MeteorSpeedMult
}

// collide resolves pickups and obstacles against the character.
func (r *Run) collide() *RunSummary {
	box := r.char.Box()
	var consumed []int

	for _, i := range r.entities.hits(box, func(k EntityKind) bool { return k == EntityCoin }) {
		consumed = append(consumed, i)
		r.collectCoin()
	}
	for _, i := range r.entities.hits(box, func(k EntityKind) bool { return k == EntityPowerup }) {
		consumed = append(consumed, i)
		r.applyPowerup(r.entities[i].Powerup)
	}
	for _, i := range r.entities.hits(box, func(k EntityKind) bool { return k == EntityMeteor }) {
		consumed = append(consumed, i)
		r.score += r.cfg.Pickups.MeteorScore
	}

	var summary *RunSummary
	if hits := r.entities.hits(box, EntityKind.IsObstacle); len(hits) > 0 {
		if r.effects.Shield > 0 {
			r.effects.Shield = 0
			consumed = append(consumed, hits...)
			r.log.Debug("shield absorbed hit", "obstacles", len(hits))
		} else {
			summary = r.finish()
		}
		r.coinStreak = 0
	}

	slices.Sort(consumed)
	r.entities = r.entities.without(consumed)
	return summary
}

func (r *Run) collectCoin() {
	mult := 1.0
	if r.events.Active() == EventDoubleCoins {
		mult = r.cfg.Events.DoubleCoinMult
	}
	if r.opts.Upgrades.CoinBoost {
		mult *= r.cfg.Pickups.CoinBoostMult
	}
	r.coins += int(math.RoundToEven(mult))
	r.score += 2 * mult
	r.coinStreak++
	if r.feat.Golden && r.coinStreak >= r.cfg.Golden.StreakCoins && r.effects.Golden <= 0 {
		r.effects.Golden = r.cfg.Golden.Duration
		r.log.Debug("golden streak", "streak", r.coinStreak)
	}
}

func (r *Run) applyPowerup(kind PowerupKind) {
	switch kind {
	case PowerupTurbo:
		d := r.cfg.Pickups.TurboDuration
		if r.opts.Upgrades.TurboPlus {
			d *= r.cfg.Pickups.TurboPlusMult
		}
		r.effects.Turbo = d
	case PowerupShield:
		r.effects.Shield = r.cfg.Pickups.ShieldDuration
	case PowerupDoubleJump:
		r.effects.DoubleJump = r.cfg.Pickups.DoubleJumpDuration
	}
}

// finish ends the run; the summary is built at most once.
func (r *Run) finish() *RunSummary {
	r.gameOver = true
	if r.summarized {
		return nil
	}
	r.summarized = true
	s := &RunSummary{
		Mode:      r.opts.Mode.ID,
		Seed:      r.seed,
		Score:     r.score,
		Coins:     r.coins,
		Level:     r.level,
		RuleStack: r.ruleStack,
		Ticks:     r.ticks,
		Duration:  r.elapsed,
	}
	r.log.Info("game over", "mode", s.Mode, "score", int(s.Score), "coins", s.Coins, "level", s.Level)
	return s
}

// NightMix is 0 at noon and 1 at midnight.
func (r *Run) NightMix() float64 {
	if !r.feat.DayNight || r.cfg.DayNight.Cycle <= 0 {
		return 0
	}
	t := math.Mod(r.dayTime, r.cfg.DayNight.Cycle) / r.cfg.DayNight.Cycle
	return 0.5 - 0.5*math.Cos(2*math.Pi*t)
}

func (r *Run) result(spawned []Entity, summary *RunSummary) TickResult {
	return TickResult{
		Character:       r.char.State(),
		SpeedMultiplier: r.last.Speed,
		ScoreMultiplier: r.last.Score,
		ActiveRule:      r.rules.CurrentName(),
		ActiveEvent:     r.events.Active().String(),
		Spawned:         spawned,
		Level:           r.level,
		Score:           r.score,
		Coins:           r.coins,
		GameOver:        r.gameOver,
		Summary:         summary,
		Wind:            r.spawns.Wind().State(r.windMult()),
		Golden:          r.effects.Golden > 0,
		RulesFrozen:     r.rules.Frozen(),
		NightMix:        r.NightMix(),
		Progress:        r.progress,
		RuleStack:       r.ruleStack,
		Effects:         r.effects,
		EventTimeLeft:   r.events.TimeLeft(),
		RuleBanner:      r.ruleBanner > 0,
		LevelBanner:     r.levelBanner > 0,
		Paused:          r.paused,
	}
}
