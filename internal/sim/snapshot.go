package sim

import (
	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Snapshot is the complete mutable state of a run as plain values. Two runs
// with equal snapshots behave identically from then on.
type Snapshot struct {
	Seed       int64
	Draws      uint64
	Ticks      uint64
	Elapsed    float64
	Paused     bool
	GameOver   bool
	Summarized bool

	Score      float64
	Coins      int
	Level      int
	RuleStack  int
	CoinStreak int
	Effects    Effects
	DayTime    float64
	RuleBanner float64
	LvlBanner  float64

	Character CharacterSnapshot
	World     WorldSnapshot

	RuleTimer   float64
	RuleIndex   int
	RuleName    string
	RulesFrozen bool

	RampElapsed float64
	Progress    float64

	Event      EventKind
	EventLeft  float64
	EventTimer float64
	EventNext  float64

	ObstacleTimer float64
	NextObstacle  float64
	CoinTimer     float64
	PowerupTimer  float64
	MeteorTimer   float64
	LastObstacle  ObstacleClass
	NextID        uint64

	WindTimer    float64
	WindLeft     float64
	WindDir      int
	WindParticle float64

	Entities []Entity
}

// CharacterSnapshot mirrors Character.
type CharacterSnapshot struct {
	X, Y           float64
	VelX, VelY     float64
	Grounded       bool
	Crouching      bool
	JumpCount      int
	MaxJumps       int
	JumpBufferLeft float64
	CoyoteLeft     float64
	PendingJumpVel float64
	Buffered       bool
}

// WorldSnapshot mirrors WorldPhysicsState.
type WorldSnapshot struct {
	Gravity        float64
	GravityPreset  GravityPreset
	ObstacleSpeed  float64
	SpeedPreset    SpeedPreset
	MaxJumpHeight  float64
	JumpMultiplier float64
	Slippery       bool
	DoubleJump     bool
}

// Snapshot captures the run.
func (r *Run) Snapshot() Snapshot {
	c := r.char
	w := r.world
	wind := r.spawns.wind
	var entities []Entity
	if len(r.entities) > 0 {
		entities = append(entities, r.entities...)
	}
	return Snapshot{
		Seed:       r.seed,
		Draws:      r.rng.draws,
		Ticks:      r.ticks,
		Elapsed:    r.elapsed,
		Paused:     r.paused,
		GameOver:   r.gameOver,
		Summarized: r.summarized,

		Score:      r.score,
		Coins:      r.coins,
		Level:      r.level,
		RuleStack:  r.ruleStack,
		CoinStreak: r.coinStreak,
		Effects:    r.effects,
		DayTime:    r.dayTime,
		RuleBanner: r.ruleBanner,
		LvlBanner:  r.levelBanner,

		Character: CharacterSnapshot{
			X: c.X, Y: c.Y, VelX: c.VelX, VelY: c.VelY,
			Grounded:       c.Grounded,
			Crouching:      c.Crouching,
			JumpCount:      c.JumpCount,
			MaxJumps:       c.MaxJumps,
			JumpBufferLeft: c.JumpBufferLeft,
			CoyoteLeft:     c.CoyoteLeft,
			PendingJumpVel: c.PendingJumpVel,
			Buffered:       c.Buffered,
		},
		World: WorldSnapshot{
			Gravity:        w.Gravity,
			GravityPreset:  w.GravityPreset,
			ObstacleSpeed:  w.ObstacleSpeed,
			SpeedPreset:    w.SpeedPreset,
			MaxJumpHeight:  w.MaxJumpHeight,
			JumpMultiplier: w.JumpMultiplier,
			Slippery:       w.Slippery,
			DoubleJump:     w.DoubleJump,
		},

		RuleTimer:   r.rules.timer,
		RuleIndex:   r.rules.index,
		RuleName:    r.rules.CurrentName(),
		RulesFrozen: r.rules.frozen,

		RampElapsed: r.ramp.elapsed,
		Progress:    r.progress,

		Event:      r.events.active,
		EventLeft:  r.events.timeLeft,
		EventTimer: r.events.timer,
		EventNext:  r.events.next,

		ObstacleTimer: r.spawns.obstacleTimer,
		NextObstacle:  r.spawns.nextObstacle,
		CoinTimer:     r.spawns.coinTimer,
		PowerupTimer:  r.spawns.powerupTimer,
		MeteorTimer:   r.spawns.meteorTimer,
		LastObstacle:  r.spawns.last,
		NextID:        r.spawns.nextID,

		WindTimer:    wind.timer,
		WindLeft:     wind.timeLeft,
		WindDir:      wind.dir,
		WindParticle: wind.particleTimer,

		Entities: entities,
	}
}

// Hash fingerprints the snapshot: xxhash over its msgpack encoding.
func (s Snapshot) Hash() uint64 {
	d := xxhash.New()
	if err := msgpack.NewEncoder(d).Encode(&s); err != nil {
		return 0
	}
	return d.Sum64()
}
