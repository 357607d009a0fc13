package sim

import (
	"math"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/core"
)

// SpawnContext is what the scheduler reads each tick.
type SpawnContext struct {
	Dt       float64
	Progress float64
	Event    EventKind
	Pickups  bool // coins and power-ups
	Meteors  bool
}

// SpawnScheduler decides what enters the field and when.
type SpawnScheduler struct {
	obs    config.ObstacleConfig
	diff   config.DifficultyConfig
	pick   config.PickupConfig
	events config.EventConfig
	world  config.WorldConfig

	obstacleTimer float64
	nextObstacle  float64
	coinTimer     float64
	powerupTimer  float64
	meteorTimer   float64
	last          ObstacleClass
	nextID        uint64

	wind *Wind
	rng  Source
}

// NewSpawnScheduler draws the first obstacle time for the given progress.
func NewSpawnScheduler(cfg config.RunnerConfig, progress float64, rng Source) *SpawnScheduler {
	s := &SpawnScheduler{
		obs:    cfg.Obstacles,
		diff:   cfg.Difficulty,
		pick:   cfg.Pickups,
		events: cfg.Events,
		world:  cfg.World,
		wind:   newWind(cfg.Wind, cfg.World, rng),
		rng:    rng,
	}
	s.nextObstacle = s.drawInterval(progress)
	return s
}

func (s *SpawnScheduler) drawInterval(progress float64) float64 {
	lo, hi := SpawnIntervalRange(s.obs, s.diff, progress)
	return uniform(s.rng, lo, hi)
}

func (s *SpawnScheduler) newID() uint64 {
	s.nextID++
	return s.nextID
}

// Wind exposes the gust state so events can drive it.
func (s *SpawnScheduler) Wind() *Wind { return s.wind }

// UpdateWind runs the gust cycle when wind is active and calms it otherwise.
func (s *SpawnScheduler) UpdateWind(dt float64, active bool) []Entity {
	if !active {
		s.wind.Stop()
		return nil
	}
	return s.wind.Update(dt, s.newID)
}

// Update advances every spawn timer and returns the new entities.
func (s *SpawnScheduler) Update(ctx SpawnContext) []Entity {
	if ctx.Dt <= 0 {
		return nil
	}
	s.obstacleTimer += ctx.Dt
	s.coinTimer += ctx.Dt
	s.powerupTimer += ctx.Dt
	s.meteorTimer += ctx.Dt

	var out []Entity

	if s.obstacleTimer >= s.nextObstacle {
		s.obstacleTimer = 0
		out = append(out, s.spawnObstacle(ctx.Progress)...)
		s.nextObstacle = s.drawInterval(ctx.Progress)
	}

	if ctx.Pickups && s.coinTimer >= s.pick.CoinInterval {
		s.coinTimer = 0
		if s.rng.Float64() < s.coinChance(ctx.Event) {
			out = append(out, s.pickup(EntityCoin, s.world.GroundY+12, s.pick.CoinSize))
		}
	}

	if ctx.Pickups && s.powerupTimer >= s.pick.PowerupInterval {
		s.powerupTimer = 0
		if s.rng.Float64() < s.pick.PowerupChance {
			e := s.pickup(EntityPowerup, s.world.GroundY+14, s.pick.PowerupSize)
			e.Powerup = PowerupKind(s.rng.Intn(3))
			out = append(out, e)
		}
	}

	if ctx.Meteors && s.meteorTimer >= s.pick.MeteorInterval {
		s.meteorTimer = 0
		if s.rng.Float64() < s.pick.MeteorChance {
			y := uniform(s.rng, s.world.GroundY+80, s.world.Height-140)
			out = append(out, Entity{
				ID:   s.newID(),
				Kind: EntityMeteor,
				Box:  core.BoxAt(s.world.Width+40, y, s.pick.MeteorSize, s.pick.MeteorSize),
			})
		}
	}

	return out
}

func (s *SpawnScheduler) coinChance(ev EventKind) float64 {
	c := s.pick.CoinChance
	switch ev {
	case EventFever:
		c = math.Min(1, c+s.events.FeverCoinBonus)
	case EventDoubleCoins:
		c = math.Min(1, c+s.events.DoubleCoinChance)
	}
	return c
}

func (s *SpawnScheduler) pickup(kind EntityKind, cy, size float64) Entity {
	return Entity{
		ID:   s.newID(),
		Kind: kind,
		Box:  core.BoxAt(s.world.Width+30, cy, size, size),
	}
}

// spawnObstacle emits a bird or a cactus group. No two low-clearance
// obstacles follow each other: a low bird after a cactus or a low bird is
// raised, and a cactus group after a low bird becomes a high bird.
func (s *SpawnScheduler) spawnObstacle(progress float64) []Entity {
	if s.rng.Float64() < BirdChance(s.obs, s.diff, progress) {
		class := ClassBirdHigh
		if s.rng.Intn(2) == 0 {
			class = ClassBirdLow
		}
		if class == ClassBirdLow && s.last.LowClearance() {
			class = ClassBirdHigh
		}
		return s.bird(class)
	}
	if s.last == ClassBirdLow {
		return s.bird(ClassBirdHigh)
	}

	size := weightedIndex(s.rng.Float64(), s.obs.ClusterWeights) + 1
	baseX := s.world.Width + s.obs.Width
	spacing := float64(int(s.obs.Width*0.8 + 6))
	group := make([]Entity, 0, size)
	for i := 0; i < size; i++ {
		group = append(group, Entity{
			ID:    s.newID(),
			Kind:  EntityCactus,
			Class: ClassCactus,
			Box:   core.BoxAt(baseX+float64(i)*spacing, s.world.GroundY+s.obs.Height/2, s.obs.Width, s.obs.Height),
		})
	}
	s.last = ClassCactus
	return group
}

func (s *SpawnScheduler) bird(class ObstacleClass) []Entity {
	cy := s.obs.BirdHighY
	if class == ClassBirdLow {
		cy = s.obs.BirdLowY
	}
	s.last = class
	return []Entity{{
		ID:    s.newID(),
		Kind:  EntityBird,
		Class: class,
		Box:   core.BoxAt(s.world.Width+50, cy, s.obs.BirdWidth, s.obs.BirdHeight),
	}}
}

// LastObstacle returns the class of the most recent obstacle spawn.
func (s *SpawnScheduler) LastObstacle() ObstacleClass { return s.last }

// weightedIndex maps a roll in [0,1) onto cumulative weights.
func weightedIndex(roll float64, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	target := roll * total
	var acc float64
	for i, w := range weights {
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}
