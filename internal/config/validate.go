package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

func positive(name string, v float64) error {
	if v <= 0 {
		return invalid("%s must be positive, got %v", name, v)
	}
	return nil
}

func notNegative(name string, v float64) error {
	if v < 0 {
		return invalid("%s must not be negative, got %v", name, v)
	}
	return nil
}

func chance(name string, v float64) error {
	if v < 0 || v > 1 {
		return invalid("%s must be within [0, 1], got %v", name, v)
	}
	return nil
}

// Validate reports every problem in the config at once.
func (c RunnerConfig) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(positive("world.width", c.World.Width))
	add(positive("world.height", c.World.Height))
	if c.World.Width <= 2*c.World.ClampMargin {
		add(invalid("world.width %v leaves no room inside clamp_margin %v", c.World.Width, c.World.ClampMargin))
	}
	if c.World.GroundY < 0 || c.World.GroundY >= c.World.Height {
		add(invalid("world.ground_y %v outside the field", c.World.GroundY))
	}

	add(positive("player.stand_width", c.Player.StandWidth))
	add(positive("player.stand_height", c.Player.StandHeight))
	add(positive("player.crouch_width", c.Player.CrouchWidth))
	add(positive("player.crouch_height", c.Player.CrouchHeight))
	add(positive("player.jump_time_to_apex", c.Player.JumpTimeToApex))
	add(positive("player.mass", c.Player.Mass))
	if c.Player.JumpBuffer < 0 || c.Player.CoyoteTime < 0 {
		add(invalid("player jump_buffer and coyote_time must not be negative"))
	}
	if c.Player.JumpCutoff <= 0 || c.Player.JumpCutoff > 1 {
		add(invalid("player.jump_cutoff must be within (0, 1], got %v", c.Player.JumpCutoff))
	}

	add(positive("physics.gravity_low", c.Physics.GravityLow))
	add(positive("physics.gravity_normal", c.Physics.GravityNormal))
	add(positive("physics.gravity_high", c.Physics.GravityHigh))
	add(positive("physics.terminal_velocity", c.Physics.TerminalVelocity))
	if c.Physics.AirDrag < 0 {
		add(invalid("physics.air_drag must not be negative"))
	}
	if c.Physics.JumpMultMin <= 0 || c.Physics.JumpMultMin > c.Physics.JumpMultMax {
		add(invalid("physics jump multiplier range [%v, %v] is empty", c.Physics.JumpMultMin, c.Physics.JumpMultMax))
	}

	add(positive("speed.slow", c.Speed.Slow))
	add(positive("speed.normal", c.Speed.Normal))
	add(positive("speed.fast", c.Speed.Fast))

	add(positive("obstacles.spawn_interval_min", c.Obstacles.SpawnIntervalMin))
	if c.Obstacles.SpawnIntervalMax < c.Obstacles.SpawnIntervalMin {
		add(invalid("obstacles.spawn_interval_max %v below min %v", c.Obstacles.SpawnIntervalMax, c.Obstacles.SpawnIntervalMin))
	}
	add(chance("obstacles.bird_chance", c.Obstacles.BirdChance))
	add(validateWeights(c.Obstacles.ClusterWeights))

	add(positive("difficulty.ramp_duration", c.Difficulty.RampDuration))
	add(chance("difficulty.initial_progress", c.Difficulty.InitialProgress))
	add(chance("difficulty.max_bird_chance", c.Difficulty.MaxBirdChance))
	add(positive("difficulty.min_spawn_interval", c.Difficulty.MinSpawnInterval))

	add(positive("levels.score_step", c.Levels.ScoreStep))
	if c.Levels.Max < 1 {
		add(invalid("levels.max must be at least 1"))
	}

	add(positive("wind.interval", c.Wind.Interval))
	add(positive("wind.duration", c.Wind.Duration))
	add(positive("wind.particle_rate", c.Wind.ParticleRate))

	add(positive("pickups.coin_interval", c.Pickups.CoinInterval))
	add(positive("pickups.powerup_interval", c.Pickups.PowerupInterval))
	add(positive("pickups.meteor_interval", c.Pickups.MeteorInterval))
	add(chance("pickups.coin_chance", c.Pickups.CoinChance))
	add(chance("pickups.powerup_chance", c.Pickups.PowerupChance))
	add(chance("pickups.meteor_chance", c.Pickups.MeteorChance))
	add(positive("pickups.turbo_duration", c.Pickups.TurboDuration))
	add(positive("pickups.shield_duration", c.Pickups.ShieldDuration))
	add(positive("pickups.double_jump_duration", c.Pickups.DoubleJumpDuration))
	add(notNegative("pickups.start_shield_duration", c.Pickups.StartShieldDuration))

	add(positive("events.interval_min", c.Events.IntervalMin))
	if c.Events.IntervalMax < c.Events.IntervalMin {
		add(invalid("events.interval_max %v below min %v", c.Events.IntervalMax, c.Events.IntervalMin))
	}
	add(positive("events.duration", c.Events.Duration))
	add(chance("events.double_coin_chance", c.Events.DoubleCoinChance))

	if c.Golden.StreakCoins < 1 {
		add(invalid("golden.streak_coins must be at least 1"))
	}
	add(positive("golden.duration", c.Golden.Duration))

	add(positive("rules.interval", c.Rules.Interval))
	add(chance("rules.combo_chance", c.Rules.ComboChance))
	if c.Rules.StackMax < 0 {
		add(invalid("rules.stack_max must not be negative"))
	}
	add(notNegative("rules.banner_duration", c.Rules.BannerDuration))

	add(positive("day_night.cycle", c.DayNight.Cycle))

	return errors.Join(errs...)
}

func validateWeights(w []float64) error {
	if len(w) == 0 {
		return invalid("obstacles.cluster_weights must not be empty")
	}
	var sum float64
	for i, v := range w {
		if v < 0 {
			return invalid("obstacles.cluster_weights[%d] is negative", i)
		}
		sum += v
	}
	if sum <= 0 {
		return invalid("obstacles.cluster_weights sum to zero")
	}
	return nil
}
