package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the built-in configuration. It matches the
// embedded defaults/runner.yaml and is the last fallback of LoadRunner.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		World: WorldConfig{
			Width:       1920,
			Height:      1000,
			GroundY:     80,
			ClampMargin: 30,
		},
		Player: PlayerConfig{
			X:                100,
			StandWidth:       44,
			StandHeight:      70,
			CrouchWidth:      52,
			CrouchHeight:     24,
			JumpBuffer:       0.1,
			CoyoteTime:       0.08,
			JumpTimeToApex:   0.32,
			JumpCutoff:       0.5,
			MoveSpeed:        260,
			AccelNormal:      1200,
			AccelSlippery:    400,
			FrictionNormal:   1600,
			FrictionSlippery: 300,
			Mass:             1.0,
		},
		Physics: PhysicsConfig{
			GravityLow:       1200,
			GravityNormal:    2000,
			GravityHigh:      3200,
			TerminalVelocity: 1800,
			AirDrag:          0.6,
			JumpMultMin:      0.7,
			JumpMultMax:      1.35,
		},
		Speed: SpeedConfig{
			Slow:   200,
			Normal: 300,
			Fast:   450,
		},
		JumpHeight: JumpHeightConfig{
			Low:    300,
			Normal: 260,
			High:   56,
		},
		Obstacles: ObstacleConfig{
			Width:            30,
			Height:           60,
			BirdWidth:        50,
			BirdHeight:       30,
			BirdLowY:         140,
			BirdHighY:        220,
			BirdChance:       0.35,
			SpawnIntervalMin: 1.4,
			SpawnIntervalMax: 2.6,
			ClusterWeights:   []float64{0.60, 0.25, 0.15},
		},
		Difficulty: DifficultyConfig{
			Enabled:          true,
			InitialProgress:  0.0,
			RampDuration:     180,
			MaxSpeedMult:     1.35,
			MinSpawnInterval: 1.2,
			MaxBirdChance:    0.5,
		},
		Levels: LevelConfig{
			ScoreStep: 150,
			Max:       5,
			SpeedStep: 0.06,
		},
		Wind: WindConfig{
			Interval:     8,
			Duration:     2.5,
			Force:        180,
			ParticleRate: 0.08,
		},
		Pickups: PickupConfig{
			CoinInterval:        3.0,
			CoinChance:          0.6,
			CoinSize:            20,
			PowerupInterval:     6.0,
			PowerupChance:       0.5,
			PowerupSize:         24,
			MeteorInterval:      1.5,
			MeteorChance:        0.01,
			MeteorSize:          18,
			MeteorSpeedMult:     1.3,
			MeteorScore:         50,
			TurboDuration:       5.0,
			TurboSpeedMult:      1.35,
			ShieldDuration:      8.0,
			DoubleJumpDuration:  8.0,
			StartShieldDuration: 3.0,
			CoinBoostMult:       1.5,
			TurboPlusMult:       1.5,
			ScoreBoostBonus:     0.1,
		},
		Events: EventConfig{
			IntervalMin:      18,
			IntervalMax:      30,
			Duration:         6,
			FeverScoreMult:   2.0,
			FeverCoinBonus:   0.25,
			StormWindMult:    1.4,
			StormSpeedMult:   1.15,
			StormMinWind:     0.2,
			DoubleCoinMult:   2,
			DoubleCoinChance: 0.2,
		},
		Golden: GoldenConfig{
			StreakCoins: 100,
			Duration:    30,
		},
		Rules: RuleConfig{
			Interval:        10,
			ComboChance:     0.35,
			StackMax:        3,
			StackSpeedBonus: 0.08,
			StackScoreBonus: 0.1,
			BannerDuration:  2.0,
		},
		DayNight: DayNightConfig{
			Cycle: 120,
		},
		Features: Features{
			Wind:     true,
			DayNight: true,
			Events:   true,
			Meteors:  true,
			Golden:   true,
			Sound:    false,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultRunnerYAML
}
