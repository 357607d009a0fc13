// Package config provides YAML-based configuration for the runner: the
// named numeric constants of the simulation, embedded defaults, presets and
// validation.
package config

// RunnerConfig contains every tunable of a run. Units are world units
// (roughly pixels of a 1920x1000 field) and seconds.
type RunnerConfig struct {
	World      WorldConfig      `yaml:"world"`
	Player     PlayerConfig     `yaml:"player"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Speed      SpeedConfig      `yaml:"speed"`
	JumpHeight JumpHeightConfig `yaml:"jump_heights"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Levels     LevelConfig      `yaml:"levels"`
	Wind       WindConfig       `yaml:"wind"`
	Pickups    PickupConfig     `yaml:"pickups"`
	Events     EventConfig      `yaml:"events"`
	Golden     GoldenConfig     `yaml:"golden"`
	Rules      RuleConfig       `yaml:"rules"`
	DayNight   DayNightConfig   `yaml:"day_night"`
	Features   Features         `yaml:"features"`
}

// WorldConfig describes the playfield.
type WorldConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	GroundY     float64 `yaml:"ground_y"`
	ClampMargin float64 `yaml:"clamp_margin"` // Player x stays within [margin, width-margin]
}

// PlayerConfig defines the character body and its controls.
type PlayerConfig struct {
	X                float64 `yaml:"x"`
	StandWidth       float64 `yaml:"stand_width"`
	StandHeight      float64 `yaml:"stand_height"`
	CrouchWidth      float64 `yaml:"crouch_width"`
	CrouchHeight     float64 `yaml:"crouch_height"`
	JumpBuffer       float64 `yaml:"jump_buffer"`
	CoyoteTime       float64 `yaml:"coyote_time"`
	JumpTimeToApex   float64 `yaml:"jump_time_to_apex"`
	JumpCutoff       float64 `yaml:"jump_cutoff"`
	MoveSpeed        float64 `yaml:"move_speed"`
	AccelNormal      float64 `yaml:"accel_normal"`
	AccelSlippery    float64 `yaml:"accel_slippery"`
	FrictionNormal   float64 `yaml:"friction_normal"`
	FrictionSlippery float64 `yaml:"friction_slippery"`
	Mass             float64 `yaml:"mass"`
}

// PhysicsConfig holds gravity presets and vertical limits.
type PhysicsConfig struct {
	GravityLow       float64 `yaml:"gravity_low"`
	GravityNormal    float64 `yaml:"gravity_normal"`
	GravityHigh      float64 `yaml:"gravity_high"`
	TerminalVelocity float64 `yaml:"terminal_velocity"`
	AirDrag          float64 `yaml:"air_drag"` // higher = more air resistance
	JumpMultMin      float64 `yaml:"jump_mult_min"`
	JumpMultMax      float64 `yaml:"jump_mult_max"`
}

// SpeedConfig holds the obstacle base-speed presets.
type SpeedConfig struct {
	Slow   float64 `yaml:"slow"`
	Normal float64 `yaml:"normal"`
	Fast   float64 `yaml:"fast"`
}

// JumpHeightConfig holds the max jump height per gravity preset.
type JumpHeightConfig struct {
	Low    float64 `yaml:"low"`
	Normal float64 `yaml:"normal"`
	High   float64 `yaml:"high"`
}

// ObstacleConfig defines obstacle shapes and the base spawn distribution.
type ObstacleConfig struct {
	Width            float64   `yaml:"width"`
	Height           float64   `yaml:"height"`
	BirdWidth        float64   `yaml:"bird_width"`
	BirdHeight       float64   `yaml:"bird_height"`
	BirdLowY         float64   `yaml:"bird_low_y"`  // center height of a low bird
	BirdHighY        float64   `yaml:"bird_high_y"` // center height of a high bird
	BirdChance       float64   `yaml:"bird_chance"`
	SpawnIntervalMin float64   `yaml:"spawn_interval_min"`
	SpawnIntervalMax float64   `yaml:"spawn_interval_max"`
	ClusterWeights   []float64 `yaml:"cluster_weights"` // weight of 1, 2, 3... cacti per group
}

// DifficultyConfig defines the time-based difficulty ramp.
type DifficultyConfig struct {
	Enabled          bool    `yaml:"enabled"`
	InitialProgress  float64 `yaml:"initial_progress"` // 0.0 = easy, 1.0 = hard
	RampDuration     float64 `yaml:"ramp_duration"`
	MaxSpeedMult     float64 `yaml:"max_speed_mult"`
	MinSpawnInterval float64 `yaml:"min_spawn_interval"`
	MaxBirdChance    float64 `yaml:"max_bird_chance"`
}

// LevelConfig defines score-derived levels.
type LevelConfig struct {
	ScoreStep float64 `yaml:"score_step"`
	Max       int     `yaml:"max"`
	SpeedStep float64 `yaml:"speed_step"`
}

// WindConfig defines ordinary wind gusts.
type WindConfig struct {
	Interval     float64 `yaml:"interval"`
	Duration     float64 `yaml:"duration"`
	Force        float64 `yaml:"force"`
	ParticleRate float64 `yaml:"particle_rate"`
}

// PickupConfig defines coins, power-ups and meteors.
type PickupConfig struct {
	CoinInterval        float64 `yaml:"coin_interval"`
	CoinChance          float64 `yaml:"coin_chance"`
	CoinSize            float64 `yaml:"coin_size"`
	PowerupInterval     float64 `yaml:"powerup_interval"`
	PowerupChance       float64 `yaml:"powerup_chance"`
	PowerupSize         float64 `yaml:"powerup_size"`
	MeteorInterval      float64 `yaml:"meteor_interval"`
	MeteorChance        float64 `yaml:"meteor_chance"`
	MeteorSize          float64 `yaml:"meteor_size"`
	MeteorSpeedMult     float64 `yaml:"meteor_speed_mult"`
	MeteorScore         float64 `yaml:"meteor_score"`
	TurboDuration       float64 `yaml:"turbo_duration"`
	TurboSpeedMult      float64 `yaml:"turbo_speed_mult"`
	ShieldDuration      float64 `yaml:"shield_duration"`
	DoubleJumpDuration  float64 `yaml:"double_jump_duration"`
	StartShieldDuration float64 `yaml:"start_shield_duration"`
	CoinBoostMult       float64 `yaml:"coin_boost_mult"`
	TurboPlusMult       float64 `yaml:"turbo_plus_mult"`
	ScoreBoostBonus     float64 `yaml:"score_boost_bonus"`
}

// EventConfig defines the rare world events.
type EventConfig struct {
	IntervalMin      float64 `yaml:"interval_min"`
	IntervalMax      float64 `yaml:"interval_max"`
	Duration         float64 `yaml:"duration"`
	FeverScoreMult   float64 `yaml:"fever_score_mult"`
	FeverCoinBonus   float64 `yaml:"fever_coin_bonus"`
	StormWindMult    float64 `yaml:"storm_wind_mult"`
	StormSpeedMult   float64 `yaml:"storm_speed_mult"`
	StormMinWind     float64 `yaml:"storm_min_wind"`
	DoubleCoinMult   float64 `yaml:"double_coin_mult"`
	DoubleCoinChance float64 `yaml:"double_coin_chance"` // added to coin spawn chance
}

// GoldenConfig defines the coin-streak reward.
type GoldenConfig struct {
	StreakCoins int     `yaml:"streak_coins"`
	Duration    float64 `yaml:"duration"`
}

// RuleConfig defines the rule rotation and the rule stack.
type RuleConfig struct {
	Interval        float64 `yaml:"interval"`
	ComboChance     float64 `yaml:"combo_chance"`
	StackMax        int     `yaml:"stack_max"`
	StackSpeedBonus float64 `yaml:"stack_speed_bonus"`
	StackScoreBonus float64 `yaml:"stack_score_bonus"`
	BannerDuration  float64 `yaml:"banner_duration"`
}

// DayNightConfig defines the cosmetic day/night cycle.
type DayNightConfig struct {
	Cycle float64 `yaml:"cycle"`
}

// Features are the player-facing toggles. Settings stored by the player
// override the defaults from the config file.
type Features struct {
	Wind     bool `yaml:"wind" msgpack:"wind"`
	DayNight bool `yaml:"day_night" msgpack:"day_night"`
	Events   bool `yaml:"events" msgpack:"events"`
	Meteors  bool `yaml:"meteors" msgpack:"meteors"`
	Golden   bool `yaml:"golden" msgpack:"golden"`
	Sound    bool `yaml:"sound" msgpack:"sound"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI value to a preset. Empty or unknown values
// return "" which leaves the config untouched.
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialProgress = 0
		cfg.Difficulty.RampDuration *= 1.5
	case DifficultyNormal:
		cfg.Difficulty.Enabled = true
	case DifficultyHard:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialProgress = 0.4
		cfg.Difficulty.RampDuration *= 0.75
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	}
}
