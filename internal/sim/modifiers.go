package sim

import (
	"math"

	"github.com/vovakirdan/rule-runner/internal/config"
)

// ModifierInputs are everything the multipliers depend on.
type ModifierInputs struct {
	RuleStack   int
	TurboActive bool
	Progress    float64
	Event       EventKind
	Level       int
}

// ModifierSnapshot is the effective multiplier pair for one tick.
type ModifierSnapshot struct {
	Speed float64
	Score float64
}

// ModifierStack combines the independent effects into the speed and score
// multipliers. It holds only constants; Compute is a pure function.
type ModifierStack struct {
	stackSpeed float64
	stackScore float64
	turboMult  float64
	difficulty config.DifficultyConfig
	stormMult  float64
	feverMult  float64
	levelStep  float64
	scoreBonus float64
}

// NewModifierStack reads the constants. scoreBonus is the owned-upgrade
// addition to the base score multiplier.
func NewModifierStack(cfg config.RunnerConfig, scoreBonus float64) ModifierStack {
	return ModifierStack{
		stackSpeed: cfg.Rules.StackSpeedBonus,
		stackScore: cfg.Rules.StackScoreBonus,
		turboMult:  cfg.Pickups.TurboSpeedMult,
		difficulty: cfg.Difficulty,
		stormMult:  cfg.Events.StormSpeedMult,
		feverMult:  cfg.Events.FeverScoreMult,
		levelStep:  cfg.Levels.SpeedStep,
		scoreBonus: scoreBonus,
	}
}

// Compute returns the multipliers for the given inputs.
func (m ModifierStack) Compute(in ModifierInputs) ModifierSnapshot {
	stack := float64(in.RuleStack)

	turbo := 1.0
	if in.TurboActive {
		turbo = m.turboMult
	}
	event := 1.0
	if in.Event == EventStorm {
		event = m.stormMult
	}
	speed := (1 + stack*m.stackSpeed) * turbo * DifficultySpeedMult(m.difficulty, in.Progress) * event * m.LevelMult(in.Level)

	score := 1 + stack*m.stackScore + m.scoreBonus
	if in.Event == EventFever {
		score *= m.feverMult
	}
	return ModifierSnapshot{Speed: speed, Score: score}
}

// LevelMult is the speed step for a level; level 1 is 1.0.
func (m ModifierStack) LevelMult(level int) float64 {
	if level < 1 {
		level = 1
	}
	return 1 + float64(level-1)*m.levelStep
}

// LevelForScore derives the level from the score, capped at the max.
func LevelForScore(score float64, cfg config.LevelConfig) int {
	if cfg.ScoreStep <= 0 {
		return 1
	}
	level := int(math.Floor(score/cfg.ScoreStep)) + 1
	if level > cfg.Max {
		level = cfg.Max
	}
	if level < 1 {
		level = 1
	}
	return level
}
