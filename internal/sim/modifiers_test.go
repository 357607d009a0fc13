package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/rule-runner/internal/config"
)

func TestModifierStackBaseline(t *testing.T) {
	m := NewModifierStack(config.DefaultRunnerConfig(), 0)
	got := m.Compute(ModifierInputs{Level: 1})
	if got.Speed != 1 || got.Score != 1 {
		t.Errorf("Compute(baseline) = %+v, expected {1 1}", got)
	}
}

func TestModifierStackFormula(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	m := NewModifierStack(cfg, cfg.Pickups.ScoreBoostBonus)

	tests := []struct {
		name  string
		in    ModifierInputs
		speed float64
		score float64
	}{
		{
			name:  "everything on, storm",
			in:    ModifierInputs{RuleStack: 3, TurboActive: true, Progress: 1, Event: EventStorm, Level: 5},
			speed: 1.24 * 1.35 * 1.35 * 1.15 * 1.24,
			score: 1 + 0.3 + 0.1,
		},
		{
			name:  "fever",
			in:    ModifierInputs{RuleStack: 2, Event: EventFever, Level: 1},
			speed: 1.16,
			score: (1 + 0.2 + 0.1) * 2,
		},
		{
			name:  "half ramp, level 2",
			in:    ModifierInputs{Progress: 0.5, Level: 2},
			speed: 1.175 * 1.06,
			score: 1.1,
		},
		{
			name:  "double coins leaves speed alone",
			in:    ModifierInputs{Event: EventDoubleCoins, Level: 1},
			speed: 1,
			score: 1.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Compute(tt.in)
			if math.Abs(got.Speed-tt.speed) > 1e-9 {
				t.Errorf("Speed = %v, expected %v", got.Speed, tt.speed)
			}
			if math.Abs(got.Score-tt.score) > 1e-9 {
				t.Errorf("Score = %v, expected %v", got.Score, tt.score)
			}
		})
	}
}

func TestModifierStackIsPure(t *testing.T) {
	m := NewModifierStack(config.DefaultRunnerConfig(), 0)
	events := []EventKind{EventNone, EventFever, EventStorm, EventDoubleCoins}

	var inputs []ModifierInputs
	for stack := 0; stack <= 3; stack++ {
		for _, turbo := range []bool{false, true} {
			for _, progress := range []float64{0, 0.25, 1} {
				for _, ev := range events {
					for level := 1; level <= 5; level++ {
						inputs = append(inputs, ModifierInputs{stack, turbo, progress, ev, level})
					}
				}
			}
		}
	}

	first := make([]ModifierSnapshot, len(inputs))
	for i, in := range inputs {
		first[i] = m.Compute(in)
	}
	// Same inputs in reverse order, interleaved with other calls.
	for i := len(inputs) - 1; i >= 0; i-- {
		m.Compute(inputs[(i+7)%len(inputs)])
		if got := m.Compute(inputs[i]); got != first[i] {
			t.Fatalf("Compute(%+v) = %+v then %+v", inputs[i], first[i], got)
		}
	}
}

func TestLevelForScore(t *testing.T) {
	cfg := config.DefaultRunnerConfig().Levels

	tests := []struct {
		score    float64
		expected int
	}{
		{0, 1},
		{149.9, 1},
		{150, 2},
		{449, 3},
		{600, 5},
		{100000, 5},
	}
	for _, tt := range tests {
		if got := LevelForScore(tt.score, cfg); got != tt.expected {
			t.Errorf("LevelForScore(%v) = %d, expected %d", tt.score, got, tt.expected)
		}
	}
}
