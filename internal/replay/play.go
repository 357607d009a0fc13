package replay

import (
	"fmt"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/sim"
)

// Play rebuilds the recorded run under cfg and feeds it every recorded
// input. It returns the run and the result of its last tick.
func Play(rec *Recording, cfg config.RunnerConfig, o ...sim.Option) (*sim.Run, sim.TickResult, error) {
	if got := ConfigHash(cfg); got != rec.ConfigHash {
		return nil, sim.TickResult{}, fmt.Errorf("%w: config fingerprint %x, recorded %x", ErrMismatch, got, rec.ConfigHash)
	}
	mode, ok := sim.ModeByID(rec.Mode)
	if !ok {
		return nil, sim.TickResult{}, fmt.Errorf("%w: unknown mode %q", ErrMismatch, rec.Mode)
	}

	run, err := sim.New(cfg, sim.Options{Mode: mode, Features: rec.Features, Upgrades: rec.Upgrades}, rec.Seed, o...)
	if err != nil {
		return nil, sim.TickResult{}, err
	}

	var res sim.TickResult
	for _, f := range rec.Frames {
		for i := uint32(0); i < f.Count; i++ {
			if f.Input.Freeze {
				run.ToggleRuleFreeze()
			}
			if f.Input.Force {
				run.ForceNextRule()
			}
			res = run.Tick(rec.Dt, f.Input.Intents())
		}
	}
	return run, res, nil
}

// Verify replays rec and compares the final state hash.
func Verify(rec *Recording, cfg config.RunnerConfig) (sim.TickResult, error) {
	run, res, err := Play(rec, cfg)
	if err != nil {
		return res, err
	}
	if got := run.Snapshot().Hash(); got != rec.FinalHash {
		return res, fmt.Errorf("%w: final state %x, recorded %x", ErrMismatch, got, rec.FinalHash)
	}
	return res, nil
}
