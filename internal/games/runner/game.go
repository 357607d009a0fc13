// Package runner adapts a sim.Run to the platform's Game interface: it
// turns input frames into intents, steps the simulation at the runtime
// tick rate and draws the world into the character screen.
package runner

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/core"
	"github.com/vovakirdan/rule-runner/internal/registry"
	"github.com/vovakirdan/rule-runner/internal/replay"
	"github.com/vovakirdan/rule-runner/internal/sim"
)

// Profile is the player-owned state a run starts from.
type Profile struct {
	Features config.Features
	Upgrades sim.Upgrades
}

// ProfileSource loads the current profile before each run.
type ProfileSource func() (Profile, error)

// RecordSink receives the recording of every finished run.
type RecordSink func(*replay.Recording)

// Process-wide settings from the CLI.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	profileSource    ProfileSource
	recordSink       RecordSink
	devMode          bool
	logger           = log.New(io.Discard)
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) { configPath = path }

// SetDifficultyPreset sets the difficulty preset. Unknown values keep the
// config file's ramp.
func SetDifficultyPreset(preset string) { difficultyPreset = config.ParsePreset(preset) }

// SetProfileSource sets where features and upgrades come from.
func SetProfileSource(src ProfileSource) { profileSource = src }

// SetRecorder enables recording; nil disables it.
func SetRecorder(sink RecordSink) { recordSink = sink }

// SetDevMode enables the rule freeze and force-next hotkeys.
func SetDevMode(on bool) { devMode = on }

// SetLogger routes run and adapter logging.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Game implements registry.Game for one mode.
type Game struct {
	mode    sim.Mode
	cfg     config.RunnerConfig
	runtime core.RuntimeConfig
	run     *sim.Run
	last    sim.TickResult
	rec     *replay.Recorder
	frame   int
}

// New creates a game for mode.
func New(mode sim.Mode) *Game {
	return &Game{mode: mode}
}

// ID returns the mode's identifier.
func (g *Game) ID() string { return g.mode.ID }

// Title returns the mode's display name.
func (g *Game) Title() string { return g.mode.Title }

// Reset loads the config and profile and starts a new run.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadRunner(configPath)
	if err != nil {
		logger.Warn("config rejected, using defaults", "err", err)
		cfg = config.DefaultRunnerConfig()
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg

	profile := Profile{Features: cfg.Features}
	if profileSource != nil {
		if p, err := profileSource(); err != nil {
			logger.Warn("cannot load profile", "err", err)
		} else {
			profile = p
		}
	}

	opts := sim.Options{Mode: g.mode, Features: profile.Features, Upgrades: profile.Upgrades}
	run, err := sim.New(cfg, opts, runtime.Seed, sim.WithLogger(logger))
	if err != nil {
		// Validated above; only a broken default config ends up here.
		logger.Error("cannot start run", "err", err)
		run, _ = sim.New(config.DefaultRunnerConfig(), opts, runtime.Seed, sim.WithLogger(logger))
		g.cfg = config.DefaultRunnerConfig()
	}
	g.run = run
	g.last = run.Tick(0, sim.Intents{})
	g.frame = 0

	g.rec = nil
	if recordSink != nil {
		g.rec = replay.NewRecorder(g.cfg, opts, runtime.Seed, runtime.TickSeconds())
	}
}

// Intents decodes an input frame. Terminals deliver presses, so a press
// counts as held for the frame it arrives in.
func Intents(in core.InputFrame) sim.Intents {
	dir := 0
	if in.Has(core.ActionLeft) || in.IsHeld(core.ActionLeft) {
		dir--
	}
	if in.Has(core.ActionRight) || in.IsHeld(core.ActionRight) {
		dir++
	}
	return sim.Intents{
		JumpRequested: in.Has(core.ActionJump),
		JumpReleased:  in.WasReleased(core.ActionJump),
		CrouchHeld:    in.Has(core.ActionCrouch) || in.IsHeld(core.ActionCrouch),
		MoveDir:       dir,
	}
}

// Step advances the run by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) && !g.run.GameOver() {
		g.run.SetPaused(!g.run.Paused())
	}
	g.frame++

	live := !g.run.Paused() && !g.run.GameOver()
	input := replay.InputFrom(Intents(in))
	if live && devMode {
		if in.Has(core.ActionFreezeRules) {
			input.Freeze = true
			g.run.ToggleRuleFreeze()
		}
		if in.Has(core.ActionForceRule) {
			input.Force = true
			g.run.ForceNextRule()
		}
	}

	g.last = g.run.Tick(g.runtime.TickSeconds(), input.Intents())
	if live && g.rec != nil {
		g.rec.Add(input)
	}

	result := core.StepResult{State: g.State()}
	if s := g.last.Summary; s != nil {
		result.Outcome = &core.RunOutcome{
			Mode:     s.Mode,
			Seed:     s.Seed,
			Score:    s.Score,
			Coins:    s.Coins,
			Level:    s.Level,
			Ticks:    s.Ticks,
			Duration: s.Duration,
		}
		if g.rec != nil && recordSink != nil {
			recordSink(g.rec.Finish(g.run, g.last))
			g.rec = nil
		}
	}
	return result
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    int(g.last.Score),
		Coins:    g.last.Coins,
		GameOver: g.last.GameOver,
		Paused:   g.last.Paused,
	}
}

// FlushRecording hands an unfinished run's recording to the sink. The
// platform calls it when the player quits mid-run.
func (g *Game) FlushRecording() {
	if g.rec == nil || recordSink == nil || g.rec.Ticks() == 0 {
		return
	}
	recordSink(g.rec.Finish(g.run, g.last))
	g.rec = nil
}

// Run exposes the underlying simulation.
func (g *Game) Run() *sim.Run { return g.run }

// Last returns the result of the latest tick.
func (g *Game) Last() sim.TickResult { return g.last }

func modeSummary(m sim.Mode) string {
	s := fmt.Sprintf("%d rules", len(m.Rules))
	if len(m.Combos) > 0 {
		s += fmt.Sprintf(" + %d combos", len(m.Combos))
	}
	return s
}

func init() {
	for _, m := range sim.Modes() {
		registry.Register(registry.GameInfo{ID: m.ID, Title: m.Title, Summary: modeSummary(m)}, func() registry.Game {
			return New(m)
		})
	}
}
