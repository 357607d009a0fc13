package core

// RuntimeConfig is what a frontend tells a mode on Reset: the terminal
// size to draw into, the fixed tick rate and the run seed.
type RuntimeConfig struct {
	ScreenW  int // columns
	ScreenH  int // rows
	TickRate int // ticks per second, 60 if unset
	Seed     int64
}

// DefaultConfig is an 80x24 terminal at 60 ticks per second. A zero seed
// tells the frontend to pick one from the clock.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
}

// TickSeconds returns the fixed simulation step in seconds.
func (c RuntimeConfig) TickSeconds() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameState is the status line a frontend needs between ticks.
type GameState struct {
	Score    int // floored
	Coins    int // this run
	GameOver bool
	Paused   bool
}

// RunOutcome is the final tally of one finished run, handed to persistence.
type RunOutcome struct {
	Mode     string
	Seed     int64
	Score    float64
	Coins    int
	Level    int
	Ticks    uint64
	Duration float64 // simulated seconds
}

// StepResult is what one tick of a mode reports back.
type StepResult struct {
	State GameState

	// Outcome is set on exactly one step per run: the one that ended it.
	Outcome *RunOutcome
}
