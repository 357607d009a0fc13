package replay

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/sim"
)

// Recorder collects the inputs of one run. Only ticks that advanced the
// run are added; paused ticks are skipped.
type Recorder struct {
	rec *Recording
}

// NewRecorder starts a recording for a run built from cfg, opts and seed.
func NewRecorder(cfg config.RunnerConfig, opts sim.Options, seed int64, dt float64) *Recorder {
	now := time.Now()
	return &Recorder{rec: &Recording{
		Version:    Version,
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()),
		CreatedAt:  now.UTC(),
		Mode:       opts.Mode.ID,
		Seed:       seed,
		Dt:         dt,
		ConfigHash: ConfigHash(cfg),
		Features:   opts.Features,
		Upgrades:   opts.Upgrades,
	}}
}

// Add appends one tick of input.
func (r *Recorder) Add(in Input) {
	n := len(r.rec.Frames)
	if n > 0 && r.rec.Frames[n-1].Input == in && r.rec.Frames[n-1].Count < ^uint32(0) {
		r.rec.Frames[n-1].Count++
	} else {
		r.rec.Frames = append(r.rec.Frames, Frame{Input: in, Count: 1})
	}
	r.rec.Ticks++
}

// Finish stamps the final state of the run and returns the recording.
func (r *Recorder) Finish(run *sim.Run, last sim.TickResult) *Recording {
	r.rec.Score = last.Score
	r.rec.Coins = last.Coins
	r.rec.GameOver = last.GameOver
	r.rec.FinalHash = run.Snapshot().Hash()
	return r.rec
}

// Ticks returns the number of recorded ticks.
func (r *Recorder) Ticks() uint64 { return r.rec.Ticks }
