// Package replay records the per-tick inputs of a run and plays them back.
// A run is a pure function of its seed, config, options and inputs, so a
// recording is enough to rebuild the exact final state, which Verify checks
// against the snapshot hash stored at record time.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/oklog/ulid/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/rule-runner/internal/config"
	"github.com/vovakirdan/rule-runner/internal/sim"
)

// Version is the recording format version.
const Version = 1

var (
	// ErrVersion is returned for recordings of another format version.
	ErrVersion = errors.New("replay: unsupported version")
	// ErrMismatch is returned when a replay does not reproduce the recording.
	ErrMismatch = errors.New("replay: mismatch")
)

// Input is one tick of player input, including the dev controls.
type Input struct {
	Jump    bool `msgpack:"j,omitempty"`
	Release bool `msgpack:"r,omitempty"`
	Crouch  bool `msgpack:"c,omitempty"`
	Move    int8 `msgpack:"m,omitempty"`
	Force   bool `msgpack:"f,omitempty"` // force next rule before the tick
	Freeze  bool `msgpack:"z,omitempty"` // toggle rule freeze before the tick
}

// InputFrom converts tick intents.
func InputFrom(in sim.Intents) Input {
	return Input{
		Jump:    in.JumpRequested,
		Release: in.JumpReleased,
		Crouch:  in.CrouchHeld,
		Move:    int8(max(-1, min(1, in.MoveDir))),
	}
}

// Intents converts back to tick intents.
func (in Input) Intents() sim.Intents {
	return sim.Intents{
		JumpRequested: in.Jump,
		JumpReleased:  in.Release,
		CrouchHeld:    in.Crouch,
		MoveDir:       int(in.Move),
	}
}

// Frame is a run of identical inputs.
type Frame struct {
	Input Input  `msgpack:"i"`
	Count uint32 `msgpack:"n"`
}

// Recording is everything needed to replay a run.
type Recording struct {
	Version    int             `msgpack:"version"`
	ID         ulid.ULID       `msgpack:"id"`
	CreatedAt  time.Time       `msgpack:"created_at"`
	Mode       string          `msgpack:"mode"`
	Seed       int64           `msgpack:"seed"`
	Dt         float64         `msgpack:"dt"`
	ConfigHash uint64          `msgpack:"config_hash"`
	Features   config.Features `msgpack:"features"`
	Upgrades   sim.Upgrades    `msgpack:"upgrades"`
	Frames     []Frame         `msgpack:"frames"`

	// Filled in when recording stops.
	Ticks     uint64  `msgpack:"ticks"`
	Score     float64 `msgpack:"score"`
	Coins     int     `msgpack:"coins"`
	GameOver  bool    `msgpack:"game_over"`
	FinalHash uint64  `msgpack:"final_hash"`
}

// Inputs expands the frames into one input per tick.
func (r *Recording) Inputs() []Input {
	var out []Input
	for _, f := range r.Frames {
		for i := uint32(0); i < f.Count; i++ {
			out = append(out, f.Input)
		}
	}
	return out
}

// ConfigHash fingerprints a configuration. Replaying under a different
// config would silently diverge, so playback refuses it.
func ConfigHash(cfg config.RunnerConfig) uint64 {
	h := xxhash.New()
	if err := msgpack.NewEncoder(h).Encode(&cfg); err != nil {
		return 0
	}
	return h.Sum64()
}

// Encode writes a recording.
func Encode(w io.Writer, rec *Recording) error {
	if err := msgpack.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("replay: cannot encode: %w", err)
	}
	return nil
}

// Decode reads a recording and checks its version.
func Decode(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("replay: cannot decode: %w", err)
	}
	if rec.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, rec.Version)
	}
	return &rec, nil
}

// Save writes a recording to path.
func Save(path string, rec *Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: cannot create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, rec); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("replay: cannot write %s: %w", path, err)
	}
	return f.Close()
}

// Load reads a recording from path.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: cannot open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(bufio.NewReader(f))
}
