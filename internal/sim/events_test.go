package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/rule-runner/internal/config"
)

type windRecorder struct {
	gusts    []int
	sustains int
	minimum  float64
}

func (w *windRecorder) Gust(dir int, _ float64) { w.gusts = append(w.gusts, dir) }

func (w *windRecorder) Sustain(d float64) {
	w.sustains++
	w.minimum = d
}

func fixedIntervalEvents() config.EventConfig {
	cfg := config.DefaultRunnerConfig().Events
	cfg.IntervalMin = 5
	cfg.IntervalMax = 5
	cfg.Duration = 6
	return cfg
}

func TestEventEngineCycle(t *testing.T) {
	// Intn always yields 1: STORM, then a gust to the right.
	src := &fixedSource{f: 0.5, i: 1}
	e := NewEventEngine(fixedIntervalEvents(), 2.5, src)
	wind := &windRecorder{}

	for i := 0; i < 4; i++ {
		if started, _ := e.Update(1, true, wind); started != EventNone {
			t.Fatalf("event started early at %ds", i+1)
		}
	}
	started, _ := e.Update(1, true, wind)
	if started != EventStorm {
		t.Fatalf("started = %v, expected STORM", started)
	}
	if e.Active() != EventStorm {
		t.Errorf("Active() = %v, expected STORM", e.Active())
	}
	if len(wind.gusts) != 1 || wind.gusts[0] != 1 {
		t.Errorf("storm gusts = %v, expected [1]", wind.gusts)
	}

	var ended EventKind
	ticks := 0
	for ended == EventNone && ticks < 20 {
		// A second event cannot start while one is running.
		var s EventKind
		s, ended = e.Update(1, true, wind)
		if s != EventNone {
			t.Fatalf("event %v started while STORM active", s)
		}
		ticks++
	}
	if ended != EventStorm || ticks != 6 {
		t.Errorf("ended = %v after %d ticks, expected STORM after 6", ended, ticks)
	}
	if wind.sustains != 6 || wind.minimum != 0.2 {
		t.Errorf("storm sustained wind %d times at %v, expected 6 at 0.2", wind.sustains, wind.minimum)
	}
	if e.Active() != EventNone {
		t.Errorf("Active() = %v after end", e.Active())
	}
}

func TestEventEngineKinds(t *testing.T) {
	tests := []struct {
		roll     int
		expected EventKind
	}{
		{0, EventFever},
		{1, EventStorm},
		{2, EventDoubleCoins},
	}
	for _, tt := range tests {
		src := &fixedSource{f: 0, i: tt.roll}
		e := NewEventEngine(fixedIntervalEvents(), 2.5, src)
		started, _ := e.Update(5, true, &windRecorder{})
		if started != tt.expected {
			t.Errorf("roll %d started %v, expected %v", tt.roll, started, tt.expected)
		}
	}
}

func TestEventEngineDisabled(t *testing.T) {
	src := &fixedSource{f: 0, i: 0}
	e := NewEventEngine(fixedIntervalEvents(), 2.5, src)
	wind := &windRecorder{}

	if started, _ := e.Update(5, true, wind); started != EventFever {
		t.Fatalf("started = %v, expected FEVER", started)
	}
	_, ended := e.Update(1, false, wind)
	if ended != EventFever {
		t.Errorf("disabling ended %v, expected FEVER", ended)
	}
	for i := 0; i < 100; i++ {
		if started, _ := e.Update(1, false, wind); started != EventNone {
			t.Fatal("disabled engine started an event")
		}
	}
	if e.TimeLeft() != 0 {
		t.Errorf("TimeLeft() = %v, expected 0", e.TimeLeft())
	}
}

func TestEventKindString(t *testing.T) {
	tests := map[EventKind]string{
		EventNone:        "",
		EventFever:       "FEVER",
		EventStorm:       "STORM",
		EventDoubleCoins: "DOUBLE COINS",
	}
	for k, expected := range tests {
		if got := k.String(); got != expected {
			t.Errorf("EventKind(%d).String() = %q, expected %q", k, got, expected)
		}
	}
}

func TestWindGustCycle(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	src := &fixedSource{f: 0.5, i: 1}
	w := newWind(cfg.Wind, cfg.World, src)
	var id uint64
	nextID := func() uint64 { id++; return id }

	for i := 0; i < 7; i++ {
		w.Update(1, nextID)
		if w.State(1).Active {
			t.Fatalf("gust started early at %ds", i+1)
		}
	}
	w.Update(1, nextID)
	st := w.State(1)
	if !st.Active || st.Dir != 1 {
		t.Fatalf("State() = %+v, expected an active gust to the right", st)
	}
	if got := w.Push(0.5, 1); got != 90 {
		t.Errorf("Push(0.5, 1) = %v, expected 90", got)
	}
	if got := w.Push(0.5, 1.4); math.Abs(got-126) > 1e-9 {
		t.Errorf("Push(0.5, 1.4) = %v, expected 126", got)
	}

	streaks := w.Update(0.1, nextID)
	if len(streaks) != 1 {
		t.Fatalf("gust emitted %d streaks, expected 1", len(streaks))
	}
	s := streaks[0]
	if s.Kind != EntityWindStreak || s.VelX <= 0 || s.Box.CenterX() != -20 {
		t.Errorf("unexpected streak %+v", s)
	}

	w.Stop()
	if w.Push(1, 1) != 0 || w.State(1).Active {
		t.Error("Stop() left the gust running")
	}
}

func TestWindSustain(t *testing.T) {
	cfg := config.DefaultRunnerConfig()
	w := newWind(cfg.Wind, cfg.World, &fixedSource{})
	w.Gust(-1, 0.1)
	w.Sustain(0.2)
	if w.timeLeft != 0.2 {
		t.Errorf("timeLeft = %v, expected 0.2", w.timeLeft)
	}
	w.Sustain(0.05)
	if w.timeLeft != 0.2 {
		t.Errorf("Sustain shortened the gust to %v", w.timeLeft)
	}
}
