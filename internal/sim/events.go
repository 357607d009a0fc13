package sim

import "github.com/vovakirdan/rule-runner/internal/config"

// EventKind is the active world event, if any.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventFever
	EventStorm
	EventDoubleCoins
)

func (e EventKind) String() string {
	switch e {
	case EventFever:
		return "FEVER"
	case EventStorm:
		return "STORM"
	case EventDoubleCoins:
		return "DOUBLE COINS"
	default:
		return ""
	}
}

// WindControl is the part of the wind an event may drive.
type WindControl interface {
	Gust(dir int, duration float64)
	Sustain(d float64)
}

// EventEngine runs at most one event at a time. Between events it waits for
// a threshold redrawn from [IntervalMin, IntervalMax] each cycle.
type EventEngine struct {
	cfg          config.EventConfig
	windDuration float64

	active   EventKind
	timeLeft float64
	timer    float64
	next     float64

	rng Source
}

// NewEventEngine draws the first threshold from rng.
func NewEventEngine(cfg config.EventConfig, windDuration float64, rng Source) *EventEngine {
	return &EventEngine{
		cfg:          cfg,
		windDuration: windDuration,
		next:         uniform(rng, cfg.IntervalMin, cfg.IntervalMax),
		rng:          rng,
	}
}

// Update advances the event cycle. When disabled any running event ends
// immediately and the cycle does not advance.
func (e *EventEngine) Update(dt float64, enabled bool, wind WindControl) (started, ended EventKind) {
	if !enabled {
		ended = e.active
		e.active = EventNone
		e.timeLeft = 0
		return EventNone, ended
	}

	if e.timeLeft > 0 {
		e.timeLeft -= dt
		if e.active == EventStorm {
			wind.Sustain(e.cfg.StormMinWind)
		}
		if e.timeLeft <= 0 {
			ended = e.active
			e.active = EventNone
		}
		return EventNone, ended
	}

	e.timer += dt
	if e.timer < e.next {
		return EventNone, EventNone
	}
	e.timer = 0
	e.timeLeft = e.cfg.Duration
	e.active = EventFever + EventKind(e.rng.Intn(3))
	if e.active == EventStorm {
		wind.Gust(sign(e.rng), e.windDuration)
	}
	e.next = uniform(e.rng, e.cfg.IntervalMin, e.cfg.IntervalMax)
	return e.active, EventNone
}

// Active returns the running event.
func (e *EventEngine) Active() EventKind { return e.active }

// TimeLeft returns the remaining duration of the running event.
func (e *EventEngine) TimeLeft() float64 { return max(e.timeLeft, 0) }
