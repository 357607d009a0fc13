package sim

import "errors"

// RuleEngine rotates rules on a fixed interval. Each advance first rolls for
// a combo, and otherwise takes the next base rule round-robin.
type RuleEngine struct {
	rules       []Rule
	combos      []Rule
	comboChance float64
	interval    float64

	timer   float64
	index   int
	current *Rule
	frozen  bool

	rng Source
}

// NewRuleEngine validates the table and returns an engine with no rule applied.
// An empty combo pool only disables combos.
func NewRuleEngine(rules, combos []Rule, comboChance, interval float64, rng Source) (*RuleEngine, error) {
	if len(rules) == 0 {
		return nil, errors.New("sim: rule engine needs at least one base rule")
	}
	if interval <= 0 {
		return nil, errors.New("sim: rule interval must be positive")
	}
	return &RuleEngine{
		rules:       rules,
		combos:      combos,
		comboChance: comboChance,
		interval:    interval,
		rng:         rng,
	}, nil
}

// Update advances the timer and applies the next rule when it expires.
// It reports whether a rule was applied. A frozen engine ignores time.
func (e *RuleEngine) Update(dt float64, w *WorldPhysicsState) bool {
	if e.frozen || dt <= 0 {
		return false
	}
	e.timer += dt
	if e.timer < e.interval {
		return false
	}
	e.timer = 0
	e.advance(w)
	return true
}

// ForceNext applies the next rule now, ignoring the timer and the freeze.
func (e *RuleEngine) ForceNext(w *WorldPhysicsState) Rule {
	e.timer = 0
	return e.advance(w)
}

// ToggleFreeze flips automatic rotation and returns the new frozen state.
func (e *RuleEngine) ToggleFreeze() bool {
	e.frozen = !e.frozen
	return e.frozen
}

// Frozen reports whether automatic rotation is suspended.
func (e *RuleEngine) Frozen() bool { return e.frozen }

// Current returns the active rule, if any has been applied.
func (e *RuleEngine) Current() (Rule, bool) {
	if e.current == nil {
		return Rule{}, false
	}
	return *e.current, true
}

// CurrentName is the active rule's name or "".
func (e *RuleEngine) CurrentName() string {
	if e.current == nil {
		return ""
	}
	return e.current.Name
}

func (e *RuleEngine) advance(w *WorldPhysicsState) Rule {
	// The roll is only drawn when a combo could actually be picked.
	if len(e.combos) > 0 && e.comboChance > 0 && e.rng.Float64() < e.comboChance {
		r := e.combos[e.rng.Intn(len(e.combos))]
		e.current = &r
		Apply(r, w)
		return r
	}
	r := e.rules[e.index]
	e.current = &r
	Apply(r, w)
	e.index = (e.index + 1) % len(e.rules)
	return r
}
