package sim

// RuleKind tags what a rule changes.
type RuleKind uint8

const (
	RuleBaseline RuleKind = iota
	RuleGravity
	RuleSpeed
	RuleDoubleJump
	RuleSlippery
	RuleCombo
)

func (k RuleKind) String() string {
	switch k {
	case RuleGravity:
		return "gravity"
	case RuleSpeed:
		return "speed"
	case RuleDoubleJump:
		return "double_jump"
	case RuleSlippery:
		return "slippery"
	case RuleCombo:
		return "combo"
	default:
		return "baseline"
	}
}

// Rule is a named, immutable world mutation. Only the field matching Kind
// is read; a combo layers its Parts in order.
type Rule struct {
	Name    string
	Kind    RuleKind
	Gravity GravityPreset
	Speed   SpeedPreset
	Parts   []Rule
}

// Apply resets w to the baseline world and then applies r on top of it, so
// the last rule applied fully determines the world.
func Apply(r Rule, w *WorldPhysicsState) {
	w.reset()
	layer(r, w)
	w.derive()
}

func layer(r Rule, w *WorldPhysicsState) {
	switch r.Kind {
	case RuleGravity:
		w.GravityPreset = r.Gravity
	case RuleSpeed:
		w.SpeedPreset = r.Speed
	case RuleDoubleJump:
		w.DoubleJump = true
	case RuleSlippery:
		w.Slippery = true
	case RuleCombo:
		for _, p := range r.Parts {
			layer(p, w)
		}
	}
}

func gravityRule(name string, g GravityPreset) Rule {
	return Rule{Name: name, Kind: RuleGravity, Gravity: g}
}

func speedRule(name string, s SpeedPreset) Rule {
	return Rule{Name: name, Kind: RuleSpeed, Speed: s}
}

func combo(name string, parts ...Rule) Rule {
	return Rule{Name: name, Kind: RuleCombo, Parts: parts}
}

var (
	ruleNothing     = Rule{Name: "NOTHING", Kind: RuleBaseline}
	ruleLowGravity  = gravityRule("LOW GRAVITY", GravityLow)
	ruleHighGravity = gravityRule("HIGH GRAVITY", GravityHigh)
	ruleFastWorld   = speedRule("FAST WORLD", SpeedFast)
	ruleSlowWorld   = speedRule("SLOW WORLD", SpeedSlow)
	ruleDoubleJump  = Rule{Name: "DOUBLE JUMP", Kind: RuleDoubleJump}
	ruleSlippery    = Rule{Name: "SLIPPERY FLOOR", Kind: RuleSlippery}
)

// DefaultRules is the base rotation of the full game.
func DefaultRules() []Rule {
	return []Rule{
		ruleNothing,
		ruleLowGravity,
		ruleHighGravity,
		ruleFastWorld,
		ruleSlowWorld,
		ruleDoubleJump,
		ruleSlippery,
	}
}

// DefaultCombos is the combo pool of the full game.
func DefaultCombos() []Rule {
	return []Rule{
		combo("FAST + LOW", ruleFastWorld, ruleLowGravity),
		combo("SLOW + LOW", ruleSlowWorld, ruleLowGravity),
		combo("FAST + DOUBLE", ruleFastWorld, ruleDoubleJump),
	}
}

// ClassicRules is the rotation of the classic mode: physics only.
func ClassicRules() []Rule {
	return []Rule{
		ruleLowGravity,
		ruleHighGravity,
		ruleFastWorld,
		ruleSlowWorld,
	}
}
