package sim

import "github.com/vovakirdan/rule-runner/internal/config"

// Mode selects the rule table and which systems a run may use.
type Mode struct {
	ID    string
	Title string

	Rules  []Rule
	Combos []Rule

	// JumpMultMin and JumpMultMax clamp the jump multiplier; zero means the
	// configured physics range.
	JumpMultMin float64
	JumpMultMax float64

	BufferedJump bool

	Pickups bool
	Events  bool
	Wind    bool
	Meteors bool
	Golden  bool
}

// RulesMode is the full game.
func RulesMode() Mode {
	return Mode{
		ID:           "rules",
		Title:        "Rule Runner",
		Rules:        DefaultRules(),
		Combos:       DefaultCombos(),
		BufferedJump: true,
		Pickups:      true,
		Events:       true,
		Wind:         true,
		Meteors:      true,
		Golden:       true,
	}
}

// ClassicMode is the first version of the game: physics rules only, an
// immediate jump and a narrower jump compensation.
func ClassicMode() Mode {
	return Mode{
		ID:          "classic",
		Title:       "Classic Runner",
		Rules:       ClassicRules(),
		JumpMultMin: 0.85,
		JumpMultMax: 1.15,
	}
}

// Modes lists every mode in menu order.
func Modes() []Mode {
	return []Mode{RulesMode(), ClassicMode()}
}

// ModeByID looks a mode up by id.
func ModeByID(id string) (Mode, bool) {
	for _, m := range Modes() {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}

func (m Mode) multRange(cfg config.RunnerConfig) (float64, float64) {
	lo, hi := m.JumpMultMin, m.JumpMultMax
	if lo <= 0 {
		lo = cfg.Physics.JumpMultMin
	}
	if hi <= 0 {
		hi = cfg.Physics.JumpMultMax
	}
	return lo, hi
}

// effective masks the player toggles with what the mode supports.
func (m Mode) effective(f config.Features) config.Features {
	return config.Features{
		Wind:     f.Wind && m.Wind,
		DayNight: f.DayNight,
		Events:   f.Events && m.Events,
		Meteors:  f.Meteors && m.Meteors,
		Golden:   f.Golden && m.Golden,
		Sound:    f.Sound,
	}
}
