package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rule-runner/internal/core"
)

// DefaultHoldWindow is how long a movement key counts as held after its
// last press or key repeat. Terminals report no key-up events, so a key is
// released once the repeats stop arriving.
const DefaultHoldWindow = 180 * time.Millisecond

// holdable actions are tracked across frames; everything else is a press.
var holdable = map[core.Action]bool{
	core.ActionJump:   true,
	core.ActionCrouch: true,
	core.ActionLeft:   true,
	core.ActionRight:  true,
}

// KeyMapper translates Bubble Tea key messages to game actions and derives
// held and released state from key repeat timing.
type KeyMapper struct {
	HoldWindow time.Duration
	lastSeen   map[core.Action]time.Time
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{
		HoldWindow: DefaultHoldWindow,
		lastSeen:   make(map[core.Action]time.Time),
	}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case " ", "w", "up":
		return core.ActionJump, false
	case "s", "down":
		return core.ActionCrouch, false
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case "enter":
		return core.ActionConfirm, false
	case "b":
		return core.ActionBack, false
	case "p", "esc":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	case "f1":
		return core.ActionFreezeRules, false
	case "f2":
		return core.ActionForceRule, false
	}
	return core.ActionNone, false
}

// Press records a key press into frame at time now.
// Returns true if the key was a quit request.
func (km *KeyMapper) Press(msg tea.KeyMsg, now time.Time, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action == core.ActionNone || isQuit {
		return isQuit
	}
	if !holdable[action] {
		frame.Set(action)
		return false
	}
	// Key repeats extend the hold without producing a new press.
	if _, down := km.lastSeen[action]; !down {
		frame.Set(action)
	}
	km.lastSeen[action] = now
	frame.Hold(action)
	return false
}

// Update marks every tracked action as held in frame, or released once no
// repeat has arrived within the hold window. Call it once per tick before
// the frame is handed to the game.
func (km *KeyMapper) Update(now time.Time, frame *core.InputFrame) {
	for action, seen := range km.lastSeen {
		if now.Sub(seen) > km.HoldWindow {
			delete(km.lastSeen, action)
			frame.Release(action)
			continue
		}
		frame.Hold(action)
	}
}

// Reset forgets every held key.
func (km *KeyMapper) Reset() {
	clear(km.lastSeen)
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
