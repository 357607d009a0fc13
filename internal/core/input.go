package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone        Action = iota
	ActionJump               // Space, W, Up
	ActionCrouch             // S, Down
	ActionLeft               // A, Left
	ActionRight              // D, Right
	ActionConfirm            // Enter
	ActionBack               // B, Escape
	ActionRestart            // R after game over
	ActionQuit               // Q, Ctrl+C
	ActionPause              // P, Escape
	ActionFreezeRules        // F1 (dev)
	ActionForceRule          // F2 (dev)
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionJump:
		return "Jump"
	case ActionCrouch:
		return "Crouch"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionFreezeRules:
		return "FreezeRules"
	case ActionForceRule:
		return "ForceRule"
	default:
		return "Unknown"
	}
}

// InputFrame is the input state for one simulation tick.
//
// Actions holds edge-triggered presses for this frame only. Held tracks
// actions that are still down, and Released marks the frame on which a held
// action went up. Terminals only report presses, so the platform derives
// Held and Released from key repeat timing.
type InputFrame struct {
	Actions  map[Action]bool
	Held     map[Action]bool
	Released map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions:  make(map[Action]bool),
		Held:     make(map[Action]bool),
		Released: make(map[Action]bool),
	}
}

// Set marks an action as pressed for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was pressed this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Hold marks an action as currently held down.
func (f *InputFrame) Hold(a Action) {
	if f.Held == nil {
		f.Held = make(map[Action]bool)
	}
	f.Held[a] = true
}

// IsHeld reports whether the action is held down.
func (f InputFrame) IsHeld(a Action) bool {
	return f.Held[a]
}

// Release ends a hold and records the release edge for this frame.
func (f *InputFrame) Release(a Action) {
	delete(f.Held, a)
	if f.Released == nil {
		f.Released = make(map[Action]bool)
	}
	f.Released[a] = true
}

// WasReleased reports whether the action went up this frame.
func (f InputFrame) WasReleased(a Action) bool {
	return f.Released[a]
}

// Clear resets the per-frame edges. Held actions survive.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	for k := range f.Released {
		delete(f.Released, k)
	}
}

// Reset drops every press, hold and release.
func (f *InputFrame) Reset() {
	f.Clear()
	for k := range f.Held {
		delete(f.Held, k)
	}
}
