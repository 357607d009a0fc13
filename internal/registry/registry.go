// Package registry keeps the playable modes. Mode packages register in
// init(), and the frontends list and create them by ID.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/vovakirdan/rule-runner/internal/core"
)

// ErrUnknownMode is returned by Create for IDs nobody registered.
var ErrUnknownMode = errors.New("registry: unknown mode")

// Game is what the platform drives: one mode of the runner behind the
// fixed-tick Step/Render loop. It has no dependency on Bubble Tea; the
// platform handles input mapping, timing and terminal output.
type Game interface {
	// ID returns the mode identifier used by the CLI and run storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset starts a fresh run.
	// Called once at start and again when restarting after game over.
	Reset(cfg core.RuntimeConfig)

	// Step advances the run by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into dst.
	Render(dst *core.Screen)

	// State returns the current score and status.
	State() core.GameState
}

// GameInfo describes a registered mode without creating it.
type GameInfo struct {
	ID      string
	Title   string
	Summary string // one line for listings, e.g. the size of the rule table
}

// Factory creates a new instance of a mode.
type Factory func() Game

type entry struct {
	info    GameInfo
	factory Factory
}

// Registry holds modes in registration order.
type Registry struct {
	mu    sync.RWMutex
	modes *orderedmap.OrderedMap[string, entry]
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{modes: orderedmap.NewOrderedMap[string, entry]()}
}

// Register adds a mode. It panics on an empty or duplicate ID, which can
// only come from a programming error in an init function.
func (r *Registry) Register(info GameInfo, f Factory) {
	if info.ID == "" || f == nil {
		panic("registry: mode needs an ID and a factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modes.Get(info.ID); exists {
		panic(fmt.Sprintf("registry: mode %q already registered", info.ID))
	}
	if info.Title == "" {
		info.Title = info.ID
	}
	r.modes.Set(info.ID, entry{info: info, factory: f})
}

// List returns every mode in registration order.
func (r *Registry) List() []GameInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]GameInfo, 0, r.modes.Len())
	for el := r.modes.Front(); el != nil; el = el.Next() {
		result = append(result, el.Value.info)
	}
	return result
}

// Info looks a mode up without creating it.
func (r *Registry) Info(id string) (GameInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.modes.Get(id)
	return e.info, ok
}

// Create instantiates a mode by its ID.
func (r *Registry) Create(id string) (Game, error) {
	r.mu.RLock()
	e, ok := r.modes.Get(id)
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMode, id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func (r *Registry) Exists(id string) bool {
	_, ok := r.Info(id)
	return ok
}

var modes = New()

// Register adds a mode to the process-wide registry.
func Register(info GameInfo, f Factory) { modes.Register(info, f) }

// List returns the process-wide modes in registration order.
func List() []GameInfo { return modes.List() }

// Info looks a mode up in the process-wide registry.
func Info(id string) (GameInfo, bool) { return modes.Info(id) }

// Create instantiates a process-wide mode.
func Create(id string) (Game, error) { return modes.Create(id) }

// Exists reports whether id is a process-wide mode.
func Exists(id string) bool { return modes.Exists(id) }
