package build

import "fmt"

// Lifecycle state of a resource within one build invocation.
type State string

const (
	StateLoaded           State = "loaded"            // Manifest loaded, nothing produced yet.
	StateFilesCopied      State = "files-copied"      // Files placed in the output target.
	StateManifestRendered State = "manifest-rendered" // Runtime manifest written.
)

// Position of each state in the lifecycle.
var stateOrder = map[State]int{
	StateLoaded:           0,
	StateFilesCopied:      1,
	StateManifestRendered: 2,
}

// Tracks the state of one build invocation.
//
// State only moves forward, one step at a time, and returns to
// [StateLoaded] when a new invocation starts.
type lifecycle struct {
	state State
}

// Creates a lifecycle in the loaded state.
func newLifecycle() *lifecycle {
	return &lifecycle{state: StateLoaded}
}

// Returns the current state.
func (l *lifecycle) current() State {
	return l.state
}

// Moves to the given state. Repeating the current state is a no-op.
func (l *lifecycle) advance(to State) error {
	from, ok := stateOrder[l.state]
	if !ok {
		return fmt.Errorf("%w: unknown state %q", ErrState, l.state)
	}
	next, ok := stateOrder[to]
	if !ok {
		return fmt.Errorf("%w: unknown state %q", ErrState, to)
	}
	if next != from && next != from+1 {
		return fmt.Errorf("%w: %s to %s", ErrState, l.state, to)
	}
	l.state = to
	return nil
}

// Returns to the loaded state.
func (l *lifecycle) reset() {
	l.state = StateLoaded
}
