// package event carries lifecycle notifications out of the animation engine.
// Events are informational and fire-and-forget: the engine never waits on a
// listener and never alters behavior based on one. Listener lists live here,
// in the dispatcher, not on the state/transition/layer values themselves.
package event

import (
	"github.com/google/uuid"
)

// Type identifies the kind of lifecycle event.
type Type string

const (
	// StateAdded fires when a state is registered with a state machine.
	StateAdded Type = "state_added"

	// StateRemoved fires when a state (and its transitions) is removed.
	StateRemoved Type = "state_removed"

	// TransitionAdded fires when a transition edge is registered.
	TransitionAdded Type = "transition_added"

	// TransitionRemoved fires when a transition edge is removed.
	TransitionRemoved Type = "transition_removed"

	// TransitionStarted fires when a guarded transition begins crossfading.
	TransitionStarted Type = "transition_started"

	// TransitionCompleted fires when a crossfade reaches its target state.
	TransitionCompleted Type = "transition_completed"

	// ParameterChanged fires when a parameter is assigned a different value.
	ParameterChanged Type = "parameter_changed"

	// LayerAdded fires when an animator layer is created.
	LayerAdded Type = "layer_added"

	// LayerRemoved fires when an animator layer is removed.
	LayerRemoved Type = "layer_removed"

	// PlaybackStarted fires when an animator resumes advancing time.
	PlaybackStarted Type = "playback_started"

	// PlaybackPaused fires when an animator stops advancing time.
	PlaybackPaused Type = "playback_paused"

	// PlaybackStopped fires when an animator stops and rewinds all layers.
	PlaybackStopped Type = "playback_stopped"
)

// Event is one lifecycle notification. Source identifies the emitting object
// (a state machine or animator id), Name the affected element (state id,
// transition id, parameter name, layer id), and Data an optional payload
// such as a parameter value.
type Event struct {
	Type   Type
	Source string
	Name   string
	Data   any
}

// Listener receives dispatched events. Listeners run synchronously on the
// emitting call; long work should be deferred by the host.
type Listener func(Event)

// Dispatcher owns listener registrations and fans events out to them in
// subscription order.
type Dispatcher struct {
	order     []string
	listeners map[string]Listener
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string]Listener)}
}

// Subscribe registers a listener and returns its subscription id.
//
// Parameters:
//   - fn: the listener to register
//
// Returns:
//   - string: the subscription id, usable with Unsubscribe
func (d *Dispatcher) Subscribe(fn Listener) string {
	if d == nil || fn == nil {
		return ""
	}
	id := uuid.NewString()
	d.order = append(d.order, id)
	d.listeners[id] = fn
	return id
}

// Unsubscribe removes a listener by subscription id.
//
// Parameters:
//   - id: the subscription id returned by Subscribe
//
// Returns:
//   - bool: true when a listener was removed
func (d *Dispatcher) Unsubscribe(id string) bool {
	if d == nil {
		return false
	}
	if _, ok := d.listeners[id]; !ok {
		return false
	}
	delete(d.listeners, id)
	for i, sid := range d.order {
		if sid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Emit delivers an event to every registered listener in subscription order.
// A nil dispatcher is a valid no-op emitter, so engine objects can emit
// unconditionally.
//
// Parameters:
//   - e: the event to deliver
func (d *Dispatcher) Emit(e Event) {
	if d == nil {
		return
	}
	for _, id := range d.order {
		if fn, ok := d.listeners[id]; ok {
			fn(e)
		}
	}
}
