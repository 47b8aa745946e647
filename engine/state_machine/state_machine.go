package state_machine

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/event"
	"github.com/Carmen-Shannon/oxy-anim/engine/telemetry"
)

// minTransitionDuration is the floor applied to crossfade durations so that
// advancing transitionProgress by dt/duration can never divide by zero.
const minTransitionDuration = 1e-4

// StateMachine defines the public interface for one animation track: a set
// of named states, guarded transitions between them, and a bag of typed
// parameters. Each Update advances internal time, evaluates transitions
// leaving the current state, and produces a bone-name to transform mapping
// for the current (possibly crossfaded) pose.
//
// A StateMachine is single-threaded by contract: Update and every mutator
// must be called from the same logical update thread.
type StateMachine interface {
	// ID returns the machine's generated identifier, used as the event
	// source for lifecycle notifications.
	ID() string

	// AddState registers a state. The first state added becomes both the
	// entry state and the current state. If the id is already taken the
	// call is a silent no-op and returns nil.
	//
	// Parameters:
	//   - id: the unique state identifier
	//   - name: the display name
	//   - src: the clip source, or nil for an empty-pose state
	//
	// Returns:
	//   - *AnimationState: the created state, or nil when the id exists
	AddState(id, name string, src clip.Source) *AnimationState

	// State returns a state by id.
	//
	// Parameters:
	//   - id: the state identifier
	//
	// Returns:
	//   - *AnimationState: the state, or nil when absent
	//   - bool: true when the id was found
	State(id string) (*AnimationState, bool)

	// States returns all states in arena order. The slice is a copy; the
	// pointed-to states are live.
	States() []*AnimationState

	// RemoveState removes a state and cascades removal of every transition
	// referencing it. If the removed state was the entry or current state,
	// an arbitrary remaining state is promoted, or the machine clears to
	// "no state" when none remain. An in-flight crossfade touching the
	// removed state is resolved eagerly: a removed previous state finalizes
	// the crossfade, a removed current state cancels it.
	//
	// Parameters:
	//   - id: the state identifier
	//
	// Returns:
	//   - bool: false when the id was absent
	RemoveState(id string) bool

	// AddTransition registers a guarded edge between two existing states.
	// The crossfade duration is clamped up to a minimal epsilon when it is
	// zero or negative.
	//
	// Parameters:
	//   - from: the source state id
	//   - to: the target state id
	//   - conditions: the guard conditions (all must hold; empty never auto-fires)
	//   - duration: the crossfade duration in seconds
	//   - priority: tie-break priority, higher wins
	//
	// Returns:
	//   - *StateTransition: the created edge
	//   - error: non-nil when either endpoint does not name an existing state
	AddTransition(from, to string, conditions []TransitionCondition, duration float32, priority int) (*StateTransition, error)

	// Transitions returns all transitions in insertion order. The slice is
	// a copy; the pointed-to edges are live.
	Transitions() []*StateTransition

	// RemoveTransition removes an edge by id.
	//
	// Parameters:
	//   - id: the transition identifier
	//
	// Returns:
	//   - bool: false when the id was absent
	RemoveTransition(id string) bool

	// SetEntryState sets the entry state and performs a hard cut: the
	// current state becomes id immediately and any in-flight crossfade is
	// cancelled without blending.
	//
	// Parameters:
	//   - id: the state identifier
	//
	// Returns:
	//   - bool: false when the id was absent
	SetEntryState(id string) bool

	// EntryState returns the entry state id, or "" when the machine has no
	// states.
	EntryState() string

	// SetParameter assigns a parameter value. A change notification is
	// emitted only when the new value differs from the old one.
	//
	// Parameters:
	//   - name: the parameter name
	//   - value: the value to store
	SetParameter(name string, value common.Value)

	// Parameter returns a parameter value by name.
	//
	// Parameters:
	//   - name: the parameter name
	//
	// Returns:
	//   - common.Value: the stored value, or the zero Value when absent
	//   - bool: true when the parameter exists
	Parameter(name string) (common.Value, bool)

	// Context returns a snapshot of the machine's runtime record.
	Context() Context

	// Update advances internal time by dt, starts or advances a crossfade,
	// and samples the resulting pose. While transitioning both endpoint
	// clips are sampled at currentTime scaled by each state's speed and
	// blended bone-by-bone with factor transitionProgress; otherwise the
	// current state's sample is returned directly.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous update
	//
	// Returns:
	//   - map[string]common.Transform: bone name to locally-blended transform
	Update(dt float32) map[string]common.Transform

	// Stop rewinds currentTime to zero. States, transitions, and parameters
	// are untouched.
	Stop()
}

// stateMachine is the implementation of the StateMachine interface. States
// and transitions live in arena-style storage: a dense slice of values plus
// an id-to-index map, with swap-remove on deletion so removal-with-cascade
// is index bookkeeping rather than pointer chasing.
type stateMachine struct {
	id string

	states     []*AnimationState
	stateIndex map[string]int

	transitions     []*StateTransition
	transitionIndex map[string]int

	params map[string]common.Value

	entryState string
	ctx        Context

	dispatcher *event.Dispatcher
	tracer     trace.Tracer
}

var _ StateMachine = &stateMachine{}

// NewStateMachine creates a new StateMachine configured by the provided
// options. Without options the machine has a generated id, no event
// dispatcher, and a no-op tracer.
//
// Parameters:
//   - options: variadic list of StateMachineBuilderOption functions
//
// Returns:
//   - StateMachine: a new empty state machine
func NewStateMachine(options ...StateMachineBuilderOption) StateMachine {
	m := &stateMachine{
		id:              uuid.NewString(),
		stateIndex:      make(map[string]int),
		transitionIndex: make(map[string]int),
		params:          make(map[string]common.Value),
		tracer:          telemetry.NewProvider().Tracer("oxy-anim/state_machine"),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *stateMachine) ID() string {
	return m.id
}

func (m *stateMachine) AddState(id, name string, src clip.Source) *AnimationState {
	if _, exists := m.stateIndex[id]; exists {
		return nil
	}

	s := &AnimationState{
		id:    id,
		name:  name,
		clip:  src,
		speed: 1.0,
		loop:  true,
	}
	m.stateIndex[id] = len(m.states)
	m.states = append(m.states, s)

	if len(m.states) == 1 {
		m.entryState = id
		m.ctx.CurrentState = id
	}

	m.dispatcher.Emit(event.Event{Type: event.StateAdded, Source: m.id, Name: id})
	return s
}

func (m *stateMachine) State(id string) (*AnimationState, bool) {
	idx, ok := m.stateIndex[id]
	if !ok {
		return nil, false
	}
	return m.states[idx], true
}

func (m *stateMachine) States() []*AnimationState {
	out := make([]*AnimationState, len(m.states))
	copy(out, m.states)
	return out
}

func (m *stateMachine) RemoveState(id string) bool {
	idx, ok := m.stateIndex[id]
	if !ok {
		return false
	}

	// Cascade: drop every edge touching the state before the state itself.
	for i := 0; i < len(m.transitions); {
		t := m.transitions[i]
		if t.from == id || t.to == id {
			m.removeTransitionAt(i)
			continue
		}
		i++
	}

	// Resolve an in-flight crossfade that references the removed state so
	// sampling never observes a dangling id.
	if m.ctx.IsTransitioning {
		switch id {
		case m.ctx.PreviousState:
			m.finishTransition()
		case m.ctx.CurrentState:
			m.ctx.CurrentState = m.ctx.PreviousState
			m.clearTransition()
		}
	}

	// Swap-remove from the arena and patch the displaced state's index.
	last := len(m.states) - 1
	if idx != last {
		m.states[idx] = m.states[last]
		m.stateIndex[m.states[idx].id] = idx
	}
	m.states[last] = nil
	m.states = m.states[:last]
	delete(m.stateIndex, id)

	// Promote a remaining state (arbitrary choice) wherever the removed one
	// was referenced.
	promoted := ""
	if len(m.states) > 0 {
		promoted = m.states[0].id
	}
	if m.entryState == id {
		m.entryState = promoted
	}
	if m.ctx.CurrentState == id {
		m.ctx.CurrentState = promoted
	}

	m.dispatcher.Emit(event.Event{Type: event.StateRemoved, Source: m.id, Name: id})
	return true
}

func (m *stateMachine) AddTransition(from, to string, conditions []TransitionCondition, duration float32, priority int) (*StateTransition, error) {
	if _, ok := m.stateIndex[from]; !ok {
		return nil, fmt.Errorf("add transition: unknown source state %q", from)
	}
	if _, ok := m.stateIndex[to]; !ok {
		return nil, fmt.Errorf("add transition: unknown target state %q", to)
	}
	if duration < minTransitionDuration {
		duration = minTransitionDuration
	}

	t := &StateTransition{
		id:         uuid.NewString(),
		from:       from,
		to:         to,
		conditions: conditions,
		duration:   duration,
		priority:   priority,
	}
	m.transitionIndex[t.id] = len(m.transitions)
	m.transitions = append(m.transitions, t)

	m.dispatcher.Emit(event.Event{Type: event.TransitionAdded, Source: m.id, Name: t.id})
	return t, nil
}

func (m *stateMachine) Transitions() []*StateTransition {
	out := make([]*StateTransition, len(m.transitions))
	copy(out, m.transitions)
	return out
}

func (m *stateMachine) RemoveTransition(id string) bool {
	idx, ok := m.transitionIndex[id]
	if !ok {
		return false
	}
	m.removeTransitionAt(idx)
	return true
}

// removeTransitionAt deletes the edge at index i, preserving insertion order
// of the remaining edges. Order matters here: it is the documented tie-break
// for simultaneously-satisfied transitions, so a swap-remove would silently
// reshuffle priority ties.
func (m *stateMachine) removeTransitionAt(i int) {
	id := m.transitions[i].id
	copy(m.transitions[i:], m.transitions[i+1:])
	m.transitions[len(m.transitions)-1] = nil
	m.transitions = m.transitions[:len(m.transitions)-1]
	delete(m.transitionIndex, id)
	for j := i; j < len(m.transitions); j++ {
		m.transitionIndex[m.transitions[j].id] = j
	}
	m.dispatcher.Emit(event.Event{Type: event.TransitionRemoved, Source: m.id, Name: id})
}

func (m *stateMachine) SetEntryState(id string) bool {
	if _, ok := m.stateIndex[id]; !ok {
		return false
	}
	m.entryState = id

	// Hard cut. This is the one sanctioned way to interrupt an in-flight
	// crossfade: current state moves immediately, no blending.
	m.ctx.CurrentState = id
	m.clearTransition()
	return true
}

func (m *stateMachine) EntryState() string {
	return m.entryState
}

func (m *stateMachine) SetParameter(name string, value common.Value) {
	old, existed := m.params[name]
	if existed && old.Equal(value) {
		return
	}
	m.params[name] = value
	m.dispatcher.Emit(event.Event{Type: event.ParameterChanged, Source: m.id, Name: name, Data: value})
}

func (m *stateMachine) Parameter(name string) (common.Value, bool) {
	v, ok := m.params[name]
	return v, ok
}

func (m *stateMachine) Context() Context {
	return m.ctx
}

func (m *stateMachine) Update(dt float32) map[string]common.Transform {
	m.ctx.CurrentTime += dt

	if m.ctx.CurrentState == "" {
		return nil
	}

	if !m.ctx.IsTransitioning {
		if t := m.selectTransition(); t != nil {
			m.startTransition(t)
		}
	}

	if m.ctx.IsTransitioning {
		m.ctx.TransitionProgress += dt / m.ctx.TransitionDuration
		if m.ctx.TransitionProgress >= 1 {
			m.finishTransition()
		}
	}

	if m.ctx.IsTransitioning {
		prev := m.samplePose(m.ctx.PreviousState)
		cur := m.samplePose(m.ctx.CurrentState)
		return blendPoses(prev, cur, m.ctx.TransitionProgress)
	}
	return m.samplePose(m.ctx.CurrentState)
}

func (m *stateMachine) Stop() {
	m.ctx.CurrentTime = 0
}

// selectTransition returns the highest-priority satisfied edge leaving the
// current state, or nil. Ties resolve to the first edge found in insertion
// order. Edges with no conditions never auto-fire.
func (m *stateMachine) selectTransition() *StateTransition {
	var best *StateTransition
	for _, t := range m.transitions {
		if t.from != m.ctx.CurrentState || len(t.conditions) == 0 {
			continue
		}
		if best != nil && t.priority <= best.priority {
			continue
		}
		if m.conditionsHold(t) {
			best = t
		}
	}
	return best
}

func (m *stateMachine) conditionsHold(t *StateTransition) bool {
	for _, c := range t.conditions {
		if !c.Evaluate(m.params) {
			return false
		}
	}
	return true
}

func (m *stateMachine) startTransition(t *StateTransition) {
	m.ctx.PreviousState = m.ctx.CurrentState
	m.ctx.CurrentState = t.to
	m.ctx.IsTransitioning = true
	m.ctx.TransitionProgress = 0
	m.ctx.TransitionDuration = t.duration

	_, span := m.tracer.Start(context.Background(), "state_machine.transition",
		trace.WithAttributes(
			attribute.String("machine.id", m.id),
			attribute.String("transition.from", t.from),
			attribute.String("transition.to", t.to),
			attribute.Float64("transition.duration", float64(t.duration)),
		))
	span.End()

	m.dispatcher.Emit(event.Event{Type: event.TransitionStarted, Source: m.id, Name: t.id})
}

// finishTransition atomically clears the crossfade record the moment
// progress crosses 1.0: previous state, flag, and progress reset together.
func (m *stateMachine) finishTransition() {
	m.clearTransition()
	m.dispatcher.Emit(event.Event{Type: event.TransitionCompleted, Source: m.id, Name: m.ctx.CurrentState})
}

func (m *stateMachine) clearTransition() {
	m.ctx.PreviousState = ""
	m.ctx.IsTransitioning = false
	m.ctx.TransitionProgress = 0
	m.ctx.TransitionDuration = 0
}

// samplePose samples the clip of the named state at the machine's current
// time scaled by the state's speed, wrapping looped clips at their duration.
func (m *stateMachine) samplePose(id string) map[string]common.Transform {
	idx, ok := m.stateIndex[id]
	if !ok {
		return nil
	}
	s := m.states[idx]
	if s.clip == nil {
		return nil
	}

	t := m.ctx.CurrentTime * s.speed
	if s.loop {
		if dur := s.clip.Duration(); dur > 0 && t > dur {
			t = float32(math.Mod(float64(t), float64(dur)))
		}
	}
	return s.clip.Sample(t)
}

// blendPoses blends two sampled poses bone-by-bone with factor t toward the
// target pose. Bones present on only one side are carried through unchanged.
func blendPoses(prev, cur map[string]common.Transform, t float32) map[string]common.Transform {
	out := make(map[string]common.Transform, max(len(prev), len(cur)))
	for bone, a := range prev {
		if b, ok := cur[bone]; ok {
			out[bone] = common.BlendTransforms(a, b, t)
		} else {
			out[bone] = a
		}
	}
	for bone, b := range cur {
		if _, ok := prev[bone]; !ok {
			out[bone] = b
		}
	}
	return out
}

