package state_machine

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
)

// AnimationState represents one playable unit inside a state machine: a
// named reference to a clip source plus playback settings. Identity (id) is
// immutable for the state's lifetime; everything else is mutated in place
// through the setters.
type AnimationState struct {
	id   string
	name string
	clip clip.Source

	speed float32
	loop  bool

	// Editor canvas position. Irrelevant to runtime semantics; carried so
	// authoring tools can round-trip it.
	editorX, editorY float32
}

// ID returns the state's immutable identifier.
func (s *AnimationState) ID() string {
	return s.id
}

// Name returns the display name.
func (s *AnimationState) Name() string {
	return s.name
}

// SetName sets the display name.
func (s *AnimationState) SetName(name string) {
	s.name = name
}

// Clip returns the state's clip source, or nil when none is assigned.
func (s *AnimationState) Clip() clip.Source {
	return s.clip
}

// SetClip assigns the state's clip source. A nil source makes the state
// sample to an empty pose.
func (s *AnimationState) SetClip(src clip.Source) {
	s.clip = src
}

// Speed returns the playback speed multiplier.
func (s *AnimationState) Speed() float32 {
	return s.speed
}

// SetSpeed sets the playback speed multiplier (1.0 = normal).
func (s *AnimationState) SetSpeed(speed float32) {
	s.speed = speed
}

// Loop returns whether the state's clip wraps at its duration.
func (s *AnimationState) Loop() bool {
	return s.loop
}

// SetLoop sets whether the state's clip wraps at its duration.
func (s *AnimationState) SetLoop(loop bool) {
	s.loop = loop
}

// EditorPosition returns the editor canvas position.
func (s *AnimationState) EditorPosition() (x, y float32) {
	return s.editorX, s.editorY
}

// SetEditorPosition sets the editor canvas position.
func (s *AnimationState) SetEditorPosition(x, y float32) {
	s.editorX = x
	s.editorY = y
}

// StateTransition is a directed edge between two state ids. All conditions
// must hold for the transition to fire; an edge with no conditions never
// auto-fires. The id is generated at AddTransition time and the edge is
// owned exclusively by its state machine.
type StateTransition struct {
	id         string
	from, to   string
	conditions []TransitionCondition
	duration   float32
	priority   int
}

// ID returns the generated transition identifier.
func (t *StateTransition) ID() string {
	return t.id
}

// From returns the source state id.
func (t *StateTransition) From() string {
	return t.from
}

// To returns the target state id.
func (t *StateTransition) To() string {
	return t.to
}

// Conditions returns the guard conditions. The returned slice is the edge's
// own storage and must not be mutated.
func (t *StateTransition) Conditions() []TransitionCondition {
	return t.conditions
}

// Duration returns the crossfade duration in seconds.
func (t *StateTransition) Duration() float32 {
	return t.duration
}

// Priority returns the tie-break priority; higher wins.
func (t *StateTransition) Priority() int {
	return t.priority
}

// Context is the invariant-bearing runtime record of one state machine.
// Exactly one of single-state sampling (IsTransitioning false) or two-state
// blended sampling (IsTransitioning true) applies at any instant.
type Context struct {
	// CurrentState is a valid state id once the machine has at least one
	// state, or "" before that.
	CurrentState string

	// PreviousState is non-empty iff a transition is in progress.
	PreviousState string

	// TransitionProgress is the crossfade progress in [0, 1].
	TransitionProgress float32

	// TransitionDuration is the active crossfade length in seconds;
	// meaningful only while IsTransitioning.
	TransitionDuration float32

	// IsTransitioning reports whether a crossfade is in progress.
	IsTransitioning bool

	// CurrentTime is monotonic seconds since creation, advanced by Update
	// and reset only by Stop.
	CurrentTime float32
}
