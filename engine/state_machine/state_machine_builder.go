package state_machine

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/Carmen-Shannon/oxy-anim/engine/event"
)

// StateMachineBuilderOption is a functional option for configuring a StateMachine during construction.
type StateMachineBuilderOption func(*stateMachine)

// WithID is an option builder that overrides the generated machine id.
//
// Parameters:
//   - id: the machine identifier to use as the event source
//
// Returns:
//   - StateMachineBuilderOption: a function that applies the id to a state machine
func WithID(id string) StateMachineBuilderOption {
	return func(m *stateMachine) {
		m.id = id
	}
}

// WithDispatcher is an option builder that attaches an event dispatcher for
// lifecycle notifications. Without it the machine emits nothing.
//
// Parameters:
//   - d: the dispatcher to emit lifecycle events into
//
// Returns:
//   - StateMachineBuilderOption: a function that applies the dispatcher to a state machine
func WithDispatcher(d *event.Dispatcher) StateMachineBuilderOption {
	return func(m *stateMachine) {
		m.dispatcher = d
	}
}

// WithTracer is an option builder that sets the tracer used to span
// transition starts. Defaults to a no-op tracer.
//
// Parameters:
//   - t: the OpenTelemetry tracer
//
// Returns:
//   - StateMachineBuilderOption: a function that applies the tracer to a state machine
func WithTracer(t trace.Tracer) StateMachineBuilderOption {
	return func(m *stateMachine) {
		if t != nil {
			m.tracer = t
		}
	}
}
