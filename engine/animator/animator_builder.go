package animator

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/Carmen-Shannon/oxy-anim/engine/event"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithID is an option builder that overrides the generated animator id.
//
// Parameters:
//   - id: the animator identifier to use as the event source
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the id to an animator
func WithID(id string) AnimatorBuilderOption {
	return func(a *animator) {
		a.id = id
	}
}

// WithSkeleton is an option builder that sets the skeleton store the final
// pose is written into each frame. Without it write-back is skipped and the
// composited pose is only available through Pose.
//
// Parameters:
//   - s: the skeleton store
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the skeleton to an animator
func WithSkeleton(s skeleton.Store) AnimatorBuilderOption {
	return func(a *animator) {
		a.skeleton = s
	}
}

// WithDispatcher is an option builder that attaches an event dispatcher for
// lifecycle and playback notifications. Layers created afterwards share it
// with their state machines.
//
// Parameters:
//   - d: the dispatcher to emit events into
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the dispatcher to an animator
func WithDispatcher(d *event.Dispatcher) AnimatorBuilderOption {
	return func(a *animator) {
		a.dispatcher = d
	}
}

// WithTracer is an option builder that sets the tracer used to span Update
// calls and layer transitions. Defaults to a no-op tracer.
//
// Parameters:
//   - t: the OpenTelemetry tracer
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the tracer to an animator
func WithTracer(t trace.Tracer) AnimatorBuilderOption {
	return func(a *animator) {
		if t != nil {
			a.tracer = t
		}
	}
}

// WithProfiler is an option builder that attaches an update-rate profiler,
// ticked once per Update.
//
// Parameters:
//   - p: the profiler instance
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the profiler to an animator
func WithProfiler(p *profiler.Profiler) AnimatorBuilderOption {
	return func(a *animator) {
		a.prof = p
	}
}

// WithSpeed is an option builder that sets the initial global playback speed.
//
// Parameters:
//   - speed: the multiplier (1.0 = normal)
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the speed to an animator
func WithSpeed(speed float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.globalSpeed = speed
	}
}
