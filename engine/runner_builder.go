package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
)

// RunnerBuilderOption is a functional option for configuring a Runner.
// Use the With* functions to create options that are applied directly to the runner instance.
type RunnerBuilderOption func(*runner)

// WithProfiling enables or disables per-tick performance output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithProfiling(enabled bool) RunnerBuilderOption {
	return func(r *runner) {
		r.profilingEnabled = enabled
	}
}

// WithTickRate sets the tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - tps: target ticks per second (default 60)
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithTickRate(tps float64) RunnerBuilderOption {
	return func(r *runner) {
		if tps <= 0 {
			tps = 60.0
		}
		r.tickRate = time.Second / time.Duration(tps)
	}
}

// WithAnimator registers an animator at the given key during construction.
// Animators are updated in ascending key order each tick.
//
// Parameters:
//   - key: the order key (lower updates first)
//   - a: the Animator to register
//
// Returns:
//   - RunnerBuilderOption: option function to apply
func WithAnimator(key int, a animator.Animator) RunnerBuilderOption {
	return func(r *runner) {
		r.animators[key] = a
	}
}
