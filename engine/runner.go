// package engine provides the top-level playback driver: a fixed-rate tick
// loop that advances registered animators and hands the host a per-tick
// callback for parameter updates and pose consumption.
package engine

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
)

// runner implements the Runner interface.
// Owns the tick goroutine; everything it drives runs on that one goroutine.
type runner struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate     time.Duration
	tickCallback func(deltaTime float32)

	animators map[int]animator.Animator
}

// Runner drives animation playback from a single fixed-rate tick loop. Each
// tick it updates the registered animators in ascending key order and then
// fires the tick callback.
//
// Animators and their state machines are single-threaded by contract. Once
// Run has been called, every animator mutation must happen inside the tick
// callback so it executes on the tick goroutine.
type Runner interface {
	// EnableProfiler enables per-tick performance output to the log.
	EnableProfiler()

	// DisableProfiler disables per-tick performance output.
	DisableProfiler()

	// SetTickRate sets the tick rate in ticks per second.
	// If the runner is running, the change takes effect immediately.
	//
	// Parameters:
	//   - tps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(tps float64)

	// SetTickCallback registers the function called after the animators have
	// been updated each tick. Use this for parameter changes, layer edits,
	// and pose consumption.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// AddAnimator registers an animator at the given key.
	// Animators are updated in ascending key order each tick.
	//
	// Parameters:
	//   - key: the order key (lower updates first)
	//   - a: the Animator to register
	AddAnimator(key int, a animator.Animator)

	// RemoveAnimator removes the animator at the given key.
	//
	// Parameters:
	//   - key: the key of the animator to remove
	RemoveAnimator(key int)

	// Animator retrieves the animator registered at the given key.
	// Returns nil if no animator exists at that key.
	//
	// Parameters:
	//   - key: the key of the animator to retrieve
	//
	// Returns:
	//   - animator.Animator: the animator at the key, or nil if not found
	Animator(key int) animator.Animator

	// Animators returns a copy of all registered animators keyed by order key.
	//
	// Returns:
	//   - map[int]animator.Animator: a copy of the animators map
	Animators() map[int]animator.Animator

	// Run starts the tick loop and blocks until Quit is called.
	Run()

	// Quit signals the tick loop to stop and shuts down the runner.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewRunner creates a new Runner instance with the provided options.
// Initializes the quit machinery and profiler with sensible defaults.
// Options are applied directly to the runner struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for runner configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Runner: the newly created runner
func NewRunner(options ...RunnerBuilderOption) Runner {
	r := &runner{
		tickRateChannel:  make(chan time.Duration, 1),
		quitChannel:      make(chan struct{}),
		animators:        make(map[int]animator.Animator),
		running:          false,
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		tickRate:         time.Second / 60,
	}

	for _, opt := range options {
		opt(r)
	}

	return r
}

func (r *runner) Run() {
	r.running = true
	r.wg.Add(2)
	go r.handleTick()
	go r.handleQuit()
	r.wg.Wait()
}

// Quit signals the tick goroutine to stop and shuts down the runner.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (r *runner) Quit() {
	r.signalQuit()
}

// signalQuit closes the quit channel to signal the tick goroutine to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (r *runner) signalQuit() {
	r.quitOnce.Do(func() {
		r.running = false
		close(r.quitChannel)
	})
}

// handleTick runs the fixed-rate tick loop in its own goroutine.
// Updates animators in ascending key order, fires the tick callback, and
// listens for dynamic rate changes via tickRateChannel. Exits when the quit
// channel is closed. Recovers from panics to avoid crashing the process and
// signals quit on recovery.
func (r *runner) handleTick() {
	defer r.wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("tick goroutine recovered from panic", "panic", rec)
			r.signalQuit()
		}
	}()

	ticker := time.NewTicker(r.tickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-r.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			keys := make([]int, 0, len(r.animators))
			for k := range r.animators {
				keys = append(keys, k)
			}
			sort.Ints(keys)
			for _, k := range keys {
				r.animators[k].Update(dt)
			}

			if r.tickCallback != nil {
				r.tickCallback(dt)
			}

			if r.profilingEnabled && r.profiler != nil {
				r.profiler.Tick()
			}
		case newRate := <-r.tickRateChannel:
			ticker.Reset(newRate)
			r.tickRate = newRate
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (r *runner) handleQuit() {
	defer r.wg.Done()
	<-r.quitChannel
}

// EnableProfiler enables per-tick performance output to the log.
func (r *runner) EnableProfiler() {
	r.profilingEnabled = true
}

// DisableProfiler disables per-tick performance output.
func (r *runner) DisableProfiler() {
	r.profilingEnabled = false
}

// SetTickRate sets the tick rate in ticks per second.
// If the runner is running, the change takes effect immediately.
func (r *runner) SetTickRate(tps float64) {
	if tps <= 0 {
		tps = 60
	}
	newRate := time.Second / time.Duration(tps)

	if r.running {
		// Send to channel for immediate update in the running tick loop.
		// Non-blocking send - if channel is full, replace the pending value
		select {
		case r.tickRateChannel <- newRate:
		default:
			// Channel has a pending update, drain and send new value
			select {
			case <-r.tickRateChannel:
			default:
			}
			r.tickRateChannel <- newRate
		}
	} else {
		// Runner not running, just update the field
		r.tickRate = newRate
	}
}

// SetTickCallback registers the function called each tick.
func (r *runner) SetTickCallback(callback func(deltaTime float32)) {
	r.tickCallback = callback
}

func (r *runner) AddAnimator(key int, a animator.Animator) {
	r.animators[key] = a
}

func (r *runner) RemoveAnimator(key int) {
	delete(r.animators, key)
}

func (r *runner) Animator(key int) animator.Animator {
	return r.animators[key]
}

func (r *runner) Animators() map[int]animator.Animator {
	cp := make(map[int]animator.Animator, len(r.animators))
	for k, v := range r.animators {
		cp[k] = v
	}
	return cp
}
