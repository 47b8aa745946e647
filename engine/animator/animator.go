package animator

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/event"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/Carmen-Shannon/oxy-anim/engine/state_machine"
	"github.com/Carmen-Shannon/oxy-anim/engine/telemetry"
)

// Animator defines the public interface for the layer compositor. It owns a
// named, insertion-ordered collection of layers, drives each layer's state
// machine once per Update, composites the per-layer bone maps into one final
// pose, and writes that pose into the skeleton store.
//
// Setter-style operations return false on unknown ids rather than raising;
// they are called frequently from UI-driven code and must never crash a
// running frame. Like the state machines it owns, an Animator is
// single-threaded by contract.
type Animator interface {
	// ID returns the animator's generated identifier, used as the event
	// source for playback notifications.
	ID() string

	// AddLayer creates a layer with an owned state machine and appends it
	// to the compositing order. If the id is already taken the call is a
	// silent no-op and returns nil.
	//
	// Parameters:
	//   - id: the unique layer identifier
	//   - name: the display name
	//   - weight: the initial layer weight, clamped to [0, 1]
	//   - mode: the blend mode (BlendOverride or BlendAdditive)
	//
	// Returns:
	//   - *AnimationLayer: the created layer, or nil when the id exists
	AddLayer(id, name string, weight float32, mode BlendMode) *AnimationLayer

	// Layer returns a layer by id.
	//
	// Parameters:
	//   - id: the layer identifier
	//
	// Returns:
	//   - *AnimationLayer: the layer, or nil when absent
	//   - bool: true when the id was found
	Layer(id string) (*AnimationLayer, bool)

	// Layers returns all layers in compositing order. The slice is a copy;
	// the pointed-to layers are live.
	Layers() []*AnimationLayer

	// RemoveLayer removes a layer and its owned state machine, preserving
	// the compositing order of the remaining layers.
	//
	// Parameters:
	//   - id: the layer identifier
	//
	// Returns:
	//   - bool: false when the id was absent
	RemoveLayer(id string) bool

	// SetLayerWeight sets a layer's weight, clamped to [0, 1].
	//
	// Parameters:
	//   - id: the layer identifier
	//   - weight: the new weight
	//
	// Returns:
	//   - bool: false when the id was absent
	SetLayerWeight(id string, weight float32) bool

	// SetLayerMask sets a layer's bone-name allow-list. An empty list means
	// the layer affects all bones.
	//
	// Parameters:
	//   - id: the layer identifier
	//   - boneNames: the bones the layer may affect
	//
	// Returns:
	//   - bool: false when the id was absent
	SetLayerMask(id string, boneNames []string) bool

	// SetParameter assigns a parameter on one layer's state machine.
	//
	// Parameters:
	//   - layerID: the layer identifier
	//   - name: the parameter name
	//   - value: the value to store
	//
	// Returns:
	//   - bool: false when the layer was absent
	SetParameter(layerID, name string, value common.Value) bool

	// SetGlobalParameter broadcasts a parameter to every layer's state
	// machine. Useful for values shared across layers, e.g. locomotion speed.
	//
	// Parameters:
	//   - name: the parameter name
	//   - value: the value to store
	SetGlobalParameter(name string, value common.Value)

	// Play resumes advancing time. Clips are not rewound.
	Play()

	// Pause stops advancing time without rewinding.
	Pause()

	// Stop pauses playback and rewinds every layer's state machine and the
	// auxiliary mixer to time zero. Idempotent.
	Stop()

	// IsPlaying reports whether Update currently advances time.
	IsPlaying() bool

	// SetSpeed sets the global playback speed multiplier applied to every
	// layer's dt.
	//
	// Parameters:
	//   - speed: the multiplier (1.0 = normal)
	SetSpeed(speed float32)

	// Speed returns the global playback speed multiplier.
	Speed() float32

	// SetAuxClip installs the auxiliary clip mixer: a single supplementary
	// clip applied additively over the composited pose each frame. A nil
	// source clears the mixer.
	//
	// Parameters:
	//   - src: the clip source, or nil to clear
	//   - weight: the additive weight
	//   - loop: whether the clip wraps at its duration
	SetAuxClip(src clip.Source, weight float32, loop bool)

	// Update drives every layer's state machine by dt scaled by the global
	// speed, composites the layer outputs, and writes the final transforms
	// into the skeleton. No-op while paused or with zero layers.
	//
	// Parameters:
	//   - dt: elapsed time in seconds since the previous update
	Update(dt float32)

	// Pose returns the final bone map produced by the most recent Update.
	// Bones no layer contributed to are absent. Intended for debugging
	// overlays and hosts that perform their own write-back.
	Pose() map[string]common.Transform
}

// animator is the implementation of the Animator interface.
type animator struct {
	id string

	layers     []*AnimationLayer
	layerIndex map[string]int

	skeleton skeleton.Store

	dispatcher *event.Dispatcher
	tracer     trace.Tracer

	playing     bool
	globalSpeed float32

	mixer *auxMixer
	prof  *profiler.Profiler

	lastPose map[string]common.Transform
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator configured by the provided options.
// Without options the animator has a generated id, no skeleton (write-back
// skipped), no event dispatcher, a no-op tracer, and starts playing at
// normal speed.
//
// Parameters:
//   - options: variadic list of AnimatorBuilderOption functions
//
// Returns:
//   - Animator: a new animator with no layers
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		id:          uuid.NewString(),
		layerIndex:  make(map[string]int),
		tracer:      telemetry.NewProvider().Tracer("oxy-anim/animator"),
		playing:     true,
		globalSpeed: 1.0,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animator) ID() string {
	return a.id
}

func (a *animator) AddLayer(id, name string, weight float32, mode BlendMode) *AnimationLayer {
	if _, exists := a.layerIndex[id]; exists {
		return nil
	}
	if mode != BlendAdditive {
		mode = BlendOverride
	}

	l := &AnimationLayer{
		id:     id,
		name:   name,
		weight: common.Clamp01(weight),
		mode:   mode,
		machine: state_machine.NewStateMachine(
			state_machine.WithID(id),
			state_machine.WithDispatcher(a.dispatcher),
			state_machine.WithTracer(a.tracer),
		),
	}
	a.layerIndex[id] = len(a.layers)
	a.layers = append(a.layers, l)

	a.dispatcher.Emit(event.Event{Type: event.LayerAdded, Source: a.id, Name: id})
	return l
}

func (a *animator) Layer(id string) (*AnimationLayer, bool) {
	idx, ok := a.layerIndex[id]
	if !ok {
		return nil, false
	}
	return a.layers[idx], true
}

func (a *animator) Layers() []*AnimationLayer {
	out := make([]*AnimationLayer, len(a.layers))
	copy(out, a.layers)
	return out
}

func (a *animator) RemoveLayer(id string) bool {
	idx, ok := a.layerIndex[id]
	if !ok {
		return false
	}

	// Ordered removal: compositing order is the layer contract, so the
	// swap-remove used elsewhere would reshuffle it.
	copy(a.layers[idx:], a.layers[idx+1:])
	a.layers[len(a.layers)-1] = nil
	a.layers = a.layers[:len(a.layers)-1]
	delete(a.layerIndex, id)
	for i := idx; i < len(a.layers); i++ {
		a.layerIndex[a.layers[i].id] = i
	}

	a.dispatcher.Emit(event.Event{Type: event.LayerRemoved, Source: a.id, Name: id})
	return true
}

func (a *animator) SetLayerWeight(id string, weight float32) bool {
	l, ok := a.Layer(id)
	if !ok {
		return false
	}
	l.weight = common.Clamp01(weight)
	return true
}

func (a *animator) SetLayerMask(id string, boneNames []string) bool {
	l, ok := a.Layer(id)
	if !ok {
		return false
	}
	l.setMask(boneNames)
	return true
}

func (a *animator) SetParameter(layerID, name string, value common.Value) bool {
	l, ok := a.Layer(layerID)
	if !ok {
		return false
	}
	l.machine.SetParameter(name, value)
	return true
}

func (a *animator) SetGlobalParameter(name string, value common.Value) {
	for _, l := range a.layers {
		l.machine.SetParameter(name, value)
	}
}

func (a *animator) Play() {
	if a.playing {
		return
	}
	a.playing = true
	a.dispatcher.Emit(event.Event{Type: event.PlaybackStarted, Source: a.id})
}

func (a *animator) Pause() {
	if !a.playing {
		return
	}
	a.playing = false
	a.dispatcher.Emit(event.Event{Type: event.PlaybackPaused, Source: a.id})
}

func (a *animator) Stop() {
	a.playing = false
	for _, l := range a.layers {
		l.machine.Stop()
	}
	if a.mixer != nil {
		a.mixer.time = 0
	}
	a.dispatcher.Emit(event.Event{Type: event.PlaybackStopped, Source: a.id})
}

func (a *animator) IsPlaying() bool {
	return a.playing
}

func (a *animator) SetSpeed(speed float32) {
	a.globalSpeed = speed
}

func (a *animator) Speed() float32 {
	return a.globalSpeed
}

func (a *animator) SetAuxClip(src clip.Source, weight float32, loop bool) {
	if src == nil {
		a.mixer = nil
		return
	}
	a.mixer = &auxMixer{
		src:    src,
		weight: common.Clamp01(weight),
		loop:   loop,
	}
}

func (a *animator) Update(dt float32) {
	if !a.playing || len(a.layers) == 0 {
		return
	}
	if a.prof != nil {
		a.prof.Tick()
	}

	_, span := a.tracer.Start(context.Background(), "animator.update",
		trace.WithAttributes(
			attribute.String("animator.id", a.id),
			attribute.Int("animator.layers", len(a.layers)),
			attribute.Float64("animator.dt", float64(dt)),
		))
	defer span.End()

	scaled := dt * a.globalSpeed

	// Read/collect phase: every layer sees only its own machine; no layer
	// observes another layer's partial result within the frame.
	outputs := make([]layerOutput, 0, len(a.layers))
	for _, l := range a.layers {
		if l.weight <= 0 {
			continue
		}
		pose := l.machine.Update(scaled)
		if len(pose) == 0 {
			continue
		}
		outputs = append(outputs, layerOutput{layer: l, pose: pose})
	}

	final := compositeLayers(outputs)

	if a.mixer != nil && a.mixer.weight > 0 {
		a.mixer.advance(scaled)
		for bone, tr := range a.mixer.sample() {
			final[bone] = applyAdditive(final[bone], tr, a.mixer.weight)
		}
	}

	a.lastPose = final

	// Single-writer apply phase.
	if a.skeleton != nil {
		for bone, tr := range final {
			if b := a.skeleton.BoneByName(bone); b != nil {
				b.Apply(tr)
			}
		}
	}
}

func (a *animator) Pose() map[string]common.Transform {
	return a.lastPose
}
