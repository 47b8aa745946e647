package animator

import (
	"math"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/state_machine"
)

// BlendMode selects how a layer's output is composited into the final pose.
type BlendMode string

const (
	// BlendOverride displaces earlier layers' contribution for a bone via a
	// weighted running average.
	BlendOverride BlendMode = "override"

	// BlendAdditive sums the layer's contribution on top of the resolved
	// pose instead of displacing it.
	BlendAdditive BlendMode = "additive"
)

// AnimationLayer wraps one state machine with a weight, a bone mask, and a
// blend mode. Layers are owned exclusively by one Animator; their insertion
// order is the compositing order.
type AnimationLayer struct {
	id   string
	name string

	machine state_machine.StateMachine

	weight float32
	mode   BlendMode

	// maskOrder preserves the caller's bone list for Mask; maskSet is the
	// allow-list consulted per bone. Empty means the layer affects all bones.
	maskOrder []string
	maskSet   map[string]struct{}
}

// ID returns the layer's identifier.
func (l *AnimationLayer) ID() string {
	return l.id
}

// Name returns the display name.
func (l *AnimationLayer) Name() string {
	return l.name
}

// StateMachine returns the layer's owned state machine.
func (l *AnimationLayer) StateMachine() state_machine.StateMachine {
	return l.machine
}

// Weight returns the layer weight in [0, 1].
func (l *AnimationLayer) Weight() float32 {
	return l.weight
}

// BlendMode returns the layer's blend mode.
func (l *AnimationLayer) BlendMode() BlendMode {
	return l.mode
}

// Mask returns the bone-name allow-list. Empty means unmasked.
func (l *AnimationLayer) Mask() []string {
	out := make([]string, len(l.maskOrder))
	copy(out, l.maskOrder)
	return out
}

// allowsBone reports whether the layer may contribute to the named bone.
func (l *AnimationLayer) allowsBone(name string) bool {
	if len(l.maskSet) == 0 {
		return true
	}
	_, ok := l.maskSet[name]
	return ok
}

func (l *AnimationLayer) setMask(bones []string) {
	l.maskOrder = make([]string, len(bones))
	copy(l.maskOrder, bones)
	if len(bones) == 0 {
		l.maskSet = nil
		return
	}
	l.maskSet = make(map[string]struct{}, len(bones))
	for _, b := range bones {
		l.maskSet[b] = struct{}{}
	}
}

// auxMixer plays one supplementary clip additively over the composited pose.
// It has no state machine; it is meant for secondary animation such as a
// breathing overlay driven directly by the host.
type auxMixer struct {
	src    clip.Source
	weight float32
	loop   bool
	time   float32
}

func (m *auxMixer) advance(dt float32) {
	m.time += dt
	if m.loop {
		if dur := m.src.Duration(); dur > 0 && m.time > dur {
			m.time = float32(math.Mod(float64(m.time), float64(dur)))
		}
	}
}

func (m *auxMixer) sample() map[string]common.Transform {
	return m.src.Sample(m.time)
}
