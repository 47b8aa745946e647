package clip

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
)

// Source is the contract an animation clip must satisfy to be played by a
// state machine. A Source maps a time value to a candidate local transform
// per bone; any subset of the three transform components may be absent per
// bone per sample, marked through the transform's component mask.
type Source interface {
	// Sample evaluates the clip at the given time.
	//
	// Parameters:
	//   - timeSeconds: the playback position in seconds
	//
	// Returns:
	//   - map[string]common.Transform: bone name to sampled local transform
	Sample(timeSeconds float32) map[string]common.Transform

	// Duration returns the total clip length in seconds. A duration of 0
	// means the clip is a fixed pose and never wraps.
	Duration() float32
}

// keyframeClip is a Source backed by per-bone keyframe channels.
type keyframeClip struct {
	name     string
	duration float32
	channels []Channel
}

var _ Source = &keyframeClip{}

// NewKeyframeClip creates a Source from per-bone keyframe channels.
// Keyframes within each track must be sorted by ascending time.
//
// Parameters:
//   - name: the clip identifier
//   - duration: the total clip length in seconds
//   - channels: keyframe tracks, one Channel per animated bone
//
// Returns:
//   - Source: a keyframe-sampled clip source
func NewKeyframeClip(name string, duration float32, channels []Channel) Source {
	return &keyframeClip{
		name:     name,
		duration: duration,
		channels: channels,
	}
}

func (c *keyframeClip) Duration() float32 {
	return c.duration
}

func (c *keyframeClip) Sample(timeSeconds float32) map[string]common.Transform {
	out := make(map[string]common.Transform, len(c.channels))
	for i := range c.channels {
		ch := &c.channels[i]
		var t common.Transform

		if len(ch.PositionKeys) > 0 {
			t.Translation = sampleVectorTrack(ch.PositionKeys, timeSeconds)
			t.Components |= common.HasTranslation
		}
		if len(ch.RotationKeys) > 0 {
			t.Rotation = sampleQuaternionTrack(ch.RotationKeys, timeSeconds)
			t.Components |= common.HasRotation
		}
		if len(ch.ScaleKeys) > 0 {
			t.Scale = sampleVectorTrack(ch.ScaleKeys, timeSeconds)
			t.Components |= common.HasScale
		}

		if t.Components != 0 {
			out[ch.BoneName] = t
		}
	}
	return out
}

// sampleVectorTrack interpolates a vector track at the given time. Times
// before the first key clamp to the first value, times past the last key
// clamp to the last value.
func sampleVectorTrack(keys []VectorKeyframe, time float32) [3]float32 {
	if time <= keys[0].Time || len(keys) == 1 {
		return keys[0].Value
	}
	last := len(keys) - 1
	if time >= keys[last].Time {
		return keys[last].Value
	}

	// First key strictly after time; its predecessor starts the segment.
	next := sort.Search(len(keys), func(i int) bool { return keys[i].Time > time })
	prev := next - 1

	span := keys[next].Time - keys[prev].Time
	if span <= 0 {
		return keys[prev].Value
	}
	f := (time - keys[prev].Time) / span
	return common.Lerp3(keys[prev].Value, keys[next].Value, f)
}

// sampleQuaternionTrack interpolates a rotation track at the given time with
// the same clamping rules as sampleVectorTrack, using slerp between keys.
func sampleQuaternionTrack(keys []QuaternionKeyframe, time float32) [4]float32 {
	if time <= keys[0].Time || len(keys) == 1 {
		return keys[0].Value
	}
	last := len(keys) - 1
	if time >= keys[last].Time {
		return keys[last].Value
	}

	next := sort.Search(len(keys), func(i int) bool { return keys[i].Time > time })
	prev := next - 1

	span := keys[next].Time - keys[prev].Time
	if span <= 0 {
		return keys[prev].Value
	}
	f := (time - keys[prev].Time) / span
	return common.QuatSlerp(keys[prev].Value, keys[next].Value, f)
}

// staticClip is a Source that returns the same fixed pose at every time.
// Useful for pose states, additive delta layers, and tests.
type staticClip struct {
	pose map[string]common.Transform
}

var _ Source = &staticClip{}

// NewStatic creates a fixed-pose Source from a bone-name to transform map.
// The map is not copied; the caller must not mutate it after construction.
//
// Parameters:
//   - pose: bone name to local transform
//
// Returns:
//   - Source: a clip source that always samples to the given pose
func NewStatic(pose map[string]common.Transform) Source {
	return &staticClip{pose: pose}
}

func (c *staticClip) Duration() float32 {
	return 0
}

func (c *staticClip) Sample(_ float32) map[string]common.Transform {
	out := make(map[string]common.Transform, len(c.pose))
	for name, t := range c.pose {
		out[name] = t
	}
	return out
}
