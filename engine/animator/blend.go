package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
)

// layerOutput pairs a contributing layer with the pose its state machine
// produced this frame.
type layerOutput struct {
	layer *AnimationLayer
	pose  map[string]common.Transform
}

// boneAccum is the per-bone compositing accumulator. totalWeight tracks the
// summed weight of the override layers that have contributed so far; it is
// untouched by additive layers.
type boneAccum struct {
	t           common.Transform
	totalWeight float32
	seeded      bool
}

// compositeLayers folds per-layer poses into one final bone map. Override
// layers are resolved first, in layer order, as a running weighted average:
// the first contributor seeds the accumulator verbatim and each subsequent
// one blends in with factor w / (runningTotal + w). Additive layers are then
// applied on top, also in layer order, independent of override resolution.
// Bone masks filter contributions per bone; zero-weight layers never reach
// this function. Bones with no contributing layer are absent from the result.
//
// Parameters:
//   - outputs: contributing layers with their sampled poses, in layer order
//
// Returns:
//   - map[string]common.Transform: the final composited bone transforms
func compositeLayers(outputs []layerOutput) map[string]common.Transform {
	acc := make(map[string]*boneAccum)

	for _, lo := range outputs {
		if lo.layer.mode != BlendOverride {
			continue
		}
		w := lo.layer.weight
		for bone, tr := range lo.pose {
			if !lo.layer.allowsBone(bone) {
				continue
			}
			a := acc[bone]
			if a == nil {
				a = &boneAccum{}
				acc[bone] = a
			}
			if !a.seeded {
				a.t = tr
				a.totalWeight = w
				a.seeded = true
				continue
			}
			f := w / (a.totalWeight + w)
			a.t = common.BlendTransforms(a.t, tr, f)
			a.totalWeight += w
		}
	}

	for _, lo := range outputs {
		if lo.layer.mode != BlendAdditive {
			continue
		}
		w := lo.layer.weight
		for bone, tr := range lo.pose {
			if !lo.layer.allowsBone(bone) {
				continue
			}
			a := acc[bone]
			if a == nil {
				a = &boneAccum{}
				acc[bone] = a
			}
			a.t = applyAdditive(a.t, tr, w)
		}
	}

	final := make(map[string]common.Transform, len(acc))
	for bone, a := range acc {
		final[bone] = a.t
	}
	return final
}

// applyAdditive layers a weighted delta transform on top of base: position
// is vector-added scaled by w, rotation composes slerp(identity, delta, w)
// via quaternion multiplication, and scale multiplies in lerp(1, delta, w).
// Delta components that are absent leave the base untouched; a base without
// a component the delta carries is seeded from the neutral pose first.
func applyAdditive(base, delta common.Transform, w float32) common.Transform {
	identity := [4]float32{0, 0, 0, 1}

	if delta.Components.Has(common.HasTranslation) {
		if !base.Components.Has(common.HasTranslation) {
			base.Translation = [3]float32{}
			base.Components |= common.HasTranslation
		}
		base.Translation[0] += delta.Translation[0] * w
		base.Translation[1] += delta.Translation[1] * w
		base.Translation[2] += delta.Translation[2] * w
	}

	if delta.Components.Has(common.HasRotation) {
		d := common.QuatSlerp(identity, delta.Rotation, w)
		if base.Components.Has(common.HasRotation) {
			base.Rotation = common.QuatMul(base.Rotation, d)
		} else {
			base.Rotation = d
			base.Components |= common.HasRotation
		}
	}

	if delta.Components.Has(common.HasScale) {
		factor := common.Lerp3([3]float32{1, 1, 1}, delta.Scale, w)
		if !base.Components.Has(common.HasScale) {
			base.Scale = [3]float32{1, 1, 1}
			base.Components |= common.HasScale
		}
		base.Scale[0] *= factor[0]
		base.Scale[1] *= factor[1]
		base.Scale[2] *= factor[2]
	}

	return base
}
