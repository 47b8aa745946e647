// package skeleton provides the bone store the animation engine writes its
// final blended transforms into. The engine never owns bone lifecycle; it
// only looks bones up by name and applies transforms once per frame.
package skeleton

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
)

// Store is the write-back contract consumed by the animator. Bones absent
// from the store are silently skipped by the engine.
type Store interface {
	// BoneByName returns the bone with the given name, or nil when no such
	// bone exists.
	//
	// Parameters:
	//   - name: the bone identifier
	//
	// Returns:
	//   - *Bone: the bone handle, or nil
	BoneByName(name string) *Bone
}

// Bone represents a single bone in a skeleton hierarchy.
type Bone struct {
	// Name is the bone's identifier (for animation targeting).
	Name string

	// ParentIndex is the index of the parent bone (-1 for root bones).
	ParentIndex int32

	// LocalTransform is the bone's transform relative to its parent.
	// Updated each frame by the animator's write-back pass.
	LocalTransform common.Transform
}

// Apply writes the present components of t onto the bone's local transform.
// Absent components retain their previous value.
//
// Parameters:
//   - t: the blended transform to apply
func (b *Bone) Apply(t common.Transform) {
	if b == nil {
		return
	}
	if t.Components.Has(common.HasTranslation) {
		b.LocalTransform.Translation = t.Translation
		b.LocalTransform.Components |= common.HasTranslation
	}
	if t.Components.Has(common.HasRotation) {
		b.LocalTransform.Rotation = common.QuatNormalize(t.Rotation)
		b.LocalTransform.Components |= common.HasRotation
	}
	if t.Components.Has(common.HasScale) {
		b.LocalTransform.Scale = t.Scale
		b.LocalTransform.Components |= common.HasScale
	}
}

// Skeleton represents a bone hierarchy for skeletal animation.
type Skeleton struct {
	// Bones is the array of all bones in the skeleton.
	Bones []Bone

	// RootBoneIndices are indices of bones with no parent.
	RootBoneIndices []int32

	// BoneNameToIndex maps bone names to their indices for quick lookup.
	BoneNameToIndex map[string]int32
}

var _ Store = &Skeleton{}

// NewSkeleton creates a skeleton from a bone list, building the name index
// and the root bone list from each bone's name and parent index.
//
// Parameters:
//   - bones: the bones in hierarchy order (parents before children)
//
// Returns:
//   - *Skeleton: the constructed skeleton
func NewSkeleton(bones []Bone) *Skeleton {
	s := &Skeleton{
		Bones:           bones,
		BoneNameToIndex: make(map[string]int32, len(bones)),
	}
	for i := range bones {
		s.BoneNameToIndex[bones[i].Name] = int32(i)
		if bones[i].ParentIndex < 0 {
			s.RootBoneIndices = append(s.RootBoneIndices, int32(i))
		}
	}
	return s
}

func (s *Skeleton) BoneByName(name string) *Bone {
	if s == nil {
		return nil
	}
	idx, ok := s.BoneNameToIndex[name]
	if !ok {
		return nil
	}
	return &s.Bones[idx]
}
