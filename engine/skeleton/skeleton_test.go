package skeleton_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
)

func testSkeleton() *skeleton.Skeleton {
	return skeleton.NewSkeleton([]skeleton.Bone{
		{Name: "Hips", ParentIndex: -1},
		{Name: "Spine", ParentIndex: 0},
		{Name: "Head", ParentIndex: 1},
	})
}

func TestNewSkeletonIndexesBones(t *testing.T) {
	s := testSkeleton()

	assert.Equal(t, []int32{0}, s.RootBoneIndices)
	assert.Equal(t, int32(1), s.BoneNameToIndex["Spine"])

	spine := s.BoneByName("Spine")
	require.NotNil(t, spine)
	assert.Equal(t, "Spine", spine.Name)

	assert.Nil(t, s.BoneByName("Tail"))

	var nilSkel *skeleton.Skeleton
	assert.Nil(t, nilSkel.BoneByName("Hips"))
}

func TestBoneByNameReturnsLiveHandle(t *testing.T) {
	s := testSkeleton()

	s.BoneByName("Head").LocalTransform.Translation = [3]float32{0, 1, 0}
	assert.Equal(t, [3]float32{0, 1, 0}, s.Bones[2].LocalTransform.Translation)
}

func TestApplyWritesOnlyPresentComponents(t *testing.T) {
	b := &skeleton.Bone{
		Name: "Hips",
		LocalTransform: common.Transform{
			Translation: [3]float32{9, 9, 9},
			Scale:       [3]float32{2, 2, 2},
			Components:  common.HasTranslation | common.HasScale,
		},
	}

	b.Apply(common.Transform{
		Translation: [3]float32{1, 0, 0},
		Components:  common.HasTranslation,
	})

	assert.Equal(t, [3]float32{1, 0, 0}, b.LocalTransform.Translation)
	// Absent components keep their previous values.
	assert.Equal(t, [3]float32{2, 2, 2}, b.LocalTransform.Scale)
	assert.False(t, b.LocalTransform.Components.Has(common.HasRotation))
}

func TestApplyNormalizesRotation(t *testing.T) {
	b := &skeleton.Bone{Name: "Spine"}

	b.Apply(common.Transform{
		Rotation:   [4]float32{0, 0, 0, 2},
		Components: common.HasRotation,
	})

	assert.InDelta(t, 1.0, b.LocalTransform.Rotation[3], 1e-6)
}

func TestApplyOnNilBoneIsNoOp(t *testing.T) {
	var b *skeleton.Bone
	assert.NotPanics(t, func() {
		b.Apply(common.Transform{Components: common.HasAll})
	})
}
