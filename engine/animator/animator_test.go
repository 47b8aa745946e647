package animator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/event"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
)

func staticPose(bone string, x, y, z float32) clip.Source {
	return clip.NewStatic(map[string]common.Transform{
		bone: {
			Translation: [3]float32{x, y, z},
			Components:  common.HasTranslation,
		},
	})
}

// addPoseLayer creates a layer whose machine holds a single static-pose state,
// so every Update contributes the same transform.
func addPoseLayer(t *testing.T, a animator.Animator, id string, weight float32, mode animator.BlendMode, src clip.Source) *animator.AnimationLayer {
	t.Helper()
	l := a.AddLayer(id, id, weight, mode)
	require.NotNil(t, l)
	require.NotNil(t, l.StateMachine().AddState("pose", "Pose", src))
	return l
}

func TestAddLayerDuplicateAndModeDefault(t *testing.T) {
	a := animator.NewAnimator()
	l := a.AddLayer("base", "Base", 1, animator.BlendMode("bogus"))
	require.NotNil(t, l)
	assert.Equal(t, animator.BlendOverride, l.BlendMode())

	assert.Nil(t, a.AddLayer("base", "Again", 1, animator.BlendOverride))
	assert.Len(t, a.Layers(), 1)
}

func TestLayerWeightClamped(t *testing.T) {
	a := animator.NewAnimator()
	l := a.AddLayer("base", "Base", 1.7, animator.BlendOverride)
	require.NotNil(t, l)
	assert.Equal(t, float32(1), l.Weight())

	require.True(t, a.SetLayerWeight("base", -0.3))
	assert.Equal(t, float32(0), l.Weight())

	assert.False(t, a.SetLayerWeight("missing", 0.5))
}

func TestOverrideLayersWeightedAverage(t *testing.T) {
	a := animator.NewAnimator()
	addPoseLayer(t, a, "lower", 0.5, animator.BlendOverride, staticPose("Hips", 0, 0, 0))
	addPoseLayer(t, a, "upper", 0.5, animator.BlendOverride, staticPose("Hips", 10, 0, 0))

	a.Update(0.016)

	pose := a.Pose()
	require.Contains(t, pose, "Hips")
	assert.InDelta(t, 5.0, pose["Hips"].Translation[0], 1e-4)
}

func TestThreeOverrideLayersRunningAverage(t *testing.T) {
	a := animator.NewAnimator()
	addPoseLayer(t, a, "a", 1, animator.BlendOverride, staticPose("Hips", 0, 0, 0))
	addPoseLayer(t, a, "b", 1, animator.BlendOverride, staticPose("Hips", 6, 0, 0))
	addPoseLayer(t, a, "c", 1, animator.BlendOverride, staticPose("Hips", 9, 0, 0))

	a.Update(0.016)

	// (0*1 + 6*1 + 9*1) / 3 = 5 from the running average.
	pose := a.Pose()
	require.Contains(t, pose, "Hips")
	assert.InDelta(t, 5.0, pose["Hips"].Translation[0], 1e-4)
}

func TestAdditiveLayerIndependentOfOverrides(t *testing.T) {
	a := animator.NewAnimator()
	addPoseLayer(t, a, "lower", 0.5, animator.BlendOverride, staticPose("Hips", 0, 0, 0))
	addPoseLayer(t, a, "upper", 0.5, animator.BlendOverride, staticPose("Hips", 10, 0, 0))
	addPoseLayer(t, a, "recoil", 1.0, animator.BlendAdditive, staticPose("Hips", 1, 0, 0))

	a.Update(0.016)

	pose := a.Pose()
	require.Contains(t, pose, "Hips")
	assert.InDelta(t, 6.0, pose["Hips"].Translation[0], 1e-4)
}

func TestAdditiveWeightScalesDelta(t *testing.T) {
	a := animator.NewAnimator()
	addPoseLayer(t, a, "base", 1, animator.BlendOverride, staticPose("Hips", 2, 0, 0))
	addPoseLayer(t, a, "sway", 0.5, animator.BlendAdditive, staticPose("Hips", 4, 0, 0))

	a.Update(0.016)

	pose := a.Pose()
	require.Contains(t, pose, "Hips")
	assert.InDelta(t, 4.0, pose["Hips"].Translation[0], 1e-4)
}

func TestLayerMaskFiltersBones(t *testing.T) {
	upperPose := clip.NewStatic(map[string]common.Transform{
		"Spine":   {Translation: [3]float32{1, 0, 0}, Components: common.HasTranslation},
		"Head":    {Translation: [3]float32{2, 0, 0}, Components: common.HasTranslation},
		"LeftArm": {Translation: [3]float32{3, 0, 0}, Components: common.HasTranslation},
	})

	a := animator.NewAnimator()
	addPoseLayer(t, a, "upper", 1, animator.BlendOverride, upperPose)
	require.True(t, a.SetLayerMask("upper", []string{"Spine"}))

	a.Update(0.016)

	pose := a.Pose()
	require.Contains(t, pose, "Spine")
	assert.NotContains(t, pose, "Head")
	assert.NotContains(t, pose, "LeftArm")

	l, ok := a.Layer("upper")
	require.True(t, ok)
	assert.Equal(t, []string{"Spine"}, l.Mask())
}

func TestZeroWeightLayerContributesNothing(t *testing.T) {
	a := animator.NewAnimator()
	addPoseLayer(t, a, "base", 1, animator.BlendOverride, staticPose("Hips", 4, 0, 0))
	addPoseLayer(t, a, "ghost", 0, animator.BlendOverride, staticPose("Hips", 100, 0, 0))

	a.Update(0.016)

	pose := a.Pose()
	require.Contains(t, pose, "Hips")
	assert.InDelta(t, 4.0, pose["Hips"].Translation[0], 1e-4)
}

func TestUntouchedBonesAbsentFromPose(t *testing.T) {
	a := animator.NewAnimator()
	addPoseLayer(t, a, "base", 1, animator.BlendOverride, staticPose("Hips", 1, 2, 3))

	a.Update(0.016)

	pose := a.Pose()
	assert.Len(t, pose, 1)
	assert.NotContains(t, pose, "Head")
}

func TestSkeletonWriteBack(t *testing.T) {
	skel := skeleton.NewSkeleton([]skeleton.Bone{
		{Name: "Hips", ParentIndex: -1},
		{Name: "Spine", ParentIndex: 0},
	})

	a := animator.NewAnimator(animator.WithSkeleton(skel))
	addPoseLayer(t, a, "base", 1, animator.BlendOverride, staticPose("Hips", 1, 2, 3))

	a.Update(0.016)

	hips := skel.BoneByName("Hips")
	require.NotNil(t, hips)
	assert.Equal(t, [3]float32{1, 2, 3}, hips.LocalTransform.Translation)

	// Bones no layer touched keep their prior transform.
	spine := skel.BoneByName("Spine")
	require.NotNil(t, spine)
	assert.Equal(t, common.ComponentMask(0), spine.LocalTransform.Components)
}

func TestWriteBackSkipsUnknownBones(t *testing.T) {
	skel := skeleton.NewSkeleton([]skeleton.Bone{{Name: "Hips", ParentIndex: -1}})

	a := animator.NewAnimator(animator.WithSkeleton(skel))
	addPoseLayer(t, a, "base", 1, animator.BlendOverride, staticPose("Tail", 9, 9, 9))

	assert.NotPanics(t, func() { a.Update(0.016) })
}

func TestPauseHaltsAndPlayResumes(t *testing.T) {
	a := animator.NewAnimator()
	addPoseLayer(t, a, "base", 1, animator.BlendOverride, staticPose("Hips", 1, 0, 0))

	require.True(t, a.IsPlaying())
	a.Pause()
	require.False(t, a.IsPlaying())

	a.Update(0.016)
	assert.Empty(t, a.Pose())

	a.Play()
	require.True(t, a.IsPlaying())
	a.Update(0.016)
	assert.Contains(t, a.Pose(), "Hips")
}

func TestStopRewindsAndIsIdempotent(t *testing.T) {
	d := event.NewDispatcher()
	var stops int
	d.Subscribe(func(e event.Event) {
		if e.Type == event.PlaybackStopped {
			stops++
		}
	})

	a := animator.NewAnimator(animator.WithDispatcher(d))
	l := addPoseLayer(t, a, "base", 1, animator.BlendOverride, staticPose("Hips", 1, 0, 0))

	a.Update(0.5)
	require.Greater(t, l.StateMachine().Context().CurrentTime, float32(0))

	a.Stop()
	a.Stop()

	assert.False(t, a.IsPlaying())
	assert.Zero(t, l.StateMachine().Context().CurrentTime)
	assert.Equal(t, 2, stops)
}

func TestGlobalSpeedScalesLayerTime(t *testing.T) {
	a := animator.NewAnimator(animator.WithSpeed(2))
	l := addPoseLayer(t, a, "base", 1, animator.BlendOverride, staticPose("Hips", 1, 0, 0))

	require.Equal(t, float32(2), a.Speed())
	a.Update(0.5)
	assert.InDelta(t, 1.0, l.StateMachine().Context().CurrentTime, 1e-5)

	a.SetSpeed(0.5)
	a.Update(0.5)
	assert.InDelta(t, 1.25, l.StateMachine().Context().CurrentTime, 1e-5)
}

func TestSetParameterRouting(t *testing.T) {
	a := animator.NewAnimator()
	l1 := addPoseLayer(t, a, "legs", 1, animator.BlendOverride, staticPose("Hips", 0, 0, 0))
	l2 := addPoseLayer(t, a, "arms", 1, animator.BlendOverride, staticPose("Hips", 0, 0, 0))

	require.True(t, a.SetParameter("legs", "Speed", common.Number(3)))
	_, ok := l2.StateMachine().Parameter("Speed")
	assert.False(t, ok)

	a.SetGlobalParameter("Grounded", common.Bool(true))
	for _, l := range []*animator.AnimationLayer{l1, l2} {
		v, ok := l.StateMachine().Parameter("Grounded")
		require.True(t, ok)
		assert.True(t, v.B())
	}

	assert.False(t, a.SetParameter("missing", "Speed", common.Number(1)))
}

func TestRemoveLayerPreservesOrder(t *testing.T) {
	d := event.NewDispatcher()
	var removed []string
	d.Subscribe(func(e event.Event) {
		if e.Type == event.LayerRemoved {
			removed = append(removed, e.Name)
		}
	})

	a := animator.NewAnimator(animator.WithDispatcher(d))
	for _, id := range []string{"a", "b", "c"} {
		require.NotNil(t, a.AddLayer(id, id, 1, animator.BlendOverride))
	}

	require.True(t, a.RemoveLayer("b"))
	assert.False(t, a.RemoveLayer("b"))

	layers := a.Layers()
	require.Len(t, layers, 2)
	assert.Equal(t, "a", layers[0].ID())
	assert.Equal(t, "c", layers[1].ID())
	assert.Equal(t, []string{"b"}, removed)

	_, ok := a.Layer("c")
	assert.True(t, ok)
}

func TestAuxClipAppliesAdditively(t *testing.T) {
	a := animator.NewAnimator()
	addPoseLayer(t, a, "base", 1, animator.BlendOverride, staticPose("Hips", 2, 0, 0))

	a.SetAuxClip(staticPose("Hips", 1, 0, 0), 1, true)
	a.Update(0.016)

	pose := a.Pose()
	require.Contains(t, pose, "Hips")
	assert.InDelta(t, 3.0, pose["Hips"].Translation[0], 1e-4)

	a.SetAuxClip(nil, 0, false)
	a.Update(0.016)
	assert.InDelta(t, 2.0, a.Pose()["Hips"].Translation[0], 1e-4)
}

func TestUpdateWithoutLayersIsNoOp(t *testing.T) {
	a := animator.NewAnimator()
	assert.NotPanics(t, func() { a.Update(0.016) })
	assert.Empty(t, a.Pose())
}
