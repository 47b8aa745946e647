package engine_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine"
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
)

func poseAnimator(t *testing.T) animator.Animator {
	t.Helper()
	a := animator.NewAnimator()
	l := a.AddLayer("base", "Base", 1, animator.BlendOverride)
	require.NotNil(t, l)
	src := clip.NewStatic(map[string]common.Transform{
		"Hips": {Translation: [3]float32{1, 0, 0}, Components: common.HasTranslation},
	})
	require.NotNil(t, l.StateMachine().AddState("pose", "Pose", src))
	return a
}

func TestRunnerTicksAnimators(t *testing.T) {
	a := poseAnimator(t)
	r := engine.NewRunner(
		engine.WithTickRate(200),
		engine.WithAnimator(0, a),
	)

	var ticks atomic.Int32
	r.SetTickCallback(func(dt float32) {
		if ticks.Add(1) >= 5 {
			r.Quit()
		}
	})

	done := make(chan struct{})
	go func() {
		r.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		r.Quit()
		t.Fatal("runner did not quit within deadline")
	}

	assert.GreaterOrEqual(t, ticks.Load(), int32(5))
	assert.Contains(t, a.Pose(), "Hips")
	assert.Greater(t, a.Layers()[0].StateMachine().Context().CurrentTime, float32(0))

	// Quit is idempotent.
	assert.NotPanics(t, func() { r.Quit() })
}

func TestRunnerAnimatorRegistry(t *testing.T) {
	a := poseAnimator(t)
	b := poseAnimator(t)

	r := engine.NewRunner(engine.WithAnimator(1, a))
	r.AddAnimator(2, b)

	assert.Equal(t, a, r.Animator(1))
	assert.Len(t, r.Animators(), 2)

	r.RemoveAnimator(1)
	assert.Nil(t, r.Animator(1))
	assert.Len(t, r.Animators(), 1)

	// Mutating the copy does not touch the registry.
	r.Animators()[9] = a
	assert.Nil(t, r.Animator(9))
}

func TestRunnerSetTickRateBeforeRun(t *testing.T) {
	r := engine.NewRunner()
	assert.NotPanics(t, func() {
		r.SetTickRate(0)
		r.SetTickRate(120)
	})
}
